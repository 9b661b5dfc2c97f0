package ttylog

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/josephlewis42/bsh/core/vos/vostest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeConversions(t *testing.T) {
	cases := map[string]struct {
		microseconds int64
		seconds      float64
	}{
		"precision": {
			microseconds: 1,
			seconds:      1e-6,
		},
		"negative": {
			microseconds: -631119539e6,
			seconds:      -631119539,
		},
		"positive": {
			microseconds: 631119539e6,
			seconds:      631119539,
		},
		"bigprecise": {
			microseconds: 123456789987654,
			seconds:      123456789.987654,
		},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			s2m := secondsToMicroseconds(tc.seconds)
			m2s := microsecondsToSeconds(tc.microseconds)

			// Only allow delta to be to the NS
			assert.InDelta(t, m2s, tc.seconds, float64(time.Nanosecond)/float64(time.Second))
			assert.Equal(t, s2m, tc.microseconds)
		})
	}
}

func fakeClock(start time.Time, step time.Duration) func() time.Time {
	now := start
	return func() time.Time {
		t := now
		now = now.Add(step)
		return t
	}
}

func TestAsciicast_roundTrip(t *testing.T) {
	files := vostest.NewBufferIO("ignored\n")
	buf := &bytes.Buffer{}

	rec := NewRecorder(files, NewAsciicastLogSink(buf, "test"))
	rec.Now = fakeClock(time.Unix(1000, 0), 500*time.Millisecond)

	fmt.Fprint(rec.Stdout(), "> ")
	fmt.Fprint(rec.Stderr(), "bsh: oops\n")
	fmt.Fprint(rec.Stdout(), "")
	fmt.Fprint(rec.Stdout(), "done\n")

	assert.Equal(t, "> done\n", files.Out.String())
	assert.Equal(t, "bsh: oops\n", files.Err.String())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.JSONEq(t, `{
		"version": 2,
		"width": 80,
		"height": 24,
		"timestamp": 1000,
		"title": "test",
		"env": {"SHELL": "bsh", "TERM": "xterm-256color"}
	}`, lines[0])
	assert.Equal(t, `[0,"o","\u003e "]`, lines[1])
	assert.Equal(t, `[0.5,"o","bsh: oops\n"]`, lines[2])
	assert.Equal(t, `[1,"o","done\n"]`, lines[3])

	source := NewAsciicastLogSource(strings.NewReader(buf.String() + "\n[2, \"x\", \"skipped\"]\n"))
	header, err := source.Header()
	require.Nil(t, err)
	assert.Equal(t, "test", header.Title)

	out := &bytes.Buffer{}
	var times []int64
	err = Replay(source, func(e *Entry) error {
		times = append(times, e.TimestampMicros)
		return NewClientOutput(out)(e)
	})
	require.Nil(t, err)
	assert.Equal(t, "> bsh: oops\ndone\n", out.String())
	assert.Equal(t, []int64{0, 500000, 1000000}, times)
}

func TestAsciicastLogSource_errors(t *testing.T) {
	cases := map[string]string{
		"empty":       "",
		"bad header":  "not json\n",
		"old version": `{"version": 1}` + "\n",
		"bad line":    `{"version": 2}` + "\n[1, 2]\n",
		"bad types":   `{"version": 2}` + "\n[\"1\", \"o\", \"x\"]\n",
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			err := Replay(NewAsciicastLogSource(strings.NewReader(tc)), func(*Entry) error {
				return nil
			})
			assert.NotNil(t, err)
		})
	}
}

func TestNewClientOutput_skipsInput(t *testing.T) {
	out := &bytes.Buffer{}
	sink := NewClientOutput(out)

	require.Nil(t, sink(&Entry{FD: FDStdin, Data: []byte("typed")}))
	require.Nil(t, sink(&Entry{FD: FDStderr, Data: []byte("err")}))
	assert.Equal(t, "err", out.String())
}

func TestNewRealTimePlayback(t *testing.T) {
	var got []int64
	sink := NewRealTimePlayback(time.Millisecond, func(e *Entry) error {
		got = append(got, e.TimestampMicros)
		return nil
	})

	start := time.Now()
	for _, ts := range []int64{10, 5e6, 10e6} {
		require.Nil(t, sink(&Entry{TimestampMicros: ts}))
	}

	assert.Equal(t, []int64{10, 5e6, 10e6}, got)
	assert.Less(t, int64(time.Since(start)), int64(time.Second))
}

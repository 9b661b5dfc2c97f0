// Package ttylog records the terminal traffic of a shell session and plays
// it back.
package ttylog

import (
	"errors"
	"io"
	"log"
	"sync"
	"time"

	"github.com/josephlewis42/bsh/core/vos"
)

// FD identifies the stream an event was seen on.
type FD int

const (
	FDStdin FD = iota
	FDStdout
	FDStderr
)

// Entry is a single chunk of terminal traffic.
type Entry struct {
	TimestampMicros int64
	FD              FD
	Data            []byte
}

// LogSink receives log events.
type LogSink func(e *Entry) error

// LogSource adapts log readers.
type LogSource interface {
	// Next fetches the next available log entry. It returns io.EOF if the source
	// has no more log entries.
	Next() (*Entry, error)
}

// NewRealTimePlayback plays back the results in real-time.
// If maxSleep > 0, it's used as the maximum duration to pause.
func NewRealTimePlayback(maxSleep time.Duration, next LogSink) LogSink {
	var once sync.Once
	var prevTimeMicros int64

	return func(e *Entry) error {
		once.Do(func() {
			prevTimeMicros = e.TimestampMicros
		})

		delta := e.TimestampMicros - prevTimeMicros
		prevTimeMicros = e.TimestampMicros

		if maxSleep > 0 {
			sleepDuration := time.Duration(delta) * time.Microsecond
			if sleepDuration > maxSleep {
				sleepDuration = maxSleep
			}
			time.Sleep(sleepDuration)
		}

		return next(e)
	}
}

// NewClientOutput writes stdout and stderr to the given writer.
func NewClientOutput(w io.Writer) LogSink {
	return func(e *Entry) error {
		if e.FD == FDStdin {
			return nil
		}
		_, err := w.Write(e.Data)
		return err
	}
}

// Replay reads a stream of events to a callback.
func Replay(recording LogSource, callback LogSink) error {
	for {
		e, err := recording.Next()
		switch {
		case errors.Is(err, io.EOF):
			return nil
		case err != nil:
			return err
		}

		if err := callback(e); err != nil {
			return err
		}
	}
}

// Recorder is a VIO that forwards everything written through it to a sink.
type Recorder struct {
	*vos.VIOAdapter

	// Now is used to timestamp entries.
	Now func() time.Time

	mutex  sync.Mutex
	output LogSink
}

var _ vos.VIO = (*Recorder)(nil)

func (r *Recorder) record(fd FD, data []byte) {
	if len(data) == 0 {
		return
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	err := r.output(&Entry{
		TimestampMicros: r.Now().UnixMicro(),
		FD:              fd,
		Data:            append([]byte(nil), data...),
	})
	if err != nil {
		log.Printf("Error recording terminal: %v", err)
	}
}

type recordingWriter struct {
	r       *Recorder
	fd      FD
	wrapped io.WriteCloser
}

func (wc *recordingWriter) Write(p []byte) (int, error) {
	n, err := wc.wrapped.Write(p)
	wc.r.record(wc.fd, p[:n])
	return n, err
}

func (wc *recordingWriter) Close() error {
	return wc.wrapped.Close()
}

// Fd exposes the wrapped descriptor so terminal detection sees through the
// recorder.
func (wc *recordingWriter) Fd() uintptr {
	if f, ok := wc.wrapped.(interface{ Fd() uintptr }); ok {
		return f.Fd()
	}
	return ^uintptr(0)
}

// NewRecorder wraps the output streams of toWrap and forwards their traffic
// to output. Stdin is passed through untouched so programs launched by the
// shell can share it with the line reader.
func NewRecorder(toWrap vos.VIO, output LogSink) *Recorder {
	recorder := &Recorder{
		Now:    time.Now,
		output: output,
	}

	recorder.VIOAdapter = vos.NewVIOAdapter(
		toWrap.Stdin(),
		&recordingWriter{r: recorder, fd: FDStdout, wrapped: toWrap.Stdout()},
		&recordingWriter{r: recorder, fd: FDStderr, wrapped: toWrap.Stderr()},
	)

	return recorder
}

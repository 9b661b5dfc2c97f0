package ttylog

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"
)

// AsciicastFileExt holds the suggested file extension for asciicast files.
const AsciicastFileExt = "cast"

// AsciicastHeader is the first line of an asciicast v2 file.
type AsciicastHeader struct {
	Version   int               `json:"version"`
	Width     int               `json:"width"`
	Height    int               `json:"height"`
	Timestamp int64             `json:"timestamp,omitempty"`
	Title     string            `json:"title,omitempty"`
	Env       map[string]string `json:"env,omitempty"`
}

func writeJSONLine(w io.Writer, structure interface{}) error {
	line, err := json.Marshal(structure)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(w, "%s\n", line)
	return err
}

// NewAsciicastLogSink creates a LogSink compatible with the asciicast v2
// format. The header is written with the first entry.
//
// See: https://github.com/asciinema/asciinema/blob/develop/doc/asciicast-v2.md
func NewAsciicastLogSink(w io.Writer, title string) LogSink {
	var (
		firstLogTimeMicros int64
		once               sync.Once
	)

	return func(e *Entry) error {
		var headerErr error
		once.Do(func() {
			firstLogTimeMicros = e.TimestampMicros
			// Generic settings that display most outputs.
			headerErr = writeJSONLine(w, &AsciicastHeader{
				Version:   2,
				Width:     80,
				Height:    24,
				Timestamp: time.UnixMicro(firstLogTimeMicros).Unix(),
				Title:     title,
				Env: map[string]string{
					"TERM":  "xterm-256color",
					"SHELL": "bsh",
				},
			})
		})
		if headerErr != nil {
			return headerErr
		}

		// Asciicast doesn't support stderr so it's collapsed into stdout.
		direction := "o"
		if e.FD == FDStdin {
			direction = "i"
		}

		return writeJSONLine(w, &asciicastLogLine{
			TimeSeconds: microsecondsToSeconds(e.TimestampMicros - firstLogTimeMicros),
			EventType:   direction,
			EventData:   string(e.Data),
		})
	}
}

// AsciicastLogSource reads entries from an asciicast v2 file.
type AsciicastLogSource struct {
	r *bufio.Reader

	header     AsciicastHeader
	readHeader bool
}

var _ LogSource = (*AsciicastLogSource)(nil)

// NewAsciicastLogSource reads log events from an Asciicast formatted file.
func NewAsciicastLogSource(r io.Reader) *AsciicastLogSource {
	return &AsciicastLogSource{r: bufio.NewReader(r)}
}

// Header returns the file header, it's read on first use.
func (log *AsciicastLogSource) Header() (*AsciicastHeader, error) {
	if log.readHeader {
		return &log.header, nil
	}

	line, err := log.r.ReadBytes('\n')
	switch {
	case errors.Is(err, io.EOF) && len(line) == 0:
		return nil, io.ErrUnexpectedEOF
	case err != nil && !errors.Is(err, io.EOF):
		return nil, err
	}
	if err := json.Unmarshal(line, &log.header); err != nil {
		return nil, fmt.Errorf("malformed header: %w", err)
	}
	if log.header.Version != 2 {
		return nil, fmt.Errorf("unsupported asciicast version %d", log.header.Version)
	}

	log.readHeader = true
	return &log.header, nil
}

// Next gets the next log entry, it returns io.EOF if there are no more.
// Timestamps are relative to the start of the recording.
func (log *AsciicastLogSource) Next() (*Entry, error) {
	if _, err := log.Header(); err != nil {
		return nil, err
	}

	for {
		line, err := log.r.ReadBytes('\n')
		if len(line) == 0 && err != nil {
			return nil, err
		}

		if len(line) == 1 {
			// Skip blank lines
			continue
		}

		var asciicastLine asciicastLogLine
		if err := json.Unmarshal(line, &asciicastLine); err != nil {
			return nil, err
		}

		var fd FD
		switch asciicastLine.EventType {
		case "o":
			fd = FDStdout
		case "i":
			fd = FDStdin
		default:
			// skip unknown events
			continue
		}

		return &Entry{
			TimestampMicros: secondsToMicroseconds(asciicastLine.TimeSeconds),
			FD:              fd,
			Data:            []byte(asciicastLine.EventData),
		}, nil
	}
}

type asciicastLogLine struct {
	TimeSeconds float64
	EventType   string
	EventData   string
}

func (line *asciicastLogLine) UnmarshalJSON(data []byte) error {
	var v []interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	if count := len(v); count != 3 {
		return fmt.Errorf("malformed line, expected 3 entries got %d", count)
	}

	var timeOk, typeOk, dataOk bool
	line.TimeSeconds, timeOk = v[0].(float64)
	line.EventType, typeOk = v[1].(string)
	line.EventData, dataOk = v[2].(string)

	if !timeOk || !typeOk || !dataOk {
		return fmt.Errorf("malformed data in line: %q", v)
	}

	return nil
}

func (line *asciicastLogLine) MarshalJSON() ([]byte, error) {
	return json.Marshal([]interface{}{line.TimeSeconds, line.EventType, line.EventData})
}

func microsecondsToSeconds(microseconds int64) (seconds float64) {
	return (float64(microseconds) * float64(time.Microsecond)) / float64(time.Second)
}

func secondsToMicroseconds(seconds float64) (microseconds int64) {
	return int64(seconds*float64(time.Second)) / int64(time.Microsecond)
}

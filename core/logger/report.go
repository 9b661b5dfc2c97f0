package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
)

// ReadJSONLinesLog parses a newline delimited JSON log.
func ReadJSONLinesLog(r io.Reader, handler func(le *LogEntry)) error {
	decoder := json.NewDecoder(r)
	for decoder.More() {
		var logEntry LogEntry
		if err := decoder.Decode(&logEntry); err != nil {
			return err
		}

		handler(&logEntry)
	}
	return nil
}

// Report holds statistics about the logged events.
type Report struct {
	LogEntries     int        `json:"log_entries"`
	InvalidEntries StrCounter `json:"unknown_log_entries,omitempty"`

	Sessions SessionReport `json:"session_report"`
	Command  CommandReport `json:"command_report"`
}

func (r *Report) Update(le *LogEntry) {
	r.LogEntries++

	switch event := le.GetLogType().(type) {
	case *SessionStart:
		r.Sessions.Started++
	case *SessionEnd:
		r.Sessions.update(event)
	case *Command:
		r.Command.update(event)
	default:
		r.InvalidEntries.Increment(fmt.Sprintf("%T", event))
	}
}

type SessionReport struct {
	Started int `json:"started"`
	// Reasons the sessions ended and their counts.
	EndReasons StrCounter `json:"end_reasons"`
	Errors     []string   `json:"errors,omitempty"`
}

func (r *SessionReport) update(e *SessionEnd) {
	r.EndReasons.Increment(e.Reason)
	if e.Error != "" {
		r.Errors = append(r.Errors, e.Error)
	}
}

type CommandReport struct {
	// Dispatch kinds and their counts.
	Kinds StrCounter `json:"kinds"`
	// Command names and their counts, blank lines are excluded.
	CommandNames StrCounter `json:"command_names"`
	// Commands that couldn't be started.
	LaunchFailures *PathCounter `json:"launch_failures"`
	// External commands that didn't exit successfully.
	Failures *PathCounter `json:"failures"`
}

func (r *CommandReport) update(c *Command) {
	if r.LaunchFailures == nil {
		r.LaunchFailures = NewPathCounter("command", "error")
	}
	if r.Failures == nil {
		r.Failures = NewPathCounter("command", "status")
	}

	r.Kinds.Increment(string(c.Kind))
	if c.Kind == KindBlank {
		return
	}
	r.CommandNames.Increment(c.Name())

	switch {
	case c.Error != "":
		r.LaunchFailures.Increment(c.Name(), c.Error)
	case c.Signal != "":
		r.Failures.Increment(c.Name(), "signal: "+c.Signal)
	case c.ExitCode != nil && *c.ExitCode != 0:
		r.Failures.Increment(c.Name(), fmt.Sprintf("exit status %d", *c.ExitCode))
	}
}

// SessionTranscript lists the commands run in each session.
type SessionTranscript struct {
	// Map of sessionID -> command lines
	commands map[string][]string
}

func (t *SessionTranscript) init() {
	if t.commands == nil {
		t.commands = make(map[string][]string)
	}
}

// MarshalJSON implemnts custom JSON marshaler.
func (t *SessionTranscript) MarshalJSON() ([]byte, error) {
	t.init()

	return json.Marshal(t.commands)
}

// Commands returns the command lines seen for a session.
func (t *SessionTranscript) Commands(sessionID string) []string {
	t.init()
	return t.commands[sessionID]
}

func (t *SessionTranscript) Update(le *LogEntry) {
	t.init()

	if le.SessionID == "" || le.Command == nil || le.Command.Kind == KindBlank {
		return
	}
	t.commands[le.SessionID] = append(t.commands[le.SessionID], strings.Join(le.Command.Argv, " "))
}

// StrCounter counts the number of strings seen.
type StrCounter struct {
	internal map[string]int
}

// Increment adds one to the given key.
func (s *StrCounter) Increment(toAdd string) {
	if s.internal == nil {
		s.internal = make(map[string]int)
	}

	s.internal[toAdd]++
}

// Get returns the count for a key.
func (s *StrCounter) Get(key string) int {
	return s.internal[key]
}

// MarshalJSON implemnts custom JSON marshaler.
func (s StrCounter) MarshalJSON() ([]byte, error) {
	if s.internal == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(s.internal)
}

func NewPathCounter(cols ...string) *PathCounter {
	return &PathCounter{
		cols:     cols,
		internal: make(map[string]int),
	}
}

// PathCounter counts the number of unique tuples seen.
type PathCounter struct {
	cols     []string
	internal map[string]int
}

// Increment adds one to the given key.
func (ctr *PathCounter) Increment(toAdd ...string) {
	if len(toAdd) != len(ctr.cols) {
		panic("wrong number of columns to add")
	}

	ctr.internal[toKey(toAdd...)]++
}

// Get returns the count for a tuple.
func (ctr *PathCounter) Get(vals ...string) int {
	if ctr == nil {
		return 0
	}
	return ctr.internal[toKey(vals...)]
}

// MarshalJSON implemnts custom JSON marshaler.
func (ctr *PathCounter) MarshalJSON() ([]byte, error) {
	type Count struct {
		Count  int               `json:"count"`
		Fields map[string]string `json:"event"`
		Path   string            `json:"-"`
	}

	out := []Count{}
	if ctr == nil {
		return json.Marshal(out)
	}

	for k, v := range ctr.internal {
		count := Count{
			Count:  v,
			Path:   k,
			Fields: make(map[string]string),
		}

		splitPath := fromKey(k)
		for colNum, colVal := range ctr.cols {
			count.Fields[colVal] = splitPath[colNum]
		}

		out = append(out, count)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Count == out[j].Count {
			return out[i].Path < out[j].Path
		}
		return out[i].Count > out[j].Count
	})

	return json.Marshal(out)
}

func toKey(vals ...string) string {
	key, _ := json.Marshal(vals)
	return string(key)
}

func fromKey(key string) (out []string) {
	json.Unmarshal([]byte(key), &out)
	return
}

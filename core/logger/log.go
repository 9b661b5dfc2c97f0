package logger

// CommandKind is how a command line was dispatched.
type CommandKind string

const (
	KindBlank    CommandKind = "blank"
	KindBuiltin  CommandKind = "builtin"
	KindExternal CommandKind = "external"
)

// LogEntry is a single line of the event log, exactly one of the event
// fields is set.
type LogEntry struct {
	TimestampMicros int64  `json:"timestamp_micros"`
	SessionID       string `json:"session_id"`

	SessionStart *SessionStart `json:"session_start,omitempty"`
	Command      *Command      `json:"command,omitempty"`
	SessionEnd   *SessionEnd   `json:"session_end,omitempty"`
}

// GetLogType returns the event held by the entry or nil.
func (le *LogEntry) GetLogType() LogType {
	switch {
	case le.SessionStart != nil:
		return le.SessionStart
	case le.Command != nil:
		return le.Command
	case le.SessionEnd != nil:
		return le.SessionEnd
	default:
		return nil
	}
}

// LogType is implemented by every event that can be recorded.
type LogType interface {
	setOn(le *LogEntry)
}

// SessionStart is recorded before the first prompt.
type SessionStart struct {
	Workdir     string `json:"workdir"`
	Interactive bool   `json:"interactive"`
}

func (e *SessionStart) setOn(le *LogEntry) { le.SessionStart = e }

// Command is recorded after each line is dispatched.
type Command struct {
	Argv []string    `json:"argv"`
	Kind CommandKind `json:"kind"`
	// Status is the execution status, zero stops the shell.
	Status int `json:"status"`

	// ExitCode and Signal are set for external commands that were waited on.
	ExitCode *int   `json:"exit_code,omitempty"`
	Signal   string `json:"signal,omitempty"`

	// Error holds the diagnostic if the command failed to run.
	Error string `json:"error,omitempty"`
}

func (e *Command) setOn(le *LogEntry) { le.Command = e }

// Name returns the command name, empty for blank lines.
func (e *Command) Name() string {
	if len(e.Argv) == 0 {
		return ""
	}
	return e.Argv[0]
}

// SessionEnd is recorded when the loop stops.
type SessionEnd struct {
	// Reason is one of "exit", "eof" or "error".
	Reason string `json:"reason"`
	Error  string `json:"error,omitempty"`
}

func (e *SessionEnd) setOn(le *LogEntry) { le.SessionEnd = e }

package shell

// Status is returned by every dispatched command. Zero stops the shell, any
// other value keeps it running.
type Status int

const (
	StatusExit     Status = 0
	StatusContinue Status = 1
)

// Continue returns true if the shell should keep reading commands.
func (s Status) Continue() bool {
	return s != StatusExit
}

func (s Status) String() string {
	if s.Continue() {
		return "continue"
	}
	return "exit"
}

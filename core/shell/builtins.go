package shell

import (
	"fmt"
)

// Builtin is a command that runs inside the shell process.
type Builtin interface {
	Main(s *Shell, args []string) Status
}

type BuiltinFunc func(s *Shell, args []string) Status

func (f BuiltinFunc) Main(s *Shell, args []string) Status {
	return f(s, args)
}

var _ Builtin = (BuiltinFunc)(nil)

// BuiltinEntry pairs a command name with its implementation.
type BuiltinEntry struct {
	Name    string
	Builtin Builtin
}

// Registry is an ordered list of builtins. It can't be modified after it's
// created.
type Registry struct {
	entries []BuiltinEntry
}

// NewRegistry creates a registry holding a copy of entries.
func NewRegistry(entries ...BuiltinEntry) *Registry {
	return &Registry{entries: append([]BuiltinEntry(nil), entries...)}
}

// Lookup finds the builtin whose name exactly matches name.
func (r *Registry) Lookup(name string) (Builtin, bool) {
	for _, entry := range r.entries {
		if entry.Name == name {
			return entry.Builtin, true
		}
	}
	return nil, false
}

// Names lists the builtin names in registration order.
func (r *Registry) Names() []string {
	var out []string
	for _, entry := range r.entries {
		out = append(out, entry.Name)
	}
	return out
}

// DefaultBuiltins holds the shell's builtins.
var DefaultBuiltins = NewRegistry(
	BuiltinEntry{Name: "cd", Builtin: BuiltinFunc(Cd)},
	BuiltinEntry{Name: "help", Builtin: BuiltinFunc(Help)},
	BuiltinEntry{Name: "exit", Builtin: BuiltinFunc(Exit)},
)

// Cd is the cd shell builtin. Failing to change directory never stops the
// shell.
func Cd(s *Shell, args []string) Status {
	if len(args) < 2 {
		s.errorf("expected argument to %q", args[0])
		return StatusContinue
	}

	if err := s.Dir.Chdir(args[1]); err != nil {
		s.errorf("%v", err)
	}
	return StatusContinue
}

// Help lists the builtins.
func Help(s *Shell, args []string) Status {
	w := s.IO.Stdout()
	fmt.Fprintln(w, "bsh, a homemade shell")
	fmt.Fprintln(w, "Type program names and arguments, and hit enter.")
	fmt.Fprintln(w, "The following are built in:")

	for _, name := range s.Builtins.Names() {
		fmt.Fprintf(w, "  %s\n", name)
	}

	fmt.Fprintln(w, "Use the man command for information on other programs.")
	return StatusContinue
}

// Exit quits the shell
func Exit(s *Shell, args []string) Status {
	return StatusExit
}

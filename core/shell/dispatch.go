package shell

import (
	"github.com/josephlewis42/bsh/core/logger"
)

// Dispatch runs a tokenized command line. Builtins always take precedence
// over external programs of the same name.
func (s *Shell) Dispatch(args []string) Status {
	event := &logger.Command{Argv: args}
	status := s.dispatch(args, event)
	event.Status = int(status)

	s.record(event)
	return status
}

func (s *Shell) dispatch(args []string, event *logger.Command) Status {
	if len(args) == 0 {
		event.Kind = logger.KindBlank
		return StatusContinue
	}

	if builtin, ok := s.Builtins.Lookup(args[0]); ok {
		event.Kind = logger.KindBuiltin
		return builtin.Main(s, args)
	}

	event.Kind = logger.KindExternal
	return s.launch(args, event)
}

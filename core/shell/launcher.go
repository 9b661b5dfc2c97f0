package shell

import (
	"github.com/josephlewis42/bsh/core/logger"
	"github.com/josephlewis42/bsh/core/vos"
)

// launch starts an external program and blocks until it terminates. The
// program's own exit status never stops the shell.
func (s *Shell) launch(argv []string, event *logger.Command) Status {
	proc, err := s.Launcher.Start(argv, &vos.ProcAttr{
		Files: s.IO,
	})
	if err != nil {
		s.errorf("%v", err)
		event.Error = err.Error()
		return StatusContinue
	}

	state, err := proc.Wait()
	if err != nil {
		s.errorf("%s: %v", argv[0], err)
		event.Error = err.Error()
		return StatusContinue
	}

	code := state.Code
	event.ExitCode = &code
	event.Signal = state.Signal
	return StatusContinue
}

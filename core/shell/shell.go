package shell

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/fatih/color"
	"github.com/josephlewis42/bsh/core/config"
	"github.com/josephlewis42/bsh/core/logger"
	"github.com/josephlewis42/bsh/core/vos"
	"github.com/spf13/afero"
)

type state int

const (
	stateRunning state = iota
	stateStopped
)

// Shell is a single interactive session.
type Shell struct {
	IO        vos.VIO
	Dir       vos.WorkingDir
	Launcher  vos.Launcher
	Reader    LineReader
	Tokenizer Tokenizer
	Builtins  *Registry
	Prompt    string

	// Events receives session events.
	Events *logger.SessionLogger
	// ErrColor is applied to diagnostics, nil disables color.
	ErrColor *color.Color

	state   state
	toClose listCloser
}

// NewShell creates a shell on the host OS using the given streams. Files
// named in the configuration are opened on fsys.
func NewShell(files vos.VIO, cfg *config.Configuration, fsys afero.Fs) (*Shell, error) {
	s := &Shell{
		IO:        files,
		Dir:       vos.OSWorkingDir{},
		Launcher:  vos.NewOSLauncher(),
		Tokenizer: newTokenizer(cfg),
		Builtins:  DefaultBuiltins,
		Prompt:    cfg.Prompt,
		Events:    logger.NewNopLogger().NewSession(),
		ErrColor:  newErrColor(cfg.Color, files.Stderr()),
	}

	if cfg.Readline && vos.IsTerminal(files.Stdin()) {
		rl, err := NewReadlineLineReader(ReadlineOptions{
			Stdin:       files.Stdin(),
			Stdout:      files.Stdout(),
			Stderr:      files.Stderr(),
			HistoryFile: cfg.HistoryFile,
		})
		if err != nil {
			return nil, err
		}
		rl.MaxSize = cfg.MaxLineSize
		s.Reader = rl
		s.toClose = append(s.toClose, rl)
	} else {
		br := NewBufferedLineReader(files.Stdin(), files.Stdout())
		br.BufferSize = cfg.LineBufferSize
		br.MaxSize = cfg.MaxLineSize
		s.Reader = br
	}

	if cfg.EventLog != "" {
		fd, err := fsys.OpenFile(cfg.EventLog, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
		if err != nil {
			s.Close()
			return nil, err
		}
		s.toClose = append(s.toClose, fd)
		s.Events = logger.NewJsonLinesLogRecorder(fd).NewSession()
	}

	return s, nil
}

func newTokenizer(cfg *config.Configuration) Tokenizer {
	if cfg.Tokenizer == config.TokenizerShlex {
		return &ShlexTokenizer{MaxTokens: cfg.MaxTokens}
	}
	return &FieldsTokenizer{
		BufferSize: cfg.TokenBufferSize,
		MaxTokens:  cfg.MaxTokens,
	}
}

func newErrColor(setting string, stderr io.Writer) *color.Color {
	switch {
	case setting == config.ColorNever:
		return nil
	case setting == config.ColorAuto && !vos.IsTerminal(stderr):
		return nil
	}

	c := color.New(color.FgRed)
	c.EnableColor()
	return c
}

// Init records the start of the session, it's called by Run.
func (s *Shell) Init() {
	wd, _ := s.Dir.Getwd()
	_, interactive := s.Reader.(*ReadlineLineReader)
	s.record(&logger.SessionStart{Workdir: wd, Interactive: interactive})
}

// Run reads and executes commands until exit is called or input ends.
//
// A nil error means the shell stopped normally. Failing to read input or a
// line that exceeds the configured limits stops the shell with an error and
// the offending command is never run.
func (s *Shell) Run() error {
	s.Init()

	for s.state == stateRunning {
		line, err := s.Reader.ReadLine(s.Prompt)
		switch {
		case errors.Is(err, io.EOF):
			s.stop("eof", nil)
			return nil
		case err != nil:
			s.stop("error", err)
			return err
		}

		args, err := s.Tokenizer.Split(line)
		var syntaxErr *SyntaxError
		switch {
		case errors.As(err, &syntaxErr):
			s.errorf("%v", err)
			continue
		case err != nil:
			s.stop("error", err)
			return err
		}

		if status := s.Dispatch(args); !status.Continue() {
			s.stop("exit", nil)
		}
	}

	return nil
}

func (s *Shell) stop(reason string, err error) {
	s.state = stateStopped

	event := &logger.SessionEnd{Reason: reason}
	if err != nil {
		event.Error = err.Error()
	}
	s.record(event)
}

// Stopped returns true once the shell has stopped reading commands.
func (s *Shell) Stopped() bool {
	return s.state == stateStopped
}

// Close releases the line editor and event log.
func (s *Shell) Close() error {
	return s.toClose.Close()
}

func (s *Shell) record(event logger.LogType) {
	if s.Events == nil {
		return
	}
	if err := s.Events.Record(event); err != nil {
		log.Printf("Error recording event: %v", err)
	}
}

// errorf writes a diagnostic to stderr.
func (s *Shell) errorf(format string, a ...interface{}) {
	msg := "bsh: " + fmt.Sprintf(format, a...)
	if s.ErrColor != nil {
		msg = s.ErrColor.Sprint(msg)
	}
	fmt.Fprintln(s.IO.Stderr(), msg)
}

type listCloser []io.Closer

func (lc listCloser) Close() error {
	var lastErr error
	for _, v := range lc {
		if err := v.Close(); err != nil {
			lastErr = err
		}
	}

	return lastErr
}

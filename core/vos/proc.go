package vos

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/afero"
)

var (
	// ErrNotFound is the error resulting if a path search failed to find an executable file.
	ErrNotFound = exec.ErrNotFound

	// ErrNoCommand is returned when a process is started with an empty argv.
	ErrNoCommand = errors.New("no command")
)

func findExecutable(fsys afero.Fs, file string) error {
	d, err := fsys.Stat(file)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return ErrNotFound
	case err != nil:
		return err
	}
	if m := d.Mode(); !m.IsDir() && m&0111 != 0 {
		return nil
	}
	return fs.ErrPermission
}

// LookPath searches for an executable named file in the directories named by
// path, a list in the form of the PATH environment variable. If file contains
// a slash, it is tried directly and path is not consulted. The result may be
// an absolute path or a path relative to the current directory.
func LookPath(fsys afero.Fs, path, file string) (string, error) {
	if strings.Contains(file, "/") {
		err := findExecutable(fsys, file)
		if err == nil {
			return file, nil
		}
		return "", err
	}
	for _, dir := range filepath.SplitList(path) {
		if dir == "" {
			// Unix shell semantics: path element "" means "."
			dir = "."
		}
		path := filepath.Join(dir, file)
		if err := findExecutable(fsys, path); err == nil {
			return path, nil
		}
	}
	return "", ErrNotFound
}

// OSLauncher starts real processes on the host.
type OSLauncher struct {
	// Fs is searched when resolving command names.
	Fs afero.Fs
	// Getenv looks up PATH when ProcAttr.Env is nil.
	Getenv func(key string) string
}

var _ Launcher = (*OSLauncher)(nil)

// NewOSLauncher creates a launcher backed by the host OS.
func NewOSLauncher() *OSLauncher {
	return &OSLauncher{
		Fs:     afero.NewOsFs(),
		Getenv: os.Getenv,
	}
}

// Start implements Launcher.Start.
func (l *OSLauncher) Start(argv []string, attr *ProcAttr) (Process, error) {
	if len(argv) == 0 {
		return nil, ErrNoCommand
	}
	if attr == nil {
		attr = &ProcAttr{}
	}

	searchPath := l.Getenv("PATH")
	if attr.Env != nil {
		searchPath = lookupEnvList(attr.Env, "PATH")
	}

	execPath, err := LookPath(l.Fs, searchPath, argv[0])
	if err != nil {
		return nil, fmt.Errorf("%s: %w", argv[0], err)
	}

	cmd := &exec.Cmd{
		Path: execPath,
		Args: argv,
		Dir:  attr.Dir,
		Env:  attr.Env,
	}
	if attr.Files != nil {
		cmd.Stdin = attr.Files.Stdin()
		cmd.Stdout = attr.Files.Stdout()
		cmd.Stderr = attr.Files.Stderr()
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("%s: %w", argv[0], err)
	}

	return &osProcess{cmd: cmd}, nil
}

type osProcess struct {
	cmd *exec.Cmd
}

func (p *osProcess) Pid() int {
	return p.cmd.Process.Pid
}

func (p *osProcess) Wait() (ExitState, error) {
	err := p.cmd.Wait()

	// A non-zero exit is a terminal state, not a failure to wait.
	var exitErr *exec.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		return ExitState{}, err
	}

	return exitStateOf(p.cmd.ProcessState), nil
}

func exitStateOf(ps *os.ProcessState) ExitState {
	if ws, ok := ps.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return ExitState{Code: -1, Signal: ws.Signal().String()}
	}
	return ExitState{Code: ps.ExitCode()}
}

func lookupEnvList(environ []string, key string) string {
	var out string
	for _, e := range environ {
		split := strings.SplitN(e, "=", 2)
		if split[0] == key && len(split) > 1 {
			// Last value wins, matching os/exec.
			out = split[1]
		}
	}
	return out
}

// OSWorkingDir is the working directory of the running process.
type OSWorkingDir struct{}

var _ WorkingDir = OSWorkingDir{}

// Chdir implements WorkingDir.Chdir.
func (OSWorkingDir) Chdir(dir string) error {
	return os.Chdir(dir)
}

// Getwd implements WorkingDir.Getwd.
func (OSWorkingDir) Getwd() (string, error) {
	return os.Getwd()
}

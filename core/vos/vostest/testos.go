// Package vostest has deterministic implementations of the vos interfaces
// for use in tests.
package vostest

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"strings"
	"syscall"

	"github.com/josephlewis42/bsh/core/vos"
	"github.com/spf13/afero"
)

// ProgramFunc simulates an external program, it runs when the fake process
// is waited on.
type ProgramFunc func(argv []string, files vos.VIO) vos.ExitState

// Exit returns a program that exits with the given code.
func Exit(code int) ProgramFunc {
	return func([]string, vos.VIO) vos.ExitState {
		return vos.ExitState{Code: code}
	}
}

// Killed returns a program that is killed by the named signal.
func Killed(signal string) ProgramFunc {
	return func([]string, vos.VIO) vos.ExitState {
		return vos.ExitState{Code: -1, Signal: signal}
	}
}

// Echo writes its arguments to stdout and exits successfully.
func Echo(argv []string, files vos.VIO) vos.ExitState {
	fmt.Fprintln(files.Stdout(), strings.Join(argv[1:], " "))
	return vos.ExitState{}
}

// FakeLauncher starts simulated programs registered by name.
type FakeLauncher struct {
	Programs map[string]ProgramFunc

	// Started holds the argv of each successfully started process.
	Started [][]string
	// Waited counts the number of processes that were waited on.
	Waited int

	nextPid int
}

var _ vos.Launcher = (*FakeLauncher)(nil)

// NewFakeLauncher creates a launcher with no programs.
func NewFakeLauncher() *FakeLauncher {
	return &FakeLauncher{
		Programs: make(map[string]ProgramFunc),
		nextPid:  100,
	}
}

// Add registers a program under name.
func (f *FakeLauncher) Add(name string, program ProgramFunc) *FakeLauncher {
	f.Programs[name] = program
	return f
}

// Start implements vos.Launcher.Start.
func (f *FakeLauncher) Start(argv []string, attr *vos.ProcAttr) (vos.Process, error) {
	if len(argv) == 0 {
		return nil, vos.ErrNoCommand
	}

	program, ok := f.Programs[argv[0]]
	if !ok {
		return nil, fmt.Errorf("%s: %w", argv[0], vos.ErrNotFound)
	}

	files := vos.NewNullIO()
	if attr != nil && attr.Files != nil {
		files = attr.Files
	}

	f.Started = append(f.Started, append([]string(nil), argv...))
	f.nextPid++
	return &fakeProcess{
		pid: f.nextPid,
		run: func() vos.ExitState {
			f.Waited++
			return program(argv, files)
		},
	}, nil
}

type fakeProcess struct {
	pid    int
	run    func() vos.ExitState
	waited bool
}

func (p *fakeProcess) Pid() int {
	return p.pid
}

func (p *fakeProcess) Wait() (vos.ExitState, error) {
	if p.waited {
		return vos.ExitState{}, errors.New("wait: process already waited on")
	}
	p.waited = true
	return p.run(), nil
}

// MemWorkingDir is a working directory over an in-memory filesystem.
type MemWorkingDir struct {
	Fs  afero.Fs
	cwd string
}

var _ vos.WorkingDir = (*MemWorkingDir)(nil)

// NewMemWorkingDir creates the given directories and starts in "/".
func NewMemWorkingDir(dirs ...string) *MemWorkingDir {
	memFs := afero.NewMemMapFs()
	for _, dir := range dirs {
		// MemMapFs never fails to create directories.
		_ = memFs.MkdirAll(dir, 0755)
	}

	return &MemWorkingDir{Fs: memFs, cwd: "/"}
}

// Chdir implements vos.WorkingDir.Chdir.
func (m *MemWorkingDir) Chdir(dir string) error {
	target := dir
	if !path.IsAbs(target) {
		target = path.Join(m.cwd, target)
	}
	target = path.Clean(target)

	fi, err := m.Fs.Stat(target)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return &fs.PathError{Op: "chdir", Path: dir, Err: syscall.ENOENT}
	case err != nil:
		return &fs.PathError{Op: "chdir", Path: dir, Err: err}
	case !fi.IsDir():
		return &fs.PathError{Op: "chdir", Path: dir, Err: syscall.ENOTDIR}
	}

	m.cwd = target
	return nil
}

// Getwd implements vos.WorkingDir.Getwd.
func (m *MemWorkingDir) Getwd() (string, error) {
	return m.cwd, nil
}

// BufferIO is a VIO that reads from a fixed string and records output.
type BufferIO struct {
	*vos.VIOAdapter

	Out bytes.Buffer
	Err bytes.Buffer
	// Combined holds stdout and stderr interleaved in write order.
	Combined bytes.Buffer
}

// NewBufferIO creates a BufferIO with the given input.
func NewBufferIO(input string) *BufferIO {
	b := &BufferIO{}
	b.VIOAdapter = vos.NewVIOAdapter(
		strings.NewReader(input),
		io.MultiWriter(&b.Out, &b.Combined),
		io.MultiWriter(&b.Err, &b.Combined),
	)
	return b
}

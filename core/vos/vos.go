// Package vos is the boundary between the shell and the operating system.
//
// The shell never calls os.Chdir or starts processes directly, it goes
// through the interfaces here so the loop can be run against the real OS or
// against the fakes in vostest.
package vos

import (
	"fmt"
	"io"
)

// VIO holds the standard streams of a process.
type VIO interface {
	Stdin() io.ReadCloser
	Stdout() io.WriteCloser
	Stderr() io.WriteCloser
}

// WorkingDir is the process working directory service.
type WorkingDir interface {
	// Chdir changes the current working directory to the named directory.
	Chdir(dir string) error

	// Getwd returns the current working directory.
	Getwd() (string, error)
}

// ProcAttr holds the attributes that will be applied to a new process
// started by a Launcher.
type ProcAttr struct {
	// If Dir is non-empty, the child changes into the directory before
	// creating the process.
	Dir string

	// If Env is non-nil, it gives the environment variables for the
	// new process in the form returned by Environ.
	// If it is nil, the parent's environment will be used.
	Env []string

	// Files holds the standard streams of the new process.
	Files VIO
}

// Launcher is the process spawn/wait service.
type Launcher interface {
	// Start creates a child process running argv[0] with the argument vector
	// argv. It returns an error if the process couldn't be created; in that
	// case nothing is left running.
	Start(argv []string, attr *ProcAttr) (Process, error)
}

// Process is a started child process.
type Process interface {
	// Pid returns the process ID of the child.
	Pid() int

	// Wait blocks until the child reaches a terminal state.
	Wait() (ExitState, error)
}

// ExitState describes how a child process terminated.
type ExitState struct {
	// Code is the exit code of the process, -1 if it was signaled.
	Code int
	// Signal is the name of the signal that killed the process, empty if the
	// process exited normally.
	Signal string
}

// Exited returns true if the process called exit rather than being killed.
func (e ExitState) Exited() bool {
	return e.Signal == ""
}

// Success returns true if the process exited with a zero status.
func (e ExitState) Success() bool {
	return e.Exited() && e.Code == 0
}

func (e ExitState) String() string {
	if !e.Exited() {
		return fmt.Sprintf("signal: %s", e.Signal)
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

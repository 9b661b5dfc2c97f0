// Package shell implements the bsh command interpreter.
//
// Each iteration of the loop shows a prompt, reads one line, splits it into
// words and either runs a builtin in-process or starts the named program and
// waits for it. There are no pipelines, redirections or expansions; one line
// is exactly one command.
package shell

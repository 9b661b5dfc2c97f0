// Package logger is a standardized event logging framework for the shell.
//
// Each interactive session writes its lifecycle and every dispatched command
// as newline delimited JSON so sessions can be audited with `bsh events`.
package logger

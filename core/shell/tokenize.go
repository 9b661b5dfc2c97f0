package shell

import (
	"fmt"
	"strings"

	"github.com/anmitsu/go-shlex"
)

const (
	// Delimiters separate tokens in FieldsTokenizer: space, tab, carriage
	// return, newline and bell.
	Delimiters = " \t\r\n\a"

	// DefaultTokenBufferSize is the initial token capacity and growth increment.
	DefaultTokenBufferSize = 64
)

// Tokenizer splits a line into a command and its arguments.
//
// An empty result means the line was blank. Tokens never alias the line.
type Tokenizer interface {
	Split(line string) ([]string, error)
}

// FieldsTokenizer splits lines on Delimiters.
type FieldsTokenizer struct {
	// BufferSize is the initial capacity and the amount it grows by.
	BufferSize int
	// MaxTokens is the most tokens accepted, 0 means no limit.
	MaxTokens int
}

var _ Tokenizer = (*FieldsTokenizer)(nil)

// NewFieldsTokenizer creates a tokenizer with the default buffer size.
func NewFieldsTokenizer() *FieldsTokenizer {
	return &FieldsTokenizer{BufferSize: DefaultTokenBufferSize}
}

// Split implements Tokenizer.Split.
func (f *FieldsTokenizer) Split(line string) ([]string, error) {
	increment := f.BufferSize
	if increment <= 0 {
		increment = DefaultTokenBufferSize
	}

	tokens := make([]string, 0, increment)
	for start := 0; start < len(line); {
		if isDelimiter(line[start]) {
			start++
			continue
		}

		end := start
		for end < len(line) && !isDelimiter(line[end]) {
			end++
		}

		if f.MaxTokens > 0 && len(tokens) >= f.MaxTokens {
			return nil, exhausted("token count", f.MaxTokens)
		}
		if len(tokens) == cap(tokens) {
			grown := make([]string, len(tokens), cap(tokens)+increment)
			copy(grown, tokens)
			tokens = grown
		}
		tokens = append(tokens, strings.Clone(line[start:end]))

		start = end
	}

	return tokens, nil
}

func isDelimiter(c byte) bool {
	return strings.IndexByte(Delimiters, c) >= 0
}

// ShlexTokenizer splits lines using POSIX shell quoting rules.
type ShlexTokenizer struct {
	// MaxTokens is the most tokens accepted, 0 means no limit.
	MaxTokens int
}

var _ Tokenizer = (*ShlexTokenizer)(nil)

// Split implements Tokenizer.Split.
func (s *ShlexTokenizer) Split(line string) ([]string, error) {
	tokens, err := shlex.Split(line, true)
	if err != nil {
		return nil, &SyntaxError{Line: line, Err: err}
	}
	if s.MaxTokens > 0 && len(tokens) > s.MaxTokens {
		return nil, exhausted("token count", s.MaxTokens)
	}
	return tokens, nil
}

// SyntaxError is returned when a line can't be split. The shell reports it
// and keeps running.
type SyntaxError struct {
	Line string
	Err  error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error: %v", e.Err)
}

func (e *SyntaxError) Unwrap() error {
	return e.Err
}

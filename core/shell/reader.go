package shell

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/abiosoft/readline"
)

// DefaultLineBufferSize is the initial line capacity and growth increment.
const DefaultLineBufferSize = 1024

// LineReader reads a single line of input after showing a prompt.
//
// ReadLine returns io.EOF only if the input ended before any character was
// read. The returned line never contains the terminating newline.
type LineReader interface {
	ReadLine(prompt string) (string, error)
}

// BufferedLineReader reads lines a byte at a time into a buffer that grows
// by a fixed increment.
type BufferedLineReader struct {
	in     io.ByteReader
	prompt io.Writer

	// BufferSize is the initial capacity and the amount it grows by.
	BufferSize int
	// MaxSize is the longest line accepted, 0 means no limit.
	MaxSize int
}

var _ LineReader = (*BufferedLineReader)(nil)

// NewBufferedLineReader reads lines from r, writing prompts to w.
func NewBufferedLineReader(r io.Reader, w io.Writer) *BufferedLineReader {
	br, ok := r.(io.ByteReader)
	if !ok {
		br = bufio.NewReader(r)
	}

	return &BufferedLineReader{
		in:         br,
		prompt:     w,
		BufferSize: DefaultLineBufferSize,
	}
}

// ReadLine implements LineReader.ReadLine.
func (b *BufferedLineReader) ReadLine(prompt string) (string, error) {
	if _, err := io.WriteString(b.prompt, prompt); err != nil {
		return "", err
	}

	increment := b.BufferSize
	if increment <= 0 {
		increment = DefaultLineBufferSize
	}

	initial := increment
	if b.MaxSize > 0 && initial > b.MaxSize {
		initial = b.MaxSize
	}

	buffer := make([]byte, 0, initial)
	for {
		c, err := b.in.ReadByte()
		switch {
		case errors.Is(err, io.EOF) && len(buffer) == 0:
			return "", io.EOF
		case errors.Is(err, io.EOF):
			return string(buffer), nil
		case err != nil:
			return "", err
		case c == '\n':
			return string(buffer), nil
		}

		if len(buffer) == cap(buffer) {
			newCap := cap(buffer) + increment
			if b.MaxSize > 0 && newCap > b.MaxSize {
				if len(buffer) >= b.MaxSize {
					return "", exhausted("line", b.MaxSize)
				}
				newCap = b.MaxSize
			}

			grown := make([]byte, len(buffer), newCap)
			copy(grown, buffer)
			buffer = grown
		}
		buffer = append(buffer, c)
	}
}

// ReadlineLineReader reads lines using an interactive line editor.
type ReadlineLineReader struct {
	Readline *readline.Instance

	// MaxSize is the longest line accepted, 0 means no limit.
	MaxSize int
}

var _ LineReader = (*ReadlineLineReader)(nil)

// ReadlineOptions configure NewReadlineLineReader.
type ReadlineOptions struct {
	Stdin       io.Reader
	Stdout      io.Writer
	Stderr      io.Writer
	HistoryFile string
	IsTerminal  func() bool
}

// NewReadlineLineReader creates a line editor over the given streams.
func NewReadlineLineReader(opts ReadlineOptions) (*ReadlineLineReader, error) {
	cfg := &readline.Config{
		Stdin:          readline.NewCancelableStdin(opts.Stdin),
		Stdout:         opts.Stdout,
		Stderr:         opts.Stderr,
		HistoryFile:    opts.HistoryFile,
		FuncIsTerminal: opts.IsTerminal,
	}

	if err := cfg.Init(); err != nil {
		return nil, err
	}

	rl, err := readline.NewEx(cfg)
	if err != nil {
		return nil, fmt.Errorf("readline: %w", err)
	}

	return &ReadlineLineReader{Readline: rl}, nil
}

// ReadLine implements LineReader.ReadLine.
func (r *ReadlineLineReader) ReadLine(prompt string) (string, error) {
	r.Readline.SetPrompt(prompt)
	line, err := r.Readline.Readline()

	switch {
	case err == readline.ErrInterrupt:
		// Interrupt clears the line.
		return "", nil
	case err != nil:
		return "", err
	case r.MaxSize > 0 && len(line) > r.MaxSize:
		return "", exhausted("line", r.MaxSize)
	default:
		return line, nil
	}
}

// Close releases the terminal.
func (r *ReadlineLineReader) Close() error {
	return r.Readline.Close()
}

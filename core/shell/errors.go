package shell

import (
	"errors"
	"fmt"
)

// ErrResourceExhausted is returned when a buffer would have to grow past its
// configured limit. The shell stops rather than run a truncated command.
var ErrResourceExhausted = errors.New("resource exhausted")

func exhausted(what string, limit int) error {
	return fmt.Errorf("%s exceeds limit of %d: %w", what, limit, ErrResourceExhausted)
}

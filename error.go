package serial

import (
	"errors"
	"fmt"
)

// ErrClosed is returned by Port methods called after Close. It's a plain
// sentinel so callers compare with errors.Is rather than string matching,
// even though wrapErr adds per-call-site context to the message.
var ErrClosed = errors.New("port already closed")

// wrapErr adds call-site context (which operation failed) to e while
// keeping it unwrappable to the original sentinel via errors.Is/As.
func wrapErr(op string, e error) error {
	if e == nil {
		return nil
	}
	return fmt.Errorf("serial: %s: %w", op, e)
}

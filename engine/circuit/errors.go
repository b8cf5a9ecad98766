package circuit

import (
	"errors"
	"fmt"
)

// ErrConfiguration matches every error caused by a broken level definition.
var ErrConfiguration = errors.New("configuration error")

// ErrTooDeep is returned for trees nested deeper than MaxDepth.
var ErrTooDeep = fmt.Errorf("%w: circuit nested deeper than %d", ErrConfiguration, MaxDepth)

// IndexError reports a Ref pointing outside the signal list.
type IndexError struct {
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("signal index %d out of range for %d signal(s)", e.Index, e.Len)
}

// Is lets errors.Is(err, ErrConfiguration) match an IndexError.
func (e *IndexError) Is(target error) bool {
	return target == ErrConfiguration
}

func configErr(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConfiguration, fmt.Sprintf(format, args...))
}

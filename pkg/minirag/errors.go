package minirag

import (
	"errors"
	"fmt"
)

// ErrInvalidK is returned by Search when k is not positive.
var ErrInvalidK = errors.New("k must be positive")

// DimensionMismatchError reports a vector whose length disagrees with the
// dimension the index was established with. The index is left unchanged.
type DimensionMismatchError struct {
	Op       string // "add" or "search"
	Position int    // offending vector within the call, -1 for a query
	Expected int
	Got      int
}

func (e *DimensionMismatchError) Error() string {
	if e.Position < 0 {
		return fmt.Sprintf("%s: dimension mismatch: expected %d, got %d", e.Op, e.Expected, e.Got)
	}
	return fmt.Sprintf("%s: dimension mismatch at vector %d: expected %d, got %d",
		e.Op, e.Position, e.Expected, e.Got)
}

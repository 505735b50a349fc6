package gcmap

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrNullReference = errors.New("null map reference")
	ErrNilComparator = errors.New("sorted map requires a comparator")
)

// NullReferenceError is the panic value of every operation invoked on a null Map.
type NullReferenceError struct {
	Op string // name of the operation, e.g. "Put"
}

func (e *NullReferenceError) Error() string {
	return fmt.Sprintf("gcmap: %s on null map", e.Op)
}

// Is reports whether target is ErrNullReference.
func (e *NullReferenceError) Is(target error) bool {
	return target == ErrNullReference
}

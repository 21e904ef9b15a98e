package pagelayout

import (
	"errors"
	"fmt"
)

// Sentinel errors for conditions a caller can act on. Geometry and
// pagination never fail; these come from lookups and gesture sequencing.
var (
	ErrInvalidDocument = errors.New("pagelayout: invalid document")
	ErrItemNotFound    = errors.New("pagelayout: item not found")
	ErrRegionNotFound  = errors.New("pagelayout: region not found")
	ErrColumnNotFound  = errors.New("pagelayout: column not found")
	ErrNoGesture       = errors.New("pagelayout: no gesture in progress")
	ErrGestureActive   = errors.New("pagelayout: another gesture is in progress")
	ErrUnknownKind     = errors.New("pagelayout: unknown kind")
	ErrImageNotAllowed = errors.New("pagelayout: image source not allowed")
)

// LayoutError represents an error that occurred during a specific layout operation.
// It wraps an underlying error and includes the operation name for context.
type LayoutError struct {
	Op  string // operation name, e.g. "BeginDrag", "MoveBoundary"
	Err error  // underlying error
}

func (e *LayoutError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("pagelayout.%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("pagelayout.%s: unknown error", e.Op)
}

func (e *LayoutError) Unwrap() error {
	return e.Err
}

// NewLayoutError creates a new LayoutError wrapping err with operation context.
func NewLayoutError(op string, err error) *LayoutError {
	return &LayoutError{Op: op, Err: err}
}

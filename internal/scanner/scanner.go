package scanner

import (
	"errors"
	"fmt"

	"github.com/lumipallolabs/treescan/internal/model"
)

// ErrCancelled is returned by Step when the scan was asked to stop.
// It marks a deliberate pause or stop, never a fault.
var ErrCancelled = errors.New("scan cancelled")

// PathUnavailableError reports a scan root that is missing or unreadable
type PathUnavailableError struct {
	Path string
	Err  error
}

func (e *PathUnavailableError) Error() string {
	return fmt.Sprintf("path unavailable %q: %v", e.Path, e.Err)
}

func (e *PathUnavailableError) Unwrap() error {
	return e.Err
}

// Progress reports scanning progress
type Progress struct {
	CurrentPath string
	Counts      model.FindAndAll
}

// Source yields file paths one at a time and can be resumed after any call
type Source interface {
	// Next returns the next absolute file path. ok is false once exhausted.
	Next() (path string, ok bool, err error)

	// Close releases the underlying enumeration
	Close()
}

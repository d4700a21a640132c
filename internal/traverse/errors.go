package traverse

import (
	"errors"
	"fmt"
)

var (
	// ErrDirectoryUnreadable reports that a directory in the traversal chain could not be listed.
	ErrDirectoryUnreadable = errors.New("directory unreadable")
	// ErrInvalidPattern reports an exclusion pattern that does not compile.
	ErrInvalidPattern = errors.New("invalid exclusion pattern")
)

const (
	errorReadDirectoryFormat  = "reading directory %s: %v"
	errorCompilePatternFormat = "%w %q: %v"
	errorAbsolutePathFormat   = "getting absolute path for %s: %w"
)

// TraversalError is returned when a directory cannot be listed.
// Nothing collected before the failure is returned alongside it.
type TraversalError struct {
	Path string
	Err  error
}

func (traversalError *TraversalError) Error() string {
	return fmt.Sprintf(errorReadDirectoryFormat, traversalError.Path, traversalError.Err)
}

func (traversalError *TraversalError) Unwrap() error {
	return traversalError.Err
}

// Is matches ErrDirectoryUnreadable.
func (traversalError *TraversalError) Is(target error) bool {
	return target == ErrDirectoryUnreadable
}

// Package clipboard copies rendered output to the system clipboard.
package clipboard

import (
	"errors"
	"fmt"

	"github.com/atotto/clipboard"
)

// ErrUnavailable reports that no clipboard utility exists on this system.
var ErrUnavailable = errors.New("clipboard is not available on this system")

const errorCopyFormat = "copy %d bytes to clipboard: %w"

// Copier copies textual data to a clipboard.
type Copier interface {
	Copy(text string) error
}

// CopierFunc adapts a function to the Copier interface.
type CopierFunc func(text string) error

// Copy calls the wrapped function.
func (copierFunc CopierFunc) Copy(text string) error {
	return copierFunc(text)
}

// Service implements Copier using github.com/atotto/clipboard.
type Service struct{}

// NewService constructs a clipboard Service.
func NewService() *Service {
	return &Service{}
}

// Copy writes text to the system clipboard.
func (service *Service) Copy(text string) error {
	if clipboard.Unsupported {
		return ErrUnavailable
	}
	if writeError := clipboard.WriteAll(text); writeError != nil {
		return fmt.Errorf(errorCopyFormat, len(text), writeError)
	}
	return nil
}

var (
	_ Copier = (*Service)(nil)
	_ Copier = CopierFunc(nil)
)

// Package clipboard provides access to the system clipboard.
package clipboard

import (
	"errors"

	"github.com/atotto/clipboard"
)

// ErrUnsupported is returned when no clipboard utility is available on this system.
var ErrUnsupported = errors.New("no clipboard utility available")

// Copier copies textual data to the system clipboard.
type Copier interface {
	Copy(text string) error
}

// Service implements Copier using github.com/atotto/clipboard.
type Service struct{}

// NewService constructs a Clipboard service implementation.
func NewService() *Service {
	return &Service{}
}

// Copy writes text to the system clipboard.
func (service *Service) Copy(text string) error {
	if clipboard.Unsupported {
		return ErrUnsupported
	}
	return clipboard.WriteAll(text)
}

var _ Copier = (*Service)(nil)

// Package storage defines the recording library: where saved recording
// documents live between sessions.
package storage

import (
	"errors"
	"time"

	"github.com/ricksterhd123/recorder/pkg/core"
)

// ErrNotFound is returned when the named recording does not exist in
// the backend.
var ErrNotFound = errors.New("storage: recording not found")

// Info is one row of the library listing.
type Info struct {
	Name         string
	Frames       int
	SampleRateHz int
	SavedAt      time.Time
}

// Backend is the interface all recording library implementations
// satisfy. Saving an existing name overwrites it.
type Backend interface {
	Init() error
	Close() error

	Save(doc *core.Document) error
	Load(name string) (*core.Document, error)
	List() ([]Info, error)
	Delete(name string) error
}

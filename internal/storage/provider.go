// Package storage defines the catalog file abstraction.
package storage

// Provider is the interface for reading and replacing the durable
// catalog document.
type Provider interface {
	// Read returns the raw bytes of the catalog document. A missing file
	// is reported through an error wrapping os.ErrNotExist.
	Read() ([]byte, error)
	// Write atomically replaces the catalog document.
	Write(content []byte) error
	// Path returns the absolute path of the backing file.
	Path() string
}

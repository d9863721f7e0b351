// Package storage persists generated artifacts.
package storage

import "context"

// Storage defines the interface for artifact persistence
type Storage interface {
	// Write durably replaces the file at path with data, creating parent
	// directories as needed
	Write(ctx context.Context, path string, data []byte) error

	// Read returns the current contents of path
	Read(ctx context.Context, path string) ([]byte, error)
}

// StorageType identifies the storage backend
type StorageType string

const (
	StorageTypeLocal StorageType = "local"
)

// Config holds storage configuration
type Config struct {
	Type      StorageType
	LocalPath string // base directory for relative paths
}

// New creates a new Storage implementation based on configuration
func New(cfg *Config) (Storage, error) {
	switch cfg.Type {
	case StorageTypeLocal:
		fallthrough
	default:
		return NewLocalStorage(cfg.LocalPath)
	}
}

// Package storage provides the local key/value store that holds the persisted
// snapshot. Two backends exist: a directory of files and a SQLite database.
package storage

import (
	"context"
	"errors"
	"fmt"
	"regexp"
)

// ErrNotFound is returned by Get when a key has no value.
var ErrNotFound = errors.New("key not found")

const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Store is a minimal key/value store. Every Set replaces the whole value.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Options selects and configures a backend.
type Options struct {
	Backend string // "file" (default) or "sqlite"
	Dir     string // data directory; the SQLite backend keeps taskflow.db inside it
}

// Open returns the backend named by opts.Backend.
func Open(opts Options) (Store, error) {
	switch opts.Backend {
	case "", BackendFile:
		return NewFileStore(opts.Dir)
	case BackendSQLite:
		return NewSQLiteStore(opts.Dir)
	default:
		return nil, fmt.Errorf("unsupported storage backend: %s. Supported backends are file, sqlite", opts.Backend)
	}
}

var validKey = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

func checkKey(key string) error {
	if !validKey.MatchString(key) || key == "." || key == ".." {
		return fmt.Errorf("invalid storage key '%s'", key)
	}
	return nil
}

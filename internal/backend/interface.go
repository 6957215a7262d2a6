// Package backend selects and constructs the persistence gateway.
package backend

import (
	"context"

	"tirelire/internal/core"
)

// Gateway is the durable storage boundary for the budget document: the
// core only ever loads or saves the whole snapshot.
type Gateway interface {
	Load(ctx context.Context) (*core.Document, error)
	Save(ctx context.Context, doc *core.Document) error
}

// CleanupFunc releases gateway resources at shutdown.
type CleanupFunc func() error

// Result contains the gateway instance and optional cleanup function.
type Result struct {
	Gateway Gateway
	Cleanup CleanupFunc
}

// Factory creates gateways based on configuration.
type Factory interface {
	CreateGateway(ctx context.Context, config Config) (*Result, error)
}

// Config holds configuration for gateway creation.
type Config struct {
	Type Type

	// File gateway
	SnapshotPath string

	// SQLite gateway
	SQLiteDBPath string
}

// Type represents the kind of persistence gateway.
type Type string

const (
	FileBackend   Type = "file"
	SQLiteBackend Type = "sqlite"
)

// String implements fmt.Stringer.
func (t Type) String() string {
	return string(t)
}

// IsValid returns true if the backend type is supported.
func (t Type) IsValid() bool {
	switch t {
	case FileBackend, SQLiteBackend:
		return true
	default:
		return false
	}
}

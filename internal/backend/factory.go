package backend

import (
	"context"
	"fmt"
	"log/slog"

	"tirelire/internal/storage"
)

// DefaultFactory implements the Factory interface.
type DefaultFactory struct {
	logger *slog.Logger
}

// NewFactory creates a new gateway factory.
func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{logger: logger}
}

// CreateGateway implements Factory.CreateGateway.
func (f *DefaultFactory) CreateGateway(ctx context.Context, config Config) (*Result, error) {
	if !config.Type.IsValid() {
		return nil, fmt.Errorf("invalid backend type: %s", config.Type)
	}

	switch config.Type {
	case SQLiteBackend:
		repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("initialize sqlite gateway: %w", err)
		}
		f.logger.Info("Initialized sqlite backend", "db_path", config.SQLiteDBPath)
		return &Result{Gateway: repo, Cleanup: repo.Close}, nil

	case FileBackend:
		repo, err := storage.NewFileRepository(config.SnapshotPath)
		if err != nil {
			return nil, fmt.Errorf("initialize file gateway: %w", err)
		}
		f.logger.Info("Initialized file backend", "snapshot_path", config.SnapshotPath)
		return &Result{Gateway: repo, Cleanup: nil}, nil

	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

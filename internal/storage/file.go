// Package storage provides the durable gateways for the budget document:
// a JSON snapshot file with backup-before-overwrite, and a SQLite
// repository that replaces the whole document per save.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"tirelire/internal/core"
)

// BackupSuffix is appended to the snapshot path for the previous-snapshot
// side copy.
const BackupSuffix = ".backup"

// FileRepository persists the document as one JSON file. Before each
// overwrite it copies the prior snapshot to <path>.backup, best effort.
// The write itself is a plain overwrite, not atomic; the backup is the
// only mitigation for a failure mid-write.
type FileRepository struct {
	path string
}

func NewFileRepository(path string) (*FileRepository, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create snapshot directory: %w", err)
		}
	}
	return &FileRepository{path: path}, nil
}

// Load reads the snapshot. When the file does not exist yet it initializes
// and persists a default empty document for the current month.
func (r *FileRepository) Load(ctx context.Context) (*core.Document, error) {
	data, err := os.ReadFile(r.path)
	if os.IsNotExist(err) {
		doc := core.NewDocument(core.MonthToken(time.Now()))
		if err := r.Save(ctx, doc); err != nil {
			return nil, fmt.Errorf("initialize snapshot: %w", err)
		}
		slog.InfoContext(ctx, "Initialized empty budget snapshot", "path", r.path)
		return doc, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	var doc core.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", r.path, err)
	}
	doc.Normalize()
	return &doc, nil
}

// Save writes the full document, backing up the previous snapshot first.
func (r *FileRepository) Save(ctx context.Context, doc *core.Document) error {
	if err := r.backup(ctx); err != nil {
		// Best effort only; a missing or unreadable prior snapshot never
		// blocks the write.
		slog.WarnContext(ctx, "Snapshot backup failed", "path", r.path, "error", err)
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := os.WriteFile(r.path, data, 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

func (r *FileRepository) backup(ctx context.Context) error {
	src, err := os.Open(r.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.Create(r.path + BackupSuffix)
	if err != nil {
		return err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return err
	}
	slog.DebugContext(ctx, "Backed up snapshot", "path", r.path+BackupSuffix)
	return nil
}

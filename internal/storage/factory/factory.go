// Package factory builds the configured recording library backend.
package factory

import (
	"fmt"
	"log/slog"

	"github.com/rs/zerolog"

	"github.com/ricksterhd123/recorder/internal/config"
	"github.com/ricksterhd123/recorder/internal/database"
	"github.com/ricksterhd123/recorder/internal/storage"
	filestorage "github.com/ricksterhd123/recorder/internal/storage/file"
	gormstorage "github.com/ricksterhd123/recorder/internal/storage/gorm"
)

// New creates a storage backend from configuration. The caller owns
// Init and Close.
func New(cfg config.StorageConfig, log *slog.Logger, dbLog zerolog.Logger) (storage.Backend, error) {
	switch cfg.Type {
	case "file", "":
		return filestorage.New(filestorage.Config{
			Dir:      cfg.OutputDir,
			Compress: cfg.CompressOutput,
		}, log), nil

	case "sqlite":
		mgr := database.NewManager(dbLog)
		mgr.SqliteFilePath = cfg.SqlitePath
		// memory mode keeps the session library in RAM and dumps it
		// to SqlitePath when the backend closes
		path := cfg.SqlitePath
		if cfg.InMemory {
			path = ""
			mgr.MemoryMode = true
		}
		db, err := mgr.GetSqliteDB(path)
		if err != nil {
			return nil, fmt.Errorf("open sqlite library: %w", err)
		}
		mgr.DB = db
		mgr.IsValid = true
		mgr.ShouldSaveLocal = true
		if mgr.SqlDB, err = db.DB(); err != nil {
			return nil, err
		}
		return gormstorage.New(mgr), nil

	case "postgres":
		mgr := database.NewManager(dbLog)
		mgr.SqliteFilePath = cfg.SqlitePath
		if err := mgr.Connect(); err != nil {
			return nil, fmt.Errorf("connect recording library: %w", err)
		}
		return gormstorage.New(mgr), nil
	}

	return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
}

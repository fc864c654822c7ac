// Package gormstorage implements the recording library on a GORM
// database. It serves both the sqlite and postgres storage types; the
// database manager decides which dialect actually backs it.
package gormstorage

import (
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ricksterhd123/recorder/internal/database"
	"github.com/ricksterhd123/recorder/internal/storage"
	"github.com/ricksterhd123/recorder/pkg/core"
)

// Row is the persisted form of one recording document.
type Row struct {
	gorm.Model
	Name         string `gorm:"uniqueIndex;not null"`
	SampleRateHz int    `gorm:"not null"`
	FrameCount   int    `gorm:"not null"`
	Cursor       int    `gorm:"not null"`
	Frames       datatypes.JSON
	Target       datatypes.JSON
}

// TableName keeps the table name stable across gorm versions.
func (Row) TableName() string { return "recordings" }

// Backend stores recording documents through a database manager.
type Backend struct {
	mgr *database.Manager
}

// New wraps a connected database manager.
func New(mgr *database.Manager) *Backend {
	return &Backend{mgr: mgr}
}

// Init migrates the schema.
func (b *Backend) Init() error {
	if b.mgr.DB == nil {
		return fmt.Errorf("gormstorage: database not connected")
	}
	if err := b.mgr.DB.AutoMigrate(&Row{}); err != nil {
		return fmt.Errorf("migrate recordings table: %w", err)
	}
	return nil
}

// Close releases the database connection. A memory-mode library is
// dumped to its SQLite file first so the session's saves survive the
// process.
func (b *Backend) Close() error {
	var dumpErr error
	if b.mgr.MemoryMode {
		dumpErr = b.mgr.DumpMemoryToDisk()
	}
	return errors.Join(dumpErr, b.mgr.Close())
}

// Save upserts the document under its filename.
func (b *Backend) Save(doc *core.Document) error {
	if err := doc.Validate(); err != nil {
		return fmt.Errorf("invalid document %q: %w", doc.Filename, err)
	}

	frames, err := json.Marshal(doc.Frames)
	if err != nil {
		return err
	}
	target, err := json.Marshal(doc.Target)
	if err != nil {
		return err
	}

	row := Row{
		Name:         doc.Filename,
		SampleRateHz: doc.SampleRateHz,
		FrameCount:   len(doc.Frames),
		Cursor:       doc.Cursor,
		Frames:       datatypes.JSON(frames),
		Target:       datatypes.JSON(target),
	}

	return b.mgr.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"sample_rate_hz", "frame_count", "cursor", "frames", "target", "updated_at",
		}),
	}).Create(&row).Error
}

// Load reads the named document.
func (b *Backend) Load(name string) (*core.Document, error) {
	var row Row
	err := b.mgr.DB.Where("name = ?", name).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", storage.ErrNotFound, name)
	}
	if err != nil {
		return nil, err
	}

	doc := core.Document{
		Filename:     row.Name,
		SampleRateHz: row.SampleRateHz,
		Cursor:       row.Cursor,
	}
	if len(row.Frames) > 0 {
		if err := json.Unmarshal(row.Frames, &doc.Frames); err != nil {
			return nil, fmt.Errorf("decode frames for %q: %w", name, err)
		}
	}
	if len(row.Target) > 0 {
		if err := json.Unmarshal(row.Target, &doc.Target); err != nil {
			return nil, fmt.Errorf("decode target for %q: %w", name, err)
		}
	}
	if err := doc.Validate(); err != nil {
		return nil, fmt.Errorf("invalid document %q: %w", name, err)
	}
	return &doc, nil
}

// List returns one entry per stored recording.
func (b *Backend) List() ([]storage.Info, error) {
	var rows []Row
	if err := b.mgr.DB.Order("name").Find(&rows).Error; err != nil {
		return nil, err
	}

	infos := make([]storage.Info, 0, len(rows))
	for _, row := range rows {
		infos = append(infos, storage.Info{
			Name:         row.Name,
			Frames:       row.FrameCount,
			SampleRateHz: row.SampleRateHz,
			SavedAt:      row.UpdatedAt,
		})
	}
	return infos, nil
}

// Delete removes the named recording.
func (b *Backend) Delete(name string) error {
	res := b.mgr.DB.Where("name = ?", name).Delete(&Row{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", storage.ErrNotFound, name)
	}
	return nil
}

// Package filestorage implements the recording library as JSON documents
// on disk, one file per recording, optionally gzip-compressed.
package filestorage

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ricksterhd123/recorder/internal/storage"
	"github.com/ricksterhd123/recorder/internal/util"
	"github.com/ricksterhd123/recorder/pkg/core"
)

const (
	ext     = ".json"
	gzipExt = ".json.gz"
)

// Config holds settings for the file backend.
type Config struct {
	Dir      string
	Compress bool
}

// Backend stores each recording as <dir>/<name>.json (or .json.gz).
type Backend struct {
	cfg Config
	log *slog.Logger
}

// New creates a file backend rooted at cfg.Dir.
func New(cfg Config, log *slog.Logger) *Backend {
	if log == nil {
		log = slog.Default()
	}
	return &Backend{cfg: cfg, log: log}
}

// Init creates the library directory.
func (b *Backend) Init() error {
	return os.MkdirAll(b.cfg.Dir, 0o755)
}

// Close is a no-op for the file backend.
func (b *Backend) Close() error { return nil }

func (b *Backend) path(name string, compressed bool) string {
	e := ext
	if compressed {
		e = gzipExt
	}
	return filepath.Join(b.cfg.Dir, util.SanitizeName(name)+e)
}

// Save writes the document, replacing any previous save under the same
// name in either format.
func (b *Backend) Save(doc *core.Document) error {
	if err := doc.Validate(); err != nil {
		return fmt.Errorf("invalid document %q: %w", doc.Filename, err)
	}

	// drop the stale counterpart so Load never finds two formats
	stale := b.path(doc.Filename, !b.cfg.Compress)
	if err := os.Remove(stale); err != nil && !os.IsNotExist(err) {
		return err
	}

	f, err := os.Create(b.path(doc.Filename, b.cfg.Compress))
	if err != nil {
		return err
	}
	defer f.Close()

	var w io.Writer = f
	var gz *gzip.Writer
	if b.cfg.Compress {
		gz = gzip.NewWriter(f)
		w = gz
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode %q: %w", doc.Filename, err)
	}
	if gz != nil {
		if err := gz.Close(); err != nil {
			return err
		}
	}

	b.log.Debug("recording saved", "name", doc.Filename, "frames", len(doc.Frames), "compressed", b.cfg.Compress)
	return f.Sync()
}

// Load reads the named document, accepting either format regardless of
// the current compression setting.
func (b *Backend) Load(name string) (*core.Document, error) {
	for _, compressed := range []bool{false, true} {
		doc, err := b.read(b.path(name, compressed), compressed)
		if err == nil {
			return doc, nil
		}
		if !os.IsNotExist(err) {
			return nil, err
		}
	}
	return nil, fmt.Errorf("%w: %s", storage.ErrNotFound, name)
}

func (b *Backend) read(path string, compressed bool) (*core.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var r io.Reader = f
	if compressed {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("open gzip %s: %w", path, err)
		}
		defer gz.Close()
		r = gz
	}

	var doc core.Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if err := doc.Validate(); err != nil {
		return nil, fmt.Errorf("invalid document %s: %w", path, err)
	}
	return &doc, nil
}

// List returns library entries sorted however the directory listing
// comes back.
func (b *Backend) List() ([]storage.Info, error) {
	entries, err := os.ReadDir(b.cfg.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var infos []storage.Info
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name, compressed := trimExt(e.Name())
		if name == "" {
			continue
		}
		doc, err := b.read(filepath.Join(b.cfg.Dir, e.Name()), compressed)
		if err != nil {
			b.log.Warn("skipping unreadable recording", "file", e.Name(), "error", err)
			continue
		}
		info := storage.Info{Name: doc.Filename, Frames: len(doc.Frames), SampleRateHz: doc.SampleRateHz}
		if fi, err := e.Info(); err == nil {
			info.SavedAt = fi.ModTime()
		}
		infos = append(infos, info)
	}
	return infos, nil
}

// Delete removes every saved form of the named recording.
func (b *Backend) Delete(name string) error {
	found := false
	for _, compressed := range []bool{false, true} {
		err := os.Remove(b.path(name, compressed))
		if err == nil {
			found = true
		} else if !os.IsNotExist(err) {
			return err
		}
	}
	if !found {
		return fmt.Errorf("%w: %s", storage.ErrNotFound, name)
	}
	return nil
}

func trimExt(filename string) (name string, compressed bool) {
	if strings.HasSuffix(filename, gzipExt) {
		return strings.TrimSuffix(filename, gzipExt), true
	}
	if strings.HasSuffix(filename, ext) {
		return strings.TrimSuffix(filename, ext), false
	}
	return "", false
}

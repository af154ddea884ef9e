package catalog

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"

	"github.com/oshokin/feynman-diagrams/internal/config"
	"github.com/oshokin/feynman-diagrams/internal/domain/diagram"
)

// Repository defines persistence operations for catalogs.
type Repository interface {
	Load(ctx context.Context) (*diagram.Catalog, error)
	Save(ctx context.Context, catalog *diagram.Catalog) error
}

// Format is an on-disk encoding.
type Format string

const (
	// FormatYAML stores the catalog as human-readable YAML.
	FormatYAML Format = "yaml"
	// FormatMsgpack stores the catalog as MessagePack.
	FormatMsgpack Format = "msgpack"
)

var (
	// ErrNotFound is returned when the catalog file does not exist yet.
	ErrNotFound = errors.New("catalog not found")
	// ErrUnsupportedFormat is returned for unknown file extensions or format names.
	ErrUnsupportedFormat = errors.New("unsupported catalog format")
	// ErrInvalidID is returned when a stored catalog ID is not a UUID.
	ErrInvalidID = errors.New("invalid catalog id")
)

// ParseFormat converts a format name into a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "yaml", "yml":
		return FormatYAML, nil
	case "msgpack", "mpk":
		return FormatMsgpack, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

// FormatFromPath derives the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	return ParseFormat(strings.TrimPrefix(filepath.Ext(path), "."))
}

// Extension returns the canonical file extension, without the dot.
func (f Format) Extension() string {
	if f == FormatMsgpack {
		return "msgpack"
	}

	return "yaml"
}

// FileRepository persists one catalog to a file on disk.
type FileRepository struct {
	// path is the filesystem location of the catalog file.
	path string
	// format is the encoding derived from the extension of path.
	format Format
	// mu protects concurrent access to the catalog file.
	mu sync.Mutex
}

// NewFileRepository creates a repository for the given path.
// The extension selects the encoding.
func NewFileRepository(path string) (*FileRepository, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	return &FileRepository{
		path:   filepath.Clean(path),
		format: format,
	}, nil
}

// Path returns the file location.
func (r *FileRepository) Path() string {
	return r.path
}

// Load reads the catalog from disk.
func (r *FileRepository) Load(_ context.Context) (*diagram.Catalog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	contents, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("read catalog file: %w", err)
	}

	var record catalogRecord

	switch r.format {
	case FormatMsgpack:
		err = msgpack.Unmarshal(contents, &record)
	default:
		err = yaml.Unmarshal(contents, &record)
	}

	if err != nil {
		return nil, fmt.Errorf("decode catalog file: %w", err)
	}

	return fromRecord(&record)
}

// Save writes the catalog to disk. A missing ID or creation time is filled in
// on the passed catalog before writing.
func (r *FileRepository) Save(_ context.Context, catalog *diagram.Catalog) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if catalog.ID == "" {
		catalog.ID = uuid.NewString()
	}

	if catalog.CreatedAt.IsZero() {
		catalog.CreatedAt = time.Now().UTC()
	}

	var (
		record = toRecord(catalog)
		data   []byte
		err    error
	)

	switch r.format {
	case FormatMsgpack:
		data, err = msgpack.Marshal(record)
	default:
		data, err = yaml.Marshal(record)
	}

	if err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}

	if err = os.MkdirAll(filepath.Dir(r.path), config.DefaultDirPermissions); err != nil {
		return fmt.Errorf("create catalog directory: %w", err)
	}

	if err = os.WriteFile(r.path, data, config.DefaultFilePermissions); err != nil {
		return fmt.Errorf("write catalog file: %w", err)
	}

	return nil
}

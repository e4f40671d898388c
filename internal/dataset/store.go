package dataset

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Loader loads a stored dataset by its identifier
type Loader interface {
	Load(ctx context.Context, id string) (*Dataset, error)
}

// Saver persists uploaded bytes and returns the identifier assigned to them
type Saver interface {
	Save(ctx context.Context, r io.Reader) (string, error)
}

// Store keeps one file per dataset in a directory, named by a generated UUID.
// Nothing is cached: every Load re-reads and re-parses the file.
type Store struct {
	dir    string
	ext    string
	logger zerolog.Logger
}

// NewStore creates a store rooted at dir, creating the directory if needed
func NewStore(dir, ext string, logger zerolog.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}

	return &Store{
		dir:    dir,
		ext:    ext,
		logger: logger.With().Str("component", "dataset-store").Logger(),
	}, nil
}

// Path returns the file path used for the given dataset identifier
func (s *Store) Path(id string) string {
	return filepath.Join(s.dir, id+s.ext)
}

// Save writes r under a fresh identifier
func (s *Store) Save(ctx context.Context, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	id := uuid.NewString()

	tmp, err := os.CreateTemp(s.dir, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	n, err := io.Copy(tmp, r)
	if err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to write upload: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to close upload: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.Path(id)); err != nil {
		return "", fmt.Errorf("failed to store upload: %w", err)
	}

	s.logger.Info().Str("dataset_id", id).Int64("bytes", n).Msg("dataset stored")
	return id, nil
}

// Load opens and parses the dataset stored under id
func (s *Store) Load(ctx context.Context, id string) (*Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Only identifiers we generated are accepted, so id can never escape dir
	if parsed, err := uuid.Parse(id); err != nil || parsed.String() != id {
		return nil, fmt.Errorf("%w: invalid dataset id %q", ErrDatasetLoad, id)
	}

	file, err := os.Open(s.Path(id))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatasetLoad, err)
	}
	defer file.Close()

	ds, err := Parse(file)
	if err != nil {
		return nil, fmt.Errorf("dataset %s: %w", id, err)
	}

	s.logger.Debug().
		Str("dataset_id", id).
		Int("rows", ds.Len()).
		Int("columns", len(ds.Columns)).
		Msg("dataset loaded")
	return ds, nil
}

// Package localfs stores uploaded files on the local filesystem beneath a
// single base directory. It implements the service.FileStorage seam.
package localfs

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// Storage writes files into a fixed base directory.
type Storage struct {
	dir    string
	logger zerolog.Logger
}

// New creates the base directory if needed and returns a Storage rooted in it.
func New(dir string, logger zerolog.Logger) (*Storage, error) {
	if dir == "" {
		return nil, fmt.Errorf("upload directory must not be empty")
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}

	return &Storage{
		dir:    dir,
		logger: logger.With().Str("component", "localfs").Logger(),
	}, nil
}

// Upload writes the reader's contents under the given name and returns the
// stored name. The name is sanitized again here so the storage layer never
// trusts its caller with path construction.
func (s *Storage) Upload(ctx context.Context, name string, reader io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	name = SanitizeFilename(name)
	target := filepath.Join(s.dir, name)

	file, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("failed to create upload file: %w", err)
	}

	written, err := io.Copy(file, reader)
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(target)
		return "", fmt.Errorf("failed to write upload file: %w", err)
	}

	s.logger.Debug().Str("file", name).Int64("bytes", written).Msg("upload stored")

	return name, nil
}

// SanitizeFilename strips path separators and any character outside a small
// safe set, defeating path traversal in client-supplied names.
func SanitizeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))

	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}

	cleaned := strings.Trim(b.String(), "._")
	if cleaned == "" {
		return "upload"
	}

	return cleaned
}

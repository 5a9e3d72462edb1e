package localfs_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/publicpulse/publicpulse-api/pkg/localfs"
)

func TestStorageUpload(t *testing.T) {
	dir := t.TempDir()
	storage, err := localfs.New(dir, zerolog.Nop())
	require.NoError(t, err)

	name, err := storage.Upload(context.Background(), "abc123_pothole.png", strings.NewReader("image bytes"))
	require.NoError(t, err)
	require.Equal(t, "abc123_pothole.png", name)

	content, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	require.Equal(t, "image bytes", string(content))
}

func TestStorageUploadRefusesOverwrite(t *testing.T) {
	dir := t.TempDir()
	storage, err := localfs.New(dir, zerolog.Nop())
	require.NoError(t, err)

	_, err = storage.Upload(context.Background(), "photo.png", strings.NewReader("first"))
	require.NoError(t, err)

	_, err = storage.Upload(context.Background(), "photo.png", strings.NewReader("second"))
	require.Error(t, err)
}

func TestStorageUploadSanitizesName(t *testing.T) {
	dir := t.TempDir()
	storage, err := localfs.New(dir, zerolog.Nop())
	require.NoError(t, err)

	name, err := storage.Upload(context.Background(), "../../etc/passwd", strings.NewReader("nope"))
	require.NoError(t, err)
	require.Equal(t, "passwd", name)

	_, err = os.Stat(filepath.Join(dir, "passwd"))
	require.NoError(t, err)
}

func TestSanitizeFilename(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"pothole.png", "pothole.png"},
		{"../../etc/passwd", "passwd"},
		{"..\\..\\boot.ini", "boot.ini"},
		{"my photo (1).jpg", "my_photo__1_.jpg"},
		{"héllo.png", "h_llo.png"},
		{"....", "upload"},
		{"", "upload"},
		{"weird/../name?*.jpeg", "name__.jpeg"},
	}

	for _, tc := range cases {
		require.Equal(t, tc.want, localfs.SanitizeFilename(tc.input), "input %q", tc.input)
	}
}

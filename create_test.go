package infs

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/opencontainers/go-digest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeTree materializes files under a fresh temp dir and returns its path.
func writeTree(tb testing.TB, files map[string][]byte) string {
	tb.Helper()
	dir := tb.TempDir()
	for p, data := range files {
		full := filepath.Join(dir, filepath.FromSlash(p))
		require.NoError(tb, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(tb, os.WriteFile(full, data, 0o644))
	}
	return dir
}

func TestCreateRoundTrip(t *testing.T) {
	t.Parallel()

	files := map[string][]byte{
		"index.html":   []byte("<html></html>"),
		"css/site.css": []byte("body{}"),
		"img/menu/a":   []byte("aa"),
		"empty":        nil,
	}
	dir := writeTree(t, files)

	var buf bytes.Buffer
	stats, err := Create(t.Context(), dir, &buf)
	require.NoError(t, err)

	a, err := New(buf.Bytes())
	require.NoError(t, err)

	assert.Equal(t, len(files), a.Len())
	for p, data := range files {
		got, err := a.ReadFile(p)
		require.NoError(t, err, p)
		assert.Equal(t, data, got, p)
	}

	// Entries are sorted by path for reproducible bundles.
	assert.Equal(t, []string{"css/site.css", "empty", "img/menu/a", "index.html"}, a.Paths())

	assert.Equal(t, len(files), stats.FileCount)
	assert.Equal(t, uint64(buf.Len()), stats.TotalBytes)
	assert.Equal(t, stats.HeaderBytes+stats.DataBytes, stats.TotalBytes)
	assert.Equal(t, uint64(13+6+2), stats.DataBytes)
	assert.Equal(t, digest.FromBytes(buf.Bytes()), stats.Digest)
}

func TestCreateDeterministic(t *testing.T) {
	t.Parallel()

	dir := writeTree(t, map[string][]byte{
		"b.txt":     []byte("bb"),
		"a.txt":     []byte("aa"),
		"sub/c.txt": []byte("cc"),
	})

	var first, second bytes.Buffer
	stats1, err := Create(t.Context(), dir, &first)
	require.NoError(t, err)
	stats2, err := Create(t.Context(), dir, &second)
	require.NoError(t, err)

	assert.Equal(t, first.Bytes(), second.Bytes())
	assert.Equal(t, stats1.Digest, stats2.Digest)
}

func TestCreateSkipsSymlinks(t *testing.T) {
	t.Parallel()
	if runtime.GOOS == "windows" {
		t.Skip("symlink creation requires privileges on windows")
	}

	dir := writeTree(t, map[string][]byte{"real.txt": []byte("data")})
	require.NoError(t, os.Symlink(
		filepath.Join(dir, "real.txt"),
		filepath.Join(dir, "link.txt")))

	var buf bytes.Buffer
	stats, err := Create(t.Context(), dir, &buf)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.FileCount)

	a, err := New(buf.Bytes())
	require.NoError(t, err)
	assert.True(t, a.Exists("real.txt"))
	assert.False(t, a.Exists("link.txt"))
}

func TestCreateMaxFiles(t *testing.T) {
	t.Parallel()

	dir := writeTree(t, map[string][]byte{
		"a": []byte("1"),
		"b": []byte("2"),
		"c": []byte("3"),
	})

	var buf bytes.Buffer
	_, err := Create(t.Context(), dir, &buf, CreateWithMaxFiles(2))
	require.ErrorIs(t, err, ErrTooManyFiles)

	var tooMany *TooManyFilesError
	require.ErrorAs(t, err, &tooMany)
	assert.Equal(t, 2, tooMany.Max)
}

func TestCreateWithPrefix(t *testing.T) {
	t.Parallel()

	dir := writeTree(t, map[string][]byte{"app.js": []byte("js")})

	var buf bytes.Buffer
	_, err := Create(t.Context(), dir, &buf, CreateWithPrefix("static"))
	require.NoError(t, err)

	a, err := New(buf.Bytes())
	require.NoError(t, err)
	assert.True(t, a.Exists("static/app.js"))
	assert.False(t, a.Exists("app.js"))
}

func TestCreateCanceledContext(t *testing.T) {
	t.Parallel()

	dir := writeTree(t, map[string][]byte{"a": []byte("1")})
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	var buf bytes.Buffer
	_, err := Create(ctx, dir, &buf)
	require.ErrorIs(t, err, context.Canceled)
}

func TestCreateMissingDir(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	_, err := Create(t.Context(), filepath.Join(t.TempDir(), "nope"), &buf)
	require.Error(t, err)
}

func TestCreateEmptyDir(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	stats, err := Create(t.Context(), t.TempDir(), &buf)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.FileCount)
	assert.Equal(t, uint64(8), stats.TotalBytes)

	a, err := New(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, 0, a.Len())
}

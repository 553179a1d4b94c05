package infs

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/opencontainers/go-digest"

	"github.com/meigma/infs/internal/format"
)

// FileDescriptor describes one file to archive.
type FileDescriptor struct {
	// Path is the archive key. Its UTF-8 encoding must not exceed 65535 bytes.
	Path string

	// Size is the exact byte length the source will provide.
	Size uint64
}

// OpenFunc returns a reader for a descriptor's content. The reader must
// yield exactly the descriptor's Size bytes; it is read once, sequentially.
type OpenFunc func(FileDescriptor) (io.ReadCloser, error)

// Build assembles an archive from an ordered list of descriptors.
//
// The header is written first, then each file's content in descriptor
// order, each source opened and read exactly once. Entry offsets follow
// descriptor order; callers wanting deterministic output must order the
// descriptors themselves (Create sorts by path).
//
// Build fails fast: too many files, an over-long or duplicate path, a
// source error, or a source whose length differs from its descriptor all
// abort the build. Output already written must be discarded by the
// caller; a partial archive is never valid.
func Build(w io.Writer, files []FileDescriptor, open OpenFunc) error {
	entries := make([]format.Entry, len(files))
	for i, fd := range files {
		entries[i] = format.Entry{Path: fd.Path, Size: fd.Size}
	}

	header, err := format.EncodeHeader(entries)
	if err != nil {
		return err
	}
	if _, err := w.Write(header); err != nil {
		return fmt.Errorf("infs: write header: %w", err)
	}

	for _, fd := range files {
		if err := writeContent(w, fd, open); err != nil {
			return err
		}
	}
	return nil
}

// writeContent streams one source into the archive, verifying the byte
// count against the descriptor. A source that shrank or grew since it was
// described would corrupt every later offset, so either aborts the build.
func writeContent(w io.Writer, fd FileDescriptor, open OpenFunc) error {
	if fd.Size > math.MaxInt64 {
		return fmt.Errorf("infs: %s: size %d overflows", fd.Path, fd.Size)
	}

	rc, err := open(fd)
	if err != nil {
		return fmt.Errorf("infs: open %s: %w", fd.Path, err)
	}
	defer rc.Close()

	n, err := io.CopyN(w, rc, int64(fd.Size))
	if err == io.EOF {
		return fmt.Errorf("infs: %s: short source: %d of %d bytes", fd.Path, n, fd.Size)
	}
	if err != nil {
		return fmt.Errorf("infs: read %s: %w", fd.Path, err)
	}

	var scratch [1]byte
	if n, _ := rc.Read(scratch[:]); n > 0 {
		return fmt.Errorf("infs: %s: source exceeds declared size %d", fd.Path, fd.Size)
	}

	if err := rc.Close(); err != nil {
		return fmt.Errorf("infs: close %s: %w", fd.Path, err)
	}
	return nil
}

// CreateStats describes a bundle produced by Create.
type CreateStats struct {
	// FileCount is the number of archived files.
	FileCount int

	// HeaderBytes is the encoded header length.
	HeaderBytes uint64

	// DataBytes is the total content length.
	DataBytes uint64

	// TotalBytes is the full archive length (header plus data).
	TotalBytes uint64

	// Digest is the canonical digest of the archive bytes.
	Digest digest.Digest
}

// Create builds an archive from the contents of dir and writes it to w.
//
// Create walks dir recursively, including regular files only. Empty
// directories are not preserved and symbolic links are not followed.
// Paths are archived slash-separated, relative to dir. Entries are
// sorted by path so identical trees produce identical bundles.
//
// The context is checked between files and can cancel a long build.
// Any traversal or read error aborts the whole build; nothing is
// skipped silently, and partial output must be discarded.
func Create(ctx context.Context, dir string, w io.Writer, opts ...CreateOption) (*CreateStats, error) {
	cfg := createConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	log := cfg.log()

	root, err := os.OpenRoot(dir)
	if err != nil {
		return nil, err
	}
	defer root.Close()

	files, sources, err := collectFiles(ctx, root, &cfg)
	if err != nil {
		return nil, err
	}

	slices.SortFunc(files, func(a, b FileDescriptor) int {
		return strings.Compare(a.Path, b.Path)
	})

	digester := digest.Canonical.Digester()
	out := io.MultiWriter(w, digester.Hash())

	open := func(fd FileDescriptor) (io.ReadCloser, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return root.Open(filepath.FromSlash(sources[fd.Path]))
	}
	if err := Build(out, files, open); err != nil {
		return nil, err
	}

	stats := &CreateStats{FileCount: len(files), Digest: digester.Digest()}
	for _, fd := range files {
		stats.DataBytes += fd.Size
	}
	entries := make([]format.Entry, len(files))
	for i, fd := range files {
		entries[i] = format.Entry{Path: fd.Path, Size: fd.Size}
	}
	stats.HeaderBytes, _ = format.HeaderLen(entries) //nolint:errcheck // validated by Build
	stats.TotalBytes = stats.HeaderBytes + stats.DataBytes

	log.Info("bundle created",
		"dir", dir,
		"file_count", stats.FileCount,
		"size", stats.TotalBytes,
		"digest", stats.Digest)
	return stats, nil
}

// collectFiles walks the root and gathers descriptors plus the mapping
// from archive key back to the path within the root.
func collectFiles(ctx context.Context, root *os.Root, cfg *createConfig) ([]FileDescriptor, map[string]string, error) {
	var files []FileDescriptor
	sources := make(map[string]string)
	log := cfg.log()

	err := fs.WalkDir(root.FS(), ".", func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if !d.Type().IsRegular() {
			log.Debug("skipped irregular file", "path", p)
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		if info.Size() < 0 {
			return fmt.Errorf("infs: negative file size: %s", p)
		}
		if cfg.maxFiles > 0 && len(files) >= cfg.maxFiles {
			return &TooManyFilesError{Count: len(files) + 1, Max: cfg.maxFiles}
		}

		key := p
		if cfg.prefix != "" {
			key = path.Join(cfg.prefix, p)
		}
		files = append(files, FileDescriptor{Path: key, Size: uint64(info.Size())})
		sources[key] = p
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return files, sources, nil
}

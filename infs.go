package infs

import (
	"io/fs"
	"log/slog"

	"github.com/meigma/infs/internal/format"
)

// Entry is one file record in the archive header.
type Entry = format.Entry

// Interface compliance.
var (
	_ fs.FS         = (*Archive)(nil)
	_ fs.StatFS     = (*Archive)(nil)
	_ fs.ReadFileFS = (*Archive)(nil)
)

// Archive provides read-only access to files in an archive buffer.
//
// An Archive is immutable after construction and safe for concurrent use
// without locking. All queries are served from the in-memory index and
// buffer; content reads return sub-slices of the buffer, never copies.
type Archive struct {
	data   []byte
	index  map[string]Entry
	paths  []string
	logger *slog.Logger
}

// Option configures an Archive.
type Option func(*Archive)

// WithLogger sets a logger for construction and lookup diagnostics.
// By default nothing is logged.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Archive) {
		a.logger = logger
	}
}

// log returns the logger, falling back to a discard logger if nil.
func (a *Archive) log() *slog.Logger {
	if a.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return a.logger
}

// New parses an archive buffer and builds the path index.
//
// The data is retained by the Archive; callers must not modify it after
// calling New. The buffer is validated up front: a bad magic, a truncated
// header, or an entry whose data range exceeds the buffer fails with
// ErrInvalidArchive, and no Archive is returned. Construction touches only
// the header region and is O(n) in the entry count.
//
// When the buffer contains duplicate paths (which Build refuses to
// produce), the last entry wins in the index.
func New(data []byte, opts ...Option) (*Archive, error) {
	entries, err := format.ParseHeader(data)
	if err != nil {
		return nil, err
	}

	a := &Archive{
		data:  data,
		index: make(map[string]Entry, len(entries)),
		paths: make([]string, 0, len(entries)),
	}
	for _, opt := range opts {
		opt(a)
	}

	for _, e := range entries {
		if _, ok := a.index[e.Path]; !ok {
			a.paths = append(a.paths, e.Path)
		}
		a.index[e.Path] = e
	}

	a.log().Debug("archive opened", "file_count", len(a.index), "size", len(data))
	return a, nil
}

// MustNew is like New but panics on error.
//
// It is intended for embedded buffers wired at build time, where an
// invalid archive is a startup-abort condition with no fallback.
func MustNew(data []byte, opts ...Option) *Archive {
	a, err := New(data, opts...)
	if err != nil {
		panic(err)
	}
	return a
}

// Exists reports whether the archive contains the exact path.
func (a *Archive) Exists(path string) bool {
	_, ok := a.index[path]
	return ok
}

// ReadFile returns the content of the named file.
//
// The returned slice aliases the archive buffer and must be treated as
// immutable. A missing path fails with ErrNotFound wrapped in an
// fs.PathError; no other error is possible.
func (a *Archive) ReadFile(name string) ([]byte, error) {
	entry, ok := a.index[name]
	if !ok {
		return nil, &fs.PathError{Op: "readfile", Path: name, Err: ErrNotFound}
	}
	return a.slice(entry), nil
}

// Entry returns the header record for the given path.
func (a *Archive) Entry(path string) (Entry, bool) {
	entry, ok := a.index[path]
	return entry, ok
}

// Paths returns all archived paths in archive entry order.
// The returned slice is shared; callers must not modify it.
func (a *Archive) Paths() []string {
	return a.paths
}

// Len returns the number of files in the archive.
func (a *Archive) Len() int {
	return len(a.index)
}

// Size returns the total archive buffer size in bytes.
func (a *Archive) Size() int64 {
	return int64(len(a.data))
}

// Open implements fs.FS.
//
// Only exact file paths resolve; the archive stores no directories, so a
// path that is merely a prefix of archived paths fails with fs.ErrNotExist.
// The returned file reads from the archive buffer without copying and
// supports ReadAt and Seek.
func (a *Archive) Open(name string) (fs.File, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrInvalid}
	}
	entry, ok := a.index[name]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: name, Err: ErrNotFound}
	}
	return newFile(entry, a.slice(entry)), nil
}

// Stat implements fs.StatFS without reading file content.
func (a *Archive) Stat(name string) (fs.FileInfo, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "stat", Path: name, Err: fs.ErrInvalid}
	}
	entry, ok := a.index[name]
	if !ok {
		return nil, &fs.PathError{Op: "stat", Path: name, Err: ErrNotFound}
	}
	return newInfo(entry), nil
}

// slice returns the entry's data region. Bounds were validated at parse
// time; lookups never re-check them.
func (a *Archive) slice(entry Entry) []byte {
	return a.data[entry.Offset : entry.Offset+entry.Size : entry.Offset+entry.Size]
}

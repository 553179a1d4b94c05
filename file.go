package infs

import (
	"bytes"
	"io"
	"io/fs"
	"path"
	"time"
)

// file implements fs.File over a zero-copy slice of the archive buffer.
type file struct {
	r      *bytes.Reader
	info   *info
	closed bool
}

var (
	_ fs.File     = (*file)(nil)
	_ io.ReaderAt = (*file)(nil)
	_ io.Seeker   = (*file)(nil)
)

func newFile(entry Entry, content []byte) *file {
	return &file{
		r:    bytes.NewReader(content),
		info: newInfo(entry),
	}
}

func (f *file) Read(p []byte) (int, error) {
	if f.closed {
		return 0, &fs.PathError{Op: "read", Path: f.info.entry.Path, Err: fs.ErrClosed}
	}
	return f.r.Read(p)
}

func (f *file) ReadAt(p []byte, off int64) (int, error) {
	if f.closed {
		return 0, &fs.PathError{Op: "readat", Path: f.info.entry.Path, Err: fs.ErrClosed}
	}
	return f.r.ReadAt(p, off)
}

func (f *file) Seek(offset int64, whence int) (int64, error) {
	if f.closed {
		return 0, &fs.PathError{Op: "seek", Path: f.info.entry.Path, Err: fs.ErrClosed}
	}
	return f.r.Seek(offset, whence)
}

func (f *file) Stat() (fs.FileInfo, error) {
	return f.info, nil
}

func (f *file) Close() error {
	if f.closed {
		return &fs.PathError{Op: "close", Path: f.info.entry.Path, Err: fs.ErrClosed}
	}
	f.closed = true
	return nil
}

// info implements fs.FileInfo for archived files.
//
// The archive stores no modes, owners, or times; entries surface as
// read-only regular files with a zero ModTime.
type info struct {
	entry Entry
}

func newInfo(entry Entry) *info {
	return &info{entry: entry}
}

func (fi *info) Name() string       { return path.Base(fi.entry.Path) }
func (fi *info) Size() int64        { return int64(fi.entry.Size) } //nolint:gosec // validated against buffer length at parse time
func (fi *info) Mode() fs.FileMode  { return 0o444 }
func (fi *info) ModTime() time.Time { return time.Time{} }
func (fi *info) IsDir() bool        { return false }
func (fi *info) Sys() any           { return nil }

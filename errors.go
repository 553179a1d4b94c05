package infs

import (
	"io/fs"

	"github.com/meigma/infs/internal/format"
)

// Sentinel errors re-exported from internal/format.
var (
	// ErrInvalidArchive is returned when a buffer is not a valid archive.
	// It is fatal: the process has no usable embedded data.
	ErrInvalidArchive = format.ErrInvalidArchive

	// ErrPathTooLong matches PathTooLongError values in errors.Is comparisons.
	ErrPathTooLong = format.ErrPathTooLong

	// ErrTooManyFiles matches TooManyFilesError values in errors.Is comparisons.
	ErrTooManyFiles = format.ErrTooManyFiles

	// ErrDuplicatePath matches DuplicatePathError values in errors.Is comparisons.
	ErrDuplicatePath = format.ErrDuplicatePath
)

// Structured error types re-exported from internal/format. Each carries
// the offending value and the violated limit so build failures point at
// the file to fix.
type (
	// PathTooLongError reports a path whose encoded length exceeds the
	// 16-bit path length field.
	PathTooLongError = format.PathTooLongError

	// TooManyFilesError reports an entry count exceeding the limit.
	TooManyFilesError = format.TooManyFilesError

	// DuplicatePathError reports a path appearing more than once.
	DuplicatePathError = format.DuplicatePathError
)

// ErrNotFound is returned when a queried path is absent from the archive.
// It matches fs.ErrNotExist in errors.Is comparisons, and is an ordinary
// recoverable result rather than a corrupt-bundle condition.
var ErrNotFound error = &notFoundError{}

type notFoundError struct{}

func (*notFoundError) Error() string { return "infs: file not found" }

func (*notFoundError) Is(target error) bool { return target == fs.ErrNotExist }

package format

import (
	"errors"
	"fmt"
)

// Sentinel errors for archive validation and construction.
var (
	// ErrInvalidArchive is returned when a buffer is not a valid archive.
	ErrInvalidArchive = errors.New("infs: invalid archive")

	// ErrPathTooLong matches PathTooLongError values in errors.Is comparisons.
	ErrPathTooLong = errors.New("infs: path too long")

	// ErrTooManyFiles matches TooManyFilesError values in errors.Is comparisons.
	ErrTooManyFiles = errors.New("infs: too many files")

	// ErrDuplicatePath matches DuplicatePathError values in errors.Is comparisons.
	ErrDuplicatePath = errors.New("infs: duplicate path")
)

// PathTooLongError reports a path whose encoded length exceeds the
// 16-bit path length field.
type PathTooLongError struct {
	Path string
	Len  int
	Max  int
}

func (e *PathTooLongError) Error() string {
	return fmt.Sprintf("infs: path too long: %s (%d bytes, max %d bytes)", e.Path, e.Len, e.Max)
}

func (e *PathTooLongError) Is(target error) bool { return target == ErrPathTooLong }

// TooManyFilesError reports an entry count exceeding the configured or
// format-imposed limit.
type TooManyFilesError struct {
	Count int
	Max   int
}

func (e *TooManyFilesError) Error() string {
	return fmt.Sprintf("infs: too many files: %d (max %d)", e.Count, e.Max)
}

func (e *TooManyFilesError) Is(target error) bool { return target == ErrTooManyFiles }

// DuplicatePathError reports a path appearing more than once in the input.
type DuplicatePathError struct {
	Path string
}

func (e *DuplicatePathError) Error() string {
	return fmt.Sprintf("infs: duplicate path: %s", e.Path)
}

func (e *DuplicatePathError) Is(target error) bool { return target == ErrDuplicatePath }

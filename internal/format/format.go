// Package format implements the INFS archive header layout.
//
// An archive is a single flat buffer: a 4-byte magic, a little-endian
// uint32 entry count, one variable-length record per entry, then the
// concatenated file contents. Every multi-byte field is little-endian.
//
//	offset 0:  4 bytes  magic "INFS"
//	offset 4:  4 bytes  uint32 entry count
//	offset 8:  per entry:
//	             2 bytes  uint16 path length (N)
//	             N bytes  path (UTF-8, not NUL-terminated)
//	             8 bytes  uint64 size
//	             8 bytes  uint64 data offset (absolute, from buffer start)
//
// The first entry's data offset equals the header length; contents follow
// contiguously in entry order with no padding. The format carries no
// version field: the magic is the only gate, so any incompatible change
// must change the magic.
package format

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Magic identifies an INFS archive buffer.
var Magic = [4]byte{'I', 'N', 'F', 'S'}

const (
	countWidth   = 4
	pathLenWidth = 2
	sizeWidth    = 8
	offsetWidth  = 8

	// BaseLen is the length of the magic plus the entry count.
	BaseLen = len(Magic) + countWidth

	// EntryFixedLen is the fixed portion of one entry record.
	EntryFixedLen = pathLenWidth + sizeWidth + offsetWidth

	// MaxPathLen is the longest encoded path the uint16 length field can hold.
	MaxPathLen = 1<<16 - 1

	// MaxEntries is the largest entry count the uint32 count field can hold.
	MaxEntries = 1<<32 - 1
)

// Entry is one file record in the archive header.
type Entry struct {
	// Path is the archive key, an opaque UTF-8 string.
	Path string

	// Size is the exact byte length of the file's content.
	Size uint64

	// Offset is the absolute byte offset of the content from the start
	// of the archive buffer. Assigned during encoding.
	Offset uint64
}

// HeaderLen returns the encoded header length for the given entries.
// It fails when the entry count or any encoded path exceeds the field limits.
func HeaderLen(entries []Entry) (uint64, error) {
	if len(entries) > MaxEntries {
		return 0, &TooManyFilesError{Count: len(entries), Max: MaxEntries}
	}

	n := uint64(BaseLen)
	for _, e := range entries {
		if len(e.Path) > MaxPathLen {
			return 0, &PathTooLongError{Path: e.Path, Len: len(e.Path), Max: MaxPathLen}
		}
		n += uint64(EntryFixedLen) + uint64(len(e.Path))
	}
	return n, nil
}

// EncodeHeader serializes the header for the given entries.
//
// Offsets are assigned by accumulating sizes from the header end in input
// order; the Offset field of the input is ignored. Entries with duplicate
// paths are rejected: a duplicate would leave one file's bytes present in
// the archive but unreachable through the index.
func EncodeHeader(entries []Entry) ([]byte, error) {
	headerLen, err := HeaderLen(entries)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		if _, ok := seen[e.Path]; ok {
			return nil, &DuplicatePathError{Path: e.Path}
		}
		seen[e.Path] = struct{}{}
	}

	header := make([]byte, 0, headerLen)
	header = append(header, Magic[:]...)
	header = binary.LittleEndian.AppendUint32(header, uint32(len(entries)))

	offset := headerLen
	for _, e := range entries {
		header = binary.LittleEndian.AppendUint16(header, uint16(len(e.Path)))
		header = append(header, e.Path...)
		header = binary.LittleEndian.AppendUint64(header, e.Size)
		header = binary.LittleEndian.AppendUint64(header, offset)
		offset += e.Size
	}

	return header, nil
}

// ParseHeader decodes the header of a complete archive buffer.
//
// The whole buffer is required, not just the header region: every entry's
// data range is validated against the buffer length, so a truncated or
// tampered archive is rejected here rather than at lookup time. Paths are
// decoded lossily; malformed UTF-8 sequences are replaced, never fatal.
func ParseHeader(data []byte) ([]Entry, error) {
	if len(data) < BaseLen {
		return nil, fmt.Errorf("%w: %d bytes, need at least %d", ErrInvalidArchive, len(data), BaseLen)
	}
	if !bytes.Equal(data[:len(Magic)], Magic[:]) {
		return nil, fmt.Errorf("%w: bad magic %q", ErrInvalidArchive, data[:len(Magic)])
	}

	count := binary.LittleEndian.Uint32(data[len(Magic):BaseLen])
	bufLen := uint64(len(data))

	// Each record is at least EntryFixedLen bytes, so a count that cannot
	// fit in the remaining buffer is rejected before any allocation.
	if uint64(count)*EntryFixedLen > bufLen-uint64(BaseLen) {
		return nil, fmt.Errorf("%w: %d entries cannot fit in %d bytes", ErrInvalidArchive, count, len(data))
	}

	entries := make([]Entry, 0, count)
	cursor := uint64(BaseLen)
	for i := uint32(0); i < count; i++ {
		if bufLen-cursor < pathLenWidth {
			return nil, truncatedErr(i)
		}
		pathLen := uint64(binary.LittleEndian.Uint16(data[cursor:]))
		cursor += pathLenWidth

		if bufLen-cursor < pathLen+sizeWidth+offsetWidth {
			return nil, truncatedErr(i)
		}
		path := decodePath(data[cursor : cursor+pathLen])
		cursor += pathLen

		size := binary.LittleEndian.Uint64(data[cursor:])
		cursor += sizeWidth
		offset := binary.LittleEndian.Uint64(data[cursor:])
		cursor += offsetWidth

		if offset > bufLen || size > bufLen-offset {
			return nil, fmt.Errorf("%w: entry %q data range [%d, %d+%d) exceeds %d bytes",
				ErrInvalidArchive, path, offset, offset, size, bufLen)
		}

		entries = append(entries, Entry{Path: path, Size: size, Offset: offset})
	}

	return entries, nil
}

func truncatedErr(entry uint32) error {
	return fmt.Errorf("%w: header truncated at entry %d", ErrInvalidArchive, entry)
}

func decodePath(b []byte) string {
	s := string(b)
	if utf8.ValidString(s) {
		return s
	}
	return strings.ToValidUTF8(s, "�")
}

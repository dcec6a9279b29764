package snapshot

import "errors"

const (
	// MagicNumber identifies vecbuf snapshot streams (ASCII: "VBUF").
	MagicNumber = 0x56425546
	// Version is the current snapshot format version.
	Version = 1
)

// Codec identifies the payload compression algorithm.
type Codec uint8

const (
	// CodecNone stores the payload uncompressed.
	CodecNone Codec = iota
	// CodecZstd compresses the payload with zstandard.
	CodecZstd
	// CodecLZ4 compresses the payload with lz4.
	CodecLZ4
)

func (c Codec) String() string {
	switch c {
	case CodecNone:
		return "none"
	case CodecZstd:
		return "zstd"
	case CodecLZ4:
		return "lz4"
	default:
		return "unknown"
	}
}

var (
	// ErrInvalidMagic is returned when the stream does not start with the
	// snapshot magic number.
	ErrInvalidMagic = errors.New("snapshot: invalid magic number")
	// ErrInvalidVersion is returned for unsupported format versions.
	ErrInvalidVersion = errors.New("snapshot: unsupported version")
	// ErrInvalidCodec is returned for unknown codec identifiers.
	ErrInvalidCodec = errors.New("snapshot: invalid codec")
	// ErrCorruptSnapshot is returned when header fields are inconsistent
	// with the payload.
	ErrCorruptSnapshot = errors.New("snapshot: corrupt snapshot")
)

// header is the fixed-size descriptor written after the magic number and
// version. All integers are little-endian on the wire.
type header struct {
	Codec       Codec
	ElementSize uint64
	Length      uint64
	MaxCapacity uint64
	PayloadSize uint64
}

// Package snapshot serializes vectors to a checksummed, optionally
// compressed binary stream and restores them again.
//
// The stream layout is:
//
//	magic u32 | version u16 | codec u8 | reserved u8 |
//	elementSize u64 | length u64 | maxCapacity u64 | payloadSize u64 |
//	payload | crc32 u32
//
// All integers are little-endian. The CRC32 trailer covers everything
// before it. The payload holds the live elements back-to-back, compressed
// per the codec byte; capacity is not persisted, a restored vector starts
// with capacity equal to its length.
package snapshot

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/hupe1980/vecbuf"
	"github.com/hupe1980/vecbuf/internal/conv"
	"github.com/hupe1980/vecbuf/resource"
)

// headerSize is the byte size of the fixed stream prefix, magic and
// version included.
const headerSize = 4 + 2 + 1 + 1 + 8 + 8 + 8 + 8

// options configures Write and Read.
type options struct {
	codec      Codec
	controller *resource.Controller
	vectorOpts []vecbuf.Option
}

// Option is a function that configures snapshot options.
type Option func(*options)

// WithCodec sets the payload compression codec for Write. Read ignores it;
// the codec is taken from the stream.
func WithCodec(codec Codec) Option {
	return func(o *options) {
		o.codec = codec
	}
}

// WithController paces snapshot IO through the controller's IO limit.
func WithController(controller *resource.Controller) Option {
	return func(o *options) {
		o.controller = controller
	}
}

// WithVectorOptions passes vector construction options to Read, for
// example a custom allocator for the restored vector. Write ignores it.
func WithVectorOptions(opts ...vecbuf.Option) Option {
	return func(o *options) {
		o.vectorOpts = opts
	}
}

// Write serializes v to w.
func Write(ctx context.Context, w io.Writer, v vecbuf.Vector, opts ...Option) error {
	// The element-size check also rejects typed-nil handles, which pass
	// the interface comparison.
	if v == nil || v.ElementSize() <= 0 {
		return vecbuf.ErrNilVector
	}

	o := options{codec: CodecNone}
	for _, opt := range opts {
		opt(&o)
	}

	raw := make([]byte, v.Len()*v.ElementSize())
	if v.Len() > 0 {
		if err := v.CopyRange(0, v.Len(), raw); err != nil {
			return err
		}
	}

	payload, err := compress(o.codec, raw)
	if err != nil {
		return err
	}

	elemSizeU64, err := conv.IntToUint64(v.ElementSize())
	if err != nil {
		return err
	}
	lengthU64, err := conv.IntToUint64(v.Len())
	if err != nil {
		return err
	}
	maxCapU64, err := conv.IntToUint64(v.MaxCapacity())
	if err != nil {
		return err
	}
	payloadSizeU64, err := conv.IntToUint64(len(payload))
	if err != nil {
		return err
	}

	hdr := make([]byte, 0, headerSize)
	hdr = binary.LittleEndian.AppendUint32(hdr, MagicNumber)
	hdr = binary.LittleEndian.AppendUint16(hdr, Version)
	hdr = append(hdr, byte(o.codec), 0)
	hdr = binary.LittleEndian.AppendUint64(hdr, elemSizeU64)
	hdr = binary.LittleEndian.AppendUint64(hdr, lengthU64)
	hdr = binary.LittleEndian.AppendUint64(hdr, maxCapU64)
	hdr = binary.LittleEndian.AppendUint64(hdr, payloadSizeU64)

	if err := o.controller.AcquireIO(ctx, len(hdr)+len(payload)+4); err != nil {
		return err
	}

	cw := newChecksumWriter(w)
	if _, err := cw.Write(hdr); err != nil {
		return fmt.Errorf("snapshot: write header: %w", err)
	}
	if _, err := cw.Write(payload); err != nil {
		return fmt.Errorf("snapshot: write payload: %w", err)
	}

	var trailer [4]byte
	binary.LittleEndian.PutUint32(trailer[:], cw.Sum())
	if _, err := w.Write(trailer[:]); err != nil {
		return fmt.Errorf("snapshot: write checksum: %w", err)
	}

	return nil
}

// Read restores a contiguous vector from r. The stream's checksum is
// verified before any data is interpreted as elements.
func Read(ctx context.Context, r io.Reader, opts ...Option) (*vecbuf.Contiguous, error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	cr := newChecksumReader(r)

	hdrBuf := make([]byte, headerSize)
	if _, err := io.ReadFull(cr, hdrBuf); err != nil {
		return nil, fmt.Errorf("snapshot: read header: %w", err)
	}

	if binary.LittleEndian.Uint32(hdrBuf[0:4]) != MagicNumber {
		return nil, ErrInvalidMagic
	}
	if binary.LittleEndian.Uint16(hdrBuf[4:6]) != Version {
		return nil, ErrInvalidVersion
	}

	hdr := header{
		Codec:       Codec(hdrBuf[6]),
		ElementSize: binary.LittleEndian.Uint64(hdrBuf[8:16]),
		Length:      binary.LittleEndian.Uint64(hdrBuf[16:24]),
		MaxCapacity: binary.LittleEndian.Uint64(hdrBuf[24:32]),
		PayloadSize: binary.LittleEndian.Uint64(hdrBuf[32:40]),
	}
	if hdr.Codec > CodecLZ4 {
		return nil, ErrInvalidCodec
	}

	elemSize, err := conv.Uint64ToInt(hdr.ElementSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptSnapshot, err)
	}
	length, err := conv.Uint64ToInt(hdr.Length)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptSnapshot, err)
	}
	maxCap, err := conv.Uint64ToInt(hdr.MaxCapacity)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptSnapshot, err)
	}
	payloadSize, err := conv.Uint64ToInt(hdr.PayloadSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptSnapshot, err)
	}

	if err := o.controller.AcquireIO(ctx, headerSize+payloadSize+4); err != nil {
		return nil, err
	}

	payload := make([]byte, payloadSize)
	if _, err := io.ReadFull(cr, payload); err != nil {
		return nil, fmt.Errorf("snapshot: read payload: %w", err)
	}

	var trailer [4]byte
	if _, err := io.ReadFull(r, trailer[:]); err != nil {
		return nil, fmt.Errorf("snapshot: read checksum: %w", err)
	}
	if err := cr.Verify(binary.LittleEndian.Uint32(trailer[:])); err != nil {
		return nil, err
	}

	raw, err := decompress(hdr.Codec, payload)
	if err != nil {
		return nil, err
	}
	if elemSize <= 0 || length < 0 || len(raw) != length*elemSize {
		return nil, ErrCorruptSnapshot
	}

	vopts := o.vectorOpts
	if length > 0 {
		vopts = append(vopts[:len(vopts):len(vopts)], vecbuf.WithInitialData(raw, length))
	}

	return vecbuf.New(elemSize, length, maxCap, vopts...)
}

func compress(codec Codec, raw []byte) ([]byte, error) {
	switch codec {
	case CodecNone:
		return raw, nil
	case CodecZstd:
		enc, err := zstd.NewWriter(nil)
		if err != nil {
			return nil, fmt.Errorf("snapshot: init zstd encoder: %w", err)
		}
		defer enc.Close()

		return enc.EncodeAll(raw, make([]byte, 0, len(raw)/2)), nil
	case CodecLZ4:
		var buf bytes.Buffer
		zw := lz4.NewWriter(&buf)
		if _, err := zw.Write(raw); err != nil {
			return nil, fmt.Errorf("snapshot: lz4 compress: %w", err)
		}
		if err := zw.Close(); err != nil {
			return nil, fmt.Errorf("snapshot: lz4 compress: %w", err)
		}
		return buf.Bytes(), nil
	default:
		return nil, ErrInvalidCodec
	}
}

func decompress(codec Codec, payload []byte) ([]byte, error) {
	switch codec {
	case CodecNone:
		return payload, nil
	case CodecZstd:
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, fmt.Errorf("snapshot: init zstd decoder: %w", err)
		}
		defer dec.Close()

		raw, err := dec.DecodeAll(payload, nil)
		if err != nil {
			return nil, fmt.Errorf("snapshot: zstd decompress: %w", err)
		}
		return raw, nil
	case CodecLZ4:
		raw, err := io.ReadAll(lz4.NewReader(bytes.NewReader(payload)))
		if err != nil {
			return nil, fmt.Errorf("snapshot: lz4 decompress: %w", err)
		}
		return raw, nil
	default:
		return nil, ErrInvalidCodec
	}
}

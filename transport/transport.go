// Package transport layers an optional per-block compression envelope
// underneath the codec and reassembler. Compression here has nothing to do
// with the wire grammar in asciiframe/codec: it wraps already-framed bytes
// before they reach (or after they leave) the network, the same way the
// teacher's compress package wraps already-encoded blob payloads.
package transport

import (
	"errors"
	"fmt"
	"sync"

	"github.com/klauspost/compress/s2"
	"github.com/pierrec/lz4/v4"
	"github.com/valyala/gozstd"
)

// Codec identifies a stream-level compression algorithm.
type Codec uint8

const (
	CodecNone Codec = iota
	CodecZstd
	CodecS2
	CodecLZ4
)

// String renders the codec name, matching the teacher's CompressionType.String style.
func (c Codec) String() string {
	switch c {
	case CodecNone:
		return "none"
	case CodecZstd:
		return "zstd"
	case CodecS2:
		return "s2"
	case CodecLZ4:
		return "lz4"
	default:
		return "unknown"
	}
}

// Compressor compresses a byte slice and returns the compressed result.
type Compressor interface {
	Compress(data []byte) ([]byte, error)
}

// Decompressor decompresses a byte slice and returns the original result.
type Decompressor interface {
	Decompress(data []byte) ([]byte, error)
}

// Envelope combines Compressor and Decompressor for one algorithm.
type Envelope interface {
	Compressor
	Decompressor
}

// NewEnvelope returns the Envelope for codec, or an error if codec is not
// one of the known constants.
func NewEnvelope(codec Codec) (Envelope, error) {
	switch codec {
	case CodecNone:
		return noopEnvelope{}, nil
	case CodecZstd:
		return zstdEnvelope{}, nil
	case CodecS2:
		return s2Envelope{}, nil
	case CodecLZ4:
		return lz4Envelope{}, nil
	default:
		return nil, fmt.Errorf("transport: unknown compression codec %d", codec)
	}
}

type noopEnvelope struct{}

func (noopEnvelope) Compress(data []byte) ([]byte, error)   { return data, nil }
func (noopEnvelope) Decompress(data []byte) ([]byte, error) { return data, nil }

type zstdEnvelope struct{}

func (zstdEnvelope) Compress(data []byte) ([]byte, error) {
	return gozstd.CompressLevel(nil, data, 3), nil
}

func (zstdEnvelope) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return gozstd.Decompress(nil, data)
}

type s2Envelope struct{}

func (s2Envelope) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return s2.Encode(nil, data), nil
}

func (s2Envelope) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return s2.Decode(nil, data)
}

var lz4CompressorPool = sync.Pool{
	New: func() any {
		return &lz4.Compressor{}
	},
}

type lz4Envelope struct{}

func (lz4Envelope) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	dst := make([]byte, lz4.CompressBlockBound(len(data)))

	lc, _ := lz4CompressorPool.Get().(*lz4.Compressor)
	defer lz4CompressorPool.Put(lc)

	n, err := lc.CompressBlock(data, dst)
	if err != nil {
		return nil, err
	}

	return dst[:n], nil
}

// Decompress grows its scratch buffer until UncompressBlock stops
// complaining about a short destination, the same adaptive strategy the
// teacher's LZ4Compressor uses for blob payloads of unknown expansion.
func (lz4Envelope) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	bufSize := len(data) * 4
	const maxSize = 128 * 1024 * 1024

	for bufSize <= maxSize {
		buf := make([]byte, bufSize)
		n, err := lz4.UncompressBlock(data, buf)
		if err != nil {
			if errors.Is(err, lz4.ErrInvalidSourceShortBuffer) && bufSize < maxSize {
				bufSize *= 2

				continue
			}

			return nil, err
		}

		return buf[:n], nil
	}

	return nil, lz4.ErrInvalidSourceShortBuffer
}

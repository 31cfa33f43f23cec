package transport

import "io"

// CompressedWriter wraps w, compressing each write with the configured
// envelope before it reaches the underlying writer. Each Write call is
// compressed as one independent block: callers that need whole-stream
// compression should buffer and flush in application-meaningful chunks
// (e.g. once per stream.Reassembler.Feed batch), not byte-by-byte.
type CompressedWriter struct {
	w    io.Writer
	env  Envelope
	name string
}

// NewCompressedWriter wraps w with codec's compression envelope.
func NewCompressedWriter(w io.Writer, codec Codec) (*CompressedWriter, error) {
	env, err := NewEnvelope(codec)
	if err != nil {
		return nil, err
	}

	return &CompressedWriter{w: w, env: env, name: codec.String()}, nil
}

// Write compresses data and writes the result to the underlying writer.
// It returns len(data) on success regardless of the compressed size, so
// callers see ordinary io.Writer semantics.
func (cw *CompressedWriter) Write(data []byte) (int, error) {
	out, err := cw.env.Compress(data)
	if err != nil {
		return 0, err
	}

	if _, err := cw.w.Write(out); err != nil {
		return 0, err
	}

	return len(data), nil
}

// CompressedReader decompresses one block read from r's underlying source
// before handing it to the reassembler.
type CompressedReader struct {
	r   io.Reader
	env Envelope
}

// NewCompressedReader wraps r with codec's decompression envelope.
func NewCompressedReader(r io.Reader, codec Codec) (*CompressedReader, error) {
	env, err := NewEnvelope(codec)
	if err != nil {
		return nil, err
	}

	return &CompressedReader{r: r, env: env}, nil
}

// ReadBlock reads up to len(buf) compressed bytes from the underlying
// reader and returns the decompressed result. It does not implement
// io.Reader directly because a compressed block's decompressed size is not
// known ahead of the read.
func (cr *CompressedReader) ReadBlock(buf []byte) ([]byte, error) {
	n, err := cr.r.Read(buf)
	if n == 0 {
		return nil, err
	}

	out, derr := cr.env.Decompress(buf[:n])
	if derr != nil {
		return nil, derr
	}

	return out, err
}

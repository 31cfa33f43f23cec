// Package stream implements the append-only buffering state machine that
// turns a byte stream (TCP sticky packets, a pipe, anything with no
// message-boundary framing of its own) into a sequence of decoded message
// instances: buffer what arrives, repeatedly try to identify and decode one
// message from the front, and on failure either wait for more bytes or
// resynchronise by dropping bytes and trying again.
package stream

import (
	"bytes"
	"errors"
	"log/slog"

	"github.com/coreframe/telemetrycodec/errs"
	"github.com/coreframe/telemetrycodec/internal/options"
	"github.com/coreframe/telemetrycodec/schema"
)

// Identifier is the subset of registry.Binary / registry.ASCII that the
// reassembler needs: find and decode the next complete message at the front
// of a buffer, or report why it could not.
type Identifier interface {
	Identify(data []byte) (schema.Instance, int, error)
}

// ReassemblerOption configures a Reassembler at construction time.
type ReassemblerOption = options.Option[*Reassembler]

// WithAsciiResyncToSentinel makes resynchronisation, on an Unknown or
// Malformed frame, skip forward to the next occurrence of sentinel rather
// than dropping a single byte. This is an explicit opt-in: it is only
// correct for ascii-mode streams, where a start sentinel byte is unlikely
// to appear inside a well-formed frame's body.
func WithAsciiResyncToSentinel(sentinel byte) ReassemblerOption {
	return options.NoError(func(r *Reassembler) {
		r.resyncToSentinel = true
		r.sentinel = sentinel
	})
}

// WithLogger attaches a structured logger for resynchronisation events. The
// default is slog.Default().
func WithLogger(l *slog.Logger) ReassemblerOption {
	return options.NoError(func(r *Reassembler) {
		r.log = l
	})
}

// Reassembler buffers incoming bytes for one stream and extracts complete
// messages as they become available. Not safe for concurrent use: a stream
// has a single reader.
type Reassembler struct {
	reg Identifier
	buf []byte

	resyncToSentinel bool
	sentinel         byte

	log *slog.Logger
}

// NewReassembler creates a Reassembler that identifies and decodes messages
// via reg.
func NewReassembler(reg Identifier, opts ...ReassemblerOption) (*Reassembler, error) {
	r := &Reassembler{reg: reg, log: slog.Default()}
	if err := options.Apply(r, opts...); err != nil {
		return nil, err
	}

	return r, nil
}

// Feed appends data to the stream buffer and repeatedly extracts complete
// messages, appending each decoded instance to out, until the buffer holds
// no further complete message. An Incomplete result stops the loop and
// keeps the buffered bytes for the next Feed call. An Unknown or Malformed
// result resynchronises (dropping one byte, or jumping to the next
// sentinel when configured with WithAsciiResyncToSentinel) and retries.
func (r *Reassembler) Feed(data []byte, out *[]schema.Instance) error {
	if len(data) > 0 {
		r.buf = append(r.buf, data...)
	}

	for {
		if len(r.buf) == 0 {
			return nil
		}

		inst, consumed, err := r.reg.Identify(r.buf)
		switch {
		case err == nil:
			*out = append(*out, inst)
			r.buf = r.buf[consumed:]

			continue

		case errors.Is(err, errs.ErrIncomplete):
			return nil

		case errors.Is(err, errs.ErrUnknown), errors.Is(err, errs.ErrMalformed):
			r.log.Debug("resynchronising stream", "reason", err, "buffered", len(r.buf))
			r.resync()

			continue

		default:
			return err
		}
	}
}

// resync drops bytes from the front of the buffer so the next Identify
// attempt starts somewhere new: one byte by default, or up to the next
// sentinel occurrence (exclusive) when configured for ascii resync.
func (r *Reassembler) resync() {
	if len(r.buf) == 0 {
		return
	}

	if r.resyncToSentinel {
		if idx := bytes.IndexByte(r.buf[1:], r.sentinel); idx >= 0 {
			r.buf = r.buf[1+idx:]

			return
		}
		r.buf = nil

		return
	}

	r.buf = r.buf[1:]
}

// Pending returns the number of unconsumed buffered bytes.
func (r *Reassembler) Pending() int {
	return len(r.buf)
}

// Package errs defines the sentinel errors shared across the telemetrycodec
// packages. Callers should compare against these with errors.Is; functions
// that need extra detail wrap a sentinel with fmt.Errorf("%w: ...").
package errs

import "errors"

var (
	// ErrSchemaError indicates a message schema failed validation at build
	// or registration time (e.g. a dynamic field precedes a discriminator,
	// a fixed-point field overflows its backing primitive, a bit-group
	// overflows its backing width, a smart field references an unknown
	// field name, or an ascii schema is missing cmd_type/cmd_str defaults).
	ErrSchemaError = errors.New("schema error")

	// ErrIncomplete indicates a decode needs more bytes than are currently
	// available. Recoverable: the reassembler should wait for more data.
	ErrIncomplete = errors.New("incomplete data")

	// ErrMalformed indicates an ascii frame violated the frame grammar
	// (a missing header delimiter, a non-hex MSGID, a frame too short to
	// hold its checksum). A missing end sentinel is ErrIncomplete instead.
	// Recoverable via resynchronisation.
	ErrMalformed = errors.New("malformed frame")

	// ErrUnknown indicates identification found no schema matching the
	// buffer's discriminator (binary) or (cmd_type, cmd_str) pair (ascii).
	// Recoverable via resynchronisation.
	ErrUnknown = errors.New("unknown message")

	// ErrOutOfRange indicates an encode-time domain violation: a string
	// exceeds its fixed length with truncation disabled, a signed or
	// unsigned fixed-point value does not fit its integer+fractional bits,
	// or an enum value given by name has no matching member. Enum has no
	// strict mode: integer enum values are encoded without a member check.
	ErrOutOfRange = errors.New("value out of range")

	// ErrRegistrySealed indicates Register was called on a registry after
	// its Seal method was called.
	ErrRegistrySealed = errors.New("registry is sealed")
)

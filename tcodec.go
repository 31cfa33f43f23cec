// Package telemetrycodec provides a message codec framework for declaring
// telemetry message schemas from a fixed catalog of field kinds and
// serializing/deserializing them over binary or ascii-framed wire formats,
// with a stream reassembler for sticky-packet transports.
//
// # Core Features
//
//   - A closed set of field kinds (integers, floats, strings, enums,
//     fixed-point, bit groups, arrays, nested messages)
//   - A two-pass binary codec with length and checksum backpatching
//   - A human-readable ascii frame grammar for text transports
//   - Discriminator- and (cmd_type, cmd_str)-keyed registries for
//     identifying which schema an incoming buffer belongs to
//   - A stream reassembler that buffers partial reads and resynchronises
//     past corrupt or unrecognised frames
//
// # Basic Usage
//
// Declaring a schema and round-tripping a message:
//
//	s, _ := schema.NewBuilder("ping", schema.ModeBinary, endian.GetLittleEndianEngine()).
//		Discriminator("kind", field.Uint8{}, uint64(1)).
//		Field("value", field.Uint32{}).
//		Build()
//
//	encoded, _ := telemetrycodec.Encode(s, schema.Instance{"kind": uint64(1), "value": uint64(42)})
//	decoded, _, _ := telemetrycodec.Decode(s, encoded)
//
// Identifying messages of unknown schema from a registry, and reassembling
// them from a fragmented stream:
//
//	reg := telemetrycodec.NewBinaryRegistry()
//	_ = reg.Register(s)
//	reasm, _ := telemetrycodec.NewReassembler(reg)
//
//	var instances []schema.Instance
//	_ = reasm.Feed(chunk, &instances)
//
// # Package Structure
//
// This file provides convenient top-level wrappers around the codec,
// registry, and stream packages for the most common use cases. For
// fine-grained control (ascii registries, compression envelopes, process
// configuration), use the asciiframe, config, and transport packages
// directly.
package telemetrycodec

import (
	"github.com/coreframe/telemetrycodec/asciiframe"
	"github.com/coreframe/telemetrycodec/codec"
	"github.com/coreframe/telemetrycodec/registry"
	"github.com/coreframe/telemetrycodec/schema"
	"github.com/coreframe/telemetrycodec/stream"
)

// Encode serializes inst against s into its binary or ascii wire form,
// dispatching on s.Mode.
func Encode(s *schema.Schema, inst schema.Instance) ([]byte, error) {
	if s.Mode == schema.ModeASCII {
		return asciiframe.Build(s, inst, asciiframe.DefaultConfig())
	}

	return codec.Encode(s, inst)
}

// Decode parses one message of schema s from the front of data, returning
// the decoded instance and the number of bytes consumed.
func Decode(s *schema.Schema, data []byte) (schema.Instance, int, error) {
	if s.Mode == schema.ModeASCII {
		return asciiframe.Parse(s, data, asciiframe.DefaultConfig())
	}

	return codec.Decode(s, data)
}

// NewBinaryRegistry creates an empty discriminator-keyed registry for
// binary-mode schemas.
func NewBinaryRegistry(opts ...registry.BinaryOption) *registry.Binary {
	return registry.NewBinary(opts...)
}

// NewASCIIRegistry creates an empty (cmd_type, cmd_str)-keyed registry for
// ascii-mode schemas, using the conventional '<' '>' '|' ';' delimiter set.
func NewASCIIRegistry(opts ...registry.ASCIIOption) *registry.ASCII {
	return registry.NewASCII(asciiframe.DefaultConfig(), opts...)
}

// NewReassembler creates a stream reassembler over reg, which may be either
// a *registry.Binary or a *registry.ASCII.
func NewReassembler(reg stream.Identifier, opts ...stream.ReassemblerOption) (*stream.Reassembler, error) {
	return stream.NewReassembler(reg, opts...)
}

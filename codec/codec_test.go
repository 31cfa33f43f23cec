package codec

import (
	"testing"
	"time"

	"github.com/coreframe/telemetrycodec/checksum"
	"github.com/coreframe/telemetrycodec/endian"
	"github.com/coreframe/telemetrycodec/field"
	"github.com/coreframe/telemetrycodec/schema"
	"github.com/stretchr/testify/require"
)

// TestEncode_PrimitiveEndiannessMix reproduces seed scenario 1.
func TestEncode_PrimitiveEndiannessMix(t *testing.T) {
	s, err := schema.NewBuilder("mix", schema.ModeBinary, endian.GetLittleEndianEngine()).
		Field("magic", field.Uint16{}, schema.WithEndian(schema.EndianBig)).
		Field("version", field.Uint8{}).
		Field("value", field.Uint16{}, schema.WithEndian(schema.EndianLittle)).
		Build()
	require.NoError(t, err)

	inst := schema.Instance{
		"magic":   uint64(0xCAFE),
		"version": uint64(1),
		"value":   uint64(0x1234),
	}

	out, err := Encode(s, inst)
	require.NoError(t, err)
	require.Equal(t, []byte{0xCA, 0xFE, 0x01, 0x34, 0x12}, out)

	decoded, n, err := Decode(s, out)
	require.NoError(t, err)
	require.Equal(t, len(out), n)
	require.Equal(t, uint64(0xCAFE), decoded["magic"])
	require.Equal(t, uint64(1), decoded["version"])
	require.Equal(t, uint64(0x1234), decoded["value"])
}

// TestEncode_LengthAndChecksumBackpatch reproduces seed scenario 4.
func TestEncode_LengthAndChecksumBackpatch(t *testing.T) {
	s, err := schema.NewBuilder("frame", schema.ModeBinary, endian.GetLittleEndianEngine()).
		Field("sync", field.Uint8{}, schema.WithDefault(uint64(0xAA))).
		Checksum("checksum", field.Uint16{}, checksum.CRC16CCITT, "payload_a", "payload_b").
		Timestamp("timestamp", field.Uint32{}, schema.TimestampSeconds).
		Field("payload_a", field.Uint8{}, schema.WithDefault(uint64(0x01))).
		Field("payload_b", field.Uint8{}, schema.WithDefault(uint64(0x02))).
		Build()
	require.NoError(t, err)

	now := time.Unix(1_700_000_000, 0)
	out, err := EncodeAt(s, schema.Instance{}, now)
	require.NoError(t, err)
	require.Len(t, out, 9)
	require.Equal(t, byte(0xAA), out[0])
	require.Equal(t, byte(0x01), out[7])
	require.Equal(t, byte(0x02), out[8])

	// checksum = CRC16({0x01,0x02}) = 0x1373, little-endian -> 73 13
	require.Equal(t, byte(0x73), out[1])
	require.Equal(t, byte(0x13), out[2])

	decoded, n, err := Decode(s, out)
	require.NoError(t, err)
	require.Equal(t, 9, n)
	require.Equal(t, uint64(1_700_000_000), decoded["timestamp"])
}

func TestEncode_SmartFieldIdempotence(t *testing.T) {
	s, err := schema.NewBuilder("frame", schema.ModeBinary, endian.GetLittleEndianEngine()).
		Field("sync", field.Uint8{}, schema.WithDefault(uint64(0xAA))).
		Checksum("checksum", field.Uint16{}, checksum.XOR, "payload_a", "payload_b").
		Field("payload_a", field.Uint8{}, schema.WithDefault(uint64(0x01))).
		Field("payload_b", field.Uint8{}, schema.WithDefault(uint64(0x02))).
		Build()
	require.NoError(t, err)

	now := time.Unix(1_700_000_000, 0)
	first, err := EncodeAt(s, schema.Instance{}, now)
	require.NoError(t, err)

	decoded, _, err := Decode(s, first)
	require.NoError(t, err)

	second, err := EncodeAt(s, decoded, now)
	require.NoError(t, err)

	require.Equal(t, first, second)
}

func TestCodec_NestedMessageRoundTrip(t *testing.T) {
	inner, err := schema.NewBuilder("inner", schema.ModeBinary, endian.GetLittleEndianEngine()).
		Field("a", field.Uint8{}).
		Field("b", field.Uint16{}).
		Build()
	require.NoError(t, err)

	outer, err := schema.NewBuilder("outer", schema.ModeBinary, endian.GetLittleEndianEngine()).
		Field("kind", field.Uint8{}).
		Nested("payload", inner).
		Build()
	require.NoError(t, err)

	inst := schema.Instance{
		"kind": uint64(7),
		"payload": schema.Instance{
			"a": uint64(9),
			"b": uint64(4000),
		},
	}

	out, err := Encode(outer, inst)
	require.NoError(t, err)
	require.Len(t, out, 1+1+2)

	decoded, n, err := Decode(outer, out)
	require.NoError(t, err)
	require.Equal(t, len(out), n)

	sub, ok := decoded["payload"].(schema.Instance)
	require.True(t, ok)
	require.Equal(t, uint64(9), sub["a"])
	require.Equal(t, uint64(4000), sub["b"])
}

func TestCodec_ArrayFieldRoundTrip(t *testing.T) {
	s, err := schema.NewBuilder("samples", schema.ModeBinary, endian.GetLittleEndianEngine()).
		Field("count", field.Uint8{}).
		Field("values", field.Array{Mode: field.ArrayPrefixed, ItemField: field.Uint16{}}).
		Build()
	require.NoError(t, err)

	inst := schema.Instance{
		"count":  uint64(3),
		"values": []any{uint64(10), uint64(20), uint64(30)},
	}

	out, err := Encode(s, inst)
	require.NoError(t, err)

	decoded, n, err := Decode(s, out)
	require.NoError(t, err)
	require.Equal(t, len(out), n)
	require.Equal(t, []any{uint64(10), uint64(20), uint64(30)}, decoded["values"])
}

func TestDecode_IncompleteBuffer(t *testing.T) {
	s, err := schema.NewBuilder("ping", schema.ModeBinary, endian.GetLittleEndianEngine()).
		Field("a", field.Uint32{}).
		Build()
	require.NoError(t, err)

	_, _, err = Decode(s, []byte{1, 2})
	require.Error(t, err)
}

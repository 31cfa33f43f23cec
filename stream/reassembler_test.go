package stream

import (
	"math/rand"
	"testing"

	"github.com/coreframe/telemetrycodec/asciiframe"
	"github.com/coreframe/telemetrycodec/codec"
	"github.com/coreframe/telemetrycodec/endian"
	"github.com/coreframe/telemetrycodec/field"
	"github.com/coreframe/telemetrycodec/registry"
	"github.com/coreframe/telemetrycodec/schema"
	"github.com/stretchr/testify/require"
)

func build16ByteSchema(t *testing.T) *schema.Schema {
	t.Helper()
	s, err := schema.NewBuilder("fixed16", schema.ModeBinary, endian.GetLittleEndianEngine()).
		Discriminator("kind", field.Uint8{}, uint64(1)).
		Field("a", field.Uint32{}).
		Field("b", field.Uint32{}, schema.WithDefault(uint64(0))).
		Field("c", field.Uint32{}, schema.WithDefault(uint64(0))).
		Field("d", field.Uint16{}, schema.WithDefault(uint64(0))).
		Field("e", field.Uint8{}, schema.WithDefault(uint64(0))).
		Build()
	require.NoError(t, err)

	return s
}

// TestFeed_StreamFragmentationInvariance reproduces seed scenario 5: 100
// instances of a 16-byte message concatenated into one buffer, fed in
// randomly sized chunks, must yield exactly 100 instances.
func TestFeed_StreamFragmentationInvariance(t *testing.T) {
	s := build16ByteSchema(t)

	reg := registry.NewBinary()
	require.NoError(t, reg.Register(s))

	var all []byte
	for i := 0; i < 100; i++ {
		out, err := codec.Encode(s, schema.Instance{
			"kind": uint64(1), "a": uint64(i), "b": uint64(0), "c": uint64(0), "d": uint64(0), "e": uint64(0),
		})
		require.NoError(t, err)
		require.Len(t, out, 16)
		all = append(all, out...)
	}
	require.Len(t, all, 1600)

	r, err := NewReassembler(reg)
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(42))
	var results []schema.Instance

	for offset := 0; offset < len(all); {
		chunk := 1 + rng.Intn(50)
		if offset+chunk > len(all) {
			chunk = len(all) - offset
		}
		require.NoError(t, r.Feed(all[offset:offset+chunk], &results))
		offset += chunk
	}

	require.Len(t, results, 100)
	for i, inst := range results {
		require.Equal(t, uint64(i), inst["a"])
	}
	require.Equal(t, 0, r.Pending())
}

func TestFeed_UnknownDropsOneByteAndResyncs(t *testing.T) {
	s := build16ByteSchema(t)

	reg := registry.NewBinary()
	require.NoError(t, reg.Register(s))

	good, err := codec.Encode(s, schema.Instance{"kind": uint64(1), "a": uint64(7)})
	require.NoError(t, err)

	garbage := []byte{0xFF, 0xFF, 0xFF}
	r, err := NewReassembler(reg)
	require.NoError(t, err)

	var results []schema.Instance
	require.NoError(t, r.Feed(append(garbage, good...), &results))

	require.Len(t, results, 1)
	require.Equal(t, uint64(7), results[0]["a"])
}

func TestFeed_IncompleteWaitsForMoreData(t *testing.T) {
	s := build16ByteSchema(t)

	reg := registry.NewBinary()
	require.NoError(t, reg.Register(s))

	out, err := codec.Encode(s, schema.Instance{"kind": uint64(1), "a": uint64(3)})
	require.NoError(t, err)

	r, err := NewReassembler(reg)
	require.NoError(t, err)

	var results []schema.Instance
	require.NoError(t, r.Feed(out[:10], &results))
	require.Empty(t, results)
	require.Equal(t, 10, r.Pending())

	require.NoError(t, r.Feed(out[10:], &results))
	require.Len(t, results, 1)
	require.Equal(t, uint64(3), results[0]["a"])
}

func TestFeed_AsciiResyncToSentinelSkipsGarbageBlock(t *testing.T) {
	s, err := schema.NewBuilder("ascii_ping", schema.ModeASCII, endian.GetLittleEndianEngine()).
		CmdType("SYS").
		CmdStr("PING").
		Field("msg_id", field.Uint8{}).
		Build()
	require.NoError(t, err)

	reg := registry.NewASCII(asciiframe.DefaultConfig())
	require.NoError(t, reg.Register(s))

	good, err := asciiframe.Build(s, schema.Instance{"msg_id": uint64(9)}, asciiframe.DefaultConfig())
	require.NoError(t, err)

	garbage := []byte("<BOGUS|NO|MATCH|x;99>")
	r, err := NewReassembler(reg, WithAsciiResyncToSentinel('<'))
	require.NoError(t, err)

	var results []schema.Instance
	require.NoError(t, r.Feed(append(garbage, good...), &results))

	require.Len(t, results, 1)
	require.Equal(t, uint64(9), results[0]["msg_id"])
}

package registry

import (
	"testing"

	"github.com/coreframe/telemetrycodec/asciiframe"
	"github.com/coreframe/telemetrycodec/endian"
	"github.com/coreframe/telemetrycodec/errs"
	"github.com/coreframe/telemetrycodec/field"
	"github.com/coreframe/telemetrycodec/schema"
	"github.com/stretchr/testify/require"
)

func buildAsciiPing(t *testing.T) *schema.Schema {
	t.Helper()
	s, err := schema.NewBuilder("ascii_ping", schema.ModeASCII, endian.GetLittleEndianEngine()).
		CmdType("SYS").
		CmdStr("PING").
		Field("msg_id", field.Uint8{}).
		Build()
	require.NoError(t, err)

	return s
}

func TestASCII_IdentifyAndDecode(t *testing.T) {
	r := NewASCII(asciiframe.DefaultConfig())
	s := buildAsciiPing(t)
	require.NoError(t, r.Register(s))

	out, err := asciiframe.Build(s, schema.Instance{"msg_id": uint64(7)}, asciiframe.DefaultConfig())
	require.NoError(t, err)

	inst, n, err := r.Identify(out)
	require.NoError(t, err)
	require.Equal(t, len(out), n)
	require.Equal(t, uint64(7), inst["msg_id"])
}

func TestASCII_IdentifyUnknownCmd(t *testing.T) {
	r := NewASCII(asciiframe.DefaultConfig())
	require.NoError(t, r.Register(buildAsciiPing(t)))

	_, _, err := r.Identify([]byte("<0001|SYS|PONG|7;42>"))
	require.ErrorIs(t, err, errs.ErrUnknown)
}

func TestASCII_IdentifyIncompleteWithoutEndSentinel(t *testing.T) {
	r := NewASCII(asciiframe.DefaultConfig())
	require.NoError(t, r.Register(buildAsciiPing(t)))

	_, _, err := r.Identify([]byte("<0001|SYS|PING|7;"))
	require.ErrorIs(t, err, errs.ErrIncomplete)
}

func TestASCII_RegisterDuplicateKeyFails(t *testing.T) {
	r := NewASCII(asciiframe.DefaultConfig())
	require.NoError(t, r.Register(buildAsciiPing(t)))
	require.Error(t, r.Register(buildAsciiPing(t)))
}

func TestASCII_RegisterAfterSealFails(t *testing.T) {
	r := NewASCII(asciiframe.DefaultConfig())
	r.Seal()

	require.ErrorIs(t, r.Register(buildAsciiPing(t)), errs.ErrRegistrySealed)
}

func TestASCII_ActiveConfigFiltersCandidates(t *testing.T) {
	s, err := schema.NewBuilder("ascii_v2", schema.ModeASCII, endian.GetLittleEndianEngine()).
		ConfigTags("v2").
		CmdType("SYS").
		CmdStr("HELLO").
		Field("msg_id", field.Uint8{}).
		Build()
	require.NoError(t, err)

	r := NewASCII(asciiframe.DefaultConfig())
	require.NoError(t, r.Register(s))
	r.SetActiveConfig("v1")

	out, err := asciiframe.Build(s, schema.Instance{"msg_id": uint64(1)}, asciiframe.DefaultConfig())
	require.NoError(t, err)

	_, _, err = r.Identify(out)
	require.ErrorIs(t, err, errs.ErrUnknown)
}

package asciiframe

import (
	"testing"

	"github.com/coreframe/telemetrycodec/endian"
	"github.com/coreframe/telemetrycodec/errs"
	"github.com/coreframe/telemetrycodec/field"
	"github.com/coreframe/telemetrycodec/schema"
	"github.com/stretchr/testify/require"
)

func statusEnum(t *testing.T) field.Enum {
	t.Helper()
	e, err := field.NewEnum(1, false, map[string]int64{"OK": 0, "WARN": 1, "ERROR": 2})
	require.NoError(t, err)

	return e
}

// TestBuild_RoundTrip reproduces seed scenario 6.
func TestBuild_RoundTrip(t *testing.T) {
	s, err := schema.NewBuilder("test_msg", schema.ModeASCII, endian.GetLittleEndianEngine()).
		CmdType("TEST").
		CmdStr("KITCHEN").
		Field("msg_id", field.Uint8{}).
		Field("label", field.FixedString{Length: 10}).
		Field("status", statusEnum(t)).
		Build()
	require.NoError(t, err)

	inst := schema.Instance{
		"msg_id": uint64(99),
		"label":  "MYLABEL",
		"status": "ERROR",
	}

	out, err := Build(s, inst, DefaultConfig())
	require.NoError(t, err)
	require.Equal(t, "<0063|TEST|KITCHEN|99;MYLABEL   ;ERROR;14>", string(out))

	decoded, n, err := Parse(s, out, DefaultConfig())
	require.NoError(t, err)
	require.Equal(t, len(out), n)
	require.Equal(t, uint64(99), decoded["msg_id"])
	require.Equal(t, "MYLABEL", decoded["label"])

	status, ok := decoded["status"].(field.EnumValue)
	require.True(t, ok)
	require.Equal(t, "ERROR", status.Name)
}

func TestBuild_WithoutChecksum(t *testing.T) {
	s, err := schema.NewBuilder("ping", schema.ModeASCII, endian.GetLittleEndianEngine()).
		CmdType("SYS").
		CmdStr("PING").
		Field("msg_id", field.Uint8{}).
		Build()
	require.NoError(t, err)

	cfg := DefaultConfig()
	cfg.UseChecksum = false

	out, err := Build(s, schema.Instance{"msg_id": uint64(5)}, cfg)
	require.NoError(t, err)
	require.Equal(t, "<0005|SYS|PING|5;>", string(out))

	decoded, n, err := Parse(s, out, cfg)
	require.NoError(t, err)
	require.Equal(t, len(out), n)
	require.Equal(t, uint64(5), decoded["msg_id"])
}

func TestParse_IncompleteWithoutEndSentinel(t *testing.T) {
	s, err := schema.NewBuilder("ping", schema.ModeASCII, endian.GetLittleEndianEngine()).
		CmdType("SYS").
		CmdStr("PING").
		Field("msg_id", field.Uint8{}).
		Build()
	require.NoError(t, err)

	_, _, err = Parse(s, []byte("<0005|SYS|PING|5;"), DefaultConfig())
	require.ErrorIs(t, err, errs.ErrIncomplete)
}

func TestParse_MalformedMissingDelimiter(t *testing.T) {
	s, err := schema.NewBuilder("ping", schema.ModeASCII, endian.GetLittleEndianEngine()).
		CmdType("SYS").
		CmdStr("PING").
		Field("msg_id", field.Uint8{}).
		Build()
	require.NoError(t, err)

	cfg := DefaultConfig()
	cfg.UseChecksum = false

	_, _, err = Parse(s, []byte("<0005SYSPING5;>"), cfg)
	require.Error(t, err)
}

func TestPeekHeader(t *testing.T) {
	h, err := PeekHeader([]byte("<0063|TEST|KITCHEN|99;MYLABEL   ;ERROR;14>"), DefaultConfig())
	require.NoError(t, err)
	require.Equal(t, uint64(0x63), h.MsgID)
	require.Equal(t, "TEST", h.CmdType)
	require.Equal(t, "KITCHEN", h.CmdStr)
}

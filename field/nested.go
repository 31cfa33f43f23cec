package field

import (
	"github.com/coreframe/telemetrycodec/endian"
	"github.com/coreframe/telemetrycodec/errs"
)

// Nested marks a field position as holding an embedded message. It carries
// no schema or codec awareness of its own — the schema package attaches
// the embedded *schema.Schema alongside this marker on the owning
// FieldSpec, and the codec package recognizes KindNested and recurses into
// its own Encode/Decode entry points rather than calling Nested's Encode
// or Decode, which are unreachable in a well-formed schema.
type Nested struct{}

func (Nested) Kind() Kind             { return KindNested }
func (Nested) Primitive() bool        { return false }
func (Nested) FixedSize() (int, bool) { return 0, false }

func (Nested) Encode(buf []byte, _ endian.EndianEngine, _ any) ([]byte, error) {
	return buf, errs.ErrSchemaError
}

func (Nested) Decode(_ []byte, _ endian.EndianEngine) (any, int, error) {
	return nil, 0, errs.ErrSchemaError
}

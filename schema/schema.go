// Package schema owns the declarative description of one message type: its
// ordered fields, protocol mode, default byte order, and the smart-field
// roles (discriminator, checksum, length, timestamp) a field may play. A
// Schema is built once via Builder and is immutable thereafter.
package schema

import (
	"github.com/coreframe/telemetrycodec/checksum"
	"github.com/coreframe/telemetrycodec/endian"
	"github.com/coreframe/telemetrycodec/field"
	"github.com/coreframe/telemetrycodec/plan"
)

// Role and EndianOverride are re-exported from plan so callers never need
// to import plan directly to describe a field's role or byte order.
type (
	Role           = plan.Role
	EndianOverride = plan.EndianOverride
)

const (
	RoleNone          = plan.RoleNone
	RoleDiscriminator = plan.RoleDiscriminator
	RoleChecksum      = plan.RoleChecksum
	RoleLength        = plan.RoleLength
	RoleTimestamp     = plan.RoleTimestamp

	EndianInherit = plan.EndianInherit
	EndianLittle  = plan.EndianLittle
	EndianBig     = plan.EndianBig
)

// TimestampResolution selects the unit a timestamp smart field is written
// in at encode time.
type TimestampResolution uint8

const (
	TimestampSeconds TimestampResolution = iota
	TimestampMilliseconds
)

// Mode selects a schema's wire protocol.
type Mode uint8

const (
	ModeBinary Mode = iota
	ModeASCII
)

// FieldSpec is one declared field of a schema: its kind, default value,
// smart-field role and references, and byte-order override.
type FieldSpec struct {
	Name    string
	Field   field.Field
	Default any
	Role    Role
	Endian  EndianOverride

	// Meaningful when Role is RoleLength or RoleChecksum.
	StartField string
	EndField   string
	Algorithm  checksum.Algorithm

	// Meaningful when Role is RoleTimestamp.
	Resolution TimestampResolution

	// Nested holds the embedded schema when Field.Kind() == field.KindNested.
	Nested *Schema
}

// Instance is a decoded or to-be-encoded message value, keyed by field
// name. Integer values are normalized to int64, unsigned to uint64, floats
// to float64, bools to bool, enums to field.EnumValue, bit-groups to
// map[string]any, arrays to []any, and nested messages to Instance.
type Instance map[string]any

// Schema is an immutable description of one message type's ordered fields
// and protocol mode, plus its compiled packing plan.
type Schema struct {
	Name          string
	Mode          Mode
	DefaultEndian endian.EndianEngine
	Fields        []FieldSpec
	ConfigTags    []string

	// Mandatory in ModeASCII; identify the registry.ASCII lookup key.
	CmdType string
	CmdStr  string

	Plan *plan.Plan

	fieldIndex map[string]int
}

// FieldSpec returns the declared field by name.
func (s *Schema) FieldSpec(name string) (FieldSpec, bool) {
	idx, ok := s.fieldIndex[name]
	if !ok {
		return FieldSpec{}, false
	}

	return s.Fields[idx], true
}

// AllowsConfig reports whether tag is permitted for this schema: schemas
// with no declared tags match any active configuration.
func (s *Schema) AllowsConfig(tag string) bool {
	if len(s.ConfigTags) == 0 {
		return true
	}
	for _, t := range s.ConfigTags {
		if t == tag {
			return true
		}
	}

	return false
}

// Discriminator returns the schema's discriminator field spec and its
// statically-resolved byte offset, if the schema declares one.
func (s *Schema) Discriminator() (FieldSpec, int, bool) {
	if s.Plan == nil || s.Plan.Discriminator == nil {
		return FieldSpec{}, 0, false
	}

	spec, _ := s.FieldSpec(s.Plan.Discriminator.Name)

	return spec, s.Plan.Discriminator.Offset, true
}

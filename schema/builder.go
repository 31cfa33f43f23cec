package schema

import (
	"fmt"

	"github.com/coreframe/telemetrycodec/checksum"
	"github.com/coreframe/telemetrycodec/endian"
	"github.com/coreframe/telemetrycodec/errs"
	"github.com/coreframe/telemetrycodec/field"
	"github.com/coreframe/telemetrycodec/internal/options"
	"github.com/coreframe/telemetrycodec/plan"
)

// Builder assembles a Schema's ordered field list and smart-field roles,
// then compiles and validates it on Build.
type Builder struct {
	name          string
	mode          Mode
	defaultEndian endian.EndianEngine
	fields        []FieldSpec
	configTags    []string
	cmdType       string
	cmdStr        string
	err           error
}

// NewBuilder starts a schema declaration named name, in mode, with
// defaultEndian as the byte order fields inherit absent their own override.
func NewBuilder(name string, mode Mode, defaultEndian endian.EndianEngine) *Builder {
	return &Builder{name: name, mode: mode, defaultEndian: defaultEndian}
}

// Field declares a plain field with no smart-field role.
func (b *Builder) Field(name string, f field.Field, opts ...FieldOption) *Builder {
	return b.addField(FieldSpec{Name: name, Field: f}, opts...)
}

// Discriminator declares a field used to identify this schema during
// binary registry lookup; value is the default that candidates are
// matched against.
func (b *Builder) Discriminator(name string, f field.Field, value any, opts ...FieldOption) *Builder {
	return b.addField(FieldSpec{Name: name, Field: f, Default: value, Role: RoleDiscriminator}, opts...)
}

// Checksum declares a smart checksum field computed over [startField,
// endField] at encode time.
func (b *Builder) Checksum(name string, f field.Field, algo checksum.Algorithm, startField, endField string) *Builder {
	return b.addField(FieldSpec{
		Name: name, Field: f, Role: RoleChecksum,
		StartField: startField, EndField: endField, Algorithm: algo,
	})
}

// Length declares a smart length field computed over [startField,
// endField] at encode time.
func (b *Builder) Length(name string, f field.Field, startField, endField string) *Builder {
	return b.addField(FieldSpec{
		Name: name, Field: f, Role: RoleLength,
		StartField: startField, EndField: endField,
	})
}

// Timestamp declares a smart timestamp field substituted with the current
// wall-clock time at encode time.
func (b *Builder) Timestamp(name string, f field.Field, resolution TimestampResolution) *Builder {
	return b.addField(FieldSpec{Name: name, Field: f, Role: RoleTimestamp, Resolution: resolution})
}

// Nested declares an embedded message field.
func (b *Builder) Nested(name string, sub *Schema, opts ...FieldOption) *Builder {
	return b.addField(FieldSpec{Name: name, Field: field.Nested{}, Nested: sub}, opts...)
}

// ConfigTags restricts this schema to matching only when the registry's
// active configuration is one of tags. An empty set matches any config.
func (b *Builder) ConfigTags(tags ...string) *Builder {
	b.configTags = append(b.configTags, tags...)

	return b
}

// CmdType sets the ascii-mode registry key's command-type token.
func (b *Builder) CmdType(cmdType string) *Builder {
	b.cmdType = cmdType

	return b
}

// CmdStr sets the ascii-mode registry key's command-string token.
func (b *Builder) CmdStr(cmdStr string) *Builder {
	b.cmdStr = cmdStr

	return b
}

func (b *Builder) addField(spec FieldSpec, opts ...FieldOption) *Builder {
	if b.err != nil {
		return b
	}

	if err := options.Apply(&spec, opts...); err != nil {
		b.err = err

		return b
	}

	b.fields = append(b.fields, spec)

	return b
}

// Build validates and compiles the declared fields into an immutable
// Schema.
func (b *Builder) Build() (*Schema, error) {
	if b.err != nil {
		return nil, b.err
	}

	if b.mode == ModeASCII && (b.cmdType == "" || b.cmdStr == "") {
		return nil, fmt.Errorf("%w: ascii schema %q requires CmdType and CmdStr", errs.ErrSchemaError, b.name)
	}

	for _, f := range b.fields {
		if f.Field.Kind() == field.KindNested && f.Nested == nil {
			return nil, fmt.Errorf("%w: field %q declares a nested kind with no embedded schema", errs.ErrSchemaError, f.Name)
		}
	}

	fieldIndex := make(map[string]int, len(b.fields))
	inputs := make([]plan.FieldInput, len(b.fields))
	for i, f := range b.fields {
		fieldIndex[f.Name] = i
		inputs[i] = plan.FieldInput{
			Name:       f.Name,
			Field:      f.Field,
			Role:       f.Role,
			Endian:     f.Endian,
			StartField: f.StartField,
			EndField:   f.EndField,
		}
	}

	compiled, err := plan.Compile(inputs, b.defaultEndian)
	if err != nil {
		return nil, err
	}

	return &Schema{
		Name:          b.name,
		Mode:          b.mode,
		DefaultEndian: b.defaultEndian,
		Fields:        b.fields,
		ConfigTags:    b.configTags,
		CmdType:       b.cmdType,
		CmdStr:        b.cmdStr,
		Plan:          compiled,
		fieldIndex:    fieldIndex,
	}, nil
}

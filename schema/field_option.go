package schema

import "github.com/coreframe/telemetrycodec/internal/options"

// FieldOption configures a FieldSpec at declaration time.
type FieldOption = options.Option[*FieldSpec]

// WithDefault sets the field's default value, used as the encode-time value
// when an instance omits the field. It does not pad Fixed-mode array slots:
// a Fixed-mode array value with the wrong element count fails to encode.
func WithDefault(value any) FieldOption {
	return options.NoError(func(spec *FieldSpec) {
		spec.Default = value
	})
}

// WithEndian overrides the field's byte order relative to its message's
// declared default.
func WithEndian(override EndianOverride) FieldOption {
	return options.NoError(func(spec *FieldSpec) {
		spec.Endian = override
	})
}

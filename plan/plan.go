// Package plan implements the layout compiler: it walks a message's
// declared field order and produces a packing plan, coalescing contiguous
// fixed-size primitive-like fields sharing one byte order into a single
// FixedRun step, and emitting a ComplexStep for everything else (variable
// length strings, arrays, nested messages).
//
// plan depends only on field, endian and errs so that it can be shared by both
// the schema package (which owns the richer FieldSpec) and, transitively,
// the codec engine, without any import cycle back through schema.
package plan

import (
	"fmt"

	"github.com/coreframe/telemetrycodec/endian"
	"github.com/coreframe/telemetrycodec/errs"
	"github.com/coreframe/telemetrycodec/field"
)

// Role tags which smart-field behavior, if any, a declared field plays.
type Role uint8

const (
	RoleNone Role = iota
	RoleDiscriminator
	RoleChecksum
	RoleLength
	RoleTimestamp
)

// EndianOverride selects a field's byte order relative to its message's
// declared default.
type EndianOverride uint8

const (
	EndianInherit EndianOverride = iota
	EndianLittle
	EndianBig
)

// FieldInput is the compiler's view of one declared field: just enough to
// coalesce runs and resolve smart-field references by name, without any
// dependency on schema.FieldSpec's richer representation.
type FieldInput struct {
	Name       string
	Field      field.Field
	Role       Role
	Endian     EndianOverride
	StartField string
	EndField   string
}

// StepKind tags a Step's variant.
type StepKind uint8

const (
	StepFixedRun StepKind = iota
	StepComplex
)

// Step is one unit of a compiled packing plan.
type Step struct {
	Kind StepKind

	// Populated when Kind == StepFixedRun.
	Endian   endian.EndianEngine
	Fields   []string
	ByteSize int

	// Populated when Kind == StepComplex.
	Name string
}

// Discriminator records a schema's discriminator field name and its
// statically-computed byte offset from the message start.
type Discriminator struct {
	Name   string
	Offset int
}

// SmartField records a length, checksum, or timestamp field's role and,
// for length/checksum, the resolved declared-order indices of its start
// and end field references, so the codec engine never performs a runtime
// name lookup to find them.
type SmartField struct {
	Name       string
	Role       Role
	StartIndex int
	EndIndex   int
}

// Plan is the compiled, ordered sequence of encode/decode steps for one
// schema, plus the metadata the codec engine needs for discriminator-based
// identification and smart-field backpatching.
type Plan struct {
	Steps      []Step
	FieldOrder []string

	Discriminator *Discriminator
	SmartFields   []SmartField

	fieldIndex map[string]int
}

// IndexOf returns the declared-order index of the named field.
func (p *Plan) IndexOf(name string) (int, bool) {
	idx, ok := p.fieldIndex[name]

	return idx, ok
}

// ResolveEndian resolves a field's effective byte order: its own override
// if set, otherwise defaultEndian, otherwise little-endian.
func ResolveEndian(override EndianOverride, defaultEndian endian.EndianEngine) endian.EndianEngine {
	switch override {
	case EndianLittle:
		return endian.GetLittleEndianEngine()
	case EndianBig:
		return endian.GetBigEndianEngine()
	default:
		if defaultEndian != nil {
			return defaultEndian
		}

		return endian.GetLittleEndianEngine()
	}
}

// Compile builds a Plan from fields in declared order under defaultEndian.
func Compile(fields []FieldInput, defaultEndian endian.EndianEngine) (*Plan, error) {
	p := &Plan{
		fieldIndex: make(map[string]int, len(fields)),
	}

	for i, f := range fields {
		if _, dup := p.fieldIndex[f.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate field name %q", errs.ErrSchemaError, f.Name)
		}
		p.fieldIndex[f.Name] = i
		p.FieldOrder = append(p.FieldOrder, f.Name)
	}

	var (
		run       []string
		runEndian endian.EndianEngine
		runSize   int
	)

	flush := func() {
		if len(run) == 0 {
			return
		}
		p.Steps = append(p.Steps, Step{
			Kind:     StepFixedRun,
			Endian:   runEndian,
			Fields:   run,
			ByteSize: runSize,
		})
		run = nil
		runSize = 0
	}

	offset := 0
	fixedSoFar := true

	for _, f := range fields {
		fe := ResolveEndian(f.Endian, defaultEndian)

		size, isFixed := f.Field.FixedSize()
		primitiveLike := f.Field.Primitive() && isFixed

		switch {
		case primitiveLike && len(run) > 0 && fe == runEndian:
			run = append(run, f.Name)
			runSize += size
		case primitiveLike:
			flush()
			run = []string{f.Name}
			runEndian = fe
			runSize = size
		default:
			flush()
			p.Steps = append(p.Steps, Step{Kind: StepComplex, Name: f.Name})
		}

		if f.Role == RoleDiscriminator {
			if !fixedSoFar {
				return nil, fmt.Errorf("%w: discriminator field %q's offset is not statically computable", errs.ErrSchemaError, f.Name)
			}
			p.Discriminator = &Discriminator{Name: f.Name, Offset: offset}
		}

		if isFixed {
			offset += size
		} else {
			fixedSoFar = false
		}
	}
	flush()

	for _, f := range fields {
		if f.Role != RoleLength && f.Role != RoleChecksum {
			continue
		}

		startIdx, ok := p.fieldIndex[f.StartField]
		if !ok {
			return nil, fmt.Errorf("%w: smart field %q references unknown start field %q", errs.ErrSchemaError, f.Name, f.StartField)
		}
		endIdx, ok := p.fieldIndex[f.EndField]
		if !ok {
			return nil, fmt.Errorf("%w: smart field %q references unknown end field %q", errs.ErrSchemaError, f.Name, f.EndField)
		}

		p.SmartFields = append(p.SmartFields, SmartField{Name: f.Name, Role: f.Role, StartIndex: startIdx, EndIndex: endIdx})
	}

	for _, f := range fields {
		if f.Role == RoleTimestamp {
			p.SmartFields = append(p.SmartFields, SmartField{Name: f.Name, Role: RoleTimestamp})
		}
	}

	return p, nil
}

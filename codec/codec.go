// Package codec implements the two-pass encode / single-pass decode engine
// that drives a compiled packing plan: pass one emits field bytes with
// zeroed placeholders for length and checksum slots and the current
// wall-clock time for timestamp slots; pass two backpatches length slots,
// then checksum slots, through their recorded byte offsets.
package codec

import (
	"fmt"
	"time"

	"github.com/coreframe/telemetrycodec/checksum"
	"github.com/coreframe/telemetrycodec/endian"
	"github.com/coreframe/telemetrycodec/errs"
	"github.com/coreframe/telemetrycodec/field"
	"github.com/coreframe/telemetrycodec/internal/pool"
	"github.com/coreframe/telemetrycodec/plan"
	"github.com/coreframe/telemetrycodec/schema"
)

// Encode serializes inst against s's compiled plan, substituting the
// current wall-clock time into any timestamp smart field.
func Encode(s *schema.Schema, inst schema.Instance) ([]byte, error) {
	return EncodeAt(s, inst, time.Now())
}

// EncodeAt is Encode with an explicit timestamp. Tests needing
// byte-identical, reproducible output (smart-field idempotence) should use
// this entry point with a fixed now.
func EncodeAt(s *schema.Schema, inst schema.Instance, now time.Time) ([]byte, error) {
	bb := pool.GetMessageBuffer()
	defer pool.PutMessageBuffer(bb)

	fieldCount := len(s.Plan.FieldOrder)
	offsets := make([]int, fieldCount)
	lengths := make([]int, fieldCount)

	for _, step := range s.Plan.Steps {
		switch step.Kind {
		case plan.StepFixedRun:
			for _, name := range step.Fields {
				spec, _ := s.FieldSpec(name)
				idx, _ := s.Plan.IndexOf(name)

				offsets[idx] = bb.Len()
				data, err := spec.Field.Encode(bb.Bytes(), step.Endian, encodeValueFor(spec, inst, now))
				if err != nil {
					return nil, fmt.Errorf("field %q: %w", name, err)
				}
				bb.B = data
				lengths[idx] = bb.Len() - offsets[idx]
			}
		case plan.StepComplex:
			spec, _ := s.FieldSpec(step.Name)
			idx, _ := s.Plan.IndexOf(step.Name)

			offsets[idx] = bb.Len()

			if spec.Field.Kind() == field.KindNested {
				sub, _ := inst[step.Name].(schema.Instance)

				nestedBytes, err := EncodeAt(spec.Nested, sub, now)
				if err != nil {
					return nil, fmt.Errorf("field %q: %w", step.Name, err)
				}
				bb.MustWrite(nestedBytes)
			} else {
				fieldEndian := plan.ResolveEndian(spec.Endian, s.DefaultEndian)

				data, err := spec.Field.Encode(bb.Bytes(), fieldEndian, encodeValueFor(spec, inst, now))
				if err != nil {
					return nil, fmt.Errorf("field %q: %w", step.Name, err)
				}
				bb.B = data
			}

			lengths[idx] = bb.Len() - offsets[idx]
		}
	}

	// Pass 2a: length slots, inclusive of the end field's bytes, exclusive
	// thereafter.
	for _, sf := range s.Plan.SmartFields {
		if sf.Role != plan.RoleLength {
			continue
		}

		spec, _ := s.FieldSpec(sf.Name)
		idx, _ := s.Plan.IndexOf(sf.Name)
		length := (offsets[sf.EndIndex] + lengths[sf.EndIndex]) - offsets[sf.StartIndex]
		fieldEndian := plan.ResolveEndian(spec.Endian, s.DefaultEndian)

		if err := backpatch(bb, offsets[idx], lengths[idx], spec.Field, fieldEndian, uint64(length)); err != nil {
			return nil, fmt.Errorf("field %q: %w", sf.Name, err)
		}
	}

	// Pass 2b: checksum slots, computed after length slots are already
	// written so a length slot inside the checksum range is covered.
	for _, sf := range s.Plan.SmartFields {
		if sf.Role != plan.RoleChecksum {
			continue
		}

		spec, _ := s.FieldSpec(sf.Name)
		idx, _ := s.Plan.IndexOf(sf.Name)
		start := offsets[sf.StartIndex]
		end := offsets[sf.EndIndex] + lengths[sf.EndIndex]

		sum, err := checksum.Compute(spec.Algorithm, bb.B[start:end])
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", sf.Name, err)
		}

		fieldEndian := plan.ResolveEndian(spec.Endian, s.DefaultEndian)
		if err := backpatch(bb, offsets[idx], lengths[idx], spec.Field, fieldEndian, sum); err != nil {
			return nil, fmt.Errorf("field %q: %w", sf.Name, err)
		}
	}

	out := make([]byte, bb.Len())
	copy(out, bb.Bytes())

	return out, nil
}

// Decode deserializes one instance from the front of data, returning the
// decoded instance and the number of bytes consumed. Returns
// errs.ErrIncomplete if data does not hold a full message.
func Decode(s *schema.Schema, data []byte) (schema.Instance, int, error) {
	inst := make(schema.Instance, len(s.Fields))
	consumed := 0

	for _, step := range s.Plan.Steps {
		switch step.Kind {
		case plan.StepFixedRun:
			if consumed+step.ByteSize > len(data) {
				return nil, 0, errs.ErrIncomplete
			}

			cursor := consumed
			for _, name := range step.Fields {
				spec, _ := s.FieldSpec(name)

				value, n, err := spec.Field.Decode(data[cursor:], step.Endian)
				if err != nil {
					return nil, 0, err
				}
				inst[name] = value
				cursor += n
			}
			consumed = cursor

		case plan.StepComplex:
			spec, _ := s.FieldSpec(step.Name)

			if spec.Field.Kind() == field.KindNested {
				sub, n, err := Decode(spec.Nested, data[consumed:])
				if err != nil {
					return nil, 0, err
				}
				inst[step.Name] = sub
				consumed += n

				continue
			}

			fieldEndian := plan.ResolveEndian(spec.Endian, s.DefaultEndian)
			value, n, err := spec.Field.Decode(data[consumed:], fieldEndian)
			if err != nil {
				return nil, 0, err
			}
			inst[step.Name] = value
			consumed += n
		}
	}

	return inst, consumed, nil
}

func encodeValueFor(spec schema.FieldSpec, inst schema.Instance, now time.Time) any {
	switch spec.Role {
	case plan.RoleLength, plan.RoleChecksum:
		return int64(0)
	case plan.RoleTimestamp:
		if spec.Resolution == schema.TimestampMilliseconds {
			return now.UnixMilli()
		}

		return now.Unix()
	}

	if v, ok := inst[spec.Name]; ok {
		return v
	}

	return spec.Default
}

func backpatch(bb *pool.ByteBuffer, offset, length int, f field.Field, engine endian.EndianEngine, value uint64) error {
	tmp, err := f.Encode(nil, engine, value)
	if err != nil {
		return err
	}
	if len(tmp) != length {
		return fmt.Errorf("%w: backpatch value width %d does not match slot width %d", errs.ErrSchemaError, len(tmp), length)
	}

	copy(bb.B[offset:offset+length], tmp)

	return nil
}

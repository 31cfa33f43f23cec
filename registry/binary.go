// Package registry implements the keyed dispatch tables that identify
// which schema a buffer of bytes belongs to: Binary keys by (discriminator
// byte-offset, discriminator value), ASCII keys by (cmd_type, cmd_str).
// Both are add-only during a load phase and read-only once Seal is called.
package registry

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/coreframe/telemetrycodec/codec"
	"github.com/coreframe/telemetrycodec/endian"
	"github.com/coreframe/telemetrycodec/errs"
	"github.com/coreframe/telemetrycodec/field"
	"github.com/coreframe/telemetrycodec/internal/collision"
	"github.com/coreframe/telemetrycodec/internal/hash"
	"github.com/coreframe/telemetrycodec/internal/options"
	"github.com/coreframe/telemetrycodec/plan"
	"github.com/coreframe/telemetrycodec/schema"
)

// BinaryOption configures a Binary registry at construction time.
type BinaryOption = options.Option[*Binary]

// WithBinaryLogger attaches a structured logger for registration and
// identification lifecycle events. The default is slog.Default().
func WithBinaryLogger(l *slog.Logger) BinaryOption {
	return options.NoError(func(b *Binary) {
		b.log = l
	})
}

type binarySlot struct {
	schemas []*schema.Schema
	tracker *collision.Tracker
}

// Binary identifies which registered schema a binary buffer's prefix
// belongs to, by peeking the discriminator byte at each registered offset.
type Binary struct {
	mu sync.RWMutex

	offsets      []int
	offsetField  map[int]field.Field
	offsetEndian map[int]endian.EndianEngine
	byOffset     map[int]map[uint64]*binarySlot

	activeConfig atomic.Value // string
	sealed       atomic.Bool

	log *slog.Logger
}

// NewBinary creates an empty binary registry.
func NewBinary(opts ...BinaryOption) *Binary {
	b := &Binary{
		offsetField:  make(map[int]field.Field),
		offsetEndian: make(map[int]endian.EndianEngine),
		byOffset:     make(map[int]map[uint64]*binarySlot),
		log:          slog.Default(),
	}
	b.activeConfig.Store("")
	_ = options.Apply(b, opts...) // WithBinaryLogger never errors

	return b
}

// SetActiveConfig sets the process-wide tag that filters which registered
// schemas Identify will consider a match.
func (b *Binary) SetActiveConfig(tag string) {
	b.activeConfig.Store(tag)
}

// ActiveConfig returns the current active-configuration tag.
func (b *Binary) ActiveConfig() string {
	tag, _ := b.activeConfig.Load().(string)

	return tag
}

// Seal forbids further Register calls. Identify is safe to call before and
// after sealing; sealing only guards against late, racy registrations once
// a reassembler may already be reading the tables.
func (b *Binary) Seal() {
	b.sealed.Store(true)
	b.log.Info("binary registry sealed")
}

// Register adds s to the registry under its discriminator's (offset,
// value) key. Schemas sharing a key are tried in registration order at
// identification time.
func (b *Binary) Register(s *schema.Schema) error {
	if b.sealed.Load() {
		return errs.ErrRegistrySealed
	}

	spec, offset, ok := s.Discriminator()
	if !ok {
		return fmt.Errorf("%w: schema %q has no discriminator field", errs.ErrSchemaError, s.Name)
	}

	value, err := discriminatorKey(spec.Default)
	if err != nil {
		return fmt.Errorf("%w: schema %q discriminator default: %w", errs.ErrSchemaError, s.Name, err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if existing, ok := b.offsetField[offset]; ok {
		size, _ := existing.FixedSize()
		newSize, _ := spec.Field.FixedSize()
		if size != newSize {
			return fmt.Errorf("%w: schema %q discriminator width %d conflicts with existing width %d at offset %d", errs.ErrSchemaError, s.Name, newSize, size, offset)
		}
	} else {
		b.offsetField[offset] = spec.Field
		b.offsetEndian[offset] = plan.ResolveEndian(spec.Endian, s.DefaultEndian)
		b.offsets = append(b.offsets, offset)
	}

	valMap, ok := b.byOffset[offset]
	if !ok {
		valMap = make(map[uint64]*binarySlot)
		b.byOffset[offset] = valMap
	}

	slot, ok := valMap[value]
	if !ok {
		slot = &binarySlot{tracker: collision.NewTracker()}
		valMap[value] = slot
	}

	if err := slot.tracker.Track(s.Name, hash.ID(s.Name)); err != nil {
		return fmt.Errorf("%w: schema %q already registered at offset %d value %d", errs.ErrSchemaError, s.Name, offset, value)
	}

	slot.schemas = append(slot.schemas, s)

	b.log.Debug("schema registered", "schema", s.Name, "offset", offset, "discriminator", value)

	return nil
}

// Identify peeks the discriminator at each registered offset (in
// registration order), and trial-decodes every candidate schema sharing
// the observed value in registration order. The first candidate that
// decodes successfully wins. If none decodes and at least one attempt (or
// a discriminator peek) ran out of bytes, Incomplete propagates so the
// caller awaits more bytes; otherwise Unknown.
func (b *Binary) Identify(data []byte) (schema.Instance, int, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	activeConfig := b.ActiveConfig()
	sawIncomplete := false

	for _, offset := range b.offsets {
		discField := b.offsetField[offset]
		size, _ := discField.FixedSize()

		if len(data) < offset+size {
			sawIncomplete = true

			continue
		}

		raw, _, err := discField.Decode(data[offset:], b.offsetEndian[offset])
		if err != nil {
			continue
		}

		value, err := discriminatorKey(raw)
		if err != nil {
			continue
		}

		slot, ok := b.byOffset[offset][value]
		if !ok {
			continue
		}

		for _, candidate := range slot.schemas {
			if !candidate.AllowsConfig(activeConfig) {
				continue
			}

			inst, n, decErr := codec.Decode(candidate, data)
			switch {
			case decErr == nil:
				return inst, n, nil
			case errors.Is(decErr, errs.ErrIncomplete):
				sawIncomplete = true
			}
		}
	}

	if sawIncomplete {
		return nil, 0, errs.ErrIncomplete
	}

	b.log.Debug("identify found no matching schema", "prefix_len", len(data))

	return nil, 0, errs.ErrUnknown
}

func discriminatorKey(value any) (uint64, error) {
	switch v := value.(type) {
	case uint64:
		return v, nil
	case int64:
		return uint64(v), nil
	case int:
		return uint64(v), nil
	case uint:
		return uint64(v), nil
	case field.EnumValue:
		return uint64(v.Value), nil
	default:
		return 0, fmt.Errorf("%w: discriminator value %v of type %T is not integer-like", errs.ErrSchemaError, value, value)
	}
}

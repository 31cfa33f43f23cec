// Package collision tracks fingerprint collisions among schemas that share
// a (discriminator offset, discriminator value) pair in the binary registry.
package collision

import (
	"github.com/coreframe/telemetrycodec/errs"
)

// Tracker tracks schema names and detects fingerprint collisions while
// schemas are registered under the same discriminator slot.
type Tracker struct {
	names        map[uint64]string // fingerprint -> schema name
	namesList    []string          // ordered list for diagnostics
	hasCollision bool
}

// NewTracker creates a new collision tracker.
func NewTracker() *Tracker {
	return &Tracker{
		names:     make(map[uint64]string),
		namesList: make([]string, 0),
	}
}

// Track records a schema name under its precomputed fingerprint. When two
// distinct schema names share a fingerprint it sets the hasCollision flag
// and returns nil; an empty name, or the same name tracked twice (a
// duplicate registration), returns errs.ErrSchemaError.
func (t *Tracker) Track(name string, fingerprint uint64) error {
	if name == "" {
		return errs.ErrSchemaError
	}

	if existing, ok := t.names[fingerprint]; ok {
		if existing == name {
			return errs.ErrSchemaError
		}
		t.hasCollision = true
	}

	t.names[fingerprint] = name
	t.namesList = append(t.namesList, name)

	return nil
}

// HasCollision returns true if two distinct schema names shared a fingerprint.
func (t *Tracker) HasCollision() bool {
	return t.hasCollision
}

// Names returns the ordered list of tracked schema names.
func (t *Tracker) Names() []string {
	return t.namesList
}

// Count returns the number of tracked schemas.
func (t *Tracker) Count() int {
	return len(t.namesList)
}

// Reset clears all tracked state, retaining underlying capacity.
func (t *Tracker) Reset() {
	for k := range t.names {
		delete(t.names, k)
	}
	t.namesList = t.namesList[:0]
	t.hasCollision = false
}

package registry

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/coreframe/telemetrycodec/asciiframe"
	"github.com/coreframe/telemetrycodec/errs"
	"github.com/coreframe/telemetrycodec/internal/options"
	"github.com/coreframe/telemetrycodec/schema"
)

// ASCIIOption configures an ASCII registry at construction time.
type ASCIIOption = options.Option[*ASCII]

// WithASCIILogger attaches a structured logger for registration and
// identification lifecycle events. The default is slog.Default().
func WithASCIILogger(l *slog.Logger) ASCIIOption {
	return options.NoError(func(a *ASCII) {
		a.log = l
	})
}

type asciiKey struct {
	cmdType string
	cmdStr  string
}

// ASCII identifies which registered schema a text frame belongs to by its
// (cmd_type, cmd_str) header pair. Unlike Binary, a key maps to exactly one
// schema: the ascii grammar has no discriminator-collision concept, since
// cmd_type/cmd_str are read straight off the header before any body byte is
// interpreted.
type ASCII struct {
	mu      sync.RWMutex
	schemas map[asciiKey]*schema.Schema
	cfg     asciiframe.Config

	activeConfig atomic.Value // string
	sealed       atomic.Bool

	log *slog.Logger
}

// NewASCII creates an empty ascii registry using cfg's delimiters.
func NewASCII(cfg asciiframe.Config, opts ...ASCIIOption) *ASCII {
	a := &ASCII{schemas: make(map[asciiKey]*schema.Schema), cfg: cfg, log: slog.Default()}
	a.activeConfig.Store("")
	_ = options.Apply(a, opts...) // WithASCIILogger never errors

	return a
}

func (a *ASCII) SetActiveConfig(tag string) { a.activeConfig.Store(tag) }
func (a *ASCII) ActiveConfig() string {
	tag, _ := a.activeConfig.Load().(string)

	return tag
}
func (a *ASCII) Seal() {
	a.sealed.Store(true)
	a.log.Info("ascii registry sealed")
}

// Register adds s under its (CmdType, CmdStr) key.
func (a *ASCII) Register(s *schema.Schema) error {
	if a.sealed.Load() {
		return errs.ErrRegistrySealed
	}
	if s.Mode != schema.ModeASCII {
		return fmt.Errorf("%w: schema %q is not an ascii-mode schema", errs.ErrSchemaError, s.Name)
	}

	key := asciiKey{cmdType: s.CmdType, cmdStr: s.CmdStr}

	a.mu.Lock()
	defer a.mu.Unlock()

	if existing, ok := a.schemas[key]; ok {
		return fmt.Errorf("%w: (%s,%s) already registered to schema %q", errs.ErrSchemaError, s.CmdType, s.CmdStr, existing.Name)
	}
	a.schemas[key] = s

	a.log.Debug("schema registered", "schema", s.Name, "cmd_type", s.CmdType, "cmd_str", s.CmdStr)

	return nil
}

// Identify peeks a frame's header to find its (cmd_type, cmd_str) key, then
// parses the full frame against the matching schema.
func (a *ASCII) Identify(data []byte) (schema.Instance, int, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	header, err := asciiframe.PeekHeader(data, a.cfg)
	if err != nil {
		return nil, 0, err
	}

	s, ok := a.schemas[asciiKey{cmdType: header.CmdType, cmdStr: header.CmdStr}]
	if !ok {
		return nil, 0, errs.ErrUnknown
	}
	if !s.AllowsConfig(a.ActiveConfig()) {
		return nil, 0, errs.ErrUnknown
	}

	return asciiframe.Parse(s, data, a.cfg)
}

// Package config holds the process-wide protocol configuration: ascii
// framing delimiters, the active config tag filtering which schemas
// registry.Binary/registry.ASCII will consider, and the transport
// compression codec. It is loaded from an optional YAML file, falling back
// to coded defaults for anything the file omits.
package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/coreframe/telemetrycodec/asciiframe"
	"github.com/coreframe/telemetrycodec/transport"
)

// Delimiters mirrors asciiframe.Config in a YAML-friendly shape (single
// characters as one-rune strings, since byte fields marshal as small
// integers in YAML and that is unreadable in a config file).
type Delimiters struct {
	Start       string `yaml:"start"`
	End         string `yaml:"end"`
	ID          string `yaml:"id"`
	Type        string `yaml:"type"`
	Cmd         string `yaml:"cmd"`
	Field       string `yaml:"field"`
	UseChecksum bool   `yaml:"use_checksum"`
}

// defaultDelimiters matches asciiframe.DefaultConfig().
func defaultDelimiters() Delimiters {
	return Delimiters{
		Start: "<", End: ">",
		ID: "|", Type: "|", Cmd: "|",
		Field:       ";",
		UseChecksum: true,
	}
}

// AsciiConfig converts d to the asciiframe.Config the framer consumes.
// Any delimiter field left empty falls back to DefaultConfig's byte.
func (d Delimiters) AsciiConfig() asciiframe.Config {
	def := asciiframe.DefaultConfig()
	cfg := def
	cfg.UseChecksum = d.UseChecksum

	if b, ok := firstByte(d.Start); ok {
		cfg.Start = b
	}
	if b, ok := firstByte(d.End); ok {
		cfg.End = b
	}
	if b, ok := firstByte(d.ID); ok {
		cfg.DelimID = b
	}
	if b, ok := firstByte(d.Type); ok {
		cfg.DelimType = b
	}
	if b, ok := firstByte(d.Cmd); ok {
		cfg.DelimCmd = b
	}
	if b, ok := firstByte(d.Field); ok {
		cfg.DelimField = b
	}

	return cfg
}

func firstByte(s string) (byte, bool) {
	if s == "" {
		return 0, false
	}

	return s[0], true
}

// ProtocolConfig is the process-wide configuration for a telemetrycodec
// deployment: which ascii delimiters to frame with, which registered-schema
// config tag is active, and which transport compression codec wraps the
// byte stream below the reassembler.
type ProtocolConfig struct {
	Delimiters  Delimiters `yaml:"delimiters"`
	ActiveTag   string     `yaml:"active_tag"`
	Compression string     `yaml:"compression"`
}

// Default returns the coded-default ProtocolConfig: default ascii
// delimiters, the active config tag "default" (which matches schemas with
// no ConfigTags restriction plus any tagged with "default"), and no
// transport compression.
func Default() ProtocolConfig {
	return ProtocolConfig{
		Delimiters:  defaultDelimiters(),
		ActiveTag:   "default",
		Compression: "none",
	}
}

// Load reads a ProtocolConfig from the YAML file at path, applying coded
// defaults for any field the file does not set. A missing file is not an
// error: Load returns Default() unchanged.
func Load(path string) (ProtocolConfig, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}

		return ProtocolConfig{}, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return ProtocolConfig{}, err
	}

	return cfg, nil
}

// CompressionCodec resolves the Compression tag to a transport.Codec,
// defaulting to transport.CodecNone for an empty or unrecognized value.
func (c ProtocolConfig) CompressionCodec() transport.Codec {
	switch c.Compression {
	case "zstd":
		return transport.CodecZstd
	case "s2":
		return transport.CodecS2
	case "lz4":
		return transport.CodecLZ4
	default:
		return transport.CodecNone
	}
}

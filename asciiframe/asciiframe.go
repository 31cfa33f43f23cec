// Package asciiframe implements the human-readable framed protocol:
// <MSGID|CMD_TYPE|CMD_STR|FIELD1;FIELD2;...;CHECKSUM>. Every field but
// cmd_type and cmd_str (which live only in the header) and checksum-role
// fields (which live only in the trailing two hex digits) is rendered to
// its body in declared order, each followed by the field delimiter,
// including after the last one.
package asciiframe

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/coreframe/telemetrycodec/checksum"
	"github.com/coreframe/telemetrycodec/errs"
	"github.com/coreframe/telemetrycodec/field"
	"github.com/coreframe/telemetrycodec/schema"
)

// Config holds the process-wide, overridable framing delimiters.
type Config struct {
	Start       byte
	End         byte
	DelimID     byte
	DelimType   byte
	DelimCmd    byte
	DelimField  byte
	UseChecksum bool
}

// DefaultConfig returns the conventional delimiter set: '<' '>' '|' '|' '|'
// ';', with the trailing checksum enabled.
func DefaultConfig() Config {
	return Config{
		Start: '<', End: '>',
		DelimID: '|', DelimType: '|', DelimCmd: '|',
		DelimField:  ';',
		UseChecksum: true,
	}
}

// bodyFields returns s's fields in declared order, excluding any
// checksum-role field. cmd_type and cmd_str are never schema fields in this
// package's model (they are Schema.CmdType/Schema.CmdStr metadata), so no
// further exclusion is needed for them.
func bodyFields(s *schema.Schema) []schema.FieldSpec {
	out := make([]schema.FieldSpec, 0, len(s.Fields))
	for _, f := range s.Fields {
		if f.Role == schema.RoleChecksum {
			continue
		}
		out = append(out, f)
	}

	return out
}

// Build renders inst against s into one ascii frame.
func Build(s *schema.Schema, inst schema.Instance, cfg Config) ([]byte, error) {
	msgID, _ := inst["msg_id"]

	var msgIDVal uint64
	switch v := msgID.(type) {
	case uint64:
		msgIDVal = v
	case int64:
		msgIDVal = uint64(v)
	case int:
		msgIDVal = uint64(v)
	}

	var b strings.Builder
	b.WriteByte(cfg.Start)
	fmt.Fprintf(&b, "%04X", msgIDVal)
	b.WriteByte(cfg.DelimID)
	b.WriteString(s.CmdType)
	b.WriteByte(cfg.DelimType)
	b.WriteString(s.CmdStr)
	b.WriteByte(cfg.DelimCmd)

	for _, f := range bodyFields(s) {
		text, err := toText(f, inst[f.Name])
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", f.Name, err)
		}
		b.WriteString(text)
		b.WriteByte(cfg.DelimField)
	}

	content := b.String()

	var chk string
	if cfg.UseChecksum {
		sum, err := checksum.Compute(checksum.XOR, []byte(content))
		if err != nil {
			return nil, err
		}
		chk = fmt.Sprintf("%02X", sum)
	}

	var out strings.Builder
	out.WriteString(content)
	out.WriteString(chk)
	out.WriteByte(cfg.End)

	return []byte(out.String()), nil
}

// locateFrame finds the first start/end sentinel pair in data and returns
// the content between them (sentinels excluded, trailing checksum digits
// stripped when cfg.UseChecksum) plus the total bytes consumed through and
// including the end sentinel.
func locateFrame(data []byte, cfg Config) (blob string, consumed int, err error) {
	startIdx := bytes.IndexByte(data, cfg.Start)
	if startIdx < 0 {
		return "", 0, errs.ErrIncomplete
	}

	endIdx := bytes.IndexByte(data[startIdx:], cfg.End)
	if endIdx < 0 {
		return "", 0, errs.ErrIncomplete
	}
	endIdx += startIdx

	consumed = endIdx + 1
	blob = string(data[startIdx+1 : endIdx])

	if cfg.UseChecksum {
		if len(blob) < 2 {
			return "", 0, fmt.Errorf("%w: frame too short for checksum", errs.ErrMalformed)
		}
		blob = blob[:len(blob)-2]
	}

	return blob, consumed, nil
}

// splitHeader splits a sentinel-stripped frame body into its MSGID,
// CMD_TYPE, CMD_STR, and remaining body-blob parts.
func splitHeader(blob string, cfg Config) (msgIDStr, cmdType, cmdStr, bodyBlob string, err error) {
	idSep := strings.IndexByte(blob, cfg.DelimID)
	if idSep < 0 {
		return "", "", "", "", fmt.Errorf("%w: missing id delimiter", errs.ErrMalformed)
	}
	msgIDStr, rest := blob[:idSep], blob[idSep+1:]

	typeSep := strings.IndexByte(rest, cfg.DelimType)
	if typeSep < 0 {
		return "", "", "", "", fmt.Errorf("%w: missing type delimiter", errs.ErrMalformed)
	}
	cmdType, rest = rest[:typeSep], rest[typeSep+1:]

	cmdSep := strings.IndexByte(rest, cfg.DelimCmd)
	if cmdSep < 0 {
		return "", "", "", "", fmt.Errorf("%w: missing cmd delimiter", errs.ErrMalformed)
	}
	cmdStr, bodyBlob = rest[:cmdSep], rest[cmdSep+1:]

	return msgIDStr, cmdType, cmdStr, bodyBlob, nil
}

// Header is the result of peeking a frame's header without knowing which
// schema it decodes against, used by registry.ASCII to key its lookup.
type Header struct {
	MsgID    uint64
	CmdType  string
	CmdStr   string
	Consumed int
}

// PeekHeader locates the first frame in data and extracts its header
// fields, without attempting to parse a body (the schema, and therefore
// the body's field layout, is not yet known at this point).
func PeekHeader(data []byte, cfg Config) (Header, error) {
	blob, consumed, err := locateFrame(data, cfg)
	if err != nil {
		return Header{}, err
	}

	msgIDStr, cmdType, cmdStr, _, err := splitHeader(blob, cfg)
	if err != nil {
		return Header{}, err
	}

	msgID, _ := strconv.ParseUint(msgIDStr, 16, 64)

	return Header{MsgID: msgID, CmdType: cmdType, CmdStr: cmdStr, Consumed: consumed}, nil
}

// Parse extracts one frame from the front of data and decodes it against
// s, returning the decoded instance and the number of bytes consumed
// (through and including the end sentinel). Returns errs.ErrIncomplete if
// no end sentinel is present yet, and errs.ErrMalformed if the delimiter
// grammar inside the frame is violated.
func Parse(s *schema.Schema, data []byte, cfg Config) (schema.Instance, int, error) {
	blob, consumed, err := locateFrame(data, cfg)
	if err != nil {
		return nil, 0, err
	}

	msgIDStr, _, _, bodyBlob, err := splitHeader(blob, cfg)
	if err != nil {
		return nil, 0, err
	}

	inst := make(schema.Instance, len(s.Fields))

	msgID, err := strconv.ParseUint(msgIDStr, 16, 64)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: non-hex MSGID %q", errs.ErrMalformed, msgIDStr)
	}
	inst["msg_id"] = msgID

	fields := bodyFields(s)

	var tokens []string
	if bodyBlob != "" {
		tokens = strings.Split(bodyBlob, string(cfg.DelimField))
		if len(tokens) > 0 && tokens[len(tokens)-1] == "" {
			tokens = tokens[:len(tokens)-1]
		}
	}

	for i, tok := range tokens {
		if i >= len(fields) {
			break
		}
		value, err := fromText(fields[i], tok)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: field %q: %v", errs.ErrMalformed, fields[i].Name, err)
		}
		inst[fields[i].Name] = value
	}

	return inst, consumed, nil
}

// toText renders spec's value to its ascii-mode canonical textual form.
func toText(spec schema.FieldSpec, value any) (string, error) {
	switch f := spec.Field.(type) {
	case field.Enum:
		return f.ToString(value), nil
	case field.FixedString:
		return f.ToString(value), nil
	case field.PrefixedString:
		s, _ := value.(string)

		return s, nil
	case field.Bool:
		v, _ := value.(bool)
		if v {
			return "True", nil
		}

		return "False", nil
	case field.Array:
		items, _ := value.([]any)
		parts := make([]string, len(items))
		for i, item := range items {
			text, err := toText(schema.FieldSpec{Field: f.ItemField}, item)
			if err != nil {
				return "", err
			}
			parts[i] = text
		}

		return strings.Join(parts, ","), nil
	case field.BitGroup:
		members, _ := value.(map[string]any)
		parts := make([]string, 0, len(f.Members))
		for _, m := range f.Members {
			parts = append(parts, fmt.Sprintf("%s=%v", m.Name, members[m.Name]))
		}

		return strings.Join(parts, ","), nil
	default:
		return defaultText(value), nil
	}
}

func defaultText(value any) string {
	switch v := value.(type) {
	case float32, float64:
		return fmt.Sprintf("%g", v)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", v)
	}
}

// fromText parses tok into spec's decoded value representation.
func fromText(spec schema.FieldSpec, tok string) (any, error) {
	switch f := spec.Field.(type) {
	case field.Enum:
		return f.FromString(tok)
	case field.FixedString:
		return f.FromString(tok)
	case field.PrefixedString:
		return tok, nil
	case field.Bool:
		return tok == "True" || tok == "true" || tok == "1", nil
	default:
		switch spec.Field.Kind() {
		case field.KindFloat32, field.KindFloat64:
			return strconv.ParseFloat(tok, 64)
		case field.KindUint8, field.KindUint16, field.KindUint32, field.KindUint64:
			return strconv.ParseUint(tok, 10, 64)
		case field.KindInt8, field.KindInt16, field.KindInt32, field.KindInt64:
			return strconv.ParseInt(tok, 10, 64)
		default:
			if iv, err := strconv.ParseInt(tok, 10, 64); err == nil {
				return iv, nil
			}
			if fv, err := strconv.ParseFloat(tok, 64); err == nil {
				return fv, nil
			}

			return tok, nil
		}
	}
}

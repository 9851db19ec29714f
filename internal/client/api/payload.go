package api

import (
	"encoding/json"
	"strings"
)

// Payload is a parsed response body. The backend normally answers with a
// JSON object, but a body that fails to parse is kept as raw text instead
// of being treated as an error.
type Payload struct {
	raw    []byte
	fields map[string]any
}

// ParsePayload builds a Payload from a raw body. It never fails: bodies
// that are not JSON objects are kept as raw text.
func ParsePayload(raw []byte) *Payload {
	return newPayload(raw)
}

func newPayload(raw []byte) *Payload {
	p := &Payload{raw: raw}
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err == nil {
		p.fields = fields
	}
	return p
}

// IsJSON reports whether the body parsed as a JSON object.
func (p *Payload) IsJSON() bool {
	return p.fields != nil
}

// Text returns the body as trimmed raw text.
func (p *Payload) Text() string {
	return strings.TrimSpace(string(p.raw))
}

// Field returns a top-level field of the JSON object, if present.
func (p *Payload) Field(name string) (any, bool) {
	if p.fields == nil {
		return nil, false
	}
	v, ok := p.fields[name]
	return v, ok
}

// StringField returns a top-level string field, or "" when the field is
// absent or not a string.
func (p *Payload) StringField(name string) string {
	v, ok := p.Field(name)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

// BoolField returns a top-level bool field, or false when absent.
func (p *Payload) BoolField(name string) bool {
	v, ok := p.Field(name)
	if !ok {
		return false
	}
	b, _ := v.(bool)
	return b
}

// Fields returns the whole parsed object, or nil for non-JSON bodies.
func (p *Payload) Fields() map[string]any {
	return p.fields
}

// Decode unmarshals the raw body into out.
func (p *Payload) Decode(out any) error {
	return json.Unmarshal(p.raw, out)
}

// DecodeField unmarshals a single top-level field into out. It returns
// false when the field is absent from the body.
func (p *Payload) DecodeField(name string, out any) (bool, error) {
	v, ok := p.Field(name)
	if !ok {
		return false, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return true, err
	}
	return true, json.Unmarshal(data, out)
}

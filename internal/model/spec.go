package model

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
)

// SpecEntry is one key/value pair of a SKU specification.
type SpecEntry struct {
	Key   string
	Value string
}

// SpecMap is an insertion-ordered string map. It encodes as a JSON object
// and keeps the key order it was decoded with.
type SpecMap []SpecEntry

func (m SpecMap) Get(key string) (string, bool) {
	for _, e := range m {
		if e.Key == key {
			return e.Value, true
		}
	}
	return "", false
}

// Set replaces the value of key in place or appends it.
func (m *SpecMap) Set(key, value string) {
	for i := range *m {
		if (*m)[i].Key == key {
			(*m)[i].Value = value
			return
		}
	}
	*m = append(*m, SpecEntry{Key: key, Value: value})
}

func (m SpecMap) Keys() []string {
	keys := make([]string, len(m))
	for i, e := range m {
		keys[i] = e.Key
	}
	return keys
}

// Filter returns the entries whose key satisfies keep, in order.
func (m SpecMap) Filter(keep func(key string) bool) SpecMap {
	out := SpecMap{}
	for _, e := range m {
		if keep(e.Key) {
			out = append(out, e)
		}
	}
	return out
}

func (m SpecMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range m {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(e.Key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(e.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON accepts an object, a JSON string holding an object (legacy
// rows were stored double encoded) or null. Non-string values are kept in
// their JSON text form.
func (m *SpecMap) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*m = SpecMap{}
		return nil
	}
	if data[0] == '"' {
		var inner string
		if err := json.Unmarshal(data, &inner); err != nil {
			return err
		}
		if inner == "" {
			*m = SpecMap{}
			return nil
		}
		return m.UnmarshalJSON([]byte(inner))
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("spec map: expected object, got %v", tok)
	}

	out := SpecMap{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("spec map: expected key, got %v", tok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			s = string(raw)
		}
		out.Set(key, s)
	}
	*m = out
	return nil
}

func (m SpecMap) Value() (driver.Value, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	return m.MarshalJSON()
}

func (m *SpecMap) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*m = SpecMap{}
		return nil
	case []byte:
		return m.UnmarshalJSON(v)
	case string:
		return m.UnmarshalJSON([]byte(v))
	default:
		return errors.New("spec map: unsupported scan type")
	}
}

// JSONMap holds free-form product attributes.
type JSONMap map[string]interface{}

func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(m)
}

func (m *JSONMap) Scan(src interface{}) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		*m = JSONMap{}
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return errors.New("json map: unsupported scan type")
	}
	out := JSONMap{}
	if err := json.Unmarshal(data, &out); err != nil {
		return err
	}
	*m = out
	return nil
}

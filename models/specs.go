package models

import (
	"bytes"
	"encoding/json"
	"errors"

	"gorm.io/datatypes"
)

// SpecsKind tells which JSON shape a product's specs column held.
type SpecsKind int

const (
	SpecsNone SpecsKind = iota
	SpecsObject
	SpecsList
)

// SpecEntry is one "label: value" line of a spec sheet.
type SpecEntry struct {
	Label string
	Value json.RawMessage
}

// ProductSpecs keeps free-form technical attributes. Objects keep their key
// order, which is the order the admin typed them in.
type ProductSpecs struct {
	Kind    SpecsKind
	Entries []SpecEntry
	Items   []json.RawMessage
}

// ParseProductSpecs decodes a raw specs value. Scalars and undecodable
// values are dropped.
func ParseProductSpecs(raw []byte) ProductSpecs {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return ProductSpecs{}
	}

	switch trimmed[0] {
	case '{':
		entries, err := decodeOrderedObject(trimmed)
		if err != nil || len(entries) == 0 {
			return ProductSpecs{}
		}
		return ProductSpecs{Kind: SpecsObject, Entries: entries}
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err != nil || len(items) == 0 {
			return ProductSpecs{}
		}
		return ProductSpecs{Kind: SpecsList, Items: items}
	default:
		return ProductSpecs{}
	}
}

func decodeOrderedObject(raw []byte) ([]SpecEntry, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	if tok, err := dec.Token(); err != nil || tok != json.Delim('{') {
		return nil, errors.New("specs: expected object")
	}

	var entries []SpecEntry
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		label, ok := tok.(string)
		if !ok {
			return nil, errors.New("specs: expected string key")
		}
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, err
		}
		entries = append(entries, SpecEntry{Label: label, Value: value})
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return entries, nil
}

func (s ProductSpecs) MarshalJSON() ([]byte, error) {
	switch s.Kind {
	case SpecsObject:
		var buf bytes.Buffer
		buf.WriteByte('{')
		for i, entry := range s.Entries {
			if i > 0 {
				buf.WriteByte(',')
			}
			label, err := json.Marshal(entry.Label)
			if err != nil {
				return nil, err
			}
			buf.Write(label)
			buf.WriteByte(':')
			if len(entry.Value) == 0 {
				buf.WriteString("null")
			} else {
				buf.Write(entry.Value)
			}
		}
		buf.WriteByte('}')
		return buf.Bytes(), nil
	case SpecsList:
		return json.Marshal(s.Items)
	default:
		return []byte("null"), nil
	}
}

// Column returns the value to persist; empty specs are stored as NULL.
func (s ProductSpecs) Column() (datatypes.JSON, error) {
	if s.Kind == SpecsNone {
		return nil, nil
	}
	raw, err := s.MarshalJSON()
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}

package models

import (
	"bytes"
	"encoding/json"

	"gorm.io/datatypes"
)

// TagsKind tells which JSON shape a project's tags column held.
type TagsKind int

const (
	TagsNone TagsKind = iota
	TagsObject
	TagsList
	// TagsInvalid covers scalars and undecodable JSON.
	TagsInvalid
)

// ProjectTags is the decoded tags column. Objects keep their phase
// separately; every other key stays in Extra so admin-entered data survives
// a round trip untouched.
type ProjectTags struct {
	Kind  TagsKind
	Phase *string
	Extra map[string]json.RawMessage
	List  []json.RawMessage
}

// ParseProjectTags decodes a raw tags value. It never fails: anything that is
// not an object or a list comes back as TagsNone or TagsInvalid.
func ParseProjectTags(raw []byte) ProjectTags {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return ProjectTags{Kind: TagsNone}
	}

	switch trimmed[0] {
	case '{':
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &fields); err != nil {
			return ProjectTags{Kind: TagsInvalid}
		}
		tags := ProjectTags{Kind: TagsObject}
		if rawPhase, ok := fields["phase"]; ok {
			var phase string
			if err := json.Unmarshal(rawPhase, &phase); err == nil {
				tags.Phase = &phase
				delete(fields, "phase")
			}
		}
		if len(fields) > 0 {
			tags.Extra = fields
		}
		return tags
	case '[':
		var list []json.RawMessage
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return ProjectTags{Kind: TagsInvalid}
		}
		return ProjectTags{Kind: TagsList, List: list}
	default:
		return ProjectTags{Kind: TagsInvalid}
	}
}

// IsEmpty reports whether storing the tags would carry no information.
func (t ProjectTags) IsEmpty() bool {
	switch t.Kind {
	case TagsObject:
		return t.Phase == nil && len(t.Extra) == 0
	case TagsList:
		return len(t.List) == 0
	default:
		return true
	}
}

func (t ProjectTags) MarshalJSON() ([]byte, error) {
	switch t.Kind {
	case TagsObject:
		fields := make(map[string]json.RawMessage, len(t.Extra)+1)
		for k, v := range t.Extra {
			fields[k] = v
		}
		if t.Phase != nil {
			phase, err := json.Marshal(*t.Phase)
			if err != nil {
				return nil, err
			}
			fields["phase"] = phase
		}
		return json.Marshal(fields)
	case TagsList:
		if t.List == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(t.List)
	default:
		return []byte("null"), nil
	}
}

// Column returns the value to persist; empty tags are stored as NULL.
func (t ProjectTags) Column() (datatypes.JSON, error) {
	if t.IsEmpty() {
		return nil, nil
	}
	raw, err := t.MarshalJSON()
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}

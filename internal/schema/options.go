package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// FieldOptions is the kind-specific part of a field. The concrete type is
// chosen by the field kind when the field is decoded:
//
//	select   -> SelectOptions, or UnknownOptions if values is not a list
//	relation -> RelationOptions, or UnknownOptions if collectionId is not a string
//	other    -> NoOptions
type FieldOptions interface {
	fieldOptions()
}

// NoOptions is used for kinds whose options do not affect the generated type.
type NoOptions struct{}

// SelectOptions holds the allowed values of a select field, in order.
type SelectOptions struct {
	Values []string `json:"values"`
}

// RelationOptions holds the id of the referenced collection.
type RelationOptions struct {
	CollectionID string `json:"collectionId"`
}

// UnknownOptions keeps options that did not have the shape the kind requires.
type UnknownOptions struct {
	Raw json.RawMessage
}

func (NoOptions) fieldOptions()       {}
func (SelectOptions) fieldOptions()   {}
func (RelationOptions) fieldOptions() {}
func (UnknownOptions) fieldOptions()  {}

func (NoOptions) MarshalJSON() ([]byte, error) {
	return []byte("{}"), nil
}

func (o UnknownOptions) MarshalJSON() ([]byte, error) {
	if len(o.Raw) == 0 {
		return []byte("null"), nil
	}
	return o.Raw, nil
}

type fieldJSON struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Type        FieldKind       `json:"type"`
	Required    bool            `json:"required"`
	System      bool            `json:"system"`
	Presentable bool            `json:"presentable"`
	Options     json.RawMessage `json:"options"`
}

// UnmarshalJSON decodes a field and picks its options variant from the kind.
func (f *Field) UnmarshalJSON(data []byte) error {
	var raw fieldJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*f = Field{
		ID:          raw.ID,
		Name:        raw.Name,
		Type:        raw.Type,
		Required:    raw.Required,
		System:      raw.System,
		Presentable: raw.Presentable,
		Options:     DecodeOptions(raw.Type, raw.Options),
	}
	return nil
}

// DecodeOptions converts raw options JSON into the variant for kind.
// It never fails: malformed options become UnknownOptions.
func DecodeOptions(kind FieldKind, raw json.RawMessage) FieldOptions {
	if len(bytes.TrimSpace(raw)) == 0 {
		raw = json.RawMessage("{}")
	}
	switch kind {
	case KindSelect:
		var opts struct {
			Values json.RawMessage `json:"values"`
		}
		if err := json.Unmarshal(raw, &opts); err != nil {
			return UnknownOptions{Raw: raw}
		}
		var values []any
		if len(opts.Values) == 0 || json.Unmarshal(opts.Values, &values) != nil || values == nil {
			return UnknownOptions{Raw: raw}
		}
		out := make([]string, 0, len(values))
		for _, v := range values {
			if s, ok := v.(string); ok {
				out = append(out, s)
			} else {
				out = append(out, fmt.Sprint(v))
			}
		}
		return SelectOptions{Values: out}
	case KindRelation:
		var opts struct {
			CollectionID any `json:"collectionId"`
		}
		if err := json.Unmarshal(raw, &opts); err != nil {
			return UnknownOptions{Raw: raw}
		}
		switch id := opts.CollectionID.(type) {
		case nil:
			return RelationOptions{}
		case string:
			return RelationOptions{CollectionID: id}
		default:
			return UnknownOptions{Raw: raw}
		}
	default:
		return NoOptions{}
	}
}

// DecodeFields parses a collection's field list. The list may be a JSON
// array or a JSON string holding an array, as stored in the _collections
// table. An empty or null list yields no fields.
func DecodeFields(raw json.RawMessage) ([]Field, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}
	if raw[0] == '"' {
		var encoded string
		if err := json.Unmarshal(raw, &encoded); err != nil {
			return nil, fmt.Errorf("decode schema string: %w", err)
		}
		return DecodeFields(json.RawMessage(encoded))
	}
	var fields []Field
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("decode schema: %w", err)
	}
	return fields, nil
}

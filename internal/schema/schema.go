package schema

import (
	"encoding/json"
	"strings"
)

// FieldKind is the PocketBase field type of a schema field.
type FieldKind string

const (
	KindText     FieldKind = "text"
	KindDate     FieldKind = "date"
	KindSelect   FieldKind = "select"
	KindRelation FieldKind = "relation"
)

// SystemPrefix marks internal collections such as _pb_users_auth_.
const SystemPrefix = "_"

// RawCollection is a collection record as returned by a source, with the
// field list still undecoded. Schema holds either a JSON array or a JSON
// string containing an array.
type RawCollection struct {
	ID     string          `json:"id"`
	Name   string          `json:"name"`
	Type   string          `json:"type"`
	Schema json.RawMessage `json:"schema"`
}

// IsSystem reports whether the collection is internal to PocketBase.
func (c RawCollection) IsSystem() bool {
	return strings.HasPrefix(c.Name, SystemPrefix)
}

// Field describes one declared field of a collection.
type Field struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Type        FieldKind    `json:"type"`
	Required    bool         `json:"required"`
	System      bool         `json:"system"`
	Presentable bool         `json:"presentable"`
	Options     FieldOptions `json:"options"`
}

// ExtendedField is a Field with its generated target type.
type ExtendedField struct {
	Field
	TargetType string `json:"targetType"`
}

// Collection is a normalized collection ready for rendering.
type Collection struct {
	ID     string          `json:"id"`
	Name   string          `json:"name"`
	Type   string          `json:"type"`
	Schema []ExtendedField `json:"schema"`
}

// IsSystem reports whether the collection is internal to PocketBase.
func (c Collection) IsSystem() bool {
	return strings.HasPrefix(c.Name, SystemPrefix)
}

// IndexEntry is the part of a collection needed to resolve relations.
type IndexEntry struct {
	Name   string          `json:"name"`
	Schema []ExtendedField `json:"schema"`
}

// Index maps collection id to name and schema.
type Index map[string]IndexEntry

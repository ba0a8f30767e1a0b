package translate

import (
	"fmt"

	"pbextract/internal/schema"
)

// CollectionTypeAuth is the collection type of PocketBase auth collections.
const CollectionTypeAuth = "auth"

// systemFields are prepended to every collection, in this order.
var systemFields = []schema.ExtendedField{
	{Field: schema.Field{ID: "unknown", Name: "id", Type: schema.KindText, Required: true, Presentable: true, Options: schema.NoOptions{}}, TargetType: TypeString},
	{Field: schema.Field{ID: "unknown", Name: "created_at", Type: schema.KindDate, Required: true, Presentable: true, Options: schema.NoOptions{}}, TargetType: TypeDate},
	{Field: schema.Field{ID: "unknown", Name: "updated_at", Type: schema.KindDate, Required: true, Presentable: true, Options: schema.NoOptions{}}, TargetType: TypeDate},
}

// authFields are appended to auth collections after the declared fields.
// The password hash is never returned by PocketBase, so it is left out.
var authFields = []schema.ExtendedField{
	{Field: schema.Field{ID: "unknown", Name: "email", Type: schema.KindText, Options: schema.NoOptions{}}, TargetType: TypeString},
	{Field: schema.Field{ID: "unknown", Name: "username", Type: schema.KindText, Required: true, Options: schema.NoOptions{}}, TargetType: TypeString},
}

// Normalize decodes, types and resolves a list of raw collections. Order is
// preserved. It fails only if a collection's field list cannot be decoded.
func Normalize(rows []schema.RawCollection) ([]schema.Collection, error) {
	typed := make([]schema.Collection, 0, len(rows))
	for _, row := range rows {
		fields, err := schema.DecodeFields(row.Schema)
		if err != nil {
			return nil, fmt.Errorf("collection %q: %w", row.Name, err)
		}
		typed = append(typed, WithSystemFields(Type(row, fields)))
	}
	return ResolveRelations(typed, BuildIndex(typed)), nil
}

// Type maps every declared field through TargetType.
func Type(row schema.RawCollection, fields []schema.Field) schema.Collection {
	extended := make([]schema.ExtendedField, len(fields))
	for i, f := range fields {
		extended[i] = schema.ExtendedField{Field: f, TargetType: TargetType(f)}
	}
	return schema.Collection{ID: row.ID, Name: row.Name, Type: row.Type, Schema: extended}
}

// WithSystemFields returns c with id, created_at and updated_at ahead of the
// declared fields, and the auth fields behind them for auth collections.
func WithSystemFields(c schema.Collection) schema.Collection {
	out := make([]schema.ExtendedField, 0, len(systemFields)+len(c.Schema)+len(authFields))
	out = append(out, systemFields...)
	out = append(out, c.Schema...)
	if c.Type == CollectionTypeAuth {
		out = append(out, authFields...)
	}
	c.Schema = out
	return c
}

// BuildIndex indexes typed collections by id.
func BuildIndex(collections []schema.Collection) schema.Index {
	idx := make(schema.Index, len(collections))
	for _, c := range collections {
		idx[c.ID] = schema.IndexEntry{Name: c.Name, Schema: c.Schema}
	}
	return idx
}

// ResolveRelations returns new collections with every relation placeholder
// replaced by the referenced collection's type name, or "unknown" when the
// id is not in idx. Only one level is substituted.
func ResolveRelations(collections []schema.Collection, idx schema.Index) []schema.Collection {
	out := make([]schema.Collection, len(collections))
	for i, c := range collections {
		fields := make([]schema.ExtendedField, len(c.Schema))
		for j, f := range c.Schema {
			f.TargetType = ResolveType(f.TargetType, idx)
			fields[j] = f
		}
		c.Schema = fields
		out[i] = c
	}
	return out
}

// ResolveType resolves a single target type against idx. Types that are not
// relation placeholders are returned unchanged.
func ResolveType(typ string, idx schema.Index) string {
	id, ok := ParsePlaceholder(typ)
	if !ok {
		return typ
	}
	entry, found := idx[id]
	if !found || entry.Name == "" {
		return TypeUnknown
	}
	return TypeName(entry.Name)
}

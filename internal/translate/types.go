package translate

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"pbextract/internal/schema"
)

// Target types emitted by the mapper.
const (
	TypeString  = "string"
	TypeDate    = "Date"
	TypeUnknown = "unknown"
	TypeNever   = "never"
)

const relationPrefix = "%%relation:"

// TargetType maps a field to its declaration type. Relation fields get a
// placeholder that ResolveRelations later replaces with a collection type.
// Unrecognized kinds and malformed options map to "unknown".
func TargetType(f schema.Field) string {
	switch f.Type {
	case schema.KindText:
		return TypeString
	case schema.KindDate:
		return TypeDate
	case schema.KindSelect:
		opts, ok := f.Options.(schema.SelectOptions)
		if !ok {
			return TypeUnknown
		}
		if len(opts.Values) == 0 {
			return TypeNever
		}
		literals := make([]string, len(opts.Values))
		for i, v := range opts.Values {
			literals[i] = quote(v)
		}
		return strings.Join(literals, " | ")
	case schema.KindRelation:
		opts, ok := f.Options.(schema.RelationOptions)
		if !ok {
			return TypeUnknown
		}
		return RelationPlaceholder(opts.CollectionID)
	default:
		return TypeUnknown
	}
}

// RelationPlaceholder returns the unresolved type for a relation to collectionID.
func RelationPlaceholder(collectionID string) string {
	return relationPrefix + collectionID
}

// ParsePlaceholder returns the collection id carried by a relation
// placeholder, and false if typ is not a placeholder.
func ParsePlaceholder(typ string) (string, bool) {
	return strings.CutPrefix(typ, relationPrefix)
}

// TypeName is the generated declaration name for a collection. Names that
// do not start with a letter get a leading underscore so the result is
// always an identifier: "2fa" -> "_2faCollection".
func TypeName(collectionName string) string {
	name := PascalCase(collectionName)
	if r, _ := utf8.DecodeRuneInString(name); !unicode.IsLetter(r) {
		name = "_" + name
	}
	return name + "Collection"
}

// PascalCase splits s on non-alphanumeric characters and lower-to-upper case
// boundaries and capitalizes each word: "user_profiles" -> "UserProfiles",
// "_pb_users_auth_" -> "PbUsersAuth".
func PascalCase(s string) string {
	var b strings.Builder
	for _, word := range splitWords(s) {
		r := []rune(word)
		b.WriteRune(unicode.ToUpper(r[0]))
		b.WriteString(strings.ToLower(string(r[1:])))
	}
	return b.String()
}

func splitWords(s string) []string {
	var words []string
	var cur []rune
	flush := func() {
		if len(cur) > 0 {
			words = append(words, string(cur))
			cur = cur[:0]
		}
	}
	runes := []rune(s)
	for i, r := range runes {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			flush()
			continue
		}
		if i > 0 && len(cur) > 0 {
			prev := runes[i-1]
			switch {
			case unicode.IsLower(prev) && unicode.IsUpper(r):
				flush()
			case unicode.IsUpper(prev) && unicode.IsUpper(r) && i+1 < len(runes) && unicode.IsLower(runes[i+1]):
				// "HTTPServer" -> "HTTP", "Server"
				flush()
			}
		}
		cur = append(cur, r)
	}
	flush()
	return words
}

func quote(v string) string {
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `'`, `\'`)
	return "'" + v + "'"
}

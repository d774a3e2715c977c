package sqlfmt

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/indexforge/blockschema/schema"
)

// Quote wraps an identifier in double quotes. Generated identifiers are
// always quoted so the source naming convention never collides with
// reserved words or case folding.
func Quote(ident string) string {
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}

// Qualified returns the namespace-qualified, quoted form of a table or type
// name: "namespace"."name".
func Qualified(namespace, name string) string {
	return Quote(namespace) + "." + Quote(name)
}

// Literal escapes a string for use as a SQL string literal, including the
// surrounding single quotes.
func Literal(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// SnakeCase converts a camelCase or PascalCase source name to snake_case.
// Already-snake_case input passes through unchanged.
func SnakeCase(name string) string {
	var b strings.Builder
	var prev rune
	for i, r := range name {
		if unicode.IsUpper(r) {
			if i > 0 && prev != '_' && !unicode.IsUpper(prev) {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
		} else {
			b.WriteRune(r)
		}
		prev = r
	}
	return b.String()
}

// ColumnType maps a field to its SQL type clause. Enum fields resolve
// through enumTypes, keyed by enum name with the qualified database type
// name as value.
func ColumnType(f *schema.EntityField, enumTypes map[string]string) (string, error) {
	switch f.Type {
	case schema.TypeID, schema.TypeString:
		return "text", nil
	case schema.TypeInt:
		return "integer", nil
	case schema.TypeBigInt, schema.TypeBigDecimal:
		return "numeric", nil
	case schema.TypeBytes:
		return "bytea", nil
	case schema.TypeBoolean:
		return "boolean", nil
	case schema.TypeTimestamp:
		return "timestamptz", nil
	case schema.TypeEnum:
		t, ok := enumTypes[f.EnumName]
		if !ok {
			return "", fmt.Errorf("field %s references unknown enum type %q", f.Name, f.EnumName)
		}
		return t, nil
	default:
		return "", fmt.Errorf("field %s has unsupported type %q", f.Name, f.Type)
	}
}

// ColumnDef renders the full column clause for CREATE TABLE / ADD COLUMN:
// quoted name, type, nullability and default.
func ColumnDef(f *schema.EntityField, enumTypes map[string]string) (string, error) {
	typ, err := ColumnType(f, enumTypes)
	if err != nil {
		return "", err
	}
	def := Quote(SnakeCase(f.Name)) + " " + typ
	if f.Primary {
		def += " PRIMARY KEY"
	}
	if !f.Nullable {
		def += " NOT NULL"
	}
	if f.Default != nil {
		def += " DEFAULT " + *f.Default
	}
	return def, nil
}

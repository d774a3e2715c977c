package sqlfmt

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// maxIdentLen is Postgres NAMEDATALEN - 1; longer identifiers are silently
// truncated by the server, which would break name references.
const maxIdentLen = 63

const hashLen = 10

// hashFields hashes the normalized field list so that identical inputs
// always produce the same name and differing inputs practically never
// collide.
func hashFields(table string, fields []string) string {
	norm := make([]string, len(fields))
	for i, f := range fields {
		norm[i] = SnakeCase(strings.TrimSpace(f))
	}
	sum := sha256.Sum256([]byte(table + "\x00" + strings.Join(norm, ",")))
	return hex.EncodeToString(sum[:])[:hashLen]
}

// IndexName derives a deterministic index name from the table and its field
// list: a truncated table prefix plus a content hash, always within the
// identifier length limit.
func IndexName(table string, fields []string) string {
	return boundedName(table, hashFields(table, fields), "_idx")
}

// ForeignKeyName derives a deterministic constraint name for the foreign key
// on the given column.
func ForeignKeyName(table, column string) string {
	return boundedName(table, hashFields(table, []string{column}), "_fkey")
}

func boundedName(table, hash, suffix string) string {
	prefix := SnakeCase(table)
	budget := maxIdentLen - len(hash) - len(suffix) - 1
	if len(prefix) > budget {
		prefix = prefix[:budget]
	}
	return prefix + "_" + hash + suffix
}

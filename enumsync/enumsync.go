package enumsync

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/indexforge/blockschema/schema"
	"github.com/indexforge/blockschema/sqlfmt"
)

// DB is the connection surface enum synchronization needs. *pgxpool.Pool
// satisfies it.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Sync ensures a database enum type exists for every declared enum before
// any dependent table statement is queued: missing types are created, known
// types gain any new labels. It returns the resolved qualified type name per
// declared enum, for use in column type clauses.
//
// Postgres cannot remove enum labels, so labels absent from the declaration
// are left in place.
func Sync(ctx context.Context, db DB, namespace string, enums []schema.EnumType) (map[string]string, error) {
	existing, err := existingLabels(ctx, db, namespace)
	if err != nil {
		return nil, err
	}

	resolved := make(map[string]string, len(enums))
	for _, e := range enums {
		typeName := sqlfmt.SnakeCase(e.Name)
		qualified := sqlfmt.Qualified(namespace, typeName)

		labels, exists := existing[typeName]
		if !exists {
			quoted := make([]string, len(e.Labels))
			for i, l := range e.Labels {
				quoted[i] = sqlfmt.Literal(l)
			}
			stmt := fmt.Sprintf(`CREATE TYPE %s AS ENUM (%s);`, qualified, strings.Join(quoted, ", "))
			if _, err := db.Exec(ctx, stmt); err != nil {
				return nil, fmt.Errorf("creating enum type %s: %v", typeName, err)
			}
		} else {
			have := make(map[string]bool, len(labels))
			for _, l := range labels {
				have[l] = true
			}
			for _, l := range e.Labels {
				if have[l] {
					continue
				}
				stmt := fmt.Sprintf(`ALTER TYPE %s ADD VALUE IF NOT EXISTS %s;`, qualified, sqlfmt.Literal(l))
				if _, err := db.Exec(ctx, stmt); err != nil {
					return nil, fmt.Errorf("adding label %q to enum type %s: %v", l, typeName, err)
				}
			}
		}
		resolved[e.Name] = qualified
	}
	return resolved, nil
}

func existingLabels(ctx context.Context, db DB, namespace string) (map[string][]string, error) {
	rows, err := db.Query(ctx, `
	SELECT t.typname, e.enumlabel
	FROM pg_type t
	JOIN pg_enum e ON e.enumtypid = t.oid
	JOIN pg_namespace n ON n.oid = t.typnamespace
	WHERE n.nspname = $1
	ORDER BY t.typname, e.enumsortorder;
	`, namespace)
	if err != nil {
		return nil, fmt.Errorf("querying enum types: %v", err)
	}
	defer rows.Close()

	existing := map[string][]string{}
	for rows.Next() {
		var name, label string
		if err := rows.Scan(&name, &label); err != nil {
			return nil, fmt.Errorf("scanning enum label: %v", err)
		}
		existing[name] = append(existing[name], label)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterating enum rows: %v", rows.Err())
	}
	return existing, nil
}

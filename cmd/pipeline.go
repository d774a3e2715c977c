package cmd

import (
	"context"
	"fmt"

	"github.com/indexforge/blockschema/database"
	"github.com/indexforge/blockschema/diff"
	"github.com/indexforge/blockschema/enumsync"
	"github.com/indexforge/blockschema/introspect"
	"github.com/indexforge/blockschema/loader"
	"github.com/indexforge/blockschema/planner"
	"github.com/indexforge/blockschema/schema"
	"github.com/indexforge/blockschema/sqlfmt"
	"github.com/indexforge/blockschema/utils"
	"github.com/indexforge/blockschema/validator"
)

// buildPlanner runs the shared plan pipeline: load and validate the schema
// file, introspect the namespace, synchronize enum types (unless readOnly,
// where resolved type names are derived without touching the database) and
// queue every operation the diff produced. The returned planner is ready to
// Run.
func buildPlanner(ctx context.Context, schemaFile, namespace string, historical, readOnly bool) (*planner.Planner, *schema.Document, error) {
	doc, err := loader.LoadDocument(schemaFile)
	if err != nil {
		return nil, nil, fmt.Errorf("loading schema: %v", err)
	}
	if namespace != "" {
		doc.Namespace = namespace
	}

	result := validator.Validate(doc)
	if !result.Valid {
		for _, e := range result.Errors {
			fmt.Printf("  - %s\n", e.Message)
		}
		return nil, nil, fmt.Errorf("schema validation failed with %d error(s)", len(result.Errors))
	}

	pool, err := database.GetPool()
	if err != nil {
		return nil, nil, err
	}

	existingTables, err := introspect.Namespace(ctx, pool, doc.Namespace)
	if err != nil {
		return nil, nil, fmt.Errorf("introspecting namespace %s: %v", doc.Namespace, err)
	}
	indexNames, err := introspect.IndexNames(ctx, pool, doc.Namespace)
	if err != nil {
		return nil, nil, fmt.Errorf("introspecting index names: %v", err)
	}

	var enumTypes map[string]string
	if readOnly {
		enumTypes = make(map[string]string, len(doc.Enums))
		for _, e := range doc.Enums {
			enumTypes[e.Name] = sqlfmt.Qualified(doc.Namespace, sqlfmt.SnakeCase(e.Name))
		}
	} else {
		stmt := fmt.Sprintf(`CREATE SCHEMA IF NOT EXISTS %s;`, sqlfmt.Quote(doc.Namespace))
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return nil, nil, fmt.Errorf("ensuring namespace %s: %v", doc.Namespace, err)
		}
		enumTypes, err = enumsync.Sync(ctx, pool, doc.Namespace, doc.Enums)
		if err != nil {
			return nil, nil, fmt.Errorf("synchronizing enum types: %v", err)
		}
	}

	p := planner.New(pool, doc.Namespace, planner.Options{
		Historical:      historical,
		MaxIndexes:      utils.MaxIndexes(),
		ExistingIndexes: indexNames,
		EnumTypes:       enumTypes,
	})

	ops := diff.Compute(doc, existingTables, historical)
	if err := diff.Apply(p, ops); err != nil {
		return nil, nil, err
	}
	return p, doc, nil
}

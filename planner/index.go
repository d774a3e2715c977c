package planner

import (
	"fmt"
	"strings"

	"github.com/indexforge/blockschema/schema"
	"github.com/indexforge/blockschema/sqlfmt"
)

// CreateIndex queues a CREATE INDEX for the given entity. The index name is
// derived from the table and normalized field list, so regenerating the same
// index produces the same name.
func (p *Planner) CreateIndex(model *schema.EntityModel, index schema.EntityIndex) error {
	if len(index.Fields) == 0 {
		return fmt.Errorf("index on %s has no fields", model.Name)
	}
	table := sqlfmt.SnakeCase(model.Name)
	index = p.augmentIndex(index)
	name := p.resolveIndexName(table, index.Fields)
	p.enqueue(p.indexStatement(table, index, name))
	return nil
}

// DropIndex queues a DROP INDEX IF EXISTS for the given entity index.
// Dropping an index that was never created succeeds.
func (p *Planner) DropIndex(model *schema.EntityModel, index schema.EntityIndex) error {
	if len(index.Fields) == 0 {
		return fmt.Errorf("index on %s has no fields", model.Name)
	}
	table := sqlfmt.SnakeCase(model.Name)
	index = p.augmentIndex(index)
	name := sqlfmt.IndexName(table, index.Fields)
	p.enqueue(fmt.Sprintf(`DROP INDEX IF EXISTS %s;`, sqlfmt.Qualified(p.namespace, name)))
	return nil
}

// DropIndexByName queues a DROP INDEX IF EXISTS targeting an existing index
// by its name, as reported by introspection. Dropping by name avoids
// rebuilding the hashed name from a column list whose order the catalog does
// not guarantee.
func (p *Planner) DropIndexByName(name string) error {
	if name == "" {
		return fmt.Errorf("index name is empty")
	}
	p.enqueue(fmt.Sprintf(`DROP INDEX IF EXISTS %s;`, sqlfmt.Qualified(p.namespace, name)))
	return nil
}

func (p *Planner) indexStatement(table string, index schema.EntityIndex, name string) string {
	unique := ""
	if index.Unique {
		unique = "UNIQUE "
	}
	using := ""
	if index.Method != "" {
		using = "USING " + index.Method + " "
	}
	cols := make([]string, len(index.Fields))
	for i, f := range index.Fields {
		cols[i] = sqlfmt.Quote(sqlfmt.SnakeCase(f))
	}
	return fmt.Sprintf(`CREATE %sINDEX %s ON %s %s(%s);`,
		unique, sqlfmt.Quote(name), p.qualified(table), using, strings.Join(cols, ", "))
}

// resolveIndexName claims a free name for a new index. The content hash
// makes collisions rare; when a name is nonetheless taken, a numeric suffix
// disambiguates until a free one is found.
func (p *Planner) resolveIndexName(table string, fields []string) string {
	base := sqlfmt.IndexName(table, fields)
	name := base
	for i := 1; ; i++ {
		if _, taken := p.claimed[name]; !taken {
			break
		}
		suffix := fmt.Sprintf("_%d", i)
		trimmed := base
		if len(trimmed)+len(suffix) > 63 {
			trimmed = trimmed[:63-len(suffix)]
		}
		name = trimmed + suffix
	}
	p.claimed[name] = struct{}{}
	return name
}

package planner

import (
	"fmt"
	"log"
	"strings"

	"github.com/indexforge/blockschema/schema"
	"github.com/indexforge/blockschema/sqlfmt"
)

// FKComments accumulates relation documentation per table across relation
// operations, keyed by table then constraint name. It preserves insertion
// order so the flushed comments are deterministic, and is flushed exactly
// once via AddRelationComments at the end of a pass.
type FKComments struct {
	tables  []string
	byTable map[string]*tableComments
}

type tableComments struct {
	keys []string
	tags map[string][]string
}

func NewFKComments() *FKComments {
	return &FKComments{byTable: map[string]*tableComments{}}
}

// Add records a descriptive tag under table/key.
func (c *FKComments) Add(table, key, tag string) {
	tc, ok := c.byTable[table]
	if !ok {
		tc = &tableComments{tags: map[string][]string{}}
		c.byTable[table] = tc
		c.tables = append(c.tables, table)
	}
	if _, ok := tc.tags[key]; !ok {
		tc.keys = append(tc.keys, key)
	}
	tc.tags[key] = append(tc.tags[key], tag)
}

// Remove deletes every tag recorded under table/key.
func (c *FKComments) Remove(table, key string) {
	tc, ok := c.byTable[table]
	if !ok {
		return
	}
	if _, ok := tc.tags[key]; !ok {
		return
	}
	delete(tc.tags, key)
	for i, k := range tc.keys {
		if k == key {
			tc.keys = append(tc.keys[:i], tc.keys[i+1:]...)
			break
		}
	}
}

// CreateRelation resolves a declared relation into schema changes. With
// historical versioning the database cannot enforce foreign keys across row
// versions, so the relation is recorded as documentation in comments instead
// of a live constraint. Without versioning, has-one and has-many become real
// foreign key constraints; belongs-to has no native representation on this
// engine and is skipped with a warning.
func (p *Planner) CreateRelation(rel *schema.Relation, comments *FKComments) error {
	switch rel.Kind {
	case schema.BelongsTo, schema.HasOne, schema.HasMany:
	default:
		return fmt.Errorf("unsupported relation kind %q between %s and %s",
			rel.Kind, rel.From.Name, rel.To.Name)
	}

	fromTable := sqlfmt.SnakeCase(rel.From.Name)
	toTable := sqlfmt.SnakeCase(rel.To.Name)
	fkCol := sqlfmt.SnakeCase(rel.ForeignKey)
	fkName := sqlfmt.ForeignKeyName(fromTable, fkCol)

	if p.historical {
		comments.Add(fromTable, fkName,
			fmt.Sprintf("%s %s.%s => %s.id (%s)", rel.Kind, fromTable, fkCol, toTable, rel.Field))
		p.registerModel(rel.To)
		return nil
	}

	switch rel.Kind {
	case schema.BelongsTo:
		log.Printf("relation %s.%s: belongs-to is not supported without historical tracking, skipping",
			rel.From.Name, rel.Field)
	case schema.HasOne:
		p.enqueue(p.foreignKeyStatement(fromTable, toTable, fkCol, fkName))
		name := p.resolveIndexName(fromTable, []string{fkCol})
		p.enqueue(p.indexStatement(fromTable, schema.EntityIndex{Fields: []string{fkCol}, Unique: true}, name))
		p.enqueueExtra(p.constraintComment(fromTable, fkName, rel))
	case schema.HasMany:
		p.enqueue(p.foreignKeyStatement(fromTable, toTable, fkCol, fkName))
		p.enqueueExtra(p.constraintComment(fromTable, fkName, rel))
	}
	p.registerModel(rel.To)
	return nil
}

// DropRelation undoes CreateRelation. With historical versioning nothing is
// queued: the comment map is rebuilt from the surviving relations and
// reflushed every pass, so a removed relation simply stops appearing.
func (p *Planner) DropRelation(rel *schema.Relation) error {
	switch rel.Kind {
	case schema.BelongsTo, schema.HasOne, schema.HasMany:
	default:
		return fmt.Errorf("unsupported relation kind %q between %s and %s",
			rel.Kind, rel.From.Name, rel.To.Name)
	}
	if p.historical {
		return nil
	}

	fromTable := sqlfmt.SnakeCase(rel.From.Name)
	fkCol := sqlfmt.SnakeCase(rel.ForeignKey)
	fkName := sqlfmt.ForeignKeyName(fromTable, fkCol)

	switch rel.Kind {
	case schema.BelongsTo:
		log.Printf("relation %s.%s: belongs-to is not supported without historical tracking, skipping",
			rel.From.Name, rel.Field)
	case schema.HasOne:
		p.enqueue(fmt.Sprintf(`ALTER TABLE %s DROP CONSTRAINT IF EXISTS %s;`,
			p.qualified(fromTable), sqlfmt.Quote(fkName)))
		p.enqueue(fmt.Sprintf(`DROP INDEX IF EXISTS %s;`,
			sqlfmt.Qualified(p.namespace, sqlfmt.IndexName(fromTable, []string{fkCol}))))
	case schema.HasMany:
		p.enqueue(fmt.Sprintf(`ALTER TABLE %s DROP CONSTRAINT IF EXISTS %s;`,
			p.qualified(fromTable), sqlfmt.Quote(fkName)))
	}
	return nil
}

// AddRelationComments flushes the accumulated relation documentation as one
// COMMENT ON TABLE per table, in the order tables were first recorded.
func (p *Planner) AddRelationComments(comments *FKComments) {
	for _, table := range comments.tables {
		tc := comments.byTable[table]
		var entries []string
		for _, key := range tc.keys {
			entries = append(entries, fmt.Sprintf("%s: %s", key, strings.Join(tc.tags[key], ", ")))
		}
		if len(entries) == 0 {
			continue
		}
		p.enqueueExtra(fmt.Sprintf(`COMMENT ON TABLE %s IS %s;`,
			p.qualified(table), sqlfmt.Literal(strings.Join(entries, "; "))))
	}
}

func (p *Planner) foreignKeyStatement(fromTable, toTable, fkCol, fkName string) string {
	return fmt.Sprintf(`ALTER TABLE %s ADD CONSTRAINT %s FOREIGN KEY (%s) REFERENCES %s (%s);`,
		p.qualified(fromTable), sqlfmt.Quote(fkName), sqlfmt.Quote(fkCol),
		p.qualified(toTable), sqlfmt.Quote("id"))
}

func (p *Planner) constraintComment(fromTable, fkName string, rel *schema.Relation) string {
	text := fmt.Sprintf("%s relation to %s via %s", rel.Kind, sqlfmt.SnakeCase(rel.To.Name), rel.Field)
	return fmt.Sprintf(`COMMENT ON CONSTRAINT %s ON %s IS %s;`,
		sqlfmt.Quote(fkName), p.qualified(fromTable), sqlfmt.Literal(text))
}

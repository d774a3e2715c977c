package planner

import (
	"fmt"
	"strings"

	"github.com/indexforge/blockschema/schema"
	"github.com/indexforge/blockschema/sqlfmt"
)

// CreateTable queues the CREATE TABLE for the model followed by one CREATE
// INDEX per declared index, and registers the model. All validation happens
// before anything is queued, so a failed call leaves the planner unchanged.
func (p *Planner) CreateTable(model *schema.EntityModel) error {
	if len(model.Indexes) > p.maxIndexes {
		return fmt.Errorf("entity %s declares %d indexes, the limit is %d",
			model.Name, len(model.Indexes), p.maxIndexes)
	}
	table := sqlfmt.SnakeCase(model.Name)

	defs := make([]string, 0, len(model.Fields)+2)
	for i := range model.Fields {
		field := model.Fields[i]
		if p.historical && field.Primary {
			// versioned rows repeat their logical id, the surrogate vid
			// below is the real primary key
			field.Primary = false
		}
		def, err := sqlfmt.ColumnDef(&field, p.enums)
		if err != nil {
			return fmt.Errorf("entity %s: %v", model.Name, err)
		}
		defs = append(defs, def)
	}
	if p.historical {
		defs = append(defs, historicalColumnDefs()...)
	}

	indexes := make([]schema.EntityIndex, 0, len(model.Indexes)+1)
	for _, idx := range model.Indexes {
		if len(idx.Fields) == 0 {
			return fmt.Errorf("entity %s declares an index with no fields", model.Name)
		}
		indexes = append(indexes, p.augmentIndex(idx))
	}
	if p.historical {
		indexes = append(indexes, pointInTimeIndex())
	}

	p.enqueue(fmt.Sprintf(`CREATE TABLE %s (%s);`, p.qualified(table), strings.Join(defs, ", ")))
	for _, idx := range indexes {
		name := p.resolveIndexName(table, idx.Fields)
		p.enqueue(p.indexStatement(table, idx, name))
	}
	p.registerModel(model)
	return nil
}

// DropTable queues an unconditional DROP TABLE IF EXISTS for the model.
func (p *Planner) DropTable(model *schema.EntityModel) error {
	table := sqlfmt.SnakeCase(model.Name)
	p.enqueue(fmt.Sprintf(`DROP TABLE IF EXISTS %s;`, p.qualified(table)))
	return nil
}

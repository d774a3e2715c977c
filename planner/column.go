package planner

import (
	"fmt"

	"github.com/indexforge/blockschema/schema"
	"github.com/indexforge/blockschema/sqlfmt"
)

// CreateColumn queues an ADD COLUMN for an existing table, plus a column
// comment when the field carries one. Primary key changes are disallowed,
// and the field must be nullable: existing rows have no value to backfill.
func (p *Planner) CreateColumn(model *schema.EntityModel, field *schema.EntityField) error {
	if field.Primary {
		return fmt.Errorf("cannot add primary key column %s to existing table %s", field.Name, model.Name)
	}
	if !field.Nullable {
		return fmt.Errorf("cannot add non-nullable column %s to existing table %s", field.Name, model.Name)
	}
	def, err := sqlfmt.ColumnDef(field, p.enums)
	if err != nil {
		return fmt.Errorf("entity %s: %v", model.Name, err)
	}
	table := sqlfmt.SnakeCase(model.Name)
	p.enqueue(fmt.Sprintf(`ALTER TABLE %s ADD COLUMN %s;`, p.qualified(table), def))
	if field.Comment != "" {
		p.enqueue(fmt.Sprintf(`COMMENT ON COLUMN %s.%s.%s IS %s;`,
			sqlfmt.Quote(p.namespace), table, sqlfmt.SnakeCase(field.Name), sqlfmt.Literal(field.Comment)))
	}
	return nil
}

// DropColumn queues a DROP COLUMN IF EXISTS and re-registers the model so
// the caller sees its current shape after the pass.
func (p *Planner) DropColumn(model *schema.EntityModel, field *schema.EntityField) error {
	table := sqlfmt.SnakeCase(model.Name)
	p.enqueue(fmt.Sprintf(`ALTER TABLE %s DROP COLUMN IF EXISTS %s;`,
		p.qualified(table), sqlfmt.SnakeCase(field.Name)))
	p.registerModel(model)
	return nil
}

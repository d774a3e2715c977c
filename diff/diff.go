package diff

import (
	"fmt"
	"strings"

	"github.com/indexforge/blockschema/introspect"
	"github.com/indexforge/blockschema/planner"
	"github.com/indexforge/blockschema/schema"
	"github.com/indexforge/blockschema/sqlfmt"
)

type OperationType string

const (
	CreateTable OperationType = "CREATE_TABLE"
	DropTable   OperationType = "DROP_TABLE"
	AddColumn   OperationType = "ADD_COLUMN"
	DropColumn  OperationType = "DROP_COLUMN"
	CreateIndex OperationType = "CREATE_INDEX"
	DropIndex   OperationType = "DROP_INDEX"
	AddRelation OperationType = "ADD_RELATION"
)

type Operation struct {
	Type      OperationType
	Model     *schema.EntityModel
	Field     *schema.EntityField // for ADD_COLUMN, DROP_COLUMN
	Index     *schema.EntityIndex // for CREATE_INDEX
	IndexName string              // for DROP_INDEX, the introspected name
	Relation  *schema.Relation    // for ADD_RELATION
}

// generatedIndexSuffix marks index names this tool produced; foreign index
// names in the namespace are never dropped.
const generatedIndexSuffix = "_idx"

// Compute compares the desired schema document against the introspected
// namespace and returns the planner operations, in dependency order: tables
// before columns and indexes, relations after the tables they reference,
// drops last.
func Compute(doc *schema.Document, existing []introspect.ExistingTable, historical bool) []Operation {
	existingTableMap := map[string]introspect.ExistingTable{}
	for _, t := range existing {
		existingTableMap[t.TableName] = t
	}

	modelTableMap := map[string]*schema.EntityModel{}
	for _, m := range doc.Models {
		modelTableMap[sqlfmt.SnakeCase(m.Name)] = m
	}

	var creates, drops []Operation
	newTables := map[string]bool{}

	for _, model := range doc.Models {
		table := sqlfmt.SnakeCase(model.Name)
		existingTable, exists := existingTableMap[table]
		if !exists {
			creates = append(creates, Operation{Type: CreateTable, Model: model})
			newTables[table] = true
			continue
		}

		creates = append(creates, columnAdds(model, existingTable)...)
		drops = append(drops, columnDrops(model, existingTable)...)
		creates = append(creates, indexAdds(model, table, existingTable, historical)...)
		drops = append(drops, indexDrops(model, table, existingTable, historical)...)
	}

	for _, rel := range doc.Relations {
		fromTable := sqlfmt.SnakeCase(rel.From.Name)
		if newTables[fromTable] {
			r := rel
			creates = append(creates, Operation{Type: AddRelation, Model: rel.From, Relation: &r})
			continue
		}
		existingTable, exists := existingTableMap[fromTable]
		if !exists {
			continue
		}
		fkName := sqlfmt.ForeignKeyName(fromTable, sqlfmt.SnakeCase(rel.ForeignKey))
		if !hasForeignKey(existingTable, fkName) {
			r := rel
			creates = append(creates, Operation{Type: AddRelation, Model: rel.From, Relation: &r})
		}
	}

	for _, table := range existing {
		if _, exists := modelTableMap[table.TableName]; !exists {
			drops = append(drops, Operation{
				Type:  DropTable,
				Model: &schema.EntityModel{Name: table.TableName},
			})
		}
	}

	return append(creates, drops...)
}

// Apply drives the planner with the computed operations and flushes the
// accumulated relation comments once at the end.
func Apply(p *planner.Planner, ops []Operation) error {
	comments := planner.NewFKComments()
	for _, op := range ops {
		var err error
		switch op.Type {
		case CreateTable:
			err = p.CreateTable(op.Model)
		case DropTable:
			err = p.DropTable(op.Model)
		case AddColumn:
			err = p.CreateColumn(op.Model, op.Field)
		case DropColumn:
			err = p.DropColumn(op.Model, op.Field)
		case CreateIndex:
			err = p.CreateIndex(op.Model, *op.Index)
		case DropIndex:
			err = p.DropIndexByName(op.IndexName)
		case AddRelation:
			err = p.CreateRelation(op.Relation, comments)
		default:
			err = fmt.Errorf("unsupported operation: %s", op.Type)
		}
		if err != nil {
			return fmt.Errorf("planning %s for %s: %v", op.Type, op.Model.Name, err)
		}
	}
	p.AddRelationComments(comments)
	return nil
}

func columnAdds(model *schema.EntityModel, existing introspect.ExistingTable) []Operation {
	existingCols := map[string]bool{}
	for _, c := range existing.Columns {
		existingCols[c.ColumnName] = true
	}

	var ops []Operation
	for i := range model.Fields {
		field := &model.Fields[i]
		if !existingCols[sqlfmt.SnakeCase(field.Name)] {
			ops = append(ops, Operation{Type: AddColumn, Model: model, Field: field})
		}
	}
	return ops
}

func columnDrops(model *schema.EntityModel, existing introspect.ExistingTable) []Operation {
	modelCols := map[string]bool{}
	for _, f := range model.Fields {
		modelCols[sqlfmt.SnakeCase(f.Name)] = true
	}
	// versioning bookkeeping columns never appear in the model
	modelCols[planner.VIDColumn] = true
	modelCols[planner.BlockRangeColumn] = true

	var ops []Operation
	for _, col := range existing.Columns {
		if !modelCols[col.ColumnName] {
			ops = append(ops, Operation{
				Type:  DropColumn,
				Model: model,
				Field: &schema.EntityField{Name: col.ColumnName},
			})
		}
	}
	return ops
}

func indexAdds(model *schema.EntityModel, table string, existing introspect.ExistingTable, historical bool) []Operation {
	existingIdx := map[string]bool{}
	for _, idx := range existing.Indexes {
		existingIdx[idx.IndexName] = true
	}

	var ops []Operation
	for i := range model.Indexes {
		index := &model.Indexes[i]
		if !existingIdx[expectedIndexName(table, *index, historical)] {
			ops = append(ops, Operation{Type: CreateIndex, Model: model, Index: index})
		}
	}
	return ops
}

func indexDrops(model *schema.EntityModel, table string, existing introspect.ExistingTable, historical bool) []Operation {
	expected := map[string]bool{}
	for _, idx := range model.Indexes {
		expected[expectedIndexName(table, idx, historical)] = true
	}
	if historical {
		expected[sqlfmt.IndexName(table, []string{planner.VIDColumn, planner.BlockRangeColumn})] = true
	}

	// stale indexes are dropped by their introspected name; the hashed name
	// cannot be rebuilt from the introspected column list
	var ops []Operation
	for _, idx := range existing.Indexes {
		if expected[idx.IndexName] {
			continue
		}
		if !strings.HasSuffix(idx.IndexName, generatedIndexSuffix) {
			continue
		}
		ops = append(ops, Operation{
			Type:      DropIndex,
			Model:     model,
			IndexName: idx.IndexName,
		})
	}
	return ops
}

// expectedIndexName mirrors how the planner names a declared index,
// including the block range augmentation under historical versioning.
func expectedIndexName(table string, idx schema.EntityIndex, historical bool) string {
	fields := idx.Fields
	if historical {
		hasRange := false
		for _, f := range fields {
			if f == planner.BlockRangeColumn {
				hasRange = true
				break
			}
		}
		if !hasRange {
			fields = append(append([]string{}, fields...), planner.BlockRangeColumn)
		}
	}
	return sqlfmt.IndexName(table, fields)
}

func hasForeignKey(table introspect.ExistingTable, constraintName string) bool {
	for _, fk := range table.ForeignKeys {
		if fk.ConstraintName == constraintName {
			return true
		}
	}
	return false
}

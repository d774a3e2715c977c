package schema

// FieldType is the scalar type of an entity field. Enum fields use TypeEnum
// plus the EnumName reference on the field.
type FieldType string

const (
	TypeID         FieldType = "id"
	TypeString     FieldType = "string"
	TypeInt        FieldType = "int"
	TypeBigInt     FieldType = "bigint"
	TypeBigDecimal FieldType = "bigdecimal"
	TypeBytes      FieldType = "bytes"
	TypeBoolean    FieldType = "boolean"
	TypeTimestamp  FieldType = "timestamp"
	TypeEnum       FieldType = "enum"
)

// EntityModel is a named collection of typed fields plus declared indexes.
// Models are identified by name within one schema namespace.
type EntityModel struct {
	Name    string
	Fields  []EntityField
	Indexes []EntityIndex
}

type EntityField struct {
	Name     string
	Type     FieldType
	EnumName string // set when Type == TypeEnum
	Primary  bool
	Nullable bool
	Default  *string
	Comment  string
}

// EntityIndex covers an ordered, non-empty list of field names.
type EntityIndex struct {
	Fields []string
	Unique bool
	Method string // btree, gin, brin, ...; empty means the database default
}

// EnumType is a database-level enumerated type referenced by entity fields.
type EnumType struct {
	Name   string
	Labels []string
}

// RelationKind tags the edge type between two entity models.
type RelationKind string

const (
	BelongsTo RelationKind = "belongs-to"
	HasOne    RelationKind = "has-one"
	HasMany   RelationKind = "has-many"
)

// Relation is a typed edge between two entity models. From is the entity
// holding the foreign key field; To is the referenced entity. Field is the
// logical name used for navigation in the source model description.
type Relation struct {
	Kind       RelationKind
	From       *EntityModel
	To         *EntityModel
	ForeignKey string
	Field      string
}

// Document is one complete schema description for a namespace: the unit the
// loader produces and the diff consumes.
type Document struct {
	Namespace string
	Enums     []EnumType
	Models    []*EntityModel
	Relations []Relation
}

// Field returns the named field, or nil if the model does not declare it.
func (m *EntityModel) Field(name string) *EntityField {
	for i := range m.Fields {
		if m.Fields[i].Name == name {
			return &m.Fields[i]
		}
	}
	return nil
}

// AddField appends a field; it replaces any existing field with the same name.
func (m *EntityModel) AddField(f EntityField) {
	for i := range m.Fields {
		if m.Fields[i].Name == f.Name {
			m.Fields[i] = f
			return
		}
	}
	m.Fields = append(m.Fields, f)
}

// RemoveField deletes the named field if present.
func (m *EntityModel) RemoveField(name string) {
	for i := range m.Fields {
		if m.Fields[i].Name == name {
			m.Fields = append(m.Fields[:i], m.Fields[i+1:]...)
			return
		}
	}
}

// Model returns the named model from the document, or nil.
func (d *Document) Model(name string) *EntityModel {
	for _, m := range d.Models {
		if m.Name == name {
			return m
		}
	}
	return nil
}

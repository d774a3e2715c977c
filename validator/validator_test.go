package validator

import (
	"testing"

	"github.com/indexforge/blockschema/schema"
)

func validDocument() *schema.Document {
	account := &schema.EntityModel{
		Name: "Account",
		Fields: []schema.EntityField{
			{Name: "id", Type: schema.TypeID, Primary: true},
			{Name: "balance", Type: schema.TypeInt, Nullable: true},
		},
		Indexes: []schema.EntityIndex{{Fields: []string{"balance"}}},
	}
	transfer := &schema.EntityModel{
		Name: "Transfer",
		Fields: []schema.EntityField{
			{Name: "id", Type: schema.TypeID, Primary: true},
			{Name: "accountId", Type: schema.TypeID},
			{Name: "status", Type: schema.TypeEnum, EnumName: "TransferStatus", Nullable: true},
		},
	}
	return &schema.Document{
		Namespace: "sgd1",
		Enums:     []schema.EnumType{{Name: "TransferStatus", Labels: []string{"pending", "success"}}},
		Models:    []*schema.EntityModel{account, transfer},
		Relations: []schema.Relation{
			{Kind: schema.HasMany, From: transfer, To: account, ForeignKey: "accountId", Field: "transfers"},
		},
	}
}

func TestValidateOK(t *testing.T) {
	result := Validate(validDocument())
	if !result.Valid {
		t.Fatalf("expected valid document, got errors: %+v", result.Errors)
	}
	if len(result.Warnings) != 0 {
		t.Errorf("unexpected warnings: %+v", result.Warnings)
	}
}

func TestValidateFindsErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*schema.Document)
	}{
		{
			name:   "missing namespace",
			mutate: func(d *schema.Document) { d.Namespace = "" },
		},
		{
			name: "duplicate entity",
			mutate: func(d *schema.Document) {
				d.Models = append(d.Models, &schema.EntityModel{
					Name:   "Account",
					Fields: []schema.EntityField{{Name: "id", Type: schema.TypeID, Primary: true}},
				})
			},
		},
		{
			name: "duplicate field",
			mutate: func(d *schema.Document) {
				m := d.Model("Account")
				m.Fields = append(m.Fields, schema.EntityField{Name: "balance", Type: schema.TypeInt})
			},
		},
		{
			name: "entity without fields",
			mutate: func(d *schema.Document) {
				d.Models = append(d.Models, &schema.EntityModel{Name: "Empty"})
			},
		},
		{
			name: "unsupported field type",
			mutate: func(d *schema.Document) {
				m := d.Model("Account")
				m.Fields = append(m.Fields, schema.EntityField{Name: "blob", Type: "json"})
			},
		},
		{
			name: "undeclared enum reference",
			mutate: func(d *schema.Document) {
				d.Enums = nil
			},
		},
		{
			name: "enum without labels",
			mutate: func(d *schema.Document) {
				d.Enums = append(d.Enums, schema.EnumType{Name: "Empty"})
			},
		},
		{
			name: "enum with repeated label",
			mutate: func(d *schema.Document) {
				d.Enums[0].Labels = []string{"pending", "pending"}
			},
		},
		{
			name: "index with no fields",
			mutate: func(d *schema.Document) {
				m := d.Model("Account")
				m.Indexes = append(m.Indexes, schema.EntityIndex{})
			},
		},
		{
			name: "index with unknown field",
			mutate: func(d *schema.Document) {
				m := d.Model("Account")
				m.Indexes = append(m.Indexes, schema.EntityIndex{Fields: []string{"missing"}})
			},
		},
		{
			name: "unsupported relation kind",
			mutate: func(d *schema.Document) {
				d.Relations[0].Kind = "many-to-many"
			},
		},
		{
			name: "relation with unknown foreign key",
			mutate: func(d *schema.Document) {
				d.Relations[0].ForeignKey = "missing"
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := validDocument()
			tt.mutate(doc)
			result := Validate(doc)
			if result.Valid {
				t.Error("expected validation errors")
			}
		})
	}
}

func TestValidateWarnsOnMissingPrimaryKey(t *testing.T) {
	doc := validDocument()
	doc.Models = append(doc.Models, &schema.EntityModel{
		Name:   "Log",
		Fields: []schema.EntityField{{Name: "message", Type: schema.TypeString, Nullable: true}},
	})

	result := Validate(doc)
	if !result.Valid {
		t.Fatalf("warnings must not invalidate: %+v", result.Errors)
	}
	if len(result.Warnings) != 1 {
		t.Errorf("expected one warning, got %+v", result.Warnings)
	}
}

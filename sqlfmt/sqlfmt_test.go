package sqlfmt

import (
	"strings"
	"testing"

	"github.com/indexforge/blockschema/schema"
)

func TestSnakeCase(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"id", "id"},
		{"Account", "account"},
		{"blockNumber", "block_number"},
		{"parentHash", "parent_hash"},
		{"block_range", "block_range"},
		{"TransferStatus", "transfer_status"},
	}
	for _, tt := range tests {
		if got := SnakeCase(tt.in); got != tt.want {
			t.Errorf("SnakeCase(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestQuote(t *testing.T) {
	if got := Quote("account"); got != `"account"` {
		t.Errorf("Quote = %q", got)
	}
	if got := Qualified("sgd1", "account"); got != `"sgd1"."account"` {
		t.Errorf("Qualified = %q", got)
	}
}

func TestLiteral(t *testing.T) {
	if got := Literal("it's"); got != `'it''s'` {
		t.Errorf("Literal = %q", got)
	}
}

func TestColumnDef(t *testing.T) {
	def := "now()"
	tests := []struct {
		name  string
		field schema.EntityField
		enums map[string]string
		want  string
	}{
		{
			name:  "primary id",
			field: schema.EntityField{Name: "id", Type: schema.TypeID, Primary: true},
			want:  `"id" text PRIMARY KEY NOT NULL`,
		},
		{
			name:  "nullable int",
			field: schema.EntityField{Name: "blockNumber", Type: schema.TypeInt, Nullable: true},
			want:  `"block_number" integer`,
		},
		{
			name:  "timestamp with default",
			field: schema.EntityField{Name: "createdAt", Type: schema.TypeTimestamp, Nullable: true, Default: &def},
			want:  `"created_at" timestamptz DEFAULT now()`,
		},
		{
			name:  "enum",
			field: schema.EntityField{Name: "status", Type: schema.TypeEnum, EnumName: "Status", Nullable: true},
			enums: map[string]string{"Status": `"sgd1"."status"`},
			want:  `"status" "sgd1"."status"`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ColumnDef(&tt.field, tt.enums)
			if err != nil {
				t.Fatalf("ColumnDef: %v", err)
			}
			if got != tt.want {
				t.Errorf("ColumnDef = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestColumnDefUnknownEnum(t *testing.T) {
	field := schema.EntityField{Name: "status", Type: schema.TypeEnum, EnumName: "Missing"}
	if _, err := ColumnDef(&field, nil); err == nil {
		t.Error("expected unknown enum error")
	}
}

func TestIndexNameDeterministic(t *testing.T) {
	a := IndexName("transfer", []string{"accountId", "blockNumber"})
	b := IndexName("transfer", []string{"accountId", "blockNumber"})
	if a != b {
		t.Errorf("same input produced different names: %q vs %q", a, b)
	}
}

func TestIndexNameDiffersByInput(t *testing.T) {
	a := IndexName("transfer", []string{"accountId"})
	b := IndexName("transfer", []string{"blockNumber"})
	c := IndexName("account", []string{"accountId"})
	if a == b || a == c {
		t.Errorf("differing inputs collided: %q %q %q", a, b, c)
	}
}

func TestIndexNameLengthBound(t *testing.T) {
	long := strings.Repeat("very_long_entity_name", 5)
	name := IndexName(long, []string{"fieldOne", "fieldTwo", "fieldThree"})
	if len(name) > 63 {
		t.Errorf("index name exceeds identifier limit: %d bytes", len(name))
	}
	if !strings.HasSuffix(name, "_idx") {
		t.Errorf("expected _idx suffix, got %q", name)
	}
}

func TestForeignKeyName(t *testing.T) {
	a := ForeignKeyName("transfer", "account_id")
	b := ForeignKeyName("transfer", "account_id")
	if a != b {
		t.Errorf("same input produced different names: %q vs %q", a, b)
	}
	if len(a) > 63 {
		t.Errorf("constraint name exceeds identifier limit: %d bytes", len(a))
	}
	if !strings.HasSuffix(a, "_fkey") {
		t.Errorf("expected _fkey suffix, got %q", a)
	}
}

// Normalization: field order matters, naming convention does not.
func TestIndexNameNormalization(t *testing.T) {
	camel := IndexName("transfer", []string{"accountId"})
	snake := IndexName("transfer", []string{"account_id"})
	if camel != snake {
		t.Errorf("naming convention changed the hash: %q vs %q", camel, snake)
	}

	ab := IndexName("transfer", []string{"a", "b"})
	ba := IndexName("transfer", []string{"b", "a"})
	if ab == ba {
		t.Error("field order must be significant")
	}
}

package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/indexforge/blockschema/schema"
)

const sampleSchema = `
namespace: sgd1
enums:
  - name: TransferStatus
    labels: [pending, success]
entities:
  - name: Account
    fields:
      - name: id
        type: id
        primary: true
      - name: balance
        type: bigint
        nullable: true
    indexes:
      - fields: [balance]
  - name: Transfer
    fields:
      - name: id
        type: id
        primary: true
      - name: accountId
        type: id
      - name: status
        enum: TransferStatus
        nullable: true
relations:
  - kind: has-many
    from: Transfer
    to: Account
    foreignKey: accountId
    field: transfers
`

func writeSchema(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "schema.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing schema file: %v", err)
	}
	return path
}

func TestLoadDocument(t *testing.T) {
	doc, err := LoadDocument(writeSchema(t, sampleSchema))
	if err != nil {
		t.Fatalf("LoadDocument: %v", err)
	}

	if doc.Namespace != "sgd1" {
		t.Errorf("namespace = %q", doc.Namespace)
	}
	if len(doc.Models) != 2 || len(doc.Enums) != 1 || len(doc.Relations) != 1 {
		t.Fatalf("unexpected document shape: %d models, %d enums, %d relations",
			len(doc.Models), len(doc.Enums), len(doc.Relations))
	}

	account := doc.Model("Account")
	if account == nil {
		t.Fatal("Account model missing")
	}
	if f := account.Field("id"); f == nil || !f.Primary || f.Type != schema.TypeID {
		t.Errorf("unexpected id field: %+v", f)
	}
	if len(account.Indexes) != 1 || account.Indexes[0].Fields[0] != "balance" {
		t.Errorf("unexpected indexes: %+v", account.Indexes)
	}

	transfer := doc.Model("Transfer")
	if f := transfer.Field("status"); f == nil || f.Type != schema.TypeEnum || f.EnumName != "TransferStatus" {
		t.Errorf("enum field not resolved: %+v", f)
	}

	rel := doc.Relations[0]
	if rel.Kind != schema.HasMany || rel.From != transfer || rel.To != account {
		t.Errorf("relation endpoints not wired: %+v", rel)
	}
}

func TestLoadDocumentRequiresNamespace(t *testing.T) {
	if _, err := LoadDocument(writeSchema(t, "entities: []\n")); err == nil {
		t.Error("expected missing namespace error")
	}
}

func TestLoadDocumentUnknownRelationEntity(t *testing.T) {
	bad := `
namespace: sgd1
entities:
  - name: Account
    fields:
      - name: id
        type: id
relations:
  - kind: has-many
    from: Transfer
    to: Account
    foreignKey: accountId
    field: transfers
`
	if _, err := LoadDocument(writeSchema(t, bad)); err == nil {
		t.Error("expected unknown entity error")
	}
}

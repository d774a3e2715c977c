package enumsync

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/indexforge/blockschema/schema"
)

// fakeRows yields (typname, enumlabel) pairs.
type fakeRows struct {
	rows [][2]string
	i    int
}

func (r *fakeRows) Close()                                       {}
func (r *fakeRows) Err() error                                   { return nil }
func (r *fakeRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *fakeRows) Next() bool                                   { r.i++; return r.i <= len(r.rows) }
func (r *fakeRows) Values() ([]any, error)                       { return nil, nil }
func (r *fakeRows) RawValues() [][]byte                          { return nil }
func (r *fakeRows) Conn() *pgx.Conn                              { return nil }

func (r *fakeRows) Scan(dest ...any) error {
	row := r.rows[r.i-1]
	*dest[0].(*string) = row[0]
	*dest[1].(*string) = row[1]
	return nil
}

type fakeDB struct {
	existing [][2]string
	executed []string
}

func (db *fakeDB) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	db.executed = append(db.executed, sql)
	return pgconn.CommandTag{}, nil
}

func (db *fakeDB) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return &fakeRows{rows: db.existing}, nil
}

func TestSyncCreatesAndExtends(t *testing.T) {
	db := &fakeDB{existing: [][2]string{
		{"transfer_status", "pending"},
	}}
	enums := []schema.EnumType{
		{Name: "TransferStatus", Labels: []string{"pending", "success"}},
		{Name: "AccountKind", Labels: []string{"user", "contract"}},
	}

	resolved, err := Sync(context.Background(), db, "sgd1", enums)
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}

	wantExec := []string{
		`ALTER TYPE "sgd1"."transfer_status" ADD VALUE IF NOT EXISTS 'success';`,
		`CREATE TYPE "sgd1"."account_kind" AS ENUM ('user', 'contract');`,
	}
	if diff := cmp.Diff(wantExec, db.executed); diff != "" {
		t.Errorf("executed statements mismatch (-want +got):\n%s", diff)
	}

	wantResolved := map[string]string{
		"TransferStatus": `"sgd1"."transfer_status"`,
		"AccountKind":    `"sgd1"."account_kind"`,
	}
	if diff := cmp.Diff(wantResolved, resolved); diff != "" {
		t.Errorf("resolved types mismatch (-want +got):\n%s", diff)
	}
}

func TestSyncNoChanges(t *testing.T) {
	db := &fakeDB{existing: [][2]string{
		{"transfer_status", "pending"},
		{"transfer_status", "success"},
	}}
	enums := []schema.EnumType{
		{Name: "TransferStatus", Labels: []string{"pending", "success"}},
	}

	if _, err := Sync(context.Background(), db, "sgd1", enums); err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if len(db.executed) != 0 {
		t.Errorf("expected no statements, got %v", db.executed)
	}
}

func TestSyncEscapesLabels(t *testing.T) {
	db := &fakeDB{}
	enums := []schema.EnumType{
		{Name: "Quoting", Labels: []string{"it's"}},
	}

	if _, err := Sync(context.Background(), db, "sgd1", enums); err != nil {
		t.Fatalf("Sync: %v", err)
	}
	want := []string{`CREATE TYPE "sgd1"."quoting" AS ENUM ('it''s');`}
	if diff := cmp.Diff(want, db.executed); diff != "" {
		t.Errorf("executed statements mismatch (-want +got):\n%s", diff)
	}
}

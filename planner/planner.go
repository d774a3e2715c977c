package planner

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/indexforge/blockschema/schema"
	"github.com/indexforge/blockschema/sqlfmt"
)

// DefaultMaxIndexes bounds how many indexes a single entity may declare.
const DefaultMaxIndexes = 50

// DB is the slice of pool behavior the planner needs when it owns the
// migration transaction. *pgxpool.Pool satisfies it.
type DB interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Tx is the transaction surface Run executes against. pgx.Tx satisfies it.
// When the caller supplies a transaction, commit and rollback authority
// stays with the caller.
type Tx interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// Options configures one migration pass.
type Options struct {
	// Historical switches every table to append-only row versioning.
	Historical bool
	// MaxIndexes overrides DefaultMaxIndexes when positive.
	MaxIndexes int
	// ExistingIndexes holds index names already present in the namespace,
	// fetched before the planner is constructed.
	ExistingIndexes map[string]struct{}
	// EnumTypes maps declared enum names to their resolved qualified
	// database type names, produced by enum synchronization.
	EnumTypes map[string]string
}

// Planner accumulates the DDL for one migration pass and applies it as a
// single atomic unit. Enqueue operations only mutate in-memory state; Run is
// the only method that touches the database. A planner serves exactly one
// pass and is not safe for concurrent use.
type Planner struct {
	db         DB
	namespace  string
	historical bool
	maxIndexes int
	enums      map[string]string

	// claimed tracks index names that are taken, either because they
	// already exist in the namespace or because this pass queued them.
	claimed map[string]struct{}

	stmts []string // primary queue, executed first
	extra []string // deferred comment/constraint statements

	models []*schema.EntityModel
	seen   map[string]struct{}
}

// New constructs a planner for one migration pass against the given schema
// namespace. db may be nil if the caller always supplies its own transaction
// to Run.
func New(db DB, namespace string, opts Options) *Planner {
	maxIndexes := opts.MaxIndexes
	if maxIndexes <= 0 {
		maxIndexes = DefaultMaxIndexes
	}
	claimed := make(map[string]struct{}, len(opts.ExistingIndexes))
	for name := range opts.ExistingIndexes {
		claimed[name] = struct{}{}
	}
	enums := opts.EnumTypes
	if enums == nil {
		enums = map[string]string{}
	}
	return &Planner{
		db:         db,
		namespace:  namespace,
		historical: opts.Historical,
		maxIndexes: maxIndexes,
		enums:      enums,
		claimed:    claimed,
		seen:       map[string]struct{}{},
	}
}

// Namespace returns the schema namespace the planner is bound to.
func (p *Planner) Namespace() string { return p.namespace }

// Historical reports whether append-only row versioning is enabled.
func (p *Planner) Historical() bool { return p.historical }

// Statements returns the queued DDL in execution order: the primary queue
// followed by the deferred comment queue.
func (p *Planner) Statements() []string {
	out := make([]string, 0, len(p.stmts)+len(p.extra))
	out = append(out, p.stmts...)
	out = append(out, p.extra...)
	return out
}

// Models returns the entity models registered so far, first registration
// wins per name.
func (p *Planner) Models() []*schema.EntityModel {
	out := make([]*schema.EntityModel, len(p.models))
	copy(out, p.models)
	return out
}

// Run applies every queued statement in enqueue order inside one
// transaction. If tx is nil the planner begins, commits and on failure rolls
// back its own transaction; otherwise the supplied transaction is used as-is
// and its lifecycle remains the caller's. The registered models are returned
// even when execution fails: registration happens at enqueue time and does
// not track execution progress.
func (p *Planner) Run(ctx context.Context, tx Tx) ([]*schema.EntityModel, error) {
	owned := tx == nil
	if owned {
		if p.db == nil {
			return p.Models(), fmt.Errorf("planner has no database handle and no transaction was supplied")
		}
		t, err := p.db.Begin(ctx)
		if err != nil {
			return p.Models(), fmt.Errorf("begin migration transaction: %v", err)
		}
		tx = t
	}

	for _, queue := range [][]string{p.stmts, p.extra} {
		for _, stmt := range queue {
			if _, err := tx.Exec(ctx, stmt); err != nil {
				if owned {
					_ = tx.Rollback(ctx)
				}
				return p.Models(), fmt.Errorf("executing %q: %v", stmt, err)
			}
		}
	}

	if owned {
		if err := tx.Commit(ctx); err != nil {
			return p.Models(), fmt.Errorf("commit migration transaction: %v", err)
		}
	}
	return p.Models(), nil
}

func (p *Planner) qualified(table string) string {
	return sqlfmt.Qualified(p.namespace, table)
}

func (p *Planner) enqueue(stmt string) {
	p.stmts = append(p.stmts, stmt)
}

func (p *Planner) enqueueExtra(stmt string) {
	p.extra = append(p.extra, stmt)
}

func (p *Planner) registerModel(m *schema.EntityModel) {
	if _, ok := p.seen[m.Name]; ok {
		return
	}
	p.seen[m.Name] = struct{}{}
	p.models = append(p.models, m)
}

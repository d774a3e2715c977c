package planner

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/indexforge/blockschema/schema"
)

func TestWithBlockRangeAppendsOnce(t *testing.T) {
	idx := schema.EntityIndex{Fields: []string{"balance"}}

	once := withBlockRange(idx)
	want := []string{"balance", BlockRangeColumn}
	if diff := cmp.Diff(want, once.Fields); diff != "" {
		t.Errorf("fields mismatch (-want +got):\n%s", diff)
	}

	twice := withBlockRange(once)
	if diff := cmp.Diff(once.Fields, twice.Fields); diff != "" {
		t.Errorf("augmentation is not idempotent (-once +twice):\n%s", diff)
	}
}

func TestWithBlockRangeDoesNotMutateInput(t *testing.T) {
	idx := schema.EntityIndex{Fields: []string{"balance"}}
	withBlockRange(idx)
	if len(idx.Fields) != 1 {
		t.Errorf("input index mutated: %v", idx.Fields)
	}
}

func TestAugmentIndexOnlyWhenHistorical(t *testing.T) {
	idx := schema.EntityIndex{Fields: []string{"balance"}}

	plain := New(nil, "sgd1", Options{})
	if got := plain.augmentIndex(idx); len(got.Fields) != 1 {
		t.Errorf("non-historical planner must not augment, got %v", got.Fields)
	}

	hist := New(nil, "sgd1", Options{Historical: true})
	if got := hist.augmentIndex(idx); len(got.Fields) != 2 {
		t.Errorf("historical planner must append the range column, got %v", got.Fields)
	}
}

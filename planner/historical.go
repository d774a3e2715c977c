package planner

import "github.com/indexforge/blockschema/schema"

const (
	// VIDColumn is the surrogate identity assigned to each row version.
	VIDColumn = "vid"
	// BlockRangeColumn holds the half-open validity range [lower, upper).
	// A null upper bound marks the version as current.
	BlockRangeColumn = "block_range"
)

// historicalColumnDefs are the bookkeeping columns every versioned table
// carries. The surrogate vid becomes the primary key because the logical id
// repeats across versions.
func historicalColumnDefs() []string {
	return []string{
		`"vid" bigserial PRIMARY KEY`,
		`"block_range" int4range NOT NULL`,
	}
}

// withBlockRange appends the block range column to an index field list so
// range-qualified lookups stay on the index. Reapplying it to an index that
// already carries the column is a no-op.
func withBlockRange(idx schema.EntityIndex) schema.EntityIndex {
	for _, f := range idx.Fields {
		if f == BlockRangeColumn {
			return idx
		}
	}
	fields := make([]string, 0, len(idx.Fields)+1)
	fields = append(fields, idx.Fields...)
	fields = append(fields, BlockRangeColumn)
	idx.Fields = fields
	return idx
}

// pointInTimeIndex resolves which version of a row was visible at a given
// block.
func pointInTimeIndex() schema.EntityIndex {
	return schema.EntityIndex{Fields: []string{VIDColumn, BlockRangeColumn}}
}

// augmentIndex applies historical bookkeeping to a declared index when
// versioning is enabled.
func (p *Planner) augmentIndex(idx schema.EntityIndex) schema.EntityIndex {
	if !p.historical {
		return idx
	}
	return withBlockRange(idx)
}

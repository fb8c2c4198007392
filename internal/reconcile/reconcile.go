// Package reconcile computes how to converge the stored slabs of a batch
// to an edited set.
package reconcile

import (
	"sort"

	"go-slab-ws/internal/apperr"
	"go-slab-ws/internal/model"
)

// Plan is the set of writes that turns stored into edited.
// Deletes and upserts never share a slab number.
type Plan struct {
	BatchNumber string
	Deletes     []int64
	Upserts     []model.Slab
}

// Empty reports whether applying the plan would issue no statements
func (p *Plan) Empty() bool {
	return len(p.Deletes) == 0 && len(p.Upserts) == 0
}

// UpsertNumbers lists the slab numbers of the upserts, ascending
func (p *Plan) UpsertNumbers() []int64 {
	numbers := make([]int64, len(p.Upserts))
	for i, s := range p.Upserts {
		numbers[i] = s.SlabNumber
	}
	return numbers
}

// Validate rejects an edited set that repeats a slab number
func Validate(edited []model.Slab) error {
	seen := make(map[int64]struct{}, len(edited))
	for _, s := range edited {
		if _, dup := seen[s.SlabNumber]; dup {
			return apperr.Validation("duplicate slab number %d", s.SlabNumber)
		}
		seen[s.SlabNumber] = struct{}{}
	}
	return nil
}

// Build plans the reconciliation of batchNumber. Every edited row is
// upserted whether or not it changed, stamped with batchNumber and a
// recomputed sq_ft; stored rows missing from edited are deleted.
func Build(batchNumber string, stored, edited []model.Slab) (*Plan, error) {
	if err := Validate(edited); err != nil {
		return nil, err
	}

	kept := make(map[int64]struct{}, len(edited))
	upserts := make([]model.Slab, 0, len(edited))
	for _, s := range edited {
		kept[s.SlabNumber] = struct{}{}
		s.BatchNumber = batchNumber
		s.SqFt = s.Area()
		upserts = append(upserts, s)
	}
	sort.Slice(upserts, func(i, j int) bool { return upserts[i].SlabNumber < upserts[j].SlabNumber })

	deletes := []int64{}
	for _, s := range stored {
		if _, ok := kept[s.SlabNumber]; !ok {
			deletes = append(deletes, s.SlabNumber)
		}
	}
	sort.Slice(deletes, func(i, j int) bool { return deletes[i] < deletes[j] })

	return &Plan{BatchNumber: batchNumber, Deletes: deletes, Upserts: upserts}, nil
}

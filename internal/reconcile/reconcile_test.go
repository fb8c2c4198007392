package reconcile

import (
	"testing"

	"go-slab-ws/internal/apperr"
	"go-slab-ws/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func slab(n int64, l, w float64, g model.Grade) model.Slab {
	return model.Slab{SlabNumber: n, Length: l, Width: w, Grade: g, BatchNumber: "B1"}
}

func TestBuildDeletesMissingUpsertsRest(t *testing.T) {
	stored := []model.Slab{slab(1, 10, 5, model.GradeA), slab(2, 8, 4, model.GradeB)}
	edited := []model.Slab{slab(1, 10, 5, model.GradeA), slab(3, 6, 6, model.GradeC)}

	plan, err := Build("B1", stored, edited)
	require.NoError(t, err)

	assert.Equal(t, []int64{2}, plan.Deletes)
	require.Len(t, plan.Upserts, 2)
	assert.Equal(t, int64(1), plan.Upserts[0].SlabNumber)
	assert.Equal(t, 50.0, plan.Upserts[0].SqFt)
	assert.Equal(t, int64(3), plan.Upserts[1].SlabNumber)
	assert.Equal(t, 36.0, plan.Upserts[1].SqFt)
	assert.Equal(t, []int64{1, 3}, plan.UpsertNumbers())
}

func TestBuildRejectsDuplicates(t *testing.T) {
	edited := []model.Slab{slab(4, 1, 1, model.GradeA), slab(5, 1, 1, model.GradeA), slab(4, 2, 2, model.GradeB)}

	plan, err := Build("B1", nil, edited)
	assert.Nil(t, plan)
	require.Error(t, err)
	assert.True(t, apperr.IsValidation(err))
	assert.Contains(t, err.Error(), "duplicate slab number 4")
}

func TestBuildRecomputesStaleArea(t *testing.T) {
	edited := []model.Slab{{SlabNumber: 1, Length: 3, Width: 7, SqFt: 1234, Grade: model.GradeD}}

	plan, err := Build("B9", nil, edited)
	require.NoError(t, err)
	assert.Equal(t, 21.0, plan.Upserts[0].SqFt)
	assert.Equal(t, "B9", plan.Upserts[0].BatchNumber)
}

func TestBuildUnchangedSetHasNoDeletes(t *testing.T) {
	rows := []model.Slab{slab(1, 10, 5, model.GradeA), slab(3, 6, 6, model.GradeC)}

	plan, err := Build("B1", rows, rows)
	require.NoError(t, err)
	assert.Empty(t, plan.Deletes)
	assert.Len(t, plan.Upserts, 2)
	assert.False(t, plan.Empty())
}

func TestBuildEmptyEditDeletesEverything(t *testing.T) {
	stored := []model.Slab{slab(9, 1, 1, model.GradeA), slab(2, 1, 1, model.GradeA)}

	plan, err := Build("B1", stored, nil)
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 9}, plan.Deletes)
	assert.Empty(t, plan.Upserts)
}

func TestBuildDoesNotMutateInput(t *testing.T) {
	edited := []model.Slab{{SlabNumber: 2, Length: 2, Width: 2, SqFt: 0}}
	_, err := Build("B1", nil, edited)
	require.NoError(t, err)
	assert.Equal(t, 0.0, edited[0].SqFt)
	assert.Equal(t, "", edited[0].BatchNumber)
}

func TestPlanEmpty(t *testing.T) {
	plan, err := Build("B1", nil, nil)
	require.NoError(t, err)
	assert.True(t, plan.Empty())
}

package repository

import (
	"strconv"

	"go-slab-ws/internal/apperr"
	"go-slab-ws/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SlabRepository interface {
	Create(slab *model.Slab) error
	FindByBatch(batchNumber string) ([]model.Slab, error)
	// FindOutsideBatch returns the slabs among numbers that belong to some other batch
	FindOutsideBatch(batchNumber string, numbers []int64) ([]model.Slab, error)
	DeleteNumbers(batchNumber string, numbers []int64) (int64, error)
	// Upsert inserts slabs, updating measurements on slab_number conflict.
	// A slab_number held by another batch fails with a ConflictError.
	Upsert(slabs []model.Slab) error
	WithTx(tx *gorm.DB) SlabRepository
}

type slabRepo struct {
	db *gorm.DB
}

func NewSlabRepo(db *gorm.DB) SlabRepository {
	return &slabRepo{db}
}

func (r *slabRepo) WithTx(tx *gorm.DB) SlabRepository {
	return &slabRepo{tx}
}

func (r *slabRepo) Create(slab *model.Slab) error {
	return translate(r.db.Omit(clause.Associations).Create(slab).Error, "slab_number", strconv.FormatInt(slab.SlabNumber, 10))
}

func (r *slabRepo) FindByBatch(batchNumber string) ([]model.Slab, error) {
	var slabs []model.Slab
	err := r.db.Where("batch_number = ?", batchNumber).
		Order("slab_number ASC").
		Find(&slabs).Error
	if err != nil {
		return nil, translate(err, "", "")
	}
	return slabs, nil
}

func (r *slabRepo) FindOutsideBatch(batchNumber string, numbers []int64) ([]model.Slab, error) {
	var slabs []model.Slab
	if len(numbers) == 0 {
		return slabs, nil
	}
	err := r.db.Where("slab_number IN ? AND batch_number <> ?", numbers, batchNumber).
		Order("slab_number ASC").
		Find(&slabs).Error
	if err != nil {
		return nil, translate(err, "", "")
	}
	return slabs, nil
}

func (r *slabRepo) DeleteNumbers(batchNumber string, numbers []int64) (int64, error) {
	if len(numbers) == 0 {
		return 0, nil
	}
	res := r.db.Where("batch_number = ? AND slab_number IN ?", batchNumber, numbers).Delete(&model.Slab{})
	if res.Error != nil {
		return 0, translate(res.Error, "", "")
	}
	return res.RowsAffected, nil
}

func (r *slabRepo) Upsert(slabs []model.Slab) error {
	if len(slabs) == 0 {
		return nil
	}
	// A conflicting row is only updated when it already belongs to the same
	// batch; a slab of another batch is skipped and reported as a conflict.
	res := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "slab_number"}},
		DoUpdates: clause.AssignmentColumns([]string{"length", "width", "sq_ft", "grade"}),
		Where: clause.Where{Exprs: []clause.Expression{
			clause.Expr{SQL: "slabs.batch_number = excluded.batch_number"},
		}},
	}).Omit(clause.Associations).Create(&slabs)
	if res.Error != nil {
		return translate(res.Error, "slab_number", "")
	}
	if res.RowsAffected < int64(len(slabs)) {
		return &apperr.ConflictError{Field: "slab_number"}
	}
	return nil
}

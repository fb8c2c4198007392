package repository

import (
	"go-slab-ws/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BatchRepository interface {
	Create(batch *model.Batch) error
	FindByNumber(batchNumber string) (*model.Batch, error)
	FindWithOwner(batchNumber string) (*model.Batch, error)
	FindByOwner(userID uuid.UUID) ([]model.Batch, error)
	// LockForUpdate reads the batch row and holds a row lock until the
	// surrounding transaction ends. Only meaningful on a repo from WithTx.
	LockForUpdate(batchNumber string) (*model.Batch, error)
	WithTx(tx *gorm.DB) BatchRepository
}

type batchRepo struct {
	db *gorm.DB
}

func NewBatchRepo(db *gorm.DB) BatchRepository {
	return &batchRepo{db}
}

func (r *batchRepo) WithTx(tx *gorm.DB) BatchRepository {
	return &batchRepo{tx}
}

func (r *batchRepo) Create(batch *model.Batch) error {
	return translate(r.db.Omit(clause.Associations).Create(batch).Error, "batch_number", batch.BatchNumber)
}

func (r *batchRepo) FindByNumber(batchNumber string) (*model.Batch, error) {
	var batch model.Batch
	if err := r.db.First(&batch, "batch_number = ?", batchNumber).Error; err != nil {
		return nil, translate(err, "batch_number", batchNumber)
	}
	return &batch, nil
}

// FindWithOwner joins the owning user for reports
func (r *batchRepo) FindWithOwner(batchNumber string) (*model.Batch, error) {
	var batch model.Batch
	if err := r.db.Preload("User").First(&batch, "batch_number = ?", batchNumber).Error; err != nil {
		return nil, translate(err, "batch_number", batchNumber)
	}
	return &batch, nil
}

func (r *batchRepo) FindByOwner(userID uuid.UUID) ([]model.Batch, error) {
	var batches []model.Batch
	err := r.db.Where("user_id = ?", userID).
		Order("date DESC, created_at DESC").
		Find(&batches).Error
	if err != nil {
		return nil, translate(err, "", "")
	}
	return batches, nil
}

func (r *batchRepo) LockForUpdate(batchNumber string) (*model.Batch, error) {
	var batch model.Batch
	err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&batch, "batch_number = ?", batchNumber).Error
	if err != nil {
		return nil, translate(err, "batch_number", batchNumber)
	}
	return &batch, nil
}

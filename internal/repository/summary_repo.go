package repository

import (
	"go-slab-ws/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SummaryRepository interface {
	GradeTotals(batchNumber string) ([]GradeTotal, error)
	// OwnerStats aggregates over userID's batches; uuid.Nil covers every batch
	OwnerStats(userID uuid.UUID) (*DashboardStats, error)
}

// GradeTotal is one row of a batch summary
type GradeTotal struct {
	Grade model.Grade `json:"grade"`
	Slabs int64       `json:"slabs"`
	SqFt  float64     `json:"sq_ft"`
}

type DashboardStats struct {
	TotalBatches int64   `json:"total_batches"`
	TotalSlabs   int64   `json:"total_slabs"`
	TotalSqFt    float64 `json:"total_sq_ft"`
}

type summaryRepo struct {
	db *gorm.DB
}

func NewSummaryRepo(db *gorm.DB) SummaryRepository {
	return &summaryRepo{db}
}

func (r *summaryRepo) GradeTotals(batchNumber string) ([]GradeTotal, error) {
	results := []GradeTotal{}

	rows, err := r.db.Model(&model.Slab{}).
		Select("grade, COUNT(*) AS slabs, COALESCE(SUM(sq_ft), 0) AS sq_ft").
		Where("batch_number = ?", batchNumber).
		Group("grade").
		Order("grade ASC").
		Rows()
	if err != nil {
		return nil, translate(err, "", "")
	}
	defer rows.Close()

	for rows.Next() {
		var t GradeTotal
		if err := rows.Scan(&t.Grade, &t.Slabs, &t.SqFt); err != nil {
			return nil, translate(err, "", "")
		}
		results = append(results, t)
	}
	return results, translate(rows.Err(), "", "")
}

func (r *summaryRepo) OwnerStats(userID uuid.UUID) (*DashboardStats, error) {
	var stats DashboardStats

	batches := r.db.Model(&model.Batch{})
	slabs := r.db.Model(&model.Slab{}).Joins("JOIN batches ON batches.batch_number = slabs.batch_number")
	if userID != uuid.Nil {
		batches = batches.Where("user_id = ?", userID)
		slabs = slabs.Where("batches.user_id = ?", userID)
	}

	if err := batches.Count(&stats.TotalBatches).Error; err != nil {
		return nil, translate(err, "", "")
	}
	row := slabs.Select("COUNT(*), COALESCE(SUM(slabs.sq_ft), 0)").Row()
	if err := row.Scan(&stats.TotalSlabs, &stats.TotalSqFt); err != nil {
		return nil, translate(err, "", "")
	}
	return &stats, nil
}

package service

import (
	"go-slab-ws/internal/apperr"
	"go-slab-ws/internal/model"
	"go-slab-ws/internal/repository"
	"go-slab-ws/internal/session"

	"github.com/google/uuid"
)

type DashboardService interface {
	GetBatchSummary(sess *session.Session, ref string) (*BatchSummary, error)
	GetDashboardStats(sess *session.Session) (*repository.DashboardStats, error)
}

// BatchSummary totals a batch's slabs per grade
type BatchSummary struct {
	BatchNumber string                  `json:"batch_number"`
	TotalSlabs  int64                   `json:"total_slabs"`
	TotalSqFt   float64                 `json:"total_sq_ft"`
	Grades      []repository.GradeTotal `json:"grades"`
}

type dashboardService struct {
	batchRepo   repository.BatchRepository
	summaryRepo repository.SummaryRepository
}

func NewDashboardService(bRepo repository.BatchRepository, sumRepo repository.SummaryRepository) DashboardService {
	return &dashboardService{batchRepo: bRepo, summaryRepo: sumRepo}
}

func (s *dashboardService) GetBatchSummary(sess *session.Session, ref string) (*BatchSummary, error) {
	if err := authorize(sess, model.PrivSlabView); err != nil {
		return nil, err
	}
	number, err := resolveBatch(sess, ref)
	if err != nil {
		return nil, err
	}
	batch, err := s.batchRepo.FindByNumber(number)
	if err != nil {
		return nil, err
	}
	if !canAccess(sess, batch) {
		return nil, apperr.ErrNotFound
	}

	grades, err := s.summaryRepo.GradeTotals(number)
	if err != nil {
		return nil, err
	}
	summary := &BatchSummary{BatchNumber: number, Grades: grades}
	for _, g := range grades {
		summary.TotalSlabs += g.Slabs
		summary.TotalSqFt += g.SqFt
	}
	return summary, nil
}

// GetDashboardStats covers the caller's own batches, or all batches for an admin
func (s *dashboardService) GetDashboardStats(sess *session.Session) (*repository.DashboardStats, error) {
	if err := authorize(sess, model.PrivBatchView); err != nil {
		return nil, err
	}
	owner := sess.UserID
	if sess.Role == model.RoleAdmin {
		owner = uuid.Nil
	}
	return s.summaryRepo.OwnerStats(owner)
}

package service

import (
	"fmt"
	"strings"
	"time"

	"go-slab-ws/internal/apperr"
	"go-slab-ws/internal/metrics"
	"go-slab-ws/internal/model"
	"go-slab-ws/internal/repository"
	"go-slab-ws/internal/session"
	"go-slab-ws/internal/ws"
)

type BatchService interface {
	CreateBatch(sess *session.Session, req *CreateBatchRequest) (*model.Batch, error)
	ListBatches(sess *session.Session) ([]model.Batch, error)
	GetBatch(sess *session.Session, ref string) (*model.Batch, error)
	SelectBatch(sess *session.Session, ref string) (*session.Session, error)
}

type CreateBatchRequest struct {
	SupplierName string  `json:"supplier_name" validate:"required,max=255"`
	BatchNumber  string  `json:"batch_number" validate:"required,max=100"`
	Color        string  `json:"color" validate:"required,max=100"`
	Thickness    string  `json:"thickness" validate:"max=50"`
	Date         *string `json:"date"` // Format: YYYY-MM-DD, defaults to today
}

type batchService struct {
	batchRepo repository.BatchRepository
	sessions  *session.Store
	notifier  Notifier
	metrics   *metrics.Metrics
	now       func() time.Time
}

func NewBatchService(batchRepo repository.BatchRepository, sessions *session.Store, notifier Notifier, m *metrics.Metrics) BatchService {
	return &batchService{
		batchRepo: batchRepo,
		sessions:  sessions,
		notifier:  notifier,
		metrics:   m,
		now:       time.Now,
	}
}

func (s *batchService) CreateBatch(sess *session.Session, req *CreateBatchRequest) (*model.Batch, error) {
	if err := authorize(sess, model.PrivBatchCreate); err != nil {
		return nil, err
	}
	req.SupplierName = strings.TrimSpace(req.SupplierName)
	req.BatchNumber = strings.TrimSpace(req.BatchNumber)
	req.Color = strings.TrimSpace(req.Color)
	if err := validate(req); err != nil {
		return nil, err
	}
	if req.BatchNumber == CurrentBatch {
		return nil, apperr.Validation("batch number %q is reserved", CurrentBatch)
	}

	now := s.now()
	date := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if req.Date != nil && *req.Date != "" {
		parsed, err := time.Parse("2006-01-02", *req.Date)
		if err != nil {
			return nil, apperr.Validation("invalid date format, use YYYY-MM-DD")
		}
		date = parsed
	}

	batch := &model.Batch{
		BatchNumber:  req.BatchNumber,
		SupplierName: req.SupplierName,
		Color:        req.Color,
		Thickness:    strings.TrimSpace(req.Thickness),
		UserID:       sess.UserID,
		Date:         date,
	}
	// The existing row is untouched on conflict; the caller re-prompts
	if err := s.batchRepo.Create(batch); err != nil {
		return nil, err
	}

	if _, err := s.sessions.SelectBatch(sess.ID, batch.BatchNumber); err != nil {
		return nil, err
	}

	s.metrics.BatchesCreated.Inc()
	s.notifier.Notify(ws.Event{
		Type:        "batch_update",
		Action:      "batch_created",
		BatchNumber: batch.BatchNumber,
		User:        sess.Username,
		Message:     fmt.Sprintf("%s created batch '%s'", sess.Username, batch.BatchNumber),
	})
	return batch, nil
}

func (s *batchService) ListBatches(sess *session.Session) ([]model.Batch, error) {
	if err := authorize(sess, model.PrivBatchView); err != nil {
		return nil, err
	}
	return s.batchRepo.FindByOwner(sess.UserID)
}

func (s *batchService) GetBatch(sess *session.Session, ref string) (*model.Batch, error) {
	if err := authorize(sess, model.PrivBatchView); err != nil {
		return nil, err
	}
	number, err := resolveBatch(sess, ref)
	if err != nil {
		return nil, err
	}
	batch, err := s.batchRepo.FindWithOwner(number)
	if err != nil {
		return nil, err
	}
	if !canAccess(sess, batch) {
		return nil, apperr.ErrNotFound
	}
	return batch, nil
}

func (s *batchService) SelectBatch(sess *session.Session, ref string) (*session.Session, error) {
	batch, err := s.GetBatch(sess, ref)
	if err != nil {
		return nil, err
	}
	return s.sessions.SelectBatch(sess.ID, batch.BatchNumber)
}

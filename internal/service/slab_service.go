package service

import (
	"fmt"
	"strconv"

	"go-slab-ws/internal/apperr"
	"go-slab-ws/internal/metrics"
	"go-slab-ws/internal/model"
	"go-slab-ws/internal/reconcile"
	"go-slab-ws/internal/repository"
	"go-slab-ws/internal/session"
	"go-slab-ws/internal/ws"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type SlabService interface {
	AddSlab(sess *session.Session, ref string, in *SlabInput) (*model.Slab, error)
	ListSlabs(sess *session.Session, ref string) ([]model.Slab, error)
	Reconcile(sess *session.Session, ref string, rows []SlabInput) (*ReconcileResult, error)

	// Edit buffers; drafts live in the session until committed or logout
	SaveDraft(sess *session.Session, ref string, rows []SlabInput) (*Draft, error)
	GetDraft(sess *session.Session, ref string) (*Draft, error)
	DiscardDraft(sess *session.Session, ref string) error
	CommitDraft(sess *session.Session, ref string) (*ReconcileResult, error)
}

// SlabInput is one row of the entry form or the grid. SqFt is accepted for
// convenience and always recomputed.
type SlabInput struct {
	SlabNumber int64       `json:"slab_number" validate:"gte=1"`
	Length     float64     `json:"length" validate:"gte=0"`
	Width      float64     `json:"width" validate:"gte=0"`
	SqFt       *float64    `json:"sq_ft,omitempty"`
	Grade      model.Grade `json:"grade" validate:"required,grade"`
}

func (in SlabInput) toSlab(batchNumber string) model.Slab {
	s := model.Slab{
		SlabNumber:  in.SlabNumber,
		Length:      in.Length,
		Width:       in.Width,
		Grade:       in.Grade,
		BatchNumber: batchNumber,
	}
	s.SqFt = s.Area()
	return s
}

type slabRows struct {
	Slabs []SlabInput `validate:"dive"`
}

type ReconcileResult struct {
	BatchNumber string       `json:"batch_number"`
	Deleted     []int64      `json:"deleted"`
	Upserted    []model.Slab `json:"upserted"`
}

type Draft struct {
	BatchNumber string       `json:"batch_number"`
	Pending     bool         `json:"pending"` // false: rows are the stored slabs
	Slabs       []model.Slab `json:"slabs"`
}

type slabService struct {
	db        *gorm.DB
	batchRepo repository.BatchRepository
	slabRepo  repository.SlabRepository
	sessions  *session.Store
	notifier  Notifier
	metrics   *metrics.Metrics
	log       *zap.Logger
}

func NewSlabService(db *gorm.DB, bRepo repository.BatchRepository, sRepo repository.SlabRepository, sessions *session.Store, notifier Notifier, m *metrics.Metrics, log *zap.Logger) SlabService {
	return &slabService{
		db:        db,
		batchRepo: bRepo,
		slabRepo:  sRepo,
		sessions:  sessions,
		notifier:  notifier,
		metrics:   m,
		log:       log,
	}
}

// accessibleBatch resolves ref and checks the session may use the batch
func (s *slabService) accessibleBatch(sess *session.Session, ref string) (*model.Batch, error) {
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
	return batch, nil
}

func (s *slabService) AddSlab(sess *session.Session, ref string, in *SlabInput) (*model.Slab, error) {
	if err := authorize(sess, model.PrivSlabWrite); err != nil {
		return nil, err
	}
	if err := validate(in); err != nil {
		return nil, err
	}
	batch, err := s.accessibleBatch(sess, ref)
	if err != nil {
		return nil, err
	}

	slab := in.toSlab(batch.BatchNumber)
	// slab_number is unique across all batches; a taken number is a ConflictError
	if err := s.slabRepo.Create(&slab); err != nil {
		return nil, err
	}

	s.metrics.SlabsAdded.Inc()
	s.notifier.Notify(ws.Event{
		Type:        "slab_update",
		Action:      "slab_added",
		BatchNumber: batch.BatchNumber,
		User:        sess.Username,
		Message:     fmt.Sprintf("%s added slab %d to batch '%s'", sess.Username, slab.SlabNumber, batch.BatchNumber),
		Data:        slab,
	})
	return &slab, nil
}

func (s *slabService) ListSlabs(sess *session.Session, ref string) ([]model.Slab, error) {
	if err := authorize(sess, model.PrivSlabView); err != nil {
		return nil, err
	}
	batch, err := s.accessibleBatch(sess, ref)
	if err != nil {
		return nil, err
	}
	return s.slabRepo.FindByBatch(batch.BatchNumber)
}

// Reconcile converges the stored slabs of a batch to rows in one
// transaction: stored rows absent from rows are deleted, every row is
// upserted. The batch row is locked for the duration, so concurrent
// reconciliations of one batch run one after the other; the later one wins.
func (s *slabService) Reconcile(sess *session.Session, ref string, rows []SlabInput) (*ReconcileResult, error) {
	result, err := s.reconcile(sess, ref, rows)
	if err != nil {
		s.metrics.Reconciliations.WithLabelValues(resultLabel(err)).Inc()
		return nil, err
	}
	s.metrics.Reconciliations.WithLabelValues("ok").Inc()
	s.metrics.SlabsDeleted.Add(float64(len(result.Deleted)))
	s.metrics.SlabsUpserted.Add(float64(len(result.Upserted)))

	s.log.Info("slabs reconciled",
		zap.String("batch_number", result.BatchNumber),
		zap.String("user", sess.Username),
		zap.Int("deleted", len(result.Deleted)),
		zap.Int("upserted", len(result.Upserted)),
	)
	s.notifier.Notify(ws.Event{
		Type:        "slab_update",
		Action:      "slabs_reconciled",
		BatchNumber: result.BatchNumber,
		User:        sess.Username,
		Message:     fmt.Sprintf("%s saved %d slabs in batch '%s'", sess.Username, len(result.Upserted), result.BatchNumber),
		Data:        map[string]interface{}{"deleted": result.Deleted, "upserted": len(result.Upserted)},
	})
	return result, nil
}

func (s *slabService) reconcile(sess *session.Session, ref string, rows []SlabInput) (*ReconcileResult, error) {
	if err := authorize(sess, model.PrivSlabWrite); err != nil {
		return nil, err
	}
	if err := validate(&slabRows{Slabs: rows}); err != nil {
		return nil, err
	}
	number, err := resolveBatch(sess, ref)
	if err != nil {
		return nil, err
	}

	edited := make([]model.Slab, len(rows))
	for i, in := range rows {
		edited[i] = in.toSlab(number)
	}
	// Rejected before the transaction opens: nothing is written
	if err := reconcile.Validate(edited); err != nil {
		return nil, err
	}

	var plan *reconcile.Plan
	err = s.db.Transaction(func(tx *gorm.DB) error {
		batches := s.batchRepo.WithTx(tx)
		slabs := s.slabRepo.WithTx(tx)

		batch, err := batches.LockForUpdate(number)
		if err != nil {
			return err
		}
		if !canAccess(sess, batch) {
			return apperr.ErrNotFound
		}

		stored, err := slabs.FindByBatch(number)
		if err != nil {
			return err
		}
		plan, err = reconcile.Build(number, stored, edited)
		if err != nil {
			return err
		}

		// The upsert is keyed on slab_number alone; refuse to touch another batch's slab
		foreign, err := slabs.FindOutsideBatch(number, plan.UpsertNumbers())
		if err != nil {
			return err
		}
		if len(foreign) > 0 {
			return &apperr.ConflictError{
				Field: "slab_number",
				Value: strconv.FormatInt(foreign[0].SlabNumber, 10),
			}
		}

		if _, err := slabs.DeleteNumbers(number, plan.Deletes); err != nil {
			return err
		}
		return slabs.Upsert(plan.Upserts)
	})
	if err != nil {
		return nil, err
	}

	return &ReconcileResult{
		BatchNumber: plan.BatchNumber,
		Deleted:     plan.Deletes,
		Upserted:    plan.Upserts,
	}, nil
}

func resultLabel(err error) string {
	switch {
	case apperr.IsValidation(err):
		return "invalid"
	case apperr.IsConflict(err):
		return "conflict"
	default:
		return "error"
	}
}

func (s *slabService) SaveDraft(sess *session.Session, ref string, rows []SlabInput) (*Draft, error) {
	if err := authorize(sess, model.PrivSlabWrite); err != nil {
		return nil, err
	}
	if err := validate(&slabRows{Slabs: rows}); err != nil {
		return nil, err
	}
	batch, err := s.accessibleBatch(sess, ref)
	if err != nil {
		return nil, err
	}

	edited := make([]model.Slab, len(rows))
	for i, in := range rows {
		edited[i] = in.toSlab(batch.BatchNumber)
	}
	if _, err := s.sessions.SetDraft(sess.ID, batch.BatchNumber, edited); err != nil {
		return nil, err
	}
	return &Draft{BatchNumber: batch.BatchNumber, Pending: true, Slabs: edited}, nil
}

// GetDraft returns the pending edit buffer, or the stored slabs when there is none
func (s *slabService) GetDraft(sess *session.Session, ref string) (*Draft, error) {
	if err := authorize(sess, model.PrivSlabWrite); err != nil {
		return nil, err
	}
	batch, err := s.accessibleBatch(sess, ref)
	if err != nil {
		return nil, err
	}
	rows, ok, err := s.sessions.Draft(sess.ID, batch.BatchNumber)
	if err != nil {
		return nil, err
	}
	if ok {
		return &Draft{BatchNumber: batch.BatchNumber, Pending: true, Slabs: rows}, nil
	}
	stored, err := s.slabRepo.FindByBatch(batch.BatchNumber)
	if err != nil {
		return nil, err
	}
	return &Draft{BatchNumber: batch.BatchNumber, Slabs: stored}, nil
}

func (s *slabService) DiscardDraft(sess *session.Session, ref string) error {
	if err := authorize(sess, model.PrivSlabWrite); err != nil {
		return err
	}
	number, err := resolveBatch(sess, ref)
	if err != nil {
		return err
	}
	return s.sessions.ClearDraft(sess.ID, number)
}

func (s *slabService) CommitDraft(sess *session.Session, ref string) (*ReconcileResult, error) {
	if err := authorize(sess, model.PrivSlabWrite); err != nil {
		return nil, err
	}
	number, err := resolveBatch(sess, ref)
	if err != nil {
		return nil, err
	}
	rows, ok, err := s.sessions.Draft(sess.ID, number)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.Validation("no pending edits for batch %s", number)
	}

	inputs := make([]SlabInput, len(rows))
	for i, r := range rows {
		inputs[i] = SlabInput{SlabNumber: r.SlabNumber, Length: r.Length, Width: r.Width, Grade: r.Grade}
	}
	result, err := s.Reconcile(sess, number, inputs)
	if err != nil {
		// the buffer survives a failed commit so the user can fix it
		return nil, err
	}
	if err := s.sessions.ClearDraft(sess.ID, number); err != nil {
		return nil, err
	}
	return result, nil
}

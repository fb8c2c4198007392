package service

import (
	"fmt"
	"strings"

	"go-slab-ws/internal/apperr"
	"go-slab-ws/internal/model"
	"go-slab-ws/internal/session"
	"go-slab-ws/internal/ws"
	"go-slab-ws/pkg/validator"
)

// CurrentBatch is the batch reference that resolves to the session's active batch
const CurrentBatch = "current"

// Notifier receives change events after successful writes
type Notifier interface {
	Notify(ev ws.Event)
}

type NopNotifier struct{}

func (NopNotifier) Notify(ws.Event) {}

// authorize is called first thing in every privileged operation
func authorize(sess *session.Session, p model.Privilege) error {
	if sess == nil {
		return fmt.Errorf("%w: no session", apperr.ErrForbidden)
	}
	if !sess.Can(p) {
		return fmt.Errorf("%w: requires '%s' privilege", apperr.ErrForbidden, p)
	}
	return nil
}

// canAccess: owners see their batches, admins see all of them
func canAccess(sess *session.Session, batch *model.Batch) bool {
	return batch.OwnedBy(sess.UserID) || sess.Role == model.RoleAdmin
}

// resolveBatch turns a path reference into a batch number
func resolveBatch(sess *session.Session, ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == CurrentBatch {
		if sess.SelectedBatch == "" {
			return "", apperr.Validation("no batch selected")
		}
		return sess.SelectedBatch, nil
	}
	if ref == "" {
		return "", apperr.Validation("batch number is required")
	}
	return ref, nil
}

func validate(req interface{}) error {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return &apperr.ValidationError{Msg: validator.Message(errs)}
	}
	return nil
}

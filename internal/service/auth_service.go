package service

import (
	"errors"
	"sync"

	"go-slab-ws/internal/apperr"
	"go-slab-ws/internal/metrics"
	"go-slab-ws/internal/model"
	"go-slab-ws/internal/repository"
	"go-slab-ws/internal/session"
	"go-slab-ws/pkg/jwt"

	"go.uber.org/zap"
)

type AuthService interface {
	Login(username, password string) (*LoginResponse, error)
	Logout(sess *session.Session)
	ResetPassword(username, oldPassword, newPassword string) error
}

type LoginResponse struct {
	Token      string             `json:"token"`
	User       model.UserResponse `json:"user"`
	Session    *session.Session   `json:"session"`
	Privileges []string           `json:"privileges"`
}

type ResetPasswordRequest struct {
	Username    string `json:"username" validate:"required"`
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=6"`
}

type authService struct {
	userRepo repository.UserRepository
	sessions *session.Store
	tokens   *jwt.Manager
	metrics  *metrics.Metrics
	log      *zap.Logger
	// checkMissing burns one bcrypt comparison for an unknown username
	checkMissing func(password string)
}

var (
	decoyOnce sync.Once
	decoy     model.User
)

// compareDecoy costs the same as checking a real account's password
func compareDecoy(password string) {
	decoyOnce.Do(func() { _ = decoy.SetPassword("decoy-password-never-matches") })
	decoy.CheckPassword(password)
}

func NewAuthService(userRepo repository.UserRepository, sessions *session.Store, tokens *jwt.Manager, m *metrics.Metrics, log *zap.Logger) AuthService {
	return &authService{
		userRepo: userRepo,
		sessions: sessions,
		tokens:   tokens,
		metrics:  m,
		log:      log,

		checkMissing: compareDecoy,
	}
}

// verify resolves the user or fails with AuthError. Store failures other
// than "no such user" are passed through so they surface as connectivity
// errors rather than bad credentials. An unknown username still pays for a
// hash comparison so response time does not reveal which names exist.
func (s *authService) verify(username, password string) (*model.User, error) {
	user, err := s.userRepo.FindByUsername(username)
	if errors.Is(err, apperr.ErrNotFound) {
		s.checkMissing(password)
		return nil, apperr.AuthError{}
	}
	if err != nil {
		return nil, err
	}
	if !user.CheckPassword(password) {
		return nil, apperr.AuthError{}
	}
	return user, nil
}

func (s *authService) Login(username, password string) (*LoginResponse, error) {
	user, err := s.verify(username, password)
	if err != nil {
		result := "error"
		if apperr.IsAuth(err) {
			result = "invalid"
			s.log.Info("login rejected", zap.String("username", username))
		}
		s.metrics.Logins.WithLabelValues(result).Inc()
		return nil, err
	}

	sess := s.sessions.Create(user)
	token, err := s.tokens.GenerateToken(user.ID, user.Username, user.Role, sess.ID)
	if err != nil {
		s.sessions.Delete(sess.ID)
		s.metrics.Logins.WithLabelValues("error").Inc()
		return nil, errors.New("failed to generate token")
	}

	s.metrics.Logins.WithLabelValues("ok").Inc()
	return &LoginResponse{
		Token:      token,
		User:       user.ToResponse(),
		Session:    sess,
		Privileges: user.Role.Privileges(),
	}, nil
}

// Logout drops the session together with its selected batch and drafts
func (s *authService) Logout(sess *session.Session) {
	if sess == nil {
		return
	}
	s.sessions.Delete(sess.ID)
}

func (s *authService) ResetPassword(username, oldPassword, newPassword string) error {
	req := ResetPasswordRequest{Username: username, OldPassword: oldPassword, NewPassword: newPassword}
	if err := validate(&req); err != nil {
		return err
	}

	user, err := s.verify(username, oldPassword)
	if err != nil {
		return err
	}

	if err := user.SetPassword(newPassword); err != nil {
		return errors.New("failed to hash new password")
	}
	if err := s.userRepo.UpdatePassword(user.Username, user.PasswordHash); err != nil {
		return err
	}

	// Existing tokens die with their sessions
	s.sessions.DeleteByUser(user.ID)
	return nil
}

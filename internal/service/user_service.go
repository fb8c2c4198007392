package service

import (
	"errors"
	"strings"

	"go-slab-ws/internal/apperr"
	"go-slab-ws/internal/model"
	"go-slab-ws/internal/repository"
	"go-slab-ws/internal/session"
)

type UserService interface {
	CreateUser(sess *session.Session, req *CreateUserRequest) (*model.User, error)
	GetAllUsers(sess *session.Session) ([]model.UserResponse, error)
	// SetPassword is the operator reset; it needs no session.
	SetPassword(username, password string) error
	// EnsureAdmin creates an admin account unless username already exists
	EnsureAdmin(username, password string) (bool, error)
}

type CreateUserRequest struct {
	Username string     `json:"username" validate:"required,min=3,max=100"`
	Password string     `json:"password" validate:"required,min=6"`
	Role     model.Role `json:"role" validate:"required,role"`
}

type userService struct {
	userRepo repository.UserRepository
	sessions *session.Store
}

func NewUserService(userRepo repository.UserRepository, sessions *session.Store) UserService {
	return &userService{
		userRepo: userRepo,
		sessions: sessions,
	}
}

func (s *userService) CreateUser(sess *session.Session, req *CreateUserRequest) (*model.User, error) {
	if err := authorize(sess, model.PrivUserCreate); err != nil {
		return nil, err
	}
	req.Username = strings.TrimSpace(req.Username)
	if err := validate(req); err != nil {
		return nil, err
	}
	return s.create(req.Username, req.Password, req.Role)
}

func (s *userService) create(username, password string, role model.Role) (*model.User, error) {
	user := &model.User{
		Username: username,
		Role:     role,
	}
	if err := user.SetPassword(password); err != nil {
		return nil, errors.New("failed to hash password")
	}

	// A duplicate username comes back from the store as a ConflictError
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) GetAllUsers(sess *session.Session) ([]model.UserResponse, error) {
	if err := authorize(sess, model.PrivUserView); err != nil {
		return nil, err
	}
	users, err := s.userRepo.FindAll()
	if err != nil {
		return nil, err
	}

	responses := make([]model.UserResponse, len(users))
	for i, user := range users {
		responses[i] = user.ToResponse()
	}
	return responses, nil
}

func (s *userService) SetPassword(username, password string) error {
	if len(password) < 6 {
		return apperr.Validation("password must be at least 6 characters")
	}
	user, err := s.userRepo.FindByUsername(username)
	if err != nil {
		return err
	}
	if err := user.SetPassword(password); err != nil {
		return errors.New("failed to hash password")
	}
	if err := s.userRepo.UpdatePassword(username, user.PasswordHash); err != nil {
		return err
	}
	s.sessions.DeleteByUser(user.ID)
	return nil
}

func (s *userService) EnsureAdmin(username, password string) (bool, error) {
	_, err := s.userRepo.FindByUsername(username)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, apperr.ErrNotFound) {
		return false, err
	}
	if len(password) < 6 {
		return false, apperr.Validation("admin password must be at least 6 characters")
	}
	if _, err := s.create(username, password, model.RoleAdmin); err != nil {
		return false, err
	}
	return true, nil
}

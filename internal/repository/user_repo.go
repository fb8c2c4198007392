package repository

import (
	"go-slab-ws/internal/apperr"
	"go-slab-ws/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepository interface {
	FindByUsername(username string) (*model.User, error)
	FindByID(id uuid.UUID) (*model.User, error)
	Create(user *model.User) error
	UpdatePassword(username, hashedPassword string) error
	FindAll() ([]model.User, error)
}

type userRepo struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) UserRepository {
	return &userRepo{db}
}

func (r *userRepo) FindByUsername(username string) (*model.User, error) {
	var user model.User
	if err := r.db.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, translate(err, "username", username)
	}
	return &user, nil
}

func (r *userRepo) FindByID(id uuid.UUID) (*model.User, error) {
	var user model.User
	if err := r.db.First(&user, "id = ?", id).Error; err != nil {
		return nil, translate(err, "id", id.String())
	}
	return &user, nil
}

func (r *userRepo) Create(user *model.User) error {
	return translate(r.db.Create(user).Error, "username", user.Username)
}

func (r *userRepo) UpdatePassword(username, hashedPassword string) error {
	res := r.db.Model(&model.User{}).Where("username = ?", username).Update("password_hash", hashedPassword)
	if res.Error != nil {
		return translate(res.Error, "username", username)
	}
	if res.RowsAffected == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func (r *userRepo) FindAll() ([]model.User, error) {
	var users []model.User
	if err := r.db.Order("username ASC").Find(&users).Error; err != nil {
		return nil, translate(err, "", "")
	}
	return users, nil
}

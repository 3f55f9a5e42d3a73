package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/newscheck/internal/model"
)

var ErrUserNotFound = errors.New("user not found")

type UserRepository interface {
	// Upsert creates or updates the row keyed on firebase_uid and returns
	// the persisted state.
	Upsert(ctx context.Context, u *model.User) (*model.User, error)
	GetByUID(ctx context.Context, firebaseUID string) (*model.User, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository { return &userRepository{db: db} }

func (r *userRepository) Upsert(ctx context.Context, u *model.User) (*model.User, error) {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	u.Email = strings.ToLower(u.Email)

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "firebase_uid"}},
		DoUpdates: clause.AssignmentColumns([]string{"email", "display_name", "photo_url", "updated_at"}),
	}).Create(u).Error
	if err != nil {
		return nil, err
	}
	// Re-read so the caller sees the surviving row's id and timestamps
	// when the insert hit the conflict path.
	return r.GetByUID(ctx, u.FirebaseUID)
}

func (r *userRepository) GetByUID(ctx context.Context, firebaseUID string) (*model.User, error) {
	var u model.User
	err := r.db.WithContext(ctx).Where("firebase_uid = ?", firebaseUID).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

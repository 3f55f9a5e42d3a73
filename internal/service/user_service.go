package service

import (
	"context"
	"errors"

	"github.com/d60-Lab/newscheck/internal/auth"
	"github.com/d60-Lab/newscheck/internal/model"
	"github.com/d60-Lab/newscheck/internal/repository"
)

// UserService maintains the local profile mirror of externally verified
// identities. Email always comes from the verified token, never the body.
type UserService interface {
	UpsertProfile(ctx context.Context, uc *auth.UserContext, displayName, photoURL string) (*model.User, error)
	GetProfile(ctx context.Context, firebaseUID string) (*model.User, error)
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) UpsertProfile(ctx context.Context, uc *auth.UserContext, displayName, photoURL string) (*model.User, error) {
	u := &model.User{
		FirebaseUID: uc.UID,
		Email:       uc.Email,
		DisplayName: displayName,
		PhotoURL:    photoURL,
	}
	return s.userRepo.Upsert(ctx, u)
}

func (s *userService) GetProfile(ctx context.Context, firebaseUID string) (*model.User, error) {
	u, err := s.userRepo.GetByUID(ctx, firebaseUID)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

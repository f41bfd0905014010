package service

import (
	"context"

	"github.com/aliskhannn/uniportal/internal/domain/entities"
)

type UserService struct {
	repository UserRepository
}

func NewUserService(repository UserRepository) *UserService {
	return &UserService{repository: repository}
}

// EnsureUser registers the user or refreshes the stored profile.
func (s *UserService) EnsureUser(ctx context.Context, userID, chatID int64, firstName, username string) error {
	user := entities.NewUser(userID, chatID, firstName, username)

	_, err := s.repository.Save(ctx, user)
	return err
}

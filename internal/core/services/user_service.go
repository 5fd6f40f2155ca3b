package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/trakmymedia/internal/apperrors"
	"github.com/SscSPs/trakmymedia/internal/core/domain"
	portsrepo "github.com/SscSPs/trakmymedia/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/trakmymedia/internal/core/ports/services"
)

type userService struct {
	BaseService
	userRepo portsrepo.UserReader
}

func NewUserService(userRepo portsrepo.UserReader) portssvc.UserReaderSvc {
	return &userService{BaseService: newBaseService(nil), userRepo: userRepo}
}

func (s *userService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewNotFoundError(msgUserNotFound)
		}
		s.LogError(ctx, err, "Failed to load user")
		return nil, fmt.Errorf("failed to get user by ID in service: %w", err)
	}
	return user, nil
}

func (s *userService) CountUsers(ctx context.Context) (int64, error) {
	count, err := s.userRepo.CountUsers(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to count users")
		return 0, err
	}
	return count, nil
}

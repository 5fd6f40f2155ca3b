package services_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/SscSPs/trakmymedia/internal/apperrors"
	"github.com/SscSPs/trakmymedia/internal/core/domain"
	"github.com/SscSPs/trakmymedia/internal/core/services"
	"github.com/SscSPs/trakmymedia/internal/repositories/memory"
)

func TestUserService_GetUserByID(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewUserRepository()
	require.NoError(t, repo.SaveUser(ctx, domain.User{UserID: "u1", Email: "ann@example.com", AuthProvider: domain.ProviderGoogle}))
	svc := services.NewUserService(repo)

	user, err := svc.GetUserByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", user.Email)

	_, err = svc.GetUserByID(ctx, "ghost")
	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, http.StatusNotFound, appErr.Code)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestUserService_GetUserByID_StoreFailure(t *testing.T) {
	repo := new(MockUserRepository)
	repo.On("FindUserByID", mock.Anything, "u1").Return(nil, errors.New("connection reset"))

	_, err := services.NewUserService(repo).GetUserByID(context.Background(), "u1")

	var appErr *apperrors.AppError
	assert.Error(t, err)
	assert.False(t, errors.As(err, &appErr))
	repo.AssertExpectations(t)
}

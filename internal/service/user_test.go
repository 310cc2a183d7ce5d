package service_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/emergency_response_system/internal/models"
	"github.com/shenikar/emergency_response_system/internal/service"
	"github.com/shenikar/emergency_response_system/internal/service/mocks"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"
)

func newTestUserService(t *testing.T) (service.UserService, *mocks.MockUserRepository) {
	ctrl := gomock.NewController(t)
	repoMock := mocks.NewMockUserRepository(ctrl)

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})

	return service.NewUserService(repoMock, logger), repoMock
}

func TestSignup_Success(t *testing.T) {
	svc, repoMock := newTestUserService(t)
	ctx := context.Background()
	user := &models.User{
		Name:  "Jane Doe",
		Email: "jane@example.com",
		Phone: "+1-555-1234",
	}

	repoMock.EXPECT().
		Create(ctx, user).
		DoAndReturn(func(_ context.Context, u *models.User) error {
			u.ID = uuid.New()
			u.CreatedAt = time.Now()
			return nil
		}).Times(1)

	err := svc.Signup(ctx, user, "s3cret-pass")

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, user.ID)
	// The stored hash must verify against the original password
	require.NotEmpty(t, user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("s3cret-pass")))
}

func TestSignup_EmailTaken(t *testing.T) {
	svc, repoMock := newTestUserService(t)
	ctx := context.Background()
	user := &models.User{Name: "Jane Doe", Email: "jane@example.com"}

	repoMock.EXPECT().
		Create(ctx, user).
		Return(fmt.Errorf("user with email jane@example.com: %w", service.ErrEmailTaken)).
		Times(1)

	err := svc.Signup(ctx, user, "s3cret-pass")

	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrEmailTaken))
}

func TestSignup_RepositoryError(t *testing.T) {
	svc, repoMock := newTestUserService(t)
	ctx := context.Background()
	user := &models.User{Name: "Jane Doe", Email: "jane@example.com"}

	repoMock.EXPECT().Create(ctx, user).Return(fmt.Errorf("store unreachable")).Times(1)

	err := svc.Signup(ctx, user, "s3cret-pass")

	require.Error(t, err)
	assert.False(t, errors.Is(err, service.ErrEmailTaken))
	assert.ErrorContains(t, err, "could not create user")
}

func TestLogin_Success(t *testing.T) {
	svc, repoMock := newTestUserService(t)
	ctx := context.Background()

	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret-pass"), bcrypt.DefaultCost)
	require.NoError(t, err)

	stored := &models.User{
		ID:           uuid.New(),
		Name:         "Jane Doe",
		Email:        "jane@example.com",
		PasswordHash: string(hash),
	}

	repoMock.EXPECT().GetByEmail(ctx, "jane@example.com").Return(stored, nil).Times(1)
	repoMock.EXPECT().UpdateLastLogin(ctx, stored.ID).Return(nil).Times(1)

	user, err := svc.Login(ctx, "jane@example.com", "s3cret-pass")

	require.NoError(t, err)
	assert.Equal(t, stored, user)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, repoMock := newTestUserService(t)
	ctx := context.Background()

	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret-pass"), bcrypt.DefaultCost)
	require.NoError(t, err)

	stored := &models.User{
		ID:           uuid.New(),
		Email:        "jane@example.com",
		PasswordHash: string(hash),
	}

	repoMock.EXPECT().GetByEmail(ctx, "jane@example.com").Return(stored, nil).Times(1)
	repoMock.EXPECT().UpdateLastLogin(gomock.Any(), gomock.Any()).Times(0)

	user, err := svc.Login(ctx, "jane@example.com", "wrong-pass")

	require.Error(t, err)
	assert.Nil(t, user)
	assert.True(t, errors.Is(err, service.ErrInvalidCredentials))
}

func TestLogin_UnknownEmail(t *testing.T) {
	svc, repoMock := newTestUserService(t)
	ctx := context.Background()

	repoMock.EXPECT().
		GetByEmail(ctx, "nobody@example.com").
		Return(nil, fmt.Errorf("user with email nobody@example.com: %w", service.ErrUserNotFound)).
		Times(1)

	user, err := svc.Login(ctx, "nobody@example.com", "whatever")

	require.Error(t, err)
	assert.Nil(t, user)
	// Unknown email and wrong password are indistinguishable to the caller
	assert.True(t, errors.Is(err, service.ErrInvalidCredentials))
}

func TestLogin_LastLoginUpdateFailureIgnored(t *testing.T) {
	svc, repoMock := newTestUserService(t)
	ctx := context.Background()

	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret-pass"), bcrypt.DefaultCost)
	require.NoError(t, err)

	stored := &models.User{
		ID:           uuid.New(),
		Email:        "jane@example.com",
		PasswordHash: string(hash),
	}

	repoMock.EXPECT().GetByEmail(ctx, "jane@example.com").Return(stored, nil).Times(1)
	repoMock.EXPECT().
		UpdateLastLogin(ctx, stored.ID).
		Return(fmt.Errorf("store unreachable")).
		Times(1)

	user, err := svc.Login(ctx, "jane@example.com", "s3cret-pass")

	require.NoError(t, err)
	assert.Equal(t, stored, user)
}

func TestListUsers_Success(t *testing.T) {
	svc, repoMock := newTestUserService(t)
	ctx := context.Background()
	expected := []*models.User{
		{ID: uuid.New(), Name: "Jane Doe"},
		{ID: uuid.New(), Name: "John Smith"},
	}

	repoMock.EXPECT().List(ctx).Return(expected, nil).Times(1)

	users, err := svc.ListUsers(ctx)

	require.NoError(t, err)
	assert.Equal(t, expected, users)
}

func TestListUsers_RepositoryError(t *testing.T) {
	svc, repoMock := newTestUserService(t)
	ctx := context.Background()

	repoMock.EXPECT().List(ctx).Return(nil, fmt.Errorf("store unreachable")).Times(1)

	users, err := svc.ListUsers(ctx)

	require.Error(t, err)
	assert.Nil(t, users)
}

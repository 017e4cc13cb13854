package service

import (
	"context"
	"testing"
	"time"

	"campus-events-api/core/config"
	"campus-events-api/core/errors"
	"campus-events-api/modules/user/dto"
	"campus-events-api/modules/user/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakeUserRepo struct {
	users     map[string]*entity.User
	lastLogin map[uuid.UUID]time.Time
}

func newFakeUserRepo(users ...*entity.User) *fakeUserRepo {
	repo := &fakeUserRepo{
		users:     make(map[string]*entity.User),
		lastLogin: make(map[uuid.UUID]time.Time),
	}
	for _, u := range users {
		repo.users[u.Email] = u
	}
	return repo
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return f.users[email], nil
}

func (f *fakeUserRepo) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	f.lastLogin[id] = at
	return nil
}

func testUser(t *testing.T, email, password string, role entity.Role) *entity.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &entity.User{
		ID:           uuid.New(),
		Email:        email,
		Username:     "tester",
		PasswordHash: string(hash),
		Role:         role,
	}
}

func TestLogin(t *testing.T) {
	if _, ok := config.GetSafe(); !ok {
		_, err := config.Load()
		require.NoError(t, err)
	}

	user := testUser(t, "student@campus.test", "secret123", entity.RoleStudent)
	repo := newFakeUserRepo(user)
	svc := NewUserService(repo)

	t.Run("success", func(t *testing.T) {
		result, appErr := svc.Login(context.Background(), &dto.LoginRequest{
			Email:    "student@campus.test",
			Password: "secret123",
		})
		require.Nil(t, appErr)
		assert.NotEmpty(t, result.AccessToken)
		assert.Equal(t, "student", result.User.Role)
		assert.Contains(t, repo.lastLogin, user.ID)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, appErr := svc.Login(context.Background(), &dto.LoginRequest{
			Email:    "student@campus.test",
			Password: "wrong",
		})
		require.NotNil(t, appErr)
		assert.Equal(t, errors.ErrUnauthorized, appErr.Code)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, appErr := svc.Login(context.Background(), &dto.LoginRequest{
			Email:    "nobody@campus.test",
			Password: "secret123",
		})
		require.NotNil(t, appErr)
		assert.Equal(t, errors.ErrUnauthorized, appErr.Code)
	})
}

func TestGetByID(t *testing.T) {
	user := testUser(t, "organizer@campus.test", "secret123", entity.RoleOrganizer)
	svc := NewUserService(newFakeUserRepo(user))

	found, appErr := svc.GetByID(context.Background(), user.ID)
	require.Nil(t, appErr)
	assert.Equal(t, user.Email, found.Email)

	_, appErr = svc.GetByID(context.Background(), uuid.New())
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrNotFound, appErr.Code)
}

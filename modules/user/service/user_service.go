package service

import (
	"context"
	"time"

	"campus-events-api/core/constants"
	"campus-events-api/core/errors"
	"campus-events-api/core/logger"
	"campus-events-api/core/utils"
	"campus-events-api/modules/user/dto"
	"campus-events-api/modules/user/entity"
	"campus-events-api/modules/user/repository"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// UserService resolves identities and handles login. Everything beyond
// the token handshake (OAuth, profile management) lives outside this core.
type UserService struct {
	repo repository.UserRepositoryInterface
}

type UserServiceInterface interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, *errors.AppError)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.User, *errors.AppError)
}

func NewUserService(repo repository.UserRepositoryInterface) UserServiceInterface {
	return &UserService{repo: repo}
}

func (s *UserService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, *errors.AppError) {
	user, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to look up user", err)
	}
	if user == nil {
		return nil, errors.NewAppError(errors.ErrUnauthorized, "Invalid email or password", nil)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, errors.NewAppError(errors.ErrUnauthorized, "Invalid email or password", nil)
	}

	token, err := utils.GenerateToken(user.ID, user.Email, string(user.Role), constants.ScopeTokenAccess)
	if err != nil {
		logger.Error("UserService:Login:GenerateToken:Error", "error", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to issue token", err)
	}

	if err := s.repo.UpdateLastLogin(ctx, user.ID, time.Now().UTC()); err != nil {
		// Login still succeeds; the timestamp is informational.
		logger.Warn("UserService:Login:UpdateLastLogin:Error", "user_id", user.ID, "error", err)
	}

	return &dto.LoginResponse{
		AccessToken: token,
		User:        toUserResponse(user),
	}, nil
}

func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*entity.User, *errors.AppError) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to look up user", err)
	}
	if user == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "User not found", nil)
	}
	return user, nil
}

func toUserResponse(u *entity.User) dto.UserResponse {
	return dto.UserResponse{
		ID:                u.ID.String(),
		Email:             u.Email,
		Username:          u.Username,
		Role:              string(u.Role),
		ProfilePictureURL: u.ProfilePictureURL,
	}
}

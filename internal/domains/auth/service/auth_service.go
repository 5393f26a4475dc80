package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/agustxnpm/foodflow-sub003/internal/domains/auth/model"
	"github.com/agustxnpm/foodflow-sub003/internal/domains/auth/repository"
	"github.com/agustxnpm/foodflow-sub003/pkg/jwt"
	"github.com/agustxnpm/foodflow-sub003/pkg/logger"
)

type ServiceInterface interface {
	Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error)
	Refresh(ctx context.Context, req *model.RefreshRequest) (*model.LoginResponse, error)
}

type authService struct {
	users repository.UserRepository
	jwt   *jwt.Manager
}

func NewAuthService(users repository.UserRepository, jwtManager *jwt.Manager) ServiceInterface {
	return &authService{users: users, jwt: jwtManager}
}

// Login verifies credentials and issues a tenant-scoped token pair.
// Unknown email and wrong password collapse into the same error so the
// endpoint never leaks which accounts exist.
func (s *authService) Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, model.ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return nil, model.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, model.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, model.ErrUserDisabled
	}

	resp, err := s.issueTokens(user)
	if err != nil {
		return nil, err
	}

	if err := s.users.TouchLastLogin(ctx, user.ID, time.Now()); err != nil {
		// Login already succeeded; a failed timestamp update is not worth
		// failing the request over.
		logger.Warn().Err(err).Str("user_id", user.ID.String()).Msg("failed to record last login")
	}

	logger.Info("user logged in", map[string]interface{}{
		"user_id":   user.ID,
		"tenant_id": user.TenantID,
	})
	return resp, nil
}

// Refresh exchanges a valid refresh token for a fresh pair.
func (s *authService) Refresh(ctx context.Context, req *model.RefreshRequest) (*model.LoginResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, model.ErrInvalidCredentials
	}

	claims, err := s.jwt.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		return nil, model.ErrInvalidCredentials
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, model.ErrInvalidCredentials
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return nil, model.ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, model.ErrUserDisabled
	}

	return s.issueTokens(user)
}

func (s *authService) issueTokens(user *model.User) (*model.LoginResponse, error) {
	access, err := s.jwt.GenerateAccessToken(user.ID.String(), user.TenantID.String(), user.Email, user.Role)
	if err != nil {
		return nil, err
	}
	refresh, err := s.jwt.GenerateRefreshToken(user.ID.String(), user.TenantID.String())
	if err != nil {
		return nil, err
	}
	return &model.LoginResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		User:         *user,
	}, nil
}

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"blog-admin/internal/apperrors"
	"blog-admin/internal/jwt"
	"blog-admin/internal/models"
	"blog-admin/internal/repository"
)

// AuthService defines the interface for authentication business logic
type AuthService interface {
	Verify(ctx context.Context, email, password string) (*models.Identity, error)
	Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error)
	Session(ctx context.Context, token string) (*models.SessionResponse, error)
}

type authService struct {
	userRepo   repository.UserRepository
	jwtService *jwt.JWTService
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo repository.UserRepository, jwtService *jwt.JWTService) AuthService {
	return &authService{
		userRepo:   userRepo,
		jwtService: jwtService,
	}
}

// Verify checks an email and password pair against the user store.
// Unknown email and wrong password fail with the same error.
func (s *authService) Verify(ctx context.Context, email, password string) (*models.Identity, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, apperrors.ErrInvalidCredentials
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, apperrors.ErrInvalidCredentials
	}
	if err != nil {
		return nil, apperrors.Upstream("find user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}

	return &models.Identity{ID: user.ID, Email: user.Email}, nil
}

// Login verifies credentials and issues a session token
func (s *authService) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	identity, err := s.Verify(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidCredentials) {
			logrus.WithField("email", req.Email).Info("login rejected")
		}
		return nil, err
	}

	token, expiresAt, err := s.jwtService.GenerateToken(identity.ID, identity.Email)
	if err != nil {
		return nil, apperrors.Upstream("issue session", fmt.Errorf("failed to generate token: %w", err))
	}

	logrus.WithField("user_id", identity.ID).Info("user logged in")
	return &models.LoginResponse{
		User:      *identity,
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}

// Session validates a token and returns the identity it carries.
// The user must still exist; a deleted account invalidates its sessions.
func (s *authService) Session(ctx context.Context, token string) (*models.SessionResponse, error) {
	claims, err := s.jwtService.ValidateToken(token)
	if err != nil {
		return nil, apperrors.ErrUnauthenticated
	}

	user, err := s.userRepo.FindByID(ctx, claims.Subject)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, apperrors.ErrUnauthenticated
	}
	if err != nil {
		return nil, apperrors.Upstream("find user", err)
	}

	var expiresAt time.Time
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	return &models.SessionResponse{
		User:      models.Identity{ID: user.ID, Email: user.Email},
		ExpiresAt: expiresAt.UTC(),
	}, nil
}

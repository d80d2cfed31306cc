package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gator.dev/studygator/internal/entity"
	"gator.dev/studygator/internal/modules/user/dto"
	"gator.dev/studygator/internal/modules/user/repository"
	"gator.dev/studygator/pkg/apperror"
	"gator.dev/studygator/pkg/token"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var errInvalidCredentials = fmt.Errorf("invalid credentials: %w", apperror.ErrUnauthorized)

type AuthService interface {
	Register(ctx context.Context, input dto.RegisterInput) (*dto.UserResponse, error)
	Login(ctx context.Context, input dto.LoginInput) (*dto.LoginResponse, error)
	GetByUsername(ctx context.Context, username string) (*dto.UserResponse, error)
}

type authService struct {
	repo      repository.UserRepository
	issuer    token.Issuer
	domain    string
	hashCost  int
	dummyHash []byte
	logger    *zap.Logger
}

func NewAuthService(repo repository.UserRepository, issuer token.Issuer, domain string, logger *zap.Logger) AuthService {
	return newAuthService(repo, issuer, domain, bcrypt.DefaultCost, logger)
}

func newAuthService(repo repository.UserRepository, issuer token.Issuer, domain string, cost int, logger *zap.Logger) *authService {
	// Compared against on unknown emails so both failure paths cost one bcrypt run.
	dummy, _ := bcrypt.GenerateFromPassword([]byte("studygator-dummy-password"), cost)

	return &authService{
		repo:      repo,
		issuer:    issuer,
		domain:    strings.ToLower(strings.TrimPrefix(domain, "@")),
		hashCost:  cost,
		dummyHash: dummy,
		logger:    logger,
	}
}

func (s *authService) Register(ctx context.Context, input dto.RegisterInput) (*dto.UserResponse, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("name is required: %w", apperror.ErrBadRequest)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.hashCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &entity.User{
		Name:     name,
		Email:    normalizeEmail(input.Email),
		Password: string(hashed),
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user registered", zap.Uint("user_id", user.ID))

	return toUserResponse(user), nil
}

func (s *authService) Login(ctx context.Context, input dto.LoginInput) (*dto.LoginResponse, error) {
	user, err := s.repo.FindByEmail(ctx, normalizeEmail(input.Email))
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(input.Password))
			return nil, errInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		return nil, errInvalidCredentials
	}

	signed, expiresAt, err := s.issuer.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	return &dto.LoginResponse{
		Token:     signed,
		ExpiresAt: expiresAt.Unix(),
	}, nil
}

// GetByUsername looks a user up by the local part of their institutional email.
func (s *authService) GetByUsername(ctx context.Context, username string) (*dto.UserResponse, error) {
	username = strings.TrimSpace(username)
	if username == "" || strings.ContainsAny(username, "@ \t") {
		return nil, fmt.Errorf("user not found: %w", apperror.ErrNotFound)
	}

	user, err := s.repo.FindByEmail(ctx, normalizeEmail(username+"@"+s.domain))
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, fmt.Errorf("user not found: %w", apperror.ErrNotFound)
		}
		return nil, err
	}

	return toUserResponse(user), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func toUserResponse(user *entity.User) *dto.UserResponse {
	return &dto.UserResponse{
		ID:      user.ID,
		Name:    user.Name,
		Email:   user.Email,
		Created: user.Created,
	}
}

package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"event-share/internal/auth"
	"event-share/internal/metrics"
	"event-share/internal/model"
	"event-share/internal/util"
	"event-share/pkg/apierror"
)

const maxPasswordBytes = 72

// UserStore is the credential store the auth service reads and writes.
type UserStore interface {
	Create(ctx context.Context, username string, email string, passwordHash string) (model.User, error)
	FindByID(ctx context.Context, id string) (model.User, error)
	FindByEmail(ctx context.Context, email string) (model.User, error)
	List(ctx context.Context) ([]model.Identity, error)
	BumpTokenVersion(ctx context.Context, id string) (int, error)
}

type AuthService struct {
	users      UserStore
	tokens     *auth.TokenManager
	bcryptCost int
	// dummyHash is compared against when the email is unknown so that both
	// failure paths pay for one bcrypt comparison.
	dummyHash []byte
}

func NewAuthService(users UserStore, tokens *auth.TokenManager, bcryptCost int) (*AuthService, error) {
	if users == nil || tokens == nil {
		return nil, errors.New("auth service requires a user store and a token manager")
	}

	dummy, err := bcrypt.GenerateFromPassword([]byte("event-share:unknown-user"), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("prepare dummy hash: %w", err)
	}

	return &AuthService{users: users, tokens: tokens, bcryptCost: bcryptCost, dummyHash: dummy}, nil
}

func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest) (model.Identity, error) {
	req.Username = util.CleanText(req.Username, false)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	if err := validateRequest(req); err != nil {
		return model.Identity{}, err
	}

	// bcrypt only reads the first 72 bytes; multi-byte runes reach that before 72 characters.
	if len(req.Password) > maxPasswordBytes {
		return model.Identity{}, apierror.New("VALIDATION_ERROR", "password must be at most 72 bytes", "password", http.StatusBadRequest)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return model.Identity{}, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.Create(ctx, req.Username, req.Email, string(hash))
	if errors.Is(err, model.ErrUserAlreadyExists) {
		return model.Identity{}, apierror.New("ALREADY_EXISTS", "username or email already registered", "", http.StatusConflict)
	}
	if err != nil {
		return model.Identity{}, err
	}

	slog.InfoContext(ctx, "user registered", "user_id", user.ID, "username", user.Username)
	return user.Identity(), nil
}

func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (model.LoginResult, error) {
	if err := validateRequest(req); err != nil {
		return model.LoginResult{}, err
	}

	user, err := s.users.FindByEmail(ctx, req.Email)
	if errors.Is(err, model.ErrUserNotFound) {
		_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(req.Password))
		metrics.LoginAttempts.WithLabelValues("failure").Inc()
		return model.LoginResult{}, invalidCredentials()
	}
	if err != nil {
		return model.LoginResult{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		metrics.LoginAttempts.WithLabelValues("failure").Inc()
		return model.LoginResult{}, invalidCredentials()
	}

	token, expiresAt, err := s.tokens.Issue(user.ID, user.TokenVersion)
	if err != nil {
		return model.LoginResult{}, err
	}

	metrics.LoginAttempts.WithLabelValues("success").Inc()
	return model.LoginResult{
		Token:     token,
		UserID:    user.ID,
		Username:  user.Username,
		Email:     user.Email,
		ExpiresAt: expiresAt,
	}, nil
}

// Verify resolves a bearer token to the public profile of its user.
func (s *AuthService) Verify(ctx context.Context, token string) (model.Identity, error) {
	claims, err := s.tokens.Parse(token)
	switch {
	case errors.Is(err, auth.ErrMissingToken):
		return model.Identity{}, apierror.New("UNAUTHORIZED", "access denied, no token provided", "", http.StatusUnauthorized)
	case errors.Is(err, auth.ErrExpiredToken):
		return model.Identity{}, apierror.New("TOKEN_EXPIRED", "token expired", "", http.StatusUnauthorized)
	case err != nil:
		return model.Identity{}, apierror.New("BAD_TOKEN", "invalid token", "", http.StatusBadRequest)
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if errors.Is(err, model.ErrUserNotFound) {
		return model.Identity{}, apierror.New("NOT_FOUND", "user not found", "", http.StatusNotFound)
	}
	if err != nil {
		return model.Identity{}, err
	}

	if claims.TokenVersion != user.TokenVersion {
		return model.Identity{}, apierror.New("TOKEN_REVOKED", "token has been revoked", "", http.StatusUnauthorized)
	}

	return user.Identity(), nil
}

// Logout revokes every token issued to the user so far.
func (s *AuthService) Logout(ctx context.Context, userID string) error {
	_, err := s.users.BumpTokenVersion(ctx, userID)
	if errors.Is(err, model.ErrUserNotFound) {
		return apierror.New("NOT_FOUND", "user not found", "", http.StatusNotFound)
	}
	if err != nil {
		return err
	}

	slog.InfoContext(ctx, "user tokens revoked", "user_id", userID)
	return nil
}

func (s *AuthService) ListUsers(ctx context.Context) ([]model.Identity, error) {
	return s.users.List(ctx)
}

func invalidCredentials() error {
	return apierror.New("UNAUTHORIZED", "invalid credentials", "", http.StatusUnauthorized)
}

package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/Skotchmaster/taskhub/internal/domain"
	"github.com/Skotchmaster/taskhub/internal/hash"
	"github.com/Skotchmaster/taskhub/internal/logging"
	"github.com/Skotchmaster/taskhub/internal/models"
	"github.com/Skotchmaster/taskhub/internal/mykafka"
	"github.com/Skotchmaster/taskhub/internal/tokens"
	"github.com/Skotchmaster/taskhub/internal/transport"
)

type AuthService struct {
	Users  UserDirectory
	Store  *RefreshStore
	Issuer *tokens.Issuer
	Hasher *hash.Hasher
	Events mykafka.Publisher
}

func (s *AuthService) Register(ctx context.Context, req transport.RegisterRequest) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register", "username", req.Username)

	req.Email = strings.TrimSpace(req.Email)
	req.Username = strings.TrimSpace(req.Username)
	if err := validateRegister(req); err != nil {
		l.Warn("register_rejected", "status", 400, "error", err)
		return nil, err
	}

	if _, err := s.Users.FindUserByEmail(ctx, req.Email); err == nil {
		l.Warn("register_rejected", "status", 400, "reason", "email taken")
		return nil, fmt.Errorf("%w: email already registered", domain.ErrConflict)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if _, err := s.Users.FindUserByUsername(ctx, req.Username); err == nil {
		l.Warn("register_rejected", "status", 400, "reason", "username taken")
		return nil, fmt.Errorf("%w: username already taken", domain.ErrConflict)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	pwHash, err := s.Hasher.HashPassword(req.Password)
	if err != nil {
		l.Error("register_error", "status", 500, "reason", "cannot hash the password", "error", err)
		return nil, err
	}

	user := &models.User{
		Email:        req.Email,
		Username:     req.Username,
		FullName:     strings.TrimSpace(req.FullName),
		PasswordHash: pwHash,
		IsActive:     true,
	}
	if err := s.Users.CreateUser(ctx, user); err != nil {
		l.Error("register_error", "status", 500, "error", err)
		return nil, err
	}

	publish(ctx, s.Events, mykafka.TopicUserEvents, strconv.FormatUint(uint64(user.ID), 10), mykafka.Event{
		Type:       mykafka.EventUserRegistered,
		ActorID:    user.ID,
		UserID:     user.ID,
		OccurredAt: s.Issuer.Now(),
	})
	l.Info("register_successful", "user_id", user.ID)
	return user, nil
}

// Login does not tell an unknown username apart from a wrong password.
func (s *AuthService) Login(ctx context.Context, username, password string) (*transport.TokenPair, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login", "username", username)

	user, err := s.Users.FindUserByUsername(ctx, username)
	if errors.Is(err, domain.ErrNotFound) {
		s.Hasher.CheckDecoy(password)
		l.Warn("login_failed", "status", 401, "reason", "unknown user")
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		l.Error("login_failed", "status", 500, "error", err)
		return nil, err
	}

	ok, err := s.Hasher.CheckPassword(user.PasswordHash, password)
	if err != nil {
		l.Error("login_failed", "status", 500, "reason", "stored hash unusable", "error", err)
		return nil, err
	}
	if !ok {
		l.Warn("login_failed", "status", 401, "reason", "wrong password")
		return nil, domain.ErrInvalidCredentials
	}
	if !user.IsActive {
		l.Warn("login_failed", "status", 403, "reason", "inactive")
		return nil, domain.ErrAccountInactive
	}

	pair, err := s.issue(ctx, user)
	if err != nil {
		l.Error("login_failed", "status", 500, "error", err)
		return nil, err
	}
	l.Info("login_successful", "user_id", user.ID)
	return pair, nil
}

// Refresh exchanges a live refresh token for a new pair. The new refresh
// token replaces the old one.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*transport.TokenPair, error) {
	l := logging.FromContext(ctx).With("svc", "auth.refresh")

	user, err := s.Store.ConsumeAndValidate(ctx, refreshToken)
	if err != nil {
		l.Error("refresh_failed", "status", 500, "error", err)
		return nil, err
	}
	if user == nil {
		l.Warn("refresh_failed", "status", 401, "reason", "invalid refresh token")
		return nil, domain.ErrInvalidRefreshToken
	}
	if !user.IsActive {
		l.Warn("refresh_failed", "status", 403, "reason", "inactive", "user_id", user.ID)
		return nil, domain.ErrAccountInactive
	}

	pair, err := s.issue(ctx, user)
	if err != nil {
		l.Error("refresh_failed", "status", 500, "error", err)
		return nil, err
	}
	l.Info("refresh_successful", "user_id", user.ID)
	return pair, nil
}

func (s *AuthService) issue(ctx context.Context, user *models.User) (*transport.TokenPair, error) {
	pair, err := s.Issuer.IssuePair(user.ID)
	if err != nil {
		return nil, fmt.Errorf("issue tokens: %w", err)
	}
	if err := s.Store.Save(ctx, user.ID, pair.RefreshToken, pair.RefreshExp); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}
	return &transport.TokenPair{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    transport.TokenTypeBearer,
	}, nil
}

func validateRegister(req transport.RegisterRequest) error {
	if !strings.Contains(req.Email, "@") || strings.HasPrefix(req.Email, "@") || strings.HasSuffix(req.Email, "@") {
		return fmt.Errorf("%w: invalid email", domain.ErrValidation)
	}
	if n := utf8.RuneCountInString(req.Username); n < 3 || n > 50 {
		return fmt.Errorf("%w: username must be 3 to 50 characters", domain.ErrValidation)
	}
	if utf8.RuneCountInString(req.Password) < 6 {
		return fmt.Errorf("%w: password must be at least 6 characters", domain.ErrValidation)
	}
	return nil
}

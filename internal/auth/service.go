// Package auth covers accounts and sessions: registration, login with a
// signed bearer token, and the per-session anti-forgery token kept in redis.
package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/akzshop/storeapi/internal/cache"
	"github.com/akzshop/storeapi/internal/domain"
	"github.com/akzshop/storeapi/internal/repository"
	"github.com/akzshop/storeapi/internal/validate"
	perrors "github.com/akzshop/storeapi/pkg/errors"
)

const minPasswordLength = 8

// Claims is the JWT payload for a logged-in shopper
type Claims struct {
	jwt.RegisteredClaims
	Username string `json:"username"`
	IsStaff  bool   `json:"is_staff"`
}

// Session is what a successful login returns
type Session struct {
	Token     string       `json:"token"`
	CSRFToken string       `json:"csrf_token"`
	User      *domain.User `json:"user"`
}

type Service struct {
	repos    *repository.Repositories
	sessions cache.SessionStore
	secret   []byte
	tokenTTL time.Duration
	logger   *zap.Logger
}

// NewService creates a new auth service
func NewService(repos *repository.Repositories, sessions cache.SessionStore, secret string, tokenTTL time.Duration, logger *zap.Logger) *Service {
	return &Service{
		repos:    repos,
		sessions: sessions,
		secret:   []byte(secret),
		tokenTTL: tokenTTL,
		logger:   logger,
	}
}

// RegisterInput is the registration form
type RegisterInput struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// Register creates an account and its empty profile
func (s *Service) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	username := strings.TrimSpace(input.Username)
	email := strings.TrimSpace(input.Email)

	if username == "" {
		return nil, &perrors.ErrValidation{Field: "username", Message: "Укажите имя пользователя"}
	}
	if email == "" || !validate.Email(email) {
		return nil, &perrors.ErrValidation{Field: "email", Message: "Укажите корректный email адрес"}
	}
	if len(input.Password) < minPasswordLength {
		return nil, &perrors.ErrValidation{Field: "password", Message: "Пароль должен содержать не менее 8 символов"}
	}

	if _, err := s.repos.User.GetByUsername(ctx, username); err == nil {
		return nil, &perrors.ErrValidation{Field: "username", Message: "Пользователь с таким именем уже существует"}
	}
	if _, err := s.repos.User.GetByEmail(ctx, email); err == nil {
		return nil, &perrors.ErrValidation{Field: "email", Message: "Пользователь с таким email уже существует"}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := &domain.User{
		ID:           uuid.New(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		CreatedAt:    now,
	}
	if err := s.repos.User.Create(ctx, user); err != nil {
		return nil, err
	}

	profile := &domain.Profile{
		UserID:       user.ID,
		Subscription: domain.SubscriptionFree,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repos.Profile.Create(ctx, profile); err != nil {
		s.logger.Warn("Failed to create profile for new user", zap.Error(err))
	}

	s.logger.Info("User registered", zap.String("username", username))
	return user, nil
}

// Login checks credentials and issues a signed token plus a CSRF token.
// An unknown account and a wrong password report different messages, as
// the storefront always has.
func (s *Service) Login(ctx context.Context, username, password string) (*Session, error) {
	user, err := s.repos.User.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		var notFound *perrors.ErrNotFound
		if errors.As(err, &notFound) {
			return nil, &perrors.ErrUnauthorized{Message: "Пользователь с таким именем не найден"}
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, &perrors.ErrUnauthorized{Message: "Неверный пароль"}
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, err
	}

	csrfToken := strings.ReplaceAll(uuid.NewString(), "-", "")
	if err := s.sessions.SetCSRFToken(ctx, user.ID.String(), csrfToken); err != nil {
		return nil, err
	}

	s.logger.Info("User logged in", zap.String("username", user.Username))
	return &Session{Token: token, CSRFToken: csrfToken, User: user}, nil
}

// Logout drops the session state; the bearer token expires on its own
func (s *Service) Logout(ctx context.Context, userID uuid.UUID) error {
	return s.sessions.DeleteSession(ctx, userID.String())
}

// ParseToken validates a bearer token and returns its claims
func (s *Service) ParseToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, &perrors.ErrUnauthorized{Message: "Недействительный токен"}
	}
	return claims, nil
}

// VerifyCSRF compares a submitted anti-forgery token with the stored one
func (s *Service) VerifyCSRF(ctx context.Context, userID uuid.UUID, token string) bool {
	stored, err := s.sessions.GetCSRFToken(ctx, userID.String())
	if err != nil {
		return false
	}
	return token != "" && stored == token
}

func (s *Service) issueToken(user *domain.User) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
		Username: user.Username,
		IsStaff:  user.IsStaff,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/akzshop/storeapi/internal/cache"
	"github.com/akzshop/storeapi/internal/domain"
	"github.com/akzshop/storeapi/internal/repository"
	perrors "github.com/akzshop/storeapi/pkg/errors"
)

type memUserRepo struct {
	byUsername map[string]*domain.User
	byEmail    map[string]*domain.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{
		byUsername: make(map[string]*domain.User),
		byEmail:    make(map[string]*domain.User),
	}
}

func (m *memUserRepo) Create(_ context.Context, user *domain.User) error {
	m.byUsername[user.Username] = user
	m.byEmail[user.Email] = user
	return nil
}

func (m *memUserRepo) Update(context.Context, *domain.User) error { return nil }

func (m *memUserRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	for _, u := range m.byUsername {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, &perrors.ErrNotFound{Resource: "user", ID: id.String()}
}

func (m *memUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	if u, ok := m.byUsername[username]; ok {
		return u, nil
	}
	return nil, &perrors.ErrNotFound{Resource: "user", ID: username}
}

func (m *memUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	if u, ok := m.byEmail[email]; ok {
		return u, nil
	}
	return nil, &perrors.ErrNotFound{Resource: "user", ID: email}
}

type memProfileRepo struct {
	profiles map[uuid.UUID]*domain.Profile
}

func (m *memProfileRepo) GetByUserID(_ context.Context, userID uuid.UUID) (*domain.Profile, error) {
	if p, ok := m.profiles[userID]; ok {
		return p, nil
	}
	return nil, &perrors.ErrNotFound{Resource: "profile", ID: userID.String()}
}

func (m *memProfileRepo) Create(_ context.Context, profile *domain.Profile) error {
	if m.profiles == nil {
		m.profiles = make(map[uuid.UUID]*domain.Profile)
	}
	m.profiles[profile.UserID] = profile
	return nil
}

func (m *memProfileRepo) Update(context.Context, *domain.Profile) error { return nil }

func (m *memProfileRepo) UpdateSubscription(context.Context, uuid.UUID, domain.Subscription, bool) error {
	return nil
}

type memSessions struct {
	csrf map[string]string
}

func (m *memSessions) SetCSRFToken(_ context.Context, userID, token string) error {
	if m.csrf == nil {
		m.csrf = make(map[string]string)
	}
	m.csrf[userID] = token
	return nil
}

func (m *memSessions) GetCSRFToken(_ context.Context, userID string) (string, error) {
	if t, ok := m.csrf[userID]; ok {
		return t, nil
	}
	return "", cache.ErrCacheMiss
}

func (m *memSessions) DeleteSession(_ context.Context, userID string) error {
	delete(m.csrf, userID)
	return nil
}

func (m *memSessions) SetCheckoutStep(context.Context, string, string) error { return nil }

func (m *memSessions) GetCheckoutStep(context.Context, string) (string, error) {
	return "", cache.ErrCacheMiss
}

func newAuthService() (*Service, *memUserRepo, *memProfileRepo, *memSessions) {
	users := newMemUserRepo()
	profiles := &memProfileRepo{}
	sessions := &memSessions{}
	svc := NewService(&repository.Repositories{
		User:    users,
		Profile: profiles,
	}, sessions, "test-secret", time.Hour, zap.NewNop())
	return svc, users, profiles, sessions
}

func register(t *testing.T, svc *Service) *domain.User {
	t.Helper()
	user, err := svc.Register(context.Background(), RegisterInput{
		Username:  "ivan",
		Email:     "ivan@example.com",
		Password:  "strongpass1",
		FirstName: "Иван",
		LastName:  "Иванов",
	})
	require.NoError(t, err)
	return user
}

func TestRegisterCreatesUserAndProfile(t *testing.T) {
	svc, _, profiles, _ := newAuthService()

	user := register(t, svc)
	assert.NotEqual(t, "strongpass1", user.PasswordHash)

	profile, err := profiles.GetByUserID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SubscriptionFree, profile.Subscription)
}

func TestRegisterValidation(t *testing.T) {
	svc, _, _, _ := newAuthService()

	cases := []struct {
		name  string
		input RegisterInput
		field string
	}{
		{"no username", RegisterInput{Email: "a@b.ru", Password: "longenough"}, "username"},
		{"bad email", RegisterInput{Username: "x", Email: "bad", Password: "longenough"}, "email"},
		{"short password", RegisterInput{Username: "x", Email: "a@b.ru", Password: "short"}, "password"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tc.input)
			var verr *perrors.ErrValidation
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tc.field, verr.Field)
		})
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	svc, _, _, _ := newAuthService()
	register(t, svc)

	_, err := svc.Register(context.Background(), RegisterInput{
		Username: "ivan",
		Email:    "other@example.com",
		Password: "strongpass1",
	})
	var verr *perrors.ErrValidation
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "username", verr.Field)
}

func TestLoginIssuesTokens(t *testing.T) {
	svc, _, _, _ := newAuthService()
	user := register(t, svc)

	session, err := svc.Login(context.Background(), "ivan", "strongpass1")
	require.NoError(t, err)
	assert.NotEmpty(t, session.Token)
	assert.NotEmpty(t, session.CSRFToken)

	claims, err := svc.ParseToken(session.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), claims.Subject)
	assert.Equal(t, "ivan", claims.Username)

	assert.True(t, svc.VerifyCSRF(context.Background(), user.ID, session.CSRFToken))
	assert.False(t, svc.VerifyCSRF(context.Background(), user.ID, "forged"))

	require.NoError(t, svc.Logout(context.Background(), user.ID))
	assert.False(t, svc.VerifyCSRF(context.Background(), user.ID, session.CSRFToken))
}

func TestLoginDistinguishesFailures(t *testing.T) {
	svc, _, _, _ := newAuthService()
	register(t, svc)

	_, err := svc.Login(context.Background(), "ghost", "whatever")
	var unauthorized *perrors.ErrUnauthorized
	require.ErrorAs(t, err, &unauthorized)
	assert.Contains(t, unauthorized.Message, "не найден")

	_, err = svc.Login(context.Background(), "ivan", "wrongpass")
	require.ErrorAs(t, err, &unauthorized)
	assert.Contains(t, unauthorized.Message, "Неверный пароль")
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	svc, _, _, _ := newAuthService()

	_, err := svc.ParseToken("not.a.token")
	var unauthorized *perrors.ErrUnauthorized
	require.ErrorAs(t, err, &unauthorized)
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	svc, _, _, _ := newAuthService()
	register(t, svc)

	session, err := svc.Login(context.Background(), "ivan", "strongpass1")
	require.NoError(t, err)

	other := NewService(&repository.Repositories{}, &memSessions{}, "other-secret", time.Hour, zap.NewNop())
	_, err = other.ParseToken(session.Token)
	var unauthorized *perrors.ErrUnauthorized
	require.ErrorAs(t, err, &unauthorized)
}

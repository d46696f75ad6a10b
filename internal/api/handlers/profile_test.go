package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/akzshop/storeapi/internal/api/middleware"
	"github.com/akzshop/storeapi/internal/domain"
	"github.com/akzshop/storeapi/internal/repository"
	perrors "github.com/akzshop/storeapi/pkg/errors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type memUserRepo struct {
	updated *domain.User
}

func (m *memUserRepo) Create(context.Context, *domain.User) error { return nil }

func (m *memUserRepo) Update(_ context.Context, user *domain.User) error {
	cp := *user
	m.updated = &cp
	return nil
}

func (m *memUserRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	return nil, &perrors.ErrNotFound{Resource: "user", ID: id.String()}
}

func (m *memUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	return nil, &perrors.ErrNotFound{Resource: "user", ID: username}
}

func (m *memUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	return nil, &perrors.ErrNotFound{Resource: "user", ID: email}
}

type memProfileRepo struct {
	profile *domain.Profile
	updated *domain.Profile
}

func (m *memProfileRepo) GetByUserID(_ context.Context, userID uuid.UUID) (*domain.Profile, error) {
	if m.profile == nil {
		return nil, &perrors.ErrNotFound{Resource: "profile", ID: userID.String()}
	}
	return m.profile, nil
}

func (m *memProfileRepo) Create(context.Context, *domain.Profile) error { return nil }

func (m *memProfileRepo) Update(_ context.Context, profile *domain.Profile) error {
	m.updated = profile
	return nil
}

func (m *memProfileRepo) UpdateSubscription(context.Context, uuid.UUID, domain.Subscription, bool) error {
	return nil
}

func testRequest(t *testing.T, method, path string, body interface{}, user *domain.User) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	var reader bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&reader).Encode(body))
	}
	c.Request = httptest.NewRequest(method, path, &reader)
	c.Request.Header.Set("Content-Type", "application/json")
	middleware.SetUser(c, user)
	return c, w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestHandleMeIncludesSubscription(t *testing.T) {
	user := &domain.User{ID: uuid.New(), Username: "ivan", Email: "ivan@example.com", FirstName: "Иван", LastName: "Иванов"}
	profiles := &memProfileRepo{profile: &domain.Profile{
		UserID:             user.ID,
		Subscription:       domain.SubscriptionPro,
		SubscriptionActive: true,
	}}
	repos := &repository.Repositories{Profile: profiles}

	c, w := testRequest(t, http.MethodGet, "/v1/auth/me", nil, user)
	HandleMe(repos, zap.NewNop())(c)

	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeBody(t, w)
	assert.Equal(t, true, resp["authenticated"])

	account := resp["user"].(map[string]interface{})
	assert.Equal(t, "ivan", account["username"])
	assert.Equal(t, "Иван Иванов", account["full_name"])

	profile := resp["profile"].(map[string]interface{})
	assert.Equal(t, "pro", profile["subscription"])
	assert.Equal(t, domain.SubscriptionPro.DisplayName(), profile["subscription_display"])
	assert.Equal(t, true, profile["is_premium"])
}

func TestHandleMeWithoutProfileFallsBackToFree(t *testing.T) {
	user := &domain.User{ID: uuid.New(), Username: "ivan"}
	repos := &repository.Repositories{Profile: &memProfileRepo{}}

	c, w := testRequest(t, http.MethodGet, "/v1/auth/me", nil, user)
	HandleMe(repos, zap.NewNop())(c)

	require.Equal(t, http.StatusOK, w.Code)
	profile := decodeBody(t, w)["profile"].(map[string]interface{})
	assert.Equal(t, "free", profile["subscription"])
	assert.Equal(t, false, profile["is_premium"])
}

func TestUpdateProfilePartialNameKeepsOtherField(t *testing.T) {
	user := &domain.User{ID: uuid.New(), Username: "ivan", FirstName: "Иван", LastName: "Иванов"}
	users := &memUserRepo{}
	profiles := &memProfileRepo{profile: &domain.Profile{UserID: user.ID}}
	repos := &repository.Repositories{User: users, Profile: profiles}

	c, w := testRequest(t, http.MethodPut, "/v1/profile", gin.H{"first_name": "Пётр"}, user)
	HandleUpdateProfile(repos, zap.NewNop())(c)

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, users.updated)
	assert.Equal(t, "Пётр", users.updated.FirstName)
	assert.Equal(t, "Иванов", users.updated.LastName)
}

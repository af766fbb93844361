package middleware_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"kriya/internal/apperr"
	"kriya/internal/middleware"
	"kriya/internal/models"
	"kriya/internal/repositories"
	"kriya/internal/services"
	"kriya/internal/session"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// flakyStore fails session reads once down is set.
type flakyStore struct {
	*session.MemoryStore
	down atomic.Bool
}

func (s *flakyStore) Get(ctx context.Context, token string) (*session.Session, error) {
	if s.down.Load() {
		return nil, apperr.Storage(errors.New("dial tcp 10.0.0.5:6379: connect: connection refused"), "failed to load session")
	}
	return s.MemoryStore.Get(ctx, token)
}

func setup(t *testing.T) (*fiber.App, *flakyStore, string) {
	t.Helper()
	ctx := context.Background()
	log := zap.NewNop()
	store := &flakyStore{MemoryStore: session.NewMemoryStore()}
	auth := services.NewAuthService(repositories.NewMockUserRepository(), store, "test_jwt_secret", time.Hour, log)

	_, err := auth.Register(ctx, services.RegisterInput{
		Email: "buyer@example.com", Name: "Buyer", Password: "password123", Role: models.RoleBuyer,
	})
	require.NoError(t, err)
	token, _, err := auth.Login(ctx, "buyer@example.com", "password123")
	require.NoError(t, err)

	app := fiber.New()
	app.Get("/me", middleware.AuthRequired(auth, log), func(c *fiber.Ctx) error {
		sess := c.Locals(middleware.LocalsSession).(*session.Session)
		return c.JSON(fiber.Map{"user_id": sess.UserID})
	})
	return app, store, token
}

func get(t *testing.T, app *fiber.App, token string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))
	return resp.StatusCode, body
}

func TestAuthRequired(t *testing.T) {
	app, _, token := setup(t)

	status, body := get(t, app, token)
	assert.Equal(t, http.StatusOK, status)
	assert.NotEmpty(t, body["user_id"])

	status, _ = get(t, app, "")
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = get(t, app, "not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestAuthRequired_StoreFailureHidesCause(t *testing.T) {
	app, store, token := setup(t)
	store.down.Store(true)

	status, body := get(t, app, token)
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "STORAGE_FAILED", body["error"])
	assert.NotContains(t, body["error"], "10.0.0.5")
}

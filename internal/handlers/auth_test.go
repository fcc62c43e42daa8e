package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/example/agenda/internal/auth"
	"github.com/example/agenda/internal/handlers"
	"github.com/example/agenda/internal/middleware"
	"github.com/example/agenda/internal/models"
	"github.com/example/agenda/internal/setup"
	"github.com/example/agenda/internal/verify"
)

// memoryUserRepo enforces phone uniqueness the way the real store does.
type memoryUserRepo struct {
	mu      sync.Mutex
	byPhone map[string]*models.User
	byID    map[uuid.UUID]*models.User
}

func newMemoryUserRepo() *memoryUserRepo {
	return &memoryUserRepo{
		byPhone: map[string]*models.User{},
		byID:    map[uuid.UUID]*models.User{},
	}
}

func (r *memoryUserRepo) GetByPhone(ctx context.Context, phone string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.byPhone[phone], nil
}

func (r *memoryUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.byID[id], nil
}

func (r *memoryUserRepo) Create(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byPhone[user.PhoneNumber]; exists {
		return gorm.ErrDuplicatedKey
	}
	user.ID = uuid.New()
	r.byPhone[user.PhoneNumber] = user
	r.byID[user.ID] = user
	return nil
}

func (r *memoryUserRepo) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.byID[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if name, ok := updates["name"].(string); ok {
		user.Name = name
	}
	if role, ok := updates["role"].(models.Role); ok {
		user.Role = role
	}
	if complete, ok := updates["setup_complete"].(bool); ok {
		user.SetupComplete = complete
	}
	if email, ok := updates["email"].(string); ok {
		user.Email = &email
	}
	if eventID, ok := updates["event_id"].(uuid.UUID); ok {
		user.EventID = &eventID
	}
	return nil
}

type memoryEventRepo struct {
	events []*models.Event
}

func (r *memoryEventRepo) FindActiveByPassword(ctx context.Context, password string) (*models.Event, error) {
	for _, event := range r.events {
		if event.IsActive && event.ProfessionalPassword == password {
			return event, nil
		}
	}
	return nil, nil
}

type stubGateway struct {
	acceptCode string
	consumed   map[string]bool
}

func (g *stubGateway) SendCode(ctx context.Context, phone string) (verify.SendResult, error) {
	return verify.SendResult{AttemptID: "VA123", Status: "pending"}, nil
}

func (g *stubGateway) CheckCode(ctx context.Context, phone, code string) (verify.CheckResult, error) {
	if code != g.acceptCode {
		return verify.CheckResult{Approved: false, Status: "pending"}, nil
	}
	if g.consumed == nil {
		g.consumed = map[string]bool{}
	}
	if g.consumed[phone] {
		return verify.CheckResult{Approved: false, Status: "pending"}, nil
	}
	g.consumed[phone] = true
	return verify.CheckResult{Approved: true, Status: "approved"}, nil
}

func newTestApp(t *testing.T, events ...*models.Event) (*fiber.App, *memoryUserRepo) {
	t.Helper()

	userRepo := newMemoryUserRepo()
	eventRepo := &memoryEventRepo{events: events}
	gateway := &stubGateway{acceptCode: "123456"}

	authService := auth.NewService(gateway, userRepo)
	issuer := auth.NewSessionIssuer("test-secret", "http://localhost:8080", time.Hour)
	setupService := setup.NewService("super-secret-admin", userRepo, eventRepo)

	authHandler := handlers.NewAuthHandler(authService, issuer)
	setupHandler := handlers.NewSetupHandler(setupService)
	profileHandler := handlers.NewProfileHandler(userRepo)

	app := fiber.New()
	api := app.Group("/api")
	authGroup := api.Group("/auth")
	authGroup.Post("/send-code", authHandler.SendCode)
	authGroup.Post("/verify", authHandler.Verify)

	protected := api.Group("", middleware.AuthMiddleware(issuer))
	protected.Post("/setup", setupHandler.CompleteSetup)
	protected.Get("/profile", profileHandler.GetProfile)

	return app, userRepo
}

func postJSON(t *testing.T, app *fiber.App, path, token string, payload interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req)
	require.NoError(t, err)

	var decoded map[string]interface{}
	_ = json.NewDecoder(resp.Body).Decode(&decoded)
	return resp, decoded
}

func TestLoginFlowEndToEnd(t *testing.T) {
	app, userRepo := newTestApp(t)

	// Request a code with a formatted number.
	resp, body := postJSON(t, app, "/api/auth/send-code", "", map[string]string{
		"phone": "(414) 861-6375",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "+14148616375", body["to"])
	assert.Equal(t, "pending", body["status"])

	// Wrong code is rejected without saying why.
	resp, _ = postJSON(t, app, "/api/auth/verify", "", map[string]string{
		"phone_number": "4148616375",
		"code":         "000000",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Empty(t, userRepo.byPhone)

	// Correct code creates the user and issues a session.
	resp, body = postJSON(t, app, "/api/auth/verify", "", map[string]string{
		"phone_number": "4148616375",
		"code":         "123456",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotEmpty(t, body["token"])

	user, ok := body["user"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "User 6375", user["name"])
	assert.Equal(t, "client", user["role"])
	assert.Equal(t, "+14148616375", user["phone_number"])
	assert.Equal(t, false, user["setup_complete"])
	require.Len(t, userRepo.byPhone, 1)
}

func TestSendCodeRejectsMissingPhone(t *testing.T) {
	app, _ := newTestApp(t)

	resp, _ := postJSON(t, app, "/api/auth/send-code", "", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSetupRequiresSession(t *testing.T) {
	app, _ := newTestApp(t)

	resp, _ := postJSON(t, app, "/api/setup", "", map[string]string{
		"name": "Jordan Smith",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestSetupGrantsProfessionalRole(t *testing.T) {
	event := &models.Event{
		BaseModel:            models.BaseModel{ID: uuid.New()},
		Name:                 "Spring Gala",
		ProfessionalPassword: "gala-2026",
		IsActive:             true,
	}
	app, userRepo := newTestApp(t, event)

	_, body := postJSON(t, app, "/api/auth/verify", "", map[string]string{
		"phone_number": "4148616375",
		"code":         "123456",
	})
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)

	resp, body := postJSON(t, app, "/api/setup", token, map[string]string{
		"name":          "Jordan Smith",
		"role_password": "gala-2026",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "professional", body["role"])
	assert.Equal(t, "Spring Gala", body["event_name"])

	stored := userRepo.byPhone["+14148616375"]
	require.NotNil(t, stored)
	assert.Equal(t, models.RoleProfessional, stored.Role)
	assert.True(t, stored.SetupComplete)
	require.NotNil(t, stored.EventID)
	assert.Equal(t, event.ID, *stored.EventID)
}

func TestSetupSecondInvocationRejected(t *testing.T) {
	app, _ := newTestApp(t)

	_, body := postJSON(t, app, "/api/auth/verify", "", map[string]string{
		"phone_number": "4148616375",
		"code":         "123456",
	})
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)

	resp, _ := postJSON(t, app, "/api/setup", token, map[string]string{
		"name": "Jordan Smith",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = postJSON(t, app, "/api/setup", token, map[string]string{
		"name":          "Jordan Smith",
		"role_password": "super-secret-admin",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

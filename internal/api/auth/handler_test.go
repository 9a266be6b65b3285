package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/logstackhq/logstack/internal/models"
	"github.com/logstackhq/logstack/internal/storage"
)

type mockUserRepository struct {
	users map[string]*models.User // keyed by email
}

func (m *mockUserRepository) Create(ctx context.Context, user *models.User) error { return nil }
func (m *mockUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return nil, storage.ErrNotFound
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if u, ok := m.users[email]; ok {
		return u, nil
	}
	return nil, storage.ErrNotFound
}

func (m *mockUserRepository) GetByAPIKey(ctx context.Context, apiKey string) (*models.User, error) {
	return nil, storage.ErrNotFound
}
func (m *mockUserRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	return nil
}
func (m *mockUserRepository) List(ctx context.Context) ([]*models.User, error) { return nil, nil }
func (m *mockUserRepository) Count(ctx context.Context) (int64, error)         { return 0, nil }

func setupLoginHandler(t *testing.T) *Handler {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("Correct-Horse-1!"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}

	users := &mockUserRepository{users: map[string]*models.User{
		"dev@example.com": {
			ID:           "user-1",
			Email:        "dev@example.com",
			PasswordHash: string(hash),
			Role:         models.RoleOperator,
		},
	}}

	return NewHandler(users, testJWTService(15*time.Minute))
}

func postLogin(handler *Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", "/api/v1/auth/login", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.Login(rec, req)
	return rec
}

func TestLogin(t *testing.T) {
	handler := setupLoginHandler(t)

	rec := postLogin(handler, `{"email": "dev@example.com", "password": "Correct-Horse-1!"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}

	var resp struct {
		Data LoginResponse `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Data.AccessToken == "" {
		t.Error("expected access token")
	}
	if resp.Data.TokenType != "Bearer" {
		t.Errorf("token type = %s, want Bearer", resp.Data.TokenType)
	}
	if resp.Data.ExpiresIn != 900 {
		t.Errorf("expires in = %d, want 900", resp.Data.ExpiresIn)
	}

	// The issued token must pass validation.
	claims, err := testJWTService(15 * time.Minute).ValidateToken(resp.Data.AccessToken)
	if err != nil {
		t.Fatalf("validate issued token: %v", err)
	}
	if claims.UserID != "user-1" {
		t.Errorf("claims user id = %s, want user-1", claims.UserID)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	handler := setupLoginHandler(t)

	rec := postLogin(handler, `{"email": "dev@example.com", "password": "wrong"}`)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestLogin_UnknownEmail(t *testing.T) {
	handler := setupLoginHandler(t)

	rec := postLogin(handler, `{"email": "nobody@example.com", "password": "whatever"}`)

	// Same status as a wrong password so the endpoint does not reveal
	// which emails exist.
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestLogin_BadRequests(t *testing.T) {
	handler := setupLoginHandler(t)

	for _, body := range []string{
		`{`,
		`{"email": "", "password": "x"}`,
		`{"email": "dev@example.com", "password": ""}`,
	} {
		rec := postLogin(handler, body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %q: status = %d, want %d", body, rec.Code, http.StatusBadRequest)
		}
	}
}

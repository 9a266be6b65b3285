package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/logstackhq/logstack/internal/api/auth"
	"github.com/logstackhq/logstack/internal/models"
)

func TestJWTAuth(t *testing.T) {
	jwtService := auth.NewJWTService([]byte("middleware-test-secret"), 15*time.Minute)

	token, err := jwtService.GenerateToken(&models.User{ID: "user-1", Role: models.RoleOperator})
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	var gotUserID string
	var gotRole models.Role
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID = GetUserID(r.Context())
		gotRole = GetRole(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	protected := JWTAuth(jwtService)(next)

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
	}{
		{"valid bearer token", "Bearer " + token, http.StatusOK},
		{"lowercase scheme", "bearer " + token, http.StatusOK},
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic dXNlcjpwYXNz", http.StatusUnauthorized},
		{"malformed header", "Bearer", http.StatusUnauthorized},
		{"garbage token", "Bearer not.a.token", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotUserID, gotRole = "", ""

			req := httptest.NewRequest("GET", "/api/v1/logs", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()

			protected.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantStatus == http.StatusOK {
				if gotUserID != "user-1" {
					t.Errorf("context user id = %q, want user-1", gotUserID)
				}
				if gotRole != models.RoleOperator {
					t.Errorf("context role = %q, want operator", gotRole)
				}
			}
		})
	}
}

func TestGetUserID_Unauthenticated(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	if id := GetUserID(req.Context()); id != "" {
		t.Errorf("expected empty user id, got %q", id)
	}
}

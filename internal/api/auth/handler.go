package auth

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"github.com/logstackhq/logstack/internal/storage"
)

// Handler handles authentication endpoints.
type Handler struct {
	users storage.UserRepository
	jwt   *JWTService
}

// NewHandler creates a new auth handler.
func NewHandler(users storage.UserRepository, jwt *JWTService) *Handler {
	return &Handler{users: users, jwt: jwt}
}

// LoginRequest is the login payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is returned on successful login.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"` // seconds
	TokenType   string `json:"token_type"`
}

func jsonError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]string{"code": code, "message": message},
	})
}

// Login authenticates a user by email and password and issues a JWT.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		jsonError(w, http.StatusBadRequest, "BAD_REQUEST", "email and password are required")
		return
	}

	user, err := h.users.GetByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			// Same response as a wrong password so the endpoint does
			// not leak which emails exist.
			jsonError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid credentials")
			return
		}
		log.Printf("login: get user: %v", err)
		jsonError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		jsonError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid credentials")
		return
	}

	token, err := h.jwt.GenerateToken(user)
	if err != nil {
		log.Printf("login: generate token: %v", err)
		jsonError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"data": LoginResponse{
		AccessToken: token,
		ExpiresIn:   h.jwt.TTLSeconds(),
		TokenType:   "Bearer",
	}})
}

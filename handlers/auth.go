package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"achievify/store"
	"achievify/token"
)

type authRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthHandler struct {
	users  store.UserStore
	tokens *token.Service
}

func NewAuthHandler(users store.UserStore, tokens *token.Service) *AuthHandler {
	return &AuthHandler{users: users, tokens: tokens}
}

// Signup creates the account but issues no token; the client logs in
// separately.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req authRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	email := normalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred")
		return
	}

	if _, err := h.users.Create(r.Context(), email, string(hash)); err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			writeError(w, http.StatusConflict, "Email address already in use")
			return
		}
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{
		"message": "New user created successfully. Please log in.",
	})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req authRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	email := normalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	user, err := h.users.FindByEmail(r.Context(), email)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred")
		return
	}

	// Same response whether the account is missing or the password is wrong.
	if err != nil || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		writeError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	signed, err := h.tokens.Issue(user.ID.Hex(), user.Email)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"token": signed, "email": user.Email})
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

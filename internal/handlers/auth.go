package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/eci-arep/secureweb/internal/middleware"
	"github.com/eci-arep/secureweb/internal/repo"
	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
)

// pqUniqueViolation is the postgres error code raised by the users.username
// UNIQUE constraint. The insert itself is the conflict check; there is no
// racy find-before-create.
const pqUniqueViolation = "23505"

var validate = validator.New()

// ==========================
// Auth Handler
// ==========================
type AuthHandler struct {
	UserRepo  *repo.UserRepo
	AuditRepo *repo.AuditRepo
	Secret    []byte
	TokenTTL  time.Duration
}

// Passwords are capped at 72 characters because bcrypt ignores input beyond
// 72 bytes and rejects it outright in this implementation.
type credentials struct {
	Username string `json:"username" validate:"required,min=1,max=255"`
	Password string `json:"password" validate:"required,min=1,max=72"`
}

// validateCredentials returns per-field problems, empty when the payload is valid.
func validateCredentials(input credentials) map[string]string {
	err := validate.Struct(input)
	if err == nil {
		return nil
	}
	fields := make(map[string]string)
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			name := strings.ToLower(fe.Field())
			switch fe.Tag() {
			case "required":
				fields[name] = "required"
			case "max":
				fields[name] = "must be at most " + fe.Param() + " characters"
			default:
				fields[name] = "invalid"
			}
		}
	} else {
		fields["body"] = "invalid"
	}
	return fields
}

// ==========================
// Register (password stored as bcrypt hash)
// ==========================
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input credentials

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	if fields := validateCredentials(input); len(fields) > 0 {
		JSONValidationError(w, "validation failed", fields, http.StatusBadRequest)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		// A 72-character multibyte password can still exceed bcrypt's 72-byte cap.
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			JSONValidationError(w, "validation failed",
				map[string]string{"password": "must be at most 72 bytes"}, http.StatusBadRequest)
			return
		}
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	user, err := h.UserRepo.Create(r.Context(), input.Username, string(hash))
	if err != nil {
		if e, ok := err.(*pq.Error); ok && e.Code == pqUniqueViolation {
			JSONError(w, "Error: Username is already in use.", http.StatusBadRequest)
			return
		}
		slog.Error("register: create user failed", "error", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	if h.AuditRepo != nil {
		_ = h.AuditRepo.Log(r.Context(), user.ID, "register", "user", user.ID, "")
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Successful Registration."})
}

// ==========================
// Login (bcrypt verify, JWT on success)
// ==========================
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input credentials

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	if fields := validateCredentials(input); len(fields) > 0 {
		JSONValidationError(w, "validation failed", fields, http.StatusBadRequest)
		return
	}

	user, err := h.UserRepo.GetByUsername(r.Context(), input.Username)
	if err != nil {
		JSONError(w, "Error: Invalid credentials", http.StatusUnauthorized)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		JSONError(w, "Error: Invalid credentials", http.StatusUnauthorized)
		return
	}

	claims := jwt.MapClaims{
		"sub":     user.Username,
		"user_id": user.ID,
		"exp":     time.Now().Add(h.TokenTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(h.Secret)
	if err != nil {
		JSONError(w, "failed to issue token", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"token": signed})
}

// ==========================
// Me (requires bearer token)
// ==========================
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		JSONError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	user, err := h.UserRepo.GetByID(r.Context(), userID)
	if err != nil {
		JSONError(w, "user not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(user)
}

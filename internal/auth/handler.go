package auth

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	mw "github.com/easelhq/easel/internal/middleware"
)

const minPasswordLength = 8

// Handler exposes the unauthenticated register/login surface. Token
// checks live in Middleware.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// credentials is the request body for both endpoints; DisplayName only
// matters on register.
type credentials struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName"`
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	creds, ok := readCredentials(w, r)
	if !ok {
		return
	}
	if creds.DisplayName == "" {
		mw.RespondError(w, http.StatusBadRequest, "displayName is required")
		return
	}
	if len(creds.Password) < minPasswordLength {
		mw.RespondError(w, http.StatusBadRequest, "password must be at least 8 characters")
		return
	}

	result, err := h.service.Register(r.Context(), creds.Email, creds.Password, creds.DisplayName)
	if err != nil {
		respondServiceError(w, "register", err)
		return
	}
	mw.RespondJSON(w, http.StatusCreated, result)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	creds, ok := readCredentials(w, r)
	if !ok {
		return
	}

	result, err := h.service.Login(r.Context(), creds.Email, creds.Password)
	if err != nil {
		respondServiceError(w, "login", err)
		return
	}
	mw.RespondJSON(w, http.StatusOK, result)
}

func readCredentials(w http.ResponseWriter, r *http.Request) (credentials, bool) {
	var creds credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		mw.RespondError(w, http.StatusBadRequest, "invalid request body")
		return creds, false
	}
	if creds.Email == "" || creds.Password == "" {
		mw.RespondError(w, http.StatusBadRequest, "email and password are required")
		return creds, false
	}
	return creds, true
}

// respondServiceError maps the service's sentinel errors onto HTTP
// statuses; anything unexpected is logged and hidden behind a 500.
func respondServiceError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, ErrEmailTaken):
		mw.RespondError(w, http.StatusConflict, ErrEmailTaken.Error())
	case errors.Is(err, ErrInvalidCredentials):
		mw.RespondError(w, http.StatusUnauthorized, ErrInvalidCredentials.Error())
	default:
		slog.Error("auth request failed", "op", op, "error", err)
		mw.RespondError(w, http.StatusInternalServerError, "internal error")
	}
}

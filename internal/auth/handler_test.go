package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler() *Handler {
	return NewHandler(NewService(newMemAccounts(), "test-secret"))
}

func postJSON(t *testing.T, fn http.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/auth", strings.NewReader(body))
	rec := httptest.NewRecorder()
	fn(rec, req)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	return rec
}

func TestRegisterHandler(t *testing.T) {
	h := newTestHandler()

	rec := postJSON(t, h.Register,
		`{"email":"ada@example.com","password":"correct horse","displayName":"Ada"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var result AuthResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, "Ada", result.User.DisplayName)

	userID, err := h.service.ValidateToken(result.Token)
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, userID)
}

func TestRegisterHandlerRejections(t *testing.T) {
	h := newTestHandler()

	tests := []struct {
		name string
		body string
		code int
	}{
		{"bad json", `{`, http.StatusBadRequest},
		{"missing email", `{"password":"correct horse","displayName":"Ada"}`, http.StatusBadRequest},
		{"missing display name", `{"email":"a@b.c","password":"correct horse"}`, http.StatusBadRequest},
		{"short password", `{"email":"a@b.c","password":"short","displayName":"Ada"}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postJSON(t, h.Register, tt.body)
			assert.Equal(t, tt.code, rec.Code)
			assert.Contains(t, rec.Body.String(), "error")
		})
	}
}

func TestRegisterHandlerDuplicateEmail(t *testing.T) {
	h := newTestHandler()
	body := `{"email":"ada@example.com","password":"correct horse","displayName":"Ada"}`

	require.Equal(t, http.StatusCreated, postJSON(t, h.Register, body).Code)

	rec := postJSON(t, h.Register, body)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), ErrEmailTaken.Error())
}

func TestLoginHandler(t *testing.T) {
	h := newTestHandler()
	require.Equal(t, http.StatusCreated, postJSON(t, h.Register,
		`{"email":"ada@example.com","password":"correct horse","displayName":"Ada"}`).Code)

	rec := postJSON(t, h.Login, `{"email":"ada@example.com","password":"correct horse"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var result AuthResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, "ada@example.com", result.User.Email)

	rec = postJSON(t, h.Login, `{"email":"ada@example.com","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Unknown emails get the same response as bad passwords.
	rec = postJSON(t, h.Login, `{"email":"nobody@example.com","password":"whatever"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), ErrInvalidCredentials.Error())
}

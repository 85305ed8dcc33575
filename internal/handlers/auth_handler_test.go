package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ghostsapi/internal/authz"
	"ghostsapi/internal/models"
	"ghostsapi/internal/services"
)

// stubAuthService scripts the orchestrator so handler tests only exercise the
// HTTP mapping.
type stubAuthService struct {
	loginResult    *services.AuthResult
	loginErr       error
	registerResult *services.AuthResult
	registerErr    error
	flowErr        error
	verifyResult   *services.TokenVerification
}

func (s *stubAuthService) Login(email, password string) (*services.AuthResult, error) {
	return s.loginResult, s.loginErr
}

func (s *stubAuthService) Register(req *models.RegisterRequest) (*services.AuthResult, error) {
	return s.registerResult, s.registerErr
}

func (s *stubAuthService) RequestEmailVerification(email string) error { return s.flowErr }
func (s *stubAuthService) ConfirmEmail(token string) error             { return s.flowErr }
func (s *stubAuthService) RequestPasswordReset(email string) error     { return s.flowErr }
func (s *stubAuthService) ResetPassword(token, pw string) error        { return s.flowErr }
func (s *stubAuthService) UndoPasswordChange(token string) error       { return s.flowErr }

func (s *stubAuthService) VerifyAccessToken(token string) *services.TokenVerification {
	return s.verifyResult
}

func doRequest(t *testing.T, stub *stubAuthService, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewAuthHandler(stub)
	auth := r.Group("/auth")
	auth.POST("/login", h.Login)
	auth.POST("/register", h.Register)
	auth.POST("/confirm-email", h.ConfirmEmail)
	auth.POST("/reset-password", h.ResetPassword)
	auth.POST("/verify-token", h.VerifyToken)

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestLoginHandler(t *testing.T) {
	stub := &stubAuthService{
		loginResult: &services.AuthResult{
			User:        &models.User{ID: 1, Role: authz.RoleCustomer},
			AccessToken: "token-123",
		},
	}
	w := doRequest(t, stub, "/auth/login", `{"email":"a@x.com","password":"Password1"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, float64(1), resp["id"])
	assert.Equal(t, "customer", resp["role"])
	assert.Equal(t, "token-123", resp["access_token"])
}

func TestLoginHandlerInvalidCredentials(t *testing.T) {
	stub := &stubAuthService{loginErr: services.ErrInvalidCredentials}
	w := doRequest(t, stub, "/auth/login", `{"email":"a@x.com","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Email not registered or password incorrect.")
}

func TestLoginHandlerBadBody(t *testing.T) {
	stub := &stubAuthService{}
	w := doRequest(t, stub, "/auth/login", `{"email":"a@x.com"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRegisterHandlerConflict(t *testing.T) {
	stub := &stubAuthService{registerErr: services.ErrAlreadyRegistered}
	body := `{"email":"a@x.com","firstname":"John","lastname":"Doe","phone":"+1234567890","password":"Password1"}`
	w := doRequest(t, stub, "/auth/register", body)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "The email is already registered.")
}

func TestConfirmEmailHandlerInvalidToken(t *testing.T) {
	stub := &stubAuthService{flowErr: services.ErrInvalidOrExpiredToken}
	w := doRequest(t, stub, "/auth/confirm-email", `{"token":"abc"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid or expired token.")
}

func TestResetPasswordHandlerUnchanged(t *testing.T) {
	stub := &stubAuthService{flowErr: services.ErrPasswordUnchanged}
	w := doRequest(t, stub, "/auth/reset-password", `{"token":"abc","new_password":"Password1"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestVerifyTokenHandler(t *testing.T) {
	stub := &stubAuthService{verifyResult: &services.TokenVerification{Valid: false, Error: "Token expired"}}
	w := doRequest(t, stub, "/auth/verify-token", `{"token":"abc"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp services.TokenVerification
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Valid)
	assert.Equal(t, "Token expired", resp.Error)
}

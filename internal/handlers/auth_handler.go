package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"ghostsapi/internal/models"
	"ghostsapi/internal/services"
)

type AuthHandler struct {
	auth services.AuthService
}

func NewAuthHandler(auth services.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

type tokenRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type tokenVerifyRequest struct {
	Token string `json:"token" binding:"required"`
}

type tokenResetRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

// @Summary      User login
// @Description  Authenticate a user with email and password. Returns an access token if credentials are valid.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        login  body      models.LoginRequest  true  "Credentials"
// @Success      200    {object}  map[string]interface{}
// @Failure      400    {object}  map[string]string
// @Failure      401    {object}  map[string]string
// @Failure      500    {object}  map[string]string
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.auth.Login(req.Email, req.Password)
	if err != nil {
		respondAuthError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":           result.User.ID,
		"role":         result.User.Role,
		"access_token": result.AccessToken,
	})
}

// @Summary      User registration
// @Description  Register a new user with email, name, phone and password.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        register  body      models.RegisterRequest  true  "Registration data"
// @Success      201       {object}  map[string]interface{}
// @Failure      400       {object}  map[string]string
// @Failure      409       {object}  map[string]string
// @Failure      500       {object}  map[string]string
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.auth.Register(&req)
	if err != nil {
		log.Printf("[auth][register] rejected: %v", err)
		respondAuthError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"id":           result.User.ID,
		"role":         result.User.Role,
		"access_token": result.AccessToken,
		"msg":          "User registered successfully. Please verify your email.",
	})
}

// @Summary      Request email verification
// @Description  Send an email verification link to the user.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request  body      tokenRequest  true  "User email"
// @Success      200      {object}  map[string]string
// @Failure      400      {object}  map[string]string
// @Failure      404      {object}  map[string]string
// @Router       /auth/request-email-verification [post]
func (h *AuthHandler) RequestEmailVerification(c *gin.Context) {
	var req tokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.auth.RequestEmailVerification(req.Email); err != nil {
		respondAuthError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "Verification email sent."})
}

// @Summary      Confirm email
// @Description  Confirm the user's email using the received token.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request  body      tokenVerifyRequest  true  "Verification token"
// @Success      200      {object}  map[string]string
// @Failure      400      {object}  map[string]string
// @Router       /auth/confirm-email [post]
func (h *AuthHandler) ConfirmEmail(c *gin.Context) {
	var req tokenVerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.auth.ConfirmEmail(req.Token); err != nil {
		respondAuthError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "Email confirmed successfully."})
}

// @Summary      Request password reset
// @Description  Send a password reset link to the user.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request  body      tokenRequest  true  "User email"
// @Success      200      {object}  map[string]string
// @Failure      400      {object}  map[string]string
// @Failure      404      {object}  map[string]string
// @Router       /auth/request-password-reset [post]
func (h *AuthHandler) RequestPasswordReset(c *gin.Context) {
	var req tokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.auth.RequestPasswordReset(req.Email); err != nil {
		respondAuthError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "Reset password email sent."})
}

// @Summary      Reset password
// @Description  Reset the password using a reset token. Sends a "password changed" email containing an undo link.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request  body      tokenResetRequest  true  "Reset token and new password"
// @Success      200      {object}  map[string]string
// @Failure      400      {object}  map[string]string
// @Failure      422      {object}  map[string]string
// @Router       /auth/reset-password [post]
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req tokenResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.auth.ResetPassword(req.Token, req.NewPassword); err != nil {
		respondAuthError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "Password reset successfully."})
}

// @Summary      Undo password change
// @Description  Revert a password reset using the restore token from the "password changed" email.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request  body      tokenVerifyRequest  true  "Restore token"
// @Success      200      {object}  map[string]string
// @Failure      400      {object}  map[string]string
// @Router       /auth/undo-password-change [post]
func (h *AuthHandler) UndoPasswordChange(c *gin.Context) {
	var req tokenVerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.auth.UndoPasswordChange(req.Token); err != nil {
		respondAuthError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "Your password has been restored. If this wasn't you, change your password immediately."})
}

// @Summary      Verify access token
// @Description  Verify the validity of a JWT access token without touching any state.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request  body      tokenVerifyRequest  true  "Access token"
// @Success      200      {object}  services.TokenVerification
// @Failure      400      {object}  map[string]string
// @Router       /auth/verify-token [post]
func (h *AuthHandler) VerifyToken(c *gin.Context) {
	var req tokenVerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, h.auth.VerifyAccessToken(req.Token))
}

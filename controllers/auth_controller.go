package controllers

import (
	"errors"
	"net/http"

	"roomify-client/middleware"
	"roomify-client/models"
	"roomify-client/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AuthController struct {
	Backend *Backend
	Tokens  *middleware.TokenIssuer
	log     *zap.Logger
}

func NewAuthController(b *Backend, tokens *middleware.TokenIssuer, log *zap.Logger) *AuthController {
	return &AuthController{Backend: b, Tokens: tokens, log: utils.OrNop(log)}
}

// loginUser is the trimmed user object login responses carry.
func loginUser(p models.Profile) gin.H {
	return gin.H{
		"id":       p.ID,
		"username": p.Username,
		"email":    p.Email,
		"is_admin": p.IsAdmin,
	}
}

// ----------------------------------------------------
// POST /api/register
// ----------------------------------------------------

func (ac *AuthController) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONMessage(c, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	profile, err := ac.Backend.Register(req)
	switch {
	case errors.Is(err, ErrMissingFields):
		utils.JSONMessage(c, http.StatusBadRequest, "Username, email, and password are required")
		return
	case errors.Is(err, ErrUsernameTaken):
		utils.JSONMessage(c, http.StatusBadRequest, "Username already exists")
		return
	case errors.Is(err, ErrEmailTaken):
		utils.JSONMessage(c, http.StatusBadRequest, "Email already exists")
		return
	case err != nil:
		ac.log.Error("register failed", zap.Error(err))
		utils.JSONMessage(c, http.StatusInternalServerError, err.Error())
		return
	}

	ac.log.Info("✅ user registered", zap.Uint("user_id", profile.ID), zap.String("email", utils.MaskEmail(profile.Email)))
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "User registered successfully"})
}

// ----------------------------------------------------
// POST /api/login and POST /api/admin/login
// ----------------------------------------------------

func (ac *AuthController) Login(c *gin.Context) {
	ac.login(c, false)
}

func (ac *AuthController) AdminLogin(c *gin.Context) {
	ac.login(c, true)
}

func (ac *AuthController) login(c *gin.Context, adminOnly bool) {
	var creds models.Credentials
	if err := c.ShouldBindJSON(&creds); err != nil {
		utils.JSONMessage(c, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	profile, err := ac.Backend.Authenticate(creds.Email, creds.Password, adminOnly)
	switch {
	case errors.Is(err, ErrMissingFields):
		utils.JSONMessage(c, http.StatusBadRequest, "Email and password are required")
		return
	case errors.Is(err, ErrNotAdmin):
		utils.JSONMessage(c, http.StatusUnauthorized, "User is not an admin")
		return
	case err != nil:
		ac.log.Warn("❌ login rejected", zap.String("login", utils.MaskEmail(creds.Email)), zap.Bool("admin", adminOnly))
		utils.JSONMessage(c, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	token, err := ac.Tokens.Issue(profile.ID, profile.IsAdmin && adminOnly)
	if err != nil {
		ac.log.Error("issue token failed", zap.Error(err))
		utils.JSONMessage(c, http.StatusInternalServerError, "Could not issue token")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"token":   token,
		"user":    loginUser(profile),
	})
}

// ----------------------------------------------------
// GET /api/profile
// ----------------------------------------------------

func (ac *AuthController) Profile(c *gin.Context) {
	profile, err := ac.Backend.User(middleware.CurrentUserID(c))
	if err != nil {
		utils.JSONMessage(c, http.StatusNotFound, "User not found")
		return
	}
	c.JSON(http.StatusOK, profile)
}

// ----------------------------------------------------
// PUT /api/profile/update
// ----------------------------------------------------

func (ac *AuthController) UpdateProfile(c *gin.Context) {
	var update models.ProfileUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		utils.JSONMessage(c, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	profile, err := ac.Backend.UpdateUser(middleware.CurrentUserID(c), update)
	switch {
	case errors.Is(err, ErrUserNotFound):
		utils.JSONMessage(c, http.StatusNotFound, "User not found")
		return
	case errors.Is(err, ErrEmailTaken):
		utils.JSONMessage(c, http.StatusBadRequest, "Email already in use")
		return
	case errors.Is(err, ErrMissingFields):
		utils.JSONMessage(c, http.StatusBadRequest, "Email cannot be empty")
		return
	case err != nil:
		utils.JSONMessage(c, http.StatusInternalServerError, err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Profile updated successfully",
		"user":    profile,
	})
}

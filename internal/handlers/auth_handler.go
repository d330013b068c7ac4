package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/middleware"
	"fintrack/internal/models"
	"fintrack/internal/services"
)

// AuthHandler handles authentication and profile requests.
type AuthHandler struct {
	userService services.UserServicer
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(userService services.UserServicer) *AuthHandler {
	return &AuthHandler{userService: userService}
}

// RegisterRequest represents the registration request payload
type RegisterRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=50"`
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=6,max=128"`
}

// LoginRequest represents the login request payload
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// PreferencesRequest carries optional preference updates.
type PreferencesRequest struct {
	Currency   string `json:"currency" binding:"omitempty,currency_pref"`
	DateFormat string `json:"date_format" binding:"omitempty,date_format_pref"`
}

// UpdateProfileRequest represents the profile update payload.
type UpdateProfileRequest struct {
	Name        string              `json:"name" binding:"omitempty,min=2,max=50"`
	Preferences *PreferencesRequest `json:"preferences"`
}

// UpdatePasswordRequest represents the password change payload.
type UpdatePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=6,max=128"`
}

// Register handles user registration
// @Summary     Register a new user
// @Description Register a new user with name, email, and password
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body RegisterRequest true "User registration data"
// @Success     201 {object} MessageResponse "User registered and token generated"
// @Failure     400 {object} ErrorResponse "Validation failed"
// @Failure     409 {object} ErrorResponse "Email already registered"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindingError(err))
		return
	}

	user, err := h.userService.CreateUser(req.Name, req.Email, req.Password)
	if err != nil {
		respondWithError(c, err)
		return
	}

	token, err := middleware.GenerateToken(user)
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}

	respondOK(c, http.StatusCreated, "User registered successfully", gin.H{
		"token": token,
		"user":  user,
	})
}

// Login handles user login
// @Summary     Log in
// @Description Authenticate with email and password
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body LoginRequest true "Credentials"
// @Success     200 {object} MessageResponse "Token generated"
// @Failure     400 {object} ErrorResponse "Validation failed"
// @Failure     401 {object} ErrorResponse "Invalid credentials"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindingError(err))
		return
	}

	user, err := h.userService.AttemptLogin(req.Email, req.Password)
	if err != nil {
		respondWithError(c, err)
		return
	}

	token, err := middleware.GenerateToken(user)
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}

	respondOK(c, http.StatusOK, "Login successful", gin.H{
		"token": token,
		"user":  user,
	})
}

// GetProfile returns the authenticated user's profile.
// @Summary     Get profile
// @Description Get the authenticated user's profile
// @Tags        auth
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} MessageResponse "Profile"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /me [get]
func (h *AuthHandler) GetProfile(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	user, err := h.userService.GetUserByID(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "", gin.H{"user": user})
}

// UpdateProfile updates the authenticated user's name and preferences.
// @Summary     Update profile
// @Description Update name and display preferences
// @Tags        auth
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body UpdateProfileRequest true "Profile fields"
// @Success     200 {object} MessageResponse "Updated profile"
// @Failure     400 {object} ErrorResponse "Validation failed"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /me [put]
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindingError(err))
		return
	}

	var prefs *models.Preferences
	if req.Preferences != nil {
		prefs = &models.Preferences{
			Currency:   req.Preferences.Currency,
			DateFormat: req.Preferences.DateFormat,
		}
	}

	user, err := h.userService.UpdateProfile(userID, req.Name, prefs)
	if err != nil {
		respondWithError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "Profile updated successfully", gin.H{"user": user})
}

// UpdatePassword changes the authenticated user's password.
// @Summary     Update password
// @Description Change password after verifying the current one
// @Tags        auth
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body UpdatePasswordRequest true "Current and new password"
// @Success     200 {object} MessageResponse "Password updated"
// @Failure     400 {object} ErrorResponse "Validation failed or wrong password"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /me/password [put]
func (h *AuthHandler) UpdatePassword(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindingError(err))
		return
	}

	if err := h.userService.UpdatePassword(userID, req.CurrentPassword, req.NewPassword); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Password updated successfully"})
}

// DeleteAccount deactivates the authenticated user's account. This is a
// soft deactivation, not a hard delete: owned records keep their owner.
// @Summary     Delete account
// @Description Deactivate the authenticated user's account
// @Tags        auth
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} MessageResponse "Account deactivated"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /me [delete]
func (h *AuthHandler) DeleteAccount(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.userService.DeactivateUser(userID); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Account deactivated successfully"})
}

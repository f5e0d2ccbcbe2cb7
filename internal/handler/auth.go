package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/library-api/backend/internal/model"
	"github.com/library-api/backend/internal/service"
)

type AuthHandler struct {
	svc *service.AuthService
}

func NewAuthHandler(svc *service.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// Register godoc
// @Summary Register a new user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body model.RegisterRequest true "New account"
// @Success 201 {object} model.AuthResponse
// @Failure 400 {object} model.ErrorResponse
// @Router /api/v1/auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, token, err := h.svc.Register(c.Request.Context(), req)
	if err != nil {
		writeAuthError(c, err)
		return
	}

	c.JSON(http.StatusCreated, model.AuthResponse{
		Success: true,
		Data: model.AuthData{
			User:  user.Public(),
			Token: token,
		},
	})
}

// Login godoc
// @Summary Login with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body model.LoginRequest true "Credentials"
// @Success 200 {object} model.AuthResponse
// @Failure 400 {object} model.ErrorResponse
// @Failure 401 {object} model.ErrorResponse
// @Router /api/v1/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "Please provide an email and password")
		return
	}

	user, token, err := h.svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, model.AuthResponse{
		Success: true,
		Data: model.AuthData{
			User:  user.Public(),
			Token: token,
		},
	})
}

// Me godoc
// @Summary Get the current user
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.DataResponse
// @Failure 401 {object} model.ErrorResponse
// @Router /api/v1/auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	user := GetAuthUser(c)
	if user == nil {
		abortUnauthorized(c, "Access denied. Please log in.")
		return
	}
	c.JSON(http.StatusOK, model.DataResponse{Success: true, Data: user.Public()})
}

// UpdateDetails godoc
// @Summary Update the current user's username/email
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body model.UpdateDetailsRequest true "Fields to update"
// @Success 200 {object} model.DataResponse
// @Failure 400 {object} model.ErrorResponse
// @Failure 401 {object} model.ErrorResponse
// @Router /api/v1/auth/updatedetails [put]
func (h *AuthHandler) UpdateDetails(c *gin.Context) {
	var req model.UpdateDetailsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	user := GetAuthUser(c)
	updated, err := h.svc.UpdateDetails(c.Request.Context(), user.ID, req)
	if err != nil {
		writeAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, model.DataResponse{Success: true, Data: updated.Public()})
}

// UpdatePassword godoc
// @Summary Change password; revokes the presented token
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body model.UpdatePasswordRequest true "Current and new password"
// @Success 200 {object} model.MessageResponse
// @Failure 400 {object} model.ErrorResponse
// @Failure 401 {object} model.ErrorResponse
// @Router /api/v1/auth/updatepassword [put]
func (h *AuthHandler) UpdatePassword(c *gin.Context) {
	var req model.UpdatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "Please provide current and new password")
		return
	}

	user := GetAuthUser(c)
	err := h.svc.UpdatePassword(c.Request.Context(), user.ID, req.CurrentPassword, req.NewPassword, GetAuthToken(c))
	if err != nil {
		writeAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, model.MessageResponse{
		Success: true,
		Data:    model.MessageData{Message: "Password updated successfully"},
	})
}

// Logout godoc
// @Summary Logout; blacklists the presented token
// @Tags auth
// @Produce json
// @Success 200 {object} model.MessageResponse
// @Router /api/v1/auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	var userID *int64
	if user := GetAuthUser(c); user != nil {
		userID = &user.ID
	}

	// Under OptionalAuth the token may be present but unverified; revoke
	// whatever was presented.
	h.svc.Logout(c.Request.Context(), GetAuthToken(c), userID)

	c.SetCookie(tokenCookieName, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, model.MessageResponse{
		Success: true,
		Data:    model.MessageData{Message: "Logged out successfully"},
	})
}

// RevokedTokens godoc
// @Summary List the current user's active blacklist entries
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.DataResponse
// @Failure 401 {object} model.ErrorResponse
// @Router /api/v1/auth/tokens [get]
func (h *AuthHandler) RevokedTokens(c *gin.Context) {
	user := GetAuthUser(c)
	entries, err := h.svc.Revocations().ListForUser(c.Request.Context(), user.ID)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "Server error")
		return
	}
	c.JSON(http.StatusOK, model.DataResponse{Success: true, Data: entries})
}

func writeError(c *gin.Context, status int, message string) {
	c.JSON(status, model.ErrorResponse{Success: false, Error: message})
}

func writeAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		writeError(c, http.StatusBadRequest, "Invalid input")
	case errors.Is(err, service.ErrEmailTaken):
		writeError(c, http.StatusBadRequest, "User with this email already exists")
	case errors.Is(err, service.ErrUsernameTaken):
		writeError(c, http.StatusBadRequest, "Username already taken")
	case errors.Is(err, service.ErrInvalidCredentials):
		writeError(c, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, service.ErrCurrentPasswordIncorrect):
		writeError(c, http.StatusUnauthorized, "Current password is incorrect")
	default:
		writeError(c, http.StatusInternalServerError, "Server error")
	}
}

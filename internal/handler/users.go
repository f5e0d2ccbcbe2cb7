package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/library-api/backend/internal/model"
	"github.com/library-api/backend/internal/service"
)

// UserHandler serves the admin-only user management routes. The whole
// router group is mounted behind RequireAuth + RequireRole(admin,
// super_admin).
type UserHandler struct {
	svc         *service.UserService
	revocations *service.RevocationService
}

func NewUserHandler(svc *service.UserService, revocations *service.RevocationService) *UserHandler {
	return &UserHandler{svc: svc, revocations: revocations}
}

// List godoc
// @Summary List users
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.DataResponse
// @Failure 403 {object} model.ErrorResponse
// @Router /api/v1/users [get]
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.svc.List(c.Request.Context())
	if err != nil {
		writeError(c, http.StatusInternalServerError, "Server error")
		return
	}

	public := make([]model.PublicUser, 0, len(users))
	for i := range users {
		public = append(public, users[i].Public())
	}
	c.JSON(http.StatusOK, model.DataResponse{Success: true, Data: public})
}

// Get godoc
// @Summary Get a user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} model.DataResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /api/v1/users/{id} [get]
func (h *UserHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		writeError(c, http.StatusBadRequest, "Invalid user id")
		return
	}

	user, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		writeUserError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.DataResponse{Success: true, Data: user.Public()})
}

// Create godoc
// @Summary Create a user
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body model.CreateUserRequest true "New user"
// @Success 201 {object} model.DataResponse
// @Failure 400 {object} model.ErrorResponse
// @Router /api/v1/users [post]
func (h *UserHandler) Create(c *gin.Context) {
	var req model.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		writeUserError(c, err)
		return
	}
	c.JSON(http.StatusCreated, model.DataResponse{Success: true, Data: user.Public()})
}

// Update godoc
// @Summary Update a user
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param request body model.UpdateUserRequest true "Fields to update"
// @Success 200 {object} model.DataResponse
// @Failure 403 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /api/v1/users/{id} [put]
func (h *UserHandler) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		writeError(c, http.StatusBadRequest, "Invalid user id")
		return
	}

	var req model.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.svc.Update(c.Request.Context(), id, req, GetAuthUser(c))
	if err != nil {
		writeUserError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.DataResponse{Success: true, Data: user.Public()})
}

// Delete godoc
// @Summary Delete a user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} model.MessageResponse
// @Failure 403 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /api/v1/users/{id} [delete]
func (h *UserHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		writeError(c, http.StatusBadRequest, "Invalid user id")
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id, GetAuthUser(c).ID); err != nil {
		writeUserError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.MessageResponse{
		Success: true,
		Data:    model.MessageData{Message: "User deleted successfully"},
	})
}

// BlacklistStats godoc
// @Summary Token blacklist statistics
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.DataResponse
// @Failure 403 {object} model.ErrorResponse
// @Router /api/v1/users/blacklist/stats [get]
func (h *UserHandler) BlacklistStats(c *gin.Context) {
	stats, err := h.revocations.Stats(c.Request.Context())
	if err != nil {
		writeError(c, http.StatusInternalServerError, "Server error")
		return
	}
	c.JSON(http.StatusOK, model.DataResponse{Success: true, Data: stats})
}

func writeUserError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		writeError(c, http.StatusNotFound, "User not found")
	case errors.Is(err, service.ErrInvalidInput):
		writeError(c, http.StatusBadRequest, "Invalid input")
	case errors.Is(err, service.ErrEmailTaken):
		writeError(c, http.StatusBadRequest, "User with this email already exists")
	case errors.Is(err, service.ErrUsernameTaken):
		writeError(c, http.StatusBadRequest, "Username already taken")
	case errors.Is(err, service.ErrOwnRoleChange):
		writeError(c, http.StatusForbidden, "Cannot change your own role")
	case errors.Is(err, service.ErrSelfDelete):
		writeError(c, http.StatusForbidden, "Cannot delete your own account")
	default:
		writeError(c, http.StatusInternalServerError, "Server error")
	}
}

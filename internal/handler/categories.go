package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/library-api/backend/internal/model"
	"github.com/library-api/backend/internal/service"
)

type CategoryHandler struct {
	svc *service.CategoryService
}

func NewCategoryHandler(svc *service.CategoryService) *CategoryHandler {
	return &CategoryHandler{svc: svc}
}

// List godoc
// @Summary List categories
// @Tags categories
// @Produce json
// @Success 200 {object} model.DataResponse
// @Failure 500 {object} model.ErrorResponse
// @Router /api/v1/categories [get]
func (h *CategoryHandler) List(c *gin.Context) {
	categories, err := h.svc.List(c.Request.Context())
	if err != nil {
		writeError(c, http.StatusInternalServerError, "Server error")
		return
	}
	c.JSON(http.StatusOK, model.DataResponse{Success: true, Data: categories})
}

// Get godoc
// @Summary Get a category with its books
// @Tags categories
// @Produce json
// @Param id path int true "Category ID"
// @Success 200 {object} model.DataResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /api/v1/categories/{id} [get]
func (h *CategoryHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		writeError(c, http.StatusBadRequest, "Invalid category id")
		return
	}

	category, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		writeCategoryError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.DataResponse{Success: true, Data: category})
}

// Create godoc
// @Summary Create a category
// @Tags categories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body model.CreateCategoryRequest true "Category"
// @Success 201 {object} model.DataResponse
// @Failure 400 {object} model.ErrorResponse
// @Failure 403 {object} model.ErrorResponse
// @Router /api/v1/categories [post]
func (h *CategoryHandler) Create(c *gin.Context) {
	var req model.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	category, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		writeCategoryError(c, err)
		return
	}
	c.JSON(http.StatusCreated, model.DataResponse{Success: true, Data: category})
}

// Update godoc
// @Summary Update a category
// @Tags categories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Category ID"
// @Param request body model.UpdateCategoryRequest true "Fields to update"
// @Success 200 {object} model.DataResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /api/v1/categories/{id} [put]
func (h *CategoryHandler) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		writeError(c, http.StatusBadRequest, "Invalid category id")
		return
	}

	var req model.UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	category, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		writeCategoryError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.DataResponse{Success: true, Data: category})
}

// Delete godoc
// @Summary Delete a category
// @Tags categories
// @Produce json
// @Security BearerAuth
// @Param id path int true "Category ID"
// @Success 200 {object} model.MessageResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /api/v1/categories/{id} [delete]
func (h *CategoryHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		writeError(c, http.StatusBadRequest, "Invalid category id")
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		writeCategoryError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.MessageResponse{
		Success: true,
		Data:    model.MessageData{Message: "Category deleted successfully"},
	})
}

func writeCategoryError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCategoryNotFound):
		writeError(c, http.StatusNotFound, "Category not found")
	case errors.Is(err, service.ErrCategoryTaken):
		writeError(c, http.StatusBadRequest, "Category with this name already exists")
	default:
		writeError(c, http.StatusInternalServerError, "Server error")
	}
}

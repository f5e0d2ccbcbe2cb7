package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/library-api/backend/internal/model"
	"github.com/library-api/backend/internal/service"
)

type BookHandler struct {
	svc *service.BookService
}

func NewBookHandler(svc *service.BookService) *BookHandler {
	return &BookHandler{svc: svc}
}

// List godoc
// @Summary List books with filtering and pagination
// @Tags books
// @Produce json
// @Param search query string false "Match against title or author"
// @Param category_id query int false "Filter by category"
// @Param author query string false "Filter by author"
// @Param sortBy query string false "title|author|published_year|created_at"
// @Param sortOrder query string false "asc|desc"
// @Param page query int false "Page number (default 1)"
// @Param limit query int false "Page size (default 10)"
// @Success 200 {object} model.ListResponse
// @Failure 500 {object} model.ErrorResponse
// @Router /api/v1/books [get]
func (h *BookHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if limit < 1 {
		limit = 10
	}
	categoryID, _ := strconv.ParseInt(c.Query("category_id"), 10, 64)

	filters := model.BookFilters{
		Search:     c.Query("search"),
		CategoryID: categoryID,
		Author:     c.Query("author"),
		SortBy:     c.Query("sortBy"),
		SortOrder:  c.Query("sortOrder"),
		Limit:      limit,
		Offset:     (page - 1) * limit,
	}

	books, total, err := h.svc.List(c.Request.Context(), filters)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "Server error")
		return
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	c.JSON(http.StatusOK, model.ListResponse{
		Success:     true,
		Count:       len(books),
		Total:       total,
		CurrentPage: page,
		TotalPages:  totalPages,
		Data:        books,
	})
}

// Get godoc
// @Summary Get a single book
// @Tags books
// @Produce json
// @Param id path int true "Book ID"
// @Success 200 {object} model.DataResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /api/v1/books/{id} [get]
func (h *BookHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		writeError(c, http.StatusBadRequest, "Invalid book id")
		return
	}

	book, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		writeBookError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.DataResponse{Success: true, Data: book})
}

// Create godoc
// @Summary Create a book
// @Tags books
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body model.CreateBookRequest true "Book"
// @Success 201 {object} model.DataResponse
// @Failure 400 {object} model.ErrorResponse
// @Failure 401 {object} model.ErrorResponse
// @Failure 403 {object} model.ErrorResponse
// @Router /api/v1/books [post]
func (h *BookHandler) Create(c *gin.Context) {
	var req model.CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	book, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		writeBookError(c, err)
		return
	}
	c.JSON(http.StatusCreated, model.DataResponse{Success: true, Data: book})
}

// Update godoc
// @Summary Update a book
// @Tags books
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Book ID"
// @Param request body model.UpdateBookRequest true "Fields to update"
// @Success 200 {object} model.DataResponse
// @Failure 400 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /api/v1/books/{id} [put]
func (h *BookHandler) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		writeError(c, http.StatusBadRequest, "Invalid book id")
		return
	}

	var req model.UpdateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	book, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		writeBookError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.DataResponse{Success: true, Data: book})
}

// Delete godoc
// @Summary Delete a book
// @Tags books
// @Produce json
// @Security BearerAuth
// @Param id path int true "Book ID"
// @Success 200 {object} model.MessageResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /api/v1/books/{id} [delete]
func (h *BookHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		writeError(c, http.StatusBadRequest, "Invalid book id")
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		writeBookError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.MessageResponse{
		Success: true,
		Data:    model.MessageData{Message: "Book deleted successfully"},
	})
}

func writeBookError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrBookNotFound):
		writeError(c, http.StatusNotFound, "Book not found")
	case errors.Is(err, service.ErrISBNTaken):
		writeError(c, http.StatusBadRequest, "Book with this ISBN already exists")
	default:
		writeError(c, http.StatusInternalServerError, "Server error")
	}
}

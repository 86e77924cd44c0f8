package handlers

import (
	"net/http"
	"strconv"

	"github.com/akila4352/library-service/internal/service"
	"github.com/gin-gonic/gin"
)

// BookHandler handles catalog HTTP requests.
type BookHandler struct {
	bookService service.BookService
}

// NewBookHandler creates a new BookHandler instance.
func NewBookHandler(bookService service.BookService) *BookHandler {
	return &BookHandler{bookService: bookService}
}

// List godoc
// @Summary List books
// @Tags books
// @Produce json
// @Success 200 {array} models.Book
// @Failure 500 {object} ErrorResponse
// @Router /books [get]
func (h *BookHandler) List(c *gin.Context) {
	books, err := h.bookService.List(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "failed to fetch books")
		return
	}
	c.JSON(http.StatusOK, books)
}

// Get godoc
// @Summary Get book
// @Tags books
// @Produce json
// @Param id path int true "Book ID"
// @Success 200 {object} models.Book
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /books/{id} [get]
func (h *BookHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "invalid book id")
	if !ok {
		return
	}

	book, err := h.bookService.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err, "failed to fetch book")
		return
	}
	c.JSON(http.StatusOK, book)
}

// Create godoc
// @Summary Create book
// @Tags books
// @Accept json
// @Produce json
// @Param request body service.CreateBookRequest true "Book"
// @Success 201 {object} models.Book
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /books [post]
func (h *BookHandler) Create(c *gin.Context) {
	var req service.CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	book, err := h.bookService.Create(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err, "failed to add book")
		return
	}
	c.JSON(http.StatusCreated, book)
}

// Delete godoc
// @Summary Delete book
// @Tags books
// @Produce json
// @Param id path int true "Book ID"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /books/{id} [delete]
func (h *BookHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "invalid book id")
	if !ok {
		return
	}

	if err := h.bookService.Delete(c.Request.Context(), id); err != nil {
		respondServiceError(c, err, "failed to delete book")
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "book deleted successfully"})
}

// pathID parses the :id parameter and responds 400 when it is not a
// positive integer.
func pathID(c *gin.Context, message string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		RespondError(c, http.StatusBadRequest, message)
		return 0, false
	}
	return id, true
}

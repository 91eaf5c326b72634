package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"nowherelibrary/library-service/internal/app/library/entity"
	"nowherelibrary/library-service/internal/app/library/service"
)

type BookService interface {
	ListBooks(ctx context.Context) ([]entity.Book, error)
	GetBook(ctx context.Context, id string) (*entity.Book, error)
	AddBook(ctx context.Context, req *entity.CreateBookRequest) (*entity.Book, error)
	DeleteBook(ctx context.Context, id string) (int64, error)
}

type BookHandler struct {
	bookService BookService
	validator   *validator.Validate
}

func NewBookHandler(bookService BookService) *BookHandler {
	return &BookHandler{
		bookService: bookService,
		validator:   validator.New(),
	}
}

// ListBooks handles GET /books
func (h *BookHandler) ListBooks(c *gin.Context) {
	books, err := h.bookService.ListBooks(c.Request.Context())
	if err != nil {
		respondInternal(c, err, "Failed to list books")
		return
	}

	c.JSON(http.StatusOK, books)
}

// GetBook handles GET /books/:id
func (h *BookHandler) GetBook(c *gin.Context) {
	book, err := h.bookService.GetBook(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrInvalidID) {
			respondError(c, http.StatusBadRequest, "Invalid book ID")
			return
		}
		if errors.Is(err, service.ErrBookNotFound) {
			respondError(c, http.StatusNotFound, "Book not found")
			return
		}
		respondInternal(c, err, "Failed to get book")
		return
	}

	c.JSON(http.StatusOK, book)
}

// AddBook handles POST /books/add
func (h *BookHandler) AddBook(c *gin.Context) {
	var req entity.CreateBookRequest
	if !bindAndValidate(c, h.validator, &req) {
		return
	}

	book, err := h.bookService.AddBook(c.Request.Context(), &req)
	if err != nil {
		respondInternal(c, err, "Failed to add book")
		return
	}

	c.JSON(http.StatusCreated, entity.InsertResponse{Acknowledged: true, InsertedID: book.ID})
}

// DeleteBook handles DELETE /books/:id
func (h *BookHandler) DeleteBook(c *gin.Context) {
	deleted, err := h.bookService.DeleteBook(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrInvalidID) {
			respondError(c, http.StatusBadRequest, "Invalid book ID")
			return
		}
		respondInternal(c, err, "Failed to delete book")
		return
	}

	c.JSON(http.StatusOK, entity.DeleteResponse{Acknowledged: true, DeletedCount: deleted})
}

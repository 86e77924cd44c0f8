package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/akila4352/library-service/internal/models"
	"github.com/akila4352/library-service/internal/service"
	"github.com/gin-gonic/gin"
)

// =============================================================================
// Mock Implementations
// =============================================================================

type mockBookService struct {
	listFunc   func(ctx context.Context) ([]models.Book, error)
	getFunc    func(ctx context.Context, id int64) (*models.Book, error)
	createFunc func(ctx context.Context, req service.CreateBookRequest) (*models.Book, error)
	deleteFunc func(ctx context.Context, id int64) error
}

func (m *mockBookService) List(ctx context.Context) ([]models.Book, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	return nil, errors.New("not implemented")
}

func (m *mockBookService) Get(ctx context.Context, id int64) (*models.Book, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, id)
	}
	return nil, errors.New("not implemented")
}

func (m *mockBookService) Create(ctx context.Context, req service.CreateBookRequest) (*models.Book, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, req)
	}
	return nil, errors.New("not implemented")
}

func (m *mockBookService) Delete(ctx context.Context, id int64) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return errors.New("not implemented")
}

// =============================================================================
// Book Handler Tests
// =============================================================================

func TestListBooks_Success(t *testing.T) {
	handler := NewBookHandler(&mockBookService{
		listFunc: func(ctx context.Context) ([]models.Book, error) {
			return []models.Book{{ID: 1, Title: "Dune", IsAvailable: true}}, nil
		},
	})
	w, c := createTestContext("GET", "/api/books", nil)

	handler.List(c)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}
	var books []map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &books); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if len(books) != 1 || books[0]["title"] != "Dune" || books[0]["is_available"] != true {
		t.Errorf("books = %v", books)
	}
}

func TestListBooks_StorageError(t *testing.T) {
	handler := NewBookHandler(&mockBookService{
		listFunc: func(ctx context.Context) ([]models.Book, error) {
			return nil, fmt.Errorf("%w: timeout", service.ErrStorage)
		},
	})
	w, c := createTestContext("GET", "/api/books", nil)

	handler.List(c)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected status %d, got %d", http.StatusInternalServerError, w.Code)
	}
}

func TestGetBook(t *testing.T) {
	handler := NewBookHandler(&mockBookService{
		getFunc: func(ctx context.Context, id int64) (*models.Book, error) {
			if id == 7 {
				return &models.Book{ID: 7, Title: "Emma"}, nil
			}
			return nil, fmt.Errorf("book %d: %w", id, service.ErrNotFound)
		},
	})

	tests := []struct {
		name       string
		id         string
		wantStatus int
	}{
		{"existing book", "7", http.StatusOK},
		{"unknown book", "8", http.StatusNotFound},
		{"non numeric id", "abc", http.StatusBadRequest},
		{"zero id", "0", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, c := createTestContext("GET", "/api/books/"+tt.id, nil)
			c.Params = gin.Params{{Key: "id", Value: tt.id}}

			handler.Get(c)

			if w.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, w.Code)
			}
		})
	}
}

func TestCreateBook_Success(t *testing.T) {
	var got service.CreateBookRequest
	handler := NewBookHandler(&mockBookService{
		createFunc: func(ctx context.Context, req service.CreateBookRequest) (*models.Book, error) {
			got = req
			return &models.Book{ID: 3, Title: req.Title, ImgSrc: req.ImgSrc, IsAvailable: true}, nil
		},
	})
	w, c := createTestContext("POST", "/api/books", map[string]interface{}{
		"title":        "Dune",
		"description":  "Spice",
		"is_available": false,
		"imgsrc":       "dune.jpg",
	})

	handler.Create(c)

	if w.Code != http.StatusCreated {
		t.Errorf("expected status %d, got %d", http.StatusCreated, w.Code)
	}
	if got.Title != "Dune" || got.ImgSrc != "dune.jpg" || got.IsAvailable == nil || *got.IsAvailable {
		t.Errorf("request not bound: %+v", got)
	}
}

func TestCreateBook_InvalidJSON(t *testing.T) {
	handler := NewBookHandler(&mockBookService{})
	w, c := createTestContext("POST", "/api/books", "{")

	handler.Create(c)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
}

func TestDeleteBook(t *testing.T) {
	handler := NewBookHandler(&mockBookService{
		deleteFunc: func(ctx context.Context, id int64) error {
			if id == 1 {
				return nil
			}
			return fmt.Errorf("%w: record not found", service.ErrStorage)
		},
	})

	tests := []struct {
		name       string
		id         string
		wantStatus int
	}{
		{"existing book", "1", http.StatusOK},
		{"unknown book", "99", http.StatusInternalServerError},
		{"invalid id", "x", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, c := createTestContext("DELETE", "/api/books/"+tt.id, nil)
			c.Params = gin.Params{{Key: "id", Value: tt.id}}

			handler.Delete(c)

			if w.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, w.Code)
			}
		})
	}
}

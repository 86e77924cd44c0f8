package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/akila4352/library-service/internal/middleware"
	"github.com/akila4352/library-service/internal/models"
	"github.com/akila4352/library-service/internal/service"
	"github.com/gin-gonic/gin"
)

// LoanHandler handles borrow and return HTTP requests.
type LoanHandler struct {
	loanService service.LoanService
}

// NewLoanHandler creates a new LoanHandler instance.
func NewLoanHandler(loanService service.LoanService) *LoanHandler {
	return &LoanHandler{loanService: loanService}
}

// BorrowRequest represents the borrow request payload. Identifiers may be
// sent as numbers or numeric strings; dates as RFC 3339 or YYYY-MM-DD.
type BorrowRequest struct {
	UserID     FlexibleID    `json:"userId"`
	BookID     FlexibleID    `json:"bookId"`
	BorrowDate *FlexibleTime `json:"borrowDate"`
	DueDate    *FlexibleTime `json:"dueDate"`
}

// UpdateStatusRequest represents the loan status update payload.
type UpdateStatusRequest struct {
	Status *bool `json:"status"`
}

// UserLoansResponse wraps a user's loans.
type UserLoansResponse struct {
	Books []models.Loan `json:"books"`
}

// Borrow godoc
// @Summary Borrow book
// @Description Create an active loan; rejected while the user holds another
// @Tags loans
// @Accept json
// @Produce json
// @Param request body BorrowRequest true "Loan"
// @Success 201 {object} models.Loan
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /borrow-book [post]
func (h *LoanHandler) Borrow(c *gin.Context) {
	var req BorrowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.UserID > 0 && !actsForUser(c, int64(req.UserID)) {
		RespondError(c, http.StatusForbidden, "forbidden")
		return
	}

	loan, err := h.loanService.Borrow(c.Request.Context(), service.BorrowRequest{
		UserID:     int64(req.UserID),
		BookID:     int64(req.BookID),
		BorrowDate: req.BorrowDate.timePtr(),
		DueDate:    req.DueDate.timePtr(),
	})
	if err != nil {
		respondServiceError(c, err, "failed to borrow book")
		return
	}
	c.JSON(http.StatusCreated, loan)
}

// ListByUser godoc
// @Summary List a user's loans
// @Tags loans
// @Produce json
// @Param userId query int true "User ID"
// @Success 200 {object} UserLoansResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /borrowed-books [get]
func (h *LoanHandler) ListByUser(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Query("userId"), 10, 64)
	if err != nil || userID <= 0 {
		RespondError(c, http.StatusBadRequest, "invalid user id")
		return
	}
	if !actsForUser(c, userID) {
		RespondError(c, http.StatusForbidden, "forbidden")
		return
	}

	loans, err := h.loanService.ListByUser(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err, "failed to fetch borrowed books")
		return
	}
	c.JSON(http.StatusOK, UserLoansResponse{Books: loans})
}

// ListAll godoc
// @Summary List all loans
// @Tags loans
// @Produce json
// @Success 200 {array} models.Loan
// @Failure 500 {object} ErrorResponse
// @Router /borrowedbooks [get]
func (h *LoanHandler) ListAll(c *gin.Context) {
	loans, err := h.loanService.ListAll(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "failed to fetch borrowed books")
		return
	}
	c.JSON(http.StatusOK, loans)
}

// UpdateStatus godoc
// @Summary Update loan status
// @Description Mark a loan returned (status=true) or active again
// @Tags loans
// @Accept json
// @Produce json
// @Param id path int true "Loan ID"
// @Param request body UpdateStatusRequest true "Status"
// @Success 200 {object} models.Loan
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /borrowedbooks/{id} [put]
func (h *LoanHandler) UpdateStatus(c *gin.Context) {
	id, ok := pathID(c, "invalid loan id")
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Status == nil {
		RespondError(c, http.StatusBadRequest, "missing required fields: status")
		return
	}

	loan, err := h.loanService.UpdateStatus(c.Request.Context(), id, *req.Status)
	if err != nil {
		respondServiceError(c, err, "failed to update borrowed book")
		return
	}
	c.JSON(http.StatusOK, loan)
}

// actsForUser reports whether the caller may act for userID. Requests that
// passed no auth middleware carry no claims and are trusted; admins may act
// for anyone.
func actsForUser(c *gin.Context, userID int64) bool {
	claims, ok := middleware.ClaimsFromContext(c)
	if !ok || claims.UserType == models.UserTypeAdmin {
		return true
	}
	return claims.UserID == userID
}

// FlexibleID decodes a JSON number or a numeric string.
type FlexibleID int64

func (id *FlexibleID) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	raw := string(bytes.Trim(data, `"`))
	if raw == "" {
		return nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid identifier %s", data)
	}
	*id = FlexibleID(n)
	return nil
}

// FlexibleTime decodes an RFC 3339 timestamp or a YYYY-MM-DD date.
type FlexibleTime time.Time

var flexibleTimeLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", time.DateOnly}

func (t *FlexibleTime) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("invalid date %s", data)
	}
	for _, layout := range flexibleTimeLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			*t = FlexibleTime(parsed)
			return nil
		}
	}
	return fmt.Errorf("invalid date %q", raw)
}

func (t *FlexibleTime) timePtr() *time.Time {
	if t == nil {
		return nil
	}
	v := time.Time(*t)
	return &v
}

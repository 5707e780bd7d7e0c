package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "pocketplan/internal/errors"
	"pocketplan/internal/models"
	"pocketplan/internal/pagination"
	"pocketplan/internal/services"
)

// BillHandler handles bill-related requests.
type BillHandler struct {
	billService services.BillServicer
}

// NewBillHandler creates a new BillHandler.
func NewBillHandler(billService services.BillServicer) *BillHandler {
	return &BillHandler{billService: billService}
}

// CreateBillRequest represents the request payload for creating a bill.
type CreateBillRequest struct {
	Name       string                `json:"name" binding:"required,min=1,max=100"`
	Amount     decimal.Decimal       `json:"amount"`
	DueDate    time.Time             `json:"due_date" binding:"required"`
	Recurrence models.BillRecurrence `json:"recurrence" binding:"omitempty,bill_recurrence"`
}

// UpdateBillRequest represents the request payload for updating a bill.
type UpdateBillRequest struct {
	Name       string                 `json:"name" binding:"omitempty,min=1,max=100"`
	Amount     *decimal.Decimal       `json:"amount"`
	DueDate    *time.Time             `json:"due_date"`
	Recurrence *models.BillRecurrence `json:"recurrence" binding:"omitempty,bill_recurrence"`
	Paid       *bool                  `json:"paid"`
}

// CreateBill handles adding a bill to a budget.
// @Summary     Create a bill
// @Description Add a bill under a budget
// @Tags        bills
// @Accept      json
// @Produce     json
// @Param       id      path string            true "Budget ID"
// @Param       request body CreateBillRequest true "Bill details"
// @Success     201 {object} models.Bill "Bill created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id}/bills [post]
func (h *BillHandler) CreateBill(c *gin.Context) {
	budgetID, err := parsePathUUID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	bill, err := h.billService.CreateBill(budgetID, req.Name, req.Amount, req.DueDate, req.Recurrence)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"bill": bill})
}

// GetBudgetBills handles listing a budget's bills.
// @Summary     List bills
// @Description Get a paginated list of a budget's bills ordered by due date
// @Tags        bills
// @Produce     json
// @Param       id        path  string true "Budget ID"
// @Param       page      query int    false "Page number (default 1)"
// @Param       page_size query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Bill] "Paginated bills"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id}/bills [get]
func (h *BillHandler) GetBudgetBills(c *gin.Context) {
	budgetID, err := parsePathUUID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.billService.GetBudgetBills(budgetID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetBillByID handles fetching a single bill.
// @Summary     Get a bill
// @Description Get a bill by ID
// @Tags        bills
// @Produce     json
// @Param       id path string true "Bill ID"
// @Success     200 {object} models.Bill "Bill"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Bill not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /bills/{id} [get]
func (h *BillHandler) GetBillByID(c *gin.Context) {
	id, err := parsePathUUID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	bill, err := h.billService.GetBillByID(id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"bill": bill})
}

// UpdateBill handles updating a bill's fields.
// @Summary     Update a bill
// @Description Update the provided fields of a bill
// @Tags        bills
// @Accept      json
// @Produce     json
// @Param       id      path string            true "Bill ID"
// @Param       request body UpdateBillRequest true "Bill fields"
// @Success     200 {object} models.Bill "Updated bill"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Bill not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /bills/{id} [put]
func (h *BillHandler) UpdateBill(c *gin.Context) {
	id, err := parsePathUUID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	bill, err := h.billService.UpdateBill(id, req.Name, req.Amount, req.DueDate, req.Recurrence, req.Paid)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"bill": bill})
}

// DeleteBill handles deleting a bill.
// @Summary     Delete a bill
// @Description Delete a bill
// @Tags        bills
// @Produce     json
// @Param       id path string true "Bill ID"
// @Success     200 {object} map[string]bool "Deletion result"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /bills/{id} [delete]
func (h *BillHandler) DeleteBill(c *gin.Context) {
	id, err := parsePathUUID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	deleted, err := h.billService.DeleteBill(id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}

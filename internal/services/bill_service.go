package services

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "pocketplan/internal/errors"
	"pocketplan/internal/models"
	"pocketplan/internal/pagination"
)

// billService handles bill-related business logic.
type billService struct {
	db *gorm.DB
}

// NewBillService creates a new BillServicer.
func NewBillService(db *gorm.DB) BillServicer {
	return &billService{db: db}
}

// CreateBill adds a bill under a budget. Bills do not touch category
// allocations.
func (s *billService) CreateBill(budgetID, name string, amount decimal.Decimal, dueDate time.Time, recurrence models.BillRecurrence) (*models.Bill, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "bill name is required")
	}
	if !amount.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "bill amount must be greater than zero")
	}
	if !hasCentPrecision(amount) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "bill amount must have at most 2 decimal places")
	}

	var budget models.Budget
	if err := s.db.First(&budget, "id = ?", budgetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBudgetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if recurrence == "" {
		recurrence = models.BillRecurrenceMonthly
	}

	bill := &models.Bill{
		BudgetID:   budgetID,
		Name:       name,
		Amount:     amount,
		DueDate:    dueDate,
		Recurrence: recurrence,
	}
	if err := s.db.Create(bill).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return bill, nil
}

// GetBillByID retrieves a bill by ID.
func (s *billService) GetBillByID(billID string) (*models.Bill, error) {
	var bill models.Bill
	if err := s.db.First(&bill, "id = ?", billID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBillNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &bill, nil
}

// GetBudgetBills returns a paginated list of a budget's bills ordered by
// due date.
func (s *billService) GetBudgetBills(budgetID string, page pagination.PageRequest) (*pagination.PageResponse[models.Bill], error) {
	var budget models.Budget
	if err := s.db.First(&budget, "id = ?", budgetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBudgetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	page.Defaults()

	base := s.db.Model(&models.Bill{}).Where("budget_id = ?", budgetID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var bills []models.Bill
	if err := base.Scopes(pagination.Paginate(page)).
		Order("due_date ASC").
		Find(&bills).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(bills, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// UpdateBill updates the provided fields of a bill.
func (s *billService) UpdateBill(billID, name string, amount *decimal.Decimal, dueDate *time.Time, recurrence *models.BillRecurrence, paid *bool) (*models.Bill, error) {
	bill, err := s.GetBillByID(billID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if name != "" {
		updates["name"] = name
	}
	if amount != nil {
		if !amount.IsPositive() {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "bill amount must be greater than zero")
		}
		if !hasCentPrecision(*amount) {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "bill amount must have at most 2 decimal places")
		}
		updates["amount"] = *amount
	}
	if dueDate != nil {
		updates["due_date"] = *dueDate
	}
	if recurrence != nil {
		updates["recurrence"] = *recurrence
	}
	if paid != nil {
		updates["paid"] = *paid
	}

	if len(updates) > 0 {
		if err := s.db.Model(bill).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return bill, nil
}

// DeleteBill removes a bill. Returns false without error when the bill
// does not exist.
func (s *billService) DeleteBill(billID string) (bool, error) {
	var bill models.Bill
	if err := s.db.First(&bill, "id = ?", billID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if err := s.db.Delete(&bill).Error; err != nil {
		return false, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return true, nil
}

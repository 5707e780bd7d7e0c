package services

import (
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "pocketplan/internal/errors"
	"pocketplan/internal/models"
	"pocketplan/internal/pagination"
	"pocketplan/internal/uuid"
)

// budgetService handles budget-related business logic, including the
// optimistic-concurrency update protocol.
type budgetService struct {
	db *gorm.DB
}

// NewBudgetService creates a new BudgetServicer.
func NewBudgetService(db *gorm.DB) BudgetServicer {
	return &budgetService{db: db}
}

// CreateBudget creates a new budget with a fresh version token and no
// categories. Budget names must be unique among live budgets.
func (s *budgetService) CreateBudget(name string, totalAmount decimal.Decimal) (*models.Budget, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "budget name is required")
	}
	if totalAmount.IsNegative() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "total amount must not be negative")
	}
	if !hasCentPrecision(totalAmount) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "total amount must have at most 2 decimal places")
	}

	var count int64
	if err := s.db.Model(&models.Budget{}).Where("name = ?", name).Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return nil, apperrors.ErrDuplicateBudgetName
	}

	budget := &models.Budget{
		Name:        name,
		TotalAmount: totalAmount,
	}
	if err := s.db.Create(budget).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return budget, nil
}

// GetBudgets returns a paginated list of budgets with their categories
// preloaded so the derived amounts are computable.
func (s *budgetService) GetBudgets(page pagination.PageRequest) (*pagination.PageResponse[models.Budget], error) {
	page.Defaults()

	var totalItems int64
	if err := s.db.Model(&models.Budget{}).Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var budgets []models.Budget
	if err := s.db.Preload("Categories").Scopes(pagination.Paginate(page)).
		Order("created_at DESC").
		Find(&budgets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(budgets, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetBudgetByID returns a budget with its full aggregate loaded:
// categories, their transactions, and bills.
func (s *budgetService) GetBudgetByID(budgetID string) (*models.Budget, error) {
	var budget models.Budget
	err := s.db.Preload("Categories.Transactions").Preload("Bills").
		First(&budget, "id = ?", budgetID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBudgetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &budget, nil
}

// GetBudgetSummary computes the derived financial aggregates for a budget.
// The sums are always computed over a freshly loaded aggregate snapshot;
// nothing here is cached or stored.
func (s *budgetService) GetBudgetSummary(budgetID string) (*BudgetSummary, error) {
	budget, err := s.GetBudgetByID(budgetID)
	if err != nil {
		return nil, err
	}

	return &BudgetSummary{
		BudgetID:              budget.ID,
		Name:                  budget.Name,
		TotalAmount:           budget.TotalAmount,
		TotalAllocated:        budget.TotalAllocated(),
		TotalAllocatedInitial: budget.TotalAllocatedInitial(),
		TotalSpent:            budget.TotalSpent(),
		RemainingAmount:       budget.RemainingAmount(),
	}, nil
}

// UpdateBudget writes new budget fields only if the caller still holds
// the currently stored version token.
//
// The write is a single conditional UPDATE keyed on (id, version), so
// the token comparison and the write are atomic at the storage layer.
// No locks are held between the caller's read and this write; a token
// mismatch is the only conflict signal. When the swap fails the current
// record is re-read to distinguish a concurrent update from a concurrent
// delete, and on a concurrent update the persisted record is returned
// alongside the error so the caller can show the other writer's values.
func (s *budgetService) UpdateBudget(budgetID, name string, totalAmount decimal.Decimal, version string) (*models.Budget, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "budget name is required")
	}
	if totalAmount.IsNegative() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "total amount must not be negative")
	}
	if !hasCentPrecision(totalAmount) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "total amount must have at most 2 decimal places")
	}
	if version == "" {
		return nil, apperrors.ErrBudgetVersionMissing
	}

	newVersion := uuid.New()
	res := s.db.Model(&models.Budget{}).
		Where("id = ? AND version = ?", budgetID, version).
		Updates(map[string]interface{}{
			"name":         name,
			"total_amount": totalAmount,
			"version":      newVersion,
		})
	if res.Error != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
	}

	if res.RowsAffected == 0 {
		return s.resolveUpdateFailure(budgetID)
	}

	return s.GetBudgetByID(budgetID)
}

// resolveUpdateFailure decides why the compare-and-swap matched nothing.
func (s *budgetService) resolveUpdateFailure(budgetID string) (*models.Budget, error) {
	var current models.Budget
	err := s.db.First(&current, "id = ?", budgetID).Error
	if err == nil {
		// Row exists with a different token: someone else won the race.
		return &current, apperrors.ErrBudgetConcurrentUpdate
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	// Soft-deleted row means the budget existed when the caller read it
	// and was deleted underneath them; no row at all means the id was
	// never valid.
	var deleted int64
	if err := s.db.Unscoped().Model(&models.Budget{}).
		Where("id = ? AND deleted_at IS NOT NULL", budgetID).
		Count(&deleted).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if deleted > 0 {
		return nil, apperrors.ErrBudgetDeletedConcurrently
	}
	return nil, apperrors.ErrBudgetNotFound
}

// DeleteBudget removes a budget and cascades to its categories, their
// transactions, and its bills in one database transaction. Returns false
// without error when the budget does not exist.
func (s *budgetService) DeleteBudget(budgetID string) (bool, error) {
	var budget models.Budget
	if err := s.db.First(&budget, "id = ?", budgetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var categoryIDs []string
		if err := tx.Model(&models.Category{}).
			Where("budget_id = ?", budgetID).
			Pluck("id", &categoryIDs).Error; err != nil {
			return err
		}

		if len(categoryIDs) > 0 {
			if err := tx.Where("category_id IN ?", categoryIDs).Delete(&models.Transaction{}).Error; err != nil {
				return err
			}
			if err := tx.Where("budget_id = ?", budgetID).Delete(&models.Category{}).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("budget_id = ?", budgetID).Delete(&models.Bill{}).Error; err != nil {
			return err
		}

		return tx.Delete(&budget).Error
	})
	if err != nil {
		return false, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return true, nil
}

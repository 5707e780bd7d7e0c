package services

import (
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "pocketplan/internal/errors"
	"pocketplan/internal/models"
	"pocketplan/internal/pagination"
)

// categoryService handles category-related business logic. Creation and
// edits that touch a budget's allocation headroom are serialized per
// budget through budgetLocks.
type categoryService struct {
	db          *gorm.DB
	budgetLocks keyedMutex
}

// NewCategoryService creates a new CategoryServicer.
func NewCategoryService(db *gorm.DB) CategoryServicer {
	return &categoryService{db: db}
}

// CreateCategory allocates part of a budget's remaining amount to a new
// category. The headroom check runs against the budget's current
// categories under the per-budget lock, so two concurrent creations
// cannot both pass it.
func (s *categoryService) CreateCategory(budgetID, name string, allocatedAmount decimal.Decimal) (*models.Category, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category name is required")
	}
	if !allocatedAmount.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "allocated amount must be greater than zero")
	}
	if !hasCentPrecision(allocatedAmount) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "allocated amount must have at most 2 decimal places")
	}

	unlock := s.budgetLocks.lock(budgetID)
	defer unlock()

	var budget models.Budget
	err := s.db.Preload("Categories").First(&budget, "id = ?", budgetID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBudgetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if allocatedAmount.GreaterThan(budget.RemainingAmount()) {
		return nil, apperrors.ErrAllocationExceedsBudget
	}

	category := &models.Category{
		BudgetID:               budgetID,
		Name:                   name,
		AllocatedAmount:        allocatedAmount,
		InitialAllocatedAmount: allocatedAmount,
	}
	if err := s.db.Create(category).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return category, nil
}

// GetCategoryByID returns a category with its transactions preloaded.
func (s *categoryService) GetCategoryByID(categoryID string) (*models.Category, error) {
	var category models.Category
	err := s.db.Preload("Transactions").First(&category, "id = ?", categoryID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &category, nil
}

// GetBudgetCategories returns a paginated list of a budget's categories.
func (s *categoryService) GetBudgetCategories(budgetID string, page pagination.PageRequest) (*pagination.PageResponse[models.Category], error) {
	var budget models.Budget
	if err := s.db.First(&budget, "id = ?", budgetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBudgetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	page.Defaults()

	base := s.db.Model(&models.Category{}).Where("budget_id = ?", budgetID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var categories []models.Category
	if err := base.Scopes(pagination.Paginate(page)).Find(&categories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(categories, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// UpdateCategory renames a category and replaces its initial allocated
// amount. The current allocated amount is reset to the new initial
// amount, which reclaims whatever past transactions had consumed for
// remaining-budget accounting while the transactions themselves stay
// persisted and counted in the budget's total spent.
func (s *categoryService) UpdateCategory(categoryID, name string, initialAllocatedAmount decimal.Decimal) (*models.Category, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category name is required")
	}
	if !initialAllocatedAmount.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "allocated amount must be greater than zero")
	}
	if !hasCentPrecision(initialAllocatedAmount) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "allocated amount must have at most 2 decimal places")
	}

	var category models.Category
	err := s.db.First(&category, "id = ?", categoryID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	unlock := s.budgetLocks.lock(category.BudgetID)
	defer unlock()

	err = s.db.Model(&category).Updates(map[string]interface{}{
		"name":                     name,
		"allocated_amount":         initialAllocatedAmount,
		"initial_allocated_amount": initialAllocatedAmount,
	}).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return &category, nil
}

// DeleteCategory removes a category and its transactions. The category's
// initial allocation stops counting against the budget's remaining
// amount, so the headroom it held is returned to the budget. Returns
// false without error when the category does not exist.
func (s *categoryService) DeleteCategory(categoryID string) (bool, error) {
	var category models.Category
	if err := s.db.First(&category, "id = ?", categoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("category_id = ?", categoryID).Delete(&models.Transaction{}).Error; err != nil {
			return err
		}
		return tx.Delete(&category).Error
	})
	if err != nil {
		return false, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return true, nil
}

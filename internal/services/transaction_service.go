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

// transactionService handles transaction-related business logic.
type transactionService struct {
	db *gorm.DB
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(db *gorm.DB) TransactionServicer {
	return &transactionService{db: db}
}

// CreateTransaction posts spending against a category and consumes the
// category's allocated amount by the same value.
//
// The headroom check and the decrement are one conditional UPDATE
// (allocated_amount >= amount in the WHERE clause), so two concurrent
// transactions against the same category cannot both pass the check and
// drive the allocation negative. The decrement and the transaction row
// are committed together or not at all.
func (s *transactionService) CreateTransaction(categoryID, description string, amount decimal.Decimal, date time.Time) (*models.Transaction, error) {
	if description == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "transaction description is required")
	}
	if !amount.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "transaction amount must be greater than zero")
	}
	if !hasCentPrecision(amount) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "transaction amount must have at most 2 decimal places")
	}

	if date.IsZero() {
		date = time.Now()
	}

	var category models.Category
	if err := s.db.First(&category, "id = ?", categoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	transaction := &models.Transaction{
		CategoryID:  categoryID,
		Description: description,
		Amount:      amount,
		Date:        date,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Category{}).
			Where("id = ? AND allocated_amount >= ?", categoryID, amount).
			UpdateColumn("allocated_amount", gorm.Expr("allocated_amount - ?", amount))
		if res.Error != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
		}
		if res.RowsAffected == 0 {
			// The category either lacks headroom or vanished since the
			// lookup above; re-check to report the right failure.
			var count int64
			if err := tx.Model(&models.Category{}).Where("id = ?", categoryID).Count(&count).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
			if count == 0 {
				return apperrors.ErrCategoryNotFound
			}
			return apperrors.ErrTransactionExceedsAllocation
		}

		if err := tx.Create(transaction).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return transaction, nil
}

// GetTransactionByID retrieves a transaction by ID.
func (s *transactionService) GetTransactionByID(transactionID string) (*models.Transaction, error) {
	var transaction models.Transaction
	if err := s.db.First(&transaction, "id = ?", transactionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &transaction, nil
}

// GetCategoryTransactions retrieves a paginated, filtered list of a
// category's transactions, newest first.
func (s *transactionService) GetCategoryTransactions(categoryID string, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	var category models.Category
	if err := s.db.First(&category, "id = ?", categoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	page.Defaults()

	base := s.db.Model(&models.Transaction{}).Where("category_id = ?", categoryID)
	base = applyTransactionFilters(base, filter)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var transactions []models.Transaction
	if err := base.Scopes(pagination.Paginate(page)).
		Order("date DESC").
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(transactions, page.Page, page.PageSize, totalItems)
	return &result, nil
}

func applyTransactionFilters(q *gorm.DB, f TransactionFilter) *gorm.DB {
	if f.FromDate != nil {
		q = q.Where("date >= ?", *f.FromDate)
	}
	if f.ToDate != nil {
		q = q.Where("date <= ?", *f.ToDate)
	}
	if f.MinAmount != nil {
		q = q.Where("amount >= ?", *f.MinAmount)
	}
	if f.MaxAmount != nil {
		q = q.Where("amount <= ?", *f.MaxAmount)
	}
	return q
}

// UpdateTransaction overwrites a transaction's description, amount, and
// date in place. The new amount must differ from the stored one by at
// least a cent after rounding, otherwise the edit is rejected as a
// no-op regardless of description or date changes.
//
// The category's current allocation is not re-validated here: an edit
// can raise the amount past the remaining headroom.
func (s *transactionService) UpdateTransaction(transactionID, description string, amount decimal.Decimal, date time.Time) (*models.Transaction, error) {
	if description == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "transaction description is required")
	}
	if !amount.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "transaction amount must be greater than zero")
	}
	if !hasCentPrecision(amount) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "transaction amount must have at most 2 decimal places")
	}

	transaction, err := s.GetTransactionByID(transactionID)
	if err != nil {
		return nil, err
	}

	diff := amount.Round(2).Sub(transaction.Amount.Round(2)).Abs()
	if diff.LessThan(minAmountChange) {
		return nil, apperrors.ErrNoSignificantChange
	}

	if date.IsZero() {
		date = transaction.Date
	}

	err = s.db.Model(transaction).Updates(map[string]interface{}{
		"description": description,
		"amount":      amount,
		"date":        date,
	}).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return transaction, nil
}

// DeleteTransaction removes a transaction. Absence is tolerated
// silently. The category's consumed allocation is not restored; the
// spend stays permanent for allocation accounting.
func (s *transactionService) DeleteTransaction(transactionID string) error {
	var transaction models.Transaction
	if err := s.db.First(&transaction, "id = ?", transactionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if err := s.db.Delete(&transaction).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"pocketplan/internal/uuid"
)

// Budget is the root aggregate: a named pot of money out of which
// categories are allocated and bills are tracked.
//
// Version is an opaque concurrency token. It is assigned on create and
// replaced by the store on every successful update; UpdateBudget writes
// are accepted only when the caller presents the currently stored token.
type Budget struct {
	Base
	Name        string          `gorm:"not null" json:"name"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"total_amount"`
	Version     string          `gorm:"type:uuid;not null" json:"version"`

	// Relationships
	Categories []Category `gorm:"foreignKey:BudgetID;constraint:OnDelete:CASCADE" json:"categories,omitempty"`
	Bills      []Bill     `gorm:"foreignKey:BudgetID;constraint:OnDelete:CASCADE" json:"bills,omitempty"`
}

// BeforeCreate assigns the primary key and the initial version token.
func (b *Budget) BeforeCreate(tx *gorm.DB) error {
	if err := b.Base.BeforeCreate(tx); err != nil {
		return err
	}
	if b.Version == "" {
		b.Version = uuid.New()
	}
	return nil
}

// The financial aggregates below are derived from the loaded child
// collections and are never stored. Callers must load Categories (and
// their Transactions, for TotalSpent) before reading them.

// TotalAllocated sums the categories' current allocated amounts.
func (b *Budget) TotalAllocated() decimal.Decimal {
	total := decimal.Zero
	for _, c := range b.Categories {
		total = total.Add(c.AllocatedAmount)
	}
	return total
}

// TotalAllocatedInitial sums the categories' initial allocated amounts.
func (b *Budget) TotalAllocatedInitial() decimal.Decimal {
	total := decimal.Zero
	for _, c := range b.Categories {
		total = total.Add(c.InitialAllocatedAmount)
	}
	return total
}

// TotalSpent sums all transactions across the budget's categories.
func (b *Budget) TotalSpent() decimal.Decimal {
	total := decimal.Zero
	for _, c := range b.Categories {
		for _, t := range c.Transactions {
			total = total.Add(t.Amount)
		}
	}
	return total
}

// RemainingAmount is the part of the budget not yet claimed by any
// category's initial allocation. CreateCategory must never drive it
// negative.
func (b *Budget) RemainingAmount() decimal.Decimal {
	return b.TotalAmount.Sub(b.TotalAllocatedInitial())
}

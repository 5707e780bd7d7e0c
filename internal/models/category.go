package models

import "github.com/shopspring/decimal"

// Category is a slice of a budget's total amount reserved for one kind
// of spending.
//
// AllocatedAmount is the live balance: it starts equal to
// InitialAllocatedAmount and decreases as transactions post against the
// category. InitialAllocatedAmount stays fixed between edits and is what
// counts against the owning budget's remaining amount.
type Category struct {
	Base
	BudgetID               string          `gorm:"type:uuid;not null;index" json:"budget_id"`
	Name                   string          `gorm:"not null" json:"name"`
	AllocatedAmount        decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"allocated_amount"`
	InitialAllocatedAmount decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"initial_allocated_amount"`

	// Relationships
	Budget       *Budget       `gorm:"foreignKey:BudgetID" json:"budget,omitempty"`
	Transactions []Transaction `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE" json:"transactions,omitempty"`
}

// Spent sums the category's loaded transactions.
func (c *Category) Spent() decimal.Decimal {
	total := decimal.Zero
	for _, t := range c.Transactions {
		total = total.Add(t.Amount)
	}
	return total
}

package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction records spending against a category. Creating one consumes
// the category's allocated amount; deleting one does not give it back.
type Transaction struct {
	Base
	CategoryID  string          `gorm:"type:uuid;not null;index" json:"category_id"`
	Description string          `gorm:"not null" json:"description"`
	Amount      decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"amount"`
	Date        time.Time       `gorm:"not null" json:"date"`

	// Relationships
	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

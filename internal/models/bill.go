package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BillRecurrence represents how often a bill repeats
type BillRecurrence string

const (
	BillRecurrenceOnce    BillRecurrence = "once"
	BillRecurrenceWeekly  BillRecurrence = "weekly"
	BillRecurrenceMonthly BillRecurrence = "monthly"
	BillRecurrenceYearly  BillRecurrence = "yearly"
)

// Bill is a recurring obligation tracked under a budget. Bills do not
// consume category allocations; they are reminders with an amount and a
// due date.
type Bill struct {
	Base
	BudgetID   string          `gorm:"type:uuid;not null;index" json:"budget_id"`
	Name       string          `gorm:"not null" json:"name"`
	Amount     decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"amount"`
	DueDate    time.Time       `gorm:"not null" json:"due_date"`
	Recurrence BillRecurrence  `gorm:"not null;default:monthly" json:"recurrence"`
	Paid       bool            `gorm:"not null;default:false" json:"paid"`

	// Relationships
	Budget *Budget `gorm:"foreignKey:BudgetID" json:"budget,omitempty"`
}

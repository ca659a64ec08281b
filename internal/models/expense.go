package models

import "time"

// PaymentMethod is how an expense was paid.
type PaymentMethod string

const (
	PaymentCash         PaymentMethod = "cash"
	PaymentCreditCard   PaymentMethod = "credit_card"
	PaymentDebitCard    PaymentMethod = "debit_card"
	PaymentUPI          PaymentMethod = "upi"
	PaymentBankTransfer PaymentMethod = "bank_transfer"
)

// IsValid reports whether p is one of the supported payment methods.
func (p PaymentMethod) IsValid() bool {
	switch p {
	case PaymentCash, PaymentCreditCard, PaymentDebitCard, PaymentUPI, PaymentBankTransfer:
		return true
	}
	return false
}

// Expense is a single spend record. CategoryID is a soft reference: nil means
// uncategorized and a dangling id is tolerated on read.
type Expense struct {
	ID            string        `json:"id"`
	UserID        string        `json:"userId"`
	CategoryID    *string       `json:"categoryId"`
	Amount        float64       `json:"amount"`
	Description   string        `json:"description"`
	Date          string        `json:"date"`
	PaymentMethod PaymentMethod `json:"paymentMethod"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

// ExpenseWithCategory is the read shape of an expense with its category resolved.
type ExpenseWithCategory struct {
	Expense
	Category     *Category `json:"category"`
	CategoryName string    `json:"categoryName"`
}

// WithCategory resolves the soft category reference. A nil category, whether the
// expense has no category id or the id no longer resolves, renders as Uncategorized.
func (e Expense) WithCategory(category *Category) ExpenseWithCategory {
	out := ExpenseWithCategory{Expense: e, CategoryName: UncategorizedName}
	if e.CategoryID != nil && category != nil {
		out.Category = category
		out.CategoryName = category.Name
	}
	return out
}

// ExpenseUpdate is a partial update; nil fields are left unchanged.
// A CategoryID pointing at an empty string clears the category.
type ExpenseUpdate struct {
	CategoryID    *string
	Amount        *float64
	Description   *string
	Date          *string
	PaymentMethod *PaymentMethod
}

// ApplyTo copies the set fields onto e.
func (upd ExpenseUpdate) ApplyTo(e *Expense) {
	if upd.CategoryID != nil {
		if *upd.CategoryID == "" {
			e.CategoryID = nil
		} else {
			id := *upd.CategoryID
			e.CategoryID = &id
		}
	}
	if upd.Amount != nil {
		e.Amount = *upd.Amount
	}
	if upd.Description != nil {
		e.Description = *upd.Description
	}
	if upd.Date != nil {
		e.Date = *upd.Date
	}
	if upd.PaymentMethod != nil {
		e.PaymentMethod = *upd.PaymentMethod
	}
}

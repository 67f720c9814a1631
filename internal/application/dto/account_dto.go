package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateAccountRequest alta de cuenta corriente (proveedor o cliente).
type CreateAccountRequest struct {
	Kind        string          `json:"kind"` // supplier, customer
	Name        string          `json:"name"`
	TaxID       string          `json:"tax_id"`
	Phone       string          `json:"phone"`
	Email       string          `json:"email"`
	CreditLimit decimal.Decimal `json:"credit_limit"`
}

// AccountResponse cuenta corriente con su saldo proyectado.
type AccountResponse struct {
	ID             string          `json:"id"`
	Kind           string          `json:"kind"`
	Name           string          `json:"name"`
	TaxID          string          `json:"tax_id,omitempty"`
	CreditLimit    decimal.Decimal `json:"credit_limit"`
	CurrentBalance decimal.Decimal `json:"current_balance"`
	CreatedAt      time.Time       `json:"created_at"`
}

// RecordMovementRequest cargo, abono o reset sobre una cuenta corriente.
type RecordMovementRequest struct {
	Amount    decimal.Decimal `json:"amount"`
	Reference string          `json:"reference"`
}

// AccountMovementResponse entrada del libro de cuenta corriente.
type AccountMovementResponse struct {
	ID             string          `json:"id"`
	AccountID      string          `json:"account_id"`
	Kind           string          `json:"kind"`
	Amount         decimal.Decimal `json:"amount"`
	Reference      string          `json:"reference"`
	RunningBalance decimal.Decimal `json:"running_balance"`
	CreatedAt      time.Time       `json:"created_at"`
}

// ReconcileResponse resultado de reconstruir el saldo desde el libro.
type ReconcileResponse struct {
	AccountID string          `json:"account_id"`
	Balance   decimal.Decimal `json:"balance"`
}

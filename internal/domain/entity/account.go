package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de cuenta corriente.
const (
	AccountKindSupplier = "supplier" // proveedor (saldo = lo que le debemos)
	AccountKindCustomer = "customer" // cliente a crédito (saldo = lo que nos debe)
)

// Account representa la cuenta corriente de una contraparte (proveedor o cliente).
// CurrentBalance es una proyección del libro de movimientos: solo la escribe
// el camino de Reconcile, nunca se asigna en otro sitio.
type Account struct {
	ID             string
	CompanyID      string
	Kind           string // supplier, customer
	Name           string
	TaxID          string
	Phone          string
	Email          string
	CreditLimit    decimal.Decimal
	CurrentBalance decimal.Decimal
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

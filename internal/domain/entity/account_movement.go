package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de cuenta corriente.
const (
	AccountMovementPurchase = "PURCHASE" // suma al saldo
	AccountMovementPayment  = "PAYMENT"  // resta del saldo
	AccountMovementReset    = "RESET"    // fija el saldo en un valor absoluto
)

// AccountMovement es una entrada inmutable del libro de cuenta corriente.
// RunningBalance es el saldo inmediatamente después de aplicar esta entrada;
// se guarda para auditoría pero no es autoritativo: el saldo real siempre
// sale de reproducir el libro en orden (CreatedAt, Seq).
type AccountMovement struct {
	ID             string
	Seq            int64
	AccountID      string
	Kind           string // PURCHASE, PAYMENT, RESET
	Amount         decimal.Decimal
	Reference      string // ID de compra u otra referencia libre
	RunningBalance decimal.Decimal
	CreatedAt      time.Time
	CreatedBy      string
}

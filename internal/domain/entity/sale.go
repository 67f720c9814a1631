package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una venta.
const (
	SaleStatusDraft     = "DRAFT"
	SaleStatusFinalized = "FINALIZED" // terminal
)

// Sale representa una venta de mostrador con sus renglones.
// El total siempre se recalcula como suma de subtotales al finalizar.
type Sale struct {
	ID         string
	CompanyID  string
	PharmacyID string
	CustomerID string // opcional, vacío para venta de contado sin cliente
	Status     string
	Total      decimal.Decimal
	Lines      []SaleLine
	CreatedAt  time.Time
	UpdatedAt  time.Time
	CreatedBy  string
}

// SaleLine renglón de una venta. Subtotal es derivado (Quantity × UnitPrice),
// nunca se acepta del cliente.
type SaleLine struct {
	ID         string
	SaleID     string
	MedicineID string
	Quantity   int64
	UnitPrice  decimal.Decimal
	Subtotal   decimal.Decimal
}

// ComputeSubtotal recalcula el subtotal derivado del renglón.
func (l *SaleLine) ComputeSubtotal() {
	l.Subtotal = decimal.NewFromInt(l.Quantity).Mul(l.UnitPrice)
}

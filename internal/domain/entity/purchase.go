package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una compra.
const (
	PurchaseStatusDraft     = "DRAFT"
	PurchaseStatusFinalized = "FINALIZED" // terminal, pero anulable vía Delete
)

// Purchase representa una compra a proveedor con sus renglones.
type Purchase struct {
	ID         string
	CompanyID  string
	PharmacyID string
	SupplierID string // Account de tipo supplier
	Status     string
	Total      decimal.Decimal
	Lines      []PurchaseLine
	CreatedAt  time.Time
	UpdatedAt  time.Time
	CreatedBy  string
}

// PurchaseLine renglón de una compra. Subtotal derivado de Quantity × UnitCost.
type PurchaseLine struct {
	ID         string
	PurchaseID string
	MedicineID string
	Quantity   int64
	UnitCost   decimal.Decimal
	Subtotal   decimal.Decimal
}

// ComputeSubtotal recalcula el subtotal derivado del renglón.
func (l *PurchaseLine) ComputeSubtotal() {
	l.Subtotal = decimal.NewFromInt(l.Quantity).Mul(l.UnitCost)
}

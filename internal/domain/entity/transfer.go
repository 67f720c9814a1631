package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un traslado entre farmacias.
// PENDING → APPROVED | REJECTED; un traslado APPROVED se procesa (Completed=true)
// y puede revertirse, lo que lo regresa a PENDING con Completed=false.
const (
	TransferStatusPending  = "PENDING"
	TransferStatusApproved = "APPROVED"
	TransferStatusRejected = "REJECTED"
)

// Transfer representa un traslado de stock de una farmacia origen a una destino,
// con flujo de aprobación previo al movimiento físico.
type Transfer struct {
	ID               string
	CompanyID        string
	SourcePharmacyID string
	DestPharmacyID   string
	Status           string
	Completed        bool // true solo después de Process y antes de Reverse
	RejectReason     string
	Total            decimal.Decimal
	Lines            []TransferLine
	CreatedAt        time.Time
	UpdatedAt        time.Time
	CreatedBy        string
	ApprovedBy       string
	CompletedAt      *time.Time
}

// TransferLine renglón de un traslado. El costo unitario se toma del StockAccount
// origen al momento de procesar.
type TransferLine struct {
	ID         string
	TransferID string
	MedicineID string
	Quantity   int64
	UnitCost   decimal.Decimal
	Subtotal   decimal.Decimal
}

// ComputeSubtotal recalcula el subtotal derivado del renglón.
func (l *TransferLine) ComputeSubtotal() {
	l.Subtotal = decimal.NewFromInt(l.Quantity).Mul(l.UnitCost)
}

// CanApprove indica si el traslado admite aprobación (solo desde PENDING).
func (t *Transfer) CanApprove() bool { return t.Status == TransferStatusPending && !t.Completed }

// CanReject indica si el traslado admite rechazo (solo desde PENDING).
func (t *Transfer) CanReject() bool { return t.Status == TransferStatusPending && !t.Completed }

// CanProcess indica si el traslado puede ejecutarse (aprobado y no completado).
func (t *Transfer) CanProcess() bool { return t.Status == TransferStatusApproved && !t.Completed }

// CanReverse indica si el traslado puede revertirse (ya completado).
func (t *Transfer) CanReverse() bool { return t.Completed }

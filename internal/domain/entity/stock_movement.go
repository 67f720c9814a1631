package entity

import "time"

// Direcciones de un movimiento de stock.
const (
	DirectionIn     = "IN"     // entrada
	DirectionOut    = "OUT"    // salida
	DirectionAdjust = "ADJUST" // ajuste manual
)

// Motivos de movimiento de stock.
const (
	ReasonSale        = "SALE"
	ReasonPurchase    = "PURCHASE"
	ReasonTransferIn  = "TRANSFER_IN"
	ReasonTransferOut = "TRANSFER_OUT"
	ReasonAdjustment  = "ADJUSTMENT"
	ReasonExpired     = "EXPIRED"
	ReasonDamaged     = "DAMAGED"
)

// RefKind identifica el tipo de documento que originó un movimiento.
type RefKind string

// Tipos de referencia de origen (variante etiquetada, exactamente una).
const (
	RefSale     RefKind = "sale"
	RefPurchase RefKind = "purchase"
	RefTransfer RefKind = "transfer"
	RefManual   RefKind = "manual"
)

// Reference apunta al documento comercial que causó un movimiento de libro.
// Para ajustes manuales Kind es RefManual e ID queda vacío.
type Reference struct {
	Kind RefKind
	ID   string
}

// ManualRef referencia para movimientos sin documento de origen.
func ManualRef() Reference { return Reference{Kind: RefManual} }

// StockMovement es una entrada inmutable del libro de stock (append-only).
// Invariante: QuantityAfter = QuantityBefore ± Quantity según Direction, y QuantityAfter >= 0.
// Seq lo asigna la base de datos (secuencia monótona) y desempata movimientos
// con el mismo CreatedAt al reconstruir historia.
type StockMovement struct {
	ID             string
	Seq            int64
	StockAccountID string
	PharmacyID     string
	MedicineID     string
	Direction      string // IN, OUT, ADJUST
	Quantity       int64  // cantidad movida, siempre positiva
	QuantityBefore int64
	QuantityAfter  int64
	Reason         string // SALE, PURCHASE, TRANSFER_IN, ...
	Actor          string // UserID, puede quedar vacío en procesos del sistema
	Ref            Reference
	CreatedAt      time.Time
}

// SignedQuantity devuelve la cantidad con signo según la dirección.
func (m *StockMovement) SignedQuantity() int64 {
	if m.Direction == DirectionOut {
		return -m.Quantity
	}
	return m.Quantity
}

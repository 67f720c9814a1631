package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// LineItemRequest renglón de venta/compra/traslado. El subtotal siempre se
// deriva en el servidor; no se acepta del cliente.
type LineItemRequest struct {
	MedicineID string           `json:"medicine_id"`
	Quantity   int64            `json:"quantity"`
	UnitPrice  *decimal.Decimal `json:"unit_price,omitempty"` // ventas; vacío = precio de cuenta/catálogo
	UnitCost   *decimal.Decimal `json:"unit_cost,omitempty"`  // compras
}

// LineItemResponse renglón persistido con subtotal derivado.
type LineItemResponse struct {
	ID         string          `json:"id"`
	MedicineID string          `json:"medicine_id"`
	Quantity   int64           `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price,omitempty"`
	UnitCost   decimal.Decimal `json:"unit_cost,omitempty"`
	Subtotal   decimal.Decimal `json:"subtotal"`
}

// CreateSaleRequest crea una venta en borrador.
type CreateSaleRequest struct {
	PharmacyID string            `json:"pharmacy_id"`
	CustomerID string            `json:"customer_id,omitempty"`
	Items      []LineItemRequest `json:"items"`
}

// SaleResponse venta con renglones.
type SaleResponse struct {
	ID         string             `json:"id"`
	PharmacyID string             `json:"pharmacy_id"`
	CustomerID string             `json:"customer_id,omitempty"`
	Status     string             `json:"status"`
	Total      decimal.Decimal    `json:"total"`
	Lines      []LineItemResponse `json:"lines"`
	CreatedAt  time.Time          `json:"created_at"`
}

// CreatePurchaseRequest crea una compra en borrador.
type CreatePurchaseRequest struct {
	PharmacyID string            `json:"pharmacy_id"`
	SupplierID string            `json:"supplier_id"`
	Items      []LineItemRequest `json:"items"`
}

// UpdatePurchaseLinesRequest edición de compra: revertir efectos viejos y aplicar nuevos.
type UpdatePurchaseLinesRequest struct {
	Items []LineItemRequest `json:"items"`
}

// PurchaseResponse compra con renglones.
type PurchaseResponse struct {
	ID         string             `json:"id"`
	PharmacyID string             `json:"pharmacy_id"`
	SupplierID string             `json:"supplier_id"`
	Status     string             `json:"status"`
	Total      decimal.Decimal    `json:"total"`
	Lines      []LineItemResponse `json:"lines"`
	CreatedAt  time.Time          `json:"created_at"`
}

// CreateTransferRequest crea un traslado en estado PENDING.
type CreateTransferRequest struct {
	SourcePharmacyID string            `json:"source_pharmacy_id"`
	DestPharmacyID   string            `json:"dest_pharmacy_id"`
	Items            []LineItemRequest `json:"items"`
}

// RejectTransferRequest rechazo con motivo.
type RejectTransferRequest struct {
	Reason string `json:"reason"`
}

// TransferResponse traslado con renglones.
type TransferResponse struct {
	ID               string             `json:"id"`
	SourcePharmacyID string             `json:"source_pharmacy_id"`
	DestPharmacyID   string             `json:"dest_pharmacy_id"`
	Status           string             `json:"status"`
	Completed        bool               `json:"completed"`
	RejectReason     string             `json:"reject_reason,omitempty"`
	Total            decimal.Decimal    `json:"total"`
	Lines            []LineItemResponse `json:"lines"`
	CreatedAt        time.Time          `json:"created_at"`
	CompletedAt      *time.Time         `json:"completed_at,omitempty"`
}

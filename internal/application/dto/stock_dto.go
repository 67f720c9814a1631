package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// AddStockRequest entrada de stock manual (recepción fuera de compra).
type AddStockRequest struct {
	PharmacyID string           `json:"pharmacy_id"`
	MedicineID string           `json:"medicine_id"`
	Quantity   int64            `json:"quantity"`
	UnitCost   *decimal.Decimal `json:"unit_cost,omitempty"`
	UnitPrice  *decimal.Decimal `json:"unit_price,omitempty"`
}

// AdjustStockRequest ajuste manual con cantidad con signo (positiva entra, negativa sale).
type AdjustStockRequest struct {
	PharmacyID string `json:"pharmacy_id"`
	MedicineID string `json:"medicine_id"`
	Quantity   int64  `json:"quantity"`
	Reason     string `json:"reason"` // ADJUSTMENT, EXPIRED, DAMAGED
}

// StockMovementResponse entrada del libro de stock.
type StockMovementResponse struct {
	ID             string    `json:"id"`
	PharmacyID     string    `json:"pharmacy_id"`
	MedicineID     string    `json:"medicine_id"`
	Direction      string    `json:"direction"`
	Quantity       int64     `json:"quantity"`
	QuantityBefore int64     `json:"quantity_before"`
	QuantityAfter  int64     `json:"quantity_after"`
	Reason         string    `json:"reason"`
	Actor          string    `json:"actor,omitempty"`
	RefKind        string    `json:"ref_kind"`
	RefID          string    `json:"ref_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// StockAccountResponse existencias actuales de un medicamento en una farmacia.
type StockAccountResponse struct {
	PharmacyID   string          `json:"pharmacy_id"`
	MedicineID   string          `json:"medicine_id"`
	Quantity     int64           `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	UnitCost     decimal.Decimal `json:"unit_cost"`
	MinimumLevel int64           `json:"minimum_level"`
	UnitsSold    int64           `json:"units_sold"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// QuantityAsOfResponse cantidad histórica reconstruida a un instante.
type QuantityAsOfResponse struct {
	PharmacyID string    `json:"pharmacy_id"`
	MedicineID string    `json:"medicine_id"`
	AsOf       time.Time `json:"as_of"`
	Quantity   int64     `json:"quantity"`
}

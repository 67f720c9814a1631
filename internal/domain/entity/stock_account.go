package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockAccount representa la existencia actual de un medicamento en una farmacia
// (proyección materializada del libro de movimientos, clave farmacia+medicamento).
// La cantidad solo se muta a través de un append en el libro, nunca directamente.
type StockAccount struct {
	ID           string
	PharmacyID   string
	MedicineID   string
	Quantity     int64 // unidades, nunca negativa
	UnitPrice    decimal.Decimal
	UnitCost     decimal.Decimal
	MinimumLevel int64 // punto de reorden
	UnitsSold    int64 // contador acumulado, solo incrementa con motivo SALE
	UpdatedAt    time.Time
}

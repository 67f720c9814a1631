package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Medicine representa un medicamento del catálogo (identidad inmutable por empresa).
// El stock por farmacia vive en StockAccount; aquí solo identidad y precios de referencia.
type Medicine struct {
	ID                   string
	CompanyID            string
	SKU                  string // código único por empresa (barras o interno)
	Name                 string
	Presentation         string // tabletas, jarabe, ampolla, etc.
	Concentration        string
	Price                decimal.Decimal // precio de venta sugerido
	Cost                 decimal.Decimal // costo de compra de referencia
	RequiresPrescription bool
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

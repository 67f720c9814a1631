package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateCompanyRequest alta de empresa (tenant).
type CreateCompanyRequest struct {
	Name    string `json:"name"`
	NIT     string `json:"nit"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
}

// CompanyResponse empresa.
type CompanyResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	NIT       string    `json:"nit,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// CreatePharmacyRequest alta de farmacia/sede.
type CreatePharmacyRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

// UpdatePharmacyRequest actualización parcial de farmacia.
type UpdatePharmacyRequest struct {
	Name    *string `json:"name"`
	Address *string `json:"address"`
	Phone   *string `json:"phone"`
}

// PharmacyResponse farmacia/sede.
type PharmacyResponse struct {
	ID        string    `json:"id"`
	CompanyID string    `json:"company_id"`
	Name      string    `json:"name"`
	Address   string    `json:"address,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// PharmacyListResponse listado paginado de farmacias.
type PharmacyListResponse struct {
	Items []PharmacyResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// CreateMedicineRequest alta de medicamento en el catálogo.
type CreateMedicineRequest struct {
	SKU                  string          `json:"sku"`
	Name                 string          `json:"name"`
	Presentation         string          `json:"presentation"`
	Concentration        string          `json:"concentration"`
	Price                decimal.Decimal `json:"price"`
	Cost                 decimal.Decimal `json:"cost"`
	RequiresPrescription bool            `json:"requires_prescription"`
}

// UpdateMedicineRequest actualización parcial de medicamento.
type UpdateMedicineRequest struct {
	Name         *string          `json:"name"`
	Presentation *string          `json:"presentation"`
	Price        *decimal.Decimal `json:"price"`
	Cost         *decimal.Decimal `json:"cost"`
}

// MedicineResponse medicamento del catálogo.
type MedicineResponse struct {
	ID                   string          `json:"id"`
	SKU                  string          `json:"sku"`
	Name                 string          `json:"name"`
	Presentation         string          `json:"presentation,omitempty"`
	Concentration        string          `json:"concentration,omitempty"`
	Price                decimal.Decimal `json:"price"`
	Cost                 decimal.Decimal `json:"cost"`
	RequiresPrescription bool            `json:"requires_prescription"`
	CreatedAt            time.Time       `json:"created_at"`
}

// MedicineListResponse listado paginado de medicamentos.
type MedicineListResponse struct {
	Items []MedicineResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

package repository

import "github.com/tu-usuario/botica-api/internal/domain/entity"

// SaleRepository define el puerto de persistencia para ventas y sus renglones.
type SaleRepository interface {
	// Create persiste cabecera y renglones.
	Create(sale *entity.Sale) error
	// GetByID obtiene la venta con sus renglones.
	GetByID(id string) (*entity.Sale, error)
	// Update persiste cambios de cabecera y subtotales de renglones (status, total).
	Update(sale *entity.Sale) error
	ListByPharmacy(pharmacyID string, limit, offset int) ([]*entity.Sale, error)
}

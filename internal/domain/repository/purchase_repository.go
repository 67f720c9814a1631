package repository

import "github.com/tu-usuario/botica-api/internal/domain/entity"

// PurchaseRepository define el puerto de persistencia para compras y sus renglones.
type PurchaseRepository interface {
	Create(purchase *entity.Purchase) error
	GetByID(id string) (*entity.Purchase, error)
	Update(purchase *entity.Purchase) error
	// ReplaceLines reemplaza los renglones (edición = borrar y recrear efectos).
	ReplaceLines(purchaseID string, lines []entity.PurchaseLine) error
	// Delete elimina cabecera y renglones (anulación).
	Delete(id string) error
	ListByPharmacy(pharmacyID string, limit, offset int) ([]*entity.Purchase, error)
}

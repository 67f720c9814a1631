package repository

import "github.com/tu-usuario/botica-api/internal/domain/entity"

// MedicineRepository define el puerto de persistencia para el catálogo de medicamentos.
type MedicineRepository interface {
	Create(medicine *entity.Medicine) error
	GetByID(id string) (*entity.Medicine, error)
	GetBySKU(companyID, sku string) (*entity.Medicine, error)
	ListByCompany(companyID string, limit, offset int) ([]*entity.Medicine, error)
	Update(medicine *entity.Medicine) error
}

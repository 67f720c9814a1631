package repository

import "github.com/tu-usuario/botica-api/internal/domain/entity"

// PharmacyRepository define el puerto de persistencia para farmacias/sedes.
type PharmacyRepository interface {
	Create(pharmacy *entity.Pharmacy) error
	GetByID(id string) (*entity.Pharmacy, error)
	ListByCompany(companyID string, limit, offset int) ([]*entity.Pharmacy, error)
	Update(pharmacy *entity.Pharmacy) error
	Delete(id string) error
}

package repository

import "github.com/tu-usuario/botica-api/internal/domain/entity"

// TransferRepository define el puerto de persistencia para traslados entre farmacias.
type TransferRepository interface {
	Create(transfer *entity.Transfer) error
	GetByID(id string) (*entity.Transfer, error)
	// Update persiste status, completed y totales de la cabecera y costos de renglones.
	Update(transfer *entity.Transfer) error
	ListByCompany(companyID string, limit, offset int) ([]*entity.Transfer, error)
}

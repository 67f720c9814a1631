package repository

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/botica-api/internal/domain/entity"
)

// AccountRepository define el puerto de persistencia para cuentas corrientes.
type AccountRepository interface {
	Create(account *entity.Account) error
	GetByID(id string) (*entity.Account, error)
	// GetForUpdate bloquea la fila de la cuenta (SELECT FOR UPDATE) para que
	// Reconcile lea un snapshot consistente frente a appends concurrentes.
	GetForUpdate(id string) (*entity.Account, error)
	ListByCompany(companyID, kind string, limit, offset int) ([]*entity.Account, error)
	// UpdateBalance es el único camino de escritura de CurrentBalance (Reconcile).
	UpdateBalance(id string, balance decimal.Decimal, at time.Time) error
}

package stock

import (
	"context"

	"github.com/tu-usuario/botica-api/internal/domain/repository"
)

// Repos agrupa los repositorios atados a una misma transacción de BD.
// El procesador de transacciones comerciales (ventas, compras, traslados)
// combina libro de stock y libro de cuenta corriente en un solo scope atómico.
type Repos struct {
	StockAccounts    repository.StockAccountRepository
	StockMovements   repository.StockMovementRepository
	Accounts         repository.AccountRepository
	AccountMovements repository.AccountMovementRepository
	Sales            repository.SaleRepository
	Purchases        repository.PurchaseRepository
	Transfers        repository.TransferRepository
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Commit si fn retorna nil, Rollback si no:
// o todos los efectos de una operación quedan aplicados, o ninguno.
type TxRunner interface {
	Run(ctx context.Context, fn func(r Repos) error) error
}

package repository

import (
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/botica-api/internal/domain/entity"
)

// AccountMovementRepository define el puerto de persistencia del libro de cuenta corriente.
type AccountMovementRepository interface {
	// Create persiste el movimiento y asigna movement.Seq desde la secuencia de la DB.
	Create(movement *entity.AccountMovement) error
	// ListByAccount devuelve todos los movimientos de la cuenta en orden
	// (created_at, seq) ascendente; idéntico al orden de inserción original.
	ListByAccount(accountID string) ([]*entity.AccountMovement, error)
	// UpdateRunningBalance reescribe el saldo corrido de auditoría de una entrada.
	UpdateRunningBalance(id string, balance decimal.Decimal) error
	// DeleteByReference elimina los movimientos del tipo indicado cuya
	// referencia coincide (anulación de compra: solo el cargo PURCHASE; los
	// abonos contra esa referencia sobreviven) y devuelve cuántos se eliminaron.
	DeleteByReference(accountID, reference, kind string) (int64, error)
}

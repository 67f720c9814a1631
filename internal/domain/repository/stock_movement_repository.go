package repository

import (
	"time"

	"github.com/tu-usuario/botica-api/internal/domain/entity"
)

// StockMovementRepository define el puerto de persistencia del libro de stock.
// Las entradas son inmutables: solo Create y lecturas ordenadas.
type StockMovementRepository interface {
	// Create persiste el movimiento y asigna movement.Seq desde la secuencia de la DB.
	Create(movement *entity.StockMovement) error
	GetByID(id string) (*entity.StockMovement, error)
	// ListByAccountUpTo devuelve los movimientos de una cuenta de stock con
	// CreatedAt <= upTo (todos si upTo es nil), en orden (created_at, seq) ascendente.
	ListByAccountUpTo(pharmacyID, medicineID string, upTo *time.Time) ([]*entity.StockMovement, error)
	ListByPharmacy(pharmacyID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error)
}

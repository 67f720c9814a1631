package repository

import "github.com/tu-usuario/botica-api/internal/domain/entity"

// StockAccountRepository define el puerto para la proyección de existencias
// por farmacia+medicamento. Se usa dentro de transacciones para garantizar
// consistencia: toda mutación de Quantity va acompañada de un append en el libro.
type StockAccountRepository interface {
	// Get obtiene la cuenta de stock; si no existe devuelve una cuenta nueva
	// con cantidad cero y sin ID (creación perezosa al primer movimiento).
	Get(pharmacyID, medicineID string) (*entity.StockAccount, error)
	// GetForUpdate igual que Get pero bloquea la fila hasta el fin de la
	// transacción. Contrato: si la cuenta aún no existe, la implementación
	// debe garantizar exclusión igualmente (materializar la fila antes de
	// bloquearla); dos primeros movimientos concurrentes no pueden leer
	// ambos cantidad cero. Solo es válido dentro de una transacción.
	GetForUpdate(pharmacyID, medicineID string) (*entity.StockAccount, error)
	Upsert(account *entity.StockAccount) error
	ListByPharmacy(pharmacyID string, limit, offset int) ([]*entity.StockAccount, error)
}

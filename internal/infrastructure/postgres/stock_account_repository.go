package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/botica-api/internal/domain/entity"
	"github.com/tu-usuario/botica-api/internal/domain/repository"
)

var _ repository.StockAccountRepository = (*StockAccountRepo)(nil)

// StockAccountRepo implementación de StockAccountRepository sobre PostgreSQL (usable con pool o tx).
type StockAccountRepo struct {
	q Querier
}

// NewStockAccountRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockAccountRepository(q Querier) *StockAccountRepo {
	return &StockAccountRepo{q: q}
}

const stockAccountColumns = `id, pharmacy_id, medicine_id, quantity, unit_price, unit_cost, minimum_level, units_sold, updated_at`

// Get obtiene la cuenta de stock de un medicamento en una farmacia.
// Si no existe devuelve una cuenta nueva sin ID y cantidad cero.
func (r *StockAccountRepo) Get(pharmacyID, medicineID string) (*entity.StockAccount, error) {
	query := `
		SELECT ` + stockAccountColumns + `
		FROM stock_accounts WHERE pharmacy_id = $1 AND medicine_id = $2`
	return r.scanOne(query, pharmacyID, medicineID)
}

// GetForUpdate obtiene la cuenta y bloquea su fila (SELECT FOR UPDATE).
// Materializa primero la fila si no existe: FOR UPDATE sobre cero filas no
// bloquea nada, y dos primeros movimientos concurrentes sobre la misma
// (farmacia, medicamento) leerían ambos cantidad cero y el upsert tardío
// pisaría al temprano. Debe invocarse dentro de una transacción.
func (r *StockAccountRepo) GetForUpdate(pharmacyID, medicineID string) (*entity.StockAccount, error) {
	materialize := `
		INSERT INTO stock_accounts (id, pharmacy_id, medicine_id, quantity, unit_price, unit_cost, minimum_level, units_sold, updated_at)
		VALUES ($1, $2, $3, 0, 0, 0, 0, 0, NOW())
		ON CONFLICT (pharmacy_id, medicine_id) DO NOTHING`
	if _, err := r.q.Exec(context.Background(), materialize, uuid.New().String(), pharmacyID, medicineID); err != nil {
		return nil, fmt.Errorf("materialize stock account: %w", err)
	}
	query := `
		SELECT ` + stockAccountColumns + `
		FROM stock_accounts WHERE pharmacy_id = $1 AND medicine_id = $2
		FOR UPDATE`
	return r.scanOne(query, pharmacyID, medicineID)
}

func (r *StockAccountRepo) scanOne(query, pharmacyID, medicineID string) (*entity.StockAccount, error) {
	var a entity.StockAccount
	err := r.q.QueryRow(context.Background(), query, pharmacyID, medicineID).Scan(
		&a.ID, &a.PharmacyID, &a.MedicineID, &a.Quantity,
		&a.UnitPrice, &a.UnitCost, &a.MinimumLevel, &a.UnitsSold, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.StockAccount{PharmacyID: pharmacyID, MedicineID: medicineID}, nil
		}
		return nil, fmt.Errorf("get stock account: %w", err)
	}
	return &a, nil
}

// Upsert inserta o actualiza la cuenta (clave farmacia+medicamento).
func (r *StockAccountRepo) Upsert(account *entity.StockAccount) error {
	query := `
		INSERT INTO stock_accounts (id, pharmacy_id, medicine_id, quantity, unit_price, unit_cost, minimum_level, units_sold, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (pharmacy_id, medicine_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, unit_price = EXCLUDED.unit_price,
			unit_cost = EXCLUDED.unit_cost, minimum_level = EXCLUDED.minimum_level,
			units_sold = EXCLUDED.units_sold, updated_at = EXCLUDED.updated_at`
	_, err := r.q.Exec(context.Background(), query,
		account.ID, account.PharmacyID, account.MedicineID, account.Quantity,
		account.UnitPrice, account.UnitCost, account.MinimumLevel, account.UnitsSold, account.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert stock account: %w", err)
	}
	return nil
}

// ListByPharmacy lista las cuentas de stock de una farmacia.
func (r *StockAccountRepo) ListByPharmacy(pharmacyID string, limit, offset int) ([]*entity.StockAccount, error) {
	query := `
		SELECT ` + stockAccountColumns + `
		FROM stock_accounts WHERE pharmacy_id = $1
		ORDER BY medicine_id LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, pharmacyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list stock accounts: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockAccount
	for rows.Next() {
		var a entity.StockAccount
		if err := rows.Scan(&a.ID, &a.PharmacyID, &a.MedicineID, &a.Quantity,
			&a.UnitPrice, &a.UnitCost, &a.MinimumLevel, &a.UnitsSold, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan stock account: %w", err)
		}
		list = append(list, &a)
	}
	return list, rows.Err()
}

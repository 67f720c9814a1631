package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/botica-api/internal/domain/entity"
	"github.com/tu-usuario/botica-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo implementación del libro de stock sobre PostgreSQL (usable con pool o tx).
// Las filas son inmutables: solo INSERT y SELECT.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

const stockMovementColumns = `id, seq, stock_account_id, pharmacy_id, medicine_id, direction, quantity, quantity_before, quantity_after, reason, actor, ref_kind, ref_id, created_at`

// Create persiste el movimiento; seq lo asigna la secuencia de la tabla (BIGSERIAL).
func (r *StockMovementRepo) Create(movement *entity.StockMovement) error {
	query := `
		INSERT INTO stock_movements (id, stock_account_id, pharmacy_id, medicine_id, direction, quantity, quantity_before, quantity_after, reason, actor, ref_kind, ref_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING seq`
	actor := (*string)(nil)
	if movement.Actor != "" {
		actor = &movement.Actor
	}
	err := r.q.QueryRow(context.Background(), query,
		movement.ID, movement.StockAccountID, movement.PharmacyID, movement.MedicineID,
		movement.Direction, movement.Quantity, movement.QuantityBefore, movement.QuantityAfter,
		movement.Reason, actor, string(movement.Ref.Kind), movement.Ref.ID, movement.CreatedAt,
	).Scan(&movement.Seq)
	if err != nil {
		return fmt.Errorf("create stock movement: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID.
func (r *StockMovementRepo) GetByID(id string) (*entity.StockMovement, error) {
	query := `
		SELECT ` + stockMovementColumns + `
		FROM stock_movements WHERE id = $1`
	m, err := scanStockMovement(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock movement: %w", err)
	}
	return m, nil
}

// ListByAccountUpTo devuelve los movimientos de una cuenta hasta un instante
// (todos si upTo es nil), en orden (created_at, seq) ascendente.
func (r *StockMovementRepo) ListByAccountUpTo(pharmacyID, medicineID string, upTo *time.Time) ([]*entity.StockMovement, error) {
	query := `
		SELECT ` + stockMovementColumns + `
		FROM stock_movements WHERE pharmacy_id = $1 AND medicine_id = $2`
	args := []any{pharmacyID, medicineID}
	if upTo != nil {
		query += " AND created_at <= $3"
		args = append(args, *upTo)
	}
	query += " ORDER BY created_at ASC, seq ASC"
	return r.list(query, args...)
}

// ListByPharmacy lista movimientos de una farmacia en un rango de fechas.
func (r *StockMovementRepo) ListByPharmacy(pharmacyID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	query := `
		SELECT ` + stockMovementColumns + `
		FROM stock_movements WHERE pharmacy_id = $1`
	args := []any{pharmacyID}
	pos := 2
	if from != nil {
		query += fmt.Sprintf(" AND created_at >= $%d", pos)
		args = append(args, *from)
		pos++
	}
	if to != nil {
		query += fmt.Sprintf(" AND created_at <= $%d", pos)
		args = append(args, *to)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY created_at ASC, seq ASC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)
	return r.list(query, args...)
}

func (r *StockMovementRepo) list(query string, args ...any) ([]*entity.StockMovement, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockMovement
	for rows.Next() {
		m, err := scanStockMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock movement: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

func scanStockMovement(row pgx.Row) (*entity.StockMovement, error) {
	var m entity.StockMovement
	var actor *string
	var refKind string
	if err := row.Scan(&m.ID, &m.Seq, &m.StockAccountID, &m.PharmacyID, &m.MedicineID,
		&m.Direction, &m.Quantity, &m.QuantityBefore, &m.QuantityAfter,
		&m.Reason, &actor, &refKind, &m.Ref.ID, &m.CreatedAt); err != nil {
		return nil, err
	}
	if actor != nil {
		m.Actor = *actor
	}
	m.Ref.Kind = entity.RefKind(refKind)
	return &m, nil
}

package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/botica-api/internal/domain/entity"
	"github.com/tu-usuario/botica-api/internal/domain/repository"
)

var _ repository.AccountMovementRepository = (*AccountMovementRepo)(nil)

// AccountMovementRepo implementación del libro de cuenta corriente sobre PostgreSQL
// (usable con pool o tx). Las filas solo se mutan en running_balance (auditoría).
type AccountMovementRepo struct {
	q Querier
}

// NewAccountMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAccountMovementRepository(q Querier) *AccountMovementRepo {
	return &AccountMovementRepo{q: q}
}

// Create persiste el movimiento; seq lo asigna la secuencia de la tabla (BIGSERIAL).
func (r *AccountMovementRepo) Create(movement *entity.AccountMovement) error {
	query := `
		INSERT INTO account_movements (id, account_id, kind, amount, reference, running_balance, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING seq`
	createdBy := (*string)(nil)
	if movement.CreatedBy != "" {
		createdBy = &movement.CreatedBy
	}
	err := r.q.QueryRow(context.Background(), query,
		movement.ID, movement.AccountID, movement.Kind, movement.Amount,
		movement.Reference, movement.RunningBalance, movement.CreatedAt, createdBy,
	).Scan(&movement.Seq)
	if err != nil {
		return fmt.Errorf("create account movement: %w", err)
	}
	return nil
}

// ListByAccount devuelve todos los movimientos de la cuenta en orden (created_at, seq) ascendente.
func (r *AccountMovementRepo) ListByAccount(accountID string) ([]*entity.AccountMovement, error) {
	query := `
		SELECT id, seq, account_id, kind, amount, reference, running_balance, created_at, created_by
		FROM account_movements WHERE account_id = $1
		ORDER BY created_at ASC, seq ASC`
	rows, err := r.q.Query(context.Background(), query, accountID)
	if err != nil {
		return nil, fmt.Errorf("list account movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.AccountMovement
	for rows.Next() {
		var m entity.AccountMovement
		var createdBy *string
		if err := rows.Scan(&m.ID, &m.Seq, &m.AccountID, &m.Kind, &m.Amount,
			&m.Reference, &m.RunningBalance, &m.CreatedAt, &createdBy); err != nil {
			return nil, fmt.Errorf("scan account movement: %w", err)
		}
		if createdBy != nil {
			m.CreatedBy = *createdBy
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}

// UpdateRunningBalance reescribe el saldo corrido de auditoría de una entrada.
func (r *AccountMovementRepo) UpdateRunningBalance(id string, balance decimal.Decimal) error {
	query := `UPDATE account_movements SET running_balance = $2 WHERE id = $1`
	if _, err := r.q.Exec(context.Background(), query, id, balance); err != nil {
		return fmt.Errorf("update running balance: %w", err)
	}
	return nil
}

// DeleteByReference elimina los movimientos del tipo dado con esa referencia
// (anulación de compra: solo el cargo, nunca los abonos que la referencien).
func (r *AccountMovementRepo) DeleteByReference(accountID, reference, kind string) (int64, error) {
	query := `DELETE FROM account_movements WHERE account_id = $1 AND reference = $2 AND kind = $3`
	tag, err := r.q.Exec(context.Background(), query, accountID, reference, kind)
	if err != nil {
		return 0, fmt.Errorf("delete account movements: %w", err)
	}
	return tag.RowsAffected(), nil
}

package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/botica-api/internal/domain/entity"
	"github.com/tu-usuario/botica-api/internal/domain/repository"
)

var _ repository.AccountRepository = (*AccountRepo)(nil)

// AccountRepo implementación de AccountRepository sobre PostgreSQL (usable con pool o tx).
type AccountRepo struct {
	q Querier
}

// NewAccountRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAccountRepository(q Querier) *AccountRepo {
	return &AccountRepo{q: q}
}

const accountColumns = `id, company_id, kind, name, tax_id, phone, email, credit_limit, current_balance, created_at, updated_at`

// Create persiste una cuenta corriente.
func (r *AccountRepo) Create(account *entity.Account) error {
	query := `
		INSERT INTO accounts (id, company_id, kind, name, tax_id, phone, email, credit_limit, current_balance, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(context.Background(), query,
		account.ID, account.CompanyID, account.Kind, account.Name, account.TaxID,
		account.Phone, account.Email, account.CreditLimit, account.CurrentBalance,
		account.CreatedAt, account.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create account: %w", err)
	}
	return nil
}

// GetByID obtiene una cuenta por ID.
func (r *AccountRepo) GetByID(id string) (*entity.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`
	return r.scanOne(query, id)
}

// GetForUpdate obtiene la cuenta y bloquea la fila (SELECT FOR UPDATE).
func (r *AccountRepo) GetForUpdate(id string) (*entity.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1 FOR UPDATE`
	return r.scanOne(query, id)
}

func (r *AccountRepo) scanOne(query string, args ...any) (*entity.Account, error) {
	var a entity.Account
	err := r.q.QueryRow(context.Background(), query, args...).Scan(
		&a.ID, &a.CompanyID, &a.Kind, &a.Name, &a.TaxID, &a.Phone, &a.Email,
		&a.CreditLimit, &a.CurrentBalance, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get account: %w", err)
	}
	return &a, nil
}

// ListByCompany lista cuentas de la empresa, opcionalmente filtradas por tipo.
func (r *AccountRepo) ListByCompany(companyID, kind string, limit, offset int) ([]*entity.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE company_id = $1`
	args := []any{companyID}
	pos := 2
	if kind != "" {
		query += fmt.Sprintf(" AND kind = $%d", pos)
		args = append(args, kind)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY name LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()
	var list []*entity.Account
	for rows.Next() {
		var a entity.Account
		if err := rows.Scan(&a.ID, &a.CompanyID, &a.Kind, &a.Name, &a.TaxID, &a.Phone,
			&a.Email, &a.CreditLimit, &a.CurrentBalance, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		list = append(list, &a)
	}
	return list, rows.Err()
}

// UpdateBalance escribe el saldo proyectado; único camino de escritura de current_balance.
func (r *AccountRepo) UpdateBalance(id string, balance decimal.Decimal, at time.Time) error {
	query := `UPDATE accounts SET current_balance = $2, updated_at = $3 WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, id, balance, at)
	if err != nil {
		return fmt.Errorf("update balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update balance: cuenta %s no existe", id)
	}
	return nil
}

package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/botica-api/internal/domain/entity"
	"github.com/tu-usuario/botica-api/internal/domain/repository"
)

var _ repository.TransferRepository = (*TransferRepo)(nil)

// TransferRepo implementación de TransferRepository sobre PostgreSQL (usable con pool o tx).
type TransferRepo struct {
	q Querier
}

// NewTransferRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTransferRepository(q Querier) *TransferRepo {
	return &TransferRepo{q: q}
}

const transferColumns = `id, company_id, source_pharmacy_id, dest_pharmacy_id, status, completed, reject_reason, total, created_at, updated_at, created_by, approved_by, completed_at`

// Create persiste cabecera y renglones.
func (r *TransferRepo) Create(transfer *entity.Transfer) error {
	ctx := context.Background()
	query := `
		INSERT INTO transfers (id, company_id, source_pharmacy_id, dest_pharmacy_id, status, completed, reject_reason, total, created_at, updated_at, created_by, approved_by, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query,
		transfer.ID, transfer.CompanyID, transfer.SourcePharmacyID, transfer.DestPharmacyID,
		transfer.Status, transfer.Completed, transfer.RejectReason, transfer.Total,
		transfer.CreatedAt, transfer.UpdatedAt, transfer.CreatedBy, transfer.ApprovedBy, transfer.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("create transfer: %w", err)
	}
	lineQuery := `
		INSERT INTO transfer_lines (id, transfer_id, medicine_id, quantity, unit_cost, subtotal)
		VALUES ($1, $2, $3, $4, $5, $6)`
	for _, line := range transfer.Lines {
		if _, err := r.q.Exec(ctx, lineQuery,
			line.ID, line.TransferID, line.MedicineID, line.Quantity, line.UnitCost, line.Subtotal,
		); err != nil {
			return fmt.Errorf("create transfer line: %w", err)
		}
	}
	return nil
}

// GetByID obtiene el traslado con sus renglones.
func (r *TransferRepo) GetByID(id string) (*entity.Transfer, error) {
	ctx := context.Background()
	query := `SELECT ` + transferColumns + ` FROM transfers WHERE id = $1`
	t, err := scanTransfer(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get transfer: %w", err)
	}
	lineQuery := `
		SELECT id, transfer_id, medicine_id, quantity, unit_cost, subtotal
		FROM transfer_lines WHERE transfer_id = $1 ORDER BY medicine_id`
	rows, err := r.q.Query(ctx, lineQuery, id)
	if err != nil {
		return nil, fmt.Errorf("list transfer lines: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var l entity.TransferLine
		if err := rows.Scan(&l.ID, &l.TransferID, &l.MedicineID, &l.Quantity, &l.UnitCost, &l.Subtotal); err != nil {
			return nil, fmt.Errorf("scan transfer line: %w", err)
		}
		t.Lines = append(t.Lines, l)
	}
	return t, rows.Err()
}

// Update persiste estado y totales de cabecera, más costos de renglones.
func (r *TransferRepo) Update(transfer *entity.Transfer) error {
	ctx := context.Background()
	query := `
		UPDATE transfers SET status = $2, completed = $3, reject_reason = $4, total = $5,
			updated_at = $6, approved_by = $7, completed_at = $8
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		transfer.ID, transfer.Status, transfer.Completed, transfer.RejectReason,
		transfer.Total, transfer.UpdatedAt, transfer.ApprovedBy, transfer.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("update transfer: %w", err)
	}
	for _, line := range transfer.Lines {
		lineQuery := `UPDATE transfer_lines SET unit_cost = $2, subtotal = $3 WHERE id = $1`
		if _, err := r.q.Exec(ctx, lineQuery, line.ID, line.UnitCost, line.Subtotal); err != nil {
			return fmt.Errorf("update transfer line: %w", err)
		}
	}
	return nil
}

// ListByCompany lista traslados de la empresa (sin renglones).
func (r *TransferRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Transfer, error) {
	query := `
		SELECT ` + transferColumns + ` FROM transfers
		WHERE company_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list transfers: %w", err)
	}
	defer rows.Close()
	var list []*entity.Transfer
	for rows.Next() {
		t, err := scanTransfer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transfer: %w", err)
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

func scanTransfer(row pgx.Row) (*entity.Transfer, error) {
	var t entity.Transfer
	var rejectReason, approvedBy *string
	if err := row.Scan(&t.ID, &t.CompanyID, &t.SourcePharmacyID, &t.DestPharmacyID,
		&t.Status, &t.Completed, &rejectReason, &t.Total,
		&t.CreatedAt, &t.UpdatedAt, &t.CreatedBy, &approvedBy, &t.CompletedAt); err != nil {
		return nil, err
	}
	if rejectReason != nil {
		t.RejectReason = *rejectReason
	}
	if approvedBy != nil {
		t.ApprovedBy = *approvedBy
	}
	return &t, nil
}

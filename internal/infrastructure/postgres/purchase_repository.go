package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/botica-api/internal/domain/entity"
	"github.com/tu-usuario/botica-api/internal/domain/repository"
)

var _ repository.PurchaseRepository = (*PurchaseRepo)(nil)

// PurchaseRepo implementación de PurchaseRepository sobre PostgreSQL (usable con pool o tx).
type PurchaseRepo struct {
	q Querier
}

// NewPurchaseRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPurchaseRepository(q Querier) *PurchaseRepo {
	return &PurchaseRepo{q: q}
}

// Create persiste cabecera y renglones.
func (r *PurchaseRepo) Create(purchase *entity.Purchase) error {
	ctx := context.Background()
	query := `
		INSERT INTO purchases (id, company_id, pharmacy_id, supplier_id, status, total, created_at, updated_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		purchase.ID, purchase.CompanyID, purchase.PharmacyID, purchase.SupplierID,
		purchase.Status, purchase.Total, purchase.CreatedAt, purchase.UpdatedAt, purchase.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("create purchase: %w", err)
	}
	return r.insertLines(ctx, purchase.Lines)
}

func (r *PurchaseRepo) insertLines(ctx context.Context, lines []entity.PurchaseLine) error {
	query := `
		INSERT INTO purchase_lines (id, purchase_id, medicine_id, quantity, unit_cost, subtotal)
		VALUES ($1, $2, $3, $4, $5, $6)`
	for _, line := range lines {
		if _, err := r.q.Exec(ctx, query,
			line.ID, line.PurchaseID, line.MedicineID, line.Quantity, line.UnitCost, line.Subtotal,
		); err != nil {
			return fmt.Errorf("create purchase line: %w", err)
		}
	}
	return nil
}

// GetByID obtiene la compra con sus renglones.
func (r *PurchaseRepo) GetByID(id string) (*entity.Purchase, error) {
	ctx := context.Background()
	query := `
		SELECT id, company_id, pharmacy_id, supplier_id, status, total, created_at, updated_at, created_by
		FROM purchases WHERE id = $1`
	var p entity.Purchase
	err := r.q.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.CompanyID, &p.PharmacyID, &p.SupplierID, &p.Status,
		&p.Total, &p.CreatedAt, &p.UpdatedAt, &p.CreatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase: %w", err)
	}
	lines, err := r.loadLines(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	p.Lines = lines
	return &p, nil
}

func (r *PurchaseRepo) loadLines(ctx context.Context, purchaseID string) ([]entity.PurchaseLine, error) {
	query := `
		SELECT id, purchase_id, medicine_id, quantity, unit_cost, subtotal
		FROM purchase_lines WHERE purchase_id = $1 ORDER BY medicine_id`
	rows, err := r.q.Query(ctx, query, purchaseID)
	if err != nil {
		return nil, fmt.Errorf("list purchase lines: %w", err)
	}
	defer rows.Close()
	var lines []entity.PurchaseLine
	for rows.Next() {
		var l entity.PurchaseLine
		if err := rows.Scan(&l.ID, &l.PurchaseID, &l.MedicineID, &l.Quantity, &l.UnitCost, &l.Subtotal); err != nil {
			return nil, fmt.Errorf("scan purchase line: %w", err)
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

// Update persiste status y total de cabecera, más subtotales de renglones.
func (r *PurchaseRepo) Update(purchase *entity.Purchase) error {
	ctx := context.Background()
	query := `UPDATE purchases SET status = $2, total = $3, updated_at = $4 WHERE id = $1`
	if _, err := r.q.Exec(ctx, query, purchase.ID, purchase.Status, purchase.Total, purchase.UpdatedAt); err != nil {
		return fmt.Errorf("update purchase: %w", err)
	}
	for _, line := range purchase.Lines {
		lineQuery := `UPDATE purchase_lines SET unit_cost = $2, subtotal = $3 WHERE id = $1`
		if _, err := r.q.Exec(ctx, lineQuery, line.ID, line.UnitCost, line.Subtotal); err != nil {
			return fmt.Errorf("update purchase line: %w", err)
		}
	}
	return nil
}

// ReplaceLines reemplaza todos los renglones de la compra (edición).
func (r *PurchaseRepo) ReplaceLines(purchaseID string, lines []entity.PurchaseLine) error {
	ctx := context.Background()
	if _, err := r.q.Exec(ctx, `DELETE FROM purchase_lines WHERE purchase_id = $1`, purchaseID); err != nil {
		return fmt.Errorf("delete purchase lines: %w", err)
	}
	return r.insertLines(ctx, lines)
}

// Delete elimina cabecera y renglones (anulación).
func (r *PurchaseRepo) Delete(id string) error {
	ctx := context.Background()
	if _, err := r.q.Exec(ctx, `DELETE FROM purchase_lines WHERE purchase_id = $1`, id); err != nil {
		return fmt.Errorf("delete purchase lines: %w", err)
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM purchases WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete purchase: %w", err)
	}
	return nil
}

// ListByPharmacy lista compras de una farmacia (sin renglones).
func (r *PurchaseRepo) ListByPharmacy(pharmacyID string, limit, offset int) ([]*entity.Purchase, error) {
	query := `
		SELECT id, company_id, pharmacy_id, supplier_id, status, total, created_at, updated_at, created_by
		FROM purchases WHERE pharmacy_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, pharmacyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list purchases: %w", err)
	}
	defer rows.Close()
	var list []*entity.Purchase
	for rows.Next() {
		var p entity.Purchase
		if err := rows.Scan(&p.ID, &p.CompanyID, &p.PharmacyID, &p.SupplierID, &p.Status,
			&p.Total, &p.CreatedAt, &p.UpdatedAt, &p.CreatedBy); err != nil {
			return nil, fmt.Errorf("scan purchase: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}

package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/botica-api/internal/domain/entity"
	"github.com/tu-usuario/botica-api/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo implementación de SaleRepository sobre PostgreSQL (usable con pool o tx).
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// Create persiste cabecera y renglones.
func (r *SaleRepo) Create(sale *entity.Sale) error {
	ctx := context.Background()
	query := `
		INSERT INTO sales (id, company_id, pharmacy_id, customer_id, status, total, created_at, updated_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	customerID := (*string)(nil)
	if sale.CustomerID != "" {
		customerID = &sale.CustomerID
	}
	_, err := r.q.Exec(ctx, query,
		sale.ID, sale.CompanyID, sale.PharmacyID, customerID, sale.Status,
		sale.Total, sale.CreatedAt, sale.UpdatedAt, sale.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("create sale: %w", err)
	}
	for _, line := range sale.Lines {
		if err := r.insertLine(ctx, &line); err != nil {
			return err
		}
	}
	return nil
}

func (r *SaleRepo) insertLine(ctx context.Context, line *entity.SaleLine) error {
	query := `
		INSERT INTO sale_lines (id, sale_id, medicine_id, quantity, unit_price, subtotal)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(ctx, query,
		line.ID, line.SaleID, line.MedicineID, line.Quantity, line.UnitPrice, line.Subtotal,
	)
	if err != nil {
		return fmt.Errorf("create sale line: %w", err)
	}
	return nil
}

// GetByID obtiene la venta con sus renglones.
func (r *SaleRepo) GetByID(id string) (*entity.Sale, error) {
	ctx := context.Background()
	query := `
		SELECT id, company_id, pharmacy_id, customer_id, status, total, created_at, updated_at, created_by
		FROM sales WHERE id = $1`
	var s entity.Sale
	var customerID *string
	err := r.q.QueryRow(ctx, query, id).Scan(
		&s.ID, &s.CompanyID, &s.PharmacyID, &customerID, &s.Status,
		&s.Total, &s.CreatedAt, &s.UpdatedAt, &s.CreatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	if customerID != nil {
		s.CustomerID = *customerID
	}
	lines, err := r.loadLines(ctx, s.ID)
	if err != nil {
		return nil, err
	}
	s.Lines = lines
	return &s, nil
}

func (r *SaleRepo) loadLines(ctx context.Context, saleID string) ([]entity.SaleLine, error) {
	query := `
		SELECT id, sale_id, medicine_id, quantity, unit_price, subtotal
		FROM sale_lines WHERE sale_id = $1 ORDER BY medicine_id`
	rows, err := r.q.Query(ctx, query, saleID)
	if err != nil {
		return nil, fmt.Errorf("list sale lines: %w", err)
	}
	defer rows.Close()
	var lines []entity.SaleLine
	for rows.Next() {
		var l entity.SaleLine
		if err := rows.Scan(&l.ID, &l.SaleID, &l.MedicineID, &l.Quantity, &l.UnitPrice, &l.Subtotal); err != nil {
			return nil, fmt.Errorf("scan sale line: %w", err)
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

// Update persiste status y total de cabecera, más subtotales recalculados de renglones.
func (r *SaleRepo) Update(sale *entity.Sale) error {
	ctx := context.Background()
	query := `UPDATE sales SET status = $2, total = $3, updated_at = $4 WHERE id = $1`
	if _, err := r.q.Exec(ctx, query, sale.ID, sale.Status, sale.Total, sale.UpdatedAt); err != nil {
		return fmt.Errorf("update sale: %w", err)
	}
	for _, line := range sale.Lines {
		lineQuery := `UPDATE sale_lines SET unit_price = $2, subtotal = $3 WHERE id = $1`
		if _, err := r.q.Exec(ctx, lineQuery, line.ID, line.UnitPrice, line.Subtotal); err != nil {
			return fmt.Errorf("update sale line: %w", err)
		}
	}
	return nil
}

// ListByPharmacy lista ventas de una farmacia (sin renglones).
func (r *SaleRepo) ListByPharmacy(pharmacyID string, limit, offset int) ([]*entity.Sale, error) {
	query := `
		SELECT id, company_id, pharmacy_id, customer_id, status, total, created_at, updated_at, created_by
		FROM sales WHERE pharmacy_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, pharmacyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()
	var list []*entity.Sale
	for rows.Next() {
		var s entity.Sale
		var customerID *string
		if err := rows.Scan(&s.ID, &s.CompanyID, &s.PharmacyID, &customerID, &s.Status,
			&s.Total, &s.CreatedAt, &s.UpdatedAt, &s.CreatedBy); err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		if customerID != nil {
			s.CustomerID = *customerID
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}

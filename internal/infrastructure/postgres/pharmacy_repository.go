package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/botica-api/internal/domain/entity"
	"github.com/tu-usuario/botica-api/internal/domain/repository"
)

var _ repository.PharmacyRepository = (*PharmacyRepo)(nil)

// PharmacyRepo implementación de PharmacyRepository sobre PostgreSQL (usable con pool o tx).
type PharmacyRepo struct {
	q Querier
}

// NewPharmacyRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPharmacyRepository(q Querier) *PharmacyRepo {
	return &PharmacyRepo{q: q}
}

const pharmacyColumns = `id, company_id, name, address, phone, created_at, updated_at`

// Create persiste una farmacia.
func (r *PharmacyRepo) Create(pharmacy *entity.Pharmacy) error {
	query := `
		INSERT INTO pharmacies (id, company_id, name, address, phone, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		pharmacy.ID, pharmacy.CompanyID, pharmacy.Name, pharmacy.Address,
		pharmacy.Phone, pharmacy.CreatedAt, pharmacy.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create pharmacy: %w", err)
	}
	return nil
}

// GetByID obtiene una farmacia por ID.
func (r *PharmacyRepo) GetByID(id string) (*entity.Pharmacy, error) {
	query := `SELECT ` + pharmacyColumns + ` FROM pharmacies WHERE id = $1`
	var p entity.Pharmacy
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&p.ID, &p.CompanyID, &p.Name, &p.Address, &p.Phone, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get pharmacy: %w", err)
	}
	return &p, nil
}

// ListByCompany lista farmacias de una empresa.
func (r *PharmacyRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Pharmacy, error) {
	query := `
		SELECT ` + pharmacyColumns + ` FROM pharmacies
		WHERE company_id = $1 ORDER BY created_at LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list pharmacies: %w", err)
	}
	defer rows.Close()
	var list []*entity.Pharmacy
	for rows.Next() {
		var p entity.Pharmacy
		if err := rows.Scan(&p.ID, &p.CompanyID, &p.Name, &p.Address, &p.Phone,
			&p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan pharmacy: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}

// Update actualiza los campos descriptivos de la farmacia.
func (r *PharmacyRepo) Update(pharmacy *entity.Pharmacy) error {
	query := `
		UPDATE pharmacies SET name = $2, address = $3, phone = $4, updated_at = $5
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		pharmacy.ID, pharmacy.Name, pharmacy.Address, pharmacy.Phone, pharmacy.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update pharmacy: %w", err)
	}
	return nil
}

// Delete elimina una farmacia.
func (r *PharmacyRepo) Delete(id string) error {
	if _, err := r.q.Exec(context.Background(), `DELETE FROM pharmacies WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete pharmacy: %w", err)
	}
	return nil
}

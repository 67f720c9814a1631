package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/botica-api/internal/domain"
	"github.com/tu-usuario/botica-api/internal/domain/entity"
	"github.com/tu-usuario/botica-api/internal/domain/repository"
)

var _ repository.MedicineRepository = (*MedicineRepo)(nil)

// MedicineRepo implementación de MedicineRepository sobre PostgreSQL (usable con pool o tx).
type MedicineRepo struct {
	q Querier
}

// NewMedicineRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMedicineRepository(q Querier) *MedicineRepo {
	return &MedicineRepo{q: q}
}

const medicineColumns = `id, company_id, sku, name, presentation, concentration, price, cost, requires_prescription, created_at, updated_at`

// Create persiste un medicamento. SKU único por empresa.
func (r *MedicineRepo) Create(medicine *entity.Medicine) error {
	query := `
		INSERT INTO medicines (id, company_id, sku, name, presentation, concentration, price, cost, requires_prescription, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(context.Background(), query,
		medicine.ID, medicine.CompanyID, medicine.SKU, medicine.Name,
		medicine.Presentation, medicine.Concentration, medicine.Price, medicine.Cost,
		medicine.RequiresPrescription, medicine.CreatedAt, medicine.UpdatedAt,
	)
	if err != nil {
		if violatesUnique(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create medicine: %w", err)
	}
	return nil
}

// GetByID obtiene un medicamento por ID.
func (r *MedicineRepo) GetByID(id string) (*entity.Medicine, error) {
	query := `SELECT ` + medicineColumns + ` FROM medicines WHERE id = $1`
	return r.scanOne(query, id)
}

// GetBySKU obtiene un medicamento por empresa y SKU.
func (r *MedicineRepo) GetBySKU(companyID, sku string) (*entity.Medicine, error) {
	query := `SELECT ` + medicineColumns + ` FROM medicines WHERE company_id = $1 AND sku = $2`
	return r.scanOne(query, companyID, sku)
}

func (r *MedicineRepo) scanOne(query string, args ...any) (*entity.Medicine, error) {
	var m entity.Medicine
	err := r.q.QueryRow(context.Background(), query, args...).Scan(
		&m.ID, &m.CompanyID, &m.SKU, &m.Name, &m.Presentation, &m.Concentration,
		&m.Price, &m.Cost, &m.RequiresPrescription, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get medicine: %w", err)
	}
	return &m, nil
}

// ListByCompany lista medicamentos de una empresa.
func (r *MedicineRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Medicine, error) {
	query := `
		SELECT ` + medicineColumns + ` FROM medicines
		WHERE company_id = $1 ORDER BY name LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list medicines: %w", err)
	}
	defer rows.Close()
	var list []*entity.Medicine
	for rows.Next() {
		var m entity.Medicine
		if err := rows.Scan(&m.ID, &m.CompanyID, &m.SKU, &m.Name, &m.Presentation,
			&m.Concentration, &m.Price, &m.Cost, &m.RequiresPrescription,
			&m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan medicine: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}

// Update actualiza los campos editables del medicamento (SKU inmutable).
func (r *MedicineRepo) Update(medicine *entity.Medicine) error {
	query := `
		UPDATE medicines SET name = $2, presentation = $3, concentration = $4,
			price = $5, cost = $6, requires_prescription = $7, updated_at = $8
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		medicine.ID, medicine.Name, medicine.Presentation, medicine.Concentration,
		medicine.Price, medicine.Cost, medicine.RequiresPrescription, medicine.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update medicine: %w", err)
	}
	return nil
}

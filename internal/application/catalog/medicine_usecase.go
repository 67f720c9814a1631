package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/botica-api/internal/application/dto"
	"github.com/tu-usuario/botica-api/internal/domain"
	"github.com/tu-usuario/botica-api/internal/domain/entity"
	"github.com/tu-usuario/botica-api/internal/domain/repository"
)

// MedicineUseCase casos de uso CRUD para el catálogo de medicamentos.
// El stock por sede no se toca aquí: vive en las cuentas de stock y solo
// cambia vía movimientos.
type MedicineUseCase struct {
	repo repository.MedicineRepository
}

// NewMedicineUseCase construye el caso de uso.
func NewMedicineUseCase(repo repository.MedicineRepository) *MedicineUseCase {
	return &MedicineUseCase{repo: repo}
}

// Create crea un medicamento. El SKU es único por empresa.
func (uc *MedicineUseCase) Create(companyID string, in dto.CreateMedicineRequest) (*dto.MedicineResponse, error) {
	if companyID == "" || in.SKU == "" || in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.Price.IsNegative() || in.Cost.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.repo.GetBySKU(companyID, in.SKU)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	medicine := &entity.Medicine{
		ID:                   uuid.New().String(),
		CompanyID:            companyID,
		SKU:                  in.SKU,
		Name:                 in.Name,
		Presentation:         in.Presentation,
		Concentration:        in.Concentration,
		Price:                in.Price,
		Cost:                 in.Cost,
		RequiresPrescription: in.RequiresPrescription,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	if err := uc.repo.Create(medicine); err != nil {
		return nil, err
	}
	return toMedicineResponse(medicine), nil
}

// get carga el medicamento validando pertenencia a la empresa.
func (uc *MedicineUseCase) get(companyID, id string) (*entity.Medicine, error) {
	medicine, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if medicine == nil {
		return nil, domain.ErrNotFound
	}
	if medicine.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return medicine, nil
}

// GetByID obtiene un medicamento por ID dentro de la empresa.
func (uc *MedicineUseCase) GetByID(companyID, id string) (*dto.MedicineResponse, error) {
	medicine, err := uc.get(companyID, id)
	if err != nil {
		return nil, err
	}
	return toMedicineResponse(medicine), nil
}

// Update actualiza campos editables; el SKU es inmutable.
func (uc *MedicineUseCase) Update(companyID, id string, in dto.UpdateMedicineRequest) (*dto.MedicineResponse, error) {
	medicine, err := uc.get(companyID, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		medicine.Name = *in.Name
	}
	if in.Presentation != nil {
		medicine.Presentation = *in.Presentation
	}
	if in.Price != nil {
		if in.Price.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		medicine.Price = *in.Price
	}
	if in.Cost != nil {
		if in.Cost.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		medicine.Cost = *in.Cost
	}
	medicine.UpdatedAt = time.Now()
	if err := uc.repo.Update(medicine); err != nil {
		return nil, err
	}
	return toMedicineResponse(medicine), nil
}

// List lista medicamentos de la empresa con paginación.
func (uc *MedicineUseCase) List(companyID string, limit, offset int) (*dto.MedicineListResponse, error) {
	list, err := uc.repo.ListByCompany(companyID, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.MedicineResponse, 0, len(list))
	for _, m := range list {
		items = append(items, *toMedicineResponse(m))
	}
	return &dto.MedicineListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

func toMedicineResponse(m *entity.Medicine) *dto.MedicineResponse {
	return &dto.MedicineResponse{
		ID:                   m.ID,
		SKU:                  m.SKU,
		Name:                 m.Name,
		Presentation:         m.Presentation,
		Concentration:        m.Concentration,
		Price:                m.Price,
		Cost:                 m.Cost,
		RequiresPrescription: m.RequiresPrescription,
		CreatedAt:            m.CreatedAt,
	}
}

package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/botica-api/internal/application/dto"
	"github.com/tu-usuario/botica-api/internal/domain"
	"github.com/tu-usuario/botica-api/internal/domain/entity"
	"github.com/tu-usuario/botica-api/internal/domain/repository"
)

// PharmacyUseCase casos de uso CRUD para farmacias/sedes de una empresa.
type PharmacyUseCase struct {
	repo repository.PharmacyRepository
}

// NewPharmacyUseCase construye el caso de uso.
func NewPharmacyUseCase(repo repository.PharmacyRepository) *PharmacyUseCase {
	return &PharmacyUseCase{repo: repo}
}

// Create crea una farmacia dentro de la empresa del usuario autenticado.
func (uc *PharmacyUseCase) Create(companyID string, in dto.CreatePharmacyRequest) (*dto.PharmacyResponse, error) {
	if companyID == "" || in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	pharmacy := &entity.Pharmacy{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		Name:      in.Name,
		Address:   in.Address,
		Phone:     in.Phone,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(pharmacy); err != nil {
		return nil, err
	}
	return toPharmacyResponse(pharmacy), nil
}

// get carga la farmacia validando pertenencia a la empresa.
func (uc *PharmacyUseCase) get(companyID, id string) (*entity.Pharmacy, error) {
	pharmacy, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if pharmacy == nil {
		return nil, domain.ErrNotFound
	}
	if pharmacy.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return pharmacy, nil
}

// GetByID obtiene una farmacia por ID dentro de la empresa.
func (uc *PharmacyUseCase) GetByID(companyID, id string) (*dto.PharmacyResponse, error) {
	pharmacy, err := uc.get(companyID, id)
	if err != nil {
		return nil, err
	}
	return toPharmacyResponse(pharmacy), nil
}

// Update actualiza campos descriptivos de la farmacia.
func (uc *PharmacyUseCase) Update(companyID, id string, in dto.UpdatePharmacyRequest) (*dto.PharmacyResponse, error) {
	pharmacy, err := uc.get(companyID, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		pharmacy.Name = *in.Name
	}
	if in.Address != nil {
		pharmacy.Address = *in.Address
	}
	if in.Phone != nil {
		pharmacy.Phone = *in.Phone
	}
	pharmacy.UpdatedAt = time.Now()
	if err := uc.repo.Update(pharmacy); err != nil {
		return nil, err
	}
	return toPharmacyResponse(pharmacy), nil
}

// List lista farmacias de la empresa con paginación.
func (uc *PharmacyUseCase) List(companyID string, limit, offset int) (*dto.PharmacyListResponse, error) {
	list, err := uc.repo.ListByCompany(companyID, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.PharmacyResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toPharmacyResponse(p))
	}
	return &dto.PharmacyListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// Delete elimina una farmacia de la empresa.
func (uc *PharmacyUseCase) Delete(companyID, id string) error {
	if _, err := uc.get(companyID, id); err != nil {
		return err
	}
	return uc.repo.Delete(id)
}

func toPharmacyResponse(p *entity.Pharmacy) *dto.PharmacyResponse {
	return &dto.PharmacyResponse{
		ID:        p.ID,
		CompanyID: p.CompanyID,
		Name:      p.Name,
		Address:   p.Address,
		Phone:     p.Phone,
		CreatedAt: p.CreatedAt,
	}
}

package sales

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/botica-api/internal/application/dto"
	"github.com/tu-usuario/botica-api/internal/application/stock"
	"github.com/tu-usuario/botica-api/internal/domain"
	"github.com/tu-usuario/botica-api/internal/domain/entity"
	"github.com/tu-usuario/botica-api/internal/domain/repository"
)

// UseCase crea ventas en borrador y las finaliza descontando stock de forma
// atómica: si algún renglón no tiene existencias, ningún renglón se aplica.
type UseCase struct {
	txRunner     stock.TxRunner
	stockUC      *stock.LedgerUseCase
	saleRepo     repository.SaleRepository
	pharmacyRepo repository.PharmacyRepository
	medicineRepo repository.MedicineRepository
}

// NewUseCase construye el caso de uso de ventas.
func NewUseCase(
	txRunner stock.TxRunner,
	stockUC *stock.LedgerUseCase,
	saleRepo repository.SaleRepository,
	pharmacyRepo repository.PharmacyRepository,
	medicineRepo repository.MedicineRepository,
) *UseCase {
	return &UseCase{
		txRunner:     txRunner,
		stockUC:      stockUC,
		saleRepo:     saleRepo,
		pharmacyRepo: pharmacyRepo,
		medicineRepo: medicineRepo,
	}
}

// Create registra una venta en estado DRAFT con sus renglones.
// El precio unitario vacío se resuelve desde el catálogo; el subtotal siempre
// se deriva en el servidor.
func (uc *UseCase) Create(ctx context.Context, companyID, userID string, in dto.CreateSaleRequest) (*entity.Sale, error) {
	if in.PharmacyID == "" || len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	ph, err := uc.pharmacyRepo.GetByID(in.PharmacyID)
	if err != nil {
		return nil, err
	}
	if ph == nil {
		return nil, domain.ErrNotFound
	}
	if ph.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}

	now := time.Now()
	sale := &entity.Sale{
		ID:         uuid.New().String(),
		CompanyID:  companyID,
		PharmacyID: in.PharmacyID,
		CustomerID: in.CustomerID,
		Status:     entity.SaleStatusDraft,
		Total:      decimal.Zero,
		CreatedAt:  now,
		UpdatedAt:  now,
		CreatedBy:  userID,
	}
	for _, item := range in.Items {
		if item.MedicineID == "" || item.Quantity <= 0 {
			return nil, domain.ErrInvalidInput
		}
		med, err := uc.medicineRepo.GetByID(item.MedicineID)
		if err != nil {
			return nil, err
		}
		if med == nil {
			return nil, domain.ErrNotFound
		}
		if med.CompanyID != companyID {
			return nil, domain.ErrForbidden
		}
		price := med.Price
		if item.UnitPrice != nil {
			if item.UnitPrice.IsNegative() {
				return nil, domain.ErrInvalidInput
			}
			price = *item.UnitPrice
		}
		line := entity.SaleLine{
			ID:         uuid.New().String(),
			SaleID:     sale.ID,
			MedicineID: item.MedicineID,
			Quantity:   item.Quantity,
			UnitPrice:  price,
		}
		line.ComputeSubtotal()
		sale.Total = sale.Total.Add(line.Subtotal)
		sale.Lines = append(sale.Lines, line)
	}
	if err := uc.saleRepo.Create(sale); err != nil {
		return nil, err
	}
	return sale, nil
}

// Finalize pasa la venta DRAFT → FINALIZED: recalcula el total como suma de
// subtotales y descuenta stock renglón por renglón (motivo SALE, referencia a
// la venta) dentro de una sola transacción. Cualquier renglón sin existencias
// aborta todo sin mutación parcial.
func (uc *UseCase) Finalize(ctx context.Context, companyID, saleID, actor string) (*entity.Sale, error) {
	var sale *entity.Sale
	err := uc.txRunner.Run(ctx, func(r stock.Repos) error {
		var err error
		sale, err = r.Sales.GetByID(saleID)
		if err != nil {
			return err
		}
		if sale == nil {
			return domain.ErrNotFound
		}
		if sale.CompanyID != companyID {
			return domain.ErrForbidden
		}
		if sale.Status != entity.SaleStatusDraft {
			return domain.ErrInvalidTransition
		}
		if len(sale.Lines) == 0 {
			return domain.ErrInvalidInput
		}

		// Orden estable por medicamento: mismo orden de bloqueo de filas para
		// cualquier par de finalizaciones concurrentes.
		sort.Slice(sale.Lines, func(i, j int) bool {
			return sale.Lines[i].MedicineID < sale.Lines[j].MedicineID
		})

		total := decimal.Zero
		for i := range sale.Lines {
			line := &sale.Lines[i]
			line.ComputeSubtotal()
			total = total.Add(line.Subtotal)
			if _, err := uc.stockUC.ReduceInTx(r, stock.MovementInput{
				PharmacyID: sale.PharmacyID,
				MedicineID: line.MedicineID,
				Quantity:   line.Quantity,
				Reason:     entity.ReasonSale,
				Actor:      actor,
				Ref:        entity.Reference{Kind: entity.RefSale, ID: sale.ID},
			}); err != nil {
				return err
			}
		}
		sale.Total = total
		sale.Status = entity.SaleStatusFinalized
		sale.UpdatedAt = time.Now()
		return r.Sales.Update(sale)
	})
	if err != nil {
		return nil, err
	}
	return sale, nil
}

// GetByID obtiene la venta con renglones validando pertenencia.
func (uc *UseCase) GetByID(companyID, id string) (*entity.Sale, error) {
	sale, err := uc.saleRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	if sale.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return sale, nil
}

// ListByPharmacy lista ventas de una farmacia de la empresa con paginación.
func (uc *UseCase) ListByPharmacy(companyID, pharmacyID string, limit, offset int) ([]*entity.Sale, error) {
	ph, err := uc.pharmacyRepo.GetByID(pharmacyID)
	if err != nil {
		return nil, err
	}
	if ph == nil {
		return nil, domain.ErrNotFound
	}
	if ph.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return uc.saleRepo.ListByPharmacy(pharmacyID, limit, offset)
}

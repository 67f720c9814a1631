package purchases

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/botica-api/internal/application/accounts"
	"github.com/tu-usuario/botica-api/internal/application/dto"
	"github.com/tu-usuario/botica-api/internal/application/stock"
	"github.com/tu-usuario/botica-api/internal/domain"
	"github.com/tu-usuario/botica-api/internal/domain/entity"
	"github.com/tu-usuario/botica-api/internal/domain/repository"
)

// UseCase maneja compras a proveedor: finalizar suma stock y carga la cuenta
// corriente del proveedor en una sola transacción; anular revierte ambos
// efectos vía appends inversos en el libro (nunca decrementos directos, así
// QuantityAsOf sigue siendo correcto para toda la historia).
type UseCase struct {
	txRunner     stock.TxRunner
	stockUC      *stock.LedgerUseCase
	accountsUC   *accounts.UseCase
	purchaseRepo repository.PurchaseRepository
	accountRepo  repository.AccountRepository
	pharmacyRepo repository.PharmacyRepository
	medicineRepo repository.MedicineRepository
}

// NewUseCase construye el caso de uso de compras.
func NewUseCase(
	txRunner stock.TxRunner,
	stockUC *stock.LedgerUseCase,
	accountsUC *accounts.UseCase,
	purchaseRepo repository.PurchaseRepository,
	accountRepo repository.AccountRepository,
	pharmacyRepo repository.PharmacyRepository,
	medicineRepo repository.MedicineRepository,
) *UseCase {
	return &UseCase{
		txRunner:     txRunner,
		stockUC:      stockUC,
		accountsUC:   accountsUC,
		purchaseRepo: purchaseRepo,
		accountRepo:  accountRepo,
		pharmacyRepo: pharmacyRepo,
		medicineRepo: medicineRepo,
	}
}

// buildLines valida y construye renglones con subtotal derivado.
func (uc *UseCase) buildLines(companyID, purchaseID string, items []dto.LineItemRequest) ([]entity.PurchaseLine, error) {
	if len(items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	lines := make([]entity.PurchaseLine, 0, len(items))
	for _, item := range items {
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
		cost := med.Cost
		if item.UnitCost != nil {
			if item.UnitCost.IsNegative() {
				return nil, domain.ErrInvalidInput
			}
			cost = *item.UnitCost
		}
		line := entity.PurchaseLine{
			ID:         uuid.New().String(),
			PurchaseID: purchaseID,
			MedicineID: item.MedicineID,
			Quantity:   item.Quantity,
			UnitCost:   cost,
		}
		line.ComputeSubtotal()
		lines = append(lines, line)
	}
	return lines, nil
}

// Create registra una compra en estado DRAFT con sus renglones.
func (uc *UseCase) Create(ctx context.Context, companyID, userID string, in dto.CreatePurchaseRequest) (*entity.Purchase, error) {
	if in.PharmacyID == "" || in.SupplierID == "" {
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
	supplier, err := uc.accountRepo.GetByID(in.SupplierID)
	if err != nil {
		return nil, err
	}
	if supplier == nil || supplier.Kind != entity.AccountKindSupplier {
		return nil, domain.ErrNotFound
	}
	if supplier.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}

	now := time.Now()
	purchase := &entity.Purchase{
		ID:         uuid.New().String(),
		CompanyID:  companyID,
		PharmacyID: in.PharmacyID,
		SupplierID: in.SupplierID,
		Status:     entity.PurchaseStatusDraft,
		CreatedAt:  now,
		UpdatedAt:  now,
		CreatedBy:  userID,
	}
	lines, err := uc.buildLines(companyID, purchase.ID, in.Items)
	if err != nil {
		return nil, err
	}
	purchase.Lines = lines
	purchase.Total = linesTotal(lines)
	if err := uc.purchaseRepo.Create(purchase); err != nil {
		return nil, err
	}
	return purchase, nil
}

// Finalize pasa la compra DRAFT → FINALIZED: suma stock renglón por renglón
// (motivo PURCHASE, costo del renglón siembra/actualiza la cuenta), registra
// un cargo PURCHASE en la cuenta del proveedor con referencia a la compra y
// reconcilia el saldo. Todo en una transacción.
func (uc *UseCase) Finalize(ctx context.Context, companyID, purchaseID, actor string) (*entity.Purchase, error) {
	var purchase *entity.Purchase
	err := uc.txRunner.Run(ctx, func(r stock.Repos) error {
		var err error
		purchase, err = r.Purchases.GetByID(purchaseID)
		if err != nil {
			return err
		}
		if purchase == nil {
			return domain.ErrNotFound
		}
		if purchase.CompanyID != companyID {
			return domain.ErrForbidden
		}
		if purchase.Status != entity.PurchaseStatusDraft {
			return domain.ErrInvalidTransition
		}
		if len(purchase.Lines) == 0 {
			return domain.ErrInvalidInput
		}

		sortLines(purchase.Lines)
		total := decimal.Zero
		for i := range purchase.Lines {
			line := &purchase.Lines[i]
			line.ComputeSubtotal()
			total = total.Add(line.Subtotal)
			cost := line.UnitCost
			if _, err := uc.stockUC.AddInTx(r, stock.MovementInput{
				PharmacyID: purchase.PharmacyID,
				MedicineID: line.MedicineID,
				Quantity:   line.Quantity,
				Reason:     entity.ReasonPurchase,
				Actor:      actor,
				Ref:        entity.Reference{Kind: entity.RefPurchase, ID: purchase.ID},
				UnitCost:   &cost,
			}); err != nil {
				return err
			}
		}
		if _, err := uc.accountsUC.RecordInTx(r, purchase.SupplierID, entity.AccountMovementPurchase, total, purchase.ID, actor); err != nil {
			return err
		}
		if _, err := uc.accountsUC.ReconcileInTx(r, purchase.SupplierID, false); err != nil {
			return err
		}
		purchase.Total = total
		purchase.Status = entity.PurchaseStatusFinalized
		purchase.UpdatedAt = time.Now()
		return r.Purchases.Update(purchase)
	})
	if err != nil {
		return nil, err
	}
	return purchase, nil
}

// Delete anula una compra. Para una compra finalizada revierte cada renglón
// con un append OUT (motivo ADJUSTMENT, referencia a la compra), elimina el
// cargo PURCHASE cuya referencia es esta compra y reconcilia al proveedor,
// todo atómico. Si el stock recibido ya se consumió, la anulación falla con
// ErrInsufficientStock en lugar de recortar en silencio.
func (uc *UseCase) Delete(ctx context.Context, companyID, purchaseID, actor string) error {
	return uc.txRunner.Run(ctx, func(r stock.Repos) error {
		purchase, err := r.Purchases.GetByID(purchaseID)
		if err != nil {
			return err
		}
		if purchase == nil {
			return domain.ErrNotFound
		}
		if purchase.CompanyID != companyID {
			return domain.ErrForbidden
		}
		if purchase.Status == entity.PurchaseStatusFinalized {
			if err := uc.reverseLinesInTx(r, purchase, actor); err != nil {
				return err
			}
			if _, err := r.AccountMovements.DeleteByReference(purchase.SupplierID, purchase.ID, entity.AccountMovementPurchase); err != nil {
				return err
			}
			if _, err := uc.accountsUC.ReconcileInTx(r, purchase.SupplierID, false); err != nil {
				return err
			}
		}
		return r.Purchases.Delete(purchase.ID)
	})
}

// UpdateLines edita una compra como borrar-y-recrear efectos: revierte los
// renglones viejos, aplica los nuevos y reemplaza el cargo del proveedor, en
// un solo scope atómico. Para una compra en DRAFT solo reemplaza renglones.
func (uc *UseCase) UpdateLines(ctx context.Context, companyID, purchaseID string, in dto.UpdatePurchaseLinesRequest, actor string) (*entity.Purchase, error) {
	var purchase *entity.Purchase
	err := uc.txRunner.Run(ctx, func(r stock.Repos) error {
		var err error
		purchase, err = r.Purchases.GetByID(purchaseID)
		if err != nil {
			return err
		}
		if purchase == nil {
			return domain.ErrNotFound
		}
		if purchase.CompanyID != companyID {
			return domain.ErrForbidden
		}
		newLines, err := uc.buildLines(companyID, purchase.ID, in.Items)
		if err != nil {
			return err
		}

		if purchase.Status == entity.PurchaseStatusFinalized {
			// 1) Revertir efectos viejos: stock y cargo del proveedor.
			if err := uc.reverseLinesInTx(r, purchase, actor); err != nil {
				return err
			}
			if _, err := r.AccountMovements.DeleteByReference(purchase.SupplierID, purchase.ID, entity.AccountMovementPurchase); err != nil {
				return err
			}
			// 2) Aplicar efectos nuevos.
			sortLines(newLines)
			total := linesTotal(newLines)
			for i := range newLines {
				cost := newLines[i].UnitCost
				if _, err := uc.stockUC.AddInTx(r, stock.MovementInput{
					PharmacyID: purchase.PharmacyID,
					MedicineID: newLines[i].MedicineID,
					Quantity:   newLines[i].Quantity,
					Reason:     entity.ReasonPurchase,
					Actor:      actor,
					Ref:        entity.Reference{Kind: entity.RefPurchase, ID: purchase.ID},
					UnitCost:   &cost,
				}); err != nil {
					return err
				}
			}
			if _, err := uc.accountsUC.RecordInTx(r, purchase.SupplierID, entity.AccountMovementPurchase, total, purchase.ID, actor); err != nil {
				return err
			}
			if _, err := uc.accountsUC.ReconcileInTx(r, purchase.SupplierID, false); err != nil {
				return err
			}
			purchase.Total = total
		} else {
			purchase.Total = linesTotal(newLines)
		}
		purchase.Lines = newLines
		purchase.UpdatedAt = time.Now()
		if err := r.Purchases.ReplaceLines(purchase.ID, newLines); err != nil {
			return err
		}
		return r.Purchases.Update(purchase)
	})
	if err != nil {
		return nil, err
	}
	return purchase, nil
}

// reverseLinesInTx aplica el append inverso (OUT, motivo ADJUSTMENT) de cada
// renglón recibido por la compra.
func (uc *UseCase) reverseLinesInTx(r stock.Repos, purchase *entity.Purchase, actor string) error {
	lines := make([]entity.PurchaseLine, len(purchase.Lines))
	copy(lines, purchase.Lines)
	sortLines(lines)
	for i := range lines {
		if _, err := uc.stockUC.ReduceInTx(r, stock.MovementInput{
			PharmacyID: purchase.PharmacyID,
			MedicineID: lines[i].MedicineID,
			Quantity:   lines[i].Quantity,
			Reason:     entity.ReasonAdjustment,
			Actor:      actor,
			Ref:        entity.Reference{Kind: entity.RefPurchase, ID: purchase.ID},
		}); err != nil {
			return err
		}
	}
	return nil
}

// GetByID obtiene la compra con renglones validando pertenencia.
func (uc *UseCase) GetByID(companyID, id string) (*entity.Purchase, error) {
	purchase, err := uc.purchaseRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if purchase == nil {
		return nil, domain.ErrNotFound
	}
	if purchase.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return purchase, nil
}

// ListByPharmacy lista compras de una farmacia de la empresa con paginación.
func (uc *UseCase) ListByPharmacy(companyID, pharmacyID string, limit, offset int) ([]*entity.Purchase, error) {
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
	return uc.purchaseRepo.ListByPharmacy(pharmacyID, limit, offset)
}

func sortLines(lines []entity.PurchaseLine) {
	sort.Slice(lines, func(i, j int) bool { return lines[i].MedicineID < lines[j].MedicineID })
}

func linesTotal(lines []entity.PurchaseLine) decimal.Decimal {
	total := decimal.Zero
	for i := range lines {
		total = total.Add(lines[i].Subtotal)
	}
	return total
}

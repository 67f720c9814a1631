package transfers

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

// UseCase maneja traslados entre farmacias con flujo de aprobación:
// PENDING → APPROVED | REJECTED; Process mueve el stock (APPROVED → completado)
// y Reverse deshace exactamente ese movimiento (completado → PENDING).
type UseCase struct {
	txRunner     stock.TxRunner
	stockUC      *stock.LedgerUseCase
	transferRepo repository.TransferRepository
	pharmacyRepo repository.PharmacyRepository
	medicineRepo repository.MedicineRepository
}

// NewUseCase construye el caso de uso de traslados.
func NewUseCase(
	txRunner stock.TxRunner,
	stockUC *stock.LedgerUseCase,
	transferRepo repository.TransferRepository,
	pharmacyRepo repository.PharmacyRepository,
	medicineRepo repository.MedicineRepository,
) *UseCase {
	return &UseCase{
		txRunner:     txRunner,
		stockUC:      stockUC,
		transferRepo: transferRepo,
		pharmacyRepo: pharmacyRepo,
		medicineRepo: medicineRepo,
	}
}

// Create registra un traslado en estado PENDING.
func (uc *UseCase) Create(ctx context.Context, companyID, userID string, in dto.CreateTransferRequest) (*entity.Transfer, error) {
	if in.SourcePharmacyID == "" || in.DestPharmacyID == "" || len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	if in.SourcePharmacyID == in.DestPharmacyID {
		return nil, domain.ErrInvalidInput
	}
	for _, id := range []string{in.SourcePharmacyID, in.DestPharmacyID} {
		ph, err := uc.pharmacyRepo.GetByID(id)
		if err != nil {
			return nil, err
		}
		if ph == nil {
			return nil, domain.ErrNotFound
		}
		if ph.CompanyID != companyID {
			return nil, domain.ErrForbidden
		}
	}

	now := time.Now()
	transfer := &entity.Transfer{
		ID:               uuid.New().String(),
		CompanyID:        companyID,
		SourcePharmacyID: in.SourcePharmacyID,
		DestPharmacyID:   in.DestPharmacyID,
		Status:           entity.TransferStatusPending,
		Total:            decimal.Zero,
		CreatedAt:        now,
		UpdatedAt:        now,
		CreatedBy:        userID,
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
		transfer.Lines = append(transfer.Lines, entity.TransferLine{
			ID:         uuid.New().String(),
			TransferID: transfer.ID,
			MedicineID: item.MedicineID,
			Quantity:   item.Quantity,
		})
	}
	if err := uc.transferRepo.Create(transfer); err != nil {
		return nil, err
	}
	return transfer, nil
}

// get carga el traslado validando pertenencia.
func (uc *UseCase) get(companyID, id string) (*entity.Transfer, error) {
	t, err := uc.transferRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, domain.ErrNotFound
	}
	if t.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return t, nil
}

// Approve pasa PENDING → APPROVED; cualquier otro estado es transición inválida.
func (uc *UseCase) Approve(ctx context.Context, companyID, transferID, actor string) (*entity.Transfer, error) {
	t, err := uc.get(companyID, transferID)
	if err != nil {
		return nil, err
	}
	if !t.CanApprove() {
		return nil, domain.ErrInvalidTransition
	}
	t.Status = entity.TransferStatusApproved
	t.ApprovedBy = actor
	t.UpdatedAt = time.Now()
	if err := uc.transferRepo.Update(t); err != nil {
		return nil, err
	}
	return t, nil
}

// Reject pasa PENDING → REJECTED con motivo; cualquier otro estado es transición inválida.
func (uc *UseCase) Reject(ctx context.Context, companyID, transferID, actor, reason string) (*entity.Transfer, error) {
	t, err := uc.get(companyID, transferID)
	if err != nil {
		return nil, err
	}
	if !t.CanReject() {
		return nil, domain.ErrInvalidTransition
	}
	t.Status = entity.TransferStatusRejected
	t.RejectReason = reason
	t.UpdatedAt = time.Now()
	if err := uc.transferRepo.Update(t); err != nil {
		return nil, err
	}
	return t, nil
}

// Process ejecuta un traslado APPROVED: por cada renglón descuenta en origen
// (TRANSFER_OUT) y suma en destino (TRANSFER_IN) en una sola transacción; la
// cuenta destino se crea bajo demanda sembrada con el costo unitario del
// origen. Si el origen no alcanza para algún renglón, nada se aplica.
func (uc *UseCase) Process(ctx context.Context, companyID, transferID, actor string) (*entity.Transfer, error) {
	var transfer *entity.Transfer
	err := uc.txRunner.Run(ctx, func(r stock.Repos) error {
		var err error
		transfer, err = r.Transfers.GetByID(transferID)
		if err != nil {
			return err
		}
		if transfer == nil {
			return domain.ErrNotFound
		}
		if transfer.CompanyID != companyID {
			return domain.ErrForbidden
		}
		if !transfer.CanProcess() {
			return domain.ErrInvalidTransition
		}

		sortLines(transfer.Lines)
		ref := entity.Reference{Kind: entity.RefTransfer, ID: transfer.ID}
		total := decimal.Zero
		for i := range transfer.Lines {
			line := &transfer.Lines[i]
			srcAcct, dstAcct, err := uc.lockPair(r, transfer.SourcePharmacyID, transfer.DestPharmacyID, line.MedicineID)
			if err != nil {
				return err
			}
			if srcAcct.Quantity < line.Quantity {
				return domain.ErrInsufficientStock
			}
			line.UnitCost = srcAcct.UnitCost
			line.ComputeSubtotal()
			total = total.Add(line.Subtotal)

			if _, err := uc.stockUC.ReduceInTx(r, stock.MovementInput{
				PharmacyID: transfer.SourcePharmacyID,
				MedicineID: line.MedicineID,
				Quantity:   line.Quantity,
				Reason:     entity.ReasonTransferOut,
				Actor:      actor,
				Ref:        ref,
			}); err != nil {
				return err
			}
			in := stock.MovementInput{
				PharmacyID: transfer.DestPharmacyID,
				MedicineID: line.MedicineID,
				Quantity:   line.Quantity,
				Reason:     entity.ReasonTransferIn,
				Actor:      actor,
				Ref:        ref,
			}
			if dstAcct.ID == "" {
				// Cuenta destino nueva: sembrar con el costo del origen.
				cost := srcAcct.UnitCost
				in.UnitCost = &cost
			}
			if _, err := uc.stockUC.AddInTx(r, in); err != nil {
				return err
			}
		}
		now := time.Now()
		transfer.Total = total
		transfer.Completed = true
		transfer.CompletedAt = &now
		transfer.UpdatedAt = now
		return r.Transfers.Update(transfer)
	})
	if err != nil {
		return nil, err
	}
	return transfer, nil
}

// Reverse deshace exactamente un traslado completado: devuelve al origen
// (TRANSFER_IN, para mantener el libro emparejado semánticamente) y descuenta
// del destino (TRANSFER_OUT). Si el destino ya no tiene la cantidad (se
// revendió), falla atómico con ErrInsufficientStock y el estado no cambia.
func (uc *UseCase) Reverse(ctx context.Context, companyID, transferID, actor string) (*entity.Transfer, error) {
	var transfer *entity.Transfer
	err := uc.txRunner.Run(ctx, func(r stock.Repos) error {
		var err error
		transfer, err = r.Transfers.GetByID(transferID)
		if err != nil {
			return err
		}
		if transfer == nil {
			return domain.ErrNotFound
		}
		if transfer.CompanyID != companyID {
			return domain.ErrForbidden
		}
		if !transfer.CanReverse() {
			return domain.ErrInvalidTransition
		}

		sortLines(transfer.Lines)
		ref := entity.Reference{Kind: entity.RefTransfer, ID: transfer.ID}
		for i := range transfer.Lines {
			line := &transfer.Lines[i]
			if _, _, err := uc.lockPair(r, transfer.SourcePharmacyID, transfer.DestPharmacyID, line.MedicineID); err != nil {
				return err
			}
			if _, err := uc.stockUC.ReduceInTx(r, stock.MovementInput{
				PharmacyID: transfer.DestPharmacyID,
				MedicineID: line.MedicineID,
				Quantity:   line.Quantity,
				Reason:     entity.ReasonTransferOut,
				Actor:      actor,
				Ref:        ref,
			}); err != nil {
				return err
			}
			if _, err := uc.stockUC.AddInTx(r, stock.MovementInput{
				PharmacyID: transfer.SourcePharmacyID,
				MedicineID: line.MedicineID,
				Quantity:   line.Quantity,
				Reason:     entity.ReasonTransferIn,
				Actor:      actor,
				Ref:        ref,
			}); err != nil {
				return err
			}
		}
		transfer.Completed = false
		transfer.Status = entity.TransferStatusPending
		transfer.CompletedAt = nil
		transfer.UpdatedAt = time.Now()
		return r.Transfers.Update(transfer)
	})
	if err != nil {
		return nil, err
	}
	return transfer, nil
}

// lockPair bloquea las dos cuentas de stock involucradas en orden global fijo
// por ID de farmacia, para que dos traslados en sentidos opuestos entre las
// mismas sedes no puedan interbloquearse.
func (uc *UseCase) lockPair(r stock.Repos, sourceID, destID, medicineID string) (src, dst *entity.StockAccount, err error) {
	if sourceID < destID {
		if src, err = r.StockAccounts.GetForUpdate(sourceID, medicineID); err != nil {
			return nil, nil, err
		}
		dst, err = r.StockAccounts.GetForUpdate(destID, medicineID)
	} else {
		if dst, err = r.StockAccounts.GetForUpdate(destID, medicineID); err != nil {
			return nil, nil, err
		}
		src, err = r.StockAccounts.GetForUpdate(sourceID, medicineID)
	}
	if err != nil {
		return nil, nil, err
	}
	return src, dst, nil
}

// GetByID obtiene el traslado con renglones validando pertenencia.
func (uc *UseCase) GetByID(companyID, id string) (*entity.Transfer, error) {
	return uc.get(companyID, id)
}

// ListByCompany lista traslados de la empresa con paginación.
func (uc *UseCase) ListByCompany(companyID string, limit, offset int) ([]*entity.Transfer, error) {
	return uc.transferRepo.ListByCompany(companyID, limit, offset)
}

func sortLines(lines []entity.TransferLine) {
	sort.Slice(lines, func(i, j int) bool { return lines[i].MedicineID < lines[j].MedicineID })
}

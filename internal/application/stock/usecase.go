package stock

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/botica-api/internal/domain"
	"github.com/tu-usuario/botica-api/internal/domain/entity"
	"github.com/tu-usuario/botica-api/internal/domain/ledger"
	"github.com/tu-usuario/botica-api/internal/domain/repository"
	"github.com/tu-usuario/botica-api/pkg/logger"
)

// LedgerUseCase es el motor del libro de stock: toda mutación de existencias
// pasa por exactamente un append (AddStock/ReduceStock), con bloqueo de fila
// (SELECT FOR UPDATE) y Commit/Rollback por operación.
type LedgerUseCase struct {
	txRunner     TxRunner
	pharmacyRepo repository.PharmacyRepository
	medicineRepo repository.MedicineRepository
	accountRepo  repository.StockAccountRepository  // lecturas fuera de tx
	movementRepo repository.StockMovementRepository // lecturas fuera de tx
	log          *logger.Logger
}

// NewLedgerUseCase construye el motor de libro de stock.
func NewLedgerUseCase(
	txRunner TxRunner,
	pharmacyRepo repository.PharmacyRepository,
	medicineRepo repository.MedicineRepository,
	accountRepo repository.StockAccountRepository,
	movementRepo repository.StockMovementRepository,
	log *logger.Logger,
) *LedgerUseCase {
	return &LedgerUseCase{
		txRunner:     txRunner,
		pharmacyRepo: pharmacyRepo,
		medicineRepo: medicineRepo,
		accountRepo:  accountRepo,
		movementRepo: movementRepo,
		log:          log,
	}
}

// MovementInput entrada para un movimiento de stock.
// UnitCost/UnitPrice son opcionales: en entradas actualizan los valores de la
// cuenta (y la siembran en la creación perezosa).
type MovementInput struct {
	PharmacyID string
	MedicineID string
	Quantity   int64 // siempre positiva
	Reason     string
	Actor      string
	Ref        entity.Reference
	UnitCost   *decimal.Decimal
	UnitPrice  *decimal.Decimal
}

// Motivos admitidos para ajustes manuales vía API.
var manualReasons = map[string]bool{
	entity.ReasonAdjustment: true,
	entity.ReasonExpired:    true,
	entity.ReasonDamaged:    true,
}

func (in *MovementInput) validate() error {
	// Contexto de farmacia explícito y validado: sin sede no hay operación de libro.
	if in.PharmacyID == "" || in.MedicineID == "" {
		return domain.ErrInvalidInput
	}
	if in.Quantity <= 0 {
		return domain.ErrInvalidInput
	}
	if in.Reason == "" {
		return domain.ErrInvalidInput
	}
	return nil
}

// checkTenant valida que farmacia y medicamento existan y pertenezcan a la empresa.
func (uc *LedgerUseCase) checkTenant(companyID, pharmacyID, medicineID string) error {
	if companyID == "" {
		return domain.ErrInvalidInput
	}
	ph, err := uc.pharmacyRepo.GetByID(pharmacyID)
	if err != nil {
		return err
	}
	if ph == nil {
		return domain.ErrNotFound
	}
	if ph.CompanyID != companyID {
		return domain.ErrForbidden
	}
	med, err := uc.medicineRepo.GetByID(medicineID)
	if err != nil {
		return err
	}
	if med == nil {
		return domain.ErrNotFound
	}
	if med.CompanyID != companyID {
		return domain.ErrForbidden
	}
	return nil
}

// AddStock incrementa existencias: append de un movimiento IN y actualización
// de la cuenta en el mismo scope atómico. Nunca falla por tope superior.
func (uc *LedgerUseCase) AddStock(ctx context.Context, companyID string, in MovementInput) (*entity.StockMovement, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	if err := uc.checkTenant(companyID, in.PharmacyID, in.MedicineID); err != nil {
		return nil, err
	}
	var mov *entity.StockMovement
	err := uc.txRunner.Run(ctx, func(r Repos) error {
		var err error
		mov, err = uc.AddInTx(r, in)
		return err
	})
	if err != nil {
		return nil, err
	}
	return mov, nil
}

// ReduceStock decrementa existencias; falla con ErrInsufficientStock (sin
// mutación ni movimiento escrito) si la cantidad pedida supera la disponible.
func (uc *LedgerUseCase) ReduceStock(ctx context.Context, companyID string, in MovementInput) (*entity.StockMovement, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	if err := uc.checkTenant(companyID, in.PharmacyID, in.MedicineID); err != nil {
		return nil, err
	}
	var mov *entity.StockMovement
	err := uc.txRunner.Run(ctx, func(r Repos) error {
		var err error
		mov, err = uc.ReduceInTx(r, in)
		return err
	})
	if err != nil {
		return nil, err
	}
	return mov, nil
}

// AdjustStock registra un ajuste manual: cantidad positiva entra, negativa sale
// (motivos ADJUSTMENT, EXPIRED, DAMAGED; referencia manual).
func (uc *LedgerUseCase) AdjustStock(ctx context.Context, companyID string, in MovementInput, signedQty int64) (*entity.StockMovement, error) {
	if !manualReasons[in.Reason] || signedQty == 0 {
		return nil, domain.ErrInvalidInput
	}
	in.Ref = entity.ManualRef()
	if signedQty > 0 {
		in.Quantity = signedQty
		return uc.AddStock(ctx, companyID, in)
	}
	in.Quantity = -signedQty
	return uc.ReduceStock(ctx, companyID, in)
}

// AddInTx ejecuta la entrada usando repositorios de la transacción del caller
// (compras y traslados la invocan dentro de su propio scope atómico).
func (uc *LedgerUseCase) AddInTx(r Repos, in MovementInput) (*entity.StockMovement, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	acct, err := r.StockAccounts.GetForUpdate(in.PharmacyID, in.MedicineID)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	if acct.ID == "" {
		// Creación perezosa de la cuenta al primer movimiento.
		acct.ID = uuid.New().String()
		acct.PharmacyID = in.PharmacyID
		acct.MedicineID = in.MedicineID
	}
	if in.UnitCost != nil {
		acct.UnitCost = *in.UnitCost
	}
	if in.UnitPrice != nil {
		acct.UnitPrice = *in.UnitPrice
	}
	before := acct.Quantity
	acct.Quantity = before + in.Quantity
	acct.UpdatedAt = now
	if err := r.StockAccounts.Upsert(acct); err != nil {
		return nil, err
	}
	mov := &entity.StockMovement{
		ID:             uuid.New().String(),
		StockAccountID: acct.ID,
		PharmacyID:     in.PharmacyID,
		MedicineID:     in.MedicineID,
		Direction:      entity.DirectionIn,
		Quantity:       in.Quantity,
		QuantityBefore: before,
		QuantityAfter:  acct.Quantity,
		Reason:         in.Reason,
		Actor:          in.Actor,
		Ref:            in.Ref,
		CreatedAt:      now,
	}
	if err := r.StockMovements.Create(mov); err != nil {
		return nil, err
	}
	return mov, nil
}

// ReduceInTx ejecuta la salida usando los repositorios de la transacción del
// caller. Verifica disponibilidad bajo el lock de fila: dos salidas concurrentes
// sobre la misma cuenta no pueden exceder juntas lo disponible.
func (uc *LedgerUseCase) ReduceInTx(r Repos, in MovementInput) (*entity.StockMovement, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	acct, err := r.StockAccounts.GetForUpdate(in.PharmacyID, in.MedicineID)
	if err != nil {
		return nil, err
	}
	if acct.Quantity < in.Quantity {
		return nil, domain.ErrInsufficientStock
	}
	now := time.Now()
	before := acct.Quantity
	acct.Quantity = before - in.Quantity
	if in.Reason == entity.ReasonSale {
		acct.UnitsSold += in.Quantity
	}
	acct.UpdatedAt = now
	if err := r.StockAccounts.Upsert(acct); err != nil {
		return nil, err
	}
	mov := &entity.StockMovement{
		ID:             uuid.New().String(),
		StockAccountID: acct.ID,
		PharmacyID:     in.PharmacyID,
		MedicineID:     in.MedicineID,
		Direction:      entity.DirectionOut,
		Quantity:       in.Quantity,
		QuantityBefore: before,
		QuantityAfter:  acct.Quantity,
		Reason:         in.Reason,
		Actor:          in.Actor,
		Ref:            in.Ref,
		CreatedAt:      now,
	}
	if err := r.StockMovements.Create(mov); err != nil {
		return nil, err
	}
	return mov, nil
}

// checkPharmacy valida que la farmacia exista y pertenezca a la empresa.
func (uc *LedgerUseCase) checkPharmacy(companyID, pharmacyID string) error {
	ph, err := uc.pharmacyRepo.GetByID(pharmacyID)
	if err != nil {
		return err
	}
	if ph == nil {
		return domain.ErrNotFound
	}
	if ph.CompanyID != companyID {
		return domain.ErrForbidden
	}
	return nil
}

// ListAccounts lista las existencias actuales de una farmacia de la empresa.
func (uc *LedgerUseCase) ListAccounts(companyID, pharmacyID string, limit, offset int) ([]*entity.StockAccount, error) {
	if err := uc.checkPharmacy(companyID, pharmacyID); err != nil {
		return nil, err
	}
	return uc.accountRepo.ListByPharmacy(pharmacyID, limit, offset)
}

// ListMovements lista el libro de stock de una farmacia en un rango de fechas.
func (uc *LedgerUseCase) ListMovements(companyID, pharmacyID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	if err := uc.checkPharmacy(companyID, pharmacyID); err != nil {
		return nil, err
	}
	return uc.movementRepo.ListByPharmacy(pharmacyID, from, to, limit, offset)
}

// QuantityAsOf reconstruye la cantidad histórica de una cuenta a un instante:
// suma neta con signo de los movimientos hasta `at`, partiendo de cero.
// Para un libro bien formado coincide con el QuantityAfter del último
// movimiento; si no coincide se registra la deriva y gana la reconstrucción.
func (uc *LedgerUseCase) QuantityAsOf(ctx context.Context, companyID, pharmacyID, medicineID string, at time.Time) (int64, error) {
	if err := uc.checkTenant(companyID, pharmacyID, medicineID); err != nil {
		return 0, err
	}
	movs, err := uc.movementRepo.ListByAccountUpTo(pharmacyID, medicineID, &at)
	if err != nil {
		return 0, err
	}
	if len(movs) == 0 {
		return 0, nil
	}
	replayed := ledger.ReplayQuantity(movs)
	if last := movs[len(movs)-1]; last.QuantityAfter != replayed {
		uc.log.Warn().
			Str("pharmacy_id", pharmacyID).
			Str("medicine_id", medicineID).
			Int64("quantity_after", last.QuantityAfter).
			Int64("replayed", replayed).
			Msg("deriva entre cadena before/after y replay del libro de stock")
	}
	return replayed, nil
}

package accounts

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/botica-api/internal/application/dto"
	"github.com/tu-usuario/botica-api/internal/application/stock"
	"github.com/tu-usuario/botica-api/internal/domain"
	"github.com/tu-usuario/botica-api/internal/domain/entity"
	"github.com/tu-usuario/botica-api/internal/domain/ledger"
	"github.com/tu-usuario/botica-api/internal/domain/repository"
	"github.com/tu-usuario/botica-api/pkg/logger"
)

// UseCase maneja cuentas corrientes de proveedores/clientes: appends al libro
// (PURCHASE, PAYMENT, RESET) y reconciliación del saldo proyectado.
type UseCase struct {
	txRunner     stock.TxRunner
	accountRepo  repository.AccountRepository        // lecturas fuera de tx
	movementRepo repository.AccountMovementRepository // lecturas fuera de tx
	log          *logger.Logger
}

// NewUseCase construye el caso de uso de cuentas corrientes.
func NewUseCase(
	txRunner stock.TxRunner,
	accountRepo repository.AccountRepository,
	movementRepo repository.AccountMovementRepository,
	log *logger.Logger,
) *UseCase {
	return &UseCase{txRunner: txRunner, accountRepo: accountRepo, movementRepo: movementRepo, log: log}
}

// CreateAccount da de alta una cuenta corriente (proveedor o cliente) con saldo cero.
func (uc *UseCase) CreateAccount(companyID string, in dto.CreateAccountRequest) (*entity.Account, error) {
	if in.Name == "" || (in.Kind != entity.AccountKindSupplier && in.Kind != entity.AccountKindCustomer) {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	acct := &entity.Account{
		ID:             uuid.New().String(),
		CompanyID:      companyID,
		Kind:           in.Kind,
		Name:           in.Name,
		TaxID:          in.TaxID,
		Phone:          in.Phone,
		Email:          in.Email,
		CreditLimit:    in.CreditLimit,
		CurrentBalance: decimal.Zero,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := uc.accountRepo.Create(acct); err != nil {
		return nil, err
	}
	return acct, nil
}

// GetByID obtiene la cuenta validando pertenencia a la empresa.
func (uc *UseCase) GetByID(companyID, id string) (*entity.Account, error) {
	acct, err := uc.accountRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if acct == nil {
		return nil, domain.ErrNotFound
	}
	if acct.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return acct, nil
}

// List lista cuentas de la empresa, opcionalmente filtradas por tipo.
func (uc *UseCase) List(companyID, kind string, limit, offset int) ([]*entity.Account, error) {
	return uc.accountRepo.ListByCompany(companyID, kind, limit, offset)
}

// ListMovements devuelve el libro completo de la cuenta en orden de replay.
func (uc *UseCase) ListMovements(companyID, accountID string) ([]*entity.AccountMovement, error) {
	if _, err := uc.GetByID(companyID, accountID); err != nil {
		return nil, err
	}
	return uc.movementRepo.ListByAccount(accountID)
}

// RecordPurchase registra un cargo (compra a crédito) y reconcilia en la misma tx.
func (uc *UseCase) RecordPurchase(ctx context.Context, companyID, accountID string, amount decimal.Decimal, reference, actor string) (*entity.AccountMovement, error) {
	return uc.record(ctx, companyID, accountID, entity.AccountMovementPurchase, amount, reference, actor)
}

// RecordPayment registra un abono y reconcilia en la misma tx.
func (uc *UseCase) RecordPayment(ctx context.Context, companyID, accountID string, amount decimal.Decimal, reference, actor string) (*entity.AccountMovement, error) {
	return uc.record(ctx, companyID, accountID, entity.AccountMovementPayment, amount, reference, actor)
}

// RecordReset fija el saldo en un valor absoluto (corrección manual); el replay
// posterior descarta lo acumulado antes de esta entrada.
func (uc *UseCase) RecordReset(ctx context.Context, companyID, accountID string, amount decimal.Decimal, reference, actor string) (*entity.AccountMovement, error) {
	if amount.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	return uc.record(ctx, companyID, accountID, entity.AccountMovementReset, amount, reference, actor)
}

func (uc *UseCase) record(ctx context.Context, companyID, accountID, kind string, amount decimal.Decimal, reference, actor string) (*entity.AccountMovement, error) {
	if accountID == "" || reference == "" {
		return nil, domain.ErrInvalidInput
	}
	if kind != entity.AccountMovementReset && !amount.IsPositive() {
		return nil, domain.ErrInvalidInput
	}
	if _, err := uc.GetByID(companyID, accountID); err != nil {
		return nil, err
	}
	var mov *entity.AccountMovement
	err := uc.txRunner.Run(ctx, func(r stock.Repos) error {
		var err error
		mov, err = uc.RecordInTx(r, accountID, kind, amount, reference, actor)
		if err != nil {
			return err
		}
		_, err = uc.ReconcileInTx(r, accountID, false)
		return err
	})
	if err != nil {
		return nil, err
	}
	return mov, nil
}

// RecordInTx hace el append del movimiento usando los repositorios de la
// transacción del caller (compras lo invocan en su propio scope atómico).
// El saldo corrido definitivo lo escribe ReconcileInTx.
func (uc *UseCase) RecordInTx(r stock.Repos, accountID, kind string, amount decimal.Decimal, reference, actor string) (*entity.AccountMovement, error) {
	acct, err := r.Accounts.GetForUpdate(accountID)
	if err != nil {
		return nil, err
	}
	if acct == nil {
		return nil, domain.ErrNotFound
	}
	mov := &entity.AccountMovement{
		ID:        uuid.New().String(),
		AccountID: accountID,
		Kind:      kind,
		Amount:    amount,
		Reference: reference,
		CreatedAt: time.Now(),
		CreatedBy: actor,
	}
	if err := r.AccountMovements.Create(mov); err != nil {
		return nil, err
	}
	return mov, nil
}

// Reconcile reconstruye el saldo de la cuenta reproduciendo su libro completo
// y lo persiste. Detecta deriva contra el saldo proyectado almacenado: se
// registra como advertencia de integridad y se autocorrige, nunca se oculta.
func (uc *UseCase) Reconcile(ctx context.Context, companyID, accountID string) (decimal.Decimal, error) {
	if _, err := uc.GetByID(companyID, accountID); err != nil {
		return decimal.Zero, err
	}
	var balance decimal.Decimal
	err := uc.txRunner.Run(ctx, func(r stock.Repos) error {
		var err error
		balance, err = uc.ReconcileInTx(r, accountID, true)
		return err
	})
	if err != nil {
		return decimal.Zero, err
	}
	return balance, nil
}

// ReconcileInTx reproduce el libro en orden (created_at, seq) partiendo de 0,
// reescribe el saldo corrido de cada entrada y persiste el saldo final como
// CurrentBalance (único camino de escritura de la proyección).
// logDrift se apaga cuando el caller acaba de hacer un append en la misma tx
// (ahí la diferencia con el saldo almacenado es esperada, no deriva).
func (uc *UseCase) ReconcileInTx(r stock.Repos, accountID string, logDrift bool) (decimal.Decimal, error) {
	acct, err := r.Accounts.GetForUpdate(accountID)
	if err != nil {
		return decimal.Zero, err
	}
	if acct == nil {
		return decimal.Zero, domain.ErrNotFound
	}
	movs, err := r.AccountMovements.ListByAccount(accountID)
	if err != nil {
		return decimal.Zero, err
	}
	balance, running := ledger.ReplayBalance(movs)
	for i, m := range movs {
		if !m.RunningBalance.Equal(running[i]) {
			if err := r.AccountMovements.UpdateRunningBalance(m.ID, running[i]); err != nil {
				return decimal.Zero, err
			}
			m.RunningBalance = running[i]
		}
	}
	if logDrift && !acct.CurrentBalance.Equal(balance) {
		uc.log.Warn().
			Str("account_id", accountID).
			Str("stored", acct.CurrentBalance.String()).
			Str("replayed", balance.String()).
			Msg("deriva entre saldo proyectado y replay del libro; se autocorrige")
	}
	if err := r.Accounts.UpdateBalance(accountID, balance, time.Now()); err != nil {
		return decimal.Zero, err
	}
	return balance, nil
}

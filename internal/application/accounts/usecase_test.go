package accounts_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/botica-api/internal/application/accounts"
	"github.com/tu-usuario/botica-api/internal/application/dto"
	"github.com/tu-usuario/botica-api/internal/application/stock"
	"github.com/tu-usuario/botica-api/internal/domain"
	"github.com/tu-usuario/botica-api/internal/domain/entity"
	"github.com/tu-usuario/botica-api/internal/infrastructure/memory"
	"github.com/tu-usuario/botica-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fixture
// ──────────────────────────────────────────────────────────────────────────────

type accountsFixture struct {
	store     *memory.Store
	uc        *accounts.UseCase
	companyID string
	accountID string
}

func newAccountsFixture(t *testing.T) *accountsFixture {
	t.Helper()
	store := memory.NewStore()
	log := logger.New(logger.Config{Env: "test", Level: "error"})
	uc := accounts.NewUseCase(store, store.Accounts(), store.AccountMovements(), log)

	f := &accountsFixture{store: store, uc: uc, companyID: uuid.New().String()}
	acct, err := uc.CreateAccount(f.companyID, dto.CreateAccountRequest{
		Kind: entity.AccountKindSupplier,
		Name: "Distribuidora Andina SAC",
	})
	require.NoError(t, err)
	f.accountID = acct.ID
	return f
}

func (f *accountsFixture) balance(t *testing.T) decimal.Decimal {
	t.Helper()
	acct, err := f.uc.GetByID(f.companyID, f.accountID)
	require.NoError(t, err)
	return acct.CurrentBalance
}

// ──────────────────────────────────────────────────────────────────────────────
// Altas y validaciones
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateAccount_TipoInvalido(t *testing.T) {
	f := newAccountsFixture(t)

	_, err := f.uc.CreateAccount(f.companyID, dto.CreateAccountRequest{Kind: "otro", Name: "X"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.uc.CreateAccount(f.companyID, dto.CreateAccountRequest{Kind: entity.AccountKindCustomer})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "el nombre es obligatorio")
}

func TestGetByID_OtraEmpresa_Forbidden(t *testing.T) {
	f := newAccountsFixture(t)

	_, err := f.uc.GetByID(uuid.New().String(), f.accountID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

// ──────────────────────────────────────────────────────────────────────────────
// Libro: PURCHASE / PAYMENT / RESET y saldos corridos
// ──────────────────────────────────────────────────────────────────────────────

// Secuencia de referencia: compra 100, pago 40, compra 25, reset a 50.
func TestRecord_SecuenciaCompleta(t *testing.T) {
	f := newAccountsFixture(t)
	ctx := context.Background()

	_, err := f.uc.RecordPurchase(ctx, f.companyID, f.accountID, decimal.NewFromInt(100), "fact-001", "u1")
	require.NoError(t, err)
	assert.True(t, f.balance(t).Equal(decimal.NewFromInt(100)))

	_, err = f.uc.RecordPayment(ctx, f.companyID, f.accountID, decimal.NewFromInt(40), "recibo-001", "u1")
	require.NoError(t, err)
	assert.True(t, f.balance(t).Equal(decimal.NewFromInt(60)))

	_, err = f.uc.RecordPurchase(ctx, f.companyID, f.accountID, decimal.NewFromInt(25), "fact-002", "u1")
	require.NoError(t, err)
	assert.True(t, f.balance(t).Equal(decimal.NewFromInt(85)))

	_, err = f.uc.RecordReset(ctx, f.companyID, f.accountID, decimal.NewFromInt(50), "corte-2026", "u1")
	require.NoError(t, err)
	assert.True(t, f.balance(t).Equal(decimal.NewFromInt(50)),
		"el reset fija el saldo descartando lo acumulado")

	// Los saldos corridos quedan reescritos por la reconciliación del append.
	movs, err := f.uc.ListMovements(f.companyID, f.accountID)
	require.NoError(t, err)
	require.Len(t, movs, 4)
	expected := []int64{100, 60, 85, 50}
	for i, want := range expected {
		assert.True(t, movs[i].RunningBalance.Equal(decimal.NewFromInt(want)),
			"saldo corrido %d: esperado %d, obtuvo %s", i, want, movs[i].RunningBalance)
	}
}

func TestRecord_MontosInvalidos(t *testing.T) {
	f := newAccountsFixture(t)
	ctx := context.Background()

	_, err := f.uc.RecordPurchase(ctx, f.companyID, f.accountID, decimal.NewFromInt(-5), "x", "u1")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.uc.RecordPayment(ctx, f.companyID, f.accountID, decimal.Zero, "x", "u1")
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "el pago debe ser estrictamente positivo")

	_, err = f.uc.RecordReset(ctx, f.companyID, f.accountID, decimal.NewFromInt(-1), "x", "u1")
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "el reset no admite valores negativos")

	_, err = f.uc.RecordPurchase(ctx, f.companyID, f.accountID, decimal.NewFromInt(10), "", "u1")
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "la referencia es obligatoria")
}

func TestRecordReset_ACero(t *testing.T) {
	f := newAccountsFixture(t)
	ctx := context.Background()

	_, err := f.uc.RecordPurchase(ctx, f.companyID, f.accountID, decimal.NewFromInt(77), "fact-001", "u1")
	require.NoError(t, err)

	_, err = f.uc.RecordReset(ctx, f.companyID, f.accountID, decimal.Zero, "borrón y cuenta nueva", "u1")
	require.NoError(t, err)
	assert.True(t, f.balance(t).IsZero())
}

// ──────────────────────────────────────────────────────────────────────────────
// Reconcile
// ──────────────────────────────────────────────────────────────────────────────

func TestReconcile_Idempotente(t *testing.T) {
	f := newAccountsFixture(t)
	ctx := context.Background()

	_, err := f.uc.RecordPurchase(ctx, f.companyID, f.accountID, decimal.NewFromInt(100), "fact-001", "u1")
	require.NoError(t, err)
	_, err = f.uc.RecordPayment(ctx, f.companyID, f.accountID, decimal.NewFromInt(30), "recibo-001", "u1")
	require.NoError(t, err)

	b1, err := f.uc.Reconcile(ctx, f.companyID, f.accountID)
	require.NoError(t, err)
	b2, err := f.uc.Reconcile(ctx, f.companyID, f.accountID)
	require.NoError(t, err)

	assert.True(t, b1.Equal(b2), "reconciliar dos veces debe dar el mismo saldo")
	assert.True(t, b1.Equal(decimal.NewFromInt(70)))
}

// Si la proyección almacenada se corrompe, Reconcile la autocorrige a partir
// del libro (la proyección nunca es autoritativa).
func TestReconcile_AutocorrigeDeriva(t *testing.T) {
	f := newAccountsFixture(t)
	ctx := context.Background()

	_, err := f.uc.RecordPurchase(ctx, f.companyID, f.accountID, decimal.NewFromInt(100), "fact-001", "u1")
	require.NoError(t, err)

	// Corromper la proyección por fuera del camino normal.
	require.NoError(t, f.store.Run(ctx, func(r stock.Repos) error {
		return r.Accounts.UpdateBalance(f.accountID, decimal.NewFromInt(999), time.Now())
	}))
	assert.True(t, f.balance(t).Equal(decimal.NewFromInt(999)), "precondición: proyección corrupta")

	balance, err := f.uc.Reconcile(ctx, f.companyID, f.accountID)
	require.NoError(t, err)
	assert.True(t, balance.Equal(decimal.NewFromInt(100)), "gana el replay del libro")
	assert.True(t, f.balance(t).Equal(decimal.NewFromInt(100)))
}

func TestReconcile_CuentaInexistente(t *testing.T) {
	f := newAccountsFixture(t)

	_, err := f.uc.Reconcile(context.Background(), f.companyID, uuid.New().String())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

package purchases_test

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
	"github.com/tu-usuario/botica-api/internal/application/purchases"
	"github.com/tu-usuario/botica-api/internal/application/stock"
	"github.com/tu-usuario/botica-api/internal/domain"
	"github.com/tu-usuario/botica-api/internal/domain/entity"
	"github.com/tu-usuario/botica-api/internal/infrastructure/memory"
	"github.com/tu-usuario/botica-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fixture: farmacia, medicamento y proveedor con cuenta corriente
// ──────────────────────────────────────────────────────────────────────────────

type purchasesFixture struct {
	store      *memory.Store
	stockUC    *stock.LedgerUseCase
	accountsUC *accounts.UseCase
	uc         *purchases.UseCase
	companyID  string
	pharmacyID string
	medicineID string
	supplierID string
}

func newPurchasesFixture(t *testing.T) *purchasesFixture {
	t.Helper()
	store := memory.NewStore()
	log := logger.New(logger.Config{Env: "test", Level: "error"})

	f := &purchasesFixture{
		store:      store,
		companyID:  uuid.New().String(),
		pharmacyID: uuid.New().String(),
		medicineID: uuid.New().String(),
	}
	now := time.Now()
	require.NoError(t, store.Companies().Create(&entity.Company{
		ID: f.companyID, Name: "Botica Central SAC", NIT: "20123456789",
		Status: "active", CreatedAt: now, UpdatedAt: now,
	}))
	require.NoError(t, store.Pharmacies().Create(&entity.Pharmacy{
		ID: f.pharmacyID, CompanyID: f.companyID, Name: "Sede Norte",
		CreatedAt: now, UpdatedAt: now,
	}))
	require.NoError(t, store.Medicines().Create(&entity.Medicine{
		ID: f.medicineID, CompanyID: f.companyID, SKU: "AMOX-500", Name: "Amoxicilina 500mg",
		Cost: decimal.NewFromInt(1), CreatedAt: now, UpdatedAt: now,
	}))

	f.stockUC = stock.NewLedgerUseCase(
		store, store.Pharmacies(), store.Medicines(),
		store.StockAccounts(), store.StockMovements(), log,
	)
	f.accountsUC = accounts.NewUseCase(store, store.Accounts(), store.AccountMovements(), log)
	f.uc = purchases.NewUseCase(
		store, f.stockUC, f.accountsUC,
		store.Purchases(), store.Accounts(), store.Pharmacies(), store.Medicines(),
	)

	supplier, err := f.accountsUC.CreateAccount(f.companyID, dto.CreateAccountRequest{
		Kind: entity.AccountKindSupplier,
		Name: "Droguería Nacional SAC",
	})
	require.NoError(t, err)
	f.supplierID = supplier.ID
	return f
}

func (f *purchasesFixture) create(t *testing.T, qty int64, cost float64) *entity.Purchase {
	t.Helper()
	c := decimal.NewFromFloat(cost)
	p, err := f.uc.Create(context.Background(), f.companyID, "u1", dto.CreatePurchaseRequest{
		PharmacyID: f.pharmacyID,
		SupplierID: f.supplierID,
		Items:      []dto.LineItemRequest{{MedicineID: f.medicineID, Quantity: qty, UnitCost: &c}},
	})
	require.NoError(t, err)
	return p
}

func (f *purchasesFixture) quantity(t *testing.T) int64 {
	t.Helper()
	acct, err := f.store.StockAccounts().Get(f.pharmacyID, f.medicineID)
	require.NoError(t, err)
	return acct.Quantity
}

func (f *purchasesFixture) supplierBalance(t *testing.T) decimal.Decimal {
	t.Helper()
	acct, err := f.accountsUC.GetByID(f.companyID, f.supplierID)
	require.NoError(t, err)
	return acct.CurrentBalance
}

// ──────────────────────────────────────────────────────────────────────────────
// Create / Finalize
// ──────────────────────────────────────────────────────────────────────────────

func TestCreatePurchase_DraftSinEfectos(t *testing.T) {
	f := newPurchasesFixture(t)

	p := f.create(t, 50, 1.20)
	assert.Equal(t, entity.PurchaseStatusDraft, p.Status)
	assert.True(t, p.Total.Equal(decimal.NewFromInt(60)))
	assert.Equal(t, int64(0), f.quantity(t), "el borrador no toca stock")
	assert.True(t, f.supplierBalance(t).IsZero(), "el borrador no carga al proveedor")
}

func TestCreatePurchase_ProveedorDebeSerSupplier(t *testing.T) {
	f := newPurchasesFixture(t)
	customer, err := f.accountsUC.CreateAccount(f.companyID, dto.CreateAccountRequest{
		Kind: entity.AccountKindCustomer, Name: "Cliente Crédito",
	})
	require.NoError(t, err)

	cost := decimal.NewFromInt(1)
	_, err = f.uc.Create(context.Background(), f.companyID, "u1", dto.CreatePurchaseRequest{
		PharmacyID: f.pharmacyID,
		SupplierID: customer.ID,
		Items:      []dto.LineItemRequest{{MedicineID: f.medicineID, Quantity: 1, UnitCost: &cost}},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound,
		"una cuenta customer no puede actuar como proveedor")
}

func TestFinalizePurchase_SumaStockYCargaProveedor(t *testing.T) {
	f := newPurchasesFixture(t)
	p := f.create(t, 50, 1.20)

	done, err := f.uc.Finalize(context.Background(), f.companyID, p.ID, "u1")
	require.NoError(t, err)
	assert.Equal(t, entity.PurchaseStatusFinalized, done.Status)

	assert.Equal(t, int64(50), f.quantity(t))
	assert.True(t, f.supplierBalance(t).Equal(decimal.NewFromInt(60)),
		"el cargo al proveedor es el total de la compra")

	// El cargo queda referenciado a la compra en el libro del proveedor.
	movs, err := f.accountsUC.ListMovements(f.companyID, f.supplierID)
	require.NoError(t, err)
	require.Len(t, movs, 1)
	assert.Equal(t, entity.AccountMovementPurchase, movs[0].Kind)
	assert.Equal(t, p.ID, movs[0].Reference)

	// El costo del renglón siembra el costo de la cuenta de stock.
	acct, err := f.store.StockAccounts().Get(f.pharmacyID, f.medicineID)
	require.NoError(t, err)
	assert.True(t, acct.UnitCost.Equal(decimal.NewFromFloat(1.20)))
}

func TestFinalizePurchase_DobleFinalizacion(t *testing.T) {
	f := newPurchasesFixture(t)
	p := f.create(t, 10, 1)

	_, err := f.uc.Finalize(context.Background(), f.companyID, p.ID, "u1")
	require.NoError(t, err)

	_, err = f.uc.Finalize(context.Background(), f.companyID, p.ID, "u1")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Equal(t, int64(10), f.quantity(t))
	assert.True(t, f.supplierBalance(t).Equal(decimal.NewFromInt(10)), "no debe cargar dos veces")
}

// ──────────────────────────────────────────────────────────────────────────────
// Delete (anulación)
// ──────────────────────────────────────────────────────────────────────────────

func TestDeletePurchase_RevierteStockYSaldo(t *testing.T) {
	f := newPurchasesFixture(t)
	p := f.create(t, 30, 2)
	_, err := f.uc.Finalize(context.Background(), f.companyID, p.ID, "u1")
	require.NoError(t, err)

	require.NoError(t, f.uc.Delete(context.Background(), f.companyID, p.ID, "u1"))

	assert.Equal(t, int64(0), f.quantity(t), "el stock recibido se revierte con appends OUT")
	assert.True(t, f.supplierBalance(t).IsZero(), "el cargo del proveedor se elimina y reconcilia")

	movs, err := f.accountsUC.ListMovements(f.companyID, f.supplierID)
	require.NoError(t, err)
	assert.Empty(t, movs, "la anulación elimina exactamente el cargo de esta compra")

	_, err = f.uc.GetByID(f.companyID, p.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// La anulación elimina solo el cargo PURCHASE: un abono registrado contra la
// misma compra debe sobrevivir y seguir contando en el saldo.
func TestDeletePurchase_ConservaAbonosContraLaCompra(t *testing.T) {
	f := newPurchasesFixture(t)
	p := f.create(t, 50, 3) // total 150
	_, err := f.uc.Finalize(context.Background(), f.companyID, p.ID, "u1")
	require.NoError(t, err)

	// Abono parcial referenciado a la compra: saldo 150 - 40 = 110.
	_, err = f.accountsUC.RecordPayment(context.Background(), f.companyID, f.supplierID,
		decimal.NewFromInt(40), p.ID, "u1")
	require.NoError(t, err)
	require.True(t, f.supplierBalance(t).Equal(decimal.NewFromInt(110)))

	require.NoError(t, f.uc.Delete(context.Background(), f.companyID, p.ID, "u1"))

	movs, err := f.accountsUC.ListMovements(f.companyID, f.supplierID)
	require.NoError(t, err)
	require.Len(t, movs, 1, "el abono sobrevive a la anulación del cargo")
	assert.Equal(t, entity.AccountMovementPayment, movs[0].Kind)
	assert.Equal(t, p.ID, movs[0].Reference)
	assert.True(t, f.supplierBalance(t).Equal(decimal.NewFromInt(-40)),
		"el saldo reconciliado refleja el dinero ya pagado")
}

// Si el stock recibido ya se consumió, la anulación falla en vez de recortar.
func TestDeletePurchase_StockConsumido_Falla(t *testing.T) {
	f := newPurchasesFixture(t)
	p := f.create(t, 10, 1)
	_, err := f.uc.Finalize(context.Background(), f.companyID, p.ID, "u1")
	require.NoError(t, err)

	// Consumir parte del lote recibido.
	_, err = f.stockUC.ReduceStock(context.Background(), f.companyID, stock.MovementInput{
		PharmacyID: f.pharmacyID,
		MedicineID: f.medicineID,
		Quantity:   5,
		Reason:     entity.ReasonSale,
		Ref:        entity.ManualRef(),
	})
	require.NoError(t, err)

	err = f.uc.Delete(context.Background(), f.companyID, p.ID, "u1")
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.Equal(t, int64(5), f.quantity(t), "la anulación fallida no muta nada")
	assert.True(t, f.supplierBalance(t).Equal(decimal.NewFromInt(10)))
}

func TestDeletePurchase_DraftSoloBorra(t *testing.T) {
	f := newPurchasesFixture(t)
	p := f.create(t, 10, 1)

	require.NoError(t, f.uc.Delete(context.Background(), f.companyID, p.ID, "u1"))
	assert.Equal(t, int64(0), f.quantity(t))
	assert.True(t, f.supplierBalance(t).IsZero())
}

// ──────────────────────────────────────────────────────────────────────────────
// UpdateLines (edición = revertir y recrear efectos)
// ──────────────────────────────────────────────────────────────────────────────

func TestUpdateLines_FinalizadaReemplazaEfectos(t *testing.T) {
	f := newPurchasesFixture(t)
	p := f.create(t, 20, 1) // total 20
	_, err := f.uc.Finalize(context.Background(), f.companyID, p.ID, "u1")
	require.NoError(t, err)

	newCost := decimal.NewFromInt(3)
	updated, err := f.uc.UpdateLines(context.Background(), f.companyID, p.ID, dto.UpdatePurchaseLinesRequest{
		Items: []dto.LineItemRequest{{MedicineID: f.medicineID, Quantity: 5, UnitCost: &newCost}},
	}, "u1")
	require.NoError(t, err)

	assert.True(t, updated.Total.Equal(decimal.NewFromInt(15)))
	assert.Equal(t, int64(5), f.quantity(t),
		"las 20 unidades viejas se revierten y entran las 5 nuevas")
	assert.True(t, f.supplierBalance(t).Equal(decimal.NewFromInt(15)),
		"el cargo viejo se reemplaza por el nuevo total")

	movs, err := f.accountsUC.ListMovements(f.companyID, f.supplierID)
	require.NoError(t, err)
	require.Len(t, movs, 1, "solo debe quedar el cargo nuevo")
	assert.True(t, movs[0].Amount.Equal(decimal.NewFromInt(15)))
}

func TestUpdateLines_DraftSoloReemplazaRenglones(t *testing.T) {
	f := newPurchasesFixture(t)
	p := f.create(t, 20, 1)

	newCost := decimal.NewFromInt(2)
	updated, err := f.uc.UpdateLines(context.Background(), f.companyID, p.ID, dto.UpdatePurchaseLinesRequest{
		Items: []dto.LineItemRequest{{MedicineID: f.medicineID, Quantity: 8, UnitCost: &newCost}},
	}, "u1")
	require.NoError(t, err)

	assert.True(t, updated.Total.Equal(decimal.NewFromInt(16)))
	assert.Equal(t, int64(0), f.quantity(t), "en borrador no hay efectos de stock")
	assert.True(t, f.supplierBalance(t).IsZero())
}

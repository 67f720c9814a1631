package sales_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/botica-api/internal/application/dto"
	"github.com/tu-usuario/botica-api/internal/application/sales"
	"github.com/tu-usuario/botica-api/internal/application/stock"
	"github.com/tu-usuario/botica-api/internal/domain"
	"github.com/tu-usuario/botica-api/internal/domain/entity"
	"github.com/tu-usuario/botica-api/internal/infrastructure/memory"
	"github.com/tu-usuario/botica-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fixture: farmacia con dos medicamentos en stock
// ──────────────────────────────────────────────────────────────────────────────

type salesFixture struct {
	store      *memory.Store
	stockUC    *stock.LedgerUseCase
	uc         *sales.UseCase
	companyID  string
	pharmacyID string
	medA, medB string
}

func newSalesFixture(t *testing.T) *salesFixture {
	t.Helper()
	store := memory.NewStore()
	log := logger.New(logger.Config{Env: "test", Level: "error"})

	f := &salesFixture{
		store:      store,
		companyID:  uuid.New().String(),
		pharmacyID: uuid.New().String(),
		medA:       uuid.New().String(),
		medB:       uuid.New().String(),
	}
	now := time.Now()
	require.NoError(t, store.Companies().Create(&entity.Company{
		ID: f.companyID, Name: "Botica Central SAC", NIT: "20123456789",
		Status: "active", CreatedAt: now, UpdatedAt: now,
	}))
	require.NoError(t, store.Pharmacies().Create(&entity.Pharmacy{
		ID: f.pharmacyID, CompanyID: f.companyID, Name: "Sede Centro",
		CreatedAt: now, UpdatedAt: now,
	}))
	require.NoError(t, store.Medicines().Create(&entity.Medicine{
		ID: f.medA, CompanyID: f.companyID, SKU: "PARA-500", Name: "Paracetamol 500mg",
		Price: decimal.NewFromInt(2), CreatedAt: now, UpdatedAt: now,
	}))
	require.NoError(t, store.Medicines().Create(&entity.Medicine{
		ID: f.medB, CompanyID: f.companyID, SKU: "IBUP-400", Name: "Ibuprofeno 400mg",
		Price: decimal.NewFromInt(3), CreatedAt: now, UpdatedAt: now,
	}))

	f.stockUC = stock.NewLedgerUseCase(
		store, store.Pharmacies(), store.Medicines(),
		store.StockAccounts(), store.StockMovements(), log,
	)
	f.uc = sales.NewUseCase(store, f.stockUC, store.Sales(), store.Pharmacies(), store.Medicines())
	return f
}

func (f *salesFixture) seed(t *testing.T, medicineID string, qty int64) {
	t.Helper()
	_, err := f.stockUC.AddStock(context.Background(), f.companyID, stock.MovementInput{
		PharmacyID: f.pharmacyID,
		MedicineID: medicineID,
		Quantity:   qty,
		Reason:     entity.ReasonPurchase,
		Ref:        entity.ManualRef(),
	})
	require.NoError(t, err)
}

func (f *salesFixture) quantity(t *testing.T, medicineID string) int64 {
	t.Helper()
	acct, err := f.store.StockAccounts().Get(f.pharmacyID, medicineID)
	require.NoError(t, err)
	return acct.Quantity
}

// ──────────────────────────────────────────────────────────────────────────────
// Create
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateSale_DraftConPrecioDeCatalogo(t *testing.T) {
	f := newSalesFixture(t)

	sale, err := f.uc.Create(context.Background(), f.companyID, "u1", dto.CreateSaleRequest{
		PharmacyID: f.pharmacyID,
		Items: []dto.LineItemRequest{
			{MedicineID: f.medA, Quantity: 3}, // precio catálogo: 2
		},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.SaleStatusDraft, sale.Status)
	require.Len(t, sale.Lines, 1)
	assert.True(t, sale.Lines[0].UnitPrice.Equal(decimal.NewFromInt(2)),
		"sin precio explícito rige el del catálogo")
	assert.True(t, sale.Total.Equal(decimal.NewFromInt(6)))
	assert.Equal(t, int64(0), f.quantity(t, f.medA),
		"crear el borrador no toca existencias")
}

func TestCreateSale_PrecioExplicitoYNegativo(t *testing.T) {
	f := newSalesFixture(t)
	price := decimal.NewFromFloat(1.50)

	sale, err := f.uc.Create(context.Background(), f.companyID, "u1", dto.CreateSaleRequest{
		PharmacyID: f.pharmacyID,
		Items:      []dto.LineItemRequest{{MedicineID: f.medA, Quantity: 2, UnitPrice: &price}},
	})
	require.NoError(t, err)
	assert.True(t, sale.Total.Equal(decimal.NewFromInt(3)))

	bad := decimal.NewFromInt(-1)
	_, err = f.uc.Create(context.Background(), f.companyID, "u1", dto.CreateSaleRequest{
		PharmacyID: f.pharmacyID,
		Items:      []dto.LineItemRequest{{MedicineID: f.medA, Quantity: 1, UnitPrice: &bad}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreateSale_MedicamentoDeOtraEmpresa(t *testing.T) {
	f := newSalesFixture(t)
	otherMed := uuid.New().String()
	now := time.Now()
	require.NoError(t, f.store.Medicines().Create(&entity.Medicine{
		ID: otherMed, CompanyID: uuid.New().String(), SKU: "AJENO-1", Name: "Ajeno",
		CreatedAt: now, UpdatedAt: now,
	}))

	_, err := f.uc.Create(context.Background(), f.companyID, "u1", dto.CreateSaleRequest{
		PharmacyID: f.pharmacyID,
		Items:      []dto.LineItemRequest{{MedicineID: otherMed, Quantity: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

// ──────────────────────────────────────────────────────────────────────────────
// Finalize
// ──────────────────────────────────────────────────────────────────────────────

func TestFinalizeSale_DescuentaStockYRecalculaTotal(t *testing.T) {
	f := newSalesFixture(t)
	f.seed(t, f.medA, 10)
	f.seed(t, f.medB, 10)

	sale, err := f.uc.Create(context.Background(), f.companyID, "u1", dto.CreateSaleRequest{
		PharmacyID: f.pharmacyID,
		Items: []dto.LineItemRequest{
			{MedicineID: f.medA, Quantity: 4}, // 4×2 = 8
			{MedicineID: f.medB, Quantity: 2}, // 2×3 = 6
		},
	})
	require.NoError(t, err)

	done, err := f.uc.Finalize(context.Background(), f.companyID, sale.ID, "u1")
	require.NoError(t, err)
	assert.Equal(t, entity.SaleStatusFinalized, done.Status)
	assert.True(t, done.Total.Equal(decimal.NewFromInt(14)),
		"el total se recalcula en el servidor como suma de subtotales")

	assert.Equal(t, int64(6), f.quantity(t, f.medA))
	assert.Equal(t, int64(8), f.quantity(t, f.medB))

	// Cada renglón dejó su movimiento SALE referenciando la venta.
	movs, err := f.store.StockMovements().ListByAccountUpTo(f.pharmacyID, f.medA, nil)
	require.NoError(t, err)
	last := movs[len(movs)-1]
	assert.Equal(t, entity.ReasonSale, last.Reason)
	assert.Equal(t, entity.RefSale, last.Ref.Kind)
	assert.Equal(t, sale.ID, last.Ref.ID)
}

// Un renglón sin existencias aborta toda la venta: ni el otro renglón se
// descuenta ni el estado cambia.
func TestFinalizeSale_AtomicaAnteFaltante(t *testing.T) {
	f := newSalesFixture(t)
	f.seed(t, f.medA, 10)
	f.seed(t, f.medB, 1)

	sale, err := f.uc.Create(context.Background(), f.companyID, "u1", dto.CreateSaleRequest{
		PharmacyID: f.pharmacyID,
		Items: []dto.LineItemRequest{
			{MedicineID: f.medA, Quantity: 4},
			{MedicineID: f.medB, Quantity: 5}, // solo hay 1
		},
	})
	require.NoError(t, err)

	_, err = f.uc.Finalize(context.Background(), f.companyID, sale.ID, "u1")
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.Equal(t, int64(10), f.quantity(t, f.medA), "la transacción no debe dejar mutación parcial")
	assert.Equal(t, int64(1), f.quantity(t, f.medB))

	got, err := f.uc.GetByID(f.companyID, sale.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.SaleStatusDraft, got.Status, "la venta sigue en borrador")
}

func TestFinalizeSale_DobleFinalizacion(t *testing.T) {
	f := newSalesFixture(t)
	f.seed(t, f.medA, 10)

	sale, err := f.uc.Create(context.Background(), f.companyID, "u1", dto.CreateSaleRequest{
		PharmacyID: f.pharmacyID,
		Items:      []dto.LineItemRequest{{MedicineID: f.medA, Quantity: 2}},
	})
	require.NoError(t, err)

	_, err = f.uc.Finalize(context.Background(), f.companyID, sale.ID, "u1")
	require.NoError(t, err)

	_, err = f.uc.Finalize(context.Background(), f.companyID, sale.ID, "u1")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition, "FINALIZED es terminal")
	assert.Equal(t, int64(8), f.quantity(t, f.medA), "no debe descontar dos veces")
}

// ──────────────────────────────────────────────────────────────────────────────
// Listado
// ──────────────────────────────────────────────────────────────────────────────

func TestListSales_ValidaTenant(t *testing.T) {
	f := newSalesFixture(t)

	_, err := f.uc.Create(context.Background(), f.companyID, "u1", dto.CreateSaleRequest{
		PharmacyID: f.pharmacyID,
		Items:      []dto.LineItemRequest{{MedicineID: f.medA, Quantity: 1}},
	})
	require.NoError(t, err)

	list, err := f.uc.ListByPharmacy(f.companyID, f.pharmacyID, 20, 0)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = f.uc.ListByPharmacy(uuid.New().String(), f.pharmacyID, 20, 0)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

package transfers_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/botica-api/internal/application/dto"
	"github.com/tu-usuario/botica-api/internal/application/stock"
	"github.com/tu-usuario/botica-api/internal/application/transfers"
	"github.com/tu-usuario/botica-api/internal/domain"
	"github.com/tu-usuario/botica-api/internal/domain/entity"
	"github.com/tu-usuario/botica-api/internal/infrastructure/memory"
	"github.com/tu-usuario/botica-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fixture: dos sedes de la misma empresa y un medicamento con stock en origen
// ──────────────────────────────────────────────────────────────────────────────

type transfersFixture struct {
	store      *memory.Store
	stockUC    *stock.LedgerUseCase
	uc         *transfers.UseCase
	companyID  string
	sourceID   string
	destID     string
	medicineID string
}

func newTransfersFixture(t *testing.T) *transfersFixture {
	t.Helper()
	store := memory.NewStore()
	log := logger.New(logger.Config{Env: "test", Level: "error"})

	f := &transfersFixture{
		store:      store,
		companyID:  uuid.New().String(),
		sourceID:   uuid.New().String(),
		destID:     uuid.New().String(),
		medicineID: uuid.New().String(),
	}
	now := time.Now()
	require.NoError(t, store.Companies().Create(&entity.Company{
		ID: f.companyID, Name: "Botica Central SAC", NIT: "20123456789",
		Status: "active", CreatedAt: now, UpdatedAt: now,
	}))
	require.NoError(t, store.Pharmacies().Create(&entity.Pharmacy{
		ID: f.sourceID, CompanyID: f.companyID, Name: "Sede Origen", CreatedAt: now, UpdatedAt: now,
	}))
	require.NoError(t, store.Pharmacies().Create(&entity.Pharmacy{
		ID: f.destID, CompanyID: f.companyID, Name: "Sede Destino", CreatedAt: now, UpdatedAt: now,
	}))
	require.NoError(t, store.Medicines().Create(&entity.Medicine{
		ID: f.medicineID, CompanyID: f.companyID, SKU: "DICLO-50", Name: "Diclofenaco 50mg",
		Cost: decimal.NewFromInt(1), CreatedAt: now, UpdatedAt: now,
	}))

	f.stockUC = stock.NewLedgerUseCase(
		store, store.Pharmacies(), store.Medicines(),
		store.StockAccounts(), store.StockMovements(), log,
	)
	f.uc = transfers.NewUseCase(store, f.stockUC, store.Transfers(), store.Pharmacies(), store.Medicines())

	// Stock inicial en la sede origen con costo unitario 2.
	cost := decimal.NewFromInt(2)
	_, err := f.stockUC.AddStock(context.Background(), f.companyID, stock.MovementInput{
		PharmacyID: f.sourceID,
		MedicineID: f.medicineID,
		Quantity:   100,
		Reason:     entity.ReasonPurchase,
		Ref:        entity.ManualRef(),
		UnitCost:   &cost,
	})
	require.NoError(t, err)
	return f
}

func (f *transfersFixture) create(t *testing.T, qty int64) *entity.Transfer {
	t.Helper()
	tr, err := f.uc.Create(context.Background(), f.companyID, "u1", dto.CreateTransferRequest{
		SourcePharmacyID: f.sourceID,
		DestPharmacyID:   f.destID,
		Items:            []dto.LineItemRequest{{MedicineID: f.medicineID, Quantity: qty}},
	})
	require.NoError(t, err)
	return tr
}

func (f *transfersFixture) quantity(t *testing.T, pharmacyID string) int64 {
	t.Helper()
	acct, err := f.store.StockAccounts().Get(pharmacyID, f.medicineID)
	require.NoError(t, err)
	return acct.Quantity
}

// ──────────────────────────────────────────────────────────────────────────────
// Create y máquina de estados
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateTransfer_Pendiente(t *testing.T) {
	f := newTransfersFixture(t)

	tr := f.create(t, 40)
	assert.Equal(t, entity.TransferStatusPending, tr.Status)
	assert.False(t, tr.Completed)
	assert.Equal(t, int64(100), f.quantity(t, f.sourceID), "crear no mueve stock")
}

func TestCreateTransfer_MismaSede(t *testing.T) {
	f := newTransfersFixture(t)

	_, err := f.uc.Create(context.Background(), f.companyID, "u1", dto.CreateTransferRequest{
		SourcePharmacyID: f.sourceID,
		DestPharmacyID:   f.sourceID,
		Items:            []dto.LineItemRequest{{MedicineID: f.medicineID, Quantity: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput,
		"origen y destino no pueden ser la misma sede")
}

func TestApproveReject_SoloDesdePending(t *testing.T) {
	f := newTransfersFixture(t)

	tr := f.create(t, 10)
	approved, err := f.uc.Approve(context.Background(), f.companyID, tr.ID, "admin-1")
	require.NoError(t, err)
	assert.Equal(t, entity.TransferStatusApproved, approved.Status)
	assert.Equal(t, "admin-1", approved.ApprovedBy)

	_, err = f.uc.Approve(context.Background(), f.companyID, tr.ID, "admin-1")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition, "no se aprueba dos veces")

	_, err = f.uc.Reject(context.Background(), f.companyID, tr.ID, "admin-1", "sin motivo")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition, "aprobado ya no admite rechazo")

	tr2 := f.create(t, 5)
	rejected, err := f.uc.Reject(context.Background(), f.companyID, tr2.ID, "admin-1", "stock reservado")
	require.NoError(t, err)
	assert.Equal(t, entity.TransferStatusRejected, rejected.Status)
	assert.Equal(t, "stock reservado", rejected.RejectReason)
}

func TestProcess_RequiereAprobacion(t *testing.T) {
	f := newTransfersFixture(t)

	tr := f.create(t, 10)
	_, err := f.uc.Process(context.Background(), f.companyID, tr.ID, "u1")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition, "PENDING no se procesa")
}

// ──────────────────────────────────────────────────────────────────────────────
// Process
// ──────────────────────────────────────────────────────────────────────────────

func TestProcess_MueveStockEntreSedes(t *testing.T) {
	f := newTransfersFixture(t)

	tr := f.create(t, 40)
	_, err := f.uc.Approve(context.Background(), f.companyID, tr.ID, "admin-1")
	require.NoError(t, err)

	done, err := f.uc.Process(context.Background(), f.companyID, tr.ID, "u1")
	require.NoError(t, err)
	assert.True(t, done.Completed)
	require.NotNil(t, done.CompletedAt)
	assert.True(t, done.Total.Equal(decimal.NewFromInt(80)),
		"el total usa el costo unitario del origen al procesar (40×2)")

	assert.Equal(t, int64(60), f.quantity(t, f.sourceID))
	assert.Equal(t, int64(40), f.quantity(t, f.destID))

	// La cuenta destino se siembra con el costo del origen.
	dstAcct, err := f.store.StockAccounts().Get(f.destID, f.medicineID)
	require.NoError(t, err)
	assert.True(t, dstAcct.UnitCost.Equal(decimal.NewFromInt(2)))

	// Ambos lados del libro referencian el traslado.
	srcMovs, err := f.store.StockMovements().ListByAccountUpTo(f.sourceID, f.medicineID, nil)
	require.NoError(t, err)
	last := srcMovs[len(srcMovs)-1]
	assert.Equal(t, entity.ReasonTransferOut, last.Reason)
	assert.Equal(t, entity.RefTransfer, last.Ref.Kind)
	assert.Equal(t, tr.ID, last.Ref.ID)

	dstMovs, err := f.store.StockMovements().ListByAccountUpTo(f.destID, f.medicineID, nil)
	require.NoError(t, err)
	assert.Equal(t, entity.ReasonTransferIn, dstMovs[len(dstMovs)-1].Reason)

	_, err = f.uc.Process(context.Background(), f.companyID, tr.ID, "u1")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition, "completado no se procesa de nuevo")
}

func TestProcess_SinExistencias_Atomico(t *testing.T) {
	f := newTransfersFixture(t)

	tr := f.create(t, 150) // solo hay 100
	_, err := f.uc.Approve(context.Background(), f.companyID, tr.ID, "admin-1")
	require.NoError(t, err)

	_, err = f.uc.Process(context.Background(), f.companyID, tr.ID, "u1")
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.Equal(t, int64(100), f.quantity(t, f.sourceID), "nada se movió")
	assert.Equal(t, int64(0), f.quantity(t, f.destID))

	got, err := f.uc.GetByID(f.companyID, tr.ID)
	require.NoError(t, err)
	assert.False(t, got.Completed, "el traslado sigue aprobado sin completar")
}

// ──────────────────────────────────────────────────────────────────────────────
// Reverse
// ──────────────────────────────────────────────────────────────────────────────

func TestReverse_DevuelveStockAlOrigen(t *testing.T) {
	f := newTransfersFixture(t)

	tr := f.create(t, 40)
	_, err := f.uc.Approve(context.Background(), f.companyID, tr.ID, "admin-1")
	require.NoError(t, err)
	_, err = f.uc.Process(context.Background(), f.companyID, tr.ID, "u1")
	require.NoError(t, err)

	reversed, err := f.uc.Reverse(context.Background(), f.companyID, tr.ID, "admin-1")
	require.NoError(t, err)
	assert.False(t, reversed.Completed)
	assert.Nil(t, reversed.CompletedAt)
	assert.Equal(t, entity.TransferStatusPending, reversed.Status,
		"tras revertir el traslado vuelve a PENDING")

	assert.Equal(t, int64(100), f.quantity(t, f.sourceID))
	assert.Equal(t, int64(0), f.quantity(t, f.destID))

	_, err = f.uc.Reverse(context.Background(), f.companyID, tr.ID, "admin-1")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition, "solo un traslado completado se revierte")
}

// Si el destino ya vendió parte de lo recibido, la reversa falla atómica.
func TestReverse_DestinoYaVendio_Falla(t *testing.T) {
	f := newTransfersFixture(t)

	tr := f.create(t, 40)
	_, err := f.uc.Approve(context.Background(), f.companyID, tr.ID, "admin-1")
	require.NoError(t, err)
	_, err = f.uc.Process(context.Background(), f.companyID, tr.ID, "u1")
	require.NoError(t, err)

	// El destino vende 10 de las 40 recibidas.
	_, err = f.stockUC.ReduceStock(context.Background(), f.companyID, stock.MovementInput{
		PharmacyID: f.destID,
		MedicineID: f.medicineID,
		Quantity:   10,
		Reason:     entity.ReasonSale,
		Ref:        entity.ManualRef(),
	})
	require.NoError(t, err)

	_, err = f.uc.Reverse(context.Background(), f.companyID, tr.ID, "admin-1")
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.Equal(t, int64(60), f.quantity(t, f.sourceID), "la reversa fallida no muta nada")
	assert.Equal(t, int64(30), f.quantity(t, f.destID))

	got, err := f.uc.GetByID(f.companyID, tr.ID)
	require.NoError(t, err)
	assert.True(t, got.Completed, "el traslado sigue completado")
}

// ──────────────────────────────────────────────────────────────────────────────
// Tenant
// ──────────────────────────────────────────────────────────────────────────────

func TestTransfer_OtraEmpresa_Forbidden(t *testing.T) {
	f := newTransfersFixture(t)
	tr := f.create(t, 5)

	_, err := f.uc.GetByID(uuid.New().String(), tr.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = f.uc.Approve(context.Background(), uuid.New().String(), tr.ID, "x")
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

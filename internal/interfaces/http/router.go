package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/botica-api/internal/application/accounts"
	"github.com/tu-usuario/botica-api/internal/application/auth"
	"github.com/tu-usuario/botica-api/internal/application/catalog"
	"github.com/tu-usuario/botica-api/internal/application/purchases"
	"github.com/tu-usuario/botica-api/internal/application/sales"
	"github.com/tu-usuario/botica-api/internal/application/stock"
	"github.com/tu-usuario/botica-api/internal/application/transfers"
	"github.com/tu-usuario/botica-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	CompanyUC  *catalog.CompanyUseCase
	PharmacyUC *catalog.PharmacyUseCase
	MedicineUC *catalog.MedicineUseCase
	StockUC    *stock.LedgerUseCase
	AccountUC  *accounts.UseCase
	SaleUC     *sales.UseCase
	PurchaseUC *purchases.UseCase
	TransferUC *transfers.UseCase
	AuthUC     *auth.UseCase
	JWTSecret  string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Companies (público para bootstrap del tenant)
	companies := api.Group("/companies")
	companyHandler := NewCompanyHandler(deps.CompanyUC)
	companies.Post("/", companyHandler.Create)
	companies.Get("/:id", companyHandler.GetByID)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	manager := RequireRole(entity.RoleAdmin, entity.RoleFarmaceuta)

	// Pharmacies (protegido)
	pharmacies := protected.Group("/pharmacies")
	pharmacyHandler := NewPharmacyHandler(deps.PharmacyUC)
	pharmacies.Post("/", manager, pharmacyHandler.Create)
	pharmacies.Get("/", pharmacyHandler.List)
	pharmacies.Get("/:id", pharmacyHandler.GetByID)
	pharmacies.Put("/:id", manager, pharmacyHandler.Update)
	pharmacies.Delete("/:id", RequireRole(entity.RoleAdmin), pharmacyHandler.Delete)

	// Medicines (protegido)
	medicines := protected.Group("/medicines")
	medicineHandler := NewMedicineHandler(deps.MedicineUC)
	medicines.Post("/", manager, medicineHandler.Create)
	medicines.Get("/", medicineHandler.List)
	medicines.Get("/:id", medicineHandler.GetByID)
	medicines.Put("/:id", manager, medicineHandler.Update)

	// Stock ledger (protegido)
	stockGroup := protected.Group("/stock")
	stockHandler := NewStockHandler(deps.StockUC)
	stockGroup.Post("/add", manager, stockHandler.AddStock)
	stockGroup.Post("/adjust", manager, stockHandler.AdjustStock)
	stockGroup.Get("/accounts", stockHandler.ListAccounts)
	stockGroup.Get("/movements", stockHandler.ListMovements)
	stockGroup.Get("/quantity", stockHandler.QuantityAsOf)

	// Cuentas corrientes (protegido)
	accountsGroup := protected.Group("/accounts")
	accountHandler := NewAccountHandler(deps.AccountUC)
	accountsGroup.Post("/", manager, accountHandler.Create)
	accountsGroup.Get("/", accountHandler.List)
	accountsGroup.Get("/:id", accountHandler.GetByID)
	accountsGroup.Get("/:id/movements", accountHandler.ListMovements)
	accountsGroup.Post("/:id/purchases", manager, accountHandler.RecordPurchase)
	accountsGroup.Post("/:id/payments", manager, accountHandler.RecordPayment)
	accountsGroup.Post("/:id/resets", RequireRole(entity.RoleAdmin), accountHandler.RecordReset)
	accountsGroup.Post("/:id/reconcile", manager, accountHandler.Reconcile)

	// Sales (protegido, todos los roles)
	salesGroup := protected.Group("/sales")
	saleHandler := NewSaleHandler(deps.SaleUC)
	salesGroup.Post("/", saleHandler.Create)
	salesGroup.Get("/", saleHandler.List)
	salesGroup.Get("/:id", saleHandler.GetByID)
	salesGroup.Post("/:id/finalize", saleHandler.Finalize)

	// Purchases (protegido)
	purchasesGroup := protected.Group("/purchases")
	purchaseHandler := NewPurchaseHandler(deps.PurchaseUC)
	purchasesGroup.Post("/", manager, purchaseHandler.Create)
	purchasesGroup.Get("/", purchaseHandler.List)
	purchasesGroup.Get("/:id", purchaseHandler.GetByID)
	purchasesGroup.Post("/:id/finalize", manager, purchaseHandler.Finalize)
	purchasesGroup.Put("/:id/lines", manager, purchaseHandler.UpdateLines)
	purchasesGroup.Delete("/:id", RequireRole(entity.RoleAdmin), purchaseHandler.Delete)

	// Transfers (protegido)
	transfersGroup := protected.Group("/transfers")
	transferHandler := NewTransferHandler(deps.TransferUC)
	transfersGroup.Post("/", transferHandler.Create)
	transfersGroup.Get("/", transferHandler.List)
	transfersGroup.Get("/:id", transferHandler.GetByID)
	transfersGroup.Post("/:id/approve", manager, transferHandler.Approve)
	transfersGroup.Post("/:id/reject", manager, transferHandler.Reject)
	transfersGroup.Post("/:id/process", manager, transferHandler.Process)
	transfersGroup.Post("/:id/reverse", RequireRole(entity.RoleAdmin), transferHandler.Reverse)
}

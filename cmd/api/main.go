package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/tu-usuario/botica-api/internal/application/accounts"
	"github.com/tu-usuario/botica-api/internal/application/auth"
	"github.com/tu-usuario/botica-api/internal/application/catalog"
	"github.com/tu-usuario/botica-api/internal/application/purchases"
	"github.com/tu-usuario/botica-api/internal/application/sales"
	"github.com/tu-usuario/botica-api/internal/application/stock"
	"github.com/tu-usuario/botica-api/internal/application/transfers"
	"github.com/tu-usuario/botica-api/internal/domain/repository"
	"github.com/tu-usuario/botica-api/internal/infrastructure/memory"
	"github.com/tu-usuario/botica-api/internal/infrastructure/postgres"
	httpRouter "github.com/tu-usuario/botica-api/internal/interfaces/http"
	"github.com/tu-usuario/botica-api/pkg/config"
	"github.com/tu-usuario/botica-api/pkg/logger"
)

// repos agrupa las implementaciones del almacén elegido por configuración.
type repos struct {
	txRunner         stock.TxRunner
	companies        repository.CompanyRepository
	pharmacies       repository.PharmacyRepository
	medicines        repository.MedicineRepository
	users            repository.UserRepository
	stockAccounts    repository.StockAccountRepository
	stockMovements   repository.StockMovementRepository
	accounts         repository.AccountRepository
	accountMovements repository.AccountMovementRepository
	sales            repository.SaleRepository
	purchases        repository.PurchaseRepository
	transfers        repository.TransferRepository
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.App.Store).
		Msg("iniciando aplicación")

	ctx := context.Background()

	var r repos
	if cfg.App.Store == "memory" {
		store := memory.NewStore()
		r = repos{
			txRunner:         store,
			companies:        store.Companies(),
			pharmacies:       store.Pharmacies(),
			medicines:        store.Medicines(),
			users:            store.Users(),
			stockAccounts:    store.StockAccounts(),
			stockMovements:   store.StockMovements(),
			accounts:         store.Accounts(),
			accountMovements: store.AccountMovements(),
			sales:            store.Sales(),
			purchases:        store.Purchases(),
			transfers:        store.Transfers(),
		}
	} else {
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()

		r = repos{
			txRunner:         postgres.NewTxRunner(pool),
			companies:        postgres.NewCompanyRepository(pool),
			pharmacies:       postgres.NewPharmacyRepository(pool),
			medicines:        postgres.NewMedicineRepository(pool),
			users:            postgres.NewUserRepository(pool),
			stockAccounts:    postgres.NewStockAccountRepository(pool),
			stockMovements:   postgres.NewStockMovementRepository(pool),
			accounts:         postgres.NewAccountRepository(pool),
			accountMovements: postgres.NewAccountMovementRepository(pool),
			sales:            postgres.NewSaleRepository(pool),
			purchases:        postgres.NewPurchaseRepository(pool),
			transfers:        postgres.NewTransferRepository(pool),
		}
	}

	companyUC := catalog.NewCompanyUseCase(r.companies)
	pharmacyUC := catalog.NewPharmacyUseCase(r.pharmacies)
	medicineUC := catalog.NewMedicineUseCase(r.medicines)

	stockUC := stock.NewLedgerUseCase(r.txRunner, r.pharmacies, r.medicines, r.stockAccounts, r.stockMovements, log)
	accountUC := accounts.NewUseCase(r.txRunner, r.accounts, r.accountMovements, log)
	saleUC := sales.NewUseCase(r.txRunner, stockUC, r.sales, r.pharmacies, r.medicines)
	purchaseUC := purchases.NewUseCase(r.txRunner, stockUC, accountUC, r.purchases, r.accounts, r.pharmacies, r.medicines)
	transferUC := transfers.NewUseCase(r.txRunner, stockUC, r.transfers, r.pharmacies, r.medicines)

	authUC := auth.NewUseCase(r.users, r.companies, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		CompanyUC:  companyUC,
		PharmacyUC: pharmacyUC,
		MedicineUC: medicineUC,
		StockUC:    stockUC,
		AccountUC:  accountUC,
		SaleUC:     saleUC,
		PurchaseUC: purchaseUC,
		TransferUC: transferUC,
		AuthUC:     authUC,
		JWTSecret:  cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jmoralesdev/punto-venta-api/internal/application/audit"
	"github.com/jmoralesdev/punto-venta-api/internal/application/auth"
	"github.com/jmoralesdev/punto-venta-api/internal/application/authz"
	"github.com/jmoralesdev/punto-venta-api/internal/application/customers"
	"github.com/jmoralesdev/punto-venta-api/internal/application/inventory"
	"github.com/jmoralesdev/punto-venta-api/internal/application/pricing"
	"github.com/jmoralesdev/punto-venta-api/internal/application/receipts"
	"github.com/jmoralesdev/punto-venta-api/internal/application/sales"
	"github.com/jmoralesdev/punto-venta-api/internal/application/shifts"
	"github.com/jmoralesdev/punto-venta-api/internal/application/usecase"
	infrapdf "github.com/jmoralesdev/punto-venta-api/internal/infrastructure/pdf"
	"github.com/jmoralesdev/punto-venta-api/internal/infrastructure/postgres"
	httpRouter "github.com/jmoralesdev/punto-venta-api/internal/interfaces/http"
	"github.com/jmoralesdev/punto-venta-api/pkg/config"
	"github.com/jmoralesdev/punto-venta-api/pkg/logger"
)

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
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	// Repositorios sobre el pool (las transacciones usan el TxRunner).
	businessRepo := postgres.NewBusinessRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	permissionRepo := postgres.NewPermissionRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	movementRepo := postgres.NewInventoryMovementRepository(pool)
	priceHistoryRepo := postgres.NewPriceHistoryRepository(pool)
	registerRepo := postgres.NewCashRegisterRepository(pool)
	shiftRepo := postgres.NewCashShiftRepository(pool)
	saleRepo := postgres.NewSaleRepository(pool)
	paymentRepo := postgres.NewPaymentRepository(pool)
	customerRepo := postgres.NewCustomerRepository(pool)
	auditRepo := postgres.NewAuditRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Oráculo de permisos y sumidero de auditoría: transversales a todo.
	oracle := authz.NewOracle(userRepo, permissionRepo)
	auditSink := audit.NewSink(auditRepo, log)

	authUC := auth.NewUseCase(userRepo, businessRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	productUC := usecase.NewProductUseCase(productRepo, movementRepo, oracle, auditSink, log)
	registerUC := usecase.NewRegisterUseCase(registerRepo, oracle, auditSink)
	permissionUC := usecase.NewPermissionUseCase(permissionRepo, userRepo, oracle, auditSink)
	auditUC := usecase.NewAuditUseCase(auditRepo, oracle)

	inventoryUC := inventory.NewUseCase(txRunner, productRepo, movementRepo, oracle, auditSink)
	pricingUC := pricing.NewUseCase(txRunner, productRepo, priceHistoryRepo, oracle, auditSink)
	salesUC := sales.NewUseCase(
		txRunner, saleRepo, productRepo, shiftRepo, customerRepo,
		inventoryUC, oracle, authUC, auditSink,
	)
	shiftsUC := shifts.NewUseCase(txRunner, shiftRepo, registerRepo, userRepo, oracle, auditSink)
	customerUC := customers.NewUseCase(customerRepo, oracle, auditSink)

	pdfGenerator := infrapdf.NewMarotoReceiptGenerator()
	receiptsUC := receipts.NewUseCase(saleRepo, businessRepo, productRepo, paymentRepo, pdfGenerator)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Punto de Venta API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:       authUC,
		Oracle:       oracle,
		ProductUC:    productUC,
		PricingUC:    pricingUC,
		InventoryUC:  inventoryUC,
		SalesUC:      salesUC,
		ReceiptsUC:   receiptsUC,
		ShiftsUC:     shiftsUC,
		RegisterUC:   registerUC,
		CustomerUC:   customerUC,
		PermissionUC: permissionUC,
		AuditUC:      auditUC,
		JWTSecret:    cfg.JWT.Secret,
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

package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jmoralesdev/punto-venta-api/internal/application/auth"
	"github.com/jmoralesdev/punto-venta-api/internal/application/authz"
	"github.com/jmoralesdev/punto-venta-api/internal/application/customers"
	"github.com/jmoralesdev/punto-venta-api/internal/application/inventory"
	"github.com/jmoralesdev/punto-venta-api/internal/application/pricing"
	"github.com/jmoralesdev/punto-venta-api/internal/application/receipts"
	"github.com/jmoralesdev/punto-venta-api/internal/application/sales"
	"github.com/jmoralesdev/punto-venta-api/internal/application/shifts"
	"github.com/jmoralesdev/punto-venta-api/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC       *auth.UseCase
	Oracle       *authz.Oracle
	ProductUC    *usecase.ProductUseCase
	PricingUC    *pricing.UseCase
	InventoryUC  *inventory.UseCase
	SalesUC      *sales.UseCase
	ReceiptsUC   *receipts.UseCase
	ShiftsUC     *shifts.UseCase
	RegisterUC   *usecase.RegisterUseCase
	CustomerUC   *customers.UseCase
	PermissionUC *usecase.PermissionUseCase
	AuditUC      *usecase.AuditUseCase
	JWTSecret    string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC, deps.Oracle)
	authGroup := api.Group("/auth")
	authGroup.Post("/register", authHandler.RegisterBusiness)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Users (protegido)
	users := protected.Group("/users")
	users.Post("/", authHandler.RegisterUser)
	users.Put("/me/pin", authHandler.SetPIN)

	// Products + motor de precios (protegido)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC, deps.PricingUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/barcode/:barcode", productHandler.GetByBarcode)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Deactivate)
	products.Put("/:id/price", productHandler.ChangePrice)
	products.Get("/:id/price-history", productHandler.PriceHistory)

	// Inventory (protegido)
	invGroup := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.InventoryUC)
	invGroup.Post("/movements", inventoryHandler.RegisterMovement)
	invGroup.Get("/low-stock", inventoryHandler.LowStock)
	invGroup.Get("/products/:id/stock", inventoryHandler.Stock)
	invGroup.Get("/products/:id/movements", inventoryHandler.ListMovements)

	// Sales (protegido)
	salesGroup := protected.Group("/sales")
	saleHandler := NewSaleHandler(deps.SalesUC, deps.ReceiptsUC)
	salesGroup.Post("/", saleHandler.Create)
	salesGroup.Get("/", saleHandler.List)
	salesGroup.Get("/:id", saleHandler.GetByID)
	salesGroup.Post("/:id/pay", saleHandler.Pay)
	salesGroup.Post("/:id/cancel", saleHandler.Cancel)
	salesGroup.Post("/:id/refund", saleHandler.Refund)
	salesGroup.Get("/:id/receipt", saleHandler.Receipt)

	// Shifts + registers (protegido)
	shiftHandler := NewShiftHandler(deps.ShiftsUC, deps.RegisterUC)
	shiftsGroup := protected.Group("/shifts")
	shiftsGroup.Post("/open", shiftHandler.Open)
	shiftsGroup.Get("/current", shiftHandler.Current)
	shiftsGroup.Get("/", shiftHandler.List)
	shiftsGroup.Get("/:id", shiftHandler.GetByID)
	shiftsGroup.Post("/:id/close", shiftHandler.Close)
	shiftsGroup.Post("/:id/force-close", shiftHandler.ForceClose)
	shiftsGroup.Post("/:id/reconcile", shiftHandler.Reconcile)
	shiftsGroup.Post("/:id/transfer", shiftHandler.Transfer)

	registersGroup := protected.Group("/registers")
	registersGroup.Post("/", shiftHandler.CreateRegister)
	registersGroup.Get("/", shiftHandler.ListRegisters)

	// Customers (protegido)
	customersGroup := protected.Group("/customers")
	customerHandler := NewCustomerHandler(deps.CustomerUC)
	customersGroup.Post("/", customerHandler.Create)
	customersGroup.Get("/", customerHandler.List)
	customersGroup.Get("/:id", customerHandler.GetByID)
	customersGroup.Put("/:id", customerHandler.Update)

	// Permissions + audit (protegido)
	adminHandler := NewAdminHandler(deps.PermissionUC, deps.AuditUC)
	permissionsGroup := protected.Group("/permissions")
	permissionsGroup.Post("/grant", adminHandler.GrantPermission)
	permissionsGroup.Post("/revoke", adminHandler.RevokePermission)
	users.Get("/:id/permissions", adminHandler.ListUserPermissions)
	protected.Get("/audit", adminHandler.ListAuditLog)
}

package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jmoralesdev/punto-venta-api/internal/application/inventory"
	"github.com/jmoralesdev/punto-venta-api/internal/application/pricing"
	"github.com/jmoralesdev/punto-venta-api/internal/application/sales"
	"github.com/jmoralesdev/punto-venta-api/internal/application/shifts"
	"github.com/jmoralesdev/punto-venta-api/internal/domain/repository"
)

var (
	_ inventory.TxRunner = (*TxRunner)(nil)
	_ pricing.TxRunner   = (*TxRunner)(nil)
	_ sales.TxRunner     = (*TxRunner)(nil)
	_ shifts.TxRunner    = (*TxRunner)(nil)
)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL. Cada Run*
// entrega repos atados a la misma tx; el rollback diferido es inocuo tras un
// Commit exitoso.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run transacción del libro de inventario (movimiento + bloqueo de producto).
func (r *TxRunner) Run(ctx context.Context, fn func(
	movRepo repository.InventoryMovementRepository,
	productRepo repository.ProductRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewInventoryMovementRepository(tx), NewProductRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunPricing transacción del cambio de precio (producto + historial).
func (r *TxRunner) RunPricing(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	historyRepo repository.PriceHistoryRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewProductRepository(tx), NewPriceHistoryRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunSale transacción del motor de ventas: venta, líneas, folio, movimientos,
// pagos y agregados del cliente comparten la misma tx.
func (r *TxRunner) RunSale(ctx context.Context, fn func(
	saleRepo repository.SaleRepository,
	paymentRepo repository.PaymentRepository,
	movRepo repository.InventoryMovementRepository,
	productRepo repository.ProductRepository,
	folioRepo repository.FolioRepository,
	customerRepo repository.CustomerRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	err = fn(
		NewSaleRepository(tx),
		NewPaymentRepository(tx),
		NewInventoryMovementRepository(tx),
		NewProductRepository(tx),
		NewFolioRepository(tx),
		NewCustomerRepository(tx),
	)
	if err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunShift transacción de cierre/conciliación de turno (turno + acumulados de
// pagos).
func (r *TxRunner) RunShift(ctx context.Context, fn func(
	shiftRepo repository.CashShiftRepository,
	paymentRepo repository.PaymentRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewCashShiftRepository(tx), NewPaymentRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

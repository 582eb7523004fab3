// Package pricing implementa el motor de precios: cambios de costo/precio con
// historial completo y auditoría. Los valores vigentes viven en Product; cada
// cambio agrega una fila inmutable a PriceHistory.
package pricing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jmoralesdev/punto-venta-api/internal/application/audit"
	"github.com/jmoralesdev/punto-venta-api/internal/application/dto"
	"github.com/jmoralesdev/punto-venta-api/internal/domain"
	"github.com/jmoralesdev/punto-venta-api/internal/domain/entity"
	"github.com/jmoralesdev/punto-venta-api/internal/domain/repository"
)

// UseCase motor de precios.
type UseCase struct {
	txRunner    TxRunner
	productRepo repository.ProductRepository
	historyRepo repository.PriceHistoryRepository
	authorizer  Authorizer
	auditor     Auditor
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	historyRepo repository.PriceHistoryRepository,
	authorizer Authorizer,
	auditor Auditor,
) *UseCase {
	return &UseCase{
		txRunner:    txRunner,
		productRepo: productRepo,
		historyRepo: historyRepo,
		authorizer:  authorizer,
		auditor:     auditor,
	}
}

// UpdateProductPrice cambia costo y/o precio del producto. Exige el permiso
// fino products.adjust_price (no el genérico products.update). Si ninguno de
// los valores difiere del vigente es un no-op: no se escribe historial ni
// auditoría. El cambio y su registro histórico son atómicos.
func (uc *UseCase) UpdateProductPrice(ctx context.Context, businessID, productID string, in dto.PriceChangeRequest, userID string) (*entity.Product, error) {
	if err := uc.authorizer.RequirePermission(ctx, userID, entity.PermProductsAdjustPrice, businessID); err != nil {
		return nil, err
	}

	product, err := uc.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if product.BusinessID != businessID {
		return nil, domain.ErrForbidden
	}

	newCost := product.Cost
	newPrice := product.Price
	var violations []string
	if in.Cost != nil {
		if in.Cost.LessThan(decimal.Zero) {
			violations = append(violations, "el costo no puede ser negativo")
		}
		newCost = *in.Cost
	}
	if in.Price != nil {
		if in.Price.LessThan(decimal.Zero) {
			violations = append(violations, "el precio no puede ser negativo")
		}
		newPrice = *in.Price
	}
	if in.Reason == "" {
		violations = append(violations, "el motivo del cambio es obligatorio")
	}
	if len(violations) > 0 {
		return nil, &domain.ValidationError{Violations: violations}
	}

	if newCost.Equal(product.Cost) && newPrice.Equal(product.Price) {
		return product, nil // nada cambió
	}

	now := time.Now()
	effective := now
	if in.EffectiveDate != nil {
		effective = *in.EffectiveDate
	}
	history := &entity.PriceHistory{
		ID:            uuid.New().String(),
		BusinessID:    businessID,
		ProductID:     productID,
		OldCost:       product.Cost,
		NewCost:       newCost,
		OldPrice:      product.Price,
		NewPrice:      newPrice,
		Reason:        in.Reason,
		ChangedBy:     userID,
		EffectiveDate: effective,
		CreatedAt:     now,
	}

	err = uc.txRunner.RunPricing(ctx, func(
		productRepo repository.ProductRepository,
		historyRepo repository.PriceHistoryRepository,
	) error {
		if err := productRepo.UpdatePricing(productID, newCost, newPrice); err != nil {
			return err
		}
		return historyRepo.Create(history)
	})
	if err != nil {
		return nil, err
	}

	uc.auditor.Record(ctx, audit.Entry{
		BusinessID:   businessID,
		UserID:       userID,
		Action:       "products.adjust_price",
		ResourceType: "product",
		ResourceID:   productID,
		Details:      in.Reason,
		OldValue:     fmt.Sprintf("cost=%s price=%s", product.Cost, product.Price),
		NewValue:     fmt.Sprintf("cost=%s price=%s", newCost, newPrice),
	})

	product.Cost = newCost
	product.Price = newPrice
	product.UpdatedAt = now
	return product, nil
}

// ListPriceHistory historial de cambios de un producto, más recientes primero.
func (uc *UseCase) ListPriceHistory(ctx context.Context, businessID, productID string, limit, offset int) ([]*entity.PriceHistory, error) {
	product, err := uc.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if product.BusinessID != businessID {
		return nil, domain.ErrForbidden
	}
	return uc.historyRepo.ListByProduct(productID, limit, offset)
}

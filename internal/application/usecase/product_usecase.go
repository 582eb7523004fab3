// Package usecase agrupa los casos de uso CRUD que no ameritan motor propio:
// catálogo de productos, cajas físicas, concesiones de permiso y consulta de
// auditoría.
package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jmoralesdev/punto-venta-api/internal/application/audit"
	"github.com/jmoralesdev/punto-venta-api/internal/application/dto"
	"github.com/jmoralesdev/punto-venta-api/internal/domain"
	"github.com/jmoralesdev/punto-venta-api/internal/domain/entity"
	"github.com/jmoralesdev/punto-venta-api/internal/domain/repository"
	"github.com/jmoralesdev/punto-venta-api/internal/domain/tax"
	"github.com/jmoralesdev/punto-venta-api/pkg/logger"
)

// Authorizer es el oráculo de permisos visto desde este paquete.
type Authorizer interface {
	RequirePermission(ctx context.Context, userID, permission, businessID string) error
}

// Auditor es el sumidero de auditoría.
type Auditor interface {
	Record(ctx context.Context, e audit.Entry)
}

// ProductUseCase catálogo de productos. El costo y el precio solo cambian vía
// el motor de precios; el stock solo vía el libro de movimientos.
type ProductUseCase struct {
	productRepo  repository.ProductRepository
	movementRepo repository.InventoryMovementRepository
	authorizer   Authorizer
	auditor      Auditor
	log          *logger.Logger
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(
	productRepo repository.ProductRepository,
	movementRepo repository.InventoryMovementRepository,
	authorizer Authorizer,
	auditor Auditor,
	log *logger.Logger,
) *ProductUseCase {
	return &ProductUseCase{
		productRepo:  productRepo,
		movementRepo: movementRepo,
		authorizer:   authorizer,
		auditor:      auditor,
		log:          log,
	}
}

// Create da de alta un producto. Requiere products.create; el código de barras
// debe ser único dentro del negocio y la configuración fiscal válida. Las
// tasas inusualmente altas (pero legales) solo generan advertencia en el log.
func (uc *ProductUseCase) Create(ctx context.Context, businessID, userID string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if err := uc.authorizer.RequirePermission(ctx, userID, entity.PermProductsCreate, businessID); err != nil {
		return nil, err
	}

	var violations []string
	if strings.TrimSpace(in.Name) == "" {
		violations = append(violations, "el nombre del producto es obligatorio")
	}
	if in.Cost.LessThan(decimal.Zero) {
		violations = append(violations, "el costo no puede ser negativo")
	}
	if in.Price.LessThan(decimal.Zero) {
		violations = append(violations, "el precio no puede ser negativo")
	}
	if err := tax.ValidateConfig(in.TaxType, in.TaxRate); err != nil {
		if v := domain.AsValidation(err); v != nil {
			violations = append(violations, v.Violations...)
		} else {
			return nil, err
		}
	}
	if len(violations) > 0 {
		return nil, &domain.ValidationError{Violations: violations}
	}

	for _, w := range tax.Warnings(in.TaxType, in.TaxRate) {
		uc.log.Warn().Str("business_id", businessID).Msg(w)
	}

	if in.Barcode != "" {
		existing, err := uc.productRepo.GetByBusinessAndBarcode(businessID, in.Barcode)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, domain.ErrDuplicate
		}
	}

	now := time.Now()
	product := &entity.Product{
		ID:            uuid.New().String(),
		BusinessID:    businessID,
		Barcode:       in.Barcode,
		Name:          strings.TrimSpace(in.Name),
		Description:   in.Description,
		Cost:          in.Cost,
		Price:         in.Price,
		TaxType:       in.TaxType,
		TaxRate:       in.TaxRate,
		MinStockLevel: in.MinStockLevel,
		IsActive:      true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.productRepo.Create(product); err != nil {
		return nil, err
	}

	uc.auditor.Record(ctx, audit.Entry{
		BusinessID:   businessID,
		UserID:       userID,
		Action:       "products.create",
		ResourceType: "product",
		ResourceID:   product.ID,
		Details:      product.Name,
	})
	return uc.toResponse(product)
}

// Update edita los datos no económicos del producto. Requiere products.update.
// Cost/Price se rechazan por diseño de la API: cambian solo vía el motor de
// precios, que deja historial.
func (uc *ProductUseCase) Update(ctx context.Context, businessID, userID, productID string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	if err := uc.authorizer.RequirePermission(ctx, userID, entity.PermProductsUpdate, businessID); err != nil {
		return nil, err
	}
	product, err := uc.getOwned(businessID, productID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Name) == "" {
		return nil, domain.NewValidationError("el nombre del producto es obligatorio")
	}
	if in.Barcode != "" && in.Barcode != product.Barcode {
		existing, err := uc.productRepo.GetByBusinessAndBarcode(businessID, in.Barcode)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, domain.ErrDuplicate
		}
	}

	product.Name = strings.TrimSpace(in.Name)
	product.Description = in.Description
	product.Barcode = in.Barcode
	product.MinStockLevel = in.MinStockLevel
	product.UpdatedAt = time.Now()
	if err := uc.productRepo.Update(product); err != nil {
		return nil, err
	}

	uc.auditor.Record(ctx, audit.Entry{
		BusinessID:   businessID,
		UserID:       userID,
		Action:       "products.update",
		ResourceType: "product",
		ResourceID:   product.ID,
	})
	return uc.toResponse(product)
}

// Deactivate da de baja lógica el producto (no se borra: los movimientos y las
// ventas históricas lo referencian). Requiere products.delete.
func (uc *ProductUseCase) Deactivate(ctx context.Context, businessID, userID, productID string) error {
	if err := uc.authorizer.RequirePermission(ctx, userID, entity.PermProductsDelete, businessID); err != nil {
		return err
	}
	product, err := uc.getOwned(businessID, productID)
	if err != nil {
		return err
	}
	product.IsActive = false
	product.UpdatedAt = time.Now()
	if err := uc.productRepo.Update(product); err != nil {
		return err
	}

	uc.auditor.Record(ctx, audit.Entry{
		BusinessID:   businessID,
		UserID:       userID,
		Action:       "products.deactivate",
		ResourceType: "product",
		ResourceID:   product.ID,
	})
	return nil
}

// GetByID obtiene un producto con su stock derivado.
func (uc *ProductUseCase) GetByID(ctx context.Context, businessID, productID string) (*dto.ProductResponse, error) {
	product, err := uc.getOwned(businessID, productID)
	if err != nil {
		return nil, err
	}
	return uc.toResponse(product)
}

// GetByBarcode búsqueda por código de barras (escáner en caja).
func (uc *ProductUseCase) GetByBarcode(ctx context.Context, businessID, barcode string) (*dto.ProductResponse, error) {
	product, err := uc.productRepo.GetByBusinessAndBarcode(businessID, barcode)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return uc.toResponse(product)
}

// List lista productos del negocio con paginación.
func (uc *ProductUseCase) List(ctx context.Context, businessID string, limit, offset int) ([]*dto.ProductResponse, error) {
	products, err := uc.productRepo.ListByBusiness(businessID, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.ProductResponse, 0, len(products))
	for _, p := range products {
		resp, err := uc.toResponse(p)
		if err != nil {
			return nil, err
		}
		out = append(out, resp)
	}
	return out, nil
}

func (uc *ProductUseCase) getOwned(businessID, productID string) (*entity.Product, error) {
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
	return product, nil
}

func (uc *ProductUseCase) toResponse(p *entity.Product) (*dto.ProductResponse, error) {
	stock, err := uc.movementRepo.SumByProduct(p.ID)
	if err != nil {
		return nil, err
	}
	return &dto.ProductResponse{
		ID:            p.ID,
		BusinessID:    p.BusinessID,
		Barcode:       p.Barcode,
		Name:          p.Name,
		Description:   p.Description,
		Cost:          p.Cost,
		Price:         p.Price,
		TaxType:       p.TaxType,
		TaxRate:       p.TaxRate,
		MinStockLevel: p.MinStockLevel,
		Stock:         stock,
		IsActive:      p.IsActive,
	}, nil
}

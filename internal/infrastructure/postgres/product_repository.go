package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jmoralesdev/punto-venta-api/internal/domain"
	"github.com/jmoralesdev/punto-venta-api/internal/domain/entity"
	"github.com/jmoralesdev/punto-venta-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// barcode es NULL cuando no se capturó (la unicidad parcial ignora NULL);
// hacia el dominio siempre viaja como cadena vacía.
const productColumns = `id, business_id, COALESCE(barcode, ''), name, description, cost, price, tax_type, tax_rate, min_stock_level, is_active, created_at, updated_at`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un nuevo producto.
func (r *ProductRepo) Create(product *entity.Product) error {
	query := `
		INSERT INTO products (id, business_id, barcode, name, description, cost, price, tax_type, tax_rate, min_stock_level, is_active, created_at, updated_at)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(context.Background(), query,
		product.ID, product.BusinessID, product.Barcode, product.Name, product.Description,
		product.Cost, product.Price, product.TaxType, product.TaxRate, product.MinStockLevel,
		product.IsActive, product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(id string) (*entity.Product, error) {
	return r.getOne(`SELECT `+productColumns+` FROM products WHERE id = $1`, id)
}

// GetForUpdate obtiene el producto bloqueando su fila (SELECT FOR UPDATE) para
// serializar los movimientos de inventario que lo afectan.
func (r *ProductRepo) GetForUpdate(id string) (*entity.Product, error) {
	return r.getOne(`SELECT `+productColumns+` FROM products WHERE id = $1 FOR UPDATE`, id)
}

// GetByBusinessAndBarcode obtiene un producto por negocio y código de barras.
func (r *ProductRepo) GetByBusinessAndBarcode(businessID, barcode string) (*entity.Product, error) {
	var p entity.Product
	err := r.q.QueryRow(context.Background(),
		`SELECT `+productColumns+` FROM products WHERE business_id = $1 AND barcode = $2`,
		businessID, barcode,
	).Scan(&p.ID, &p.BusinessID, &p.Barcode, &p.Name, &p.Description, &p.Cost, &p.Price,
		&p.TaxType, &p.TaxRate, &p.MinStockLevel, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product by barcode: %w", err)
	}
	return &p, nil
}

func (r *ProductRepo) getOne(query string, args ...any) (*entity.Product, error) {
	var p entity.Product
	err := r.q.QueryRow(context.Background(), query, args...).Scan(
		&p.ID, &p.BusinessID, &p.Barcode, &p.Name, &p.Description, &p.Cost, &p.Price,
		&p.TaxType, &p.TaxRate, &p.MinStockLevel, &p.IsActive, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return &p, nil
}

// Update actualiza los datos no económicos del producto. Cost/Price cambian
// solo vía UpdatePricing (motor de precios).
func (r *ProductRepo) Update(product *entity.Product) error {
	query := `
		UPDATE products SET barcode = NULLIF($2, ''), name = $3, description = $4, min_stock_level = $5, is_active = $6, updated_at = $7
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		product.ID, product.Barcode, product.Name, product.Description,
		product.MinStockLevel, product.IsActive, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

// UpdatePricing actualiza solo costo y precio (usado por el motor de precios,
// siempre dentro de la misma tx que el registro de historial).
func (r *ProductRepo) UpdatePricing(productID string, cost, price decimal.Decimal) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE products SET cost = $2, price = $3, updated_at = now() WHERE id = $1`,
		productID, cost, price,
	)
	if err != nil {
		return fmt.Errorf("update product pricing: %w", err)
	}
	return nil
}

// ListByBusiness lista productos del negocio con paginación.
func (r *ProductRepo) ListByBusiness(businessID string, limit, offset int) ([]*entity.Product, error) {
	rows, err := r.q.Query(context.Background(),
		`SELECT `+productColumns+` FROM products WHERE business_id = $1 ORDER BY name LIMIT $2 OFFSET $3`,
		businessID, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		var p entity.Product
		if err := rows.Scan(&p.ID, &p.BusinessID, &p.Barcode, &p.Name, &p.Description, &p.Cost, &p.Price,
			&p.TaxType, &p.TaxRate, &p.MinStockLevel, &p.IsActive, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}

// Delete elimina un producto por ID. Solo debe usarse para productos sin
// movimientos ni ventas; el camino normal es la baja lógica (is_active).
func (r *ProductRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}

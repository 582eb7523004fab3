// Package apptest provee dobles en memoria de los puertos de persistencia
// para los tests de los casos de uso. No simulan SQL: solo el contrato de
// cada repositorio.
package apptest

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jmoralesdev/punto-venta-api/internal/application/audit"
	"github.com/jmoralesdev/punto-venta-api/internal/domain"
	"github.com/jmoralesdev/punto-venta-api/internal/domain/entity"
	"github.com/jmoralesdev/punto-venta-api/internal/domain/repository"
)

// Store agrupa todos los repositorios en memoria de un test.
type Store struct {
	Businesses *BusinessRepo
	Users      *UserRepo
	Perms      *PermissionRepo
	Products   *ProductRepo
	Movements  *MovementRepo
	Registers  *RegisterRepo
	Shifts     *ShiftRepo
	Sales      *SaleRepo
	Payments   *PaymentRepo
	Folios     *FolioRepo
	Customers  *CustomerRepo
	History    *PriceHistoryRepo
	Audits     *AuditRepo
}

// NewStore construye un Store vacío.
func NewStore() *Store {
	return &Store{
		Businesses: &BusinessRepo{byID: map[string]*entity.Business{}},
		Users:      &UserRepo{byID: map[string]*entity.User{}},
		Perms:      &PermissionRepo{},
		Products:   &ProductRepo{byID: map[string]*entity.Product{}},
		Movements:  &MovementRepo{},
		Registers:  &RegisterRepo{byID: map[string]*entity.CashRegister{}},
		Shifts:     &ShiftRepo{byID: map[string]*entity.CashShift{}},
		Sales:      &SaleRepo{byID: map[string]*entity.Sale{}},
		Payments:   &PaymentRepo{},
		Folios:     &FolioRepo{last: map[string]int64{}},
		Customers:  &CustomerRepo{byID: map[string]*entity.Customer{}},
		History:    &PriceHistoryRepo{},
		Audits:     &AuditRepo{},
	}
}

// TxRunner implementa los puertos TxRunner de inventory, pricing, sales y
// shifts entregando los repositorios del Store. No simula rollback: los tests
// que verifican atomicidad deben fallar ANTES de la primera escritura.
type TxRunner struct{ S *Store }

func (r *TxRunner) Run(_ context.Context, fn func(repository.InventoryMovementRepository, repository.ProductRepository) error) error {
	return fn(r.S.Movements, r.S.Products)
}

func (r *TxRunner) RunPricing(_ context.Context, fn func(repository.ProductRepository, repository.PriceHistoryRepository) error) error {
	return fn(r.S.Products, r.S.History)
}

func (r *TxRunner) RunSale(_ context.Context, fn func(
	repository.SaleRepository,
	repository.PaymentRepository,
	repository.InventoryMovementRepository,
	repository.ProductRepository,
	repository.FolioRepository,
	repository.CustomerRepository,
) error) error {
	return fn(r.S.Sales, r.S.Payments, r.S.Movements, r.S.Products, r.S.Folios, r.S.Customers)
}

func (r *TxRunner) RunShift(_ context.Context, fn func(repository.CashShiftRepository, repository.PaymentRepository) error) error {
	return fn(r.S.Shifts, r.S.Payments)
}

// AllowAll autoriza cualquier permiso (para tests que no ejercitan el oráculo).
type AllowAll struct{}

func (AllowAll) RequirePermission(context.Context, string, string, string) error { return nil }

// DenyAll niega cualquier permiso.
type DenyAll struct{}

func (DenyAll) RequirePermission(context.Context, string, string, string) error {
	return domain.ErrPermissionDenied
}

// RecordingAuditor acumula las entradas registradas para inspección.
type RecordingAuditor struct {
	Entries []audit.Entry
}

func (a *RecordingAuditor) Record(_ context.Context, e audit.Entry) {
	a.Entries = append(a.Entries, e)
}

// Actions devuelve las acciones registradas en orden.
func (a *RecordingAuditor) Actions() []string {
	out := make([]string, 0, len(a.Entries))
	for _, e := range a.Entries {
		out = append(out, e.Action)
	}
	return out
}

// StubPINs responde VerifyPIN con el error configurado (nil = PIN válido).
type StubPINs struct{ Err error }

func (p StubPINs) VerifyPIN(context.Context, string, string) error { return p.Err }

// ─── Repositorios ────────────────────────────────────────────────────────────

// BusinessRepo doble en memoria de repository.BusinessRepository.
type BusinessRepo struct{ byID map[string]*entity.Business }

func (r *BusinessRepo) Create(b *entity.Business) error { r.byID[b.ID] = b; return nil }
func (r *BusinessRepo) GetByID(id string) (*entity.Business, error) {
	return r.byID[id], nil
}
func (r *BusinessRepo) GetByTaxID(taxID string) (*entity.Business, error) {
	for _, b := range r.byID {
		if b.TaxID == taxID && b.TaxID != "" {
			return b, nil
		}
	}
	return nil, nil
}
func (r *BusinessRepo) Update(b *entity.Business) error { r.byID[b.ID] = b; return nil }

// UserRepo doble en memoria de repository.UserRepository.
type UserRepo struct{ byID map[string]*entity.User }

func (r *UserRepo) Create(u *entity.User) error { r.byID[u.ID] = u; return nil }
func (r *UserRepo) GetByID(id string) (*entity.User, error) {
	return r.byID[id], nil
}
func (r *UserRepo) GetByEmail(email string) (*entity.User, error) {
	for _, u := range r.byID {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return nil, nil
}
func (r *UserRepo) GetByEmailAndBusiness(email, businessID string) (*entity.User, error) {
	for _, u := range r.byID {
		if strings.EqualFold(u.Email, email) && u.BusinessID == businessID {
			return u, nil
		}
	}
	return nil, nil
}
func (r *UserRepo) Update(u *entity.User) error { r.byID[u.ID] = u; return nil }
func (r *UserRepo) UpdatePINHash(userID, pinHash string) error {
	if u := r.byID[userID]; u != nil {
		u.PINHash = pinHash
	}
	return nil
}
func (r *UserRepo) ListByBusiness(businessID string, limit, offset int) ([]*entity.User, error) {
	var out []*entity.User
	for _, u := range r.byID {
		if u.BusinessID == businessID {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return page(out, limit, offset), nil
}

// PermissionRepo doble en memoria de repository.PermissionRepository.
type PermissionRepo struct {
	rows []*entity.PermissionAssignment
}

func (r *PermissionRepo) Grant(a *entity.PermissionAssignment) error {
	for _, existing := range r.rows {
		if existing.BusinessID == a.BusinessID && existing.UserID == a.UserID && existing.Permission == a.Permission {
			return nil // idempotente, como el ON CONFLICT DO NOTHING
		}
	}
	r.rows = append(r.rows, a)
	return nil
}
func (r *PermissionRepo) Revoke(businessID, userID, permission string) error {
	kept := r.rows[:0]
	for _, a := range r.rows {
		if a.BusinessID == businessID && a.UserID == userID && a.Permission == permission {
			continue
		}
		kept = append(kept, a)
	}
	r.rows = kept
	return nil
}
func (r *PermissionRepo) ListByUserAndPermission(userID, permission string) ([]*entity.PermissionAssignment, error) {
	var out []*entity.PermissionAssignment
	for _, a := range r.rows {
		if a.UserID == userID && a.Permission == permission {
			out = append(out, a)
		}
	}
	return out, nil
}
func (r *PermissionRepo) ListByUser(userID string) ([]*entity.PermissionAssignment, error) {
	var out []*entity.PermissionAssignment
	for _, a := range r.rows {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

// ProductRepo doble en memoria de repository.ProductRepository.
type ProductRepo struct{ byID map[string]*entity.Product }

func (r *ProductRepo) Create(p *entity.Product) error { r.byID[p.ID] = p; return nil }
func (r *ProductRepo) GetByID(id string) (*entity.Product, error) {
	return r.byID[id], nil
}
func (r *ProductRepo) GetForUpdate(id string) (*entity.Product, error) {
	p := r.byID[id]
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return p, nil
}
func (r *ProductRepo) GetByBusinessAndBarcode(businessID, barcode string) (*entity.Product, error) {
	for _, p := range r.byID {
		if p.BusinessID == businessID && p.Barcode == barcode && p.Barcode != "" {
			return p, nil
		}
	}
	return nil, nil
}
func (r *ProductRepo) Update(p *entity.Product) error { r.byID[p.ID] = p; return nil }
func (r *ProductRepo) UpdatePricing(productID string, cost, price decimal.Decimal) error {
	p := r.byID[productID]
	if p == nil {
		return domain.ErrNotFound
	}
	p.Cost, p.Price = cost, price
	return nil
}
func (r *ProductRepo) ListByBusiness(businessID string, limit, offset int) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range r.byID {
		if p.BusinessID == businessID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return page(out, limit, offset), nil
}
func (r *ProductRepo) Delete(id string) error { delete(r.byID, id); return nil }

// MovementRepo doble en memoria del libro de movimientos (append-only).
type MovementRepo struct{ rows []*entity.InventoryMovement }

func (r *MovementRepo) Create(m *entity.InventoryMovement) error {
	r.rows = append(r.rows, m)
	return nil
}
func (r *MovementRepo) GetByID(id string) (*entity.InventoryMovement, error) {
	for _, m := range r.rows {
		if m.ID == id {
			return m, nil
		}
	}
	return nil, nil
}
func (r *MovementRepo) SumByProduct(productID string) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, m := range r.rows {
		if m.ProductID == productID {
			sum = sum.Add(m.Quantity)
		}
	}
	return sum, nil
}
func (r *MovementRepo) ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.InventoryMovement, error) {
	var out []*entity.InventoryMovement
	for _, m := range r.rows {
		if m.ProductID != productID {
			continue
		}
		if from != nil && m.CreatedAt.Before(*from) {
			continue
		}
		if to != nil && m.CreatedAt.After(*to) {
			continue
		}
		out = append(out, m)
	}
	return page(out, limit, offset), nil
}
func (r *MovementRepo) ListByReference(reference string) ([]*entity.InventoryMovement, error) {
	var out []*entity.InventoryMovement
	for _, m := range r.rows {
		if m.Reference == reference {
			out = append(out, m)
		}
	}
	return out, nil
}

// All devuelve todos los movimientos registrados (solo para asserts).
func (r *MovementRepo) All() []*entity.InventoryMovement { return r.rows }

// RegisterRepo doble en memoria de repository.CashRegisterRepository.
type RegisterRepo struct {
	byID map[string]*entity.CashRegister
}

func (r *RegisterRepo) Create(reg *entity.CashRegister) error { r.byID[reg.ID] = reg; return nil }
func (r *RegisterRepo) GetByID(id string) (*entity.CashRegister, error) {
	return r.byID[id], nil
}
func (r *RegisterRepo) ListByBusiness(businessID string) ([]*entity.CashRegister, error) {
	var out []*entity.CashRegister
	for _, reg := range r.byID {
		if reg.BusinessID == businessID {
			out = append(out, reg)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// ShiftRepo doble en memoria de repository.CashShiftRepository. Reproduce el
// índice único parcial: nunca dos turnos abiertos del mismo usuario.
type ShiftRepo struct{ byID map[string]*entity.CashShift }

func (r *ShiftRepo) Create(s *entity.CashShift) error {
	if s.Status == entity.ShiftOpen {
		for _, other := range r.byID {
			if other.ID != s.ID && other.UserID == s.UserID && other.Status == entity.ShiftOpen {
				return domain.ErrShiftAlreadyOpen
			}
		}
	}
	r.byID[s.ID] = s
	return nil
}
func (r *ShiftRepo) GetByID(id string) (*entity.CashShift, error) {
	return r.byID[id], nil
}
func (r *ShiftRepo) GetForUpdate(id string) (*entity.CashShift, error) {
	s := r.byID[id]
	if s == nil {
		return nil, domain.ErrNotFound
	}
	return s, nil
}
func (r *ShiftRepo) FindOpenByUser(userID string) (*entity.CashShift, error) {
	for _, s := range r.byID {
		if s.UserID == userID && s.Status == entity.ShiftOpen {
			return s, nil
		}
	}
	return nil, nil
}
func (r *ShiftRepo) Update(s *entity.CashShift) error {
	if s.Status == entity.ShiftOpen {
		for _, other := range r.byID {
			if other.ID != s.ID && other.UserID == s.UserID && other.Status == entity.ShiftOpen {
				return domain.ErrShiftAlreadyOpen
			}
		}
	}
	r.byID[s.ID] = s
	return nil
}
func (r *ShiftRepo) ListByBusiness(businessID string, limit, offset int) ([]*entity.CashShift, error) {
	var out []*entity.CashShift
	for _, s := range r.byID {
		if s.BusinessID == businessID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return page(out, limit, offset), nil
}

// SaleRepo doble en memoria de repository.SaleRepository.
type SaleRepo struct {
	byID  map[string]*entity.Sale
	items []*entity.SaleItem
}

func (r *SaleRepo) Create(s *entity.Sale) error {
	for _, other := range r.byID {
		if other.BusinessID == s.BusinessID && other.Series == s.Series && other.Folio == s.Folio {
			return domain.ErrConflict
		}
	}
	r.byID[s.ID] = s
	return nil
}
func (r *SaleRepo) CreateItem(it *entity.SaleItem) error {
	r.items = append(r.items, it)
	return nil
}
func (r *SaleRepo) GetByID(id string) (*entity.Sale, error) {
	return r.byID[id], nil
}
func (r *SaleRepo) GetForUpdate(id string) (*entity.Sale, error) {
	s := r.byID[id]
	if s == nil {
		return nil, domain.ErrNotFound
	}
	return s, nil
}
func (r *SaleRepo) GetItemsBySale(saleID string) ([]*entity.SaleItem, error) {
	var out []*entity.SaleItem
	for _, it := range r.items {
		if it.SaleID == saleID {
			out = append(out, it)
		}
	}
	return out, nil
}
func (r *SaleRepo) Update(s *entity.Sale) error { r.byID[s.ID] = s; return nil }
func (r *SaleRepo) ListByShift(shiftID string) ([]*entity.Sale, error) {
	var out []*entity.Sale
	for _, s := range r.byID {
		if s.ShiftID == shiftID {
			out = append(out, s)
		}
	}
	return out, nil
}
func (r *SaleRepo) ListByBusiness(businessID string, limit, offset int) ([]*entity.Sale, error) {
	var out []*entity.Sale
	for _, s := range r.byID {
		if s.BusinessID == businessID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return page(out, limit, offset), nil
}

// PaymentRepo doble en memoria de repository.PaymentRepository.
type PaymentRepo struct{ rows []*entity.Payment }

func (r *PaymentRepo) Create(p *entity.Payment) error { r.rows = append(r.rows, p); return nil }
func (r *PaymentRepo) ListBySale(saleID string) ([]*entity.Payment, error) {
	var out []*entity.Payment
	for _, p := range r.rows {
		if p.SaleID == saleID {
			out = append(out, p)
		}
	}
	return out, nil
}
func (r *PaymentRepo) CashTotalsByShift(shiftID string) (*repository.CashShiftTotals, error) {
	totals := &repository.CashShiftTotals{
		CashSales:   decimal.Zero,
		CashRefunds: decimal.Zero,
	}
	for _, p := range r.rows {
		if p.ShiftID != shiftID || p.Method != entity.PaymentCash {
			continue
		}
		if p.Amount.GreaterThan(decimal.Zero) {
			totals.CashSales = totals.CashSales.Add(p.Amount)
		} else {
			totals.CashRefunds = totals.CashRefunds.Add(p.Amount.Neg())
		}
	}
	return totals, nil
}

// All devuelve todos los pagos registrados (solo para asserts).
func (r *PaymentRepo) All() []*entity.Payment { return r.rows }

// FolioRepo doble en memoria del consecutivo fiscal por (negocio, serie).
type FolioRepo struct{ last map[string]int64 }

func (r *FolioRepo) Next(businessID, series string) (int64, error) {
	key := businessID + "|" + series
	r.last[key]++
	return r.last[key], nil
}

// CustomerRepo doble en memoria de repository.CustomerRepository.
type CustomerRepo struct{ byID map[string]*entity.Customer }

func (r *CustomerRepo) Create(c *entity.Customer) error { r.byID[c.ID] = c; return nil }
func (r *CustomerRepo) GetByID(id string) (*entity.Customer, error) {
	return r.byID[id], nil
}
func (r *CustomerRepo) Update(c *entity.Customer) error { r.byID[c.ID] = c; return nil }
func (r *CustomerRepo) ApplyPurchase(customerID string, amount decimal.Decimal, when time.Time) error {
	c := r.byID[customerID]
	if c == nil {
		return domain.ErrNotFound
	}
	c.TotalPurchases = c.TotalPurchases.Add(amount)
	c.PurchaseCount++
	c.CurrentBalance = c.CurrentBalance.Add(amount)
	c.LastPurchaseDate = &when
	return nil
}
func (r *CustomerRepo) ListByBusiness(businessID string, limit, offset int) ([]*entity.Customer, error) {
	var out []*entity.Customer
	for _, c := range r.byID {
		if c.BusinessID == businessID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return page(out, limit, offset), nil
}

// PriceHistoryRepo doble en memoria del historial de precios (append-only).
type PriceHistoryRepo struct{ rows []*entity.PriceHistory }

func (r *PriceHistoryRepo) Create(h *entity.PriceHistory) error {
	r.rows = append(r.rows, h)
	return nil
}
func (r *PriceHistoryRepo) ListByProduct(productID string, limit, offset int) ([]*entity.PriceHistory, error) {
	var out []*entity.PriceHistory
	for _, h := range r.rows {
		if h.ProductID == productID {
			out = append(out, h)
		}
	}
	return page(out, limit, offset), nil
}

// AuditRepo doble en memoria de repository.AuditRepository.
type AuditRepo struct{ rows []*entity.AuditLog }

func (r *AuditRepo) Create(log *entity.AuditLog) error { r.rows = append(r.rows, log); return nil }
func (r *AuditRepo) ListByBusiness(businessID string, limit, offset int) ([]*entity.AuditLog, error) {
	var out []*entity.AuditLog
	for _, l := range r.rows {
		if l.BusinessID == businessID {
			out = append(out, l)
		}
	}
	return page(out, limit, offset), nil
}

func page[T any](in []T, limit, offset int) []T {
	if offset >= len(in) {
		return nil
	}
	in = in[offset:]
	if limit > 0 && limit < len(in) {
		in = in[:limit]
	}
	return in
}

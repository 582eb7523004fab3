package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jmoralesdev/punto-venta-api/internal/domain"
	"github.com/jmoralesdev/punto-venta-api/internal/domain/entity"
	"github.com/jmoralesdev/punto-venta-api/internal/domain/repository"
)

var _ repository.CashShiftRepository = (*CashShiftRepo)(nil)

const shiftColumns = `id, business_id, register_id, user_id, status, opening_cash, expected_cash, actual_cash, difference, COALESCE(notes, ''), opened_at, closed_at, COALESCE(closed_by, ''), reconciled_at, COALESCE(reconciled_by, '')`

// CashShiftRepo implementación del puerto CashShiftRepository sobre PostgreSQL.
// El índice único parcial sobre (user_id) WHERE status = 'open' respalda la
// exclusividad de turno abierto por usuario incluso bajo carrera.
type CashShiftRepo struct {
	q Querier
}

// NewCashShiftRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCashShiftRepository(q Querier) *CashShiftRepo {
	return &CashShiftRepo{q: q}
}

// Create persiste un turno recién abierto.
func (r *CashShiftRepo) Create(shift *entity.CashShift) error {
	query := `
		INSERT INTO cash_shifts (id, business_id, register_id, user_id, status, opening_cash, expected_cash, actual_cash, difference, notes, opened_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NULLIF($10, ''), $11)`
	_, err := r.q.Exec(context.Background(), query,
		shift.ID, shift.BusinessID, shift.RegisterID, shift.UserID, shift.Status,
		shift.OpeningCash, shift.ExpectedCash, shift.ActualCash, shift.Difference,
		shift.Notes, shift.OpenedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrShiftAlreadyOpen
		}
		return fmt.Errorf("insert cash shift: %w", err)
	}
	return nil
}

// GetByID obtiene un turno por ID.
func (r *CashShiftRepo) GetByID(id string) (*entity.CashShift, error) {
	return r.getOne(`SELECT `+shiftColumns+` FROM cash_shifts WHERE id = $1`, id)
}

// GetForUpdate obtiene el turno bloqueando su fila (SELECT FOR UPDATE).
func (r *CashShiftRepo) GetForUpdate(id string) (*entity.CashShift, error) {
	return r.getOne(`SELECT `+shiftColumns+` FROM cash_shifts WHERE id = $1 FOR UPDATE`, id)
}

// FindOpenByUser devuelve el turno abierto del usuario, o nil.
func (r *CashShiftRepo) FindOpenByUser(userID string) (*entity.CashShift, error) {
	return r.getOne(`SELECT `+shiftColumns+` FROM cash_shifts WHERE user_id = $1 AND status = 'open'`, userID)
}

func (r *CashShiftRepo) getOne(query string, args ...any) (*entity.CashShift, error) {
	var s entity.CashShift
	err := r.q.QueryRow(context.Background(), query, args...).Scan(
		&s.ID, &s.BusinessID, &s.RegisterID, &s.UserID, &s.Status,
		&s.OpeningCash, &s.ExpectedCash, &s.ActualCash, &s.Difference, &s.Notes,
		&s.OpenedAt, &s.ClosedAt, &s.ClosedBy, &s.ReconciledAt, &s.ReconciledBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cash shift: %w", err)
	}
	return &s, nil
}

// Update actualiza el estado del turno (cierre, conciliación, transferencia).
func (r *CashShiftRepo) Update(shift *entity.CashShift) error {
	query := `
		UPDATE cash_shifts SET user_id = $2, status = $3, expected_cash = $4, actual_cash = $5, difference = $6,
			notes = NULLIF($7, ''), closed_at = $8, closed_by = NULLIF($9, ''), reconciled_at = $10, reconciled_by = NULLIF($11, '')
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		shift.ID, shift.UserID, shift.Status, shift.ExpectedCash, shift.ActualCash,
		shift.Difference, shift.Notes, shift.ClosedAt, shift.ClosedBy, shift.ReconciledAt, shift.ReconciledBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrShiftAlreadyOpen
		}
		return fmt.Errorf("update cash shift: %w", err)
	}
	return nil
}

// ListByBusiness lista los turnos del negocio, más recientes primero.
func (r *CashShiftRepo) ListByBusiness(businessID string, limit, offset int) ([]*entity.CashShift, error) {
	rows, err := r.q.Query(context.Background(),
		`SELECT `+shiftColumns+` FROM cash_shifts WHERE business_id = $1 ORDER BY opened_at DESC LIMIT $2 OFFSET $3`,
		businessID, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list cash shifts: %w", err)
	}
	defer rows.Close()
	var list []*entity.CashShift
	for rows.Next() {
		var s entity.CashShift
		if err := rows.Scan(&s.ID, &s.BusinessID, &s.RegisterID, &s.UserID, &s.Status,
			&s.OpeningCash, &s.ExpectedCash, &s.ActualCash, &s.Difference, &s.Notes,
			&s.OpenedAt, &s.ClosedAt, &s.ClosedBy, &s.ReconciledAt, &s.ReconciledBy); err != nil {
			return nil, fmt.Errorf("scan cash shift: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}

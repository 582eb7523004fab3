package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jmoralesdev/punto-venta-api/internal/domain/entity"
	"github.com/jmoralesdev/punto-venta-api/internal/domain/repository"
)

var _ repository.PermissionRepository = (*PermissionRepo)(nil)

// PermissionRepo implementación del puerto PermissionRepository sobre PostgreSQL.
type PermissionRepo struct {
	q Querier
}

// NewPermissionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPermissionRepository(q Querier) *PermissionRepo {
	return &PermissionRepo{q: q}
}

// Grant persiste una concesión explícita. Conceder dos veces el mismo permiso
// no duplica filas (ON CONFLICT DO NOTHING sobre la unicidad natural).
func (r *PermissionRepo) Grant(assignment *entity.PermissionAssignment) error {
	query := `
		INSERT INTO permission_assignments (id, business_id, user_id, permission, granted_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (business_id, user_id, permission) DO NOTHING`
	_, err := r.q.Exec(context.Background(), query,
		assignment.ID, assignment.BusinessID, assignment.UserID,
		assignment.Permission, assignment.GrantedBy, assignment.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("grant permission: %w", err)
	}
	return nil
}

// Revoke elimina la concesión explícita. No falla si no existía.
func (r *PermissionRepo) Revoke(businessID, userID, permission string) error {
	_, err := r.q.Exec(context.Background(),
		`DELETE FROM permission_assignments WHERE business_id = $1 AND user_id = $2 AND permission = $3`,
		businessID, userID, permission,
	)
	if err != nil {
		return fmt.Errorf("revoke permission: %w", err)
	}
	return nil
}

// ListByUserAndPermission devuelve las concesiones de un usuario para un
// permiso dado (el oráculo filtra por negocio sobre el resultado).
func (r *PermissionRepo) ListByUserAndPermission(userID, permission string) ([]*entity.PermissionAssignment, error) {
	rows, err := r.q.Query(context.Background(),
		`SELECT id, business_id, user_id, permission, granted_by, created_at
		FROM permission_assignments WHERE user_id = $1 AND permission = $2`,
		userID, permission,
	)
	if err != nil {
		return nil, fmt.Errorf("list permissions: %w", err)
	}
	return scanAssignments(rows)
}

// ListByUser devuelve todas las concesiones explícitas de un usuario.
func (r *PermissionRepo) ListByUser(userID string) ([]*entity.PermissionAssignment, error) {
	rows, err := r.q.Query(context.Background(),
		`SELECT id, business_id, user_id, permission, granted_by, created_at
		FROM permission_assignments WHERE user_id = $1 ORDER BY permission`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list permissions: %w", err)
	}
	return scanAssignments(rows)
}

func scanAssignments(rows pgx.Rows) ([]*entity.PermissionAssignment, error) {
	defer rows.Close()
	var list []*entity.PermissionAssignment
	for rows.Next() {
		var a entity.PermissionAssignment
		if err := rows.Scan(&a.ID, &a.BusinessID, &a.UserID, &a.Permission, &a.GrantedBy, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan permission: %w", err)
		}
		list = append(list, &a)
	}
	return list, rows.Err()
}

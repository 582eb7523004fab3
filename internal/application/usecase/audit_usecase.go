package usecase

import (
	"context"

	"github.com/jmoralesdev/punto-venta-api/internal/application/dto"
	"github.com/jmoralesdev/punto-venta-api/internal/domain/entity"
	"github.com/jmoralesdev/punto-venta-api/internal/domain/repository"
)

// AuditUseCase consulta de la bitácora de auditoría (solo lectura: la
// bitácora es append-only y se escribe únicamente vía el sumidero).
type AuditUseCase struct {
	auditRepo  repository.AuditRepository
	authorizer Authorizer
}

// NewAuditUseCase construye el caso de uso.
func NewAuditUseCase(auditRepo repository.AuditRepository, authorizer Authorizer) *AuditUseCase {
	return &AuditUseCase{auditRepo: auditRepo, authorizer: authorizer}
}

// List lista las entradas del negocio, más recientes primero. Requiere
// audit.view.
func (uc *AuditUseCase) List(ctx context.Context, businessID, userID string, limit, offset int) ([]dto.AuditLogResponse, error) {
	if err := uc.authorizer.RequirePermission(ctx, userID, entity.PermAuditView, businessID); err != nil {
		return nil, err
	}
	logs, err := uc.auditRepo.ListByBusiness(businessID, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.AuditLogResponse, 0, len(logs))
	for _, l := range logs {
		out = append(out, dto.AuditLogResponse{
			ID:           l.ID,
			UserID:       l.UserID,
			Action:       l.Action,
			ResourceType: l.ResourceType,
			ResourceID:   l.ResourceID,
			Details:      l.Details,
			OldValue:     l.OldValue,
			NewValue:     l.NewValue,
			CreatedAt:    l.CreatedAt,
		})
	}
	return out, nil
}

// Package audit implementa el sumidero de auditoría: registros inmutables de
// acciones sensibles, en modo best-effort. Auditar es observabilidad, no una
// condición de corrección: una falla aquí jamás aborta la operación que la
// disparó.
package audit

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jmoralesdev/punto-venta-api/internal/domain/entity"
	"github.com/jmoralesdev/punto-venta-api/internal/domain/repository"
	"github.com/jmoralesdev/punto-venta-api/pkg/logger"
)

// Entry datos de una acción sensible a auditar.
type Entry struct {
	BusinessID   string
	UserID       string
	Action       string
	ResourceType string
	ResourceID   string
	Details      string
	OldValue     string
	NewValue     string
}

// Sink escribe entradas de auditoría. Los errores de persistencia se
// registran en el canal secundario (zerolog) y se descartan.
type Sink struct {
	repo repository.AuditRepository
	log  *logger.Logger
}

// NewSink construye el sumidero.
func NewSink(repo repository.AuditRepository, log *logger.Logger) *Sink {
	return &Sink{repo: repo, log: log}
}

// Record persiste la entrada. Nunca devuelve error.
func (s *Sink) Record(ctx context.Context, e Entry) {
	row := &entity.AuditLog{
		ID:           uuid.New().String(),
		BusinessID:   e.BusinessID,
		UserID:       e.UserID,
		Action:       e.Action,
		ResourceType: e.ResourceType,
		ResourceID:   e.ResourceID,
		Details:      e.Details,
		OldValue:     e.OldValue,
		NewValue:     e.NewValue,
		CreatedAt:    time.Now(),
	}
	if err := s.repo.Create(row); err != nil {
		s.log.Warn().
			Err(err).
			Str("action", e.Action).
			Str("resource_type", e.ResourceType).
			Str("resource_id", e.ResourceID).
			Msg("no se pudo escribir la entrada de auditoría")
	}
}

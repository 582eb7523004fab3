package postgres

import (
	"context"
	"fmt"

	"github.com/jmoralesdev/punto-venta-api/internal/domain/repository"
)

var _ repository.FolioRepository = (*FolioRepo)(nil)

// FolioRepo consecutivo fiscal por (negocio, serie) sobre una tabla de
// contadores. El UPSERT con RETURNING es atómico: dos cajeros concurrentes
// jamás reciben el mismo folio, y como Next corre dentro de la misma tx que
// el INSERT de la venta, un rollback no deja huecos visibles.
type FolioRepo struct {
	q Querier
}

// NewFolioRepository construye el adaptador. Pasar la tx de la venta.
func NewFolioRepository(q Querier) *FolioRepo {
	return &FolioRepo{q: q}
}

// Next devuelve el siguiente consecutivo de la serie.
func (r *FolioRepo) Next(businessID, series string) (int64, error) {
	var n int64
	err := r.q.QueryRow(context.Background(), `
		INSERT INTO folio_sequences (business_id, series, last_folio)
		VALUES ($1, $2, 1)
		ON CONFLICT (business_id, series)
		DO UPDATE SET last_folio = folio_sequences.last_folio + 1
		RETURNING last_folio`,
		businessID, series,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("next folio: %w", err)
	}
	return n, nil
}

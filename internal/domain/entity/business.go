package entity

import "time"

// Business es la frontera de tenant: toda entidad del sistema referencia un
// BusinessID y ningún camino de lectura o escritura puede cruzarla.
type Business struct {
	ID        string
	Name      string
	TaxID     string // RFC / NIT del negocio
	Address   string
	Phone     string
	Email     string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

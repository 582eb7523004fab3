package repository

import "github.com/jmoralesdev/punto-venta-api/internal/domain/entity"

// BusinessRepository define el puerto de persistencia para Business.
type BusinessRepository interface {
	Create(business *entity.Business) error
	GetByID(id string) (*entity.Business, error)
	GetByTaxID(taxID string) (*entity.Business, error)
	Update(business *entity.Business) error
}

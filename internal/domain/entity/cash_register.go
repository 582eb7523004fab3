package entity

import "time"

// CashRegister identifica una terminal física de cobro dentro de un negocio.
type CashRegister struct {
	ID         string
	BusinessID string
	Name       string
	Location   string
	IsActive   bool
	CreatedAt  time.Time
}

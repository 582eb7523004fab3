package entity

import "time"

// AuditLog es un registro inmutable de una acción sensible. Una falla al
// escribirlo nunca revierte ni bloquea la operación de negocio que lo originó.
type AuditLog struct {
	ID           string
	BusinessID   string
	UserID       string
	Action       string
	ResourceType string
	ResourceID   string
	Details      string
	OldValue     string
	NewValue     string
	CreatedAt    time.Time
}

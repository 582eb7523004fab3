package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateCustomerRequest alta de cliente.
type CreateCustomerRequest struct {
	Name        string          `json:"name"`
	Email       string          `json:"email"`
	Phone       string          `json:"phone"`
	CreditLimit decimal.Decimal `json:"credit_limit"`
}

// CustomerResponse cliente con sus agregados de compra.
type CustomerResponse struct {
	ID               string          `json:"id"`
	BusinessID       string          `json:"business_id"`
	Name             string          `json:"name"`
	Email            string          `json:"email,omitempty"`
	Phone            string          `json:"phone,omitempty"`
	TotalPurchases   decimal.Decimal `json:"total_purchases"`
	PurchaseCount    int64           `json:"purchase_count"`
	CurrentBalance   decimal.Decimal `json:"current_balance"`
	CreditLimit      decimal.Decimal `json:"credit_limit"`
	LastPurchaseDate *time.Time      `json:"last_purchase_date,omitempty"`
}

// AuditLogResponse entrada de auditoría.
type AuditLogResponse struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	Action       string    `json:"action"`
	ResourceType string    `json:"resource_type"`
	ResourceID   string    `json:"resource_id,omitempty"`
	Details      string    `json:"details,omitempty"`
	OldValue     string    `json:"old_value,omitempty"`
	NewValue     string    `json:"new_value,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// OpenShiftRequest apertura de turno sobre una caja física.
type OpenShiftRequest struct {
	RegisterID  string          `json:"register_id"`
	OpeningCash decimal.Decimal `json:"opening_cash"`
}

// CloseShiftRequest cierre con conteo de efectivo declarado por el operador.
type CloseShiftRequest struct {
	ActualCash decimal.Decimal `json:"actual_cash"`
	Notes      string          `json:"notes"`
}

// TransferShiftRequest reasignación de un turno abierto a otro cajero.
type TransferShiftRequest struct {
	NewUserID string `json:"new_user_id"`
}

// ShiftResponse estado completo de un turno.
type ShiftResponse struct {
	ID           string          `json:"id"`
	BusinessID   string          `json:"business_id"`
	RegisterID   string          `json:"register_id"`
	UserID       string          `json:"user_id"`
	Status       string          `json:"status"`
	OpeningCash  decimal.Decimal `json:"opening_cash"`
	ExpectedCash decimal.Decimal `json:"expected_cash"`
	ActualCash   decimal.Decimal `json:"actual_cash"`
	Difference   decimal.Decimal `json:"difference"`
	OpenedAt     time.Time       `json:"opened_at"`
	ClosedAt     *time.Time      `json:"closed_at,omitempty"`
	ReconciledAt *time.Time      `json:"reconciled_at,omitempty"`
	ReconciledBy string          `json:"reconciled_by,omitempty"`
}

// CreateRegisterRequest alta de caja física.
type CreateRegisterRequest struct {
	Name     string `json:"name"`
	Location string `json:"location"`
}

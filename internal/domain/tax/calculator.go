// Package tax implementa el cálculo y la validación de impuestos del punto de
// venta (servicio de dominio, sin dependencias de infraestructura).
package tax

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jmoralesdev/punto-venta-api/internal/domain"
)

// Tipos de impuesto soportados.
const (
	TypeIVA      = "IVA"
	TypeISR      = "ISR"
	TypeExento   = "EXENTO"
	TypeTasaCero = "TASA_CERO"
)

var cien = decimal.NewFromInt(100)

// Límites convencionales (regla de negocio blanda, no invariante dura).
var (
	maxIVA = decimal.NewFromInt(50)
	maxISR = decimal.NewFromInt(35)
)

// ValidType valida el tipo de impuesto.
func ValidType(taxType string) bool {
	switch taxType {
	case TypeIVA, TypeISR, TypeExento, TypeTasaCero:
		return true
	}
	return false
}

// Calculate devuelve el monto de impuesto: 0 para EXENTO/TASA_CERO, si no
// amount * rate/100. La tasa es un porcentaje en [0,100].
func Calculate(amount decimal.Decimal, taxType string, rate decimal.Decimal) decimal.Decimal {
	if taxType == TypeExento || taxType == TypeTasaCero {
		return decimal.Zero
	}
	return amount.Mul(rate).Div(cien)
}

// ValidateConfig valida la configuración (tipo, tasa) de un producto y
// devuelve un *domain.ValidationError que enumera TODAS las violaciones
// encontradas, no solo la primera. Devuelve nil si la configuración es válida.
func ValidateConfig(taxType string, rate decimal.Decimal) error {
	var violations []string
	if !ValidType(taxType) {
		violations = append(violations, fmt.Sprintf("tipo de impuesto desconocido: %q", taxType))
	}
	if rate.LessThan(decimal.Zero) || rate.GreaterThan(cien) {
		violations = append(violations, fmt.Sprintf("la tasa debe estar entre 0 y 100, recibida %s", rate))
	}
	if (taxType == TypeExento || taxType == TypeTasaCero) && !rate.IsZero() {
		violations = append(violations, fmt.Sprintf("%s exige tasa 0, recibida %s", taxType, rate))
	}
	if len(violations) > 0 {
		return &domain.ValidationError{Violations: violations}
	}
	return nil
}

// Warnings devuelve advertencias de límites convencionales (IVA ≤ 50%,
// ISR ≤ 35%). No son errores: el caller decide si las registra.
func Warnings(taxType string, rate decimal.Decimal) []string {
	var warns []string
	if taxType == TypeIVA && rate.GreaterThan(maxIVA) {
		warns = append(warns, fmt.Sprintf("tasa IVA %s supera el límite convencional de 50%%", rate))
	}
	if taxType == TypeISR && rate.GreaterThan(maxISR) {
		warns = append(warns, fmt.Sprintf("tasa ISR %s supera el límite convencional de 35%%", rate))
	}
	return warns
}

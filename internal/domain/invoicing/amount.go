// Package invoicing contiene las reglas puras sobre montos y fechas del export de facturas:
// conversión tolerante de celdas, vencimiento y formato de montos en VND.
package invoicing

import (
	"strings"

	"github.com/shopspring/decimal"
)

// AmountOutcome resultado de convertir una celda monetaria.
type AmountOutcome int

const (
	AmountParsed    AmountOutcome = iota // valor convertido
	AmountEmpty                          // celda vacía: se aplica 0
	AmountMalformed                      // texto no numérico: se aplica 0
)

func (o AmountOutcome) String() string {
	switch o {
	case AmountParsed:
		return "parsed"
	case AmountEmpty:
		return "empty"
	case AmountMalformed:
		return "malformed"
	default:
		return "unknown"
	}
}

// AmountResult valor convertido más el resultado de la conversión.
// Value siempre es utilizable (0 cuando Outcome != AmountParsed).
type AmountResult struct {
	Value   decimal.Decimal
	Outcome AmountOutcome
}

// Defaulted indica si se aplicó el valor por defecto.
func (r AmountResult) Defaulted() bool { return r.Outcome != AmountParsed }

// ParseAmount convierte una celda como `"1,234,567"` a decimal.
// Quita comillas y separadores de miles (coma o guion bajo, como "1_000"). Nunca falla: un monto mal formado
// subestima los totales en lugar de abortar la importación.
func ParseAmount(s string) AmountResult {
	if strings.TrimSpace(s) == "" {
		return AmountResult{Value: decimal.Zero, Outcome: AmountEmpty}
	}
	cleaned := strings.ReplaceAll(s, `"`, "")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	cleaned = strings.ReplaceAll(cleaned, "_", "")
	cleaned = strings.TrimSpace(cleaned)

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return AmountResult{Value: decimal.Zero, Outcome: AmountMalformed}
	}
	return AmountResult{Value: d, Outcome: AmountParsed}
}

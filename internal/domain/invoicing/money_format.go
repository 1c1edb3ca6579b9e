package invoicing

import (
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	oneBillion = decimal.New(1, 9)
	oneMillion = decimal.New(1, 6)
)

// FormatVND formatea un monto en VND en tres escalas:
//
//	>= 1e9  → "1.50 tỷ VND"
//	>= 1e6  → "2.5 triệu VND"
//	resto   → "1,234 VND"
//
// Las escalas tỷ/triệu redondean el float64 del cociente: mitades exactas al par,
// casi-mitades según el valor binario.
func FormatVND(amount decimal.Decimal) string {
	switch {
	case amount.GreaterThanOrEqual(oneBillion):
		return fmt.Sprintf("%.2f tỷ VND", amount.InexactFloat64()/1e9)
	case amount.GreaterThanOrEqual(oneMillion):
		return fmt.Sprintf("%.1f triệu VND", amount.InexactFloat64()/1e6)
	default:
		p := message.NewPrinter(language.English)
		return p.Sprintf("%d", amount.RoundBank(0).IntPart()) + " VND"
	}
}

package invoicing_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/invoice-graph-importer/internal/domain/invoicing"
)

// ──────────────────────────────────────────────────────────────────────────────
// ParseAmount
// ──────────────────────────────────────────────────────────────────────────────

func TestParseAmount(t *testing.T) {
	cases := []struct {
		name    string
		in      string
		want    decimal.Decimal
		outcome invoicing.AmountOutcome
	}{
		{"miles con comillas", `"1,234,567"`, decimal.NewFromInt(1234567), invoicing.AmountParsed},
		{"decimal simple", "1500.5", decimal.RequireFromString("1500.5"), invoicing.AmountParsed},
		{"espacios", "  42 ", decimal.NewFromInt(42), invoicing.AmountParsed},
		{"vacío", "", decimal.Zero, invoicing.AmountEmpty},
		{"solo espacios", "   ", decimal.Zero, invoicing.AmountEmpty},
		{"texto", "abc", decimal.Zero, invoicing.AmountMalformed},
		{"solo comillas", `""`, decimal.Zero, invoicing.AmountMalformed},
		{"guion bajo como separador", "1_000_000", decimal.NewFromInt(1000000), invoicing.AmountParsed},
		{"solo guion bajo", "_", decimal.Zero, invoicing.AmountMalformed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := invoicing.ParseAmount(tc.in)
			assert.True(t, tc.want.Equal(got.Value), "esperado %s, obtenido %s", tc.want, got.Value)
			assert.Equal(t, tc.outcome, got.Outcome)
		})
	}
}

// Vacío y mal formado dan el mismo valor pero se distinguen por el resultado.
func TestParseAmount_DistingueVacioDeMalFormado(t *testing.T) {
	empty := invoicing.ParseAmount("")
	bad := invoicing.ParseAmount("1.2.3")

	assert.True(t, empty.Value.Equal(bad.Value))
	assert.True(t, empty.Defaulted())
	assert.True(t, bad.Defaulted())
	assert.NotEqual(t, empty.Outcome, bad.Outcome)
}

// ──────────────────────────────────────────────────────────────────────────────
// Fechas y vencimiento
// ──────────────────────────────────────────────────────────────────────────────

func TestParseDate(t *testing.T) {
	assert.True(t, invoicing.ParseDate("2024-03-05").OK())
	assert.True(t, invoicing.ParseDate("2024-3-5").OK())
	assert.Equal(t, invoicing.DateEmpty, invoicing.ParseDate("").Outcome)
	assert.Equal(t, invoicing.DateInvalid, invoicing.ParseDate("05/03/2024").Outcome)
}

func TestDaysOverdue(t *testing.T) {
	today := time.Date(2024, 6, 15, 18, 30, 0, 0, time.Local)

	days, overdue := invoicing.DaysOverdue("2024-06-14", today)
	assert.True(t, overdue)
	assert.Equal(t, 1, days)

	days, overdue = invoicing.DaysOverdue("2024-05-16", today)
	assert.True(t, overdue)
	assert.Equal(t, 30, days)

	_, overdue = invoicing.DaysOverdue("2024-06-15", today)
	assert.False(t, overdue, "vence hoy: no está vencida")

	_, overdue = invoicing.DaysOverdue("2024-06-16", today)
	assert.False(t, overdue)

	_, overdue = invoicing.DaysOverdue("no-es-fecha", today)
	assert.False(t, overdue, "una fecha inválida nunca cuenta como vencida")
}

// ──────────────────────────────────────────────────────────────────────────────
// FormatVND
// ──────────────────────────────────────────────────────────────────────────────

func TestFormatVND_TresEscalas(t *testing.T) {
	assert.Equal(t, "1.50 tỷ VND", invoicing.FormatVND(decimal.NewFromInt(1_500_000_000)))
	assert.Equal(t, "12.35 tỷ VND", invoicing.FormatVND(decimal.NewFromInt(12_345_678_900)))
	assert.Equal(t, "2.5 triệu VND", invoicing.FormatVND(decimal.NewFromInt(2_500_000)))
	assert.Equal(t, "1.0 triệu VND", invoicing.FormatVND(decimal.NewFromInt(1_000_000)))
	assert.Equal(t, "999,999 VND", invoicing.FormatVND(decimal.NewFromInt(999_999)))
	assert.Equal(t, "1,234 VND", invoicing.FormatVND(decimal.NewFromInt(1234)))
	assert.Equal(t, "0 VND", invoicing.FormatVND(decimal.Zero))
}

// Los empates siguen el redondeo del float64: mitad exacta al par, casi-mitad según el binario.
func TestFormatVND_Empates(t *testing.T) {
	cases := []struct {
		in   int64
		want string
	}{
		{2_150_000, "2.1 triệu VND"},   // 2.15 es 2.1499… en binario
		{2_250_000, "2.2 triệu VND"},   // mitad exacta → par
		{2_350_000, "2.4 triệu VND"},   // 2.35 es 2.3500… en binario
		{3_850_000, "3.8 triệu VND"},   // 3.85 es 3.8499… en binario
		{1_125_000_000, "1.12 tỷ VND"}, // mitad exacta → par
		{1_375_000_000, "1.38 tỷ VND"}, // mitad exacta → par
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, invoicing.FormatVND(decimal.NewFromInt(tc.in)), "monto %d", tc.in)
	}
}

func TestFormatVND_Determinista(t *testing.T) {
	v := decimal.RequireFromString("7654321.99")
	assert.Equal(t, invoicing.FormatVND(v), invoicing.FormatVND(v))
}

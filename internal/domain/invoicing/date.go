package invoicing

import "time"

// DateLayout formato de fechas del export (año-mes-día; acepta mes/día sin cero a la izquierda).
const DateLayout = "2006-1-2"

// DateOutcome resultado de convertir una celda de fecha.
type DateOutcome int

const (
	DateParsed DateOutcome = iota
	DateEmpty
	DateInvalid
)

// DateResult fecha convertida (medianoche UTC) más el resultado de la conversión.
type DateResult struct {
	Value   time.Time
	Outcome DateOutcome
}

// OK indica si la fecha se pudo convertir.
func (r DateResult) OK() bool { return r.Outcome == DateParsed }

// ParseDate convierte una fecha del export. No devuelve error: el fallo queda en Outcome.
func ParseDate(s string) DateResult {
	if s == "" {
		return DateResult{Outcome: DateEmpty}
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return DateResult{Outcome: DateInvalid}
	}
	return DateResult{Value: t, Outcome: DateParsed}
}

// DateOnly devuelve la fecha de calendario de t (en su zona) como medianoche UTC,
// comparable con los valores de ParseDate.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysOverdue devuelve los días de atraso de dueDate respecto a today.
// overdue es true solo si la fecha se puede convertir y es estrictamente anterior a today.
func DaysOverdue(dueDate string, today time.Time) (days int, overdue bool) {
	due := ParseDate(dueDate)
	if !due.OK() {
		return 0, false
	}
	today = DateOnly(today)
	if !due.Value.Before(today) {
		return 0, false
	}
	return int(today.Sub(due.Value).Hours() / 24), true
}

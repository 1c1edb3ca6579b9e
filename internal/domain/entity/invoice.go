package entity

import "github.com/shopspring/decimal"

// Etiquetas de estado de pago del export de Odoo.
const (
	PaymentStatusUnpaid = "Chưa trả"
	PaymentStatusPaid   = "Đã trả"
)

// InvoiceRecord representa una fila del export de facturas. Inmutable una vez cargada.
// Las fechas se conservan como texto (ISO-8601 esperado); los montos nunca son inválidos:
// el loader aplica 0 cuando la celda no se puede convertir.
type InvoiceRecord struct {
	InvoiceNo     string
	Customer      string // nombre visible; se usa como clave de unión
	InvoiceDate   string
	DueDate       string
	Salesperson   string
	Subtotal      decimal.Decimal
	Tax           decimal.Decimal
	Total         decimal.Decimal
	AmountDue     decimal.Decimal
	PaymentStatus string
	Status        string
}

// IsUnpaid indica si la factura tiene la etiqueta "no pagada".
func (r InvoiceRecord) IsUnpaid() bool {
	return r.PaymentStatus == PaymentStatusUnpaid
}

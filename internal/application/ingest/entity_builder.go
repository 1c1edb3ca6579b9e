package ingest

import (
	"fmt"
	"time"

	"github.com/jhoicas/invoice-graph-importer/internal/domain/entity"
	"github.com/jhoicas/invoice-graph-importer/internal/domain/invoicing"
)

// EntityBuilder traduce agregados y registros a entidades/relaciones del grafo.
// Sin I/O: la misma entrada (y el mismo today) produce siempre la misma salida.
type EntityBuilder struct {
	today time.Time
}

// NewEntityBuilder fija la fecha de referencia usada para los días de atraso.
func NewEntityBuilder(today time.Time) *EntityBuilder {
	return &EntityBuilder{today: invoicing.DateOnly(today)}
}

// CustomerEntity observaciones en orden fijo: conteos, deuda, vencidas, vendedor, rango de fechas.
func (b *EntityBuilder) CustomerEntity(a entity.CustomerAggregate) entity.GraphEntity {
	obs := []string{
		fmt.Sprintf("Tổng số hóa đơn: %d", a.InvoiceCount),
		fmt.Sprintf("Tổng giá trị: %s", invoicing.FormatVND(a.TotalAmount)),
		fmt.Sprintf("Đã thanh toán: %d hóa đơn", a.PaidCount),
		fmt.Sprintf("Chưa thanh toán: %d hóa đơn", a.UnpaidCount),
	}
	if a.HasDebt() {
		obs = append(obs, fmt.Sprintf("Công nợ hiện tại: %s", invoicing.FormatVND(a.UnpaidAmount)))
	}
	if a.OverdueCount > 0 {
		obs = append(obs, fmt.Sprintf("⚠️ Quá hạn: %d hóa đơn", a.OverdueCount))
	}
	if a.Salesperson != "" {
		obs = append(obs, fmt.Sprintf("Nhân viên phụ trách: %s", a.Salesperson))
	}
	obs = append(obs, fmt.Sprintf("Giao dịch từ: %s đến %s", a.FirstInvoice, a.LastInvoice))

	return entity.GraphEntity{
		Name:         a.Name,
		EntityType:   entity.EntityTypeCustomer,
		Observations: obs,
	}
}

// InvoiceEntity observaciones de una factura; las no pagadas agregan atraso y saldo.
func (b *EntityBuilder) InvoiceEntity(r entity.InvoiceRecord) entity.GraphEntity {
	obs := []string{
		fmt.Sprintf("Khách hàng: %s", r.Customer),
		fmt.Sprintf("Ngày hóa đơn: %s", r.InvoiceDate),
		fmt.Sprintf("Hạn thanh toán: %s", r.DueDate),
		fmt.Sprintf("Tổng tiền: %s", invoicing.FormatVND(r.Total)),
		fmt.Sprintf("Thuế: %s", invoicing.FormatVND(r.Tax)),
		fmt.Sprintf("Trạng thái: %s", r.PaymentStatus),
	}
	if r.IsUnpaid() {
		if days, overdue := invoicing.DaysOverdue(r.DueDate, b.today); overdue {
			obs = append(obs, fmt.Sprintf("⚠️ QUÁ HẠN %d ngày", days))
		}
		obs = append(obs, fmt.Sprintf("Số tiền còn nợ: %s", invoicing.FormatVND(r.AmountDue)))
	}
	if r.Salesperson != "" {
		obs = append(obs, fmt.Sprintf("Nhân viên: %s", r.Salesperson))
	}

	return entity.GraphEntity{
		Name:         r.InvoiceNo,
		EntityType:   entity.EntityTypeInvoice,
		Observations: obs,
	}
}

// CustomerEntities una entidad por agregado, mismo orden.
func (b *EntityBuilder) CustomerEntities(aggs []entity.CustomerAggregate) []entity.GraphEntity {
	out := make([]entity.GraphEntity, 0, len(aggs))
	for _, a := range aggs {
		out = append(out, b.CustomerEntity(a))
	}
	return out
}

// InvoiceEntities una entidad por registro, mismo orden.
func (b *EntityBuilder) InvoiceEntities(records []entity.InvoiceRecord) []entity.GraphEntity {
	out := make([]entity.GraphEntity, 0, len(records))
	for _, r := range records {
		out = append(out, b.InvoiceEntity(r))
	}
	return out
}

// Relations issued_to por cada factura y luego manages por cada cliente con vendedor conocido.
// No se deduplican localmente.
func (b *EntityBuilder) Relations(records []entity.InvoiceRecord, aggs []entity.CustomerAggregate) []entity.GraphRelation {
	out := make([]entity.GraphRelation, 0, len(records)+len(aggs))
	for _, r := range records {
		out = append(out, entity.GraphRelation{
			From:         r.InvoiceNo,
			To:           r.Customer,
			RelationType: entity.RelationIssuedTo,
		})
	}
	for _, a := range aggs {
		if a.Salesperson == "" {
			continue
		}
		out = append(out, entity.GraphRelation{
			From:         a.Salesperson,
			To:           a.Name,
			RelationType: entity.RelationManages,
		})
	}
	return out
}

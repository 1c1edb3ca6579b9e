package entity

// Tipos de entidad del grafo.
const (
	EntityTypeCustomer = "Customer"
	EntityTypeInvoice  = "Invoice"
)

// Tipos de relación del grafo.
const (
	RelationIssuedTo = "issued_to" // factura -> cliente
	RelationManages  = "manages"   // vendedor -> cliente
)

// GraphEntity nodo del grafo: nombre único dentro de su tipo y observaciones ordenadas.
// Se escribe una sola vez; la semántica de merge/duplicados la decide el almacén remoto.
type GraphEntity struct {
	Name         string   `json:"name"`
	EntityType   string   `json:"entityType"`
	Observations []string `json:"observations"`
}

// GraphRelation arista dirigida entre dos nombres de entidad.
type GraphRelation struct {
	From         string `json:"from"`
	To           string `json:"to"`
	RelationType string `json:"relationType"`
}

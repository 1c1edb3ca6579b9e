package ingest

import (
	"context"
	"time"

	"github.com/jhoicas/invoice-graph-importer/internal/domain/entity"
)

// GraphStore puerto de salida hacia el grafo de conocimiento remoto.
// Cada llamada es todo-o-nada desde el punto de vista del pipeline: un error
// significa que ninguna entidad del lote se cuenta como creada.
type GraphStore interface {
	CreateEntities(ctx context.Context, entities []entity.GraphEntity) error
	CreateRelations(ctx context.Context, relations []entity.GraphRelation) error
}

// GraphSearcher búsqueda usada solo como verificación posterior a la importación.
// Es opcional: se detecta por type assertion sobre el GraphStore.
type GraphSearcher interface {
	SearchNodes(ctx context.Context, query string, limit int) ([]entity.GraphEntity, error)
}

// BatchObserver recibe el resultado de cada lote (métricas).
type BatchObserver interface {
	ObserveBatch(kind string, size int, err error, elapsed time.Duration)
}

// DebtReportGenerator genera la representación PDF del reporte de cartera.
type DebtReportGenerator interface {
	GenerateDebtReport(ctx context.Context, report *DebtReport) ([]byte, error)
}

package repository

import (
	"context"

	"github.com/jhoicas/invoice-graph-importer/internal/domain/entity"
)

// ImportRunRepository define el puerto de persistencia del historial de importaciones.
type ImportRunRepository interface {
	Save(ctx context.Context, run *entity.ImportRun) error
	// List devuelve las últimas corridas, más recientes primero.
	List(ctx context.Context, limit int) ([]*entity.ImportRun, error)
}

package postgres

import (
	"context"

	"github.com/jhoicas/invoice-graph-importer/internal/domain/repository"
	"github.com/jhoicas/invoice-graph-importer/pkg/config"
	"github.com/jhoicas/invoice-graph-importer/pkg/logger"
)

// OpenHistory abre el historial de corridas si hay base de datos configurada.
// Devuelve (nil, no-op, nil) cuando está desactivado; un error de conexión o de
// esquema se informa y el llamador decide si es fatal.
func OpenHistory(ctx context.Context, cfg config.DBConfig, log *logger.Logger) (repository.ImportRunRepository, func(), error) {
	if !cfg.Enabled() {
		log.Info().Msg("historial de importaciones desactivado (sin DATABASE_URL ni DB_HOST)")
		return nil, func() {}, nil
	}
	pool, err := NewPool(ctx, cfg)
	if err != nil {
		return nil, func() {}, err
	}
	repo := NewImportRunRepository(pool)
	if err := repo.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, func() {}, err
	}
	return repo, pool.Close, nil
}

// Package graphsink elige el adaptador de destino del grafo según la configuración.
package graphsink

import (
	"context"
	"fmt"

	"github.com/jhoicas/invoice-graph-importer/internal/application/ingest"
	"github.com/jhoicas/invoice-graph-importer/internal/infrastructure/memorygraph"
	"github.com/jhoicas/invoice-graph-importer/internal/infrastructure/neo4jgraph"
	"github.com/jhoicas/invoice-graph-importer/pkg/config"
	"github.com/jhoicas/invoice-graph-importer/pkg/logger"
)

// Open construye el GraphStore configurado. La función devuelta libera el driver (no-op para el cliente HTTP).
func Open(ctx context.Context, cfg *config.Config, log *logger.Logger) (ingest.GraphStore, func(), error) {
	switch cfg.Import.Sink {
	case config.SinkMemoryGraph, "":
		client := memorygraph.NewClient(cfg.MemoryGraph.URL, cfg.MemoryGraph.Timeout)
		log.Info().Str("sink", config.SinkMemoryGraph).Str("endpoint", client.Endpoint()).Msg("grafo de destino")
		return client, func() {}, nil
	case config.SinkNeo4j:
		gs, err := neo4jgraph.NewGraphStore(ctx, cfg.Neo4j, log)
		if err != nil {
			return nil, nil, err
		}
		log.Info().Str("sink", config.SinkNeo4j).Str("uri", cfg.Neo4j.URI).Msg("grafo de destino")
		return gs, func() { _ = gs.Close(context.Background()) }, nil
	default:
		return nil, nil, fmt.Errorf("sink desconocido %q", cfg.Import.Sink)
	}
}

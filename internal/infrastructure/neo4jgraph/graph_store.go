package neo4jgraph

import (
	"context"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/jhoicas/invoice-graph-importer/internal/application/ingest"
	"github.com/jhoicas/invoice-graph-importer/internal/domain"
	"github.com/jhoicas/invoice-graph-importer/internal/domain/entity"
	"github.com/jhoicas/invoice-graph-importer/pkg/config"
	"github.com/jhoicas/invoice-graph-importer/pkg/logger"
)

var (
	_ ingest.GraphStore    = (*GraphStore)(nil)
	_ ingest.GraphSearcher = (*GraphStore)(nil)
)

// labelSalesperson etiqueta de los nodos origen de manages (no se crean como entidad propia).
const labelSalesperson = "Salesperson"

// fallbackLabel etiqueta de entidades con un entityType desconocido.
const fallbackLabel = "Entity"

// knownLabels únicas etiquetas que se interpolan en Cypher.
var knownLabels = map[string]string{
	entity.EntityTypeCustomer: entity.EntityTypeCustomer,
	entity.EntityTypeInvoice:  entity.EntityTypeInvoice,
}

// relationSpec cómo se materializa un tipo de relación: etiquetas de los extremos y tipo Cypher.
type relationSpec struct {
	FromLabel string
	ToLabel   string
	Type      string
}

var relationSpecs = map[string]relationSpec{
	entity.RelationIssuedTo: {FromLabel: entity.EntityTypeInvoice, ToLabel: entity.EntityTypeCustomer, Type: "ISSUED_TO"},
	entity.RelationManages:  {FromLabel: labelSalesperson, ToLabel: entity.EntityTypeCustomer, Type: "MANAGES"},
}

// GraphStore sink alternativo: escribe el grafo de facturas en Neo4j.
// Cada lote es una transacción ExecuteWrite (todo-o-nada).
type GraphStore struct {
	driver   neo4j.DriverWithContext
	database string
	log      *logger.Logger
}

// NewGraphStore abre el driver y verifica conectividad.
func NewGraphStore(ctx context.Context, cfg config.Neo4jConfig, log *logger.Logger) (*GraphStore, error) {
	if cfg.URI == "" {
		return nil, fmt.Errorf("neo4j: URI requerida")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	driver, err := neo4j.NewDriverWithContext(cfg.URI, neo4j.BasicAuth(cfg.User, cfg.Password, ""), func(c *neo4j.Config) {
		c.SocketConnectTimeout = timeout
	})
	if err != nil {
		return nil, fmt.Errorf("neo4j: init driver: %w", err)
	}

	vctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := driver.VerifyConnectivity(vctx); err != nil {
		_ = driver.Close(ctx)
		return nil, fmt.Errorf("neo4j: verify connectivity: %w", err)
	}

	s := &GraphStore{driver: driver, database: cfg.Database, log: log.Component("neo4j")}
	s.ensureConstraints(ctx)
	return s, nil
}

// Close libera el driver.
func (s *GraphStore) Close(ctx context.Context) error {
	if s == nil || s.driver == nil {
		return nil
	}
	err := s.driver.Close(ctx)
	s.driver = nil
	return err
}

// ensureConstraints crea las restricciones de unicidad por nombre. Un fallo solo se registra.
func (s *GraphStore) ensureConstraints(ctx context.Context) {
	session := s.session(ctx, neo4j.AccessModeWrite)
	defer session.Close(ctx)

	for _, label := range []string{entity.EntityTypeCustomer, entity.EntityTypeInvoice, labelSalesperson} {
		q := fmt.Sprintf("CREATE CONSTRAINT %s_name_unique IF NOT EXISTS FOR (n:%s) REQUIRE n.name IS UNIQUE", label, label)
		res, err := session.Run(ctx, q, nil)
		if err != nil {
			s.log.Warn().Err(err).Str("label", label).Msg("no se pudo crear la restricción (se continúa)")
			continue
		}
		_, _ = res.Consume(ctx)
	}
}

func (s *GraphStore) session(ctx context.Context, mode neo4j.AccessMode) neo4j.SessionWithContext {
	return s.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: mode, DatabaseName: s.database})
}

// CreateEntities hace MERGE por nombre y reemplaza las observaciones.
func (s *GraphStore) CreateEntities(ctx context.Context, entities []entity.GraphEntity) error {
	if len(entities) == 0 {
		return nil
	}
	groups := entityRowsByLabel(entities, time.Now().UTC())

	session := s.session(ctx, neo4j.AccessModeWrite)
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		for _, label := range sortedKeys(groups) {
			res, err := tx.Run(ctx, mergeEntitiesCypher(label), map[string]any{"entities": groups[label]})
			if err != nil {
				return nil, err
			}
			if _, err := res.Consume(ctx); err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	if err != nil {
		return fmt.Errorf("neo4j: create entities: %w: %v", domain.ErrRemoteCall, err)
	}
	return nil
}

// CreateRelations hace MERGE de extremos y arista. Un tipo de relación desconocido invalida el lote.
func (s *GraphStore) CreateRelations(ctx context.Context, relations []entity.GraphRelation) error {
	if len(relations) == 0 {
		return nil
	}
	groups, err := relationRowsByType(relations, time.Now().UTC())
	if err != nil {
		return err
	}

	session := s.session(ctx, neo4j.AccessModeWrite)
	defer session.Close(ctx)

	_, err = session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		for _, relType := range sortedKeys(groups) {
			res, err := tx.Run(ctx, mergeRelationsCypher(relationSpecs[relType]), map[string]any{"rels": groups[relType]})
			if err != nil {
				return nil, err
			}
			if _, err := res.Consume(ctx); err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	if err != nil {
		return fmt.Errorf("neo4j: create relations: %w: %v", domain.ErrRemoteCall, err)
	}
	return nil
}

// SearchNodes busca por nombre u observación sin distinguir mayúsculas.
func (s *GraphStore) SearchNodes(ctx context.Context, query string, limit int) ([]entity.GraphEntity, error) {
	if limit <= 0 {
		limit = 5
	}
	session := s.session(ctx, neo4j.AccessModeRead)
	defer session.Close(ctx)

	out, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, searchCypher, map[string]any{"q": query, "limit": limit})
		if err != nil {
			return nil, err
		}
		records, err := res.Collect(ctx)
		if err != nil {
			return nil, err
		}
		found := make([]entity.GraphEntity, 0, len(records))
		for _, rec := range records {
			found = append(found, recordToEntity(rec.AsMap()))
		}
		return found, nil
	})
	if err != nil {
		return nil, fmt.Errorf("neo4j: search nodes: %w: %v", domain.ErrRemoteCall, err)
	}
	return out.([]entity.GraphEntity), nil
}

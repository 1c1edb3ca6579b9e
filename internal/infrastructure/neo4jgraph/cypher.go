package neo4jgraph

import (
	"fmt"
	"sort"
	"time"

	"github.com/jhoicas/invoice-graph-importer/internal/domain"
	"github.com/jhoicas/invoice-graph-importer/internal/domain/entity"
)

const searchCypher = `
MATCH (n)
WHERE (n:Customer OR n:Invoice)
  AND (toLower(n.name) CONTAINS toLower($q)
       OR any(o IN coalesce(n.observations, []) WHERE toLower(o) CONTAINS toLower($q)))
RETURN n.name AS name, n.entityType AS entityType, n.observations AS observations
ORDER BY n.name
LIMIT $limit
`

// labelFor etiqueta Cypher de un entityType (solo valores conocidos se interpolan).
func labelFor(entityType string) string {
	if l, ok := knownLabels[entityType]; ok {
		return l
	}
	return fallbackLabel
}

func mergeEntitiesCypher(label string) string {
	return fmt.Sprintf(`
UNWIND $entities AS e
MERGE (n:%s {name: e.name})
SET n.entityType = e.entityType,
    n.observations = e.observations,
    n.synced_at = e.synced_at
`, label)
}

func mergeRelationsCypher(spec relationSpec) string {
	return fmt.Sprintf(`
UNWIND $rels AS r
MERGE (a:%s {name: r.from})
MERGE (b:%s {name: r.to})
MERGE (a)-[x:%s]->(b)
SET x.synced_at = r.synced_at
`, spec.FromLabel, spec.ToLabel, spec.Type)
}

// entityRowsByLabel agrupa las entidades por etiqueta conservando el orden dentro de cada grupo.
func entityRowsByLabel(entities []entity.GraphEntity, now time.Time) map[string][]map[string]any {
	ts := now.Format(time.RFC3339Nano)
	out := make(map[string][]map[string]any)
	for _, e := range entities {
		label := labelFor(e.EntityType)
		obs := e.Observations
		if obs == nil {
			obs = []string{}
		}
		out[label] = append(out[label], map[string]any{
			"name":         e.Name,
			"entityType":   e.EntityType,
			"observations": obs,
			"synced_at":    ts,
		})
	}
	return out
}

// relationRowsByType agrupa por tipo de relación; un tipo fuera de relationSpecs es entrada inválida.
func relationRowsByType(relations []entity.GraphRelation, now time.Time) (map[string][]map[string]any, error) {
	ts := now.Format(time.RFC3339Nano)
	out := make(map[string][]map[string]any)
	for _, r := range relations {
		if _, ok := relationSpecs[r.RelationType]; !ok {
			return nil, fmt.Errorf("neo4j: tipo de relación %q: %w", r.RelationType, domain.ErrInvalidInput)
		}
		out[r.RelationType] = append(out[r.RelationType], map[string]any{
			"from":      r.From,
			"to":        r.To,
			"synced_at": ts,
		})
	}
	return out, nil
}

func recordToEntity(m map[string]any) entity.GraphEntity {
	e := entity.GraphEntity{}
	e.Name, _ = m["name"].(string)
	e.EntityType, _ = m["entityType"].(string)
	if raw, ok := m["observations"].([]any); ok {
		for _, o := range raw {
			if s, ok := o.(string); ok {
				e.Observations = append(e.Observations, s)
			}
		}
	}
	return e
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

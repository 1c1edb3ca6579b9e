package neo4jgraph

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/invoice-graph-importer/internal/domain"
	"github.com/jhoicas/invoice-graph-importer/internal/domain/entity"
)

var syncedAt = time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)

func TestEntityRowsByLabel(t *testing.T) {
	groups := entityRowsByLabel([]entity.GraphEntity{
		{Name: "A", EntityType: entity.EntityTypeCustomer, Observations: []string{"x"}},
		{Name: "INV/1", EntityType: entity.EntityTypeInvoice},
		{Name: "B", EntityType: entity.EntityTypeCustomer},
		{Name: "?", EntityType: "Robot"},
	}, syncedAt)

	require.Len(t, groups, 3)
	require.Len(t, groups["Customer"], 2)
	assert.Equal(t, "A", groups["Customer"][0]["name"])
	assert.Equal(t, "B", groups["Customer"][1]["name"])
	assert.Equal(t, []string{}, groups["Invoice"][0]["observations"], "nunca null en Neo4j")
	assert.Equal(t, "Robot", groups[fallbackLabel][0]["entityType"])
	assert.Equal(t, "2024-06-15T10:00:00Z", groups["Customer"][0]["synced_at"])
}

func TestRelationRowsByType(t *testing.T) {
	groups, err := relationRowsByType([]entity.GraphRelation{
		{From: "INV/1", To: "A", RelationType: entity.RelationIssuedTo},
		{From: "Lan", To: "A", RelationType: entity.RelationManages},
		{From: "INV/2", To: "A", RelationType: entity.RelationIssuedTo},
	}, syncedAt)
	require.NoError(t, err)

	assert.Len(t, groups[entity.RelationIssuedTo], 2)
	assert.Len(t, groups[entity.RelationManages], 1)
	assert.Equal(t, []string{entity.RelationIssuedTo, entity.RelationManages}, sortedKeys(groups))
}

func TestRelationRowsByType_TipoDesconocido(t *testing.T) {
	_, err := relationRowsByType([]entity.GraphRelation{{From: "a", To: "b", RelationType: "DROP ALL"}}, syncedAt)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestCypherSoloInterpolaEtiquetasConocidas(t *testing.T) {
	assert.Equal(t, "Customer", labelFor(entity.EntityTypeCustomer))
	assert.Equal(t, fallbackLabel, labelFor("X) DETACH DELETE (n"))

	q := mergeRelationsCypher(relationSpecs[entity.RelationManages])
	assert.Contains(t, q, "MERGE (a:Salesperson {name: r.from})")
	assert.Contains(t, q, "MERGE (a)-[x:MANAGES]->(b)")
	assert.Contains(t, mergeEntitiesCypher("Invoice"), "MERGE (n:Invoice {name: e.name})")
}

func TestRecordToEntity(t *testing.T) {
	e := recordToEntity(map[string]any{
		"name":         "INV/2",
		"entityType":   "Invoice",
		"observations": []any{"a", 3, "b"},
	})
	assert.Equal(t, entity.GraphEntity{Name: "INV/2", EntityType: "Invoice", Observations: []string{"a", "b"}}, e)
}

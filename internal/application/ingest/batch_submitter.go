package ingest

import (
	"context"
	"time"

	"github.com/jhoicas/invoice-graph-importer/internal/domain/entity"
	"github.com/jhoicas/invoice-graph-importer/pkg/logger"
)

// Tamaños de lote por defecto.
const (
	DefaultEntityBatchSize   = 50
	DefaultRelationBatchSize = 100
)

// Tipos de lote (etiqueta de logs y métricas).
const (
	KindCustomers = "customers"
	KindInvoices  = "invoices"
	KindRelations = "relations"
)

// BatchOutcome resultado de un lote: rango [Start, End) sobre la secuencia original.
type BatchOutcome struct {
	Index int
	Start int
	End   int
	Err   error
}

// Size cantidad de elementos del lote.
func (o BatchOutcome) Size() int { return o.End - o.Start }

// OK indica si el almacén confirmó el lote.
func (o BatchOutcome) OK() bool { return o.Err == nil }

// BatchResult resultado de enviar una secuencia completa.
// Created solo cuenta lotes confirmados; de un lote fallido no se sabe qué se persistió.
type BatchResult struct {
	Kind    string
	Total   int
	Created int
	Batches []BatchOutcome
}

// Failed lotes que no se confirmaron.
func (r BatchResult) Failed() []BatchOutcome {
	var out []BatchOutcome
	for _, b := range r.Batches {
		if !b.OK() {
			out = append(out, b)
		}
	}
	return out
}

// BatchSubmitter envía secuencias al GraphStore en lotes de tamaño fijo.
// Política best-effort: un lote fallido no se reintenta ni revierte los anteriores,
// y el envío continúa con el siguiente.
type BatchSubmitter struct {
	store             GraphStore
	entityBatchSize   int
	relationBatchSize int
	observer          BatchObserver
	log               *logger.Logger
}

// NewBatchSubmitter construye el submitter. Tamaños <= 0 toman los valores por defecto; observer puede ser nil.
func NewBatchSubmitter(store GraphStore, entityBatchSize, relationBatchSize int, observer BatchObserver, log *logger.Logger) *BatchSubmitter {
	if entityBatchSize <= 0 {
		entityBatchSize = DefaultEntityBatchSize
	}
	if relationBatchSize <= 0 {
		relationBatchSize = DefaultRelationBatchSize
	}
	return &BatchSubmitter{
		store:             store,
		entityBatchSize:   entityBatchSize,
		relationBatchSize: relationBatchSize,
		observer:          observer,
		log:               log,
	}
}

// SubmitEntities envía entidades con create_entities.
func (s *BatchSubmitter) SubmitEntities(ctx context.Context, kind string, entities []entity.GraphEntity) BatchResult {
	return submitInBatches(ctx, s, kind, entities, s.entityBatchSize, s.store.CreateEntities)
}

// SubmitRelations envía relaciones con create_relations.
func (s *BatchSubmitter) SubmitRelations(ctx context.Context, relations []entity.GraphRelation) BatchResult {
	return submitInBatches(ctx, s, KindRelations, relations, s.relationBatchSize, s.store.CreateRelations)
}

// submitInBatches parte items en ceil(n/size) grupos contiguos y hace exactamente una llamada por grupo.
func submitInBatches[T any](
	ctx context.Context,
	s *BatchSubmitter,
	kind string,
	items []T,
	size int,
	call func(context.Context, []T) error,
) BatchResult {
	res := BatchResult{Kind: kind, Total: len(items)}

	for start, idx := 0, 0; start < len(items); start, idx = start+size, idx+1 {
		end := min(start+size, len(items))

		began := time.Now()
		err := call(ctx, items[start:end])
		if s.observer != nil {
			s.observer.ObserveBatch(kind, end-start, err, time.Since(began))
		}

		outcome := BatchOutcome{Index: idx, Start: start, End: end, Err: err}
		res.Batches = append(res.Batches, outcome)

		if err != nil {
			s.log.Warn().Err(err).
				Str("kind", kind).
				Int("from", start+1).Int("to", end).Int("total", len(items)).
				Msg("lote no confirmado, se continúa con el siguiente")
			continue
		}
		res.Created += outcome.Size()
		s.log.Info().
			Str("kind", kind).
			Int("from", start+1).Int("to", end).Int("total", len(items)).
			Msg("lote creado")
	}
	return res
}

package memorygraph

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/jhoicas/invoice-graph-importer/internal/application/ingest"
	"github.com/jhoicas/invoice-graph-importer/internal/domain"
	"github.com/jhoicas/invoice-graph-importer/internal/domain/entity"
)

// Verificar en tiempo de compilación que Client implementa los puertos del pipeline.
var (
	_ ingest.GraphStore    = (*Client)(nil)
	_ ingest.GraphSearcher = (*Client)(nil)
)

const (
	DefaultEndpoint = "http://localhost:3030/mcp"

	toolCreateEntities  = "create_entities"
	toolCreateRelations = "create_relations"
	toolSearchNodes     = "search_nodes"

	maxResponseBytes = 4 << 20
)

// Client adaptador JSON-RPC 2.0 ("tools/call") hacia el servicio de grafo de memoria.
// Usa net/http de la stdlib; cada método es una única llamada HTTP sin reintentos.
type Client struct {
	endpoint   string
	httpClient *http.Client
	nextID     atomic.Int64
}

// NewClient construye el cliente. endpoint vacío usa DefaultEndpoint; timeout <= 0 usa 30 s.
func NewClient(endpoint string, timeout time.Duration) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Endpoint URL configurada.
func (c *Client) Endpoint() string { return c.endpoint }

// ── Estructuras del protocolo ─────────────────────────────────────────────────

type rpcRequest struct {
	JSONRPC string   `json:"jsonrpc"`
	ID      int64    `json:"id"`
	Method  string   `json:"method"`
	Params  toolCall `json:"params"`
}

type toolCall struct {
	Name      string `json:"name"`
	Arguments any    `json:"arguments"`
}

type toolResult struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	IsError bool `json:"isError"`
}

type searchPayload struct {
	Entities []entity.GraphEntity `json:"entities"`
}

// ── Implementación de los puertos ─────────────────────────────────────────────

// CreateEntities llama create_entities con el lote completo.
func (c *Client) CreateEntities(ctx context.Context, entities []entity.GraphEntity) error {
	_, err := c.call(ctx, toolCreateEntities, map[string]any{"entities": entities})
	return err
}

// CreateRelations llama create_relations con el lote completo.
func (c *Client) CreateRelations(ctx context.Context, relations []entity.GraphRelation) error {
	_, err := c.call(ctx, toolCreateRelations, map[string]any{"relations": relations})
	return err
}

// SearchNodes llama search_nodes. El servicio devuelve el resultado como JSON serializado
// dentro de result.content[0].text.
func (c *Client) SearchNodes(ctx context.Context, query string, limit int) ([]entity.GraphEntity, error) {
	res, err := c.call(ctx, toolSearchNodes, map[string]any{"query": query, "limit": limit})
	if err != nil {
		return nil, err
	}
	if res == nil || len(res.Content) == 0 {
		return nil, nil
	}

	var payload searchPayload
	if err := json.Unmarshal([]byte(res.Content[0].Text), &payload); err != nil {
		return nil, fmt.Errorf("memorygraph: %s: contenido no es JSON: %w", toolSearchNodes, err)
	}
	return payload.Entities, nil
}

// call envía un tools/call y valida la respuesta.
// Éxito = HTTP 2xx, cuerpo objeto JSON sin clave "error" y result.isError distinto de true.
func (c *Client) call(ctx context.Context, tool string, args any) (*toolResult, error) {
	body, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		ID:      c.nextID.Add(1),
		Method:  "tools/call",
		Params:  toolCall{Name: tool, Arguments: args},
	})
	if err != nil {
		return nil, fmt.Errorf("memorygraph: %s: serializar request: %w", tool, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("memorygraph: %s: crear HTTP request: %w", tool, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("memorygraph: %s: timeout o cancelación: %w: %w", tool, domain.ErrRemoteCall, ctx.Err())
		}
		return nil, fmt.Errorf("memorygraph: %s: %w: %v", tool, domain.ErrRemoteCall, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("memorygraph: %s: %w: leer respuesta: %v", tool, domain.ErrRemoteCall, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("memorygraph: %s: %w: HTTP %d: %s", tool, domain.ErrRemoteCall, resp.StatusCode, snippet(raw))
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(raw, &envelope); err != nil || envelope == nil {
		return nil, fmt.Errorf("memorygraph: %s: %w: respuesta no es un objeto JSON: %s", tool, domain.ErrRemoteCall, snippet(raw))
	}
	if rpcErr, ok := envelope["error"]; ok {
		return nil, fmt.Errorf("memorygraph: %s: %w: %s", tool, domain.ErrRemoteCall, snippet(rpcErr))
	}

	rawResult, ok := envelope["result"]
	if !ok || string(rawResult) == "null" {
		return nil, nil
	}
	var res toolResult
	if err := json.Unmarshal(rawResult, &res); err != nil {
		// resultado con otra forma: la llamada igual se considera exitosa
		return nil, nil
	}
	if res.IsError {
		msg := ""
		if len(res.Content) > 0 {
			msg = res.Content[0].Text
		}
		return nil, fmt.Errorf("memorygraph: %s: %w: %s", tool, domain.ErrRemoteCall, msg)
	}
	return &res, nil
}

func snippet(b []byte) string {
	s := strings.TrimSpace(string(b))
	if len(s) > 200 {
		return s[:200] + "…"
	}
	return s
}

package mcp

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/foomo/contentserver-jsonld/service"
	"github.com/go-chi/chi/v5"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"
)

// httpRequestKey is a custom context key for storing the original HTTP request
type httpRequestKey struct{}

// httpContextFunc keeps the original HTTP request in the tool call context
func httpContextFunc(ctx context.Context, r *http.Request) context.Context {
	return context.WithValue(ctx, httpRequestKey{}, r)
}

// HTTPRequestFromContext returns the HTTP request a tool call arrived with
func HTTPRequestFromContext(ctx context.Context) (*http.Request, bool) {
	req, ok := ctx.Value(httpRequestKey{}).(*http.Request)
	return req, ok
}

// NewMcpHTTPServer creates a streamable MCP HTTP server on endpoint
func NewMcpHTTPServer(s *server.MCPServer, endpoint string) *server.StreamableHTTPServer {
	return server.NewStreamableHTTPServer(
		s,
		server.WithEndpointPath(endpoint),
		server.WithHTTPContextFunc(httpContextFunc),
	)
}

// McpHTTPSSEServer combines the MCP HTTP server with the SSE endpoints
type McpHTTPSSEServer struct {
	router    chi.Router
	sseServer *SSEServer
}

// NewMcpHTTPSSEServer routes endpoint to the MCP server and endpoint/sse/... to the SSE server.
// metricsHandler is mounted on /metrics when not nil.
func NewMcpHTTPSSEServer(logger *zap.Logger, s *server.MCPServer, serviceInstance service.Service, endpoint string, config *SSEServerConfig, metricsHandler http.Handler) *McpHTTPSSEServer {
	sseServer := NewSSEServer(logger, serviceInstance, config)

	r := chi.NewRouter()
	r.Handle(endpoint, NewMcpHTTPServer(s, endpoint))
	r.Route(endpoint+"/sse", func(r chi.Router) {
		r.Get("/", sseServer.HandleSSE)
		r.Post("/children", sseServer.HandleChildrenSSE)
		r.Post("/batch", sseServer.HandleBatchSSE)
		r.Get("/clients", func(w http.ResponseWriter, r *http.Request) {
			clients := sseServer.GetConnectedClients()
			writeJSON(w, map[string]any{
				"connectedClients": len(clients),
				"clients":          clients,
			})
		})
		r.Get("/stats", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, sseServer.GetStats())
		})
	})
	if metricsHandler != nil {
		r.Handle("/metrics", metricsHandler)
	}

	return &McpHTTPSSEServer{
		router:    r,
		sseServer: sseServer,
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	_ = json.NewEncoder(w).Encode(v)
}

// ServeHTTP implements http.Handler
func (s *McpHTTPSSEServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// GetSSEServer returns the underlying SSE server for direct access
func (s *McpHTTPSSEServer) GetSSEServer() *SSEServer {
	return s.sseServer
}

package mcp

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/foomo/contentserver-jsonld/service"
	"github.com/foomo/contentserver-jsonld/service/vo"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SSEEvent represents an SSE event structure
type SSEEvent struct {
	ID        string    `json:"id"`
	Event     string    `json:"event"`
	Data      any       `json:"data"`
	Timestamp time.Time `json:"timestamp"`
}

func newSSEEvent(event string, data any) SSEEvent {
	return SSEEvent{
		ID:        uuid.NewString(),
		Event:     event,
		Data:      data,
		Timestamp: time.Now(),
	}
}

// SSEClient represents a connected SSE client
type SSEClient struct {
	ID       string
	Writer   http.ResponseWriter
	Flusher  http.Flusher
	Done     chan struct{}
	LastSeen time.Time
	mu       sync.Mutex
}

// SSEServerConfig holds configuration for the SSE server
type SSEServerConfig struct {
	KeepaliveInterval time.Duration
	BufferSize        int
	ClientTimeout     time.Duration
}

// DefaultSSEServerConfig returns the default configuration for SSE server
func DefaultSSEServerConfig() *SSEServerConfig {
	return &SSEServerConfig{
		KeepaliveInterval: 30 * time.Second,
		BufferSize:        100,
		ClientTimeout:     60 * time.Second,
	}
}

// SSEServer streams structured data builds and broadcasts their summaries to subscribed clients
type SSEServer struct {
	logger       *zap.Logger
	service      service.Service
	config       *SSEServerConfig
	clients      map[string]*SSEClient
	clientsMutex sync.RWMutex
	broadcast    chan SSEEvent
	done         chan struct{}
	closeOnce    sync.Once
}

// NewSSEServer creates a new SSE server, Close stops its broadcast loop
func NewSSEServer(logger *zap.Logger, serviceInstance service.Service, config *SSEServerConfig) *SSEServer {
	if config == nil {
		config = DefaultSSEServerConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &SSEServer{
		logger:    logger,
		service:   serviceInstance,
		config:    config,
		clients:   make(map[string]*SSEClient),
		broadcast: make(chan SSEEvent, config.BufferSize),
		done:      make(chan struct{}),
	}
	go s.broadcastLoop()
	return s
}

// Close stops the broadcast loop, later broadcasts are dropped. Safe to call more than once.
func (s *SSEServer) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
	})
}

// broadcastLoop sends every broadcast event to all connected clients
func (s *SSEServer) broadcastLoop() {
	for {
		var event SSEEvent
		select {
		case <-s.done:
			return
		case event = <-s.broadcast:
		}
		s.clientsMutex.RLock()
		var failed []string
		for clientID, client := range s.clients {
			if err := s.sendEventToClient(client, event); err != nil {
				s.logger.Error("failed to send event to client", zap.String("clientID", clientID), zap.Error(err))
				failed = append(failed, clientID)
			}
		}
		s.clientsMutex.RUnlock()
		for _, clientID := range failed {
			s.removeClient(clientID)
		}
	}
}

// writeEvent writes a single event in SSE wire format
func writeEvent(w http.ResponseWriter, flusher http.Flusher, event SSEEvent) error {
	eventJSON, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	if _, err := fmt.Fprintf(w, "id: %s\nevent: %s\ndata: %s\n\n", event.ID, event.Event, eventJSON); err != nil {
		return err
	}
	flusher.Flush()
	return nil
}

func (s *SSEServer) sendEventToClient(client *SSEClient, event SSEEvent) error {
	client.mu.Lock()
	defer client.mu.Unlock()
	if err := writeEvent(client.Writer, client.Flusher, event); err != nil {
		return err
	}
	client.LastSeen = time.Now()
	return nil
}

func setSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
}

func (s *SSEServer) addClient(w http.ResponseWriter) *SSEClient {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return nil
	}
	client := &SSEClient{
		ID:       uuid.NewString(),
		Writer:   w,
		Flusher:  flusher,
		Done:     make(chan struct{}),
		LastSeen: time.Now(),
	}
	if err := s.sendEventToClient(client, newSSEEvent("connected", map[string]string{"clientID": client.ID})); err != nil {
		s.logger.Error("failed to send connection event", zap.String("clientID", client.ID), zap.Error(err))
		return nil
	}

	s.clientsMutex.Lock()
	s.clients[client.ID] = client
	s.clientsMutex.Unlock()

	s.logger.Info("SSE client connected", zap.String("clientID", client.ID))
	return client
}

func (s *SSEServer) removeClient(clientID string) {
	s.clientsMutex.Lock()
	defer s.clientsMutex.Unlock()

	if client, exists := s.clients[clientID]; exists {
		close(client.Done)
		delete(s.clients, clientID)
		s.logger.Info("SSE client disconnected", zap.String("clientID", clientID))
	}
}

func (s *SSEServer) broadcastEvent(event SSEEvent) {
	select {
	case <-s.done:
		s.logger.Debug("SSE server closed, dropping event", zap.String("eventID", event.ID))
		return
	default:
	}
	select {
	case s.broadcast <- event:
	default:
		s.logger.Warn("broadcast channel full, dropping event", zap.String("eventID", event.ID))
	}
}

// HandleSSE subscribes a client to broadcast events until it disconnects
func (s *SSEServer) HandleSSE(w http.ResponseWriter, r *http.Request) {
	setSSEHeaders(w)
	client := s.addClient(w)
	if client == nil {
		return
	}

	ticker := time.NewTicker(s.config.KeepaliveInterval)
	defer ticker.Stop()
	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			s.removeClient(client.ID)
			return
		case <-client.Done:
			return
		case <-ticker.C:
			if err := s.sendEventToClient(client, newSSEEvent("keepalive", map[string]any{"timestamp": time.Now()})); err != nil {
				s.removeClient(client.ID)
				return
			}
		}
	}
}

// streamResults writes one event per batch result followed by a completion event
// and broadcasts a summary to subscribers
func (s *SSEServer) streamResults(w http.ResponseWriter, flusher http.Flusher, prefix string, results []service.BatchResult) {
	failed := 0
	for _, result := range results {
		event := prefix + "_result"
		if result.Error != "" {
			event = prefix + "_error"
			failed++
		}
		if err := writeEvent(w, flusher, newSSEEvent(event, result)); err != nil {
			s.logger.Warn("failed to stream result", zap.String("id", result.ID), zap.Error(err))
			return
		}
	}
	summary := map[string]int{"total": len(results), "failed": failed}
	if err := writeEvent(w, flusher, newSSEEvent(prefix+"_complete", summary)); err != nil {
		s.logger.Warn("failed to stream completion", zap.Error(err))
	}
	s.broadcastEvent(newSSEEvent(prefix+"_built", summary))
}

// HandleChildrenSSE streams the structured data of all children of the posted path
func (s *SSEServer) HandleChildrenSSE(w http.ResponseWriter, r *http.Request) {
	if s.service == nil {
		http.Error(w, "Structured data service not available", http.StatusServiceUnavailable)
		return
	}
	var request struct {
		Path string `json:"path"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	if request.Path == "" {
		http.Error(w, "path is required", http.StatusBadRequest)
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	setSSEHeaders(w)
	if err := writeEvent(w, flusher, newSSEEvent("children_start", map[string]string{"path": request.Path})); err != nil {
		return
	}
	results, err := s.service.GetChildrenStructuredData(r.Context(), request.Path)
	if err != nil {
		_ = writeEvent(w, flusher, newSSEEvent("children_error", map[string]string{"error": err.Error()}))
		return
	}
	s.streamResults(w, flusher, "children", results)
}

// HandleBatchSSE builds the posted records and streams one event per record
func (s *SSEServer) HandleBatchSSE(w http.ResponseWriter, r *http.Request) {
	if s.service == nil {
		http.Error(w, "Structured data service not available", http.StatusServiceUnavailable)
		return
	}
	var request struct {
		Records []map[string]any `json:"records"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	records := make([]*vo.ContentRecord, len(request.Records))
	for i, data := range request.Records {
		record, err := vo.DecodeRecord(data)
		if err != nil {
			http.Error(w, fmt.Sprintf("record %d: %v", i, err), http.StatusBadRequest)
			return
		}
		records[i] = record
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	setSSEHeaders(w)
	if err := writeEvent(w, flusher, newSSEEvent("batch_start", map[string]int{"records": len(records)})); err != nil {
		return
	}
	s.streamResults(w, flusher, "batch", s.service.BuildBatch(r.Context(), records))
}

// GetConnectedClients returns information about connected clients
func (s *SSEServer) GetConnectedClients() []map[string]any {
	s.clientsMutex.RLock()
	defer s.clientsMutex.RUnlock()

	clients := make([]map[string]any, 0, len(s.clients))
	for _, client := range s.clients {
		client.mu.Lock()
		lastSeen := client.LastSeen
		client.mu.Unlock()
		clients = append(clients, map[string]any{
			"id":        client.ID,
			"lastSeen":  lastSeen,
			"connected": time.Since(lastSeen) < s.config.ClientTimeout,
		})
	}
	return clients
}

// GetStats returns server statistics
func (s *SSEServer) GetStats() map[string]any {
	s.clientsMutex.RLock()
	defer s.clientsMutex.RUnlock()

	return map[string]any{
		"connectedClients": len(s.clients),
		"bufferSize":       len(s.broadcast),
		"serverVersion":    Version,
	}
}

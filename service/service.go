package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/foomo/contentserver-jsonld/jsonld"
	"github.com/foomo/contentserver-jsonld/service/vo"
	contentserverclient "github.com/foomo/contentserver/client"
	"github.com/foomo/contentserver/content"
	"github.com/foomo/contentserver/requests"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const defaultWorkers = 8

var ErrNotFound = errors.New("content not found")

type Service interface {
	// GetStructuredData builds the documents for the content item at path
	GetStructuredData(ctx context.Context, path string) (*StructuredData, error)
	// GetChildrenStructuredData builds the documents for every child of path matching the configured mime types
	GetChildrenStructuredData(ctx context.Context, path string) ([]BatchResult, error)
	// BuildBatch builds records in parallel, a failing record never affects the others
	BuildBatch(ctx context.Context, records []*vo.ContentRecord) []BatchResult
}

// StructuredData is the build result for a single content item
type StructuredData struct {
	ID        string            `json:"id"`
	URL       string            `json:"url,omitempty"`
	MimeType  vo.MimeType       `json:"mimeType,omitempty"`
	Documents []jsonld.Document `json:"documents"`
}

// BatchResult holds the outcome for one record of a batch, Error is empty on success
type BatchResult struct {
	ID        string            `json:"id,omitempty"`
	URL       string            `json:"url,omitempty"`
	Documents []jsonld.Document `json:"documents,omitempty"`
	Error     string            `json:"error,omitempty"`
}

// ContentClient is the part of the content server client the service depends on
type ContentClient interface {
	GetContent(ctx context.Context, r *requests.Content) (*content.SiteContent, error)
	GetNodes(ctx context.Context, env *requests.Env, nodes map[string]*requests.Node) (map[string]*content.Node, error)
}

type service struct {
	logger        *zap.Logger
	contentClient ContentClient
	siteSettings  SiteSettings
	builder       *jsonld.Builder
	metrics       *Metrics
}

type SiteSettings struct {
	Env              *requests.Env
	BaseURL          string
	ContentServerURL string
	MimeTypes        []vo.MimeType
	Workers          int // parallel builds, defaults to 8
}

func (siteSettings SiteSettings) mimeTypes() []string {
	mimeTypes := make([]string, len(siteSettings.MimeTypes))
	for i, mimeType := range siteSettings.MimeTypes {
		mimeTypes[i] = string(mimeType)
	}
	return mimeTypes
}

func (siteSettings SiteSettings) workers() int {
	if siteSettings.Workers <= 0 {
		return defaultWorkers
	}
	return siteSettings.Workers
}

func NewService(
	logger *zap.Logger,
	siteSettings SiteSettings,
	httpClient *http.Client,
	builder *jsonld.Builder,
	metrics *Metrics,
) Service {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	contentServerClient := contentserverclient.New(
		contentserverclient.NewHTTPTransport(
			siteSettings.ContentServerURL,
			contentserverclient.HTTPTransportWithHTTPClient(httpClient),
		))
	return newService(logger, contentServerClient, siteSettings, builder, metrics)
}

func newService(logger *zap.Logger, contentClient ContentClient, siteSettings SiteSettings, builder *jsonld.Builder, metrics *Metrics) *service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if builder == nil {
		builder = jsonld.NewBuilder(jsonld.DefaultConfig())
	}
	return &service{
		logger:        logger,
		contentClient: contentClient,
		siteSettings:  siteSettings,
		builder:       builder,
		metrics:       metrics,
	}
}

// isValidURI checks if a URI is valid for processing
func isValidURI(uri string) bool {
	return uri != "" && strings.HasPrefix(uri, "/")
}

func (s *service) getContent(ctx context.Context, path string) (*content.SiteContent, error) {
	timer := s.metrics.fetchTimer()
	defer timer.ObserveDuration()
	siteContent, err := s.contentClient.GetContent(ctx, &requests.Content{
		URI:   path,
		Env:   s.siteSettings.Env,
		Nodes: map[string]*requests.Node{},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get content for %s: %w", path, err)
	}
	if siteContent == nil || siteContent.Item == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	return siteContent, nil
}

func (s *service) GetStructuredData(ctx context.Context, path string) (*StructuredData, error) {
	if !isValidURI(path) {
		return nil, fmt.Errorf("invalid path %q", path)
	}
	siteContent, err := s.getContent(ctx, path)
	if err != nil {
		return nil, err
	}
	return s.buildItem(siteContent.Item)
}

func (s *service) buildItem(item *content.Item) (*StructuredData, error) {
	record, err := vo.DecodeRecord(item.Data)
	if err != nil {
		s.metrics.recordFailed(err)
		return nil, fmt.Errorf("item %s: %w", item.ID, err)
	}
	if record.ID == "" {
		record.ID = item.ID
	}
	docs, err := s.build(record)
	if err != nil {
		return nil, fmt.Errorf("item %s: %w", item.ID, err)
	}
	return &StructuredData{
		ID:        item.ID,
		URL:       s.siteSettings.BaseURL + item.URI,
		MimeType:  vo.MimeType(item.MimeType),
		Documents: docs,
	}, nil
}

func (s *service) build(record *vo.ContentRecord) ([]jsonld.Document, error) {
	docs, err := s.builder.Build(record)
	if err != nil {
		s.metrics.recordFailed(err)
		fields := []zap.Field{zap.Error(err)}
		if record != nil {
			fields = append(fields, zap.String("id", record.ID))
		}
		s.logger.Warn("failed to build structured data", fields...)
		return nil, err
	}
	s.metrics.recordBuilt(docs)
	return docs, nil
}

func (s *service) GetChildrenStructuredData(ctx context.Context, path string) ([]BatchResult, error) {
	if !isValidURI(path) {
		return nil, fmt.Errorf("invalid path %q", path)
	}
	siteContent, err := s.getContent(ctx, path)
	if err != nil {
		return nil, err
	}
	parentID := siteContent.Item.ID
	nodes, err := s.contentClient.GetNodes(ctx, s.siteSettings.Env, map[string]*requests.Node{
		parentID: {
			ID:        parentID,
			MimeTypes: s.siteSettings.mimeTypes(),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get nodes for %s: %w", path, err)
	}
	parentNode, ok := nodes[parentID]
	if !ok {
		return nil, errors.New("content node not found")
	}

	var children []*content.Item
	for _, id := range parentNode.Index {
		childNode, ok := parentNode.Nodes[id]
		if !ok {
			return nil, errors.New("child node not found")
		}
		if childNode.Item == nil || !isValidURI(childNode.Item.URI) {
			continue
		}
		children = append(children, childNode.Item)
	}

	results := make([]BatchResult, len(children))
	s.fanOut(ctx, len(children), func(ctx context.Context, i int) {
		child := children[i]
		results[i] = BatchResult{ID: child.ID, URL: s.siteSettings.BaseURL + child.URI}
		if err := ctx.Err(); err != nil {
			results[i].Error = err.Error()
			return
		}
		childContent, err := s.getContent(ctx, child.URI)
		if err != nil {
			results[i].Error = err.Error()
			return
		}
		data, err := s.buildItem(childContent.Item)
		if err != nil {
			results[i].Error = err.Error()
			return
		}
		results[i].Documents = data.Documents
	})
	s.logger.Info("built children structured data", zap.String("path", path), zap.Int("count", len(results)))
	return results, nil
}

func (s *service) BuildBatch(ctx context.Context, records []*vo.ContentRecord) []BatchResult {
	results := make([]BatchResult, len(records))
	s.fanOut(ctx, len(records), func(ctx context.Context, i int) {
		record := records[i]
		if record != nil {
			results[i].ID = record.ID
		}
		if err := ctx.Err(); err != nil {
			results[i].Error = err.Error()
			return
		}
		docs, err := s.build(record)
		if err != nil {
			results[i].Error = err.Error()
			return
		}
		results[i].Documents = docs
	})
	return results
}

// fanOut calls fn for every index on a bounded number of goroutines
func (s *service) fanOut(ctx context.Context, n int, fn func(ctx context.Context, i int)) {
	g := &errgroup.Group{}
	g.SetLimit(s.siteSettings.workers())
	for i := 0; i < n; i++ {
		g.Go(func() error {
			fn(ctx, i)
			return nil
		})
	}
	_ = g.Wait()
}

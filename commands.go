package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/foomo/contentserver-jsonld/jsonld"
	"github.com/foomo/contentserver-jsonld/mcp"
	"github.com/foomo/contentserver-jsonld/service"
	"github.com/foomo/contentserver-jsonld/service/vo"
	"github.com/foomo/contentserver/requests"
	"github.com/mark3labs/mcp-go/server"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// ContentServerFlags configure access to the content server
type ContentServerFlags struct {
	ContentServerURL string   `name:"content-server-url" env:"CONTENT_SERVER_URL" help:"Content server URL"`
	BaseURL          string   `name:"base-url" env:"BASE_URL" help:"Public site URL prefixed to content URIs"`
	Dimensions       []string `env:"CONTENT_SERVER_DIMENSIONS" default:"default" help:"Content server dimensions"`
	Groups           []string `env:"CONTENT_SERVER_GROUPS" help:"Content server groups"`
	MimeTypes        []string `name:"mime-types" env:"CONTENT_SERVER_MIME_TYPES" default:"location" help:"Mime types of location nodes"`
	Workers          int      `env:"WORKERS" default:"8" help:"Parallel record builds"`
}

func (f ContentServerFlags) siteSettings() service.SiteSettings {
	mimeTypes := make([]vo.MimeType, len(f.MimeTypes))
	for i, mimeType := range f.MimeTypes {
		mimeTypes[i] = vo.MimeType(mimeType)
	}
	return service.SiteSettings{
		Env: &requests.Env{
			Dimensions: f.Dimensions,
			Groups:     f.Groups,
		},
		BaseURL:          f.BaseURL,
		ContentServerURL: f.ContentServerURL,
		MimeTypes:        mimeTypes,
		Workers:          f.Workers,
	}
}

type ServeCmd struct {
	ContentServerFlags `embed:""`

	HTTP     string `name:"http" env:"HTTP_ADDR" help:"HTTP server address (e.g., ':8080'), stdio when empty"`
	Endpoint string `default:"/mcp" help:"MCP endpoint path in HTTP mode"`
}

func (c *ServeCmd) Run(g *Globals) error {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := service.NewMetrics(registry)

	var serviceInstance service.Service
	if c.ContentServerURL != "" {
		serviceInstance = service.NewService(g.Logger, c.siteSettings(), nil, g.Builder, metrics)
	} else {
		g.Logger.Info("no content server configured, content server tools disabled")
	}
	s := mcp.NewServer(http.DefaultClient, g.Builder, serviceInstance)

	if c.HTTP == "" {
		g.Logger.Info("starting MCP server in stdio mode")
		return server.ServeStdio(s)
	}

	handler := mcp.NewMcpHTTPSSEServer(g.Logger, s, serviceInstance, c.Endpoint, nil, promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	httpServer := &http.Server{
		Addr:              c.HTTP,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	shutdownDone := make(chan struct{})
	go func() {
		defer close(shutdownDone)
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			g.Logger.Error("failed to shut down HTTP server", zap.Error(err))
		}
		// in-flight SSE handlers are done once Shutdown returns
		handler.GetSSEServer().Close()
	}()

	g.Logger.Info("starting MCP server", zap.String("addr", c.HTTP), zap.String("endpoint", c.Endpoint))
	err := httpServer.ListenAndServe()
	stop()
	<-shutdownDone
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

type BuildCmd struct {
	Record string `arg:"" help:"Content record JSON file, - reads stdin"`
	Format string `enum:"json,html" default:"json" help:"Output format: json or html script elements"`
}

func (c *BuildCmd) Run(g *Globals) error {
	var (
		data []byte
		err  error
	)
	if c.Record == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(c.Record)
	}
	if err != nil {
		return fmt.Errorf("failed to read record: %w", err)
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("record is not a JSON object: %w", err)
	}
	record, err := vo.DecodeRecord(raw)
	if err != nil {
		return err
	}
	docs, err := g.Builder.Build(record)
	if err != nil {
		return err
	}
	return writeDocuments(os.Stdout, docs, c.Format)
}

func writeDocuments(w io.Writer, docs []jsonld.Document, format string) error {
	if format == mcp.FormatHTML {
		scripts, err := jsonld.Scripts(docs)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, scripts)
		return err
	}
	return writeJSON(w, docs)
}

func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

type FetchCmd struct {
	ContentServerFlags `embed:""`

	Path     string `arg:"" help:"Content server path"`
	Children bool   `help:"Build every child location of path instead"`
	Format   string `enum:"json,html" default:"json" help:"Output format for a single path: json or html script elements"`
}

func (c *FetchCmd) Run(g *Globals) error {
	if c.ContentServerURL == "" {
		return errors.New("--content-server-url is required")
	}
	s := service.NewService(g.Logger, c.siteSettings(), nil, g.Builder, nil)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if c.Children {
		results, err := s.GetChildrenStructuredData(ctx, c.Path)
		if err != nil {
			return err
		}
		return writeJSON(os.Stdout, results)
	}
	data, err := s.GetStructuredData(ctx, c.Path)
	if err != nil {
		return err
	}
	return writeDocuments(os.Stdout, data.Documents, c.Format)
}

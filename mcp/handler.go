package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/foomo/contentserver-jsonld/jsonld"
	"github.com/foomo/contentserver-jsonld/scrape"
	"github.com/foomo/contentserver-jsonld/service"
	"github.com/foomo/contentserver-jsonld/service/vo"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const Version = "0.1.0"

const (
	FormatJSON = "json"
	FormatHTML = "html"
)

type ScrapeRequest struct {
	URL      string `json:"url"`      // The URL to scrape
	Selector string `json:"selector"` // CSS selector to extract content
}

type ScrapeResponse struct {
	Summary  *vo.PageSummary `json:"summary"`  // Page meta data and embedded structured data
	Markdown string          `json:"markdown"` // The extracted content in markdown format
}

type BuildRequest struct {
	Record string `json:"record"` // Content record as JSON
	Format string `json:"format"` // json (default) or html
}

type BuildResponse struct {
	Documents []jsonld.Document `json:"documents,omitempty"`
	HTML      string            `json:"html,omitempty"`
}

type GetStructuredDataRequest struct {
	Path string `json:"path"` // Content server URI
}

type GetStructuredDataResponse struct {
	StructuredData *service.StructuredData `json:"structuredData"`
}

type GetChildrenStructuredDataResponse struct {
	Results []service.BatchResult `json:"results"`
}

// NewServer creates a new MCP server with the scrape and buildStructuredData tools, the content
// server tools are only added when a service is given
func NewServer(client *http.Client, builder *jsonld.Builder, serviceInstance service.Service) *server.MCPServer {
	if client == nil {
		client = http.DefaultClient
	}
	if builder == nil {
		builder = jsonld.NewBuilder(jsonld.DefaultConfig())
	}
	s := server.NewMCPServer(
		"Content Structured Data MCP",
		Version,
		server.WithToolCapabilities(false),
	)

	scrapeTool := mcp.NewTool("scrape",
		mcp.WithDescription("Scrape a webpage, list its embedded JSON-LD and convert the selected content to markdown"),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("The URL of the webpage to scrape"),
		),
		mcp.WithString("selector",
			mcp.Description("CSS selector to extract specific content (e.g., '#content', '.article', 'article'), defaults to body"),
		),
	)
	s.AddTool(scrapeTool, mcp.NewTypedToolHandler(getScrapeHandler(client)))

	buildTool := mcp.NewTool("buildStructuredData",
		mcp.WithDescription("Build schema.org JSON-LD documents (LocalBusiness, ItemList, FAQPage, Place) from a location content record"),
		mcp.WithString("record",
			mcp.Required(),
			mcp.Description("The content record as JSON"),
		),
		mcp.WithString("format",
			mcp.Description("json returns the documents, html returns ready to embed script elements"),
			mcp.Enum(FormatJSON, FormatHTML),
		),
	)
	s.AddTool(buildTool, mcp.NewTypedToolHandler(getBuildHandler(builder)))

	if serviceInstance != nil {
		getTool := mcp.NewTool("getStructuredData",
			mcp.WithDescription("Load a location from the content server and build its JSON-LD documents"),
			mcp.WithString("path",
				mcp.Required(),
				mcp.Description("The content server path of the location"),
			),
		)
		s.AddTool(getTool, mcp.NewTypedToolHandler(getStructuredDataHandler(serviceInstance)))

		childrenTool := mcp.NewTool("getChildrenStructuredData",
			mcp.WithDescription("Build the JSON-LD documents of every location below a content server path"),
			mcp.WithString("path",
				mcp.Required(),
				mcp.Description("The content server path of the parent node"),
			),
		)
		s.AddTool(childrenTool, mcp.NewTypedToolHandler(getChildrenStructuredDataHandler(serviceInstance)))
	}

	return s
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	responseBytes, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(responseBytes)), nil
}

func getScrapeHandler(client *http.Client) func(ctx context.Context, request mcp.CallToolRequest, args ScrapeRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest, args ScrapeRequest) (*mcp.CallToolResult, error) {
		if args.URL == "" {
			return mcp.NewToolResultError("url is required"), nil
		}
		summary, markdown, err := scrape.Scrape(ctx, client, args.URL, args.Selector)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to scrape content: %v", err)), nil
		}
		return jsonResult(ScrapeResponse{
			Summary:  summary,
			Markdown: string(markdown),
		})
	}
}

func getBuildHandler(builder *jsonld.Builder) func(ctx context.Context, request mcp.CallToolRequest, args BuildRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest, args BuildRequest) (*mcp.CallToolResult, error) {
		if args.Record == "" {
			return mcp.NewToolResultError("record is required"), nil
		}
		var data map[string]any
		if err := json.Unmarshal([]byte(args.Record), &data); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("record is not a JSON object: %v", err)), nil
		}
		record, err := vo.DecodeRecord(data)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		docs, err := builder.Build(record)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to build structured data: %v", err)), nil
		}
		switch args.Format {
		case "", FormatJSON:
			return jsonResult(BuildResponse{Documents: docs})
		case FormatHTML:
			scripts, err := jsonld.Scripts(docs)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			return jsonResult(BuildResponse{HTML: scripts})
		default:
			return mcp.NewToolResultError(fmt.Sprintf("unknown format %q", args.Format)), nil
		}
	}
}

func getStructuredDataHandler(serviceInstance service.Service) func(ctx context.Context, request mcp.CallToolRequest, args GetStructuredDataRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest, args GetStructuredDataRequest) (*mcp.CallToolResult, error) {
		if args.Path == "" {
			return mcp.NewToolResultError("path is required"), nil
		}
		data, err := serviceInstance.GetStructuredData(ctx, args.Path)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to get structured data: %v", err)), nil
		}
		return jsonResult(GetStructuredDataResponse{StructuredData: data})
	}
}

func getChildrenStructuredDataHandler(serviceInstance service.Service) func(ctx context.Context, request mcp.CallToolRequest, args GetStructuredDataRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest, args GetStructuredDataRequest) (*mcp.CallToolResult, error) {
		if args.Path == "" {
			return mcp.NewToolResultError("path is required"), nil
		}
		results, err := serviceInstance.GetChildrenStructuredData(ctx, args.Path)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to get children structured data: %v", err)), nil
		}
		return jsonResult(GetChildrenStructuredDataResponse{Results: results})
	}
}

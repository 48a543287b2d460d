package scrape

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/foomo/contentserver-jsonld/service/vo"
	"golang.org/x/net/html"
)

// maxBodySize limits how much of a page is read
const maxBodySize = 10 << 20

// Scrape downloads url and returns its summary, including every embedded JSON-LD block, and the
// node matched by selector converted to markdown. An empty selector converts the whole body.
func Scrape(ctx context.Context, httpClient *http.Client, url, selector string) (*vo.PageSummary, vo.Markdown, error) {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("failed to download HTML: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("HTTP request failed with status: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, "", fmt.Errorf("failed to read response body: %w", err)
	}

	doc, err := html.Parse(strings.NewReader(string(body)))
	if err != nil {
		return nil, "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	summary := Summarize(doc)
	summary.URL = url

	if selector == "" {
		selector = "body"
	}
	selectedNode, err := extractNodeBySelector(doc, selector)
	if err != nil {
		return nil, "", fmt.Errorf("failed to extract node with selector '%s': %w", selector, err)
	}

	markdownBytes, err := htmltomarkdown.ConvertNode(selectedNode)
	if err != nil {
		return nil, "", fmt.Errorf("failed to convert HTML to markdown: %w", err)
	}

	return summary, vo.Markdown(string(markdownBytes)), nil
}

// Summarize collects title, meta data and structured data of a parsed page
func Summarize(doc *html.Node) *vo.PageSummary {
	blocks := extractJSONLD(doc)
	return &vo.PageSummary{
		ContentSummary: vo.ContentSummary{
			Title:       extractTitle(doc),
			Description: extractMetaContent(doc, "description"),
			Keywords:    extractMetaKeywords(doc),
		},
		JSONLD: blocks,
		Types:  schemaTypes(blocks),
	}
}

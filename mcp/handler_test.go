package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/foomo/contentserver-jsonld/jsonld"
	"github.com/foomo/contentserver-jsonld/service"
	"github.com/foomo/contentserver-jsonld/service/vo"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testRecordJSON = `{
	"id": "1234",
	"name": "Spa",
	"address": {"line1": "1 Main Street", "city": "Springfield", "region": "NJ", "postalCode": "07081", "countryCode": "US"},
	"c_relatedFAQs": [{"question": "Tip?", "answerV2": {"json": {"root": {}}}}]
}`

type fakeService struct {
	data    *service.StructuredData
	results []service.BatchResult
	err     error
}

func (f *fakeService) GetStructuredData(ctx context.Context, path string) (*service.StructuredData, error) {
	return f.data, f.err
}

func (f *fakeService) GetChildrenStructuredData(ctx context.Context, path string) ([]service.BatchResult, error) {
	return f.results, f.err
}

func (f *fakeService) BuildBatch(ctx context.Context, records []*vo.ContentRecord) []service.BatchResult {
	return f.results
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, result)
	require.NotEmpty(t, result.Content)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content")
	return text.Text
}

func TestNewServer(t *testing.T) {
	require.NotNil(t, NewServer(http.DefaultClient, nil, nil))
	require.NotNil(t, NewServer(nil, jsonld.NewBuilder(jsonld.DefaultConfig()), &fakeService{}))
}

func TestBuildHandler(t *testing.T) {
	handler := getBuildHandler(jsonld.NewBuilder(jsonld.DefaultConfig()))

	t.Run("json", func(t *testing.T) {
		result, err := handler(context.Background(), mcp.CallToolRequest{}, BuildRequest{Record: testRecordJSON})
		require.NoError(t, err)
		require.False(t, result.IsError, resultText(t, result))

		var response BuildResponse
		require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &response))
		require.Len(t, response.Documents, 3)
		assert.Equal(t, "Spa in Springfield, NJ", response.Documents[0]["name"])
		assert.Equal(t, jsonld.TypeFAQPage, response.Documents[2].Type())
	})

	t.Run("html", func(t *testing.T) {
		result, err := handler(context.Background(), mcp.CallToolRequest{}, BuildRequest{Record: testRecordJSON, Format: FormatHTML})
		require.NoError(t, err)
		require.False(t, result.IsError)

		var response BuildResponse
		require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &response))
		assert.Equal(t, 3, strings.Count(response.HTML, `<script type="application/ld+json">`))
	})

	for name, args := range map[string]BuildRequest{
		"missing record":   {},
		"invalid json":     {Record: "{"},
		"missing address":  {Record: `{"name": "Spa"}`},
		"unknown format":   {Record: testRecordJSON, Format: "xml"},
		"wrong field type": {Record: `{"name": 1}`},
	} {
		t.Run(name, func(t *testing.T) {
			result, err := handler(context.Background(), mcp.CallToolRequest{}, args)
			require.NoError(t, err)
			assert.True(t, result.IsError)
		})
	}
}

func TestScrapeHandler(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><head><title>Spa</title><script type="application/ld+json">{"@type":"LocalBusiness"}</script></head><body><p>hello</p></body></html>`)
	}))
	defer server.Close()

	scrapeHandler := getScrapeHandler(server.Client())
	result, err := scrapeHandler(context.Background(), mcp.CallToolRequest{}, ScrapeRequest{URL: server.URL})
	require.NoError(t, err)
	require.False(t, result.IsError, resultText(t, result))

	var response ScrapeResponse
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &response))
	assert.Equal(t, "Spa", response.Summary.Title)
	assert.Equal(t, []string{"LocalBusiness"}, response.Summary.Types)
	assert.Contains(t, response.Markdown, "hello")
}

func TestScrapeHandlerValidation(t *testing.T) {
	scrapeHandler := getScrapeHandler(http.DefaultClient)
	result, err := scrapeHandler(context.Background(), mcp.CallToolRequest{}, ScrapeRequest{Selector: "body"})
	require.NoError(t, err)
	assert.True(t, result.IsError, "expected error result for missing URL")
}

func TestGetStructuredDataHandler(t *testing.T) {
	docs, err := jsonld.Build(&vo.ContentRecord{
		Name:    "Spa",
		Address: &vo.Address{Line1: "1", City: "Springfield", Region: "NJ", PostalCode: "07081", CountryCode: "US"},
	})
	require.NoError(t, err)
	handler := getStructuredDataHandler(&fakeService{data: &service.StructuredData{ID: "loc-1", Documents: docs}})

	result, err := handler(context.Background(), mcp.CallToolRequest{}, GetStructuredDataRequest{Path: "/locations/springfield"})
	require.NoError(t, err)
	require.False(t, result.IsError)
	var response GetStructuredDataResponse
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &response))
	assert.Equal(t, "loc-1", response.StructuredData.ID)
	assert.Len(t, response.StructuredData.Documents, 3)

	result, err = handler(context.Background(), mcp.CallToolRequest{}, GetStructuredDataRequest{})
	require.NoError(t, err)
	assert.True(t, result.IsError)

	failing := getStructuredDataHandler(&fakeService{err: errors.New("boom")})
	result, err = failing(context.Background(), mcp.CallToolRequest{}, GetStructuredDataRequest{Path: "/x"})
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "boom")
}

func TestGetChildrenStructuredDataHandler(t *testing.T) {
	handler := getChildrenStructuredDataHandler(&fakeService{results: []service.BatchResult{
		{ID: "loc-1"},
		{ID: "loc-2", Error: "missing required field: address"},
	}})
	result, err := handler(context.Background(), mcp.CallToolRequest{}, GetStructuredDataRequest{Path: "/locations"})
	require.NoError(t, err)
	require.False(t, result.IsError)

	var response GetChildrenStructuredDataResponse
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &response))
	require.Len(t, response.Results, 2)
	assert.Equal(t, "missing required field: address", response.Results[1].Error)
}

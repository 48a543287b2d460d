package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/foomo/contentserver-jsonld/jsonld"
	"github.com/foomo/contentserver-jsonld/mcp"
	"github.com/foomo/contentserver-jsonld/service/vo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDocuments(t *testing.T) []jsonld.Document {
	t.Helper()
	docs, err := jsonld.Build(&vo.ContentRecord{
		ID:   "store-1",
		Name: "Spa",
		Address: &vo.Address{
			Line1:       "1 Main St",
			City:        "Springfield",
			Region:      "NJ",
			PostalCode:  "07081",
			CountryCode: "US",
		},
	})
	require.NoError(t, err)
	return docs
}

func TestWriteDocuments(t *testing.T) {
	docs := testDocuments(t)

	var out bytes.Buffer
	require.NoError(t, writeDocuments(&out, docs, "json"))
	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
	require.Len(t, decoded, 3)
	assert.Equal(t, "Spa in Springfield, NJ", decoded[0]["name"])

	out.Reset()
	require.NoError(t, writeDocuments(&out, docs, mcp.FormatHTML))
	assert.Equal(t, 3, strings.Count(out.String(), `<script type="application/ld+json">`))
}

func TestCLIParse(t *testing.T) {
	var cli CLI
	parser, err := kong.New(&cli, kong.Vars{"version": mcp.Version})
	require.NoError(t, err)

	kctx, err := parser.Parse([]string{"fetch", "/locations", "--children", "--content-server-url", "http://contentserver", "--mime-types", "location,store"})
	require.NoError(t, err)
	assert.Equal(t, "fetch <path>", kctx.Command())
	assert.True(t, cli.Fetch.Children)

	settings := cli.Fetch.siteSettings()
	assert.Equal(t, "http://contentserver", settings.ContentServerURL)
	assert.Len(t, settings.MimeTypes, 2)
	assert.Equal(t, []string{"default"}, settings.Env.Dimensions)
	assert.Equal(t, 8, settings.Workers)

	_, err = parser.Parse([]string{"build", "record.json", "--format", "xml"})
	require.Error(t, err)
}

package jsonld

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScript(t *testing.T) {
	script, err := Script(Document{
		"@context": "https://schema.org",
		"@type":    "Place",
	})
	require.NoError(t, err)
	assert.Equal(t, `<script type="application/ld+json">{"@context":"https://schema.org","@type":"Place"}</script>`, script)
}

func TestScriptEscapesClosingTag(t *testing.T) {
	script, err := Script(Document{"@type": "Thing", "name": "</script><b>x</b>"})
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(script, "</script>"))
	assert.Contains(t, script, `\u003c/script\u003e`)
}

func TestScripts(t *testing.T) {
	docs, err := Build(testRecord())
	require.NoError(t, err)
	out, err := Scripts(docs)
	require.NoError(t, err)
	assert.Equal(t, len(docs), strings.Count(out, `<script type="application/ld+json">`))
	assert.Contains(t, out, `Hand \u0026 Stone`)
}

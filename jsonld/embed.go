package jsonld

import (
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const ScriptType = "application/ld+json"

// Script renders the document as a <script type="application/ld+json"> element.
// encoding/json escapes <, > and & so the payload cannot close the element early.
func Script(doc Document) (string, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("failed to marshal %s document: %w", doc.Type(), err)
	}
	node := &html.Node{
		Type:     html.ElementNode,
		Data:     "script",
		DataAtom: atom.Script,
		Attr:     []html.Attribute{{Key: "type", Val: ScriptType}},
	}
	node.AppendChild(&html.Node{Type: html.TextNode, Data: string(data)})

	var sb strings.Builder
	if err := html.Render(&sb, node); err != nil {
		return "", fmt.Errorf("failed to render script: %w", err)
	}
	return sb.String(), nil
}

// Scripts renders all documents, one element per line
func Scripts(docs []Document) (string, error) {
	var sb strings.Builder
	for _, doc := range docs {
		script, err := Script(doc)
		if err != nil {
			return "", err
		}
		sb.WriteString(script)
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

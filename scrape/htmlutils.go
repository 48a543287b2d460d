package scrape

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/kaptinlin/jsonrepair"
	"golang.org/x/net/html"
)

// extractNodeBySelector supports "#id", ".class" and tag selectors
func extractNodeBySelector(doc *html.Node, selector string) (*html.Node, error) {
	switch {
	case strings.HasPrefix(selector, "#"):
		id := strings.TrimPrefix(selector, "#")
		if n := findNode(doc, func(n *html.Node) bool { return attr(n, "id") == id }); n != nil {
			return n, nil
		}
		return nil, fmt.Errorf("element with id '%s' not found", id)
	case strings.HasPrefix(selector, "."):
		class := strings.TrimPrefix(selector, ".")
		if n := findNode(doc, func(n *html.Node) bool { return slices.Contains(strings.Fields(attr(n, "class")), class) }); n != nil {
			return n, nil
		}
		return nil, fmt.Errorf("element with class '%s' not found", class)
	default:
		if n := findNode(doc, func(n *html.Node) bool { return n.Data == selector }); n != nil {
			return n, nil
		}
		return nil, fmt.Errorf("element with tag '%s' not found", selector)
	}
}

// findNode returns the first element node in document order matching fn
func findNode(n *html.Node, fn func(*html.Node) bool) *html.Node {
	if n.Type == html.ElementNode && fn(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if result := findNode(c, fn); result != nil {
			return result
		}
	}
	return nil
}

// findNodes returns all element nodes matching fn
func findNodes(n *html.Node, fn func(*html.Node) bool) []*html.Node {
	var nodes []*html.Node
	if n.Type == html.ElementNode && fn(n) {
		nodes = append(nodes, n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		nodes = append(nodes, findNodes(c, fn)...)
	}
	return nodes
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			sb.WriteString(c.Data)
		}
	}
	return sb.String()
}

// extractTitle extracts the title from the HTML document
func extractTitle(doc *html.Node) string {
	if n := findNode(doc, func(n *html.Node) bool { return n.Data == "title" }); n != nil {
		return strings.TrimSpace(textContent(n))
	}
	return ""
}

// extractMetaContent returns the content of <meta name="...">
func extractMetaContent(doc *html.Node, name string) string {
	n := findNode(doc, func(n *html.Node) bool {
		return n.Data == "meta" && attr(n, "name") == name && attr(n, "content") != ""
	})
	if n == nil {
		return ""
	}
	return attr(n, "content")
}

// extractMetaKeywords splits the keywords meta tag by comma
func extractMetaKeywords(doc *html.Node) []string {
	var keywords []string
	for _, keyword := range strings.Split(extractMetaContent(doc, "keywords"), ",") {
		if trimmed := strings.TrimSpace(keyword); trimmed != "" {
			keywords = append(keywords, trimmed)
		}
	}
	return keywords
}

// extractJSONLD decodes every application/ld+json script, repairing broken JSON where possible.
// Blocks that cannot be repaired are skipped, top level arrays are flattened.
func extractJSONLD(doc *html.Node) []map[string]any {
	scripts := findNodes(doc, func(n *html.Node) bool {
		return n.Data == "script" && strings.EqualFold(strings.TrimSpace(attr(n, "type")), "application/ld+json")
	})
	blocks := []map[string]any{}
	for _, script := range scripts {
		raw := strings.TrimSpace(textContent(script))
		if raw == "" {
			continue
		}
		var payload any
		if err := json.Unmarshal([]byte(raw), &payload); err != nil {
			repaired, repairErr := jsonrepair.JSONRepair(raw)
			if repairErr != nil {
				continue
			}
			if err := json.Unmarshal([]byte(repaired), &payload); err != nil {
				continue
			}
		}
		switch v := payload.(type) {
		case map[string]any:
			blocks = append(blocks, v)
		case []any:
			for _, item := range v {
				if m, ok := item.(map[string]any); ok {
					blocks = append(blocks, m)
				}
			}
		}
	}
	return blocks
}

// schemaTypes lists the distinct @type values of the blocks in order of appearance, @graph included
func schemaTypes(blocks []map[string]any) []string {
	var types []string
	var walk func(v any)
	walk = func(v any) {
		switch t := v.(type) {
		case map[string]any:
			switch schemaType := t["@type"].(type) {
			case string:
				types = appendUnique(types, schemaType)
			case []any:
				for _, item := range schemaType {
					if s, ok := item.(string); ok {
						types = appendUnique(types, s)
					}
				}
			}
			walk(t["@graph"])
		case []any:
			for _, item := range t {
				walk(item)
			}
		}
	}
	for _, block := range blocks {
		walk(block)
	}
	return types
}

func appendUnique(values []string, value string) []string {
	if slices.Contains(values, value) {
		return values
	}
	return append(values, value)
}

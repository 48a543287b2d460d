package vo

import (
	"encoding/json"
	"fmt"
)

// custom field names used by the content source, mapped to ContentRecord keys
var (
	recordAliases = map[string]string{
		"c_relatedServices":  "relatedServices",
		"c_relatedOffers":    "relatedOffers",
		"c_entityCollection": "entityCollection",
		"c_relatedFAQs":      "relatedFAQs",
	}
	groupAliases = map[string]string{
		"c_products": "products",
	}
	productAliases = map[string]string{
		"c_category": "category",
		"c_reviews":  "reviewCount",
		"c_rating":   "rating",
	}
)

// DecodeRecord converts raw content item data into a ContentRecord.
// The input map is not modified.
func DecodeRecord(data map[string]any) (*ContentRecord, error) {
	normalized := renameKeys(data, recordAliases)
	if groups, ok := normalized["entityCollection"].([]any); ok {
		normalized["entityCollection"] = mapEach(groups, func(group map[string]any) map[string]any {
			group = renameKeys(group, groupAliases)
			if products, ok := group["products"].([]any); ok {
				group["products"] = mapEach(products, func(product map[string]any) map[string]any {
					return renameKeys(product, productAliases)
				})
			}
			return group
		})
	}
	if faqs, ok := normalized["relatedFAQs"].([]any); ok {
		normalized["relatedFAQs"] = mapEach(faqs, normalizeFAQ)
	}

	raw, err := json.Marshal(normalized)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal record data: %w", err)
	}
	record := &ContentRecord{}
	if err := json.Unmarshal(raw, record); err != nil {
		return nil, fmt.Errorf("failed to decode record: %w", err)
	}
	return record, nil
}

// normalizeFAQ lifts answerV2.json into answerJSON
func normalizeFAQ(faq map[string]any) map[string]any {
	out := renameKeys(faq, nil)
	if _, ok := out["answerJSON"]; ok {
		return out
	}
	if answer, ok := out["answerV2"].(map[string]any); ok {
		if payload, ok := answer["json"]; ok {
			out["answerJSON"] = payload
		}
		delete(out, "answerV2")
	}
	return out
}

// renameKeys returns a shallow copy of m with aliased keys renamed, canonical keys win on conflict
func renameKeys(m map[string]any, aliases map[string]string) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		if _, isAlias := aliases[k]; !isAlias {
			out[k] = v
		}
	}
	for alias, canonical := range aliases {
		v, ok := m[alias]
		if !ok {
			continue
		}
		if _, exists := out[canonical]; !exists {
			out[canonical] = v
		}
	}
	return out
}

func mapEach(items []any, fn func(map[string]any) map[string]any) []any {
	out := make([]any, len(items))
	for i, item := range items {
		if m, ok := item.(map[string]any); ok {
			out[i] = fn(m)
		} else {
			out[i] = item
		}
	}
	return out
}

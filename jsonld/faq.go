package jsonld

import (
	"bytes"
	"encoding/json"

	"github.com/foomo/contentserver-jsonld/service/vo"
)

// FAQList maps the related FAQs, in order, to a FAQPage.
// Each Question carries the question in text, name holds the configured label.
func (b *Builder) FAQList(record *vo.ContentRecord) Document {
	questions := make([]map[string]any, 0, len(record.RelatedFAQs))
	for _, faq := range record.RelatedFAQs {
		name := b.config.FAQLabel
		if name == "" {
			name = faq.Question
		}
		answer := map[string]any{
			"@type": "Answer",
		}
		if text, ok := answerText(faq.AnswerJSON); ok {
			answer["text"] = text
		}
		questions = append(questions, map[string]any{
			"@type":          "Question",
			"name":           name,
			"text":           faq.Question,
			"acceptedAnswer": answer,
		})
	}
	doc := b.document(TypeFAQPage)
	doc["mainEntity"] = questions
	return doc
}

// answerText returns the compact JSON form of the rich text payload
func answerText(payload json.RawMessage) (string, bool) {
	if len(bytes.TrimSpace(payload)) == 0 {
		return "", false
	}
	buf := &bytes.Buffer{}
	if err := json.Compact(buf, payload); err != nil {
		return string(payload), true
	}
	return buf.String(), true
}

package jsonld

import (
	"fmt"
	"strings"

	"github.com/foomo/contentserver-jsonld/service/vo"
)

// BusinessListing maps the record to a LocalBusiness. The record must have passed Validate.
func (b *Builder) BusinessListing(record *vo.ContentRecord) Document {
	address := record.Address
	doc := b.document(TypeLocalBusiness)
	doc["name"] = fmt.Sprintf("%s in %s, %s", record.Name, address.City, address.Region)
	doc["address"] = map[string]any{
		"@type":           "PostalAddress",
		"streetAddress":   address.Line1,
		"addressLocality": address.City,
		"addressRegion":   address.Region,
		"postalCode":      address.PostalCode,
		"addressCountry":  address.CountryCode,
	}
	if record.Description != "" {
		doc["description"] = record.Description
	}
	if record.Hours != nil {
		doc["openingHours"] = OpeningHours(record.Hours)
	} else {
		doc["openingHours"] = b.config.FallbackOpeningHours
	}
	if record.MainPhone != "" {
		doc["telephone"] = record.MainPhone
	}
	doc["hasOfferCatalog"] = map[string]any{
		"@type":           "OfferCatalog",
		"name":            b.config.CatalogName,
		"itemListElement": serviceCatalog(record.RelatedServices),
	}
	doc["offers"] = b.offers()
	return doc
}

// OpeningHours renders one "Mo 09:00-17:00" token per day with an open interval.
// Only the first interval of a day is used.
func OpeningHours(hours *vo.Hours) []string {
	tokens := []string{}
	for _, day := range hours.Days() {
		if day.Hours == nil || len(day.Hours.OpenIntervals) == 0 {
			continue
		}
		interval := day.Hours.OpenIntervals[0]
		tokens = append(tokens, fmt.Sprintf("%s %s-%s", dayAbbreviation(day.Name), interval.Start, interval.End))
	}
	return tokens
}

// dayAbbreviation turns "monday" into "Mo"
func dayAbbreviation(day string) string {
	return strings.ToUpper(day[:1]) + day[1:2]
}

func serviceCatalog(services []vo.NamedRef) []map[string]any {
	items := make([]map[string]any, 0, len(services))
	for _, service := range services {
		items = append(items, map[string]any{
			"@type": "OfferCatalog",
			"itemOffered": map[string]any{
				"@type": "Service",
				"name":  service.Name,
			},
		})
	}
	return items
}

func (b *Builder) offers() []map[string]any {
	offers := make([]map[string]any, 0, len(b.config.Offers))
	for _, offer := range b.config.Offers {
		m := map[string]any{
			"@type":         "Offer",
			"name":          offer.Name,
			"price":         offer.Price,
			"priceCurrency": offer.PriceCurrency,
		}
		if offer.URL != "" {
			m["url"] = offer.URL
		}
		if offer.Description != "" {
			m["description"] = offer.Description
		}
		offers = append(offers, m)
	}
	return offers
}

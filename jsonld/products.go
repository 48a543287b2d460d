package jsonld

import (
	"github.com/foomo/contentserver-jsonld/service/vo"
)

// ProductList flattens the products of all entity groups into one ItemList.
//
// Positions restart at 1 for every group: two groups of two products yield 1,2,1,2.
func (b *Builder) ProductList(record *vo.ContentRecord) Document {
	elements := []map[string]any{}
	for _, group := range record.EntityCollection {
		for i, product := range group.Products {
			elements = append(elements, map[string]any{
				"@type":    "ListItem",
				"position": i + 1,
				"item":     b.product(record.ID, product),
			})
		}
	}
	doc := b.document(TypeItemList)
	doc["itemListElement"] = elements
	return doc
}

func (b *Builder) product(sku string, product vo.Product) map[string]any {
	item := map[string]any{
		"@type": "Product",
		"name":  product.Name,
	}
	if len(product.PhotoGallery) > 0 && product.PhotoGallery[0].Image.URL != "" {
		item["image"] = product.PhotoGallery[0].Image.URL
	}
	if product.Category != "" {
		item["category"] = product.Category
	}
	if sku != "" {
		item["sku"] = sku
	}

	rating := map[string]any{
		"@type":      "AggregateRating",
		"bestRating": b.config.BestRating,
	}
	if product.ReviewCount != "" {
		rating["ratingCount"] = product.ReviewCount
	}
	if product.Rating != "" {
		rating["ratingValue"] = product.Rating
	}
	item["aggregateRating"] = rating

	offer := map[string]any{
		"@type":        "Offer",
		"availability": b.config.Availability,
	}
	if product.Price != nil {
		if product.Price.Value != "" {
			offer["price"] = product.Price.Value
		}
		if product.Price.CurrencyCode != "" {
			offer["priceCurrency"] = product.Price.CurrencyCode
		}
	}
	item["offers"] = offer
	return item
}

// Package jsonld turns location content records into schema.org JSON-LD documents.
//
// Building is pure: no I/O, no logging and the record is never modified, so a Builder can be
// shared by any number of goroutines.
package jsonld

import (
	"github.com/foomo/contentserver-jsonld/service/vo"
)

// schema.org types of the generated documents
const (
	TypeLocalBusiness = "LocalBusiness"
	TypeItemList      = "ItemList"
	TypeFAQPage       = "FAQPage"
	TypePlace         = "Place"
)

// Document is a single JSON-LD object ready to be marshaled
type Document map[string]any

// Type returns the document's @type or an empty string
func (d Document) Type() string {
	t, _ := d["@type"].(string)
	return t
}

type Builder struct {
	config Config
}

func NewBuilder(config Config) *Builder {
	return &Builder{config: config}
}

var defaultBuilder = NewBuilder(DefaultConfig())

// Build runs the default builder
func Build(record *vo.ContentRecord) ([]Document, error) {
	return defaultBuilder.Build(record)
}

// Build returns the LocalBusiness, ItemList and FAQPage documents for the record, followed by a
// Place when the record is geocoded.
func (b *Builder) Build(record *vo.ContentRecord) ([]Document, error) {
	if err := Validate(record); err != nil {
		return nil, err
	}
	docs := []Document{
		b.BusinessListing(record),
		b.ProductList(record),
		b.FAQList(record),
	}
	if place, ok := b.GeoPlace(record); ok {
		docs = append(docs, place)
	}
	return docs, nil
}

// Validate checks the fields every document depends on
func Validate(record *vo.ContentRecord) error {
	if record == nil || record.Name == "" {
		return &MissingRequiredFieldError{FieldPath: "name"}
	}
	address := record.Address
	if address == nil {
		return &MissingRequiredFieldError{FieldPath: "address"}
	}
	for _, field := range []struct {
		path  string
		value string
	}{
		{"address.line1", address.Line1},
		{"address.city", address.City},
		{"address.region", address.Region},
		{"address.postalCode", address.PostalCode},
		{"address.countryCode", address.CountryCode},
	} {
		if field.value == "" {
			return &MissingRequiredFieldError{FieldPath: field.path}
		}
	}
	return nil
}

func (b *Builder) document(schemaType string) Document {
	return Document{
		"@context": b.config.Context,
		"@type":    schemaType,
	}
}

package vo

import "encoding/json"

type Markdown string

type MimeType string

type ContentSummary struct {
	Title       string   `json:"title"`       // Page title
	Description string   `json:"description"` // Meta description
	Keywords    []string `json:"keywords"`    // Meta keywords
}

// PageSummary describes a scraped page together with the structured data it embeds
type PageSummary struct {
	URL            string `json:"url"`
	ContentSummary `json:"contentSummary"`
	JSONLD         []map[string]any `json:"jsonld,omitempty"` // Embedded application/ld+json blocks
	Types          []string         `json:"types,omitempty"`  // Every @type found in JSONLD, @graph included
}

// ContentRecord is a location entity as delivered by the content source
type ContentRecord struct {
	ID                 string        `json:"id,omitempty"`
	Name               string        `json:"name,omitempty"`
	Address            *Address      `json:"address,omitempty"`
	MainPhone          string        `json:"mainPhone,omitempty"`
	Description        string        `json:"description,omitempty"`
	Hours              *Hours        `json:"hours,omitempty"`
	GeocodedCoordinate *Coordinate   `json:"geocodedCoordinate,omitempty"`
	RelatedServices    []NamedRef    `json:"relatedServices,omitempty"`
	RelatedOffers      []NamedRef    `json:"relatedOffers,omitempty"`
	EntityCollection   []EntityGroup `json:"entityCollection,omitempty"`
	RelatedFAQs        []FAQ         `json:"relatedFAQs,omitempty"`
}

type Address struct {
	Line1       string `json:"line1,omitempty"`
	City        string `json:"city,omitempty"`
	Region      string `json:"region,omitempty"`
	PostalCode  string `json:"postalCode,omitempty"`
	CountryCode string `json:"countryCode,omitempty"`
}

// Hours keeps the weekdays as fields so iteration order is always monday to sunday
type Hours struct {
	Monday    *DayHours `json:"monday,omitempty"`
	Tuesday   *DayHours `json:"tuesday,omitempty"`
	Wednesday *DayHours `json:"wednesday,omitempty"`
	Thursday  *DayHours `json:"thursday,omitempty"`
	Friday    *DayHours `json:"friday,omitempty"`
	Saturday  *DayHours `json:"saturday,omitempty"`
	Sunday    *DayHours `json:"sunday,omitempty"`
}

// Weekday pairs a lower case weekday name with its hours
type Weekday struct {
	Name  string
	Hours *DayHours
}

// Days returns all seven weekdays in calendar order, absent days included with nil hours
func (h *Hours) Days() []Weekday {
	if h == nil {
		return nil
	}
	return []Weekday{
		{Name: "monday", Hours: h.Monday},
		{Name: "tuesday", Hours: h.Tuesday},
		{Name: "wednesday", Hours: h.Wednesday},
		{Name: "thursday", Hours: h.Thursday},
		{Name: "friday", Hours: h.Friday},
		{Name: "saturday", Hours: h.Saturday},
		{Name: "sunday", Hours: h.Sunday},
	}
}

type DayHours struct {
	IsClosed      bool       `json:"isClosed,omitempty"`
	OpenIntervals []Interval `json:"openIntervals,omitempty"`
}

type Interval struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type NamedRef struct {
	Name string `json:"name"`
}

type EntityGroup struct {
	Products []Product `json:"products,omitempty"`
}

type Product struct {
	Name         string      `json:"name,omitempty"`
	PhotoGallery []Photo     `json:"photoGallery,omitempty"`
	Category     string      `json:"category,omitempty"`
	Price        *Price      `json:"price,omitempty"`
	ReviewCount  json.Number `json:"reviewCount,omitempty"`
	Rating       json.Number `json:"rating,omitempty"`
}

type Photo struct {
	Image Image `json:"image"`
}

type Image struct {
	URL string `json:"url"`
}

type Price struct {
	Value        json.Number `json:"value,omitempty"` // accepts both "79.95" and 79.95
	CurrencyCode string      `json:"currencyCode,omitempty"`
}

type FAQ struct {
	Question   string          `json:"question"`
	AnswerJSON json.RawMessage `json:"answerJSON,omitempty"` // Rich text payload, passed through untouched
}

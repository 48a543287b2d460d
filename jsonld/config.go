package jsonld

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the static business rules baked into the generated documents
type Config struct {
	Context              string  `yaml:"context"`
	FallbackOpeningHours string  `yaml:"fallback_opening_hours"` // used when a record has no hours at all
	CatalogName          string  `yaml:"catalog_name"`
	Offers               []Offer `yaml:"offers"`
	BestRating           string  `yaml:"best_rating"`
	Availability         string  `yaml:"availability"`
	// FAQLabel is the name given to every FAQ question, an empty label falls back to the question text
	FAQLabel string `yaml:"faq_label"`
}

// Offer is a promotional offer listed on every business listing
type Offer struct {
	Name          string `yaml:"name"`
	Price         string `yaml:"price"`
	PriceCurrency string `yaml:"price_currency"`
	URL           string `yaml:"url"`
	Description   string `yaml:"description"`
}

const bookingURL = "https://handandstone.com/book-an-appointment/?location_id=0c4b087e-3de1-4412-b05f-bee1c335f9e8"

// DefaultConfig returns the production rules
func DefaultConfig() Config {
	return Config{
		Context:              "https://schema.org",
		FallbackOpeningHours: "Mo,Tu,We,Th 09:00-12:00",
		CatalogName:          "Store services",
		Offers: []Offer{
			{
				Name:          "Intro Image Classic Facial",
				Price:         "79.95",
				PriceCurrency: "USD",
				URL:           bookingURL,
				Description: "Introductory pricing for first-time customers only. \n" +
					"                Service includes time for dressing and consultation.",
			},
			{
				Name:          "Introductory Swedish Massage 1 Hour",
				Price:         "79.95",
				PriceCurrency: "USD",
				URL:           bookingURL,
			},
		},
		BestRating:   "5",
		Availability: "https://schema.org/InStock",
		FAQLabel:     "Q3",
	}
}

// LoadConfig reads a yaml file and overlays it on DefaultConfig
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

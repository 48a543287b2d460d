package jsonld

import (
	"github.com/foomo/contentserver-jsonld/service/vo"
)

// GeoPlace returns a Place for geocoded records, ok is false otherwise
func (b *Builder) GeoPlace(record *vo.ContentRecord) (doc Document, ok bool) {
	coordinate := record.GeocodedCoordinate
	if coordinate == nil {
		return nil, false
	}
	doc = b.document(TypePlace)
	doc["geo"] = map[string]any{
		"@type":     "GeoCoordinates",
		"latitude":  coordinate.Latitude,
		"longitude": coordinate.Longitude,
	}
	return doc, true
}

package vo

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeRecord(t *testing.T) {
	var data map[string]any
	require.NoError(t, json.Unmarshal([]byte(`{
		"id": "1234",
		"name": "Hand & Stone Massage and Facial Spa",
		"address": {
			"line1": "100 Main Street",
			"city": "Springfield",
			"region": "NJ",
			"postalCode": "07081",
			"countryCode": "US"
		},
		"mainPhone": "+15555550100",
		"hours": {
			"monday": {"openIntervals": [{"start": "09:00", "end": "17:00"}]},
			"tuesday": {"isClosed": true},
			"holidayHours": [{"date": "2026-12-25", "isClosed": true}]
		},
		"geocodedCoordinate": {"latitude": 40.7048, "longitude": -74.3171},
		"c_relatedServices": [{"name": "Swedish Massage"}],
		"c_entityCollection": [
			{"c_products": [
				{
					"name": "Hydrating Facial",
					"photoGallery": [{"image": {"url": "https://a.example/1.jpg"}}],
					"c_category": "Facials",
					"price": {"value": "89.95", "currencyCode": "USD"},
					"c_reviews": 12,
					"c_rating": 4.5
				}
			]}
		],
		"c_relatedFAQs": [
			{"question": "Am I supposed to leave a tip?", "answerV2": {"json": {"root": {"type": "root"}}}}
		]
	}`), &data))

	record, err := DecodeRecord(data)
	require.NoError(t, err)

	assert.Equal(t, "1234", record.ID)
	assert.Equal(t, "Springfield", record.Address.City)
	require.NotNil(t, record.Hours)
	require.NotNil(t, record.Hours.Monday)
	assert.Equal(t, []Interval{{Start: "09:00", End: "17:00"}}, record.Hours.Monday.OpenIntervals)
	assert.True(t, record.Hours.Tuesday.IsClosed)
	assert.Nil(t, record.Hours.Sunday)
	assert.Equal(t, &Coordinate{Latitude: 40.7048, Longitude: -74.3171}, record.GeocodedCoordinate)
	assert.Equal(t, []NamedRef{{Name: "Swedish Massage"}}, record.RelatedServices)

	require.Len(t, record.EntityCollection, 1)
	require.Len(t, record.EntityCollection[0].Products, 1)
	product := record.EntityCollection[0].Products[0]
	assert.Equal(t, "Facials", product.Category)
	assert.Equal(t, json.Number("12"), product.ReviewCount)
	assert.Equal(t, json.Number("4.5"), product.Rating)
	assert.Equal(t, &Price{Value: "89.95", CurrencyCode: "USD"}, product.Price)

	require.Len(t, record.RelatedFAQs, 1)
	assert.Equal(t, "Am I supposed to leave a tip?", record.RelatedFAQs[0].Question)
	assert.JSONEq(t, `{"root":{"type":"root"}}`, string(record.RelatedFAQs[0].AnswerJSON))

	// the input must stay untouched
	assert.Contains(t, data, "c_relatedServices")
	assert.NotContains(t, data, "relatedServices")
}

func TestDecodeRecordCanonicalKeysWin(t *testing.T) {
	record, err := DecodeRecord(map[string]any{
		"name":              "Spa",
		"relatedServices":   []any{map[string]any{"name": "canonical"}},
		"c_relatedServices": []any{map[string]any{"name": "alias"}},
		"relatedFAQs": []any{
			map[string]any{"question": "q", "answerJSON": "plain", "answerV2": map[string]any{"json": "v2"}},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, []NamedRef{{Name: "canonical"}}, record.RelatedServices)
	assert.JSONEq(t, `"plain"`, string(record.RelatedFAQs[0].AnswerJSON))
	assert.Nil(t, record.Address)
	assert.Nil(t, record.Hours)
}

func TestDecodeRecordRejectsWrongShape(t *testing.T) {
	_, err := DecodeRecord(map[string]any{"address": "not an object"})
	require.Error(t, err)
}

func TestHoursDays(t *testing.T) {
	var hours *Hours
	assert.Nil(t, hours.Days())

	hours = &Hours{Friday: &DayHours{IsClosed: true}}
	days := hours.Days()
	require.Len(t, days, 7)
	assert.Equal(t, "monday", days[0].Name)
	assert.Equal(t, "friday", days[4].Name)
	assert.True(t, days[4].Hours.IsClosed)
	assert.Equal(t, "sunday", days[6].Name)
}

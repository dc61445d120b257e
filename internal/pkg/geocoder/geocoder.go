// Package geocoder resolves street addresses and postal codes to GeoJSON
// point locations through a pluggable geocoding provider, with an optional
// Redis cache in front so repeated lookups of the same address do not burn
// provider quota.
package geocoder

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	geo "github.com/codingsince1985/geo-golang"
	"github.com/codingsince1985/geo-golang/google"
	"github.com/codingsince1985/geo-golang/openstreetmap"
	"github.com/redis/go-redis/v9"

	"github.com/devtrailhq/devtrail/pkg/apperror"
)

const cacheTTL = 24 * time.Hour

// Location is the GeoJSON point persisted on a bootcamp, with the
// structured address parts resolved by the provider.
type Location struct {
	Type             string    `bson:"type" json:"type"`
	Coordinates      []float64 `bson:"coordinates" json:"coordinates"` // [lng, lat]
	FormattedAddress string    `bson:"formattedAddress,omitempty" json:"formattedAddress,omitempty"`
	Street           string    `bson:"street,omitempty" json:"street,omitempty"`
	City             string    `bson:"city,omitempty" json:"city,omitempty"`
	State            string    `bson:"state,omitempty" json:"state,omitempty"`
	Zipcode          string    `bson:"zipcode,omitempty" json:"zipcode,omitempty"`
	Country          string    `bson:"country,omitempty" json:"country,omitempty"`
}

// Service wraps a geocoding provider and an optional cache.
type Service struct {
	geocoder geo.Geocoder
	cache    *redis.Client
}

// New builds a Service for the named provider. An empty or unknown
// provider falls back to OpenStreetMap, which needs no API key. A nil
// cache client disables caching.
func New(provider, apiKey string, cache *redis.Client) *Service {
	var g geo.Geocoder
	switch provider {
	case "google":
		g = google.Geocoder(apiKey)
	default:
		g = openstreetmap.Geocoder()
	}
	return &Service{geocoder: g, cache: cache}
}

// Geocode resolves a free-form address or postal code to a Location.
func (s *Service) Geocode(ctx context.Context, address string) (*Location, error) {
	key := "geocode:" + strings.ToLower(strings.TrimSpace(address))

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, key).Result(); err == nil {
			var loc Location
			if json.Unmarshal([]byte(cached), &loc) == nil {
				return &loc, nil
			}
		}
	}

	point, err := s.geocoder.Geocode(address)
	if err != nil {
		return nil, apperror.Upstream("Geocoding service failure: %v", err)
	}
	if point == nil {
		return nil, apperror.BadRequest("Unable to geocode address %s", address)
	}

	loc := &Location{
		Type:        "Point",
		Coordinates: []float64{point.Lng, point.Lat},
	}

	// A second provider call resolves the structured address parts. Best
	// effort: the point alone is enough to persist.
	if addr, err := s.geocoder.ReverseGeocode(point.Lat, point.Lng); err == nil && addr != nil {
		loc.FormattedAddress = addr.FormattedAddress
		loc.Street = addr.Street
		loc.City = addr.City
		loc.State = addr.State
		loc.Zipcode = addr.Postcode
		loc.Country = addr.CountryCode
	}

	if s.cache != nil {
		if encoded, err := json.Marshal(loc); err == nil {
			s.cache.Set(ctx, key, encoded, cacheTTL)
		}
	}

	return loc, nil
}

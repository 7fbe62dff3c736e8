package geo

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// EarthRadiusKm is the mean radius of Earth used for Haversine distance.
const EarthRadiusKm = 6371.0

// KmPerDegree approximates one degree of latitude for bounding-box prechecks.
const KmPerDegree = 111.0

// HaversineKm returns the great-circle distance in kilometers between two
// points specified by latitude and longitude in degrees. Inputs are not range
// checked; out-of-range degrees yield a mathematically valid but meaningless
// result.
func HaversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*math.Pi/180)*math.Cos(lat2*math.Pi/180)*math.Sin(dLon/2)*math.Sin(dLon/2)

	return 2 * EarthRadiusKm * math.Asin(math.Sqrt(a))
}

// DegreePad converts a radius in kilometers to degrees for a cheap
// bounding-box precheck (1 degree latitude ~ 111 km).
func DegreePad(radiusKm float64) float64 {
	return radiusKm / KmPerDegree
}

// InBoundingBox reports whether (lat, lon) falls inside the box of pad degrees
// around the center point.
func InBoundingBox(centerLat, centerLon, lat, lon, pad float64) bool {
	return lat >= centerLat-pad && lat <= centerLat+pad &&
		lon >= centerLon-pad && lon <= centerLon+pad
}

// ValidateCoordinates checks that latitude is in [-90,90] and longitude in [-180,180].
func ValidateCoordinates(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

// ParsePoint extracts (lat, lon) from a stored location payload. Two formats
// are accepted: a GeoJSON-like object ({"coordinates": [lon, lat]}, as decoded
// from JSON) and a well-known-text string ("SRID=4326;POINT(lon lat)").
// Absent or malformed input returns ok=false, never an error.
func ParsePoint(loc any) (lat, lon float64, ok bool) {
	switch v := loc.(type) {
	case nil:
		return 0, 0, false
	case string:
		return parseWKTPoint(v)
	case map[string]any:
		return parseGeoJSONPoint(v)
	default:
		return 0, 0, false
	}
}

func parseGeoJSONPoint(obj map[string]any) (lat, lon float64, ok bool) {
	raw, exists := obj["coordinates"]
	if !exists {
		return 0, 0, false
	}
	coords, isSlice := raw.([]any)
	if !isSlice || len(coords) < 2 {
		return 0, 0, false
	}
	// GeoJSON order is [lon, lat]
	lonV, okLon := toFloat(coords[0])
	latV, okLat := toFloat(coords[1])
	if !okLon || !okLat {
		return 0, 0, false
	}
	return latV, lonV, true
}

func parseWKTPoint(s string) (lat, lon float64, ok bool) {
	idx := strings.Index(s, "POINT(")
	if idx < 0 {
		return 0, 0, false
	}
	rest := s[idx+len("POINT("):]
	end := strings.Index(rest, ")")
	if end < 0 {
		return 0, 0, false
	}
	parts := strings.Fields(rest[:end])
	if len(parts) != 2 {
		return 0, 0, false
	}
	lonV, errLon := strconv.ParseFloat(parts[0], 64)
	latV, errLat := strconv.ParseFloat(parts[1], 64)
	if errLon != nil || errLat != nil {
		return 0, 0, false
	}
	return latV, lonV, true
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

// Package geo provides the geographic primitives used to scope flight
// queries: coarse bounding boxes for upstream requests and exact
// great-circle distance filtering for the final admission decision.
package geo

import "math"

// Constants for coordinate calculations
const (
	// DegreesToRadians converts degrees to radians
	DegreesToRadians = math.Pi / 180.0

	// EarthRadiusKm is the Earth's radius in kilometers (WGS84 mean radius)
	EarthRadiusKm = 6371.0

	// KmPerDegreeLat is the approximate length of one degree of latitude.
	// One degree of longitude shrinks by cos(latitude) away from the equator.
	KmPerDegreeLat = 111.0
)

// Point represents a position on Earth's surface.
// Uses the WGS84 coordinate system (same as GPS).
type Point struct {
	// Latitude in decimal degrees (-90 to +90)
	// Positive = North, Negative = South
	Latitude float64

	// Longitude in decimal degrees (-180 to +180)
	// Positive = East, Negative = West
	Longitude float64
}

// BoundingBox is an axis-aligned latitude/longitude rectangle.
type BoundingBox struct {
	MinLat float64
	MaxLat float64
	MinLon float64
	MaxLon float64
}

// Contains reports whether the point lies inside the box.
func (b BoundingBox) Contains(p Point) bool {
	return p.Latitude >= b.MinLat && p.Latitude <= b.MaxLat &&
		p.Longitude >= b.MinLon && p.Longitude <= b.MaxLon
}

// BoundingBoxAround returns the smallest axis-aligned box guaranteed to
// contain the circle of radiusKm around center. The box is a coarse
// superset of the circle and is used only to build the upstream query;
// the authoritative accept/reject decision is IsWithinRadius.
func BoundingBoxAround(center Point, radiusKm float64) BoundingBox {
	latDelta := radiusKm / KmPerDegreeLat
	lonDelta := radiusKm / (KmPerDegreeLat * math.Cos(center.Latitude*DegreesToRadians))

	return BoundingBox{
		MinLat: center.Latitude - latDelta,
		MaxLat: center.Latitude + latDelta,
		MinLon: center.Longitude - lonDelta,
		MaxLon: center.Longitude + lonDelta,
	}
}

// DistanceKm calculates the great-circle distance between two points.
// Uses the Haversine formula for accuracy over short and long distances.
// Returns distance in kilometers.
func DistanceKm(from, to Point) float64 {
	lat1Rad := from.Latitude * DegreesToRadians
	lat2Rad := to.Latitude * DegreesToRadians

	dLat := (to.Latitude - from.Latitude) * DegreesToRadians
	dLon := (to.Longitude - from.Longitude) * DegreesToRadians

	// Haversine formula
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusKm * c
}

// IsWithinRadius reports whether point lies within radiusKm of center
// along a great circle. This is the exact circular filter applied after
// the provider returns its coarser bounding-box result set.
func IsWithinRadius(center, point Point, radiusKm float64) bool {
	return DistanceKm(center, point) <= radiusKm
}

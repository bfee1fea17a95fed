package geo

import (
	"context"
	"time"
)

// Coordinates is a latitude/longitude pair in decimal degrees.
type Coordinates struct {
	Lat float64
	Lng float64
}

// Route is a driving route between two coordinates as reported by an
// external provider.
type Route struct {
	Distance Distance
	Duration time.Duration
}

// DistanceProvider is the single seam to the external maps backend. The
// resolver and its tests depend only on this interface; production wires a
// GoogleClient, unit tests substitute a fake.
type DistanceProvider interface {
	// Route returns the driving route between two coordinates.
	Route(ctx context.Context, from, to Coordinates) (Route, error)
	// Geocode resolves a postcode to coordinates.
	Geocode(ctx context.Context, postcode string) (Coordinates, error)
}

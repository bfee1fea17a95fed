package geo

import "fmt"

// MetersPerMile is the conversion factor between the internal unit (meters)
// and the unit branch admins configure bands in (miles).
const MetersPerMile = 1609.34

// Distance is a travel distance stored in meters. All comparisons happen in
// meters; miles only exist at the edges (admin input, display text).
type Distance float64

// Meters builds a Distance from a raw meter value.
func Meters(m float64) Distance {
	return Distance(m)
}

// FromMiles converts an admin-entered mile value into a Distance.
func FromMiles(mi float64) Distance {
	return Distance(mi * MetersPerMile)
}

// Meters returns the raw meter value.
func (d Distance) Meters() float64 {
	return float64(d)
}

// Miles returns the distance in miles, for display only.
func (d Distance) Miles() float64 {
	return float64(d) / MetersPerMile
}

// Text renders the distance as a human readable mile string, e.g. "4.97 miles".
func (d Distance) Text() string {
	return fmt.Sprintf("%.2f miles", d.Miles())
}

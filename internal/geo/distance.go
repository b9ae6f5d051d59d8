package geo

import (
	"math"

	"github.com/paulmach/orb"
)

// EarthRadiusKm is the equatorial radius used for every distance in gpx2garmin.
const EarthRadiusKm = orb.EarthRadius / 1000

// Point builds an orb.Point from GPX-style latitude/longitude degrees.
func Point(lat, lon float64) orb.Point {
	return orb.Point{lon, lat}
}

// DistanceKm returns the great-circle distance between a and b in kilometers
// using the spherical law of cosines on polar colatitudes.
func DistanceKm(a, b orb.Point) float64 {
	if a.Equal(b) {
		return 0
	}

	colatA := deg2rad(90 - a.Lat())
	colatB := deg2rad(90 - b.Lat())
	lonA := deg2rad(a.Lon())
	lonB := deg2rad(b.Lon())

	c := math.Sin(colatA)*math.Sin(colatB)*math.Cos(lonA-lonB) +
		math.Cos(colatA)*math.Cos(colatB)

	// rounding can push c just outside acos' domain for identical or antipodal points
	c = math.Max(-1, math.Min(1, c))

	return EarthRadiusKm * math.Acos(c)
}

// PathKm sums DistanceKm over consecutive vertices of ls.
func PathKm(ls orb.LineString) float64 {
	var total float64
	for i := 1; i < len(ls); i++ {
		total += DistanceKm(ls[i-1], ls[i])
	}
	return total
}

func deg2rad(deg float64) float64 {
	return deg * math.Pi / 180
}

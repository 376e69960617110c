package domain

import (
	"fmt"
	"math"
	"time"

	"github.com/mmcloughlin/geohash"
)

const (
	earthRadiusKm    = 6371.0
	geohashPrecision = 7
)

// Location is a WGS84 coordinate.
type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// String renders the location the way history rows store it: "lat,lng".
func (l Location) String() string {
	return fmt.Sprintf("%.6f,%.6f", l.Lat, l.Lng)
}

// Geohash encodes l at street-level precision.
func (l Location) Geohash() string {
	return geohash.EncodeWithPrecision(l.Lat, l.Lng, geohashPrecision)
}

// Offset returns l shifted by the given degrees.
func (l Location) Offset(dLat, dLng float64) Location {
	return Location{Lat: l.Lat + dLat, Lng: l.Lng + dLng}
}

// HaversineKm is the great-circle distance between a and b.
func HaversineKm(a, b Location) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusKm * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// TravelTime is how long driving from a to b takes at speedKmh, rounded up
// to whole seconds and never less than one second.
func TravelTime(a, b Location, speedKmh float64) time.Duration {
	if speedKmh <= 0 {
		return time.Second
	}
	seconds := math.Ceil(HaversineKm(a, b) / speedKmh * 3600)
	if seconds < 1 {
		seconds = 1
	}
	return time.Duration(seconds) * time.Second
}

// FormatETA renders d as HH:MM:SS. Negative durations render as zero.
func FormatETA(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d.Round(time.Second) / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total%3600)/60, total%60)
}

// Interpolate returns the point at progress along the segment from a to b.
// progress is clamped to [0, 1].
func Interpolate(a, b Location, progress float64) Location {
	switch {
	case progress <= 0:
		return a
	case progress >= 1:
		return b
	}
	return Location{
		Lat: a.Lat + (b.Lat-a.Lat)*progress,
		Lng: a.Lng + (b.Lng-a.Lng)*progress,
	}
}

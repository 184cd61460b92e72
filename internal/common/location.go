package common

import (
	"errors"
	"fmt"
	"math"
	"time"
)

const earthRadiusKM = 6371.0

// defaultSpeedKMH is assumed for resource types with no known cruise speed.
const defaultSpeedKMH = 50.0

var ErrInvalidLatLng = errors.New("invalid latitude or longitude")

// averageSpeedsKMH maps a resource type to its typical travel speed.
var averageSpeedsKMH = map[string]float64{
	"ambulance": 60,
	"drone":     50,
	"rescue":    40,
}

type Location struct {
	Lat float64 `json:"lat" db:"lat"`
	Lng float64 `json:"lng" db:"lng"`
}

func NewLocation(lat, lng float64) Location {
	return Location{Lat: lat, Lng: lng}
}

func HaversineDistance(a, b Location) float64 {
	dLat := degreesToRadians(b.Lat - a.Lat)
	dLng := degreesToRadians(b.Lng - a.Lng)

	aLat := degreesToRadians(a.Lat)
	bLat := degreesToRadians(b.Lat)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(aLat)*math.Cos(bLat)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusKM * c
}

func degreesToRadians(d float64) float64 {
	return d * math.Pi / 180
}

// EstimateArrival converts a great-circle distance into travel time using the
// average speed for the resource type. Unknown types fall back to the default
// speed so the result is always finite.
func EstimateArrival(distanceKM float64, resourceType string) time.Duration {
	speed, ok := averageSpeedsKMH[resourceType]
	if !ok || speed <= 0 {
		speed = defaultSpeedKMH
	}
	hours := distanceKM / speed
	return time.Duration(hours * float64(time.Hour))
}

// EstimateArrivalMinutes is EstimateArrival rounded to a tenth of a minute,
// the precision shown in dispatch responses.
func EstimateArrivalMinutes(distanceKM float64, resourceType string) float64 {
	eta := EstimateArrival(distanceKM, resourceType)
	return math.Round(eta.Minutes()*10) / 10
}

func ValidateLatLng(lat, lng float64) error {
	if lat < -90 || lat > 90 {
		return fmt.Errorf("%w: latitude must be between -90 and 90", ErrInvalidLatLng)
	}
	if lng < -180 || lng > 180 {
		return fmt.Errorf("%w: longitude must be between -180 and 180", ErrInvalidLatLng)
	}
	return nil
}

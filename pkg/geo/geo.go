// Package geo расстояния, ETA и скоринг водителей для назначения доставок.
package geo

import "math"

const (
	EarthRadiusKm = 6371.0

	// AverageSpeedKmh средняя скорость в городе для оценки ETA.
	AverageSpeedKmh = 25.0
)

type Point struct {
	Lat float64
	Lng float64
}

// Distance расстояние по формуле гаверсинусов, км.
func Distance(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := toRad(lat2 - lat1)
	dLng := toRad(lng2 - lng1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusKm * c
}

func DistanceBetween(a, b Point) float64 {
	return Distance(a.Lat, a.Lng, b.Lat, b.Lng)
}

// EstimateETA минуты в пути при средней скорости, с округлением вверх.
func EstimateETA(distanceKm float64) int {
	if distanceKm <= 0 {
		return 0
	}
	return int(math.Ceil(distanceKm / AverageSpeedKmh * 60))
}

// BoundingBox прямоугольник, гарантированно содержащий круг радиуса radiusKm.
// Нужен для грубого отбора в SQL перед точным фильтром по Distance.
func BoundingBox(center Point, radiusKm float64) (minPoint, maxPoint Point) {
	latDelta := radiusKm / EarthRadiusKm * 180 / math.Pi

	cosLat := math.Cos(toRad(center.Lat))
	lngDelta := 180.0
	if cosLat > 1e-9 {
		lngDelta = math.Min(180, latDelta/cosLat)
	}

	return Point{Lat: center.Lat - latDelta, Lng: center.Lng - lngDelta},
		Point{Lat: center.Lat + latDelta, Lng: center.Lng + lngDelta}
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}

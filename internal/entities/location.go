package entities

import "time"

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func (c Coordinates) Valid() bool {
	return c.Lat >= -90 && c.Lat <= 90 && c.Lng >= -180 && c.Lng <= 180
}

// Location последняя известная позиция с отметкой времени.
type Location struct {
	Lat       float64   `json:"lat"`
	Lng       float64   `json:"lng"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (l Location) Coordinates() Coordinates {
	return Coordinates{Lat: l.Lat, Lng: l.Lng}
}

type LocationSnapshot struct {
	Lat        float64   `json:"lat"`
	Lng        float64   `json:"lng"`
	RecordedAt time.Time `json:"recorded_at"`
}

type Address struct {
	Line         string       `json:"line"`
	City         string       `json:"city,omitempty"`
	PostalCode   string       `json:"postal_code,omitempty"`
	Instructions string       `json:"instructions,omitempty"`
	Coordinates  *Coordinates `json:"coordinates,omitempty"`
}

// truncateTail оставляет последние keep элементов, если длина превысила limit.
func truncateTail[T any](items []T, limit, keep int) []T {
	if len(items) <= limit {
		return items
	}
	tail := make([]T, keep)
	copy(tail, items[len(items)-keep:])
	return tail
}

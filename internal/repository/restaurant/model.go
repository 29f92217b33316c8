package restaurant

import "time"

type RestaurantDB struct {
	ID          int64
	Name        string
	Phone       string
	AddressLine string
	City        string
	PostalCode  string
	Lat         *float64
	Lng         *float64
	CreatedAt   time.Time
}

package restaurant

import "dispatch/internal/entities"

func ToDomain(r *RestaurantDB) *entities.Restaurant {
	if r == nil {
		return nil
	}

	restaurant := &entities.Restaurant{
		ID:    r.ID,
		Name:  r.Name,
		Phone: r.Phone,
		Address: entities.Address{
			Line:       r.AddressLine,
			City:       r.City,
			PostalCode: r.PostalCode,
		},
		CreatedAt: r.CreatedAt,
	}
	if r.Lat != nil && r.Lng != nil {
		restaurant.Address.Coordinates = &entities.Coordinates{Lat: *r.Lat, Lng: *r.Lng}
	}
	return restaurant
}

package restaurant

import (
	"context"
	"errors"
	"fmt"

	"dispatch/internal/entities"
	"dispatch/internal/service/order"

	"github.com/jackc/pgx/v5"
)

type Repository struct {
	querier Querier
}

func New(querier Querier) *Repository {
	return &Repository{
		querier: querier,
	}
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*entities.Restaurant, error) {
	query := `SELECT id, name, phone, address_line, city, postal_code, lat, lng, created_at
		FROM restaurants
		WHERE id = $1`

	var model RestaurantDB
	err := r.querier.QueryRow(ctx, query, id).
		Scan(
			&model.ID,
			&model.Name,
			&model.Phone,
			&model.AddressLine,
			&model.City,
			&model.PostalCode,
			&model.Lat,
			&model.Lng,
			&model.CreatedAt,
		)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, order.ErrRestaurantNotFound
		}
		return nil, fmt.Errorf("unexpected restaurant repository getbyid error: %w", err)
	}

	return ToDomain(&model), nil
}

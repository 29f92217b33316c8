package order

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

func (r *Repository) GetByID(ctx context.Context, id int64) (*entities.Order, error) {
	query := `SELECT id, restaurant_id, fulfillment_type, status, delivery_address,
			delivery_instructions, delivery_id, delivery_status, driver_info, created_at, updated_at
		FROM orders
		WHERE id = $1`

	var model OrderDB
	err := r.querier.QueryRow(ctx, query, id).
		Scan(
			&model.ID,
			&model.RestaurantID,
			&model.FulfillmentType,
			&model.Status,
			&model.DeliveryAddress,
			&model.DeliveryInstructions,
			&model.DeliveryID,
			&model.DeliveryStatus,
			&model.DriverInfo,
			&model.CreatedAt,
			&model.UpdatedAt,
		)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, order.ErrOrderNotFound
		}
		return nil, fmt.Errorf("unexpected order repository getbyid error: %w", err)
	}

	return ToDomain(&model)
}

// UpdateDeliveryInfo обратная связь в заказ: номер доставки, ее статус
// и снимок водителя.
func (r *Repository) UpdateDeliveryInfo(ctx context.Context, update entities.OrderDeliveryUpdate) error {
	driverInfo, err := DriverInfoToDB(update.Driver)
	if err != nil {
		return fmt.Errorf("unexpected order repository updatedeliveryinfo error: %w", err)
	}

	query := `UPDATE orders
		SET delivery_id = $2,
			delivery_status = $3,
			driver_info = $4,
			updated_at = NOW()
		WHERE id = $1`

	result, err := r.querier.Exec(ctx, query, update.OrderID, update.DeliveryID, update.Status.String(), driverInfo)
	if err != nil {
		return fmt.Errorf("unexpected order repository updatedeliveryinfo error: %w", err)
	}
	if result.RowsAffected() == 0 {
		return order.ErrOrderNotFound
	}
	return nil
}

package driver

import (
	"context"
	"errors"
	"fmt"

	"dispatch/internal/entities"
	"dispatch/internal/repository"
	"dispatch/internal/service/driver"
	"dispatch/pkg/geo"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
)

var qb sq.StatementBuilderType = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var driverColumns = []string{
	"id",
	"name",
	"phone",
	"status",
	"shift_status",
	"is_available",
	"location_lat",
	"location_lng",
	"location_updated_at",
	"vehicle_type",
	"restaurant_id",
	"average_rating",
	"completion_rate",
	"total_deliveries",
	"current_delivery_id",
	"current_balance",
	"lifetime_earnings",
	"bank_account",
	"created_at",
	"updated_at",
}

type Repository struct {
	querier Querier
}

func New(querier Querier) *Repository {
	return &Repository{
		querier: querier,
	}
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*entities.Driver, error) {
	return r.getByID(ctx, id, "")
}

// GetByIDForUpdate блокирует строку водителя до конца транзакции.
func (r *Repository) GetByIDForUpdate(ctx context.Context, id int64) (*entities.Driver, error) {
	return r.getByID(ctx, id, "FOR UPDATE")
}

func (r *Repository) getByID(ctx context.Context, id int64, suffix string) (*entities.Driver, error) {
	query, args, err := qb.
		Select(driverColumns...).
		From("drivers").
		Where(sq.Eq{"id": id}).
		Suffix(suffix).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("unexpected driver repository getbyid error: %w", err)
	}

	driverModel, err := scanDriver(r.querier.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, driver.ErrDriverNotFound
		}
		return nil, fmt.Errorf("unexpected driver repository getbyid error: %w", err)
	}

	return ToDomain(driverModel)
}

func (r *Repository) GetAll(ctx context.Context, filter entities.DriverFilter) ([]entities.Driver, error) {
	builder := qb.
		Select(driverColumns...).
		From("drivers").
		OrderBy("id")

	if filter.Status != nil {
		builder = builder.Where(sq.Eq{"status": filter.Status.String()})
	}
	if filter.ShiftStatus != nil {
		builder = builder.Where(sq.Eq{"shift_status": filter.ShiftStatus.String()})
	}
	if filter.RestaurantID != nil {
		builder = builder.Where(sq.Eq{"restaurant_id": *filter.RestaurantID})
	}
	if filter.Limit > 0 {
		builder = builder.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		builder = builder.Offset(filter.Offset)
	}

	return r.selectDrivers(ctx, builder, "getall")
}

// FindAvailable свободные водители в квадрате вокруг точки. Точное
// расстояние по окружности досчитывает сервис.
func (r *Repository) FindAvailable(ctx context.Context, q entities.AvailableDriversQuery) ([]entities.Driver, error) {
	minPoint, maxPoint := geo.BoundingBox(geo.Point{Lat: q.Center.Lat, Lng: q.Center.Lng}, q.RadiusKm)

	builder := qb.
		Select(driverColumns...).
		From("drivers").
		Where(sq.Eq{
			"status":              entities.DriverVerified.String(),
			"shift_status":        entities.ShiftOnline.String(),
			"is_available":        true,
			"current_delivery_id": nil,
		}).
		Where(sq.NotEq{"location_lat": nil, "location_lng": nil}).
		Where(sq.And{
			sq.GtOrEq{"location_lat": minPoint.Lat},
			sq.LtOrEq{"location_lat": maxPoint.Lat},
			sq.GtOrEq{"location_lng": minPoint.Lng},
			sq.LtOrEq{"location_lng": maxPoint.Lng},
		}).
		OrderBy("id")

	if q.RestaurantID != nil {
		builder = builder.Where(sq.Or{
			sq.Eq{"restaurant_id": *q.RestaurantID},
			sq.Eq{"restaurant_id": nil},
		})
	}
	if len(q.ExcludeIDs) > 0 {
		builder = builder.Where(sq.NotEq{"id": q.ExcludeIDs})
	}

	return r.selectDrivers(ctx, builder, "findavailable")
}

func (r *Repository) Update(ctx context.Context, modify entities.DriverModify) (*entities.Driver, error) {
	driverModifyModel, err := FromDomainModify(&modify)
	if err != nil {
		return nil, fmt.Errorf("unexpected driver repository update error: %w", err)
	}

	builder := qb.
		Update("drivers")

	// опциональные поля
	if driverModifyModel.Name != nil {
		builder = builder.Set("name", driverModifyModel.Name)
	}
	if driverModifyModel.Phone != nil {
		builder = builder.Set("phone", driverModifyModel.Phone)
	}
	if driverModifyModel.Status != nil {
		builder = builder.Set("status", driverModifyModel.Status)
	}
	if driverModifyModel.ShiftStatus != nil {
		builder = builder.Set("shift_status", driverModifyModel.ShiftStatus)
	}
	if driverModifyModel.IsAvailable != nil {
		builder = builder.Set("is_available", driverModifyModel.IsAvailable)
	}
	if driverModifyModel.LocationLat != nil {
		builder = builder.
			Set("location_lat", driverModifyModel.LocationLat).
			Set("location_lng", driverModifyModel.LocationLng).
			Set("location_updated_at", driverModifyModel.LocationUpdatedAt)
	}
	if driverModifyModel.VehicleType != nil {
		builder = builder.Set("vehicle_type", driverModifyModel.VehicleType)
	}
	if driverModifyModel.RestaurantID != nil {
		builder = builder.Set("restaurant_id", driverModifyModel.RestaurantID)
	}
	if driverModifyModel.BankAccount != nil {
		builder = builder.Set("bank_account", driverModifyModel.BankAccount)
	}

	builder = builder.Set("updated_at", sq.Expr("NOW()"))

	query, args, err := builder.
		Where(sq.Eq{"id": driverModifyModel.ID}).
		Suffix(returning()).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("unexpected driver repository update error: %w", err)
	}

	driverModel, err := scanDriver(r.querier.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, driver.ErrDriverNotFound
		}
		if repository.IsPgErrorWithCode(err, repository.PgErrUniqueViolation) {
			return nil, driver.ErrConflict
		}
		return nil, fmt.Errorf("unexpected driver repository update error: %w", err)
	}

	return ToDomain(driverModel)
}

// Reserve атомарно занимает водителя под доставку. Условие в WHERE
// гарантирует, что параллельное назначение получит ErrDriverUnavailable.
func (r *Repository) Reserve(ctx context.Context, driverID, deliveryID int64) (*entities.Driver, error) {
	query := `UPDATE drivers
		SET current_delivery_id = $2,
			is_available = FALSE,
			shift_status = 'on_delivery',
			updated_at = NOW()
		WHERE id = $1
			AND status = 'verified'
			AND shift_status = 'online'
			AND is_available
			AND current_delivery_id IS NULL
		` + returning()

	driverModel, err := scanDriver(r.querier.QueryRow(ctx, query, driverID, deliveryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, driver.ErrDriverUnavailable
		}
		return nil, fmt.Errorf("unexpected driver repository reserve error: %w", err)
	}

	return ToDomain(driverModel)
}

// Release освобождает водителя от конкретной доставки. Повторный вызов
// ничего не меняет. Без активной смены водитель уходит в offline.
func (r *Repository) Release(ctx context.Context, driverID, deliveryID int64) error {
	query := `UPDATE drivers d
		SET current_delivery_id = NULL,
			is_available = s.active,
			shift_status = CASE WHEN s.active THEN 'online' ELSE 'offline' END,
			updated_at = NOW()
		FROM (
			SELECT EXISTS (
				SELECT 1 FROM driver_shifts WHERE driver_id = $1 AND is_active
			) AS active
		) s
		WHERE d.id = $1 AND d.current_delivery_id = $2`

	_, err := r.querier.Exec(ctx, query, driverID, deliveryID)
	if err != nil {
		return fmt.Errorf("unexpected driver repository release error: %w", err)
	}
	return nil
}

// AddEarnings начисляет заработок на баланс и в общий итог.
func (r *Repository) AddEarnings(ctx context.Context, driverID int64, amount float64, completed bool) error {
	query := `UPDATE drivers
		SET current_balance = current_balance + $2,
			lifetime_earnings = lifetime_earnings + $2,
			total_deliveries = total_deliveries + CASE WHEN $3 THEN 1 ELSE 0 END,
			updated_at = NOW()
		WHERE id = $1`

	result, err := r.querier.Exec(ctx, query, driverID, amount, completed)
	if err != nil {
		return fmt.Errorf("unexpected driver repository addearnings error: %w", err)
	}
	if result.RowsAffected() == 0 {
		return driver.ErrDriverNotFound
	}
	return nil
}

// ChangeBalance меняет баланс на delta, не допуская отрицательного остатка.
func (r *Repository) ChangeBalance(ctx context.Context, driverID int64, delta float64) (float64, error) {
	query := `UPDATE drivers
		SET current_balance = current_balance + $2,
			updated_at = NOW()
		WHERE id = $1 AND current_balance + $2 >= 0
		RETURNING current_balance`

	var balance float64
	err := r.querier.QueryRow(ctx, query, driverID, delta).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, driver.ErrInsufficientBalance
		}
		return 0, fmt.Errorf("unexpected driver repository changebalance error: %w", err)
	}
	return balance, nil
}

// DebitBalance списывает не больше limit и возвращает фактически списанное.
func (r *Repository) DebitBalance(ctx context.Context, driverID int64, limit float64) (float64, error) {
	query := `WITH cur AS (
			SELECT id, current_balance FROM drivers WHERE id = $1 FOR UPDATE
		)
		UPDATE drivers d
		SET current_balance = cur.current_balance - LEAST(cur.current_balance, $2),
			updated_at = NOW()
		FROM cur
		WHERE d.id = cur.id
		RETURNING LEAST(cur.current_balance, $2)`

	var debited float64
	err := r.querier.QueryRow(ctx, query, driverID, limit).Scan(&debited)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, driver.ErrDriverNotFound
		}
		return 0, fmt.Errorf("unexpected driver repository debitbalance error: %w", err)
	}
	return debited, nil
}

func (r *Repository) UpdateLocation(ctx context.Context, driverID int64, location entities.Location) error {
	query := `UPDATE drivers
		SET location_lat = $2,
			location_lng = $3,
			location_updated_at = $4,
			updated_at = NOW()
		WHERE id = $1`

	result, err := r.querier.Exec(ctx, query, driverID, location.Lat, location.Lng, location.UpdatedAt)
	if err != nil {
		return fmt.Errorf("unexpected driver repository updatelocation error: %w", err)
	}
	if result.RowsAffected() == 0 {
		return driver.ErrDriverNotFound
	}
	return nil
}

// ApplyRating пересчитывает средний рейтинг инкрементально.
func (r *Repository) ApplyRating(ctx context.Context, driverID int64, rating int) error {
	query := `UPDATE drivers
		SET average_rating = (COALESCE(average_rating, 0) * rated_count + $2) / (rated_count + 1),
			rated_count = rated_count + 1,
			updated_at = NOW()
		WHERE id = $1`

	result, err := r.querier.Exec(ctx, query, driverID, float64(rating))
	if err != nil {
		return fmt.Errorf("unexpected driver repository applyrating error: %w", err)
	}
	if result.RowsAffected() == 0 {
		return driver.ErrDriverNotFound
	}
	return nil
}

func (r *Repository) selectDrivers(ctx context.Context, builder sq.SelectBuilder, op string) ([]entities.Driver, error) {
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("unexpected driver repository %s error: %w", op, err)
	}

	rows, err := r.querier.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("unexpected driver repository %s error: %w", op, err)
	}
	defer rows.Close()

	driverModels := make([]DriverDB, 0, 8)
	for rows.Next() {
		driverModel, err := scanDriver(rows)
		if err != nil {
			return nil, fmt.Errorf("unexpected driver repository %s error: %w", op, err)
		}
		driverModels = append(driverModels, *driverModel)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("unexpected driver repository %s error: %w", op, err)
	}

	return ToDomainList(driverModels)
}

func returning() string {
	return "RETURNING " + repository.JoinColumns(driverColumns)
}

func scanDriver(row pgx.Row) (*DriverDB, error) {
	var d DriverDB
	err := row.Scan(
		&d.ID,
		&d.Name,
		&d.Phone,
		&d.Status,
		&d.ShiftStatus,
		&d.IsAvailable,
		&d.LocationLat,
		&d.LocationLng,
		&d.LocationUpdatedAt,
		&d.VehicleType,
		&d.RestaurantID,
		&d.AverageRating,
		&d.CompletionRate,
		&d.TotalDeliveries,
		&d.CurrentDeliveryID,
		&d.CurrentBalance,
		&d.LifetimeEarnings,
		&d.BankAccount,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

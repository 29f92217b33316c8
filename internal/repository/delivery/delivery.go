package delivery

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dispatch/internal/entities"
	"dispatch/internal/repository"
	"dispatch/internal/service/delivery"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
)

var qb sq.StatementBuilderType = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const topDriversLimit = 5

var deliveryColumns = []string{
	"id",
	"delivery_number",
	"order_id",
	"restaurant_id",
	"driver_id",
	"status",
	"previous_status",
	"status_history",
	"assignment_attempts",
	"assigned_at",
	"accepted_at",
	"assignment_expires_at",
	"rejected_driver_ids",
	"priority",
	"last_reject_reason",
	"pickup",
	"dropoff",
	"estimated_distance_km",
	"estimated_duration_min",
	"actual_distance_km",
	"actual_duration_min",
	"actual_pickup_time",
	"actual_delivery_time",
	"cancelled_at",
	"driver_location",
	"location_history",
	"proof",
	"otp_code",
	"chat",
	"earnings_delivery_fee",
	"earnings_distance_bonus",
	"earnings_wait_time_bonus",
	"earnings_peak_hour_bonus",
	"earnings_tip",
	"earnings_incentive_bonus",
	"earnings_total",
	"issues",
	"rating",
	"cancellation",
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

// Create сохраняет новую доставку. Вторая доставка на тот же заказ
// упирается в UNIQUE(order_id).
func (r *Repository) Create(ctx context.Context, d *entities.Delivery) (*entities.Delivery, error) {
	model, err := FromDomain(d)
	if err != nil {
		return nil, fmt.Errorf("unexpected delivery repository create error: %w", err)
	}

	values := mutableValues(model)
	values["delivery_number"] = model.DeliveryNumber
	values["order_id"] = model.OrderID
	values["restaurant_id"] = model.RestaurantID
	values["created_at"] = d.CreatedAt

	query, args, err := qb.
		Insert("deliveries").
		SetMap(values).
		Suffix("RETURNING " + repository.JoinColumns(deliveryColumns)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("unexpected delivery repository create error: %w", err)
	}

	created, err := scanDelivery(r.querier.QueryRow(ctx, query, args...))
	if err != nil {
		if repository.IsPgErrorWithCode(err, repository.PgErrUniqueViolation) {
			return nil, delivery.ErrDeliveryExists
		}
		return nil, fmt.Errorf("unexpected delivery repository create error: %w", err)
	}

	return ToDomain(created)
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*entities.Delivery, error) {
	return r.getOne(ctx, sq.Eq{"id": id}, "", "getbyid")
}

// GetByIDForUpdate блокирует доставку до конца транзакции.
func (r *Repository) GetByIDForUpdate(ctx context.Context, id int64) (*entities.Delivery, error) {
	return r.getOne(ctx, sq.Eq{"id": id}, "FOR UPDATE", "getbyidforupdate")
}

func (r *Repository) GetByOrderIDForUpdate(ctx context.Context, orderID int64) (*entities.Delivery, error) {
	return r.getOne(ctx, sq.Eq{"order_id": orderID}, "FOR UPDATE", "getbyorderidforupdate")
}

func (r *Repository) getOne(ctx context.Context, where sq.Eq, suffix, op string) (*entities.Delivery, error) {
	query, args, err := qb.
		Select(deliveryColumns...).
		From("deliveries").
		Where(where).
		Suffix(suffix).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("unexpected delivery repository %s error: %w", op, err)
	}

	model, err := scanDelivery(r.querier.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, delivery.ErrDeliveryNotFound
		}
		return nil, fmt.Errorf("unexpected delivery repository %s error: %w", op, err)
	}

	return ToDomain(model)
}

// Save перезаписывает изменяемое состояние доставки.
func (r *Repository) Save(ctx context.Context, d *entities.Delivery) error {
	model, err := FromDomain(d)
	if err != nil {
		return fmt.Errorf("unexpected delivery repository save error: %w", err)
	}

	values := mutableValues(model)
	values["updated_at"] = sq.Expr("NOW()")

	query, args, err := qb.
		Update("deliveries").
		SetMap(values).
		Where(sq.Eq{"id": model.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("unexpected delivery repository save error: %w", err)
	}

	result, err := r.querier.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("unexpected delivery repository save error: %w", err)
	}
	if result.RowsAffected() == 0 {
		return delivery.ErrDeliveryNotFound
	}
	return nil
}

// GetExpiredAssignments назначения, которые водитель не принял вовремя.
func (r *Repository) GetExpiredAssignments(ctx context.Context, now time.Time, limit uint64) ([]entities.Delivery, error) {
	builder := qb.
		Select(deliveryColumns...).
		From("deliveries").
		Where(sq.Eq{"status": entities.DeliveryAssigned.String()}).
		Where(sq.Lt{"assignment_expires_at": now}).
		OrderBy("assignment_expires_at").
		Limit(limit)

	return r.selectDeliveries(ctx, builder, "getexpiredassignments")
}

// GetPendingUnassigned доставки без водителя, у которых еще остались попытки.
func (r *Repository) GetPendingUnassigned(ctx context.Context, maxAttempts int, limit uint64) ([]entities.Delivery, error) {
	builder := qb.
		Select(deliveryColumns...).
		From("deliveries").
		Where(sq.Eq{"status": entities.DeliveryPending.String(), "driver_id": nil}).
		Where(sq.Lt{"assignment_attempts": maxAttempts}).
		OrderBy("priority DESC", "created_at").
		Limit(limit)

	return r.selectDeliveries(ctx, builder, "getpendingunassigned")
}

// AddTip атомарно добавляет чаевые к доставленной доставке.
func (r *Repository) AddTip(ctx context.Context, deliveryID int64, amount float64) (*entities.Earnings, error) {
	query := `UPDATE deliveries
		SET earnings_tip = earnings_tip + $2,
			earnings_total = earnings_total + $2,
			updated_at = NOW()
		WHERE id = $1 AND status = 'delivered'
		RETURNING earnings_delivery_fee, earnings_distance_bonus, earnings_wait_time_bonus,
			earnings_peak_hour_bonus, earnings_tip, earnings_incentive_bonus, earnings_total`

	var e EarningsDB
	err := r.querier.QueryRow(ctx, query, deliveryID, amount).Scan(
		&e.DeliveryFee,
		&e.DistanceBonus,
		&e.WaitTimeBonus,
		&e.PeakHourBonus,
		&e.Tip,
		&e.IncentiveBonus,
		&e.Total,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, delivery.ErrDeliveryNotFound
		}
		return nil, fmt.Errorf("unexpected delivery repository addtip error: %w", err)
	}

	earnings := earningsToDomain(e)
	return &earnings, nil
}

func (r *Repository) GetStats(ctx context.Context, filter entities.AssignmentStatsFilter) (*entities.AssignmentStats, error) {
	where := statsWhere(filter, "d")

	query, args, err := qb.
		Select(
			"COUNT(*)",
			"COUNT(*) FILTER (WHERE d.status = 'delivered')",
			"COALESCE(AVG(EXTRACT(EPOCH FROM d.assigned_at - d.created_at)) FILTER (WHERE d.assigned_at IS NOT NULL), 0) / 60",
			"COALESCE(AVG(EXTRACT(EPOCH FROM d.actual_delivery_time - d.accepted_at)) FILTER (WHERE d.actual_delivery_time IS NOT NULL AND d.accepted_at IS NOT NULL), 0) / 60",
		).
		From("deliveries d").
		Where(where).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("unexpected delivery repository getstats error: %w", err)
	}

	stats := &entities.AssignmentStats{}
	err = r.querier.QueryRow(ctx, query, args...).Scan(
		&stats.TotalDeliveries,
		&stats.DeliveredCount,
		&stats.AvgAssignmentMinutes,
		&stats.AvgDeliveryMinutes,
	)
	if err != nil {
		return nil, fmt.Errorf("unexpected delivery repository getstats error: %w", err)
	}

	topQuery, topArgs, err := qb.
		Select("d.driver_id", "dr.name", "COUNT(*)", "COALESCE(SUM(d.earnings_total), 0)").
		From("deliveries d").
		Join("drivers dr ON dr.id = d.driver_id").
		Where(where).
		Where(sq.Eq{"d.status": entities.DeliveryDelivered.String()}).
		GroupBy("d.driver_id", "dr.name").
		OrderBy("COUNT(*) DESC", "d.driver_id").
		Limit(topDriversLimit).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("unexpected delivery repository getstats error: %w", err)
	}

	rows, err := r.querier.Query(ctx, topQuery, topArgs...)
	if err != nil {
		return nil, fmt.Errorf("unexpected delivery repository getstats error: %w", err)
	}
	defer rows.Close()

	stats.TopDrivers = make([]entities.DriverPerformance, 0, topDriversLimit)
	for rows.Next() {
		var p entities.DriverPerformance
		if err := rows.Scan(&p.DriverID, &p.DriverName, &p.CompletedDeliveries, &p.TotalEarnings); err != nil {
			return nil, fmt.Errorf("unexpected delivery repository getstats error: %w", err)
		}
		stats.TopDrivers = append(stats.TopDrivers, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("unexpected delivery repository getstats error: %w", err)
	}

	return stats, nil
}

// GetDeliveredEarnings доставленные водителем заказы в [from, to).
// from == nil означает "за все время".
func (r *Repository) GetDeliveredEarnings(ctx context.Context, driverID int64, from *time.Time, to time.Time) ([]entities.DeliveryEarningsRow, error) {
	builder := qb.
		Select(
			"id",
			"delivery_number",
			"driver_id",
			"actual_delivery_time",
			"earnings_delivery_fee",
			"earnings_distance_bonus",
			"earnings_wait_time_bonus",
			"earnings_peak_hour_bonus",
			"earnings_tip",
			"earnings_incentive_bonus",
			"earnings_total",
		).
		From("deliveries").
		Where(sq.Eq{"driver_id": driverID, "status": entities.DeliveryDelivered.String()}).
		Where(sq.Lt{"actual_delivery_time": to}).
		OrderBy("actual_delivery_time")

	if from != nil {
		builder = builder.Where(sq.GtOrEq{"actual_delivery_time": *from})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("unexpected delivery repository getdeliveredearnings error: %w", err)
	}

	rows, err := r.querier.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("unexpected delivery repository getdeliveredearnings error: %w", err)
	}
	defer rows.Close()

	result := make([]DeliveryEarningsRowDB, 0, 16)
	for rows.Next() {
		var row DeliveryEarningsRowDB
		err := rows.Scan(
			&row.DeliveryID,
			&row.DeliveryNumber,
			&row.DriverID,
			&row.DeliveredAt,
			&row.DeliveryFee,
			&row.DistanceBonus,
			&row.WaitTimeBonus,
			&row.PeakHourBonus,
			&row.Tip,
			&row.IncentiveBonus,
			&row.Total,
		)
		if err != nil {
			return nil, fmt.Errorf("unexpected delivery repository getdeliveredearnings error: %w", err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("unexpected delivery repository getdeliveredearnings error: %w", err)
	}

	return EarningsRowsToDomain(result), nil
}

// GetDriversWithDeliveredBetween водители, у которых есть доставленные заказы в [from, to).
func (r *Repository) GetDriversWithDeliveredBetween(ctx context.Context, from, to time.Time) ([]int64, error) {
	query := `SELECT DISTINCT driver_id
		FROM deliveries
		WHERE status = 'delivered'
			AND actual_delivery_time >= $1
			AND actual_delivery_time < $2
		ORDER BY driver_id`

	rows, err := r.querier.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("unexpected delivery repository getdriverswithdelivered error: %w", err)
	}
	defer rows.Close()

	ids := make([]int64, 0, 16)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("unexpected delivery repository getdriverswithdelivered error: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("unexpected delivery repository getdriverswithdelivered error: %w", err)
	}

	return ids, nil
}

func (r *Repository) Leaderboard(ctx context.Context, from time.Time, limit uint64) ([]entities.LeaderboardEntry, error) {
	query, args, err := qb.
		Select("d.driver_id", "dr.name", "COUNT(*)", "COALESCE(SUM(d.earnings_total), 0) AS total").
		From("deliveries d").
		Join("drivers dr ON dr.id = d.driver_id").
		Where(sq.Eq{"d.status": entities.DeliveryDelivered.String()}).
		Where(sq.GtOrEq{"d.actual_delivery_time": from}).
		GroupBy("d.driver_id", "dr.name").
		OrderBy("total DESC", "d.driver_id").
		Limit(limit).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("unexpected delivery repository leaderboard error: %w", err)
	}

	rows, err := r.querier.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("unexpected delivery repository leaderboard error: %w", err)
	}
	defer rows.Close()

	entries := make([]entities.LeaderboardEntry, 0, limit)
	for rows.Next() {
		var row LeaderboardRowDB
		if err := rows.Scan(&row.DriverID, &row.DriverName, &row.Deliveries, &row.TotalEarnings); err != nil {
			return nil, fmt.Errorf("unexpected delivery repository leaderboard error: %w", err)
		}
		entries = append(entries, entities.LeaderboardEntry{
			Rank:          len(entries) + 1,
			DriverID:      row.DriverID,
			DriverName:    row.DriverName,
			Deliveries:    row.Deliveries,
			TotalEarnings: row.TotalEarnings,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("unexpected delivery repository leaderboard error: %w", err)
	}

	return entries, nil
}

func (r *Repository) selectDeliveries(ctx context.Context, builder sq.SelectBuilder, op string) ([]entities.Delivery, error) {
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("unexpected delivery repository %s error: %w", op, err)
	}

	rows, err := r.querier.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("unexpected delivery repository %s error: %w", op, err)
	}
	defer rows.Close()

	models := make([]DeliveryDB, 0, 8)
	for rows.Next() {
		model, err := scanDelivery(rows)
		if err != nil {
			return nil, fmt.Errorf("unexpected delivery repository %s error: %w", op, err)
		}
		models = append(models, *model)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("unexpected delivery repository %s error: %w", op, err)
	}

	return ToDomainList(models)
}

func statsWhere(filter entities.AssignmentStatsFilter, alias string) sq.And {
	where := sq.And{}
	if filter.RestaurantID != nil {
		where = append(where, sq.Eq{alias + ".restaurant_id": *filter.RestaurantID})
	}
	if filter.From != nil {
		where = append(where, sq.GtOrEq{alias + ".created_at": *filter.From})
	}
	if filter.To != nil {
		where = append(where, sq.Lt{alias + ".created_at": *filter.To})
	}
	return where
}

func mutableValues(m *DeliveryDB) map[string]any {
	return map[string]any{
		"driver_id":                m.DriverID,
		"status":                   m.Status,
		"previous_status":          m.PreviousStatus,
		"status_history":           m.StatusHistory,
		"assignment_attempts":      m.AssignmentAttempts,
		"assigned_at":              m.AssignedAt,
		"accepted_at":              m.AcceptedAt,
		"assignment_expires_at":    m.AssignmentExpiresAt,
		"rejected_driver_ids":      m.RejectedDriverIDs,
		"priority":                 m.Priority,
		"last_reject_reason":       m.LastRejectReason,
		"pickup":                   m.Pickup,
		"dropoff":                  m.Dropoff,
		"estimated_distance_km":    m.EstimatedDistanceKm,
		"estimated_duration_min":   m.EstimatedDurationMin,
		"actual_distance_km":       m.ActualDistanceKm,
		"actual_duration_min":      m.ActualDurationMin,
		"actual_pickup_time":       m.ActualPickupTime,
		"actual_delivery_time":     m.ActualDeliveryTime,
		"cancelled_at":             m.CancelledAt,
		"driver_location":          m.DriverLocation,
		"location_history":         m.LocationHistory,
		"proof":                    m.Proof,
		"otp_code":                 m.OTPCode,
		"chat":                     m.Chat,
		"earnings_delivery_fee":    m.DeliveryFee,
		"earnings_distance_bonus":  m.DistanceBonus,
		"earnings_wait_time_bonus": m.WaitTimeBonus,
		"earnings_peak_hour_bonus": m.PeakHourBonus,
		"earnings_tip":             m.Tip,
		"earnings_incentive_bonus": m.IncentiveBonus,
		"earnings_total":           m.Total,
		"issues":                   m.Issues,
		"rating":                   m.Rating,
		"cancellation":             m.Cancellation,
	}
}

func scanDelivery(row pgx.Row) (*DeliveryDB, error) {
	var d DeliveryDB
	err := row.Scan(
		&d.ID,
		&d.DeliveryNumber,
		&d.OrderID,
		&d.RestaurantID,
		&d.DriverID,
		&d.Status,
		&d.PreviousStatus,
		&d.StatusHistory,
		&d.AssignmentAttempts,
		&d.AssignedAt,
		&d.AcceptedAt,
		&d.AssignmentExpiresAt,
		&d.RejectedDriverIDs,
		&d.Priority,
		&d.LastRejectReason,
		&d.Pickup,
		&d.Dropoff,
		&d.EstimatedDistanceKm,
		&d.EstimatedDurationMin,
		&d.ActualDistanceKm,
		&d.ActualDurationMin,
		&d.ActualPickupTime,
		&d.ActualDeliveryTime,
		&d.CancelledAt,
		&d.DriverLocation,
		&d.LocationHistory,
		&d.Proof,
		&d.OTPCode,
		&d.Chat,
		&d.DeliveryFee,
		&d.DistanceBonus,
		&d.WaitTimeBonus,
		&d.PeakHourBonus,
		&d.Tip,
		&d.IncentiveBonus,
		&d.Total,
		&d.Issues,
		&d.Rating,
		&d.Cancellation,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

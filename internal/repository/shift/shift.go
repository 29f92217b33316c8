package shift

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dispatch/internal/entities"
	"dispatch/internal/repository"
	"dispatch/internal/service/shift"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
)

var qb sq.StatementBuilderType = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var shiftColumns = []string{
	"id",
	"driver_id",
	"started_at",
	"ended_at",
	"is_active",
	"end_reason",
	"duration_minutes",
	"start_location",
	"end_location",
	"breaks",
	"locations",
	"stats",
	"earnings",
	"earnings_total",
	"goals",
	"delivery_ids",
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

// Create открывает смену. Вторая активная смена водителя упирается
// в частичный уникальный индекс и возвращается как ErrShiftAlreadyActive.
func (r *Repository) Create(ctx context.Context, s *entities.DriverShift) (*entities.DriverShift, error) {
	shiftModel, err := FromDomain(s)
	if err != nil {
		return nil, fmt.Errorf("unexpected shift repository create error: %w", err)
	}

	query := `INSERT INTO driver_shifts (
			driver_id, started_at, is_active, start_location, breaks, locations,
			stats, earnings, earnings_total, goals, delivery_ids
		)
		VALUES ($1, $2, TRUE, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + repository.JoinColumns(shiftColumns)

	created, err := scanShift(r.querier.QueryRow(
		ctx,
		query,
		shiftModel.DriverID,
		shiftModel.StartedAt,
		shiftModel.StartLocation,
		shiftModel.Breaks,
		shiftModel.Locations,
		shiftModel.Stats,
		shiftModel.Earnings,
		shiftModel.EarningsTotal,
		shiftModel.Goals,
		shiftModel.DeliveryIDs,
	))
	if err != nil {
		if repository.IsPgErrorWithCode(err, repository.PgErrUniqueViolation) {
			return nil, shift.ErrShiftAlreadyActive
		}
		return nil, fmt.Errorf("unexpected shift repository create error: %w", err)
	}

	return ToDomain(created)
}

func (r *Repository) GetActive(ctx context.Context, driverID int64) (*entities.DriverShift, error) {
	return r.getActive(ctx, driverID, "")
}

func (r *Repository) GetActiveForUpdate(ctx context.Context, driverID int64) (*entities.DriverShift, error) {
	return r.getActive(ctx, driverID, "FOR UPDATE")
}

func (r *Repository) getActive(ctx context.Context, driverID int64, suffix string) (*entities.DriverShift, error) {
	query, args, err := qb.
		Select(shiftColumns...).
		From("driver_shifts").
		Where(sq.Eq{"driver_id": driverID, "is_active": true}).
		Suffix(suffix).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("unexpected shift repository getactive error: %w", err)
	}

	shiftModel, err := scanShift(r.querier.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shift.ErrShiftNotFound
		}
		return nil, fmt.Errorf("unexpected shift repository getactive error: %w", err)
	}

	return ToDomain(shiftModel)
}

// Save перезаписывает изменяемое состояние смены целиком. Вызывается
// под блокировкой GetActiveForUpdate.
func (r *Repository) Save(ctx context.Context, s *entities.DriverShift) error {
	shiftModel, err := FromDomain(s)
	if err != nil {
		return fmt.Errorf("unexpected shift repository save error: %w", err)
	}

	query, args, err := qb.
		Update("driver_shifts").
		SetMap(map[string]any{
			"ended_at":         shiftModel.EndedAt,
			"is_active":        shiftModel.IsActive,
			"end_reason":       shiftModel.EndReason,
			"duration_minutes": shiftModel.DurationMinutes,
			"end_location":     shiftModel.EndLocation,
			"breaks":           shiftModel.Breaks,
			"locations":        shiftModel.Locations,
			"stats":            shiftModel.Stats,
			"earnings":         shiftModel.Earnings,
			"earnings_total":   shiftModel.EarningsTotal,
			"goals":            shiftModel.Goals,
			"delivery_ids":     shiftModel.DeliveryIDs,
			"updated_at":       sq.Expr("NOW()"),
		}).
		Where(sq.Eq{"id": shiftModel.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("unexpected shift repository save error: %w", err)
	}

	result, err := r.querier.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("unexpected shift repository save error: %w", err)
	}
	if result.RowsAffected() == 0 {
		return shift.ErrShiftNotFound
	}
	return nil
}

// GetStale активные смены, начатые раньше startedBefore.
func (r *Repository) GetStale(ctx context.Context, startedBefore time.Time, limit uint64) ([]entities.DriverShift, error) {
	builder := qb.
		Select(shiftColumns...).
		From("driver_shifts").
		Where(sq.Eq{"is_active": true}).
		Where(sq.Lt{"started_at": startedBefore}).
		OrderBy("started_at").
		Limit(limit)

	return r.selectShifts(ctx, builder, "getstale")
}

// GetByDriverBetween смены водителя, пересекающиеся с [from, to).
func (r *Repository) GetByDriverBetween(ctx context.Context, driverID int64, from, to time.Time) ([]entities.DriverShift, error) {
	builder := qb.
		Select(shiftColumns...).
		From("driver_shifts").
		Where(sq.Eq{"driver_id": driverID}).
		Where(sq.Lt{"started_at": to}).
		Where(sq.Or{
			sq.Eq{"ended_at": nil},
			sq.Gt{"ended_at": from},
		}).
		OrderBy("started_at")

	return r.selectShifts(ctx, builder, "getbydriverbetween")
}

func (r *Repository) selectShifts(ctx context.Context, builder sq.SelectBuilder, op string) ([]entities.DriverShift, error) {
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("unexpected shift repository %s error: %w", op, err)
	}

	rows, err := r.querier.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("unexpected shift repository %s error: %w", op, err)
	}
	defer rows.Close()

	shiftModels := make([]ShiftDB, 0, 8)
	for rows.Next() {
		shiftModel, err := scanShift(rows)
		if err != nil {
			return nil, fmt.Errorf("unexpected shift repository %s error: %w", op, err)
		}
		shiftModels = append(shiftModels, *shiftModel)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("unexpected shift repository %s error: %w", op, err)
	}

	return ToDomainList(shiftModels)
}

func scanShift(row pgx.Row) (*ShiftDB, error) {
	var s ShiftDB
	err := row.Scan(
		&s.ID,
		&s.DriverID,
		&s.StartedAt,
		&s.EndedAt,
		&s.IsActive,
		&s.EndReason,
		&s.DurationMinutes,
		&s.StartLocation,
		&s.EndLocation,
		&s.Breaks,
		&s.Locations,
		&s.Stats,
		&s.Earnings,
		&s.EarningsTotal,
		&s.Goals,
		&s.DeliveryIDs,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

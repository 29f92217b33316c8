package payout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dispatch/internal/entities"
	"dispatch/internal/repository"
	"dispatch/internal/service/earnings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
)

var qb sq.StatementBuilderType = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var payoutColumns = []string{
	"id",
	"payout_number",
	"driver_id",
	"type",
	"status",
	"period_start",
	"period_end",
	"gross_amount",
	"tax",
	"processing_fee",
	"instant_fee",
	"net_amount",
	"breakdown",
	"deliveries",
	"adjustments",
	"payment_method",
	"bank_account",
	"reference",
	"failure_reason",
	"retry_count",
	"processed_at",
	"completed_at",
	"failed_at",
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

// Create сохраняет выплату. Повторная недельная выплата за то же окно
// упирается в частичный уникальный индекс.
func (r *Repository) Create(ctx context.Context, p *entities.DriverPayout) (*entities.DriverPayout, error) {
	model, err := FromDomain(p)
	if err != nil {
		return nil, fmt.Errorf("unexpected payout repository create error: %w", err)
	}

	values := mutableValues(model)
	values["payout_number"] = model.PayoutNumber
	values["driver_id"] = model.DriverID
	values["type"] = model.Type
	values["period_start"] = model.PeriodStart
	values["period_end"] = model.PeriodEnd
	values["payment_method"] = model.PaymentMethod
	values["bank_account"] = model.BankAccount

	query, args, err := qb.
		Insert("driver_payouts").
		SetMap(values).
		Suffix("RETURNING " + repository.JoinColumns(payoutColumns)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("unexpected payout repository create error: %w", err)
	}

	created, err := scanPayout(r.querier.QueryRow(ctx, query, args...))
	if err != nil {
		if repository.IsPgErrorWithCode(err, repository.PgErrUniqueViolation) {
			return nil, earnings.ErrPayoutExists
		}
		return nil, fmt.Errorf("unexpected payout repository create error: %w", err)
	}

	return ToDomain(created)
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*entities.DriverPayout, error) {
	return r.getByID(ctx, id, "")
}

func (r *Repository) GetByIDForUpdate(ctx context.Context, id int64) (*entities.DriverPayout, error) {
	return r.getByID(ctx, id, "FOR UPDATE")
}

func (r *Repository) getByID(ctx context.Context, id int64, suffix string) (*entities.DriverPayout, error) {
	query, args, err := qb.
		Select(payoutColumns...).
		From("driver_payouts").
		Where(sq.Eq{"id": id}).
		Suffix(suffix).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("unexpected payout repository getbyid error: %w", err)
	}

	model, err := scanPayout(r.querier.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, earnings.ErrPayoutNotFound
		}
		return nil, fmt.Errorf("unexpected payout repository getbyid error: %w", err)
	}

	return ToDomain(model)
}

func (r *Repository) Save(ctx context.Context, p *entities.DriverPayout) error {
	model, err := FromDomain(p)
	if err != nil {
		return fmt.Errorf("unexpected payout repository save error: %w", err)
	}

	values := mutableValues(model)
	values["updated_at"] = sq.Expr("NOW()")

	query, args, err := qb.
		Update("driver_payouts").
		SetMap(values).
		Where(sq.Eq{"id": model.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("unexpected payout repository save error: %w", err)
	}

	result, err := r.querier.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("unexpected payout repository save error: %w", err)
	}
	if result.RowsAffected() == 0 {
		return earnings.ErrPayoutNotFound
	}
	return nil
}

// ExistsForPeriod есть ли недельная выплата за окно, в любом статусе.
func (r *Repository) ExistsForPeriod(ctx context.Context, driverID int64, periodStart time.Time) (bool, error) {
	query := `SELECT EXISTS (
		SELECT 1 FROM driver_payouts
		WHERE driver_id = $1 AND period_start = $2 AND type = 'weekly'
	)`

	var exists bool
	if err := r.querier.QueryRow(ctx, query, driverID, periodStart).Scan(&exists); err != nil {
		return false, fmt.Errorf("unexpected payout repository existsforperiod error: %w", err)
	}
	return exists, nil
}

// SumExtras корректировки, удержания и бонусы из выплат водителя,
// созданных в [from, to). Отмененные выплаты не учитываются.
func (r *Repository) SumExtras(ctx context.Context, driverID int64, from *time.Time, to time.Time) (*entities.PayoutExtras, error) {
	builder := qb.
		Select(
			"COALESCE(SUM((breakdown->>'adjustments')::NUMERIC), 0)",
			"COALESCE(SUM((breakdown->>'deductions')::NUMERIC), 0)",
			"COALESCE(SUM((breakdown->>'incentive_bonuses')::NUMERIC), 0)",
			"COALESCE(SUM((breakdown->>'referral_bonuses')::NUMERIC), 0)",
		).
		From("driver_payouts").
		Where(sq.Eq{"driver_id": driverID}).
		Where(sq.NotEq{"status": entities.PayoutCancelled.String()}).
		Where(sq.Lt{"created_at": to})

	if from != nil {
		builder = builder.Where(sq.GtOrEq{"created_at": *from})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("unexpected payout repository sumextras error: %w", err)
	}

	var extras entities.PayoutExtras
	err = r.querier.QueryRow(ctx, query, args...).Scan(
		&extras.Adjustments,
		&extras.Deductions,
		&extras.IncentiveBonuses,
		&extras.ReferralBonuses,
	)
	if err != nil {
		return nil, fmt.Errorf("unexpected payout repository sumextras error: %w", err)
	}

	return &extras, nil
}

func (r *Repository) GetBetween(ctx context.Context, filter entities.PayoutFilter) ([]entities.DriverPayout, error) {
	builder := qb.
		Select(payoutColumns...).
		From("driver_payouts").
		Where(sq.GtOrEq{"created_at": filter.From}).
		Where(sq.Lt{"created_at": filter.To}).
		OrderBy("created_at", "id")

	if filter.DriverID != nil {
		builder = builder.Where(sq.Eq{"driver_id": *filter.DriverID})
	}
	if filter.Status != nil {
		builder = builder.Where(sq.Eq{"status": filter.Status.String()})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("unexpected payout repository getbetween error: %w", err)
	}

	rows, err := r.querier.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("unexpected payout repository getbetween error: %w", err)
	}
	defer rows.Close()

	models := make([]PayoutDB, 0, 16)
	for rows.Next() {
		model, err := scanPayout(rows)
		if err != nil {
			return nil, fmt.Errorf("unexpected payout repository getbetween error: %w", err)
		}
		models = append(models, *model)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("unexpected payout repository getbetween error: %w", err)
	}

	return ToDomainList(models)
}

func mutableValues(m *PayoutDB) map[string]any {
	return map[string]any{
		"status":         m.Status,
		"gross_amount":   m.GrossAmount,
		"tax":            m.Tax,
		"processing_fee": m.ProcessingFee,
		"instant_fee":    m.InstantFee,
		"net_amount":     m.NetAmount,
		"breakdown":      m.Breakdown,
		"deliveries":     m.Deliveries,
		"adjustments":    m.Adjustments,
		"reference":      m.Reference,
		"failure_reason": m.FailureReason,
		"retry_count":    m.RetryCount,
		"processed_at":   m.ProcessedAt,
		"completed_at":   m.CompletedAt,
		"failed_at":      m.FailedAt,
	}
}

func scanPayout(row pgx.Row) (*PayoutDB, error) {
	var p PayoutDB
	err := row.Scan(
		&p.ID,
		&p.PayoutNumber,
		&p.DriverID,
		&p.Type,
		&p.Status,
		&p.PeriodStart,
		&p.PeriodEnd,
		&p.GrossAmount,
		&p.Tax,
		&p.ProcessingFee,
		&p.InstantFee,
		&p.NetAmount,
		&p.Breakdown,
		&p.Deliveries,
		&p.Adjustments,
		&p.PaymentMethod,
		&p.BankAccount,
		&p.Reference,
		&p.FailureReason,
		&p.RetryCount,
		&p.ProcessedAt,
		&p.CompletedAt,
		&p.FailedAt,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

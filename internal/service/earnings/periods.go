package earnings

import (
	"time"

	"dispatch/internal/entities"
)

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// startOfWeek понедельник недели, в которую попадает t.
func startOfWeek(t time.Time) time.Time {
	day := startOfDay(t)
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

func startOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// periodStart начало периода относительно now. nil для "за все время".
func periodStart(period entities.EarningsPeriod, now time.Time) *time.Time {
	var from time.Time
	switch period {
	case entities.PeriodToday:
		from = startOfDay(now)
	case entities.PeriodWeek:
		from = startOfWeek(now)
	case entities.PeriodMonth:
		from = startOfMonth(now)
	default:
		return nil
	}
	return &from
}

package earnings

import (
	"math"

	"dispatch/internal/entities"
)

const (
	defaultLeaderboardSize = 10
	maxLeaderboardSize     = 100
)

func isValidPeriod(p entities.EarningsPeriod) bool {
	switch p {
	case entities.PeriodToday, entities.PeriodWeek, entities.PeriodMonth, entities.PeriodAll:
		return true
	default:
		return false
	}
}

// isValidLeaderboardPeriod рейтинг строится только за неделю или месяц.
func isValidLeaderboardPeriod(p entities.EarningsPeriod) bool {
	return p == entities.PeriodWeek || p == entities.PeriodMonth
}

func isValidAmount(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

func isValidCalculation(in CalculationInput) bool {
	return in.BaseFee >= 0 && in.DistanceKm >= 0 && in.WaitTimeMinutes >= 0 && in.Tip >= 0
}

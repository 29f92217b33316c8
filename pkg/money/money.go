// Package money округление денежных сумм до центов.
package money

import "math"

// Round2 округляет до двух знаков (half away from zero).
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Sum складывает и округляет результат.
func Sum(values ...float64) float64 {
	var total float64
	for _, v := range values {
		total += v
	}
	return Round2(total)
}

// Percent доля pct (в процентах) от amount, округленная.
func Percent(amount, pct float64) float64 {
	return Round2(amount * pct / 100)
}

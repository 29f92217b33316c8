package geo

import "math"

const (
	weightDistance   = 0.4
	weightRating     = 0.3
	weightCompletion = 0.2
	weightVehicle    = 0.1

	defaultRating         = 3.0
	defaultCompletionRate = 0.8
	defaultVehicleFactor  = 0.5
	maxRating             = 5.0
)

var vehicleFactors = map[string]float64{
	"motorcycle": 1.0,
	"scooter":    0.9,
	"car":        0.7,
	"bicycle":    0.5,
}

type ScoreInput struct {
	DistanceKm     float64
	MaxDistanceKm  float64
	AverageRating  *float64
	CompletionRate *float64
	VehicleType    string
}

// Score взвешенная оценка кандидата в [0, 1], округленная до сотых.
// Чистая функция.
func Score(in ScoreInput) float64 {
	distanceScore := 0.0
	if in.MaxDistanceKm > 0 {
		distanceScore = math.Max(0, 1-in.DistanceKm/in.MaxDistanceKm)
	}

	rating := defaultRating
	if in.AverageRating != nil {
		rating = clamp(*in.AverageRating, 0, maxRating)
	}

	completion := defaultCompletionRate
	if in.CompletionRate != nil {
		completion = clamp(*in.CompletionRate, 0, 1)
	}

	score := weightDistance*distanceScore +
		weightRating*(rating/maxRating) +
		weightCompletion*completion +
		weightVehicle*VehicleFactor(in.VehicleType)

	return math.Round(clamp(score, 0, 1)*100) / 100
}

func VehicleFactor(vehicleType string) float64 {
	if f, ok := vehicleFactors[vehicleType]; ok {
		return f
	}
	return defaultVehicleFactor
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

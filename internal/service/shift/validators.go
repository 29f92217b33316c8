package shift

import "dispatch/internal/entities"

func isValidGoals(goals *entities.ShiftGoals) bool {
	return goals.TargetDeliveries >= 0 && goals.TargetEarnings >= 0
}

func isValidLocation(location *entities.Coordinates) bool {
	return location == nil || location.Valid()
}

package assignment

import "dispatch/internal/entities"

func isValidStatsFilter(filter entities.AssignmentStatsFilter) bool {
	return filter.From == nil || filter.To == nil || !filter.From.After(*filter.To)
}

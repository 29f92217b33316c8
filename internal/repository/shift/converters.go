package shift

import (
	"encoding/json"
	"fmt"

	"dispatch/internal/entities"
)

func ToDomain(s *ShiftDB) (*entities.DriverShift, error) {
	if s == nil {
		return nil, nil
	}

	shift := &entities.DriverShift{
		ID:              s.ID,
		DriverID:        s.DriverID,
		StartedAt:       s.StartedAt,
		EndedAt:         s.EndedAt,
		IsActive:        s.IsActive,
		DurationMinutes: s.DurationMinutes,
		DeliveryIDs:     s.DeliveryIDs,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
	if s.EndReason != nil {
		reason := entities.ShiftEndReason(*s.EndReason)
		shift.EndReason = &reason
	}
	if shift.DeliveryIDs == nil {
		shift.DeliveryIDs = []int64{}
	}

	fields := []struct {
		name string
		raw  []byte
		dst  any
	}{
		{"start_location", s.StartLocation, &shift.StartLocation},
		{"end_location", s.EndLocation, &shift.EndLocation},
		{"breaks", s.Breaks, &shift.Breaks},
		{"locations", s.Locations, &shift.Locations},
		{"stats", s.Stats, &shift.Stats},
		{"earnings", s.Earnings, &shift.Earnings},
		{"goals", s.Goals, &shift.Goals},
	}
	for _, f := range fields {
		if len(f.raw) == 0 {
			continue
		}
		if err := json.Unmarshal(f.raw, f.dst); err != nil {
			return nil, fmt.Errorf("decode %s: %w", f.name, err)
		}
	}

	if shift.Breaks == nil {
		shift.Breaks = []entities.Break{}
	}
	if shift.Locations == nil {
		shift.Locations = []entities.LocationSnapshot{}
	}

	return shift, nil
}

func FromDomain(s *entities.DriverShift) (*ShiftDB, error) {
	if s == nil {
		return nil, nil
	}

	shiftDB := &ShiftDB{
		ID:              s.ID,
		DriverID:        s.DriverID,
		StartedAt:       s.StartedAt,
		EndedAt:         s.EndedAt,
		IsActive:        s.IsActive,
		DurationMinutes: s.DurationMinutes,
		EarningsTotal:   s.Earnings.Total,
		DeliveryIDs:     s.DeliveryIDs,
	}
	if s.EndReason != nil {
		reason := s.EndReason.String()
		shiftDB.EndReason = &reason
	}
	if shiftDB.DeliveryIDs == nil {
		shiftDB.DeliveryIDs = []int64{}
	}

	var err error
	if s.StartLocation != nil {
		if shiftDB.StartLocation, err = json.Marshal(s.StartLocation); err != nil {
			return nil, fmt.Errorf("encode start_location: %w", err)
		}
	}
	if s.EndLocation != nil {
		if shiftDB.EndLocation, err = json.Marshal(s.EndLocation); err != nil {
			return nil, fmt.Errorf("encode end_location: %w", err)
		}
	}
	if s.Goals != nil {
		if shiftDB.Goals, err = json.Marshal(s.Goals); err != nil {
			return nil, fmt.Errorf("encode goals: %w", err)
		}
	}
	if shiftDB.Breaks, err = marshalList(s.Breaks); err != nil {
		return nil, fmt.Errorf("encode breaks: %w", err)
	}
	if shiftDB.Locations, err = marshalList(s.Locations); err != nil {
		return nil, fmt.Errorf("encode locations: %w", err)
	}
	if shiftDB.Stats, err = json.Marshal(s.Stats); err != nil {
		return nil, fmt.Errorf("encode stats: %w", err)
	}
	if shiftDB.Earnings, err = json.Marshal(s.Earnings); err != nil {
		return nil, fmt.Errorf("encode earnings: %w", err)
	}

	return shiftDB, nil
}

func ToDomainList(shiftsDB []ShiftDB) ([]entities.DriverShift, error) {
	if len(shiftsDB) == 0 {
		return []entities.DriverShift{}, nil
	}

	result := make([]entities.DriverShift, len(shiftsDB))
	for i := range shiftsDB {
		shift, err := ToDomain(&shiftsDB[i])
		if err != nil {
			return nil, err
		}
		result[i] = *shift
	}
	return result, nil
}

// marshalList пустой срез пишется как [], а не null.
func marshalList[T any](items []T) ([]byte, error) {
	if items == nil {
		items = []T{}
	}
	return json.Marshal(items)
}

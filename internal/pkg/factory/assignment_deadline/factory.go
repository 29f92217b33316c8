package assignment_deadline

import (
	"time"

	"dispatch/internal/entities"
)

// AcceptDeadlineFactory срок, за который водитель должен принять
// назначение. Двухколесным дается запас, чтобы остановиться.
type AcceptDeadlineFactory struct {
	base time.Duration
}

func New(base time.Duration) *AcceptDeadlineFactory {
	return &AcceptDeadlineFactory{
		base: base,
	}
}

func (f *AcceptDeadlineFactory) AcceptDeadline(vehicleType entities.VehicleType, assignedAt time.Time) time.Time {
	resultTime := assignedAt.Add(f.base)
	switch vehicleType {
	case entities.Bicycle:
		resultTime = resultTime.Add(time.Second * 30)
	case entities.Scooter, entities.Motorcycle:
		resultTime = resultTime.Add(time.Second * 15)
	case entities.Car:
	default:
		resultTime = resultTime.Add(time.Second * 30)
	}

	return resultTime
}

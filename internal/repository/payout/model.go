package payout

import "time"

type PayoutDB struct {
	ID            int64
	PayoutNumber  string
	DriverID      int64
	Type          string
	Status        string
	PeriodStart   time.Time
	PeriodEnd     time.Time
	GrossAmount   float64
	Tax           float64
	ProcessingFee float64
	InstantFee    float64
	NetAmount     float64
	Breakdown     []byte
	Deliveries    []byte
	Adjustments   []byte
	PaymentMethod string
	BankAccount   []byte
	Reference     *string
	FailureReason *string
	RetryCount    int
	ProcessedAt   *time.Time
	CompletedAt   *time.Time
	FailedAt      *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

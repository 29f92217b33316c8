package payout

import (
	"encoding/json"
	"fmt"

	"dispatch/internal/entities"
)

func ToDomain(p *PayoutDB) (*entities.DriverPayout, error) {
	if p == nil {
		return nil, nil
	}

	payout := &entities.DriverPayout{
		ID:            p.ID,
		PayoutNumber:  p.PayoutNumber,
		DriverID:      p.DriverID,
		Type:          entities.PayoutType(p.Type),
		Status:        entities.PayoutStatus(p.Status),
		PeriodStart:   p.PeriodStart,
		PeriodEnd:     p.PeriodEnd,
		GrossAmount:   p.GrossAmount,
		Tax:           p.Tax,
		ProcessingFee: p.ProcessingFee,
		InstantFee:    p.InstantFee,
		NetAmount:     p.NetAmount,
		PaymentMethod: p.PaymentMethod,
		Reference:     p.Reference,
		FailureReason: p.FailureReason,
		RetryCount:    p.RetryCount,
		ProcessedAt:   p.ProcessedAt,
		CompletedAt:   p.CompletedAt,
		FailedAt:      p.FailedAt,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}

	if err := json.Unmarshal(p.Breakdown, &payout.Breakdown); err != nil {
		return nil, fmt.Errorf("decode breakdown: %w", err)
	}
	if err := json.Unmarshal(p.Deliveries, &payout.Deliveries); err != nil {
		return nil, fmt.Errorf("decode deliveries: %w", err)
	}
	if err := json.Unmarshal(p.Adjustments, &payout.Adjustments); err != nil {
		return nil, fmt.Errorf("decode adjustments: %w", err)
	}
	if len(p.BankAccount) > 0 {
		if err := json.Unmarshal(p.BankAccount, &payout.BankAccount); err != nil {
			return nil, fmt.Errorf("decode bank account: %w", err)
		}
	}

	return payout, nil
}

func FromDomain(p *entities.DriverPayout) (*PayoutDB, error) {
	if p == nil {
		return nil, nil
	}

	payoutDB := &PayoutDB{
		ID:            p.ID,
		PayoutNumber:  p.PayoutNumber,
		DriverID:      p.DriverID,
		Type:          p.Type.String(),
		Status:        p.Status.String(),
		PeriodStart:   p.PeriodStart,
		PeriodEnd:     p.PeriodEnd,
		GrossAmount:   p.GrossAmount,
		Tax:           p.Tax,
		ProcessingFee: p.ProcessingFee,
		InstantFee:    p.InstantFee,
		NetAmount:     p.NetAmount,
		PaymentMethod: p.PaymentMethod,
		Reference:     p.Reference,
		FailureReason: p.FailureReason,
		RetryCount:    p.RetryCount,
		ProcessedAt:   p.ProcessedAt,
		CompletedAt:   p.CompletedAt,
		FailedAt:      p.FailedAt,
	}

	var err error
	if payoutDB.Breakdown, err = json.Marshal(p.Breakdown); err != nil {
		return nil, fmt.Errorf("encode breakdown: %w", err)
	}

	deliveries := p.Deliveries
	if deliveries == nil {
		deliveries = []entities.PayoutDelivery{}
	}
	if payoutDB.Deliveries, err = json.Marshal(deliveries); err != nil {
		return nil, fmt.Errorf("encode deliveries: %w", err)
	}

	adjustments := p.Adjustments
	if adjustments == nil {
		adjustments = []entities.PayoutAdjustment{}
	}
	if payoutDB.Adjustments, err = json.Marshal(adjustments); err != nil {
		return nil, fmt.Errorf("encode adjustments: %w", err)
	}

	if p.BankAccount != nil {
		if payoutDB.BankAccount, err = json.Marshal(p.BankAccount); err != nil {
			return nil, fmt.Errorf("encode bank account: %w", err)
		}
	}

	return payoutDB, nil
}

func ToDomainList(payoutsDB []PayoutDB) ([]entities.DriverPayout, error) {
	if len(payoutsDB) == 0 {
		return []entities.DriverPayout{}, nil
	}

	result := make([]entities.DriverPayout, len(payoutsDB))
	for i := range payoutsDB {
		payout, err := ToDomain(&payoutsDB[i])
		if err != nil {
			return nil, err
		}
		result[i] = *payout
	}
	return result, nil
}

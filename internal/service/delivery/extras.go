package delivery

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"dispatch/internal/entities"
)

func (s *Delivery) AddChatMessage(
	ctx context.Context,
	deliveryID int64,
	sender entities.ChatSender,
	senderID *int64,
	message string,
) (*entities.ChatMessage, error) {
	if !isValidSender(sender) {
		return nil, ErrInvalidSender
	}

	var msg *entities.ChatMessage
	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		delivery, err := s.repository.GetByIDForUpdate(ctx, deliveryID)
		if err != nil {
			return fmt.Errorf("get delivery: %w", err)
		}

		msg, err = delivery.AddChatMessage(sender, senderID, message, time.Now().UTC())
		if err != nil {
			return err
		}

		if err := s.repository.Save(ctx, delivery); err != nil {
			return fmt.Errorf("save delivery: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return msg, nil
}

// GenerateOTP выпускает новый код вручения, предыдущий перестает действовать.
func (s *Delivery) GenerateOTP(ctx context.Context, deliveryID int64) (string, error) {
	var code string
	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		delivery, err := s.repository.GetByIDForUpdate(ctx, deliveryID)
		if err != nil {
			return fmt.Errorf("get delivery: %w", err)
		}
		if delivery.Status.IsTerminal() {
			return ErrDeliveryFinished
		}

		code = delivery.GenerateOTP(rand.IntN)
		if err := s.repository.Save(ctx, delivery); err != nil {
			return fmt.Errorf("save delivery: %w", err)
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	return code, nil
}

func (s *Delivery) VerifyOTP(ctx context.Context, deliveryID int64, code string) (bool, error) {
	delivery, err := s.repository.GetByID(ctx, deliveryID)
	if err != nil {
		return false, fmt.Errorf("get delivery: %w", err)
	}
	return delivery.VerifyOTP(strings.TrimSpace(code)), nil
}

func (s *Delivery) ReportIssue(
	ctx context.Context,
	deliveryID int64,
	issueType entities.IssueType,
	description, reportedBy string,
) (*entities.DeliveryIssue, error) {
	if !isValidIssueType(issueType) {
		return nil, ErrInvalidIssueType
	}

	var issue entities.DeliveryIssue
	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		delivery, err := s.repository.GetByIDForUpdate(ctx, deliveryID)
		if err != nil {
			return fmt.Errorf("get delivery: %w", err)
		}

		issue = delivery.ReportIssue(issueType, strings.TrimSpace(description), reportedBy, time.Now().UTC())
		if err := s.repository.Save(ctx, delivery); err != nil {
			return fmt.Errorf("save delivery: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &issue, nil
}

// RateDelivery оценка клиента, один раз на доставку. Средний рейтинг
// водителя пересчитывается в той же транзакции.
func (s *Delivery) RateDelivery(ctx context.Context, deliveryID int64, rating int, comment string) (*entities.Delivery, error) {
	var delivery *entities.Delivery
	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		var err error
		delivery, err = s.repository.GetByIDForUpdate(ctx, deliveryID)
		if err != nil {
			return fmt.Errorf("get delivery: %w", err)
		}

		if err := delivery.Rate(rating, strings.TrimSpace(comment), time.Now().UTC()); err != nil {
			return err
		}
		if err := s.repository.Save(ctx, delivery); err != nil {
			return fmt.Errorf("save delivery: %w", err)
		}

		if delivery.DriverID != nil {
			if err := s.driverRepository.ApplyRating(ctx, *delivery.DriverID, rating); err != nil {
				return fmt.Errorf("apply driver rating: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return delivery, nil
}

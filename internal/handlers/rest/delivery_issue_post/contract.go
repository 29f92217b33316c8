//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=delivery_issue_post_test
package delivery_issue_post

import (
	"context"

	"dispatch/internal/entities"
	"dispatch/pkg/logger"
)

type handlerLogger interface {
	Debug(msg string, fields ...logger.Field)
	Info(msg string, fields ...logger.Field)
	Warn(msg string, fields ...logger.Field)
	Error(msg string, fields ...logger.Field)
	With(fields ...logger.Field) logger.Logger
}

type Service interface {
	ReportIssue(
	ctx context.Context,
	deliveryID int64,
	issueType entities.IssueType,
	description, reportedBy string,
	) (*entities.DeliveryIssue, error)
}

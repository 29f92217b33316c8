//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=assignment_expiry_test
package assignment_expiry

import (
	"context"

	"dispatch/internal/entities"
	"dispatch/pkg/logger"
)

type taskLogger interface {
	Info(msg string, fields ...logger.Field)
	Warn(msg string, fields ...logger.Field)
}

type Service interface {
	ExpireStaleAssignments(ctx context.Context) (*entities.BatchResult, error)
}

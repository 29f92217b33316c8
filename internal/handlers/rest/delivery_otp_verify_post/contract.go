//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=delivery_otp_verify_post_test
package delivery_otp_verify_post

import (
	"context"

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
	VerifyOTP(ctx context.Context, deliveryID int64, code string) (bool, error)
}

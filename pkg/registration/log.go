package registration

import (
	"context"
	"time"

	"go.uber.org/zap"
)

const serviceName = "RegistrationService"

// logService wraps Service with automatic logging of all method calls
type logService struct {
	svc    Service
	logger *zap.Logger
}

// NewLog creates a logging decorator for the registration Service.
// It logs method entry/exit, duration and errors.
func NewLog(svc Service, logger *zap.Logger) Service {
	return &logService{
		svc:    svc,
		logger: logger,
	}
}

// Register wraps the service method with logging
func (ls *logService) Register(
	ctx context.Context,
	req *RegisterRequest,
) (resp *RegisterResponse, err error) {
	start := time.Now()

	ls.logger.Info("Register started",
		zap.String("service", serviceName),
		zap.String("method", "Register"),
		zap.String("profile_id", req.ProfileID),
		zap.String("channel", req.Channel),
	)

	defer func() {
		duration := time.Since(start)

		if err != nil {
			ls.logger.Error("Register failed",
				zap.String("service", serviceName),
				zap.String("method", "Register"),
				zap.String("profile_id", req.ProfileID),
				zap.Duration("duration", duration),
				zap.Error(err),
			)
		} else {
			ls.logger.Info("Register completed",
				zap.String("service", serviceName),
				zap.String("method", "Register"),
				zap.String("profile_id", resp.ProfileID),
				zap.String("account_id", resp.AccountID),
				zap.String("savedata_id", resp.SaveDataID),
				zap.String("channel", resp.Channel),
				zap.Duration("duration", duration),
			)
		}
	}()

	return ls.svc.Register(ctx, req)
}

// Remove wraps the service method with logging
func (ls *logService) Remove(ctx context.Context, profileID string) (err error) {
	start := time.Now()

	ls.logger.Info("Remove started",
		zap.String("service", serviceName),
		zap.String("method", "Remove"),
		zap.String("profile_id", profileID),
	)

	defer func() {
		duration := time.Since(start)

		if err != nil {
			ls.logger.Error("Remove failed",
				zap.String("service", serviceName),
				zap.String("method", "Remove"),
				zap.String("profile_id", profileID),
				zap.Duration("duration", duration),
				zap.Error(err),
			)
		} else {
			ls.logger.Info("Remove completed",
				zap.String("service", serviceName),
				zap.String("method", "Remove"),
				zap.String("profile_id", profileID),
				zap.Duration("duration", duration),
			)
		}
	}()

	return ls.svc.Remove(ctx, profileID)
}

package auth

import (
	"context"

	"go.uber.org/zap"

	"ats-backend/internal/logging"
)

// Outcomes recorded by LogAuthAttempt.
const (
	AuthSuccess = "Success"
	AuthFail    = "Fail"
)

// LogAuthAttempt records an authentication attempt on the request logger.
// authType is Local, Register, Google or Logout. Failures are logged at warn level.
func LogAuthAttempt(ctx context.Context, authType string, status string, identifier string, message string) {
	fields := []zap.Field{
		zap.String("auth_type", authType),
		zap.String("status", status),
	}
	if identifier != "" {
		fields = append(fields, zap.String("identifier", identifier))
	}
	if message != "" {
		fields = append(fields, zap.String("reason", message))
	}

	log := logging.Logger(ctx)
	if status == AuthSuccess {
		log.Info("auth attempt", fields...)
		return
	}
	log.Warn("auth attempt", fields...)
}

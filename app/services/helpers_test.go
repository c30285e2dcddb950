package services

import (
	"testing"

	"go.uber.org/zap"

	"folio/app/logger"
)

func setLogger(t *testing.T, l *zap.Logger) {
	t.Helper()
	logger.Set(l)
	t.Cleanup(func() { logger.Set(nil) })
}

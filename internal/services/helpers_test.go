package services

import (
	"io"
	"log/slog"
	"time"
)

// noopMetrics keeps service tests off the process-global prometheus registry
type noopMetrics struct{}

func (noopMetrics) IncrementCounter(string, map[string]string) {}
func (noopMetrics) RecordProcessingTime(string, time.Duration) {}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

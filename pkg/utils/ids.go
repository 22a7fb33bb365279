// Package utils provides small shared helpers used across the engine.
package utils

import "github.com/google/uuid"

// NewRunID generates a unique external correlation id for a backtest run.
//
// This is never used for order ids inside the engine: order ids must be a
// strictly increasing per-account counter (see trade.Orders), not a random
// identifier. NewRunID exists purely so callers (fleets, reports, logs) can
// correlate one run's output across metrics, tracks, and log lines.
func NewRunID(prefix string) string {
	if prefix == "" {
		return uuid.New().String()
	}
	return prefix + "_" + uuid.New().String()
}

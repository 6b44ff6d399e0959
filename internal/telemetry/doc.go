// Package telemetry обеспечивает наблюдаемость прогонов.
//
// Включает:
//   - logging.go — structured logging через slog
//   - metrics.go — Prometheus метрики раннера и прогонов
//
// API экспортирует метрики на /metrics endpoint.
package telemetry

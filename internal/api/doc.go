// Package api содержит HTTP API раннера.
//
// Структура:
//   - handler.go      — Handler с DI (хранилище, оркестратор, logger)
//   - routes.go       — регистрация маршрутов
//   - middleware.go   — middleware (logging, metrics, recovery)
//   - response.go     — унифицированные JSON-ответы и обработка ошибок
//   - dto.go          — Data Transfer Objects
//   - case_handler.go — обработчики для /cases
//   - run_handler.go  — обработчики для /runs
//
// API отдаёт каталог кейсов, ставит прогоны в очередь и показывает их результаты.
package api

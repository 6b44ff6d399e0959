// Package cli реализует инструмент командной строки раннера.
//
// # Обзор
//
// Две группы команд:
//   - case — локальный прогон каталога или плана на симулированной платформе
//     (через internal/suite и internal/sim, без сервера)
//   - run  — прогоны на сервере через HTTP API
//
// ## Client
//
// HTTP-клиент для API. Инкапсулирует HTTP-запросы, парсинг ответов
// (DataResponse, ListResponse, ErrorResponse) и обработку ошибок.
// Клиент не импортирует internal/api: DTO продублированы.
//
//	client := cli.NewClient("http://localhost:8080")
//	runs, err := client.ListRuns(cli.ListRunsOpts{Status: "FAILED"})
//
// ## Output
//
// Таблицы (text/tabwriter) по умолчанию, JSON с флагом --json.
// Данные выводятся в stdout, сообщения — в stderr, логи раннера — тоже в stderr:
// avrec case run --json | jq '.runs[].status'
//
// Каждая группа создаётся фабричной функцией (NewCaseCmd, NewRunCmd),
// принимающей замыкания для ленивого создания Client, Output и логгера
// после парсинга PersistentFlags.
package cli

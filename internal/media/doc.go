// Package media описывает внешние интерфейсы платформы записи.
//
// # Обзор
//
// Рекордер, конвейер камеры и машина состояний рекордера предоставляются
// платформой. Пакет фиксирует только то, что использует набор кейсов:
//
//	Platform
//	├── Recorders   — фабрика рекордеров (RecorderFactory)
//	├── Cameras     — менеджер камер (CameraManager)
//	├── Permissions — выдача разрешений (PermissionManager)
//	└── Pages       — навигация по страницам с поверхностью предпросмотра (PageRouter)
//
// # Рекордер
//
// Recorder — асинхронный объект с машиной состояний. Завершение
// большинства вызовов наблюдается не по возврату, а по событию
// смены состояния, которое приходит в канал подписки:
//
//	events := rec.On()
//	_ = rec.Prepare(ctx, cfg)
//	ev := <-events // Event{Kind: EventStateChange, State: "prepared"}
//
// Off прекращает доставку событий. Канал при этом не закрывается.
//
// # Стратегии вызова
//
// Один и тот же вызов платформы выполняется одной из двух стратегий:
//
//   - Promise — вызов выполняется синхронно, done получает ошибку до возврата Invoke
//   - Callback — вызов выполняется в отдельной горутине, Invoke возвращается сразу
//
// Стратегия выбирается токеном шага (create_promise / create_callback).
package media

// Package sim — симулированная платформа записи.
//
// Моделирует только публичную машину состояний рекордера и объекты
// конвейера камеры. Кодирование, контейнеры и устройства не моделируются.
//
// Используется как локальный backend для CLI/API и как тестовый двойник.
//
// Переходы рекордера:
//
//	create          → idle
//	prepare         idle | stopped → prepared
//	getInputSurface только в prepared (состояние не меняется)
//	start           prepared → started
//	pause           started → paused
//	resume          paused → started
//	stop            started | paused → stopped
//	reset           любое, кроме released → idle
//	release         любое → released
//
// Недопустимый вызов возвращает media.ErrInvalidState и события не публикует.
//
// Сбои внедряются через Config.Failures: ключ — имя операции
// ("create", "prepare", "start", ..., "camera.input", "session.start").
package sim

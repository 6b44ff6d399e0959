// Package runner — интерпретатор очереди шагов кейса рекордера.
//
// # Обзор
//
// Кейс — это фиксированная очередь токенов, заканчивающаяся END:
//
//	create_promise -> prepare_promise -> getsurface_promise -> start_camera ->
//	start_promise -> ... -> release_promise -> release_camera -> end
//
// Runner снимает токены по одному и передаёт каждый в Step из Registry.
// Step выполняет один вызов платформы и возвращает Advance:
//
//   - AdvanceNext — сразу следующий токен (create, getsurface, камера, callback off, print info)
//   - AdvanceSuspend — ждать событие рекордера или продолжение callback-вызова
//   - AdvanceFinish — END, прогон завершён
//
// # Точки приостановки
//
// В точке приостановки раннер ждёт одно из:
//
//   - продолжение от callback-вызова (Case.post)
//   - событие рекордера из канала подписки
//   - истечение контекста кейса (ErrStalled)
//
// Реакция на событие смены состояния:
//
//	idle, prepared, stopped → следующий токен
//	started                 → подождать RecordInterval, следующий токен
//	paused                  → подождать PauseInterval, следующий токен
//	released                → забыть рекордер, следующий токен
//	error                   → только лог, ждать дальше
//	неизвестное             → лог, следующий токен
//
// Событие ошибки рекордера логируется и продвигает очередь.
//
// Неизвестный токен не снимается с очереди: раннер логирует "do nothing"
// и приостанавливается. Следующее событие снова упирается в тот же токен,
// так что кейс доходит до дедлайна с нетронутым хвостом очереди. Так же
// ведёт себя очередь, опустевшая без END (print_info перед end).
//
// # Ошибки
//
// Неуспешный вызов платформы уходит в общий обработчик failure, паника
// внутри стратегии вызова — в catch. Оба только логируют: упавший вызов
// не публикует событие, поэтому кейс зависает до дедлайна контекста.
// Результат кейса определяют только проверки (состояние idle после create).
//
// Неизвестный токен снимается с очереди, логируется ("do nothing")
// и пропускается. Порядок оставшихся токенов не меняется.
package runner

// Package fixture содержит окружение кейсов рекордера: разрешения,
// файл записи, переключение страниц предпросмотра и конвейер камеры.
//
// Камера поднимается и разбирается в том же порядке, что и на устройстве:
//
//	StartVideoOutput: input → video output → preview output → session (begin, open, add, commit, start) → video start
//	StopVideoOutput:  session stop → begin → video stop → remove output → commit → input close
//	Release:          video release → preview release → session release
package fixture

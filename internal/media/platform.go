package media

import "context"

// PermissionManager выдаёт разрешения процессу набора кейсов.
type PermissionManager interface {
	Grant(ctx context.Context, permissions []string) error
}

// PageRouter переключает страницы приложения.
// Каждая страница держит поверхность предпросмотра.
type PageRouter interface {
	// Push открывает страницу и возвращает id её поверхности.
	Push(ctx context.Context, page string) (string, error)

	// Clear очищает стек страниц.
	Clear(ctx context.Context) error
}

// Platform — набор возможностей платформы, нужных набору кейсов.
type Platform struct {
	Recorders   RecorderFactory
	Cameras     CameraManager
	Permissions PermissionManager
	Pages       PageRouter
}

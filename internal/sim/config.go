package sim

import (
	"log/slog"

	"github.com/laiyoufafa/multimedia-player-framework/internal/domain"
)

// Config — настройки симулированной платформы.
type Config struct {
	// PreviewFormat — формат профилей камеры.
	// По умолчанию CameraFormatYUV420SP.
	PreviewFormat domain.CameraFormat

	// Cameras — количество камер. По умолчанию 1.
	Cameras int

	// Failures — внедрённые ошибки по имени операции.
	Failures map[string]error

	// Logger — логгер. По умолчанию slog.Default().
	Logger *slog.Logger
}

func (c Config) withDefaults() Config {
	if c.PreviewFormat == 0 {
		c.PreviewFormat = domain.CameraFormatYUV420SP
	}
	if c.Cameras <= 0 {
		c.Cameras = 1
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	return c
}

func (c Config) failure(op string) error {
	if c.Failures == nil {
		return nil
	}
	return c.Failures[op]
}

package fixture

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/laiyoufafa/multimedia-player-framework/internal/media"
)

// RecorderPermissions — разрешения, необходимые для записи с камеры.
var RecorderPermissions = []string{
	"ohos.permission.MICROPHONE",
	"ohos.permission.MEDIA_LOCATION",
	"ohos.permission.READ_MEDIA",
	"ohos.permission.WRITE_MEDIA",
	"ohos.permission.CAMERA",
}

// GrantPermissions выдаёт разрешения и ждёт settle, пока платформа их применит.
func GrantPermissions(ctx context.Context, pm media.PermissionManager, settle time.Duration, logger *slog.Logger) error {
	if err := pm.Grant(ctx, RecorderPermissions); err != nil {
		return fmt.Errorf("grant permissions: %w", err)
	}
	logger.Info("permissions granted", "count", len(RecorderPermissions))
	return Sleep(ctx, settle)
}

package fixture

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/laiyoufafa/multimedia-player-framework/internal/domain"
	"github.com/laiyoufafa/multimedia-player-framework/internal/media"
)

// ErrCameraNotStarted — стоп или освобождение камеры, которая не поднималась.
var ErrCameraNotStarted = errors.New("camera not started")

// Camera — конвейер камеры одного кейса.
type Camera struct {
	Manager        media.CameraManager
	Device         media.Camera
	VideoProfile   domain.CameraProfile
	PreviewProfile domain.CameraProfile

	logger        *slog.Logger
	input         media.CameraInput
	videoOutput   media.Output
	previewOutput media.Output
	session       media.CaptureSession
}

// NewCamera создаёт конвейер для устройства с заданными профилями.
func NewCamera(mgr media.CameraManager, device media.Camera, video, preview domain.CameraProfile, logger *slog.Logger) *Camera {
	if logger == nil {
		logger = slog.Default()
	}
	return &Camera{
		Manager:        mgr,
		Device:         device,
		VideoProfile:   video,
		PreviewProfile: preview,
		logger:         logger.With("component", "camera"),
	}
}

// StartVideoOutput поднимает вход, оба выхода и сессию и запускает видеовыход.
// surfaceID — поверхность рекордера, previewSurfaceID — поверхность страницы.
func (c *Camera) StartVideoOutput(ctx context.Context, surfaceID, previewSurfaceID string) error {
	c.logger.Info("case to start camera")

	input, err := c.Manager.CreateCameraInput(ctx, c.Device)
	if err != nil {
		return fmt.Errorf("create camera input: %w", err)
	}
	c.input = input

	video, err := c.Manager.CreateVideoOutput(ctx, c.VideoProfile, surfaceID)
	if err != nil {
		return fmt.Errorf("create video output: %w", err)
	}
	c.videoOutput = video

	preview, err := c.Manager.CreatePreviewOutput(ctx, c.PreviewProfile, previewSurfaceID)
	if err != nil {
		return fmt.Errorf("create preview output: %w", err)
	}
	c.previewOutput = preview

	session, err := InitCaptureSession(ctx, c.Manager, input, preview, video)
	if err != nil {
		return err
	}
	c.session = session

	if err := video.Start(ctx); err != nil {
		return fmt.Errorf("start video output: %w", err)
	}
	c.logger.Info("camera video output started", "surface_id", surfaceID)
	return nil
}

// StopVideoOutput останавливает сессию, отключает видеовыход и закрывает вход.
// Ошибки отдельных вызовов не прерывают разборку и возвращаются вместе.
func (c *Camera) StopVideoOutput(ctx context.Context) error {
	if c.session == nil {
		return ErrCameraNotStarted
	}

	var errs []error
	collect := func(step string, err error) {
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", step, err))
		}
	}

	collect("session stop", c.session.Stop(ctx))
	collect("begin config", c.session.BeginConfig(ctx))
	if c.videoOutput != nil {
		collect("video output stop", c.videoOutput.Stop(ctx))
		collect("remove video output", c.session.RemoveOutput(ctx, c.videoOutput))
	}
	collect("commit config", c.session.CommitConfig(ctx))
	if c.input != nil {
		collect("camera input close", c.input.Close(ctx))
	}

	c.logger.Info("camera video output stopped", "errors", len(errs))
	return errors.Join(errs...)
}

// Release освобождает выходы и сессию.
func (c *Camera) Release(ctx context.Context) error {
	if c.session == nil && c.videoOutput == nil && c.previewOutput == nil {
		return ErrCameraNotStarted
	}

	var errs []error
	if c.videoOutput != nil {
		if err := c.videoOutput.Release(ctx); err != nil {
			errs = append(errs, fmt.Errorf("video output release: %w", err))
		}
	}
	if c.previewOutput != nil {
		if err := c.previewOutput.Release(ctx); err != nil {
			errs = append(errs, fmt.Errorf("preview output release: %w", err))
		}
	}
	if c.session != nil {
		if err := c.session.Release(ctx); err != nil {
			errs = append(errs, fmt.Errorf("capture session release: %w", err))
		}
	}

	c.videoOutput = nil
	c.previewOutput = nil
	c.session = nil
	c.input = nil

	c.logger.Info("camera released", "errors", len(errs))
	return errors.Join(errs...)
}

// InitCaptureSession создаёт сессию, связывает вход с выходами и запускает её.
func InitCaptureSession(ctx context.Context, mgr media.CameraManager, input media.CameraInput, outputs ...media.Output) (media.CaptureSession, error) {
	session, err := mgr.CreateCaptureSession(ctx)
	if err != nil {
		return nil, fmt.Errorf("create capture session: %w", err)
	}
	if err := session.BeginConfig(ctx); err != nil {
		return nil, fmt.Errorf("begin config: %w", err)
	}
	if err := input.Open(ctx); err != nil {
		return nil, fmt.Errorf("open camera input: %w", err)
	}
	if err := session.AddInput(ctx, input); err != nil {
		return nil, fmt.Errorf("add input: %w", err)
	}
	for _, out := range outputs {
		if err := session.AddOutput(ctx, out); err != nil {
			return nil, fmt.Errorf("add output: %w", err)
		}
	}
	if err := session.CommitConfig(ctx); err != nil {
		return nil, fmt.Errorf("commit config: %w", err)
	}
	if err := session.Start(ctx); err != nil {
		return nil, fmt.Errorf("start capture session: %w", err)
	}
	return session, nil
}

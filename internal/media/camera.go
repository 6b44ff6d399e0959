package media

import (
	"context"

	"github.com/laiyoufafa/multimedia-player-framework/internal/domain"
)

// Camera — описание камеры устройства.
type Camera struct {
	ID       string `json:"id"`
	Position string `json:"position"`
}

// OutputCapability — профили, которые камера умеет отдавать.
type OutputCapability struct {
	PreviewProfiles []domain.CameraProfile `json:"preview_profiles"`
	VideoProfiles   []domain.CameraProfile `json:"video_profiles"`
}

// CameraInput — открытый вход камеры.
type CameraInput interface {
	Open(ctx context.Context) error
	Close(ctx context.Context) error
}

// Output — выход камеры (видео или предпросмотр).
type Output interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	Release(ctx context.Context) error
}

// CaptureSession связывает вход камеры с выходами.
//
// AddInput, AddOutput и RemoveOutput допустимы только между
// BeginConfig и CommitConfig.
type CaptureSession interface {
	BeginConfig(ctx context.Context) error
	AddInput(ctx context.Context, in CameraInput) error
	AddOutput(ctx context.Context, out Output) error
	RemoveOutput(ctx context.Context, out Output) error
	CommitConfig(ctx context.Context) error
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	Release(ctx context.Context) error
}

// CameraManager — точка входа в подсистему камеры.
type CameraManager interface {
	SupportedCameras(ctx context.Context) ([]Camera, error)
	OutputCapability(ctx context.Context, cam Camera) (OutputCapability, error)
	CreateCameraInput(ctx context.Context, cam Camera) (CameraInput, error)
	CreateVideoOutput(ctx context.Context, profile domain.CameraProfile, surfaceID string) (Output, error)
	CreatePreviewOutput(ctx context.Context, profile domain.CameraProfile, surfaceID string) (Output, error)
	CreateCaptureSession(ctx context.Context) (CaptureSession, error)
}

package runner

import (
	"context"

	"github.com/laiyoufafa/multimedia-player-framework/internal/domain"
	"github.com/laiyoufafa/multimedia-player-framework/internal/fixture"
)

// Шаги камеры выполняются синхронно. Ошибки только логируются,
// прогон продолжается, как и при сбоях вызовов рекордера.

type startCameraStep struct{}

func (startCameraStep) Token() domain.Token { return domain.TokenStartCamera }

func (startCameraStep) Execute(ctx context.Context, c *Case) Advance {
	if c.camera == nil {
		c.catch(domain.TokenStartCamera, fixture.ErrCameraNotStarted)
		return AdvanceNext
	}
	if err := c.camera.StartVideoOutput(ctx, c.surfaceID, c.previewSurfaceID); err != nil {
		c.catch(domain.TokenStartCamera, err)
	}
	return AdvanceNext
}

type stopVideoOutputStep struct{}

func (stopVideoOutputStep) Token() domain.Token { return domain.TokenStopVideoOutput }

func (stopVideoOutputStep) Execute(ctx context.Context, c *Case) Advance {
	if c.camera == nil {
		c.catch(domain.TokenStopVideoOutput, fixture.ErrCameraNotStarted)
		return AdvanceNext
	}
	if err := c.camera.StopVideoOutput(ctx); err != nil {
		c.failure(domain.TokenStopVideoOutput, err)
	}
	return AdvanceNext
}

type releaseCameraStep struct{}

func (releaseCameraStep) Token() domain.Token { return domain.TokenReleaseCamera }

func (releaseCameraStep) Execute(ctx context.Context, c *Case) Advance {
	if c.camera == nil {
		c.catch(domain.TokenReleaseCamera, fixture.ErrCameraNotStarted)
		return AdvanceNext
	}
	if err := c.camera.Release(ctx); err != nil {
		c.failure(domain.TokenReleaseCamera, err)
	}
	return AdvanceNext
}

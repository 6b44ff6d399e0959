package suite

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/laiyoufafa/multimedia-player-framework/internal/domain"
	"github.com/laiyoufafa/multimedia-player-framework/internal/fixture"
	"github.com/laiyoufafa/multimedia-player-framework/internal/media"
	"github.com/laiyoufafa/multimedia-player-framework/internal/runner"
	"github.com/laiyoufafa/multimedia-player-framework/internal/telemetry"
)

// Suite — набор кейсов поверх одной платформы.
//
// Окружение (разрешения, камера, страницы) общее для всех кейсов,
// поэтому кейсы выполняются строго по одному.
type Suite struct {
	platform media.Platform
	runner   *runner.Runner
	cfg      Config
	logger   *slog.Logger
	files    fixture.FileStore

	mu             sync.Mutex
	ready          bool
	device         media.Camera
	videoProfile   domain.CameraProfile
	previewProfile domain.CameraProfile
	sourceType     domain.VideoSourceType
	avConfig       domain.AVConfig
	pages          *fixture.PageNavigator
	caseCount      int
}

// New создаёт набор кейсов.
func New(platform media.Platform, cfg Config) *Suite {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.CaseTimeout <= 0 {
		cfg.CaseTimeout = DefaultCaseTimeout
	}
	if cfg.Profile == "" {
		cfg.Profile = ProfileAV
	}

	return &Suite{
		platform: platform,
		runner: runner.New(runner.Config{
			RecordInterval: cfg.RecordInterval,
			PauseInterval:  cfg.PauseInterval,
			Logger:         cfg.Logger,
		}),
		cfg:    cfg,
		logger: cfg.Logger.With("component", "suite"),
		files:  fixture.FileStore{Dir: cfg.OutputDir},
		pages:  fixture.NewPageNavigator(platform.Pages),
	}
}

// BeforeAll готовит окружение: разрешения, камера, профили.
// Повторный вызов ничего не делает.
func (s *Suite) BeforeAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.beforeAll(ctx)
}

func (s *Suite) beforeAll(ctx context.Context) error {
	if s.ready {
		return nil
	}
	s.logger.Info("beforeAll case in")

	if err := fixture.GrantPermissions(ctx, s.platform.Permissions, s.cfg.PermissionSettle, s.logger); err != nil {
		return err
	}

	cams, err := s.platform.Cameras.SupportedCameras(ctx)
	if err != nil {
		return fmt.Errorf("get cameras: %w", err)
	}
	if len(cams) == 0 {
		return media.ErrNoCamera
	}

	capability, err := s.platform.Cameras.OutputCapability(ctx, cams[0])
	if err != nil {
		return fmt.Errorf("get output capability: %w", err)
	}
	if len(capability.VideoProfiles) == 0 || len(capability.PreviewProfiles) == 0 {
		return media.ErrNoProfile
	}

	s.device = cams[0]
	s.videoProfile = capability.VideoProfiles[0]
	s.videoProfile.Size = domain.Size{Width: 640, Height: 480}
	s.previewProfile = capability.PreviewProfiles[0]
	s.previewProfile.Size = domain.Size{Width: 640, Height: 480}

	if s.previewProfile.Format == domain.CameraFormatYUV420SP {
		s.sourceType = domain.VideoSourceSurfaceYUV
	} else {
		s.sourceType = domain.VideoSourceSurfaceES
	}

	s.avConfig = s.baseConfig()
	s.ready = true

	s.logger.Info("beforeAll case out", "camera", s.device.ID, "video_source", s.sourceType, "profile", s.cfg.Profile)
	return nil
}

func (s *Suite) baseConfig() domain.AVConfig {
	var cfg domain.AVConfig
	switch s.cfg.Profile {
	case ProfileVideo:
		cfg = domain.DefaultVideoConfig()
	case ProfileAudio:
		cfg = domain.DefaultAudioConfig()
	default:
		cfg = domain.DefaultAVConfig()
	}
	if cfg.VideoSourceType != nil {
		src := s.sourceType
		cfg.VideoSourceType = &src
	}
	return cfg
}

// applyPageProfiles подбирает кодек и размер под страницу.
// YUV чередует MPEG4 640x480 и AVC 1920x1080, ES всегда AVC 1920x1080.
func (s *Suite) applyPageProfiles(pageID int) {
	codec := domain.CodecVideoAVC
	size := domain.Size{Width: 1920, Height: 1080}
	if s.sourceType == domain.VideoSourceSurfaceYUV && pageID == 0 {
		codec = domain.CodecVideoMPEG4
		size = domain.Size{Width: 640, Height: 480}
	}

	if s.avConfig.Profile.HasVideo() {
		s.avConfig.Profile.VideoCodec = codec
		s.avConfig.Profile.VideoFrameWidth = size.Width
		s.avConfig.Profile.VideoFrameHeight = size.Height
	}
	s.videoProfile.Size = size
	s.previewProfile.Size = size
}

// Run выполняет кейс и возвращает завершённый прогон.
func (s *Suite) Run(ctx context.Context, tc domain.TestCase) *domain.CaseRun {
	run := domain.NewCaseRun(tc)
	_ = s.RunCase(ctx, run, tc)
	return run
}

// RunAll выполняет кейсы по порядку.
func (s *Suite) RunAll(ctx context.Context, cases []domain.TestCase) []*domain.CaseRun {
	runs := make([]*domain.CaseRun, 0, len(cases))
	for _, tc := range cases {
		if ctx.Err() != nil {
			break
		}
		runs = append(runs, s.Run(ctx, tc))
	}
	return runs
}

// RunCase выполняет кейс, заполняя run.
//
// Возвращает ошибку только если окружение не поднялось. Провал проверок
// и зависание кейса отражаются в run (FAILED), а не в ошибке.
func (s *Suite) RunCase(ctx context.Context, run *domain.CaseRun, tc domain.TestCase) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	run.MarkRunning()
	defer func() {
		telemetry.CaseRuns.WithLabelValues(string(run.Status)).Inc()
		telemetry.CaseRunDuration.Observe(run.Duration().Seconds())
	}()

	if err := s.beforeAll(ctx); err != nil {
		run.MarkFailed("beforeAll: " + err.Error())
		return err
	}

	logger := telemetry.WithCaseRunID(telemetry.WithCase(s.cfg.Logger, tc.Number, tc.Name), run.ID.String())

	// beforeEach
	previewSurfaceID, err := s.pages.Next(ctx)
	if err != nil {
		run.MarkFailed("beforeEach: " + err.Error())
		return err
	}
	s.applyPageProfiles(s.pages.PageID())
	if err := fixture.Sleep(ctx, s.cfg.PageSettle); err != nil {
		run.MarkFailed("beforeEach: " + err.Error())
		return err
	}
	s.caseCount++

	file, err := s.files.Open(fixture.RecordFileName(s.caseCount), fixture.MediaTypeVideo)
	if err != nil {
		run.MarkFailed(err.Error())
		return err
	}
	run.FileName = file.Name

	avConfig := s.avConfig.Clone()
	avConfig.URL = file.URL()
	logger.Info("case started", "file", file.Name, "url", avConfig.URL, "steps", domain.FormatTokens(tc.Steps))

	c := runner.NewCase(runner.CaseConfig{
		Recorders:        s.platform.Recorders,
		Camera:           fixture.NewCamera(s.platform.Cameras, s.device, s.videoProfile, s.previewProfile, logger),
		AVConfig:         avConfig,
		PreviewSurfaceID: previewSurfaceID,
		Steps:            tc.StepsCopy(),
		Logger:           logger,
	})

	caseCtx, cancel := context.WithTimeout(ctx, s.cfg.CaseTimeout)
	runErr := s.runner.Run(caseCtx, c)
	cancel()

	// afterEach
	if err := s.pages.Clear(ctx); err != nil {
		logger.Warn("clear pages failed", "error", err)
	}
	c.Queue().Clear()
	c.ReleaseRecorder(ctx)
	if err := file.Close(); err != nil {
		logger.Warn("close record file failed", "error", err)
	}

	run.Dispatched = c.Dispatched()
	for _, f := range c.Failures() {
		run.AddFailure(f)
	}
	if runErr != nil {
		run.AddFailure(runErr.Error())
	}
	run.Finish()

	logger.Info("case finished", "status", run.Status, "duration", run.Duration(), "failures", len(run.Failures))
	return nil
}

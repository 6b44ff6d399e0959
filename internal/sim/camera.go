package sim

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/laiyoufafa/multimedia-player-framework/internal/domain"
	"github.com/laiyoufafa/multimedia-player-framework/internal/media"
)

// OutputKind — тип выхода камеры.
type OutputKind string

const (
	OutputVideo   OutputKind = "video"
	OutputPreview OutputKind = "preview"
)

// CameraManager — симулированный менеджер камер.
type CameraManager struct {
	cfg Config

	mu       sync.Mutex
	inputs   []*CameraInput
	outputs  []*Output
	sessions []*CaptureSession
}

func (m *CameraManager) SupportedCameras(ctx context.Context) ([]media.Camera, error) {
	if err := m.cfg.failure("camera.list"); err != nil {
		return nil, err
	}
	cams := make([]media.Camera, m.cfg.Cameras)
	for i := range cams {
		pos := "back"
		if i > 0 {
			pos = "front"
		}
		cams[i] = media.Camera{ID: fmt.Sprintf("device/%d", i), Position: pos}
	}
	return cams, nil
}

func (m *CameraManager) OutputCapability(ctx context.Context, cam media.Camera) (media.OutputCapability, error) {
	if err := m.cfg.failure("camera.capability"); err != nil {
		return media.OutputCapability{}, err
	}
	sizes := []domain.Size{{Width: 1920, Height: 1080}, {Width: 1280, Height: 720}, {Width: 640, Height: 480}}
	out := media.OutputCapability{}
	for _, s := range sizes {
		out.PreviewProfiles = append(out.PreviewProfiles, domain.CameraProfile{Format: m.cfg.PreviewFormat, Size: s})
		out.VideoProfiles = append(out.VideoProfiles, domain.CameraProfile{Format: m.cfg.PreviewFormat, Size: s})
	}
	return out, nil
}

func (m *CameraManager) CreateCameraInput(ctx context.Context, cam media.Camera) (media.CameraInput, error) {
	if err := m.cfg.failure("camera.input"); err != nil {
		return nil, err
	}
	in := &CameraInput{camera: cam}
	m.mu.Lock()
	m.inputs = append(m.inputs, in)
	m.mu.Unlock()
	return in, nil
}

func (m *CameraManager) CreateVideoOutput(ctx context.Context, profile domain.CameraProfile, surfaceID string) (media.Output, error) {
	return m.createOutput(OutputVideo, profile, surfaceID)
}

func (m *CameraManager) CreatePreviewOutput(ctx context.Context, profile domain.CameraProfile, surfaceID string) (media.Output, error) {
	return m.createOutput(OutputPreview, profile, surfaceID)
}

func (m *CameraManager) createOutput(kind OutputKind, profile domain.CameraProfile, surfaceID string) (media.Output, error) {
	if err := m.cfg.failure("camera." + string(kind) + "_output"); err != nil {
		return nil, err
	}
	if surfaceID == "" {
		return nil, fmt.Errorf("create %s output: empty surface id", kind)
	}
	out := &Output{Kind: kind, Profile: profile, SurfaceID: surfaceID, cfg: m.cfg}
	m.mu.Lock()
	m.outputs = append(m.outputs, out)
	m.mu.Unlock()
	return out, nil
}

func (m *CameraManager) CreateCaptureSession(ctx context.Context) (media.CaptureSession, error) {
	if err := m.cfg.failure("camera.session"); err != nil {
		return nil, err
	}
	s := &CaptureSession{cfg: m.cfg}
	m.mu.Lock()
	m.sessions = append(m.sessions, s)
	m.mu.Unlock()
	return s, nil
}

// Inputs возвращает созданные входы.
func (m *CameraManager) Inputs() []*CameraInput {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*CameraInput(nil), m.inputs...)
}

// Outputs возвращает созданные выходы.
func (m *CameraManager) Outputs() []*Output {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*Output(nil), m.outputs...)
}

// Sessions возвращает созданные сессии.
func (m *CameraManager) Sessions() []*CaptureSession {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*CaptureSession(nil), m.sessions...)
}

// CameraInput — симулированный вход камеры.
type CameraInput struct {
	camera media.Camera

	mu     sync.Mutex
	open   bool
	closed bool
}

func (in *CameraInput) Open(ctx context.Context) error {
	in.mu.Lock()
	defer in.mu.Unlock()
	if in.closed {
		return errors.New("camera input closed")
	}
	in.open = true
	return nil
}

func (in *CameraInput) Close(ctx context.Context) error {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.open = false
	in.closed = true
	return nil
}

// IsOpen возвращает true, пока вход открыт.
func (in *CameraInput) IsOpen() bool {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.open
}

// Closed возвращает true после Close.
func (in *CameraInput) Closed() bool {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.closed
}

// Output — симулированный выход камеры.
type Output struct {
	Kind      OutputKind
	Profile   domain.CameraProfile
	SurfaceID string

	cfg      Config
	mu       sync.Mutex
	started  bool
	released bool
}

func (o *Output) Start(ctx context.Context) error {
	if err := o.cfg.failure("output.start"); err != nil {
		return err
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.released {
		return fmt.Errorf("%w: %s output", media.ErrReleased, o.Kind)
	}
	o.started = true
	return nil
}

func (o *Output) Stop(ctx context.Context) error {
	if err := o.cfg.failure("output.stop"); err != nil {
		return err
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.started = false
	return nil
}

func (o *Output) Release(ctx context.Context) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.released {
		return fmt.Errorf("%w: %s output", media.ErrReleased, o.Kind)
	}
	o.started = false
	o.released = true
	return nil
}

// Started возвращает true, пока выход отдаёт кадры.
func (o *Output) Started() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.started
}

// Released возвращает true после Release.
func (o *Output) Released() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.released
}

// CaptureSession — симулированная сессия захвата.
type CaptureSession struct {
	cfg Config

	mu          sync.Mutex
	configuring bool
	committed   bool
	running     bool
	released    bool
	inputs      []media.CameraInput
	outputs     []media.Output
}

func (s *CaptureSession) BeginConfig(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.released {
		return fmt.Errorf("%w: capture session", media.ErrReleased)
	}
	s.configuring = true
	return nil
}

func (s *CaptureSession) AddInput(ctx context.Context, in media.CameraInput) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.configuring {
		return media.ErrSessionConfig
	}
	s.inputs = append(s.inputs, in)
	return nil
}

func (s *CaptureSession) AddOutput(ctx context.Context, out media.Output) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.configuring {
		return media.ErrSessionConfig
	}
	s.outputs = append(s.outputs, out)
	return nil
}

func (s *CaptureSession) RemoveOutput(ctx context.Context, out media.Output) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.configuring {
		return media.ErrSessionConfig
	}
	for i, o := range s.outputs {
		if o == out {
			s.outputs = append(s.outputs[:i], s.outputs[i+1:]...)
			return nil
		}
	}
	return errors.New("output not in session")
}

func (s *CaptureSession) CommitConfig(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.configuring {
		return media.ErrSessionConfig
	}
	s.configuring = false
	s.committed = true
	return nil
}

func (s *CaptureSession) Start(ctx context.Context) error {
	if err := s.cfg.failure("session.start"); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.committed || len(s.inputs) == 0 {
		return fmt.Errorf("%w: session not configured", media.ErrInvalidState)
	}
	s.running = true
	return nil
}

func (s *CaptureSession) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.running = false
	return nil
}

func (s *CaptureSession) Release(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.released {
		return fmt.Errorf("%w: capture session", media.ErrReleased)
	}
	s.running = false
	s.released = true
	return nil
}

// Running возвращает true, пока сессия запущена.
func (s *CaptureSession) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Released возвращает true после Release.
func (s *CaptureSession) Released() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.released
}

// OutputCount возвращает число выходов в сессии.
func (s *CaptureSession) OutputCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.outputs)
}

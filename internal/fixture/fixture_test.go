package fixture

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/laiyoufafa/multimedia-player-framework/internal/domain"
	"github.com/laiyoufafa/multimedia-player-framework/internal/sim"
)

func newTestCamera(t *testing.T, p *sim.Platform) *Camera {
	t.Helper()
	ctx := context.Background()
	cams, err := p.Cameras.SupportedCameras(ctx)
	if err != nil {
		t.Fatalf("cameras: %v", err)
	}
	profile := domain.CameraProfile{Format: domain.CameraFormatYUV420SP, Size: domain.Size{Width: 640, Height: 480}}
	return NewCamera(p.Cameras, cams[0], profile, profile, slog.Default())
}

// --- Camera Tests ---

func TestCamera_StartStopRelease(t *testing.T) {
	ctx := context.Background()
	p := sim.NewPlatform(sim.Config{})
	cam := newTestCamera(t, p)

	if err := cam.StartVideoOutput(ctx, "1001", "preview-1"); err != nil {
		t.Fatalf("start: %v", err)
	}

	sessions := p.Cameras.Sessions()
	if len(sessions) != 1 || !sessions[0].Running() {
		t.Fatal("expected one running session")
	}
	if sessions[0].OutputCount() != 2 {
		t.Errorf("expected 2 outputs, got %d", sessions[0].OutputCount())
	}

	if err := cam.StopVideoOutput(ctx); err != nil {
		t.Fatalf("stop: %v", err)
	}
	if sessions[0].Running() {
		t.Error("session must be stopped")
	}
	if sessions[0].OutputCount() != 1 {
		t.Errorf("video output must be removed, got %d outputs", sessions[0].OutputCount())
	}
	if !p.Cameras.Inputs()[0].Closed() {
		t.Error("camera input must be closed")
	}

	if err := cam.Release(ctx); err != nil {
		t.Fatalf("release: %v", err)
	}
	for _, out := range p.Cameras.Outputs() {
		if !out.Released() {
			t.Errorf("%s output must be released", out.Kind)
		}
	}
	if !sessions[0].Released() {
		t.Error("session must be released")
	}
}

func TestCamera_StopBeforeStart(t *testing.T) {
	cam := newTestCamera(t, sim.NewPlatform(sim.Config{}))
	if err := cam.StopVideoOutput(context.Background()); !errors.Is(err, ErrCameraNotStarted) {
		t.Errorf("expected ErrCameraNotStarted, got %v", err)
	}
	if err := cam.Release(context.Background()); !errors.Is(err, ErrCameraNotStarted) {
		t.Errorf("expected ErrCameraNotStarted, got %v", err)
	}
}

func TestCamera_StartEmptySurface(t *testing.T) {
	cam := newTestCamera(t, sim.NewPlatform(sim.Config{}))
	if err := cam.StartVideoOutput(context.Background(), "", "preview-1"); err == nil {
		t.Error("expected error without recorder surface")
	}
}

func TestCamera_StopCollectsErrors(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")
	p := sim.NewPlatform(sim.Config{Failures: map[string]error{"output.stop": boom}})
	cam := newTestCamera(t, p)

	if err := cam.StartVideoOutput(ctx, "1001", "preview-1"); err != nil {
		t.Fatalf("start: %v", err)
	}

	err := cam.StopVideoOutput(ctx)
	if !errors.Is(err, boom) {
		t.Errorf("expected boom in joined error, got %v", err)
	}
	// Разборка продолжилась после ошибки.
	if !p.Cameras.Inputs()[0].Closed() {
		t.Error("camera input must be closed despite output stop error")
	}
}

// --- Page Tests ---

func TestPageNavigator_Alternates(t *testing.T) {
	ctx := context.Background()
	p := sim.NewPlatform(sim.Config{})
	nav := NewPageNavigator(p.Pages)

	if _, err := nav.Next(ctx); err != nil {
		t.Fatalf("next: %v", err)
	}
	if nav.PageID() != 1 {
		t.Errorf("expected page id 1, got %d", nav.PageID())
	}
	_, _ = nav.Next(ctx)
	if nav.PageID() != 0 {
		t.Errorf("expected page id 0, got %d", nav.PageID())
	}

	stack := p.Pages.Stack()
	if len(stack) != 2 || stack[0] != PagePath1 || stack[1] != PagePath2 {
		t.Errorf("unexpected page stack %v", stack)
	}

	_ = nav.Clear(ctx)
	if len(p.Pages.Stack()) != 0 {
		t.Error("expected empty stack")
	}
}

// --- File Tests ---

func TestFileStore_Open(t *testing.T) {
	store := FileStore{Dir: t.TempDir()}

	f, err := store.Open(RecordFileName(3), MediaTypeVideo)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	if f.Name != "avRecorder_func_03.mp4" {
		t.Errorf("unexpected name %s", f.Name)
	}
	if !strings.HasPrefix(f.URL(), "fd://") {
		t.Errorf("unexpected url %s", f.URL())
	}
	if _, err := os.Stat(f.Path); err != nil {
		t.Errorf("file must exist: %v", err)
	}

	if err := f.Close(); err != nil {
		t.Errorf("close: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Errorf("second close must be a no-op: %v", err)
	}
}

// --- Permission / Sleep Tests ---

func TestGrantPermissions(t *testing.T) {
	p := sim.NewPlatform(sim.Config{})
	if err := GrantPermissions(context.Background(), p.Permissions, 0, slog.Default()); err != nil {
		t.Fatalf("grant: %v", err)
	}
	for _, name := range RecorderPermissions {
		if !p.Permissions.Granted(name) {
			t.Errorf("%s not granted", name)
		}
	}
}

func TestSleep_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	if err := Sleep(ctx, time.Second); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if time.Since(start) > 500*time.Millisecond {
		t.Error("sleep must return immediately on cancelled context")
	}
}

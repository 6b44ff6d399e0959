package sim

import (
	"context"
	"fmt"
	"sync"

	"github.com/laiyoufafa/multimedia-player-framework/internal/media"
)

// Platform — симулированная платформа целиком.
type Platform struct {
	Recorders   *RecorderFactory
	Cameras     *CameraManager
	Permissions *Permissions
	Pages       *Pages
}

// NewPlatform создаёт симулированную платформу.
func NewPlatform(cfg Config) *Platform {
	cfg = cfg.withDefaults()
	return &Platform{
		Recorders:   &RecorderFactory{cfg: cfg},
		Cameras:     &CameraManager{cfg: cfg},
		Permissions: &Permissions{cfg: cfg, granted: make(map[string]bool)},
		Pages:       &Pages{},
	}
}

// Media возвращает платформу в виде набора интерфейсов.
func (p *Platform) Media() media.Platform {
	return media.Platform{
		Recorders:   p.Recorders,
		Cameras:     p.Cameras,
		Permissions: p.Permissions,
		Pages:       p.Pages,
	}
}

// Permissions — симулированная выдача разрешений.
type Permissions struct {
	cfg Config

	mu      sync.Mutex
	granted map[string]bool
}

func (p *Permissions) Grant(ctx context.Context, permissions []string) error {
	if err := p.cfg.failure("permissions"); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, name := range permissions {
		p.granted[name] = true
	}
	return nil
}

// Granted возвращает true, если разрешение выдано.
func (p *Permissions) Granted(name string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.granted[name]
}

// Pages — симулированный стек страниц.
type Pages struct {
	mu    sync.Mutex
	stack []string
	seq   int
}

func (p *Pages) Push(ctx context.Context, page string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stack = append(p.stack, page)
	p.seq++
	return fmt.Sprintf("preview-%d", p.seq), nil
}

func (p *Pages) Clear(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stack = nil
	return nil
}

// Stack возвращает текущий стек страниц.
func (p *Pages) Stack() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.stack...)
}

package usecase

import (
	"context"

	"career-report/pkg/infrastructure"
)

// ChromeEngine adapts the shared browser manager to RenderEngine.
func ChromeEngine(m *infrastructure.BrowserManager) RenderEngine {
	return chromeEngine{m: m}
}

type chromeEngine struct {
	m *infrastructure.BrowserManager
}

func (e chromeEngine) Acquire(ctx context.Context) (Renderer, error) {
	r, err := e.m.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (e chromeEngine) Reset() { e.m.Reset() }

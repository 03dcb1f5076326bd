package infrastructure

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/target"
	"github.com/chromedp/chromedp"
)

// BrowserState is the lifecycle state of the shared browser process.
type BrowserState int

const (
	StateAbsent BrowserState = iota
	StateLive
	StateDead
)

func (s BrowserState) String() string {
	switch s {
	case StateLive:
		return "live"
	case StateDead:
		return "dead"
	default:
		return "absent"
	}
}

const probeTimeout = 3 * time.Second

// BrowserOptions controls how the browser process is launched.
type BrowserOptions struct {
	ExecPath      string
	Production    bool
	RenderTimeout time.Duration
}

func (o BrowserOptions) allocatorOptions() []chromedp.ExecAllocatorOption {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("hide-scrollbars", true),
		chromedp.Flag("mute-audio", true),
	)
	if o.Production {
		opts = append(opts,
			chromedp.NoSandbox,
			chromedp.Flag("disable-setuid-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
			chromedp.Flag("no-zygote", true),
		)
	}
	if o.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(o.ExecPath))
	}
	return opts
}

// BrowserManager owns the single browser process shared by every request.
// The process is launched lazily and relaunched after Reset or a failed probe.
type BrowserManager struct {
	opts   BrowserOptions
	logger *slog.Logger

	mu            sync.Mutex
	state         BrowserState
	browserCtx    context.Context
	allocCancel   context.CancelFunc
	browserCancel context.CancelFunc
	launches      int
}

func NewBrowserManager(opts BrowserOptions, logger *slog.Logger) *BrowserManager {
	if opts.RenderTimeout <= 0 {
		opts.RenderTimeout = 60 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &BrowserManager{opts: opts, logger: logger}
}

// Acquire returns a renderer bound to the live browser, launching one if needed.
func (m *BrowserManager) Acquire(ctx context.Context) (*PageRenderer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == StateLive {
		if m.connected(ctx) {
			return &PageRenderer{browserCtx: m.browserCtx, timeout: m.opts.RenderTimeout}, nil
		}
		m.logger.Warn("browser connection lost, relaunching")
		m.state = StateDead
		m.teardown()
	}
	if err := m.launch(ctx); err != nil {
		return nil, err
	}
	return &PageRenderer{browserCtx: m.browserCtx, timeout: m.opts.RenderTimeout}, nil
}

// Reset force-terminates the browser process. The next Acquire launches a new one.
func (m *BrowserManager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == StateAbsent && m.browserCancel == nil {
		return
	}
	m.teardown()
	m.state = StateAbsent
	m.logger.Info("browser reset")
}

// Close terminates the browser on shutdown.
func (m *BrowserManager) Close() {
	m.Reset()
}

func (m *BrowserManager) State() BrowserState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Launches reports how many browser processes have been started.
func (m *BrowserManager) Launches() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.launches
}

// Targets lists the open browser targets, used for health introspection.
func (m *BrowserManager) Targets(ctx context.Context) ([]*target.Info, error) {
	m.mu.Lock()
	browserCtx := m.browserCtx
	live := m.state == StateLive
	m.mu.Unlock()
	if !live {
		return nil, nil
	}
	return getTargets(ctx, browserCtx)
}

func (m *BrowserManager) launch(ctx context.Context) error {
	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), m.opts.allocatorOptions()...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	// the browser outlives the request that triggered the launch, only the wait is bounded
	done := make(chan error, 1)
	go func() { done <- chromedp.Run(browserCtx) }()

	var err error
	select {
	case err = <-done:
	case <-ctx.Done():
		err = ctx.Err()
	}
	if err != nil {
		browserCancel()
		allocCancel()
		return fmt.Errorf("launch browser: %w", err)
	}

	m.browserCtx = browserCtx
	m.allocCancel = allocCancel
	m.browserCancel = browserCancel
	m.state = StateLive
	m.launches++
	m.logger.Info("browser launched", "launches", m.launches, "production", m.opts.Production)
	return nil
}

func (m *BrowserManager) connected(ctx context.Context) bool {
	if m.browserCtx == nil || m.browserCtx.Err() != nil {
		return false
	}
	pctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()
	_, err := getTargets(pctx, m.browserCtx)
	return err == nil
}

func (m *BrowserManager) teardown() {
	if m.browserCancel != nil {
		m.browserCancel()
	}
	if m.allocCancel != nil {
		m.allocCancel()
	}
	m.browserCtx = nil
	m.browserCancel = nil
	m.allocCancel = nil
}

func getTargets(ctx, browserCtx context.Context) ([]*target.Info, error) {
	c := chromedp.FromContext(browserCtx)
	if c == nil || c.Browser == nil {
		return nil, fmt.Errorf("browser not started")
	}
	return target.GetTargets().Do(cdp.WithExecutor(ctx, c.Browser))
}

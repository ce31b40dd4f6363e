// internal/browser/manager.go
package browser

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/xkilldash9x/stagehand/internal/config"
	"github.com/xkilldash9x/stagehand/pkg/screenplay/web"
)

const defaultLaunchTimeout = 30 * time.Second

// Manager owns the Chrome allocator and hands out isolated sessions. The
// browser is launched lazily, the first time a session is requested.
type Manager struct {
	logger *zap.Logger
	cfg    *config.Config

	// allocatorCtx manages the browser process configuration. All session contexts are derived from it.
	allocatorCtx    context.Context
	allocatorCancel context.CancelFunc

	initOnce sync.Once
	initErr  error

	mu       sync.Mutex
	sessions map[string]*Session
	// wg tracks open sessions for a graceful shutdown.
	wg sync.WaitGroup
}

// NewManager creates a manager. Nothing is launched until NewSession is called.
func NewManager(logger *zap.Logger, cfg *config.Config) *Manager {
	return &Manager{
		logger:   logger.Named("browser_manager"),
		cfg:      cfg,
		sessions: make(map[string]*Session),
	}
}

// start creates the allocator and checks that the browser responds.
func (m *Manager) start(ctx context.Context) error {
	m.initOnce.Do(func() {
		m.logger.Info("Initializing browser allocator...")

		// The allocator outlives the request that triggered the launch.
		m.allocatorCtx, m.allocatorCancel = chromedp.NewExecAllocator(context.Background(), DefaultAllocatorOptions(m.cfg.Browser)...)

		timeout := m.cfg.Browser.LaunchTimeout
		if timeout <= 0 {
			timeout = defaultLaunchTimeout
		}
		testCtx, cancelTest := context.WithTimeout(m.allocatorCtx, timeout)
		defer cancelTest()
		testCtx, cancelTestCtx := chromedp.NewContext(testCtx)
		defer cancelTestCtx()
		stop := context.AfterFunc(ctx, cancelTestCtx)
		defer stop()

		if err := chromedp.Run(testCtx, chromedp.Navigate("about:blank")); err != nil {
			m.allocatorCancel()
			m.initErr = fmt.Errorf("browser failed to start or respond: %w", err)
			return
		}
		m.logger.Info("Browser launched successfully and is responsive.")
	})
	return m.initErr
}

// AllocatorFlags turns the browser configuration into Chrome command-line
// flags, keyed by flag name without the leading dashes.
func AllocatorFlags(cfg config.BrowserConfig) map[string]any {
	flags := map[string]any{
		"headless":           cfg.Headless,
		"disable-gpu":        cfg.Headless,
		"disable-extensions": true,
	}

	if cfg.IgnoreTLSErrors {
		flags["ignore-certificate-errors"] = true
		flags["allow-insecure-localhost"] = true
	}
	if cfg.DisableCache {
		flags["disk-cache-size"] = "0"
		flags["media-cache-size"] = "0"
		flags["disable-cache"] = true
	}
	if cfg.Viewport.Width > 0 && cfg.Viewport.Height > 0 {
		flags["window-size"] = fmt.Sprintf("%d,%d", cfg.Viewport.Width, cfg.Viewport.Height)
	}
	if cfg.UserAgent != "" {
		flags["user-agent"] = cfg.UserAgent
	}

	// Flags required for running inside containers.
	if runtime.GOOS == "linux" {
		flags["no-sandbox"] = true
		flags["disable-dev-shm-usage"] = true
		flags["disable-setuid-sandbox"] = true
	}

	// Custom args come last so they can override anything above.
	for _, arg := range cfg.Args {
		name, value, hasValue := strings.Cut(strings.TrimPrefix(arg, "--"), "=")
		if name == "" {
			continue
		}
		if hasValue {
			flags[name] = value
		} else {
			flags[name] = true
		}
	}
	return flags
}

// DefaultAllocatorOptions combines chromedp's defaults with AllocatorFlags
// and the configured executable.
func DefaultAllocatorOptions(cfg config.BrowserConfig) []chromedp.ExecAllocatorOption {
	opts := append([]chromedp.ExecAllocatorOption(nil), chromedp.DefaultExecAllocatorOptions[:]...)
	for name, value := range AllocatorFlags(cfg) {
		opts = append(opts, chromedp.Flag(name, value))
	}
	if cfg.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(cfg.ExecPath))
	}
	return opts
}

// NewSession launches an isolated browser for a single actor.
func (m *Manager) NewSession(ctx context.Context) (*Session, error) {
	if err := m.start(ctx); err != nil {
		return nil, err
	}

	// Each session gets its own browser process, so storage is never shared between actors.
	tabCtx, cancel := chromedp.NewContext(m.allocatorCtx)
	session := newSession(tabCtx, cancel, m.cfg, m.logger)

	m.wg.Add(1)
	session.onClose = func() {
		m.mu.Lock()
		delete(m.sessions, session.ID())
		m.mu.Unlock()
		m.wg.Done()
		m.logger.Debug("Session removed from manager.", zap.String("session_id", session.ID()))
	}

	if err := session.initialize(ctx); err != nil {
		cleanupCtx, cleanupCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cleanupCancel()
		_ = session.Close(cleanupCtx)
		return nil, fmt.Errorf("failed to initialize session: %w", err)
	}

	m.mu.Lock()
	m.sessions[session.ID()] = session
	m.mu.Unlock()

	m.logger.Info("New session created.", zap.String("session_id", session.ID()))
	return session, nil
}

// Opener adapts NewSession to the signature web.BrowseTheWebUsing expects.
func (m *Manager) Opener() func(ctx context.Context) (web.Page, error) {
	return func(ctx context.Context) (web.Page, error) {
		return m.NewSession(ctx)
	}
}

// Shutdown closes every open session, waits for them, and stops the browser.
func (m *Manager) Shutdown(ctx context.Context) error {
	m.logger.Info("Browser manager shutdown initiated.")

	m.mu.Lock()
	open := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		open = append(open, s)
	}
	m.mu.Unlock()

	for _, s := range open {
		if err := s.Close(ctx); err != nil {
			m.logger.Warn("Error during session close in shutdown.", zap.String("session_id", s.ID()), zap.Error(err))
		}
	}

	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		m.logger.Info("All sessions have completed.")
	case <-ctx.Done():
		m.logger.Warn("Shutdown deadline exceeded. Forcing browser termination.", zap.Error(ctx.Err()))
	}

	if m.allocatorCancel != nil {
		m.allocatorCancel()
		<-m.allocatorCtx.Done()
	}
	return nil
}

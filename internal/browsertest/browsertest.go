// Package browsertest provides a local copy of the todo app and helpers for
// tests that need a real browser.
package browsertest

import (
	"context"
	_ "embed"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/xkilldash9x/stagehand/internal/browser"
	"github.com/xkilldash9x/stagehand/internal/config"
)

//go:embed todoapp.html
var todoAppHTML []byte

// TodoAppTitle is the title served by NewTodoAppServer.
const TodoAppTitle = "Serenity/JS TodoApp"

// NewTodoAppServer serves a minimal todo app with the same markup and
// storage format as todo-app.serenity-js.org.
func NewTodoAppServer(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(todoAppHTML)
	}))
	t.Cleanup(server.Close)
	return server
}

// chromeCandidates are the executable names chromedp looks for.
var chromeCandidates = []string{
	"headless_shell",
	"headless-shell",
	"chromium",
	"chromium-browser",
	"google-chrome",
	"google-chrome-stable",
	"google-chrome-beta",
	"google-chrome-unstable",
}

// RequireBrowser skips the test when no Chrome executable can be found.
func RequireBrowser(t *testing.T) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping browser test in short mode")
	}
	if os.Getenv("STAGEHAND_BROWSER_EXEC_PATH") != "" {
		return
	}
	for _, name := range chromeCandidates {
		if _, err := exec.LookPath(name); err == nil {
			return
		}
	}
	t.Skip("Chrome/Chromium not found in PATH")
}

// Config returns a configuration tuned for fast local browser tests.
func Config() *config.Config {
	cfg := config.NewDefaultConfig()
	cfg.Browser.Headless = true
	cfg.Browser.ExecPath = os.Getenv("STAGEHAND_BROWSER_EXEC_PATH")
	cfg.Screenplay.WaitTimeout = 5 * time.Second
	cfg.Screenplay.PollingInterval = 50 * time.Millisecond
	cfg.Screenplay.InteractionTimeout = 10 * time.Second
	return cfg
}

// NewManager returns a browser manager that is shut down with the test.
func NewManager(t *testing.T) *browser.Manager {
	t.Helper()
	RequireBrowser(t)

	logger := zaptest.NewLogger(t, zaptest.Level(zap.InfoLevel))
	mgr := browser.NewManager(logger, Config())
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		require.NoError(t, mgr.Shutdown(ctx))
	})
	return mgr
}

// NewSession opens a session that is closed with the test.
func NewSession(t *testing.T) *browser.Session {
	t.Helper()
	mgr := NewManager(t)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	session, err := mgr.NewSession(ctx)
	require.NoError(t, err, "failed to open a browser session")
	t.Cleanup(func() { _ = session.Close(context.Background()) })
	return session
}

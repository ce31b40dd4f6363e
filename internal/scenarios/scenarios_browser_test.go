package scenarios

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/xkilldash9x/stagehand/internal/browsertest"
)

// TestExamples_Local runs the practice scenario against a local todo app and
// a local status page.
func TestExamples_Local(t *testing.T) {
	mgr := browsertest.NewManager(t)
	todoApp := browsertest.NewTodoAppServer(t)
	statusPage := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":{"indicator":"none","description":"All Systems Operational"}}`))
	}))
	t.Cleanup(statusPage.Close)

	cfg := browsertest.Config()
	cfg.Targets.TodoAppURL = todoApp.URL + "/"
	cfg.Targets.GitHubStatusURL = statusPage.URL + "/api/v2/"

	logger := zaptest.NewLogger(t)
	runner := NewRunner(cfg, NewCast(cfg, mgr.Opener(), logger), logger)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	results, err := runner.Run(ctx, Filter(Examples(cfg.Targets), nil, []string{"api"}))
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.True(t, results[0].Success, results[0].Error)
	assert.NotEmpty(t, results[0].Events)
}

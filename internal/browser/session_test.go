// internal/browser/session_test.go
package browser_test

import (
	"context"
	"testing"
	"time"

	"github.com/chromedp/chromedp/kb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/stagehand/internal/browser"
	"github.com/xkilldash9x/stagehand/internal/browsertest"
	"github.com/xkilldash9x/stagehand/pkg/screenplay/web"
)

func TestSession(t *testing.T) {
	session := browsertest.NewSession(t)
	server := browsertest.NewTodoAppServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	require.NoError(t, session.Navigate(ctx, server.URL))

	t.Run("reads the page", func(t *testing.T) {
		title, err := session.Title(ctx)
		require.NoError(t, err)
		assert.Equal(t, browsertest.TodoAppTitle, title)

		location, err := session.URL(ctx)
		require.NoError(t, err)
		assert.Contains(t, location, server.URL)

		visible, err := session.Visible(ctx, ".new-todo")
		require.NoError(t, err)
		assert.True(t, visible)

		visible, err = session.Visible(ctx, ".does-not-exist")
		require.NoError(t, err)
		assert.False(t, visible)

		_, err = session.Text(ctx, ".does-not-exist")
		assert.ErrorIs(t, err, web.ErrElementNotFound)
	})

	t.Run("types, presses and clicks", func(t *testing.T) {
		for _, name := range []string{"Buy dog food", "Feed the dog"} {
			require.NoError(t, session.Type(ctx, ".new-todo", name))
			require.NoError(t, session.Press(ctx, ".new-todo", kb.Enter))
		}

		texts, err := session.TextAll(ctx, ".todo-list li")
		require.NoError(t, err)
		assert.Equal(t, []string{"Buy dog food", "Feed the dog"}, texts)

		ref, err := session.ElementAt(ctx, ".todo-list li", 1)
		require.NoError(t, err)
		require.NoError(t, session.Click(ctx, ref+" input.toggle"))

		// Rendering replaces the list, so look the element up again.
		ref, err = session.ElementAt(ctx, ".todo-list li", 1)
		require.NoError(t, err)
		classes, present, err := session.Attribute(ctx, ref, "class")
		require.NoError(t, err)
		assert.True(t, present)
		assert.Equal(t, "completed", classes)

		count, err := session.Text(ctx, ".todo-count strong")
		require.NoError(t, err)
		assert.Equal(t, "1", count)

		_, err = session.ElementAt(ctx, ".todo-list li", 5)
		assert.ErrorIs(t, err, web.ErrElementNotFound)
	})

	t.Run("evaluates scripts", func(t *testing.T) {
		var stored int
		require.NoError(t, session.Evaluate(ctx, `JSON.parse(window.localStorage['serenity-js-todo-app']).length`, &stored))
		assert.Equal(t, 2, stored)

		require.NoError(t, session.Evaluate(ctx, `window.localStorage.removeItem('serenity-js-todo-app')`, nil))
		require.NoError(t, session.Reload(ctx))

		texts, err := session.TextAll(ctx, ".todo-list li")
		require.NoError(t, err)
		assert.Empty(t, texts)
	})

	t.Run("close is idempotent", func(t *testing.T) {
		require.NoError(t, session.Close(ctx))
		require.NoError(t, session.Close(ctx))

		_, err := session.Title(ctx)
		assert.ErrorIs(t, err, browser.ErrSessionClosed)
	})
}

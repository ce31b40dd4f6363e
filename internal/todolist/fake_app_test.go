package todolist

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/chromedp/chromedp/kb"
	json "github.com/json-iterator/go"

	"github.com/xkilldash9x/stagehand/pkg/screenplay/web"
)

// fakeTodoApp simulates the todo app behind the web.Page interface.
type fakeTodoApp struct {
	mu      sync.Mutex
	title   string
	storage map[string]string
	loaded  bool
	input   string
	items   []PersistedItem
	nextID  int
	reloads int
	removed int
}

func newFakeTodoApp() *fakeTodoApp {
	return &fakeTodoApp{title: DefaultTitle, storage: map[string]string{}, nextID: 1}
}

// withStoredItems seeds local storage as if a previous visit left items behind.
func (a *fakeTodoApp) withStoredItems(items []PersistedItem) *fakeTodoApp {
	data, _ := json.Marshal(items)
	a.storage[DefaultStorageKey] = string(data)
	return a
}

func (a *fakeTodoApp) load() {
	a.items = nil
	if data, ok := a.storage[DefaultStorageKey]; ok {
		_ = json.Unmarshal([]byte(data), &a.items)
	}
	a.loaded = true
}

func (a *fakeTodoApp) save() {
	data, _ := json.Marshal(a.items)
	a.storage[DefaultStorageKey] = string(data)
}

func (a *fakeTodoApp) notFound(selector string) error {
	return &web.ElementNotFoundError{Description: selector, Selector: selector}
}

// refIndex extracts the item index from selectors produced by ElementAt.
func refIndex(selector string) (int, bool) {
	if !strings.HasPrefix(selector, `[data-stagehand-ref="`) {
		return 0, false
	}
	rest := strings.TrimPrefix(selector, `[data-stagehand-ref="`)
	end := strings.Index(rest, `"]`)
	if end < 0 {
		return 0, false
	}
	i, err := strconv.Atoi(rest[:end])
	return i, err == nil
}

func (a *fakeTodoApp) Navigate(context.Context, string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.load()
	return nil
}

func (a *fakeTodoApp) Reload(context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.reloads++
	a.load()
	return nil
}

func (a *fakeTodoApp) Title(context.Context) (string, error) { return a.title, nil }
func (a *fakeTodoApp) URL(context.Context) (string, error)   { return DefaultURL, nil }

func (a *fakeTodoApp) Text(_ context.Context, selector string) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if selector == ".todo-count strong" {
		outstanding := 0
		for _, item := range a.items {
			if !item.Completed {
				outstanding++
			}
		}
		return strconv.Itoa(outstanding), nil
	}
	if i, ok := refIndex(selector); ok && i < len(a.items) {
		return a.items[i].Name, nil
	}
	return "", a.notFound(selector)
}

func (a *fakeTodoApp) TextAll(_ context.Context, selector string) ([]string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	names := []string{}
	if selector == ".todo-list li" {
		for _, item := range a.items {
			names = append(names, item.Name)
		}
	}
	return names, nil
}

func (a *fakeTodoApp) Visible(_ context.Context, selector string) (bool, error) {
	return a.loaded && selector == ".new-todo", nil
}

func (a *fakeTodoApp) Attribute(_ context.Context, selector, name string) (string, bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	i, ok := refIndex(selector)
	if !ok || i >= len(a.items) {
		return "", false, a.notFound(selector)
	}
	if name == "class" && a.items[i].Completed {
		return completedClass, true, nil
	}
	return "", false, nil
}

func (a *fakeTodoApp) ElementAt(_ context.Context, selector string, index int) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if selector != ".todo-list li" || index >= len(a.items) {
		return "", a.notFound(selector)
	}
	return fmt.Sprintf(`[data-stagehand-ref="%d"]`, index), nil
}

func (a *fakeTodoApp) Type(_ context.Context, selector, text string) error {
	if selector != ".new-todo" {
		return a.notFound(selector)
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.input += text
	return nil
}

func (a *fakeTodoApp) Press(_ context.Context, selector, key string) error {
	if selector != ".new-todo" {
		return a.notFound(selector)
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if key == kb.Enter && strings.TrimSpace(a.input) != "" {
		a.items = append(a.items, PersistedItem{ID: a.nextID, Name: strings.TrimSpace(a.input)})
		a.nextID++
		a.input = ""
		a.save()
	}
	return nil
}

func (a *fakeTodoApp) Click(_ context.Context, selector string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	ref, found := strings.CutSuffix(selector, " input.toggle")
	i, ok := refIndex(ref)
	if !found || !ok || i >= len(a.items) {
		return a.notFound(selector)
	}
	a.items[i].Completed = !a.items[i].Completed
	a.save()
	return nil
}

func (a *fakeTodoApp) Evaluate(_ context.Context, expression string, res any) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	switch {
	case strings.Contains(expression, "removeItem"):
		a.removed++
		delete(a.storage, DefaultStorageKey)
		return nil
	case strings.Contains(expression, "JSON.parse"):
		data, ok := a.storage[DefaultStorageKey]
		if !ok {
			data = "[]"
		}
		return json.Unmarshal([]byte(data), res)
	}
	return fmt.Errorf("unexpected script: %s", expression)
}

func (a *fakeTodoApp) Close(context.Context) error { return nil }

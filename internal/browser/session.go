// internal/browser/session.go
package browser

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xkilldash9x/stagehand/internal/config"
	"github.com/xkilldash9x/stagehand/pkg/screenplay/web"
)

// ErrSessionClosed is returned by every operation on a closed session.
var ErrSessionClosed = errors.New("browser session is closed")

const defaultNavigationTimeout = 90 * time.Second

// Session is a browser tab driven through chromedp. It implements web.Page.
// Reads are one-shot snapshots evaluated in the page; only interactions wait
// for their element to be ready.
type Session struct {
	id     string
	ctx    context.Context
	cancel context.CancelFunc
	logger *zap.Logger
	cfg    *config.Config

	onClose func()

	mu       sync.Mutex
	isClosed bool
}

var _ web.Page = (*Session)(nil)

func newSession(ctx context.Context, cancel context.CancelFunc, cfg *config.Config, logger *zap.Logger) *Session {
	id := uuid.New().String()
	return &Session{
		id:     id,
		ctx:    ctx,
		cancel: cancel,
		cfg:    cfg,
		logger: logger.Named("session").With(zap.String("session_id", id)),
	}
}

// ID returns the unique session id.
func (s *Session) ID() string { return s.id }

// initialize starts the browser behind the tab and applies network settings.
func (s *Session) initialize(ctx context.Context) error {
	timeout := s.cfg.Browser.LaunchTimeout
	if timeout <= 0 {
		timeout = defaultLaunchTimeout
	}

	// The first Run allocates the browser and must use the tab context
	// itself: a derived deadline would kill the browser when it expires.
	errCh := make(chan error, 1)
	go func() {
		errCh <- chromedp.Run(s.ctx, s.setupTasks())
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to initialize browser context/target connection: %w", err)
		}
		return nil
	case <-timer.C:
		s.cancel()
		<-errCh
		return fmt.Errorf("browser did not start within %s", timeout)
	case <-ctx.Done():
		s.cancel()
		<-errCh
		return ctx.Err()
	}
}

func (s *Session) setupTasks() chromedp.Tasks {
	tasks := chromedp.Tasks{network.Enable()}
	if s.cfg.Browser.DisableCache {
		tasks = append(tasks, network.SetCacheDisabled(true))
	}
	if len(s.cfg.Network.Headers) > 0 {
		headers := make(network.Headers)
		for k, v := range s.cfg.Network.Headers {
			headers[k] = v
		}
		tasks = append(tasks, network.SetExtraHTTPHeaders(headers))
	}
	return tasks
}

// run executes actions in the tab, bounded by the caller's context.
func (s *Session) run(ctx context.Context, actions ...chromedp.Action) error {
	s.mu.Lock()
	closed := s.isClosed
	s.mu.Unlock()
	if closed {
		return ErrSessionClosed
	}

	opCtx, cancel := CombineContext(s.ctx, ctx)
	defer cancel()
	return chromedp.Run(opCtx, actions...)
}

// interact is run with the interaction timeout applied.
func (s *Session) interact(ctx context.Context, actions ...chromedp.Action) error {
	if timeout := s.cfg.Screenplay.InteractionTimeout; timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return s.run(ctx, actions...)
}

// Navigate loads url and waits for the load event.
func (s *Session) Navigate(ctx context.Context, url string) error {
	s.logger.Debug("Navigating to URL", zap.String("url", url))

	navTimeout := s.cfg.Network.NavigationTimeout
	if navTimeout <= 0 {
		navTimeout = defaultNavigationTimeout
	}
	navCtx, cancel := context.WithTimeout(ctx, navTimeout)
	defer cancel()

	if err := s.run(navCtx, chromedp.Navigate(url)); err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("navigation canceled: %w", ctx.Err())
		}
		if errors.Is(navCtx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("navigation to %s timed out after %s: %w", url, navTimeout, err)
		}
		return fmt.Errorf("navigation to %s failed: %w", url, err)
	}
	return nil
}

// Reload reloads the current page.
func (s *Session) Reload(ctx context.Context) error {
	if err := s.run(ctx, chromedp.Reload()); err != nil {
		return fmt.Errorf("reload failed: %w", err)
	}
	return nil
}

// Title returns the document title.
func (s *Session) Title(ctx context.Context) (string, error) {
	var title string
	err := s.run(ctx, chromedp.Title(&title))
	return title, err
}

// URL returns the current location.
func (s *Session) URL(ctx context.Context) (string, error) {
	var location string
	err := s.run(ctx, chromedp.Location(&location))
	return location, err
}

func (s *Session) Text(ctx context.Context, selector string) (string, error) {
	var res lookup
	if err := s.run(ctx, chromedp.Evaluate(jsText(selector), &res)); err != nil {
		return "", err
	}
	if !res.Found {
		return "", &web.ElementNotFoundError{Description: "element", Selector: selector}
	}
	return res.Text, nil
}

func (s *Session) TextAll(ctx context.Context, selector string) ([]string, error) {
	texts := []string{}
	err := s.run(ctx, chromedp.Evaluate(jsTextAll(selector), &texts))
	return texts, err
}

// Visible reports false, not an error, when nothing matches selector.
func (s *Session) Visible(ctx context.Context, selector string) (bool, error) {
	var visible bool
	err := s.run(ctx, chromedp.Evaluate(jsVisible(selector), &visible))
	return visible, err
}

func (s *Session) Attribute(ctx context.Context, selector, name string) (string, bool, error) {
	var attr lookup
	if err := s.run(ctx, chromedp.Evaluate(jsAttribute(selector, name), &attr)); err != nil {
		return "", false, err
	}
	if !attr.Found {
		return "", false, &web.ElementNotFoundError{Description: "element", Selector: selector}
	}
	return attr.Value, attr.Present, nil
}

func (s *Session) ElementAt(ctx context.Context, selector string, index int) (string, error) {
	ref := uuid.New().String()
	var tagged bool
	if err := s.run(ctx, chromedp.Evaluate(jsTagElement(selector, index, ref), &tagged)); err != nil {
		return "", err
	}
	if !tagged {
		return "", &web.ElementNotFoundError{Description: fmt.Sprintf("element %d", index+1), Selector: selector}
	}
	return refSelector(ref), nil
}

// Type focuses the element and types text into it.
func (s *Session) Type(ctx context.Context, selector, text string) error {
	s.logger.Debug("Typing into element", zap.String("selector", selector))
	return s.interact(ctx,
		chromedp.WaitVisible(selector, chromedp.ByQuery),
		chromedp.Focus(selector, chromedp.ByQuery),
		chromedp.SendKeys(selector, text, chromedp.ByQuery),
	)
}

// Press sends a single key, e.g. kb.Enter, to the element.
func (s *Session) Press(ctx context.Context, selector, key string) error {
	return s.interact(ctx, chromedp.SendKeys(selector, key, chromedp.ByQuery))
}

func (s *Session) Click(ctx context.Context, selector string) error {
	s.logger.Debug("Attempting to click element", zap.String("selector", selector))
	return s.interact(ctx,
		chromedp.ScrollIntoView(selector, chromedp.ByQuery),
		chromedp.WaitVisible(selector, chromedp.ByQuery),
		chromedp.Click(selector, chromedp.ByQuery),
	)
}

// Evaluate runs expression in the page. res may be nil to ignore the result.
func (s *Session) Evaluate(ctx context.Context, expression string, res any) error {
	return s.run(ctx, chromedp.Evaluate(expression, res))
}

// Close closes the tab. It is safe to call more than once.
func (s *Session) Close(ctx context.Context) error {
	s.mu.Lock()
	if s.isClosed {
		s.mu.Unlock()
		return nil
	}
	s.isClosed = true
	s.mu.Unlock()

	s.logger.Debug("Closing session.")
	closeCtx, cancel := CombineContext(s.ctx, ctx)
	err := chromedp.Cancel(closeCtx)
	cancel()
	s.cancel()

	if s.onClose != nil {
		s.onClose()
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("failed to close session %s: %w", s.id, err)
	}
	return nil
}

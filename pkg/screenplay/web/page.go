// Package web gives Screenplay actors the ability to browse the web.
//
// Interactions and questions in this package talk to a Page, which is
// implemented with chromedp by internal/browser. Reads are snapshots: a
// question never waits for an element to appear. Use screenplay.WaitUntil
// (or WaitUntilVisible) when timing matters.
package web

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// Page is a single browser tab.
type Page interface {
	Navigate(ctx context.Context, url string) error
	Reload(ctx context.Context) error
	Title(ctx context.Context) (string, error)
	URL(ctx context.Context) (string, error)

	// Text returns the rendered text of the first element matching selector.
	Text(ctx context.Context, selector string) (string, error)
	// TextAll returns the rendered text of every element matching selector.
	TextAll(ctx context.Context, selector string) ([]string, error)
	// Visible reports whether the first element matching selector is displayed.
	Visible(ctx context.Context, selector string) (bool, error)
	// Attribute returns an attribute of the first element matching selector.
	Attribute(ctx context.Context, selector, name string) (string, bool, error)
	// ElementAt tags the index-th element matching selector and returns a
	// selector that identifies exactly that element.
	ElementAt(ctx context.Context, selector string, index int) (string, error)

	Type(ctx context.Context, selector, text string) error
	Press(ctx context.Context, selector, key string) error
	Click(ctx context.Context, selector string) error
	// Evaluate runs a JavaScript expression and decodes its result into res.
	Evaluate(ctx context.Context, expression string, res any) error

	Close(ctx context.Context) error
}

// ErrElementNotFound is wrapped by every error reporting a missing element.
var ErrElementNotFound = errors.New("element not found")

// ElementNotFoundError reports that no element matched a locator.
type ElementNotFoundError struct {
	Description string
	Selector    string
}

func (e *ElementNotFoundError) Error() string {
	return fmt.Sprintf("no element matched %s (%s)", e.Description, e.Selector)
}

func (e *ElementNotFoundError) Unwrap() error { return ErrElementNotFound }

// BrowseTheWeb is the ability to interact with a Page.
type BrowseTheWeb struct {
	open func(ctx context.Context) (Page, error)

	mu   sync.Mutex
	page Page
}

// BrowseTheWebWith gives an actor an already opened page.
func BrowseTheWebWith(page Page) *BrowseTheWeb {
	return &BrowseTheWeb{page: page}
}

// BrowseTheWebUsing opens a page lazily, the first time the actor needs one.
func BrowseTheWebUsing(open func(ctx context.Context) (Page, error)) *BrowseTheWeb {
	return &BrowseTheWeb{open: open}
}

// Page returns the actor's page, opening it if needed.
func (b *BrowseTheWeb) Page(ctx context.Context) (Page, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.page != nil {
		return b.page, nil
	}
	if b.open == nil {
		return nil, errors.New("no page to browse")
	}
	page, err := b.open(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to open a browser page: %w", err)
	}
	b.page = page
	return page, nil
}

// Discard closes the page if one was opened.
func (b *BrowseTheWeb) Discard(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.page == nil {
		return nil
	}
	err := b.page.Close(ctx)
	b.page = nil
	return err
}

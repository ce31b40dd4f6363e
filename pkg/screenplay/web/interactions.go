package web

import (
	"context"
	"fmt"
	"strings"

	"github.com/xkilldash9x/stagehand/pkg/screenplay"
)

// pageOf returns the page of an actor who can browse the web.
func pageOf(ctx context.Context, actor *screenplay.Actor) (Page, error) {
	ability, err := screenplay.AbilityOf[*BrowseTheWeb](actor)
	if err != nil {
		return nil, err
	}
	return ability.Page(ctx)
}

// withElement resolves el on the actor's page and hands its selector to fn.
func withElement(ctx context.Context, actor *screenplay.Actor, el *PageElement, fn func(page Page, selector string) error) error {
	page, err := pageOf(ctx, actor)
	if err != nil {
		return err
	}
	selector, err := el.Selector(ctx, page)
	if err != nil {
		return err
	}
	return fn(page, selector)
}

// Navigate opens a URL in the actor's browser.
func Navigate(url string) screenplay.Activity {
	return screenplay.Interaction(screenplay.Describe("#actor navigates to %s", url), func(ctx context.Context, actor *screenplay.Actor) error {
		page, err := pageOf(ctx, actor)
		if err != nil {
			return err
		}
		return page.Navigate(ctx, url)
	})
}

// ReloadPage reloads the current page.
func ReloadPage() screenplay.Activity {
	return screenplay.Interaction("#actor reloads the page", func(ctx context.Context, actor *screenplay.Actor) error {
		page, err := pageOf(ctx, actor)
		if err != nil {
			return err
		}
		return page.Reload(ctx)
	})
}

// EnterBuilder is returned by Enter; call Into to pick the field.
type EnterBuilder struct{ value string }

// Enter types a value into a form field.
func Enter(value string) EnterBuilder { return EnterBuilder{value: value} }

// Into names the field to type into.
func (b EnterBuilder) Into(field *PageElement) screenplay.Activity {
	description := fmt.Sprintf("#actor enters %s into %s", screenplay.Describe("%s", b.value), field)
	return screenplay.Interaction(description, func(ctx context.Context, actor *screenplay.Actor) error {
		return withElement(ctx, actor, field, func(page Page, selector string) error {
			return page.Type(ctx, selector, b.value)
		})
	})
}

// PressBuilder is returned by Press; call In to pick the element.
type PressBuilder struct{ key Key }

// Press sends a key to an element.
func Press(key Key) PressBuilder { return PressBuilder{key: key} }

// In names the element that receives the key.
func (b PressBuilder) In(el *PageElement) screenplay.Activity {
	description := fmt.Sprintf("#actor presses %s in %s", b.key, el)
	return screenplay.Interaction(description, func(ctx context.Context, actor *screenplay.Actor) error {
		return withElement(ctx, actor, el, func(page Page, selector string) error {
			return page.Press(ctx, selector, b.key.Value)
		})
	})
}

// Click clicks on an element.
func Click(el *PageElement) screenplay.Activity {
	return screenplay.Interaction(fmt.Sprintf("#actor clicks on %s", el), func(ctx context.Context, actor *screenplay.Actor) error {
		return withElement(ctx, actor, el, func(page Page, selector string) error {
			return page.Click(ctx, selector)
		})
	})
}

// ExecuteScript runs a synchronous script in the page. The body may use
// return like a function body does.
func ExecuteScript(body string) screenplay.Activity {
	return screenplay.Interaction("#actor executes a synchronous script", func(ctx context.Context, actor *screenplay.Actor) error {
		page, err := pageOf(ctx, actor)
		if err != nil {
			return err
		}
		if err := page.Evaluate(ctx, wrapScript(body), nil); err != nil {
			return fmt.Errorf("script failed: %w", err)
		}
		return nil
	})
}

// WaitUntilVisible waits for an element to be displayed.
func WaitUntilVisible(el *PageElement, opts ...screenplay.WaitOption) screenplay.Activity {
	return screenplay.WaitUntil(IsVisible(el), screenplay.IsTrue(), opts...)
}

// wrapScript turns a function body into an expression.
func wrapScript(body string) string {
	return "(function () {\n" + strings.TrimSpace(body) + "\n})()"
}

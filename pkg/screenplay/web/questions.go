package web

import (
	"context"
	"errors"
	"fmt"

	"github.com/xkilldash9x/stagehand/pkg/screenplay"
)

// PageTitle answers with the title of the current page.
func PageTitle() screenplay.Question[string] {
	return screenplay.NewQuestion("title of the current page", func(ctx context.Context, actor *screenplay.Actor) (string, error) {
		page, err := pageOf(ctx, actor)
		if err != nil {
			return "", err
		}
		return page.Title(ctx)
	})
}

// CurrentURL answers with the URL of the current page.
func CurrentURL() screenplay.Question[string] {
	return screenplay.NewQuestion("URL of the current page", func(ctx context.Context, actor *screenplay.Actor) (string, error) {
		page, err := pageOf(ctx, actor)
		if err != nil {
			return "", err
		}
		return page.URL(ctx)
	})
}

// TextOf answers with the rendered text of an element.
func TextOf(el *PageElement) screenplay.Question[string] {
	return screenplay.NewQuestion(fmt.Sprintf("the text of %s", el), func(ctx context.Context, actor *screenplay.Actor) (string, error) {
		var text string
		err := withElement(ctx, actor, el, func(page Page, selector string) (err error) {
			text, err = page.Text(ctx, selector)
			return err
		})
		return text, err
	})
}

// TextOfAll answers with the rendered text of every element in a list.
func TextOfAll(els *PageElements) screenplay.Question[[]string] {
	return screenplay.NewQuestion(fmt.Sprintf("the text of %s", els), func(ctx context.Context, actor *screenplay.Actor) ([]string, error) {
		page, err := pageOf(ctx, actor)
		if err != nil {
			return nil, err
		}
		return els.texts(ctx, page)
	})
}

// CSSClassesOf answers with the CSS classes of an element.
func CSSClassesOf(el *PageElement) screenplay.Question[[]string] {
	return screenplay.NewQuestion(fmt.Sprintf("CSS classes of %s", el), func(ctx context.Context, actor *screenplay.Actor) ([]string, error) {
		var classes []string
		err := withElement(ctx, actor, el, func(page Page, selector string) error {
			attr, _, err := page.Attribute(ctx, selector, "class")
			classes = cssClasses(attr)
			return err
		})
		return classes, err
	})
}

// AttributeOf answers with the value of an attribute of an element.
func AttributeOf(name string, el *PageElement) screenplay.Question[string] {
	description := fmt.Sprintf("the value of the %s attribute of %s", screenplay.Describe("%s", name), el)
	return screenplay.NewQuestion(description, func(ctx context.Context, actor *screenplay.Actor) (string, error) {
		var value string
		err := withElement(ctx, actor, el, func(page Page, selector string) (err error) {
			value, _, err = page.Attribute(ctx, selector, name)
			return err
		})
		return value, err
	})
}

// IsVisible answers whether an element is displayed. A missing element is
// not visible.
func IsVisible(el *PageElement) screenplay.Question[bool] {
	return screenplay.NewQuestion(fmt.Sprintf("visibility of %s", el), func(ctx context.Context, actor *screenplay.Actor) (bool, error) {
		var visible bool
		err := withElement(ctx, actor, el, func(page Page, selector string) (err error) {
			visible, err = page.Visible(ctx, selector)
			return err
		})
		if errors.Is(err, ErrElementNotFound) {
			return false, nil
		}
		return visible, err
	})
}

// EvaluateScript answers with the result of a synchronous script, decoded
// into T. The body may use return like a function body does.
func EvaluateScript[T any](description, body string) screenplay.Question[T] {
	return screenplay.NewQuestion(description, func(ctx context.Context, actor *screenplay.Actor) (T, error) {
		var result T
		page, err := pageOf(ctx, actor)
		if err != nil {
			return result, err
		}
		if err := page.Evaluate(ctx, wrapScript(body), &result); err != nil {
			return result, fmt.Errorf("could not evaluate %s: %w", description, err)
		}
		return result, nil
	})
}

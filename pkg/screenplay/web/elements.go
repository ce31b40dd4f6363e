package web

import (
	"context"
	"fmt"
	"strings"

	"github.com/xkilldash9x/stagehand/pkg/screenplay"
)

// By is a strategy for locating elements, expressed as a CSS selector.
type By struct {
	selector    string
	description string
}

// ByCSS locates elements matching a CSS selector.
func ByCSS(selector string) By {
	return By{selector: selector, description: fmt.Sprintf("css (%q)", selector)}
}

// ByID locates the element with the given id.
func ByID(id string) By {
	return By{selector: "#" + id, description: fmt.Sprintf("id (%q)", "#"+id)}
}

// ByTagName locates elements by tag name.
func ByTagName(tag string) By {
	return By{selector: tag, description: fmt.Sprintf("tag name (%q)", tag)}
}

func (b By) String() string { return b.description }

// PageElement identifies a single element on the page.
type PageElement struct {
	description string
	resolve     func(ctx context.Context, page Page) (string, error)
}

// Located returns the first element matching by.
func Located(by By) *PageElement {
	return &PageElement{
		description: "page element located by " + by.String(),
		resolve: func(context.Context, Page) (string, error) {
			return by.selector, nil
		},
	}
}

// Of scopes the element to descendants of parent.
func (e *PageElement) Of(parent *PageElement) *PageElement {
	return &PageElement{
		description: fmt.Sprintf("%s of %s", e.description, parent.description),
		resolve: func(ctx context.Context, page Page) (string, error) {
			parentSelector, err := parent.resolve(ctx, page)
			if err != nil {
				return "", err
			}
			childSelector, err := e.resolve(ctx, page)
			if err != nil {
				return "", err
			}
			return descendant(parentSelector, childSelector), nil
		},
	}
}

// descendant joins two selectors with the descendant combinator. Selector
// lists are wrapped in :is() so the combinator applies to every entry.
func descendant(parent, child string) string {
	group := func(selector string) string {
		if strings.Contains(selector, ",") {
			return ":is(" + selector + ")"
		}
		return selector
	}
	return group(parent) + " " + group(child)
}

// DescribedAs gives the element a human-readable description.
func (e *PageElement) DescribedAs(description string) *PageElement {
	return &PageElement{description: description, resolve: e.resolve}
}

func (e *PageElement) String() string { return e.description }

// Selector resolves the element to a CSS selector on page.
func (e *PageElement) Selector(ctx context.Context, page Page) (string, error) {
	return e.resolve(ctx, page)
}

// Property reads one value per element from a list of elements.
type Property struct {
	name   string
	values func(ctx context.Context, page Page, selector string) ([]string, error)
}

// Text is the rendered text of an element.
var Text = Property{
	name: "text",
	values: func(ctx context.Context, page Page, selector string) ([]string, error) {
		return page.TextAll(ctx, selector)
	},
}

type filter struct {
	property    Property
	expectation screenplay.Expectation[string]
}

// PageElements identifies a list of elements.
type PageElements struct {
	description string
	selector    string
	filters     []filter
}

// LocatedAll returns every element matching by.
func LocatedAll(by By) *PageElements {
	return &PageElements{
		description: "page elements located by " + by.String(),
		selector:    by.selector,
	}
}

// DescribedAs gives the list a human-readable description.
func (e *PageElements) DescribedAs(description string) *PageElements {
	clone := *e
	clone.description = description
	return &clone
}

// Where keeps only the elements whose property meets the expectation.
func (e *PageElements) Where(property Property, expectation screenplay.Expectation[string]) *PageElements {
	clone := *e
	clone.filters = append(append([]filter(nil), e.filters...), filter{property: property, expectation: expectation})
	clone.description = fmt.Sprintf("%s where %s does %s", e.description, property.name, expectation)
	return &clone
}

// First returns the first element of the list.
func (e *PageElements) First() *PageElement {
	return e.Nth(0)
}

// Nth returns the element at the given position of the (filtered) list.
func (e *PageElements) Nth(position int) *PageElement {
	description := fmt.Sprintf("element %d of %s", position+1, e.description)
	if position == 0 {
		description = "first of " + e.description
	}
	return &PageElement{
		description: description,
		resolve: func(ctx context.Context, page Page) (string, error) {
			if len(e.filters) == 0 {
				if position == 0 {
					return e.selector, nil
				}
				return page.ElementAt(ctx, e.selector, position)
			}
			indices, err := e.matching(ctx, page)
			if err != nil {
				return "", err
			}
			if position >= len(indices) {
				return "", &ElementNotFoundError{Description: e.description, Selector: e.selector}
			}
			return page.ElementAt(ctx, e.selector, indices[position])
		},
	}
}

func (e *PageElements) String() string { return e.description }

// matching returns the indices of the elements that pass every filter.
func (e *PageElements) matching(ctx context.Context, page Page) ([]int, error) {
	var indices []int
	for _, f := range e.filters {
		values, err := f.property.values(ctx, page, e.selector)
		if err != nil {
			return nil, err
		}
		if indices == nil {
			indices = make([]int, len(values))
			for i := range values {
				indices[i] = i
			}
		}
		kept := indices[:0]
		for _, i := range indices {
			if i < len(values) && f.expectation.Evaluate(values[i]).Met {
				kept = append(kept, i)
			}
		}
		indices = kept
	}
	return indices, nil
}

// texts returns the text of every element in the (filtered) list.
func (e *PageElements) texts(ctx context.Context, page Page) ([]string, error) {
	all, err := page.TextAll(ctx, e.selector)
	if err != nil {
		return nil, err
	}
	if len(e.filters) == 0 {
		return all, nil
	}
	indices, err := e.matching(ctx, page)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(indices))
	for _, i := range indices {
		if i < len(all) {
			out = append(out, all[i])
		}
	}
	return out, nil
}

// cssClasses splits a class attribute.
func cssClasses(attr string) []string {
	return strings.Fields(attr)
}

package web

import "github.com/chromedp/chromedp/kb"

// Key is a keyboard key that can be pressed in an element.
type Key struct {
	Name  string
	Value string
}

func (k Key) String() string { return k.Name }

var (
	KeyEnter     = Key{Name: "Enter", Value: kb.Enter}
	KeyTab       = Key{Name: "Tab", Value: kb.Tab}
	KeyEscape    = Key{Name: "Escape", Value: kb.Escape}
	KeyBackspace = Key{Name: "Backspace", Value: kb.Backspace}
)

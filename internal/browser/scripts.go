// internal/browser/scripts.go
package browser

import (
	"fmt"

	json "github.com/json-iterator/go"
)

// refAttribute tags elements picked out of a list so they can be addressed
// by a selector of their own.
const refAttribute = "data-stagehand-ref"

// lookup is the shape returned by scripts that may not find their element.
// Scripts never return null, which chromedp refuses to decode.
type lookup struct {
	Found   bool   `json:"found"`
	Text    string `json:"text"`
	Present bool   `json:"present"`
	Value   string `json:"value"`
}

// jsString quotes s as a JavaScript string literal.
func jsString(s string) string {
	b, err := json.Marshal(s)
	if err != nil {
		// Marshalling a string cannot fail.
		panic(err)
	}
	return string(b)
}

func jsText(selector string) string {
	return fmt.Sprintf(`(() => {
	const el = document.querySelector(%s);
	if (!el) return { found: false, text: "" };
	return { found: true, text: (el.innerText ?? el.textContent ?? "").trim() };
})()`, jsString(selector))
}

func jsTextAll(selector string) string {
	return fmt.Sprintf(`Array.from(document.querySelectorAll(%s)).map(el => (el.innerText ?? el.textContent ?? "").trim())`, jsString(selector))
}

func jsVisible(selector string) string {
	return fmt.Sprintf(`(() => {
	const el = document.querySelector(%s);
	if (!el) return false;
	const style = window.getComputedStyle(el);
	if (style.display === "none" || style.visibility === "hidden" || style.opacity === "0") return false;
	const rect = el.getBoundingClientRect();
	return rect.width > 0 && rect.height > 0;
})()`, jsString(selector))
}

func jsAttribute(selector, name string) string {
	return fmt.Sprintf(`(() => {
	const el = document.querySelector(%s);
	if (!el) return { found: false, present: false, value: "" };
	return { found: true, present: el.hasAttribute(%s), value: el.getAttribute(%s) ?? "" };
})()`, jsString(selector), jsString(name), jsString(name))
}

func jsTagElement(selector string, index int, ref string) string {
	return fmt.Sprintf(`(() => {
	const els = document.querySelectorAll(%s);
	if (%d >= els.length) return false;
	els[%d].setAttribute(%s, %s);
	return true;
})()`, jsString(selector), index, index, jsString(refAttribute), jsString(ref))
}

func refSelector(ref string) string {
	return fmt.Sprintf(`[%s=%s]`, refAttribute, jsString(ref))
}

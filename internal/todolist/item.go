package todolist

import (
	"fmt"

	"github.com/xkilldash9x/stagehand/pkg/screenplay"
	"github.com/xkilldash9x/stagehand/pkg/screenplay/web"
)

const completedClass = "completed"

// MarkItemAsCompleted toggles the item unless it is already completed.
func MarkItemAsCompleted(item *web.PageElement) screenplay.Activity {
	return screenplay.Task(fmt.Sprintf("#actor marks %s as completed", item),
		screenplay.CheckWhether(web.CSSClassesOf(item), screenplay.Not(screenplay.Contains(completedClass))).
			AndIfSo(toggle(item)),
	)
}

// MarkItemAsOutstanding toggles the item if it is completed.
func MarkItemAsOutstanding(item *web.PageElement) screenplay.Activity {
	return screenplay.Task(fmt.Sprintf("#actor marks %s as outstanding", item),
		screenplay.CheckWhether(web.CSSClassesOf(item), screenplay.Contains(completedClass)).
			AndIfSo(toggle(item)),
	)
}

func toggle(item *web.PageElement) screenplay.Activity {
	return web.Click(web.Located(web.ByCSS("input.toggle")).Of(item).DescribedAs(fmt.Sprintf("toggle of %s", item)))
}

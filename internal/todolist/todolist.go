// Package todolist holds the tasks and questions an actor needs to work with
// the Serenity/JS TodoApp.
package todolist

import (
	"fmt"

	json "github.com/json-iterator/go"

	"github.com/xkilldash9x/stagehand/pkg/screenplay"
	"github.com/xkilldash9x/stagehand/pkg/screenplay/web"
)

const (
	DefaultURL        = "https://todo-app.serenity-js.org/"
	DefaultTitle      = "Serenity/JS TodoApp"
	DefaultStorageKey = "serenity-js-todo-app"
)

// PersistedItem is an item as the app stores it in local storage.
type PersistedItem struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Completed bool   `json:"completed"`
}

// App describes a deployment of the todo app.
type App struct {
	URL        string
	Title      string
	StorageKey string
}

// Default is the public deployment.
func Default() App {
	return At(DefaultURL)
}

// At is the todo app served from url.
func At(url string) App {
	return App{URL: url, Title: DefaultTitle, StorageKey: DefaultStorageKey}
}

// CreateEmptyList opens the app and makes sure the list starts empty.
func (a App) CreateEmptyList() screenplay.Activity {
	return screenplay.Task("#actor creates an empty todo list",
		web.Navigate(a.URL),
		screenplay.Ensure(
			screenplay.DescribedAs(web.PageTitle(), "website title"),
			screenplay.Equals(a.Title),
		),
		web.WaitUntilVisible(newTodoInput()),
		a.emptyLocalStorageIfNeeded(),
	)
}

// CreateListContaining starts with an empty list and records every item.
func (a App) CreateListContaining(itemNames []string) screenplay.Activity {
	activities := []screenplay.Activity{a.CreateEmptyList()}
	for _, name := range itemNames {
		activities = append(activities, a.RecordItem(name))
	}
	return screenplay.Task(fmt.Sprintf("#actor starts with a list containing %d items", len(itemNames)), activities...)
}

// RecordItem adds an item and waits until it is displayed.
func (a App) RecordItem(itemName string) screenplay.Activity {
	return screenplay.Task(screenplay.Describe("#actor records an item called %s", itemName),
		web.Enter(itemName).Into(newTodoInput()),
		web.Press(web.KeyEnter).In(newTodoInput()),
		screenplay.WaitUntil(web.TextOfAll(items()), screenplay.Contains(itemName)),
	)
}

// MarkAsCompleted marks each named item as completed.
func (a App) MarkAsCompleted(itemNames []string) screenplay.Activity {
	activities := make([]screenplay.Activity, 0, len(itemNames))
	for _, name := range itemNames {
		activities = append(activities, MarkItemAsCompleted(itemCalled(name)))
	}
	return screenplay.Task(screenplay.Describe("#actor marks the following items as completed: %s", itemNames), activities...)
}

// MarkAsOutstanding marks each named item as outstanding.
func (a App) MarkAsOutstanding(itemNames []string) screenplay.Activity {
	activities := make([]screenplay.Activity, 0, len(itemNames))
	for _, name := range itemNames {
		activities = append(activities, MarkItemAsOutstanding(itemCalled(name)))
	}
	return screenplay.Task(screenplay.Describe("#actor marks the following items as outstanding: %s", itemNames), activities...)
}

// OutstandingItemsCount is the number shown by the "items left" counter.
func (a App) OutstandingItemsCount() screenplay.Question[int] {
	return screenplay.DescribedAs(
		screenplay.Number(web.TextOf(web.Located(web.ByTagName("strong")).Of(outstandingItemsLabel()))),
		"number of items left",
	)
}

// PersistedItems answers with the items saved in local storage.
func (a App) PersistedItems() screenplay.Question[[]PersistedItem] {
	key := jsString(a.StorageKey)
	return web.EvaluateScript[[]PersistedItem]("persisted items", fmt.Sprintf(`
		return window.localStorage[%s]
			? JSON.parse(window.localStorage[%s])
			: []
	`, key, key))
}

func (a App) emptyLocalStorageIfNeeded() screenplay.Activity {
	return screenplay.Task("#actor empties local storage if needed",
		screenplay.CheckWhether(screenplay.Length(a.PersistedItems()), screenplay.IsGreaterThan(0)).
			AndIfSo(
				a.emptyLocalStorage(),
				web.ReloadPage(),
			),
	)
}

func (a App) emptyLocalStorage() screenplay.Activity {
	return screenplay.Task("#actor empties local storage",
		web.ExecuteScript(fmt.Sprintf("window.localStorage.removeItem(%s)", jsString(a.StorageKey))),
	)
}

// CreateEmptyList works with the default deployment.
func CreateEmptyList() screenplay.Activity { return Default().CreateEmptyList() }

// CreateListContaining works with the default deployment.
func CreateListContaining(itemNames []string) screenplay.Activity {
	return Default().CreateListContaining(itemNames)
}

// RecordItem works with the default deployment.
func RecordItem(itemName string) screenplay.Activity { return Default().RecordItem(itemName) }

// MarkAsCompleted works with the default deployment.
func MarkAsCompleted(itemNames []string) screenplay.Activity {
	return Default().MarkAsCompleted(itemNames)
}

// MarkAsOutstanding works with the default deployment.
func MarkAsOutstanding(itemNames []string) screenplay.Activity {
	return Default().MarkAsOutstanding(itemNames)
}

// OutstandingItemsCount works with the default deployment.
func OutstandingItemsCount() screenplay.Question[int] { return Default().OutstandingItemsCount() }

func itemCalled(name string) *web.PageElement {
	return items().
		Where(web.Text, screenplay.Includes(name)).
		First().
		DescribedAs(screenplay.Describe("an item called %s", name))
}

func outstandingItemsLabel() *web.PageElement {
	return web.Located(web.ByCSS(".todo-count")).DescribedAs("items left counter")
}

func newTodoInput() *web.PageElement {
	return web.Located(web.ByCSS(".new-todo")).DescribedAs(`"What needs to be done?" input box`)
}

func items() *web.PageElements {
	return web.LocatedAll(web.ByCSS(".todo-list li")).DescribedAs("displayed items")
}

// jsString quotes s as a JavaScript string literal.
func jsString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

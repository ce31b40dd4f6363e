// Package scenarios defines the example scenarios and runs them.
package scenarios

import (
	"context"
	"slices"
	"strings"

	"github.com/xkilldash9x/stagehand/internal/config"
	"github.com/xkilldash9x/stagehand/internal/githubstatus"
	"github.com/xkilldash9x/stagehand/internal/todolist"
	"github.com/xkilldash9x/stagehand/pkg/screenplay"
	"github.com/xkilldash9x/stagehand/pkg/screenplay/web"
)

// Scenario is a named sequence of actor activities.
type Scenario struct {
	Name        string
	Description string
	Tags        []string
	Run         func(ctx context.Context, stage *screenplay.Stage) error
}

// Examples returns the example suite, pointed at the configured targets.
func Examples(targets config.TargetsConfig) []Scenario {
	return []Scenario{
		{
			Name:        "offers a web testing tutorial",
			Description: "A single actor uses low-level web interactions to check the Serenity/JS website.",
			Tags:        []string{"web"},
			Run: func(ctx context.Context, stage *screenplay.Stage) error {
				return stage.ActorCalled("Alice").AttemptsTo(ctx,
					web.Navigate(targets.SerenityURL),
					screenplay.Ensure(
						web.TextOf(web.Located(web.ByID("cta-start-automating"))),
						screenplay.Equals("Start automating 🚀"),
					),
				)
			},
		},
		{
			Name:        "offers examples to help you practice test automation",
			Description: "Apisitt checks that GitHub is up before Wendy works with the todo app.",
			Tags:        []string{"api", "web"},
			Run: func(ctx context.Context, stage *screenplay.Stage) error {
				status := githubstatus.API{BaseURL: targets.GitHubStatusURL}
				if err := stage.ActorCalled("Apisitt").AttemptsTo(ctx, status.EnsureAllSystemsOperational()); err != nil {
					return err
				}

				app := todolist.At(targets.TodoAppURL)
				return stage.ActorCalled("Wendy").AttemptsTo(ctx,
					app.CreateListContaining([]string{"Buy dog food", "Feed the dog", "Book a vet's appointment"}),
					app.MarkAsCompleted([]string{"Buy dog food", "Feed the dog"}),
					screenplay.Ensure(app.OutstandingItemsCount(), screenplay.Equals(1)),
				)
			},
		},
	}
}

// Filter keeps the scenarios whose name contains one of names or that carry
// one of tags. With no names and no tags every scenario is kept.
func Filter(scenarios []Scenario, names, tags []string) []Scenario {
	if len(names) == 0 && len(tags) == 0 {
		return scenarios
	}
	var kept []Scenario
	for _, s := range scenarios {
		if matchesName(s, names) || matchesTag(s, tags) {
			kept = append(kept, s)
		}
	}
	return kept
}

func matchesName(s Scenario, names []string) bool {
	lower := strings.ToLower(s.Name)
	for _, name := range names {
		if name != "" && strings.Contains(lower, strings.ToLower(name)) {
			return true
		}
	}
	return false
}

func matchesTag(s Scenario, tags []string) bool {
	for _, tag := range tags {
		if slices.Contains(s.Tags, tag) {
			return true
		}
	}
	return false
}

// Package githubstatus checks GitHub's public status page API before
// scenarios that depend on GitHub Pages.
package githubstatus

import (
	"context"
	"net/http"

	"github.com/xkilldash9x/stagehand/pkg/screenplay"
	"github.com/xkilldash9x/stagehand/pkg/screenplay/rest"
)

const (
	DefaultBaseURL = "https://www.githubstatus.com/api/v2/"

	// AllSystemsOperational is the description reported when nothing is degraded.
	AllSystemsOperational = "All Systems Operational"
)

// API is a deployment of the status page API. An empty BaseURL resolves
// requests against the base URL of the actor's CallAnAPI ability.
type API struct {
	BaseURL string
}

// Default is the public GitHub status API.
func Default() API {
	return API{BaseURL: DefaultBaseURL}
}

func (a API) statusRequest() *rest.Request {
	return rest.GetRequest(a.BaseURL + "status.json")
}

// EnsureAllSystemsOperational fails unless GitHub reports that all systems
// are operational.
func (a API) EnsureAllSystemsOperational() screenplay.Activity {
	return screenplay.Task("#actor ensures all GitHub systems are operational",
		rest.Send(a.statusRequest()),
		screenplay.Ensure(rest.LastResponseStatus(), screenplay.Equals(http.StatusOK)),
		screenplay.Ensure(rest.LastResponseField("status", "description"), screenplay.Equals(AllSystemsOperational)),
	)
}

// CurrentIndicator sends a fresh status request and answers with the
// indicator, e.g. "none", "minor", "major" or "critical".
func (a API) CurrentIndicator() screenplay.Question[string] {
	indicator := rest.LastResponseField("status", "indicator")
	return screenplay.NewQuestion("the current GitHub status indicator", func(ctx context.Context, actor *screenplay.Actor) (string, error) {
		if err := actor.AttemptsTo(ctx, rest.Send(a.statusRequest())); err != nil {
			return "", err
		}
		return indicator.AnsweredBy(ctx, actor)
	})
}

// EnsureAllSystemsOperational checks the public GitHub status API.
func EnsureAllSystemsOperational() screenplay.Activity {
	return Default().EnsureAllSystemsOperational()
}

package rest

import (
	"context"
	"fmt"
	"strings"

	json "github.com/json-iterator/go"

	"github.com/xkilldash9x/stagehand/pkg/screenplay"
)

func lastResponse(actor *screenplay.Actor) (*Response, error) {
	api, err := screenplay.AbilityOf[*CallAnAPI](actor)
	if err != nil {
		return nil, err
	}
	return api.LastResponse()
}

// LastResponseStatus answers with the status code of the last response.
func LastResponseStatus() screenplay.Question[int] {
	return screenplay.NewQuestion("the status of the last response", func(_ context.Context, actor *screenplay.Actor) (int, error) {
		resp, err := lastResponse(actor)
		if err != nil {
			return 0, err
		}
		return resp.Status, nil
	})
}

// LastResponseHeader answers with a header of the last response.
func LastResponseHeader(name string) screenplay.Question[string] {
	description := screenplay.Describe("the %s header of the last response", name)
	return screenplay.NewQuestion(description, func(_ context.Context, actor *screenplay.Actor) (string, error) {
		resp, err := lastResponse(actor)
		if err != nil {
			return "", err
		}
		return resp.Header.Get(name), nil
	})
}

// LastResponseBody answers with the JSON body of the last response decoded into T.
func LastResponseBody[T any]() screenplay.Question[T] {
	return screenplay.NewQuestion("the body of the last response", func(_ context.Context, actor *screenplay.Actor) (T, error) {
		var body T
		resp, err := lastResponse(actor)
		if err != nil {
			return body, err
		}
		if err := json.Unmarshal(resp.Body, &body); err != nil {
			return body, fmt.Errorf("failed to decode the body of the last response: %w", err)
		}
		return body, nil
	})
}

// LastResponseField answers with a nested string field of the JSON body,
// e.g. LastResponseField("status", "description").
func LastResponseField(path ...string) screenplay.Question[string] {
	keys := make([]any, len(path))
	for i, p := range path {
		keys[i] = p
	}
	description := fmt.Sprintf("%s of the last response body", strings.Join(path, "."))
	return screenplay.NewQuestion(description, func(_ context.Context, actor *screenplay.Actor) (string, error) {
		resp, err := lastResponse(actor)
		if err != nil {
			return "", err
		}
		field := json.Get(resp.Body, keys...)
		if err := field.LastError(); err != nil {
			return "", fmt.Errorf("%s not found: %w", strings.Join(path, "."), err)
		}
		return field.ToString(), nil
	})
}

package screenplay

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// Question reads some aspect of the system under test on behalf of an actor.
type Question[T any] interface {
	AnsweredBy(ctx context.Context, actor *Actor) (T, error)
	String() string
}

type question[T any] struct {
	description string
	answer      func(ctx context.Context, actor *Actor) (T, error)
}

// NewQuestion creates a question from a function.
func NewQuestion[T any](description string, answer func(ctx context.Context, actor *Actor) (T, error)) Question[T] {
	return &question[T]{description: description, answer: answer}
}

func (q *question[T]) AnsweredBy(ctx context.Context, actor *Actor) (T, error) {
	return q.answer(ctx, actor)
}

func (q *question[T]) String() string { return q.description }

// Value wraps a static value so it can be used wherever a question is expected.
func Value[T any](v T) Question[T] {
	return NewQuestion(Describe("%s", v), func(context.Context, *Actor) (T, error) {
		return v, nil
	})
}

// DescribedAs gives a question a more meaningful description.
func DescribedAs[T any](q Question[T], description string) Question[T] {
	return NewQuestion(description, q.AnsweredBy)
}

// Map transforms the answer of a question, keeping its description.
func Map[T, U any](q Question[T], transform func(T) (U, error)) Question[U] {
	return NewQuestion(q.String(), func(ctx context.Context, actor *Actor) (U, error) {
		answer, err := q.AnsweredBy(ctx, actor)
		if err != nil {
			var zero U
			return zero, err
		}
		return transform(answer)
	})
}

// Number converts a textual answer to an integer.
func Number(q Question[string]) Question[int] {
	return Map(q, func(text string) (int, error) {
		n, err := strconv.Atoi(strings.TrimSpace(text))
		if err != nil {
			return 0, fmt.Errorf("%s is not a number: %w", Describe("%s", text), err)
		}
		return n, nil
	})
}

// Length answers with the number of items in a list answer.
func Length[T any](q Question[[]T]) Question[int] {
	return NewQuestion(q.String()+" length", func(ctx context.Context, actor *Actor) (int, error) {
		items, err := q.AnsweredBy(ctx, actor)
		if err != nil {
			return 0, err
		}
		return len(items), nil
	})
}

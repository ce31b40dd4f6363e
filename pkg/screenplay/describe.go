package screenplay

import (
	"fmt"
	"reflect"
	"strings"
)

// actorToken is replaced with the performing actor's name.
const actorToken = "#actor"

// Describe formats a description the way scenario reports present values:
// strings are double-quoted, slices are rendered as [ "a", "b" ] and
// Stringers (questions, page elements) use their own description.
// Every verb in format should be %s.
func Describe(format string, args ...any) string {
	rendered := make([]any, len(args))
	for i, arg := range args {
		rendered[i] = describeValue(arg)
	}
	return fmt.Sprintf(format, rendered...)
}

func describeValue(v any) string {
	switch value := v.(type) {
	case nil:
		return "null"
	case string:
		return fmt.Sprintf("%q", value)
	case fmt.Stringer:
		return value.String()
	case error:
		return value.Error()
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		if rv.Len() == 0 {
			return "[ ]"
		}
		items := make([]string, rv.Len())
		for i := range items {
			items[i] = describeValue(rv.Index(i).Interface())
		}
		return "[ " + strings.Join(items, ", ") + " ]"
	}
	return fmt.Sprintf("%v", v)
}

// renderFor substitutes the actor token in a description.
func renderFor(description string, actor *Actor) string {
	if actor == nil {
		return description
	}
	return strings.ReplaceAll(description, actorToken, actor.Name())
}

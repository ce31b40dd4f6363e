// internal/browser/context_utils_test.go
package browser

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type ctxKey string

func TestCombineContext(t *testing.T) {
	t.Run("inherits values from the first context only", func(t *testing.T) {
		ctx1 := context.WithValue(context.Background(), ctxKey("tab"), "session")
		ctx2 := context.WithValue(context.Background(), ctxKey("op"), "navigate")

		combined, cancel := CombineContext(ctx1, ctx2)
		defer cancel()

		assert.Equal(t, "session", combined.Value(ctxKey("tab")))
		assert.Nil(t, combined.Value(ctxKey("op")))
	})

	t.Run("canceled by the second context", func(t *testing.T) {
		ctx2, cancel2 := context.WithCancel(context.Background())
		combined, cancel := CombineContext(context.Background(), ctx2)
		defer cancel()

		cancel2()
		select {
		case <-combined.Done():
		case <-time.After(time.Second):
			t.Fatal("combined context was not canceled")
		}
	})

	t.Run("canceled by the first context", func(t *testing.T) {
		ctx1, cancel1 := context.WithCancel(context.Background())
		combined, cancel := CombineContext(ctx1, context.Background())
		defer cancel()

		cancel1()
		<-combined.Done()
		assert.ErrorIs(t, combined.Err(), context.Canceled)
	})

	t.Run("deadline of the second context applies", func(t *testing.T) {
		ctx2, cancel2 := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel2()
		combined, cancel := CombineContext(context.Background(), ctx2)
		defer cancel()

		select {
		case <-combined.Done():
		case <-time.After(time.Second):
			t.Fatal("combined context ignored the deadline")
		}
	})
}

// Package screenplay implements the Screenplay Pattern for acceptance tests.
//
// Scenarios are told from the point of view of actors. An Actor is given
// abilities (browse the web, call an API) and attempts activities: leaf
// Interactions, or Tasks that group other activities under a business-level
// description. Questions read some aspect of the system under test, and
// Expectations decide whether an answer is acceptable. Ensure, WaitUntil and
// CheckWhether combine the two.
//
// Descriptions may contain the "#actor" token, which is replaced with the
// performing actor's name when events are emitted and errors are reported.
//
//	stage := screenplay.NewStage(cast)
//	err := stage.ActorCalled("Wendy").AttemptsTo(ctx,
//		todolist.Default().RecordItem("Buy dog food"),
//		screenplay.Ensure(todolist.Default().OutstandingItemsCount(), screenplay.Equals(1)),
//	)
package screenplay

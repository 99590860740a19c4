package event

import "fmt"

// TopicEngine is the topic engine components publish lifecycle, input and action events on.
const TopicEngine = "engine"

// Event is implemented by every value that can travel through a Bus.
// Events are cancellable: once a subscriber cancels, delivery for that dispatch stops.
type Event interface {
	// Cancelled reports whether a subscriber cancelled the event.
	//
	// Returns:
	//   - bool: true once Cancel has been called
	Cancelled() bool

	// Reason returns the reason given by the cancelling subscriber, or an empty string.
	//
	// Returns:
	//   - string: the cancellation reason
	Reason() string
}

// Cancellable is embedded by concrete events to provide the cancellation state.
// Events must be dispatched by pointer so subscribers share one instance.
type Cancellable struct {
	cancelled bool
	reason    string
}

// Cancel marks the event cancelled. Later subscribers for the same dispatch are not invoked.
//
// Parameters:
//   - reason: a human-readable reason reported in the dispatch Result
func (c *Cancellable) Cancel(reason string) {
	c.cancelled = true
	c.reason = reason
}

func (c *Cancellable) Cancelled() bool {
	return c.cancelled
}

func (c *Cancellable) Reason() string {
	return c.reason
}

// Outcome identifies how a dispatch finished.
type Outcome int

const (
	// Passed means every subscriber ran without cancelling.
	Passed Outcome = iota

	// Cancelled means a subscriber cancelled the event and delivery stopped.
	Cancelled
)

// Result is returned by Dispatch.
type Result struct {
	Outcome Outcome
	Reason  string
}

// Passed reports whether the dispatch completed without cancellation.
func (r Result) Passed() bool {
	return r.Outcome == Passed
}

func (r Result) String() string {
	if r.Outcome == Cancelled {
		return fmt.Sprintf("cancelled(%s)", r.Reason)
	}
	return "passed"
}

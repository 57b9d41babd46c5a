package entity

// EventKind labels one unit of the translated output stream.
type EventKind string

const (
	EventKindMessage     EventKind = "message"
	EventKindSuggestions EventKind = "suggestion"
	EventKindError       EventKind = "error"
)

// Event is one unit of the caller-facing stream: a renderable chat line,
// a set of follow-up suggestions, or a non-fatal error.
type Event interface {
	Kind() EventKind
}

// MessageEvent is a renderable chat line.
type MessageEvent struct {
	Role    string
	Subtype string
	Content string
}

// Kind implements Event.
func (MessageEvent) Kind() EventKind { return EventKindMessage }

// SuggestionsEvent carries follow-up prompts. Emitting it terminates the
// turn: no further upstream frames are consumed after it.
type SuggestionsEvent struct {
	Items []string
}

// Kind implements Event.
func (SuggestionsEvent) Kind() EventKind { return EventKindSuggestions }

// ErrorEvent reports a translation or upstream failure without aborting
// delivery already in flight.
type ErrorEvent struct {
	Detail string
}

// Kind implements Event.
func (ErrorEvent) Kind() EventKind { return EventKindError }

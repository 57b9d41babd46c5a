package types

// Conversation identifies an upstream chat session. It is created by
// the server on the first turn and echoed back on later turns to keep
// context.
type Conversation struct {
	ConversationID        string `json:"conversationId"`
	ClientID              string `json:"clientId"`
	ConversationSignature string `json:"conversationSignature,omitempty"`
	SecAccessToken        string `json:"secAccessToken,omitempty"`
}

// Cookie is one upstream cookie sent along with a chat turn.
type Cookie struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// ChatMessage is one turn of the chat transcript.
type ChatMessage struct {
	Role    string `json:"role"`
	Type    string `json:"type,omitempty"`
	Content string `json:"content"`
}

// ChatParams is the JSON payload of the params form field.
type ChatParams struct {
	Conversation *Conversation `json:"conversation,omitempty"`
	Cookies      []Cookie      `json:"cookies,omitempty"`
	Messages     []ChatMessage `json:"messages"`
	Style        string        `json:"style,omitempty"`
	NoSearch     bool          `json:"no_search,omitempty"`
	Locale       string        `json:"locale,omitempty"`
}

// Event kinds carried on the SSE stream.
const (
	EventMessage    = "message"
	EventSuggestion = "suggestion"
	EventError      = "error"
)

// ChatEvent is one decoded SSE event from the server.
type ChatEvent struct {
	Kind string

	// Set when Kind is EventMessage.
	Role    string
	Type    string
	Content string

	// Set when Kind is EventSuggestion.
	Items []string

	// Set when Kind is EventError.
	Detail string
}

// MessagePayload is the data of a message event.
type MessagePayload struct {
	Role    string `json:"role"`
	Type    string `json:"type"`
	Content string `json:"content"`
}

// SuggestionsPayload is the data of a suggestion event.
type SuggestionsPayload struct {
	Items []string `json:"items"`
}

// ErrorPayload is the data of an error event.
type ErrorPayload struct {
	Detail string `json:"detail"`
}

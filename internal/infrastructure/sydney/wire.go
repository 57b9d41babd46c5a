package sydney

// Wire format of the hub's type-4 ask message. Field names and casing are
// fixed by the upstream protocol.

type hubEnvelope struct {
	Arguments    []hubArgument `json:"arguments"`
	InvocationID string        `json:"invocationId"`
	Target       string        `json:"target"`
	Type         int           `json:"type"`
}

type hubArgument struct {
	OptionsSets           []string             `json:"optionsSets"`
	Source                string               `json:"source"`
	AllowedMessageTypes   []string             `json:"allowedMessageTypes"`
	SliceIDs              []string             `json:"sliceIds,omitempty"`
	Verbosity             string               `json:"verbosity"`
	Scenario              string               `json:"scenario"`
	TraceID               string               `json:"traceId"`
	RequestID             string               `json:"requestId"`
	IsStartOfSession      bool                 `json:"isStartOfSession"`
	Message               hubChatMessage       `json:"message"`
	Tone                  string               `json:"tone"`
	ConversationSignature any                  `json:"conversationSignature"`
	Participant           hubParticipant       `json:"participant"`
	SpokenTextMode        string               `json:"spokenTextMode"`
	ConversationID        string               `json:"conversationId"`
	PreviousMessages      []hubPreviousMessage `json:"previousMessages,omitempty"`
}

type hubChatMessage struct {
	Locale      string `json:"locale"`
	Market      string `json:"market"`
	Region      string `json:"region"`
	Author      string `json:"author"`
	InputMethod string `json:"inputMethod"`
	Text        string `json:"text"`
	MessageType string `json:"messageType"`
	RequestID   string `json:"requestId"`
	MessageID   string `json:"messageId"`
	ImageURL    any    `json:"imageUrl"`
}

type hubParticipant struct {
	ID string `json:"id"`
}

type hubPreviousMessage struct {
	Author      string `json:"author"`
	Description string `json:"description"`
	ContextType string `json:"contextType"`
	MessageType string `json:"messageType"`
	MessageID   string `json:"messageId"`
}

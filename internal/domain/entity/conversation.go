package entity

// Conversation identifies one upstream conversation. The fields mirror the
// handle returned by the conversation create endpoint and are passed back
// verbatim on every ask.
type Conversation struct {
	ConversationID        string `json:"conversationId"`
	ClientID              string `json:"clientId"`
	ConversationSignature string `json:"conversationSignature,omitempty"`
	SecAccessToken        string `json:"secAccessToken,omitempty"`
}

// Cookie is one upstream credential pair. Order within a credential set is
// significant and preserved.
type Cookie struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// CookieHeader joins cookies into a Cookie request header value.
func CookieHeader(cookies []Cookie) string {
	var b []byte
	for i, c := range cookies {
		if i > 0 {
			b = append(b, "; "...)
		}
		b = append(b, c.Name...)
		b = append(b, '=')
		b = append(b, c.Value...)
	}
	return string(b)
}

// ConversationStyle selects the upstream answer tone.
type ConversationStyle string

const (
	StyleCreative ConversationStyle = "creative"
	StylePrecise  ConversationStyle = "precise"
	StyleBalanced ConversationStyle = "balanced"
)

// Valid reports whether the style is one of the three known tones.
func (s ConversationStyle) Valid() bool {
	return s == StyleCreative || s == StylePrecise || s == StyleBalanced
}

// Frame is one raw record of the upstream response stream, held as the
// JSON text it arrived as. Err marks a transport-level failure; the stream
// ends after an errored frame.
type Frame struct {
	Data string
	Err  error
}

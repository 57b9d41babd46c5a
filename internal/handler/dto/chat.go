package dto

import (
	"github.com/PeronGH/SydneyWeb/internal/domain"
	"github.com/PeronGH/SydneyWeb/internal/domain/entity"
)

// ============ Wire format of the multipart "params" field ============

// ChatParams is the JSON-encoded chat request submitted with a turn.
type ChatParams struct {
	Conversation *entity.Conversation `json:"conversation,omitempty"`
	Cookies      []Cookie             `json:"cookies"`
	Messages     []Message            `json:"messages"`
	Style        string               `json:"style,omitempty"`
	NoSearch     bool                 `json:"no_search,omitempty"`
	Locale       string               `json:"locale,omitempty"`
}

// Cookie is one upstream credential pair.
type Cookie struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Message is one chat turn on the wire. Type is the open subtype tag; the
// output events reuse the same shape so a client can feed them back as
// history.
type Message struct {
	Role    string `json:"role"`
	Type    string `json:"type"`
	Content string `json:"content"`
}

// ToDomain converts the wire request to the internal one.
func (p *ChatParams) ToDomain() *domain.ChatRequest {
	cookies := make([]entity.Cookie, len(p.Cookies))
	for i, c := range p.Cookies {
		cookies[i] = entity.Cookie{Name: c.Name, Value: c.Value}
	}
	messages := make([]entity.ChatMessage, len(p.Messages))
	for i, m := range p.Messages {
		messages[i] = entity.ChatMessage{Role: m.Role, Subtype: m.Type, Content: m.Content}
	}
	return &domain.ChatRequest{
		Conversation: p.Conversation,
		Cookies:      cookies,
		Messages:     messages,
		Style:        entity.ConversationStyle(p.Style),
		NoSearch:     p.NoSearch,
		Locale:       p.Locale,
	}
}

// ============ SSE event payloads ============

// MessagePayload is the payload of a "message" event.
type MessagePayload struct {
	Role    string `json:"role"`
	Type    string `json:"type"`
	Content string `json:"content"`
}

// SuggestionsPayload is the payload of a "suggestion" event.
type SuggestionsPayload struct {
	Items []string `json:"items"`
}

// ErrorPayload is the payload of an "error" event.
type ErrorPayload struct {
	Detail string `json:"detail"`
}

// FromEvent maps an output event to its SSE payload.
func FromEvent(ev entity.Event) any {
	switch e := ev.(type) {
	case entity.MessageEvent:
		return MessagePayload{Role: e.Role, Type: e.Subtype, Content: e.Content}
	case entity.SuggestionsEvent:
		return SuggestionsPayload{Items: e.Items}
	case entity.ErrorEvent:
		return ErrorPayload{Detail: e.Detail}
	default:
		return nil
	}
}

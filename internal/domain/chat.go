package domain

import (
	"context"

	"github.com/PeronGH/SydneyWeb/internal/domain/entity"
)

// ChatRequest is one chat turn as submitted by a caller. Messages must be
// non-empty and end with a user message; that final message becomes the
// active prompt and the rest become conversation context.
type ChatRequest struct {
	Conversation *entity.Conversation
	Cookies      []entity.Cookie
	Messages     []entity.ChatMessage
	Style        entity.ConversationStyle
	NoSearch     bool
	Locale       string
}

// AskOptions scopes one upstream ask-stream.
type AskOptions struct {
	Conversation *entity.Conversation
	Prompt       string
	Context      string
	Style        entity.ConversationStyle
	Locale       string
	ImageURL     string
	Cookies      []entity.Cookie
	NoSearch     bool
}

// UpstreamClient is the narrow contract with the upstream conversational
// backend.
type UpstreamClient interface {
	// CreateConversation requests a fresh conversation handle.
	CreateConversation(ctx context.Context, cookies []entity.Cookie) (*entity.Conversation, error)

	// UploadImage uploads a base64-encoded image and returns its blob id.
	UploadImage(ctx context.Context, imgBase64 string, cookies []entity.Cookie) (string, error)

	// AskStream opens one response stream for a turn. The returned channel
	// is closed when the stream ends or ctx is cancelled; cancelling ctx
	// releases the underlying connection.
	AskStream(ctx context.Context, opts AskOptions) (<-chan entity.Frame, error)
}

// ChatUsecase drives one chat turn end to end.
type ChatUsecase interface {
	// Chat validates the request, resolves the conversation handle and
	// optional image, and returns the translated output event stream. The
	// channel is closed when the turn completes or ctx is cancelled.
	Chat(ctx context.Context, req *ChatRequest, image []byte) (<-chan entity.Event, error)
}

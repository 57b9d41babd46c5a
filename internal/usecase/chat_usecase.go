package usecase

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"

	"github.com/PeronGH/SydneyWeb/internal/domain"
	"github.com/PeronGH/SydneyWeb/internal/domain/entity"
	"github.com/PeronGH/SydneyWeb/internal/translator"
)

// imageBlobPrefix is where uploaded blobs are served from; the blob id
// returned by the upload is appended verbatim.
const imageBlobPrefix = "https://www.bing.com/images/blob?bcid="

const (
	defaultStyle  = entity.StyleCreative
	defaultLocale = "en-GB"
)

// chatUsecase orchestrates one chat turn: request validation, conversation
// and image resolution, and forwarding of the translated event stream.
type chatUsecase struct {
	upstream domain.UpstreamClient
	logger   *slog.Logger
}

// NewChatUsecase creates the chat orchestrator.
func NewChatUsecase(upstream domain.UpstreamClient, logger *slog.Logger) domain.ChatUsecase {
	return &chatUsecase{
		upstream: upstream,
		logger:   logger,
	}
}

// Chat implements domain.ChatUsecase. Validation and conversation/image
// setup failures are returned synchronously; once the event channel is
// handed out, all further failures are folded into the stream itself.
func (u *chatUsecase) Chat(ctx context.Context, req *domain.ChatRequest, image []byte) (<-chan entity.Event, error) {
	if err := validateChatRequest(req); err != nil {
		return nil, err
	}

	// The final user message becomes the prompt; everything before it is
	// folded into the upstream context block.
	last := req.Messages[len(req.Messages)-1]
	prompt := last.Content
	contextBlock := entity.BuildContext(req.Messages[:len(req.Messages)-1])

	conversation := req.Conversation
	if conversation == nil {
		created, err := u.upstream.CreateConversation(ctx, req.Cookies)
		if err != nil {
			return nil, domain.NewUpstreamError("conversation create", err)
		}
		conversation = created
		u.logger.Info("new conversation created",
			"conversation_id", conversation.ConversationID)
	}

	var imageURL string
	if len(image) > 0 {
		blobID, err := u.upstream.UploadImage(ctx,
			base64.StdEncoding.EncodeToString(image), req.Cookies)
		if err != nil {
			return nil, domain.NewUpstreamError("image upload", err)
		}
		imageURL = imageBlobPrefix + blobID
		u.logger.Debug("image attached", "blob_id", blobID)
	}

	style := req.Style
	if style == "" {
		style = defaultStyle
	}
	locale := req.Locale
	if locale == "" {
		locale = defaultLocale
	}

	streamCtx, cancel := context.WithCancel(ctx)
	frames, err := u.upstream.AskStream(streamCtx, domain.AskOptions{
		Conversation: conversation,
		Prompt:       prompt,
		Context:      contextBlock,
		Style:        style,
		Locale:       locale,
		ImageURL:     imageURL,
		Cookies:      req.Cookies,
		NoSearch:     req.NoSearch,
	})
	if err != nil {
		cancel()
		return nil, domain.NewUpstreamError("ask stream", err)
	}

	out := make(chan entity.Event)
	go u.forward(streamCtx, cancel, frames, out)
	return out, nil
}

// forward translates frames one at a time and hands the events to the
// caller, unbuffered, so the upstream is never read faster than the
// transport drains. Cancelling ctx releases the upstream stream.
func (u *chatUsecase) forward(ctx context.Context, cancel context.CancelFunc, frames <-chan entity.Frame, out chan<- entity.Event) {
	defer close(out)
	defer cancel()

	emit := func(ev entity.Event) bool {
		select {
		case out <- ev:
			return true
		case <-ctx.Done():
			return false
		}
	}

	// A fault inside per-frame translation becomes the terminal error
	// event rather than taking the transport down.
	defer func() {
		if r := recover(); r != nil {
			u.logger.Error("panic during frame translation", "panic", fmt.Sprintf("%v", r))
			emit(entity.ErrorEvent{Detail: fmt.Sprintf("frame translation failed: %v", r)})
		}
	}()

	tr := translator.New()
	for frame := range frames {
		if frame.Err != nil {
			u.logger.Error("upstream stream failed", "error", frame.Err)
			emit(entity.ErrorEvent{Detail: frame.Err.Error()})
			return
		}
		for _, ev := range tr.Translate(frame.Data) {
			if !emit(ev) {
				return
			}
		}
		if tr.Done() {
			return
		}
	}
}

func validateChatRequest(req *domain.ChatRequest) error {
	if req == nil || len(req.Messages) == 0 {
		return domain.NewValidationError("empty messages")
	}

	for _, m := range req.Messages {
		if !entity.ValidRole(m.Role) {
			return domain.NewValidationError(fmt.Sprintf("unknown message role: %s", m.Role))
		}
	}

	last := req.Messages[len(req.Messages)-1]
	if last.Role != entity.RoleUser {
		return domain.NewValidationError(fmt.Sprintf(
			"the role of the last message should be user, but got %s", last.Role))
	}

	if req.Style != "" && !req.Style.Valid() {
		return domain.NewValidationError(fmt.Sprintf("invalid conversation style: %s", req.Style))
	}

	return nil
}

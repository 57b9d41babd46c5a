package handler

import (
	"context"
	"io"
	"log/slog"

	"github.com/bytedance/sonic"
	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/cloudwego/hertz/pkg/protocol/sse"

	"github.com/PeronGH/SydneyWeb/internal/domain"
	"github.com/PeronGH/SydneyWeb/internal/handler/dto"
)

// ChatHandler serves the chat endpoint.
type ChatHandler struct {
	usecase domain.ChatUsecase
	logger  *slog.Logger
}

// NewChatHandler creates the chat handler.
func NewChatHandler(usecase domain.ChatUsecase, logger *slog.Logger) *ChatHandler {
	return &ChatHandler{
		usecase: usecase,
		logger:  logger,
	}
}

// Chat handles one chat turn.
//
//	@Summary		Chat with the upstream assistant
//	@Description	Submits a chat turn and streams the translated output events over SSE
//	@Tags			Chat
//	@Accept			multipart/form-data
//	@Produce		text/event-stream
//	@Param			params	formData	string	true	"JSON-encoded chat request"
//	@Param			image	formData	file	false	"Image to attach to the prompt"
//	@Success		200	{string}	string	"SSE stream of message/suggestion/error events"
//	@Failure		400	{object}	Response	"Invalid request"
//	@Failure		502	{object}	Response	"Upstream failure before streaming began"
//	@Router			/chat [post]
func (h *ChatHandler) Chat(ctx context.Context, c *app.RequestContext) {
	params := c.PostForm("params")
	if params == "" {
		ErrorResponse(c, domain.NewValidationError("missing params form field"))
		return
	}

	var wireReq dto.ChatParams
	if err := sonic.Unmarshal([]byte(params), &wireReq); err != nil {
		h.logger.Error("failed to decode chat params", "error", err)
		ErrorResponse(c, domain.NewValidationError("malformed params JSON"))
		return
	}

	image, err := h.readImage(c)
	if err != nil {
		h.logger.Error("failed to read image part", "error", err)
		ErrorResponse(c, domain.NewValidationError("unreadable image part"))
		return
	}

	req := wireReq.ToDomain()
	h.logger.Info("chat request received",
		"messages", len(req.Messages),
		"new_conversation", req.Conversation == nil,
		"has_image", image != nil,
		"style", req.Style,
	)

	// Scope the turn to this handler so an early break or a dropped
	// client releases the upstream stream.
	streamCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	events, err := h.usecase.Chat(streamCtx, req, image)
	if err != nil {
		h.logger.Error("chat setup failed", "error", err)
		ErrorResponse(c, err)
		return
	}

	// Status must be set before the SSE writer takes over the response.
	c.SetStatusCode(consts.StatusOK)
	writer := sse.NewWriter(c)
	defer writer.Close()

	for ev := range events {
		payload, err := sonic.Marshal(dto.FromEvent(ev))
		if err != nil {
			h.logger.Error("failed to marshal output event", "error", err)
			break
		}
		if err := writer.WriteEvent("", string(ev.Kind()), payload); err != nil {
			h.logger.Warn("client went away mid-stream", "error", err)
			break
		}
	}
}

// readImage loads the optional image part fully into memory. A missing
// part is not an error.
func (h *ChatHandler) readImage(c *app.RequestContext) ([]byte, error) {
	fileHeader, err := c.FormFile("image")
	if err != nil || fileHeader == nil {
		return nil, nil
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return io.ReadAll(file)
}

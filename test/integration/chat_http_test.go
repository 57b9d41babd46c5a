//go:build integration
// +build integration

package integration

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/network/netpoll"

	"github.com/PeronGH/SydneyWeb/internal/domain"
	"github.com/PeronGH/SydneyWeb/internal/domain/entity"
	"github.com/PeronGH/SydneyWeb/internal/handler"
	"github.com/PeronGH/SydneyWeb/internal/usecase"
)

// scriptedUpstream replays a fixed frame sequence instead of dialing
// the real backend.
type scriptedUpstream struct {
	frames []string
}

func (s *scriptedUpstream) CreateConversation(ctx context.Context, cookies []entity.Cookie) (*entity.Conversation, error) {
	return &entity.Conversation{ConversationID: "conv-1", ClientID: "client-1"}, nil
}

func (s *scriptedUpstream) UploadImage(ctx context.Context, imgBase64 string, cookies []entity.Cookie) (string, error) {
	return "blob-1", nil
}

func (s *scriptedUpstream) AskStream(ctx context.Context, opts domain.AskOptions) (<-chan entity.Frame, error) {
	ch := make(chan entity.Frame)
	go func() {
		defer close(ch)
		for _, f := range s.frames {
			select {
			case ch <- entity.Frame{Data: f}:
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch, nil
}

type sseEvent struct {
	name string
	data string
}

// TestChatHTTP_SSE drives a chat turn through the full HTTP stack and
// checks the SSE stream that comes back.
func TestChatHTTP_SSE(t *testing.T) {
	upstream := &scriptedUpstream{frames: []string{
		`{"type":1,"arguments":[{"messages":[{"messageType":"InternalSearchQuery","hiddenText":"searching X"}]}]}`,
		`{"type":1,"arguments":[{"messages":[{"text":"Hel"}]}]}`,
		`{"type":1,"arguments":[{"messages":[{"text":"Hello","suggestedResponses":[{"text":"Tell me more"}]}]}]}`,
	}}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	chatUC := usecase.NewChatUsecase(upstream, logger)
	chatHandler := handler.NewChatHandler(chatUC, logger)

	addr := "127.0.0.1:18080"
	h := server.New(
		server.WithHostPorts(addr),
		server.WithTransport(netpoll.NewTransporter),
		server.WithSenseClientDisconnection(true),
	)
	h.POST("/chat", chatHandler.Chat)

	go func() {
		if err := h.Run(); err != nil {
			logger.Error("server failed", "error", err)
		}
	}()

	time.Sleep(2 * time.Second)
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		h.Shutdown(ctx)
	}()

	baseURL := "http://" + addr

	t.Run("SSE streaming chat", func(t *testing.T) {
		events := postChat(t, baseURL, `{"messages":[{"role":"user","content":"hi"}]}`)

		if len(events) != 4 {
			t.Fatalf("expected 4 events, got %d: %+v", len(events), events)
		}

		if events[0].name != "message" || !strings.Contains(events[0].data, "search_query") {
			t.Errorf("expected a search query notice first, got %+v", events[0])
		}

		var msg struct {
			Role    string `json:"role"`
			Type    string `json:"type"`
			Content string `json:"content"`
		}
		if err := json.Unmarshal([]byte(events[2].data), &msg); err != nil {
			t.Fatalf("failed to decode message payload: %v", err)
		}
		if msg.Role != "assistant" || msg.Type != "message" || msg.Content != "Hello" {
			t.Errorf("unexpected final answer: %+v", msg)
		}

		if events[3].name != "suggestion" {
			t.Fatalf("expected a suggestion event last, got %+v", events[3])
		}
		var sug struct {
			Items []string `json:"items"`
		}
		if err := json.Unmarshal([]byte(events[3].data), &sug); err != nil {
			t.Fatalf("failed to decode suggestion payload: %v", err)
		}
		if len(sug.Items) != 1 || sug.Items[0] != "Tell me more" {
			t.Errorf("unexpected suggestions: %v", sug.Items)
		}
	})

	t.Run("validation failure returns 400", func(t *testing.T) {
		body, contentType := multipartBody(t, `{"messages":[]}`)

		resp, err := http.Post(baseURL+"/chat", contentType, body)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusBadRequest {
			raw, _ := io.ReadAll(resp.Body)
			t.Fatalf("expected 400, got %d, body: %s", resp.StatusCode, raw)
		}
	})

	t.Run("filtered prompt degrades to an error event", func(t *testing.T) {
		upstream.frames = []string{
			`{"type":1,"arguments":[{"messages":[{"contentOrigin":"Apology","text":"sorry"}]}]}`,
		}
		t.Cleanup(func() {
			upstream.frames = nil
		})

		events := postChat(t, baseURL, `{"messages":[{"role":"user","content":"hi"}]}`)

		if len(events) != 1 || events[0].name != "error" {
			t.Fatalf("expected a single error event, got %+v", events)
		}
		if !strings.Contains(events[0].data, "Bing filter") {
			t.Errorf("unexpected error payload: %s", events[0].data)
		}
	})
}

// postChat submits one chat turn and collects the SSE events until the
// stream ends.
func postChat(t *testing.T, baseURL, params string) []sseEvent {
	t.Helper()

	body, contentType := multipartBody(t, params)

	req, err := http.NewRequest("POST", baseURL+"/chat", body)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "text/event-stream")

	client := &http.Client{Timeout: 60 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		t.Fatalf("expected status 200, got %d, body: %s", resp.StatusCode, raw)
	}

	contentTypeHeader := resp.Header.Get("Content-Type")
	if !strings.Contains(contentTypeHeader, "text/event-stream") {
		t.Errorf("expected Content-Type to contain 'text/event-stream', got %q", contentTypeHeader)
	}

	var events []sseEvent
	current := sseEvent{}
	reader := bufio.NewReader(resp.Body)
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			if err == io.EOF {
				break
			}
			t.Fatalf("failed to read stream: %v", err)
		}

		line = strings.TrimRight(line, "\r\n")
		switch {
		case line == "":
			if current.data != "" {
				events = append(events, current)
			}
			current = sseEvent{}
		case strings.HasPrefix(line, "event:"):
			current.name = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		case strings.HasPrefix(line, "data:"):
			current.data = strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		}
	}
	if current.data != "" {
		events = append(events, current)
	}

	return events
}

// multipartBody builds the multipart form carrying the params field.
func multipartBody(t *testing.T, params string) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := w.WriteField("params", params); err != nil {
		t.Fatalf("failed to write params field: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("failed to finalize form: %v", err)
	}

	return &buf, w.FormDataContentType()
}

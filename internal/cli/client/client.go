package client

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/cloudwego/hertz/pkg/app/client"
	"github.com/cloudwego/hertz/pkg/network/standard"
	"github.com/cloudwego/hertz/pkg/protocol"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	"github.com/PeronGH/SydneyWeb/internal/cli/types"
)

// APIClient wraps Hertz Client for HTTP communication with the server
type APIClient struct {
	client *client.Client
	server string
}

// NewAPIClient creates a new API client
func NewAPIClient(server string) (*APIClient, error) {
	normalizedServer, err := normalizeServerURL(server)
	if err != nil {
		return nil, fmt.Errorf("invalid server URL: %w", err)
	}

	// Use standard library dialer for streaming support
	// netpoll doesn't support streaming well, causing panics
	c, err := client.NewClient(
		client.WithDialTimeout(10*time.Second),
		client.WithMaxIdleConnDuration(60*time.Second),
		client.WithResponseBodyStream(true),
		client.WithDialer(standard.NewDialer()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP client: %w", err)
	}

	return &APIClient{
		client: c,
		server: normalizedServer,
	}, nil
}

// normalizeServerURL normalizes server URL to ensure it has a scheme and no trailing slash
func normalizeServerURL(server string) (string, error) {
	if !strings.Contains(server, "://") {
		server = "http://" + server
	}

	u, err := url.Parse(server)
	if err != nil || u.Host == "" {
		return "", fmt.Errorf("invalid server URL")
	}

	return fmt.Sprintf("%s://%s", u.Scheme, u.Host), nil
}

// Ping checks whether the server is reachable
func (c *APIClient) Ping(ctx context.Context) error {
	req := protocol.AcquireRequest()
	resp := protocol.AcquireResponse()
	defer func() {
		protocol.ReleaseRequest(req)
		protocol.ReleaseResponse(resp)
	}()

	req.SetMethod(consts.MethodGet)
	req.SetRequestURI(c.server + endpointPing)

	if err := c.client.Do(ctx, req, resp); err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	if resp.StatusCode() != 200 {
		return fmt.Errorf("server responded with HTTP %d", resp.StatusCode())
	}

	return nil
}

// ChatStream submits a chat turn and returns the decoded SSE events.
// imagePath may be empty.
func (c *APIClient) ChatStream(ctx context.Context, params *types.ChatParams, imagePath string) (<-chan types.ChatEvent, <-chan error, error) {
	if len(params.Messages) == 0 {
		return nil, nil, fmt.Errorf("chat request requires at least one message")
	}

	body, contentType, err := buildMultipartBody(params, imagePath)
	if err != nil {
		return nil, nil, err
	}

	req := protocol.AcquireRequest()
	resp := protocol.AcquireResponse()

	req.SetMethod(consts.MethodPost)
	req.SetRequestURI(c.server + endpointChat)
	req.Header.SetContentTypeBytes([]byte(contentType))
	req.Header.Set("Accept", "text/event-stream")
	req.SetBody(body)

	if err := c.client.Do(ctx, req, resp); err != nil {
		protocol.ReleaseRequest(req)
		protocol.ReleaseResponse(resp)
		return nil, nil, fmt.Errorf("request failed: %w", err)
	}

	if resp.StatusCode() != 200 {
		statusCode := resp.StatusCode()
		respBody := resp.Body()
		protocol.ReleaseRequest(req)
		protocol.ReleaseResponse(resp)
		return nil, nil, fmt.Errorf("chat failed with HTTP status: %d, body: %s", statusCode, string(respBody))
	}

	eventCh := make(chan types.ChatEvent, 10)
	errCh := make(chan error, 1)

	go func() {
		defer func() {
			close(eventCh)
			close(errCh)
			protocol.ReleaseRequest(req)
			protocol.ReleaseResponse(resp)
		}()

		bodyStream := resp.BodyStream()
		if bodyStream == nil {
			errCh <- fmt.Errorf("body stream is nil")
			return
		}

		parseSSEStream(bodyStream, eventCh, errCh)
	}()

	return eventCh, errCh, nil
}

// buildMultipartBody encodes params and the optional image into a
// multipart form.
func buildMultipartBody(params *types.ChatParams, imagePath string) ([]byte, string, error) {
	paramsJSON, err := sonic.Marshal(params)
	if err != nil {
		return nil, "", fmt.Errorf("failed to marshal params: %w", err)
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if err := w.WriteField("params", string(paramsJSON)); err != nil {
		return nil, "", fmt.Errorf("failed to write params field: %w", err)
	}

	if imagePath != "" {
		data, err := os.ReadFile(imagePath)
		if err != nil {
			return nil, "", fmt.Errorf("failed to read image: %w", err)
		}
		part, err := w.CreateFormFile("image", filepath.Base(imagePath))
		if err != nil {
			return nil, "", fmt.Errorf("failed to create image part: %w", err)
		}
		if _, err := part.Write(data); err != nil {
			return nil, "", fmt.Errorf("failed to write image part: %w", err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to finalize form: %w", err)
	}

	return buf.Bytes(), w.FormDataContentType(), nil
}

// parseSSEStream reads SSE events line by line as they arrive and
// decodes them into ChatEvents.
func parseSSEStream(reader io.Reader, eventCh chan<- types.ChatEvent, errCh chan<- error) {
	scanner := bufio.NewScanner(reader)

	// Increase buffer size for large SSE messages
	const maxScanTokenSize = 1024 * 1024 // 1MB
	buf := make([]byte, maxScanTokenSize)
	scanner.Buffer(buf, maxScanTokenSize)

	eventName := ""
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")

		// Blank line ends one event, comments are ignored
		if line == "" {
			eventName = ""
			continue
		}
		if strings.HasPrefix(line, ":") {
			continue
		}

		if strings.HasPrefix(line, "event:") {
			eventName = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
			continue
		}

		if strings.HasPrefix(line, "data:") {
			dataStr := strings.TrimSpace(strings.TrimPrefix(line, "data:"))

			ev, err := decodeEvent(eventName, dataStr)
			if err != nil {
				errCh <- err
				return
			}

			select {
			case eventCh <- ev:
			case <-time.After(5 * time.Second):
				errCh <- fmt.Errorf("timeout sending event to channel")
				return
			}
		}
	}

	if err := scanner.Err(); err != nil && err != io.EOF {
		errCh <- fmt.Errorf("scanner error: %w", err)
	}
}

// decodeEvent parses one SSE data payload by its event name.
func decodeEvent(eventName, data string) (types.ChatEvent, error) {
	switch eventName {
	case types.EventSuggestion:
		var p types.SuggestionsPayload
		if err := sonic.Unmarshal([]byte(data), &p); err != nil {
			return types.ChatEvent{}, fmt.Errorf("failed to parse suggestion event: %w", err)
		}
		return types.ChatEvent{Kind: types.EventSuggestion, Items: p.Items}, nil

	case types.EventError:
		var p types.ErrorPayload
		if err := sonic.Unmarshal([]byte(data), &p); err != nil {
			return types.ChatEvent{}, fmt.Errorf("failed to parse error event: %w", err)
		}
		return types.ChatEvent{Kind: types.EventError, Detail: p.Detail}, nil

	default:
		var p types.MessagePayload
		if err := sonic.Unmarshal([]byte(data), &p); err != nil {
			return types.ChatEvent{}, fmt.Errorf("failed to parse message event: %w", err)
		}
		return types.ChatEvent{
			Kind:    types.EventMessage,
			Role:    p.Role,
			Type:    p.Type,
			Content: p.Content,
		}, nil
	}
}

package sydney

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/tidwall/gjson"

	"github.com/PeronGH/SydneyWeb/internal/domain"
	"github.com/PeronGH/SydneyWeb/internal/domain/entity"
)

// Hub messages are delimited by the ASCII record separator.
const recordSeparator = "\x1e"

const pingInterval = 15 * time.Second

// AskStream opens one response stream for a turn. The handshake runs
// synchronously so pre-stream failures surface as errors; after that all
// frames, including transport failures, arrive on the returned channel.
// Cancelling ctx closes the connection and the channel.
func (c *Client) AskStream(ctx context.Context, opts domain.AskOptions) (<-chan entity.Frame, error) {
	if opts.Conversation == nil {
		return nil, errors.New("ask stream requires a conversation handle")
	}

	conn, err := c.dial(ctx, opts)
	if err != nil {
		return nil, err
	}

	if err := c.handshake(conn); err != nil {
		conn.close()
		return nil, err
	}
	if err := c.sendAsk(conn, opts); err != nil {
		conn.close()
		return nil, err
	}

	c.logger.Debug("ask stream opened",
		"conversation_id", opts.Conversation.ConversationID,
		"style", opts.Style,
		"no_search", opts.NoSearch,
	)

	frames := make(chan entity.Frame)
	go c.readFrames(ctx, conn, frames)
	return frames, nil
}

func (c *Client) dial(ctx context.Context, opts domain.AskOptions) (*hubConn, error) {
	dialer := websocket.Dialer{
		HandshakeTimeout: c.cfg.DialTimeout,
	}
	if transport, ok := c.httpClient.Transport.(*http.Transport); ok && transport.Proxy != nil {
		dialer.Proxy = transport.Proxy
	}

	wssURL := c.cfg.WSSURL
	if token := opts.Conversation.SecAccessToken; token != "" {
		wssURL += "?sec_access_token=" + url.QueryEscape(token)
	}

	header := http.Header{}
	header.Set("User-Agent", userAgent)
	header.Set("Origin", "https://www.bing.com")
	if cookie := entity.CookieHeader(opts.Cookies); cookie != "" {
		header.Set("Cookie", cookie)
	}

	ws, _, err := dialer.DialContext(ctx, wssURL, header)
	if err != nil {
		return nil, fmt.Errorf("websocket dial failed: %w", err)
	}

	return &hubConn{ws: ws, readTimeout: c.cfg.ReadTimeout}, nil
}

// handshake negotiates the hub's JSON sub-protocol.
func (c *Client) handshake(conn *hubConn) error {
	if err := conn.write([]byte(`{"protocol": "json", "version": 1}`)); err != nil {
		return fmt.Errorf("protocol handshake failed: %w", err)
	}
	if _, err := conn.read(); err != nil {
		return fmt.Errorf("protocol handshake failed: %w", err)
	}
	if err := conn.write([]byte(`{"type":6}`)); err != nil {
		return fmt.Errorf("protocol handshake failed: %w", err)
	}
	return nil
}

func (c *Client) sendAsk(conn *hubConn, opts domain.AskOptions) error {
	messageID := uuid.New().String()

	region := opts.Locale
	if len(region) >= 2 {
		region = region[len(region)-2:]
	}

	// The blob URL is sent as null, not "", when no image is attached.
	var imageURL any
	if opts.ImageURL != "" {
		imageURL = opts.ImageURL
	}
	var signature any
	if opts.Conversation.ConversationSignature != "" {
		signature = opts.Conversation.ConversationSignature
	}

	argument := hubArgument{
		OptionsSets:         optionsSetsFor(opts.Style, opts.NoSearch),
		Source:              "cib",
		AllowedMessageTypes: allowedMessageTypes,
		Verbosity:           "verbose",
		Scenario:            "SERP",
		TraceID:             mustRandomHex(16),
		RequestID:           messageID,
		IsStartOfSession:    true,
		Message: hubChatMessage{
			Locale:      opts.Locale,
			Market:      opts.Locale,
			Region:      region,
			Author:      "user",
			InputMethod: "Keyboard",
			Text:        opts.Prompt,
			MessageType: "Chat",
			RequestID:   messageID,
			MessageID:   messageID,
			ImageURL:    imageURL,
		},
		Tone:                  string(opts.Style),
		ConversationSignature: signature,
		Participant:           hubParticipant{ID: opts.Conversation.ClientID},
		SpokenTextMode:        "None",
		ConversationID:        opts.Conversation.ConversationID,
	}

	if opts.Context != "" {
		argument.PreviousMessages = []hubPreviousMessage{{
			Author:      "user",
			Description: opts.Context,
			ContextType: "WebPage",
			MessageType: "Context",
			MessageID:   "discover-web--page-ping-mriduna-----",
		}}
	}

	envelope := hubEnvelope{
		Arguments:    []hubArgument{argument},
		InvocationID: "0",
		Target:       "chat",
		Type:         4,
	}

	payload, err := sonic.Marshal(&envelope)
	if err != nil {
		return fmt.Errorf("failed to marshal ask message: %w", err)
	}
	if err := conn.write(payload); err != nil {
		return fmt.Errorf("failed to send ask message: %w", err)
	}
	return nil
}

// readFrames pumps raw hub records into frames until the final frame, a
// transport failure, or cancellation. The channel is always closed and the
// connection released exactly once.
func (c *Client) readFrames(ctx context.Context, conn *hubConn, frames chan<- entity.Frame) {
	defer close(frames)
	defer conn.close()

	watchDone := make(chan struct{})
	defer close(watchDone)
	go func() {
		select {
		case <-ctx.Done():
			// Unblocks the pending read below.
			conn.close()
		case <-watchDone:
		}
	}()

	emit := func(f entity.Frame) bool {
		select {
		case frames <- f:
			return true
		case <-ctx.Done():
			return false
		}
	}

	lastPing := time.Now()
	for {
		data, err := conn.read()
		if err != nil {
			if ctx.Err() == nil {
				emit(entity.Frame{Err: fmt.Errorf("upstream read failed: %w", err)})
			}
			return
		}

		if time.Since(lastPing) > pingInterval {
			if err := conn.write([]byte(`{"type":6}`)); err != nil {
				emit(entity.Frame{Err: fmt.Errorf("upstream ping failed: %w", err)})
				return
			}
			lastPing = time.Now()
		}

		for _, msg := range strings.Split(data, recordSeparator) {
			if msg == "" {
				continue
			}
			if !gjson.Valid(msg) {
				emit(entity.Frame{Err: errors.New("malformed upstream frame")})
				return
			}

			result := gjson.Parse(msg)
			if result.Get("type").Int() == 2 &&
				result.Get("item.result.value").String() != "Success" {
				emit(entity.Frame{Err: fmt.Errorf("upstream rejected the turn: %s: %s",
					result.Get("item.result.value").String(),
					result.Get("item.result.message").String())})
				return
			}

			if !emit(entity.Frame{Data: msg}) {
				return
			}
			if result.Get("type").Int() == 2 {
				// Final frame of the turn.
				return
			}
		}
	}
}

// hubConn wraps the websocket with record framing, deadlines, and
// idempotent close.
type hubConn struct {
	ws          *websocket.Conn
	readTimeout time.Duration
	closeOnce   sync.Once
}

func (c *hubConn) write(payload []byte) error {
	if err := c.ws.SetWriteDeadline(deadline(c.readTimeout)); err != nil {
		return err
	}
	return c.ws.WriteMessage(websocket.TextMessage, append(payload, recordSeparator...))
}

func (c *hubConn) read() (string, error) {
	if err := c.ws.SetReadDeadline(deadline(c.readTimeout)); err != nil {
		return "", err
	}
	_, data, err := c.ws.ReadMessage()
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (c *hubConn) close() {
	c.closeOnce.Do(func() {
		_ = c.ws.Close()
	})
}

func deadline(timeout time.Duration) time.Time {
	if timeout <= 0 {
		return time.Time{}
	}
	return time.Now().Add(timeout)
}

func mustRandomHex(n int) string {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return hex.EncodeToString(b)
}

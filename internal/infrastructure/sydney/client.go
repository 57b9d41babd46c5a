// Package sydney implements the upstream collaborator: conversation
// creation, image upload, and the websocket ask-stream against the Bing
// conversational backend.
package sydney

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/PeronGH/SydneyWeb/internal/config"
	"github.com/PeronGH/SydneyWeb/internal/domain"
	"github.com/PeronGH/SydneyWeb/internal/domain/entity"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
	"(KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36 Edg/124.0.0.0"

// Client talks to the Bing conversational backend.
type Client struct {
	cfg        config.UpstreamConfig
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates the upstream client. An invalid proxy URL is the only
// construction failure.
func NewClient(cfg config.UpstreamConfig, logger *slog.Logger) (*Client, error) {
	transport := &http.Transport{}
	if cfg.Proxy != "" {
		proxyURL, err := url.Parse(cfg.Proxy)
		if err != nil {
			return nil, fmt.Errorf("invalid upstream proxy: %w", err)
		}
		transport.Proxy = http.ProxyURL(proxyURL)
	}

	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Transport: transport,
		},
		logger: logger,
	}, nil
}

var _ domain.UpstreamClient = (*Client)(nil)

// CreateConversation requests a fresh conversation handle.
func (c *Client) CreateConversation(ctx context.Context, cookies []entity.Cookie) (*entity.Conversation, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.CreateURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build create request: %w", err)
	}
	c.setCommonHeaders(req, cookies)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("conversation create request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read create response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("conversation create returned status %d", resp.StatusCode)
	}

	result := gjson.ParseBytes(body)
	if value := result.Get("result.value").String(); value != "Success" {
		return nil, fmt.Errorf("conversation create rejected: %s: %s",
			value, result.Get("result.message").String())
	}

	conversation := &entity.Conversation{
		ConversationID:        result.Get("conversationId").String(),
		ClientID:              result.Get("clientId").String(),
		ConversationSignature: result.Get("conversationSignature").String(),
	}
	// Newer protocol versions move the signature into a response header.
	if sig := resp.Header.Get("X-Sydney-Encryptedconversationsignature"); sig != "" {
		conversation.SecAccessToken = sig
	}

	c.logger.Debug("conversation created",
		"conversation_id", conversation.ConversationID,
		"has_sec_access_token", conversation.SecAccessToken != "",
	)
	return conversation, nil
}

// UploadImage uploads a base64-encoded image to the blob store and returns
// its blob id.
func (c *Client) UploadImage(ctx context.Context, imgBase64 string, cookies []entity.Cookie) (string, error) {
	var buf strings.Builder
	form := multipart.NewWriter(&buf)

	if err := form.WriteField("knowledgeRequest", kblobKnowledgeRequest); err != nil {
		return "", fmt.Errorf("failed to build upload form: %w", err)
	}
	if err := form.WriteField("imageBase64", imgBase64); err != nil {
		return "", fmt.Errorf("failed to build upload form: %w", err)
	}
	if err := form.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize upload form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.KBlobURL,
		strings.NewReader(buf.String()))
	if err != nil {
		return "", fmt.Errorf("failed to build upload request: %w", err)
	}
	c.setCommonHeaders(req, cookies)
	req.Header.Set("Content-Type", form.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("image upload request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read upload response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("image upload returned status %d", resp.StatusCode)
	}

	blobID := gjson.GetBytes(body, "blobId").String()
	if blobID == "" {
		return "", fmt.Errorf("image upload response carries no blob id")
	}

	c.logger.Debug("image uploaded", "blob_id", blobID)
	return blobID, nil
}

func (c *Client) setCommonHeaders(req *http.Request, cookies []entity.Cookie) {
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Referer", "https://www.bing.com/search?q=Bing+AI")
	req.Header.Set("Origin", "https://www.bing.com")
	if header := entity.CookieHeader(cookies); header != "" {
		req.Header.Set("Cookie", header)
	}
}

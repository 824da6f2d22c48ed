package voice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/appetiteclub/dinner/services/storefront/internal/conversation"
	"github.com/appetiteclub/dinner/services/storefront/internal/normalize"
)

// Capabilities are the external speech and dialogue services.
type Capabilities interface {
	Health(ctx context.Context) error
	Greeting(ctx context.Context, lang, name string) (string, error)
	Transcribe(ctx context.Context, audio []byte, language string) (string, error)
	Chat(ctx context.Context, messages []conversation.Message) (*ChatReply, error)
	Confirm(ctx context.Context, history []conversation.Message, finalMessage string) (*Confirmation, error)
}

// ChatReply is one assistant turn. Order is set once the assistant
// considers the order confirmed; some deployments send the snapshot as
// SummaryText instead.
type ChatReply struct {
	Message        string             `json:"message"`
	OrderConfirmed bool               `json:"orderConfirmed"`
	OrderID        string             `json:"orderId,omitempty"`
	Order          *normalize.Summary `json:"order,omitempty"`
	SummaryText    string             `json:"summaryText,omitempty"`
}

type Confirmation struct {
	OrderID     string             `json:"orderId"`
	ConfirmedAt string             `json:"confirmedAt"`
	Order       *normalize.Summary `json:"order,omitempty"`
	SummaryText string             `json:"summaryText,omitempty"`
}

// Client talks to the voice capability server.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *Client) BaseURL() string {
	if c == nil {
		return ""
	}
	return c.baseURL
}

func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, "health", http.MethodGet, "/health", nil, "", nil)
}

// Greeting falls back to a plain hello when the service answers without one.
func (c *Client) Greeting(ctx context.Context, lang, name string) (string, error) {
	q := url.Values{}
	q.Set("lang", lang)
	q.Set("name", name)

	var resp struct {
		Greeting string `json:"greeting"`
	}
	if err := c.do(ctx, "greeting", http.MethodGet, "/config/greeting?"+q.Encode(), nil, "", &resp); err != nil {
		return "", err
	}
	if resp.Greeting == "" {
		return "안녕하세요!", nil
	}
	return resp.Greeting, nil
}

func (c *Client) Transcribe(ctx context.Context, audio []byte, language string) (string, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "audio.webm")
	if err != nil {
		return "", fmt.Errorf("cannot build upload: %w", err)
	}
	if _, err := part.Write(audio); err != nil {
		return "", fmt.Errorf("cannot build upload: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("cannot build upload: %w", err)
	}

	path := "/api/stt/transcribe"
	if language != "" {
		path += "?" + url.Values{"language": {language}}.Encode()
	}

	var resp struct {
		Transcript string `json:"transcript"`
		Text       string `json:"text"`
	}
	if err := c.do(ctx, "transcribe", http.MethodPost, path, &body, mw.FormDataContentType(), &resp); err != nil {
		return "", err
	}
	if resp.Transcript != "" {
		return resp.Transcript, nil
	}
	return resp.Text, nil
}

func (c *Client) Chat(ctx context.Context, messages []conversation.Message) (*ChatReply, error) {
	payload, err := json.Marshal(map[string]interface{}{"messages": messages})
	if err != nil {
		return nil, fmt.Errorf("cannot encode chat request: %w", err)
	}

	var reply ChatReply
	if err := c.do(ctx, "chat", http.MethodPost, "/api/llm/generate", bytes.NewReader(payload), "application/json", &reply); err != nil {
		return nil, err
	}
	return &reply, nil
}

func (c *Client) Confirm(ctx context.Context, history []conversation.Message, finalMessage string) (*Confirmation, error) {
	req := struct {
		History      []conversation.Message `json:"history"`
		FinalMessage string                 `json:"finalMessage,omitempty"`
	}{History: history, FinalMessage: finalMessage}
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("cannot encode confirm request: %w", err)
	}

	var conf Confirmation
	if err := c.do(ctx, "confirm", http.MethodPost, "/api/order/confirm", bytes.NewReader(payload), "application/json", &conf); err != nil {
		return nil, err
	}
	return &conf, nil
}

func (c *Client) do(ctx context.Context, op, method, path string, body io.Reader, contentType string, dest interface{}) error {
	if c == nil {
		return &Failure{Kind: Connectivity, Op: op, Err: fmt.Errorf("voice client not configured")}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("cannot build %s request: %w", op, err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return transportFailure(op, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return transportFailure(op, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return statusFailure(op, resp.StatusCode, string(raw))
	}

	if dest == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return &Failure{Kind: Other, Op: op, Status: resp.StatusCode, Err: fmt.Errorf("cannot decode response: %w", err)}
	}
	return nil
}

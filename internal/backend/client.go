package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sanoh-inlab/labelgo/internal/models"
)

// DefaultTimeout bounds every backend request
const DefaultTimeout = 30 * time.Second

var (
	// ErrUnauthorized is returned when the backend rejects the session token
	ErrUnauthorized = errors.New("unauthorized - session expired or invalid")
	// ErrTimeout is returned when the backend does not answer in time
	ErrTimeout = errors.New("request timeout - server did not respond in time")
)

// Client talks to the label backend REST API
type Client struct {
	BaseURL    string
	Token      string
	HttpClient *http.Client
}

// NewClient creates a backend client
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HttpClient: &http.Client{Timeout: timeout},
	}
}

// WithToken returns a copy of the client that authenticates with token
func (c *Client) WithToken(token string) *Client {
	clone := *c
	clone.Token = token
	return &clone
}

// Envelope is the common response wrapper of the backend
type Envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Count   int             `json:"count"`
	Data    json.RawMessage `json:"data"`
}

// PrintableLabels is the label list of one production order
type PrintableLabels struct {
	Header models.OrderHeader
	Labels []models.LabelRecord
}

type printableLabelsResponse struct {
	Envelope
	ProdHeader models.OrderHeader `json:"prod_header"`
}

// GetProdHeaders lists production headers, optionally filtered by prod index
func (c *Client) GetProdHeaders(ctx context.Context, prodIndex string) ([]models.ProdHeader, error) {
	endpoint := "/api/labels/prod-headers"
	if prodIndex != "" {
		endpoint += "?prod_index=" + url.QueryEscape(prodIndex)
	}

	var env Envelope
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &env); err != nil {
		return nil, err
	}
	if !env.Success {
		return nil, responseError(env.Message, "failed to fetch prod headers")
	}

	var headers []models.ProdHeader
	if err := decodeData(env.Data, &headers); err != nil {
		return nil, fmt.Errorf("decode prod headers: %w", err)
	}
	return headers, nil
}

// GetPrintableLabels lists the printable labels of a production order
func (c *Client) GetPrintableLabels(ctx context.Context, prodNo string) (*PrintableLabels, error) {
	if prodNo == "" {
		return nil, errors.New("prod no is required")
	}

	var resp printableLabelsResponse
	if err := c.do(ctx, http.MethodGet, "/api/labels/printable?prod_no="+url.QueryEscape(prodNo), nil, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, responseError(resp.Message, "failed to fetch label details")
	}

	var labels []models.LabelRecord
	if err := decodeData(resp.Data, &labels); err != nil {
		return nil, fmt.Errorf("decode printable labels: %w", err)
	}
	return &PrintableLabels{Header: resp.ProdHeader, Labels: labels}, nil
}

// MarkPrinted tells the backend the labels have been printed
func (c *Client) MarkPrinted(ctx context.Context, labelIDs []int) error {
	body := map[string][]int{"label_ids": labelIDs}

	var env Envelope
	if err := c.do(ctx, http.MethodPost, "/api/labels/mark-printed", body, &env); err != nil {
		return err
	}
	if !env.Success {
		return responseError(env.Message, "failed to mark labels as printed")
	}
	return nil
}

// TriggerSync starts the backend synchronization job and returns its message
func (c *Client) TriggerSync(ctx context.Context) (string, error) {
	var env Envelope
	if err := c.do(ctx, http.MethodPost, "/api/labels/sync", struct{}{}, &env); err != nil {
		return "", err
	}
	if !env.Success {
		return "", responseError(env.Message, "sync failed")
	}
	return env.Message, nil
}

// Login exchanges operator credentials for a backend token
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	body := map[string]string{"username": username, "password": password}

	var raw struct {
		Success     bool   `json:"success"`
		Status      string `json:"status"`
		Message     string `json:"message"`
		Token       string `json:"token"`
		AccessToken string `json:"access_token"`
		Data        struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/login", body, &raw); err != nil {
		return "", err
	}

	token := raw.Token
	if token == "" {
		token = raw.Data.Token
	}
	if token == "" {
		token = raw.AccessToken
	}
	if token == "" {
		return "", responseError(raw.Message, "login failed")
	}
	return token, nil
}

func (c *Client) do(ctx context.Context, method, endpoint string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+endpoint, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.HttpClient.Do(req)
	if err != nil {
		var netErr interface{ Timeout() bool }
		if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
			return ErrTimeout
		}
		return fmt.Errorf("%s %s: %w", method, endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		text, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		msg := fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode))
		if len(text) > 0 {
			msg += " - " + strings.TrimSpace(string(text))
		}
		return errors.New(msg)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeData(raw json.RawMessage, v interface{}) error {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	return json.Unmarshal(raw, v)
}

func responseError(message, fallback string) error {
	if message == "" {
		message = fallback
	}
	return errors.New(message)
}

// Package api implements the HTTP client for the assistant backend: the
// multipart document upload endpoint and the JSON chat endpoint.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"askdoc/internal/chat"
)

// DefaultBaseURL matches the backend's default listen address.
const DefaultBaseURL = "http://localhost:8000"

// maxErrorBodyBytes caps how much of an error response body is surfaced.
const maxErrorBodyBytes = 2048

// Client talks to the assistant backend. It implements chat.DocumentService
// and chat.AssistantService; request deadlines come from the caller's context.
type Client struct {
	baseURL string
	httpc   *http.Client
}

// NewClient creates a backend client. An empty baseURL falls back to
// DefaultBaseURL; a nil httpc falls back to http.DefaultClient.
func NewClient(baseURL string, httpc *http.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpc == nil {
		httpc = http.DefaultClient
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   httpc,
	}
}

// StatusError reports a non-success HTTP response. Body carries the opaque
// response text, which is surfaced to the user in the error message.
type StatusError struct {
	Endpoint string
	Code     int
	Body     string
}

func (e *StatusError) Error() string {
	body := strings.TrimSpace(e.Body)
	if body == "" {
		return fmt.Sprintf("%s returned status %d", e.Endpoint, e.Code)
	}
	return fmt.Sprintf("%s returned status %d: %s", e.Endpoint, e.Code, body)
}

type uploadResponse struct {
	SessionID string `json:"session_id"`
	Summary   string `json:"summary"`
	Document  string `json:"document"`
}

// UploadDocument sends the file at path as a multipart form with a single
// "file" field and returns the session the backend opened for it.
func (c *Client) UploadDocument(ctx context.Context, path string) (chat.UploadResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return chat.UploadResult{}, fmt.Errorf("open document: %w", err)
	}
	defer f.Close()

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	part, err := form.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return chat.UploadResult{}, fmt.Errorf("build upload form: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return chat.UploadResult{}, fmt.Errorf("read document: %w", err)
	}
	if err := form.Close(); err != nil {
		return chat.UploadResult{}, fmt.Errorf("finalize upload form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/upload", &body)
	if err != nil {
		return chat.UploadResult{}, fmt.Errorf("build upload request: %w", err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	resp, err := c.httpc.Do(req)
	if err != nil {
		return chat.UploadResult{}, fmt.Errorf("upload request: %w", err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp, "upload"); err != nil {
		return chat.UploadResult{}, err
	}

	var parsed uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return chat.UploadResult{}, fmt.Errorf("parse upload response: %w", err)
	}
	if parsed.SessionID == "" {
		return chat.UploadResult{}, fmt.Errorf("upload response missing session_id")
	}
	return chat.UploadResult{
		SessionID: parsed.SessionID,
		Summary:   parsed.Summary,
		Document:  parsed.Document,
	}, nil
}

type askRequest struct {
	Question    string `json:"question"`
	SessionID   string `json:"session_id"`
	Personality string `json:"personality"`
	Research    bool   `json:"research"`
}

type askResponse struct {
	Answer    string   `json:"answer"`
	ToolsUsed []string `json:"tools_used"`
}

// Ask sends one question to the chat endpoint. An empty or missing answer is
// returned as-is; the caller decides on the "no answer" sentinel.
func (c *Client) Ask(ctx context.Context, req chat.AskRequest) (chat.AskResult, error) {
	payload, err := json.Marshal(askRequest{
		Question:    req.Question,
		SessionID:   req.SessionID,
		Personality: strings.ToLower(string(req.Personality)),
		Research:    req.Research,
	})
	if err != nil {
		return chat.AskResult{}, fmt.Errorf("encode chat request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat", bytes.NewReader(payload))
	if err != nil {
		return chat.AskResult{}, fmt.Errorf("build chat request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(httpReq)
	if err != nil {
		return chat.AskResult{}, fmt.Errorf("chat request: %w", err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp, "chat"); err != nil {
		return chat.AskResult{}, err
	}

	var parsed askResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return chat.AskResult{}, fmt.Errorf("parse chat response: %w", err)
	}
	return chat.AskResult{
		Answer:    parsed.Answer,
		ToolsUsed: parsed.ToolsUsed,
	}, nil
}

// checkStatus converts a non-2xx response into a StatusError carrying the
// (truncated) response body as opaque text.
func checkStatus(resp *http.Response, endpoint string) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
	return &StatusError{
		Endpoint: endpoint,
		Code:     resp.StatusCode,
		Body:     string(body),
	}
}

package chat

import "context"

// UploadResult is the backend's answer to a successful document upload.
type UploadResult struct {
	SessionID string
	Summary   string
	Document  string // extracted text, kept for display only
}

// AskRequest carries one question to the assistant backend.
type AskRequest struct {
	Question    string
	SessionID   string
	Personality Personality
	Research    bool // ask the backend to consult its web research tool first
}

// AskResult is the assistant backend's answer to one question.
type AskResult struct {
	Answer    string
	ToolsUsed []string // names of external research tools consulted, if any
}

// DocumentService uploads a document and opens a backend session for it.
type DocumentService interface {
	UploadDocument(ctx context.Context, path string) (UploadResult, error)
}

// AssistantService answers questions against an active session.
type AssistantService interface {
	Ask(ctx context.Context, req AskRequest) (AskResult, error)
}

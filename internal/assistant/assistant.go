package assistant

import (
	"context"

	"github.com/gomarkdown/markdown"

	"oncodash/ports"
)

// Assistant relays chat conversations to the backend's assistant endpoint
// and renders the markdown reply to HTML for the dashboard.
type Assistant struct {
	backend ports.Backend
}

// New creates an assistant over the backend.
func New(backend ports.Backend) *Assistant {
	return &Assistant{backend: backend}
}

// Reply is one rendered assistant answer.
type Reply struct {
	Markdown string `json:"markdown"`
	HTML     string `json:"html"`
}

// Ask sends the conversation and returns the reply both raw and rendered.
// Failures surface inline near the chat control; no prior dashboard state is
// touched.
func (a *Assistant) Ask(ctx context.Context, messages []ports.ChatMessage) (*Reply, error) {
	raw, err := a.backend.Chat(ctx, messages)
	if err != nil {
		return nil, err
	}
	return &Reply{
		Markdown: raw,
		HTML:     string(markdown.ToHTML([]byte(raw), nil, nil)),
	}, nil
}

package llm

import "context"

// CompletionRequest is one prompt sent to an analysis model.
type CompletionRequest struct {
	System string
	Prompt string
}

// ChatModel abstracts an upstream analysis model. Implementations normalize
// the provider's transport shape (chat-choices wrapper, content-block array)
// into a plain string so the stages only ever see text.
type ChatModel interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
	ModelName() string
}

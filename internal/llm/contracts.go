package llm

import "context"

// Request is one black-box call to the language-model service.
type Request struct {
	System      string  // system framing, may be empty
	Prompt      string  // user content
	ModelHint   string  // overrides the client default when set
	Temperature float32 // 0..2
	MaxTokens   int     // 0 means provider default
	ForceJSON   bool    // ask the provider for a JSON object response
}

// Response is the raw text the service returned.
type Response struct {
	Text  string
	Model string
}

// Invoker is the interface the pipeline depends on. Latency and failure modes
// (timeouts, upstream errors, empty responses) are the caller's problem; a
// locally timed-out call may keep running on the provider side.
type Invoker interface {
	Invoke(ctx context.Context, req Request) (Response, error)
}

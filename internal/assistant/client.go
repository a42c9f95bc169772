package assistant

import "context"

// ChatClient is the generative-reply provider contract. Implementations
// return the provider's text, or an error treated uniformly as "no answer".
type ChatClient interface {
	Complete(ctx context.Context, systemPrompt string, history []Turn, userText string) (string, error)
}

package llm

import "context"

// Role identifies the author of a chat message
type Role string

const (
	RoleSystem Role = "system"
	RoleUser   Role = "user"
)

// Message is one prompt message sent to the completion endpoint
type Message struct {
	Role    Role
	Content string
}

// Request carries a completion request in the provider-neutral shape
type Request struct {
	Messages    []Message
	Temperature float32
	MaxTokens   int
}

// Client is the hosted completion endpoint. The endpoint is a stateless
// collaborator: one request in, one text completion out. Implementations
// must return an error for any non-2xx or transport failure so callers can
// fall back locally.
type Client interface {
	Complete(ctx context.Context, req Request) (string, error)
	Model() string
}

// NewDisabledClient returns a Client whose every call fails with err. Used
// when no provider credentials are configured so the app still runs on the
// offline fallback.
func NewDisabledClient(err error) Client {
	return &disabledClient{err: err}
}

type disabledClient struct {
	err error
}

func (d *disabledClient) Model() string { return "disabled" }

func (d *disabledClient) Complete(ctx context.Context, req Request) (string, error) {
	return "", d.err
}

package ports

import "context"

// TokenStore keeps device tokens registered by users for push delivery.
// Tokens are grouped per user and per role so order and registration
// notifications can resolve their recipients.
type TokenStore interface {
	// Save registers a device token for the user. Re-registering the same
	// token is a no-op.
	Save(ctx context.Context, userID, role, token string) error
	// ByUser returns all tokens registered by one user.
	ByUser(ctx context.Context, userID string) ([]string, error)
	// ByRole returns all tokens registered by users holding the role.
	ByRole(ctx context.Context, role string) ([]string, error)
}

// Publisher dispatches a rendered notification to the delivery channel.
type Publisher interface {
	Publish(ctx context.Context, message Message) error
}

// Message is the wire payload handed to the delivery channel.
type Message struct {
	Tokens []string `json:"tokens"`
	Title  string   `json:"title"`
	Body   string   `json:"body"`
}

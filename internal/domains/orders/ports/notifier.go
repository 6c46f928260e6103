package ports

import "context"

// Notifier dispatches a push notification to a set of device tokens.
// Callers treat it as best-effort: failures are logged, never propagated
// into the order workflow result.
type Notifier interface {
	Notify(ctx context.Context, tokens []string, title, body string) error
}

// TokenDirectory resolves the vendor device tokens a stock alert fans out to.
type TokenDirectory interface {
	VendorTokens(ctx context.Context, vendorID string) ([]string, error)
}

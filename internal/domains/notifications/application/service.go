package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopsphere/commerce-api/internal/domains/notifications/ports"
)

// ErrInvalidInput rejects token registrations missing the user or the token.
var ErrInvalidInput = errors.New("invalid notification input")

// Service routes notifications to registered device tokens. It implements
// the Notifier and TokenDirectory collaborators the order workflow depends
// on: delivery is best-effort and the engine never sees a delivery error.
type Service struct {
	tokens    ports.TokenStore
	publisher ports.Publisher
	logger    *slog.Logger
}

type Option func(*Service)

// WithPublisher injects the delivery channel. Without one, notifications are
// logged and dropped.
func WithPublisher(p ports.Publisher) Option {
	return func(s *Service) { s.publisher = p }
}

// WithLogger injects a slog logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewService wires the notification router.
func NewService(tokens ports.TokenStore, opts ...Option) *Service {
	s := &Service{tokens: tokens, logger: slog.Default()}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// RegisterToken stores a device token for the user. The role is recorded so
// role-wide fan-outs (CSR registration alerts) can resolve recipients.
func (s *Service) RegisterToken(ctx context.Context, userID, role, token string) error {
	if strings.TrimSpace(userID) == "" || strings.TrimSpace(token) == "" {
		return fmt.Errorf("%w: user id and token must not be empty", ErrInvalidInput)
	}
	return s.tokens.Save(ctx, userID, role, token)
}

// Notify dispatches a notification to the given tokens through the delivery
// channel. Errors are returned to the caller, which treats them as
// best-effort.
func (s *Service) Notify(ctx context.Context, tokens []string, title, body string) error {
	if len(tokens) == 0 {
		return nil
	}
	if s.publisher == nil {
		s.logger.Info("notification channel not configured, dropping notification",
			slog.String("title", title), slog.Int("recipients", len(tokens)))
		return nil
	}
	return s.publisher.Publish(ctx, ports.Message{Tokens: tokens, Title: title, Body: body})
}

// VendorTokens resolves the device tokens registered by a vendor.
func (s *Service) VendorTokens(ctx context.Context, vendorID string) ([]string, error) {
	return s.tokens.ByUser(ctx, vendorID)
}

// RoleTokens resolves the device tokens registered by all users of a role.
func (s *Service) RoleTokens(ctx context.Context, role string) ([]string, error) {
	return s.tokens.ByRole(ctx, role)
}

package application

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shopsphere/commerce-api/internal/domains/notifications/adapters/memory"
	"github.com/shopsphere/commerce-api/internal/domains/notifications/ports"
)

type capturingPublisher struct {
	published []ports.Message
	err       error
}

func (p *capturingPublisher) Publish(_ context.Context, message ports.Message) error {
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, message)
	return nil
}

func TestRegisterAndResolveTokens(t *testing.T) {
	svc := NewService(memory.NewTokenStore())
	ctx := context.Background()

	require.NoError(t, svc.RegisterToken(ctx, "VEN001", "vendor", "token-a"))
	require.NoError(t, svc.RegisterToken(ctx, "VEN001", "vendor", "token-b"))
	// Duplicate registration is a no-op.
	require.NoError(t, svc.RegisterToken(ctx, "VEN001", "vendor", "token-a"))

	tokens, err := svc.VendorTokens(ctx, "VEN001")
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"token-a", "token-b"}, tokens)

	byRole, err := svc.RoleTokens(ctx, "vendor")
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"token-a", "token-b"}, byRole)
}

func TestRegisterToken_RejectsEmptyInput(t *testing.T) {
	svc := NewService(memory.NewTokenStore())
	require.ErrorIs(t, svc.RegisterToken(context.Background(), "", "vendor", "token"), ErrInvalidInput)
	require.ErrorIs(t, svc.RegisterToken(context.Background(), "VEN001", "vendor", "  "), ErrInvalidInput)
}

func TestNotify_PublishesMessage(t *testing.T) {
	publisher := &capturingPublisher{}
	svc := NewService(memory.NewTokenStore(), WithPublisher(publisher))

	err := svc.Notify(context.Background(), []string{"token-a"}, "Stock Alert", "Current stock: 8")
	require.NoError(t, err)
	require.Len(t, publisher.published, 1)
	require.Equal(t, "Stock Alert", publisher.published[0].Title)
	require.Equal(t, []string{"token-a"}, publisher.published[0].Tokens)
}

func TestNotify_NoRecipientsSkipsPublish(t *testing.T) {
	publisher := &capturingPublisher{}
	svc := NewService(memory.NewTokenStore(), WithPublisher(publisher))

	require.NoError(t, svc.Notify(context.Background(), nil, "Stock Alert", "body"))
	require.Empty(t, publisher.published)
}

func TestNotify_WithoutPublisherDropsQuietly(t *testing.T) {
	svc := NewService(memory.NewTokenStore())
	require.NoError(t, svc.Notify(context.Background(), []string{"token-a"}, "Stock Alert", "body"))
}

func TestNotify_PublisherErrorSurfacesToCaller(t *testing.T) {
	publisher := &capturingPublisher{err: fmt.Errorf("broker unavailable")}
	svc := NewService(memory.NewTokenStore(), WithPublisher(publisher))

	err := svc.Notify(context.Background(), []string{"token-a"}, "Stock Alert", "body")
	require.Error(t, err)
}

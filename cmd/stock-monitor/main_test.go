package main

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	catalogdomain "github.com/shopsphere/commerce-api/internal/domains/catalog/domain"
	notifmemory "github.com/shopsphere/commerce-api/internal/domains/notifications/adapters/memory"
	notifapp "github.com/shopsphere/commerce-api/internal/domains/notifications/application"
	notifports "github.com/shopsphere/commerce-api/internal/domains/notifications/ports"
)

type capturingPublisher struct {
	messages []notifports.Message
}

func (p *capturingPublisher) Publish(_ context.Context, msg notifports.Message) error {
	p.messages = append(p.messages, msg)
	return nil
}

func lowStockProduct(t *testing.T, code, name string) *catalogdomain.Product {
	t.Helper()
	product, err := catalogdomain.NewProduct(code, name, 9.99, 2, "CAT001", "VEN001")
	require.NoError(t, err)
	return product
}

func TestNotifyCSRs_SendsOneSummary(t *testing.T) {
	ctx := t.Context()
	publisher := &capturingPublisher{}
	notifier := notifapp.NewService(notifmemory.NewTokenStore(), notifapp.WithPublisher(publisher))
	require.NoError(t, notifier.RegisterToken(ctx, "CSR001", "csr", "tok-csr-1"))

	products := []*catalogdomain.Product{
		lowStockProduct(t, "P100", "Garden Hose"),
		lowStockProduct(t, "P200", "Watering Can"),
	}
	notifyCSRs(ctx, slog.Default(), notifier, products, 5)

	require.Len(t, publisher.messages, 1)
	msg := publisher.messages[0]
	require.Equal(t, []string{"tok-csr-1"}, msg.Tokens)
	require.Equal(t, "Low Stock Summary", msg.Title)
	require.Contains(t, msg.Body, "Garden Hose")
	require.Contains(t, msg.Body, "Watering Can")
	require.Contains(t, msg.Body, "threshold of 5")
}

func TestNotifyCSRs_SkipsWhenNothingIsLow(t *testing.T) {
	publisher := &capturingPublisher{}
	notifier := notifapp.NewService(notifmemory.NewTokenStore(), notifapp.WithPublisher(publisher))
	require.NoError(t, notifier.RegisterToken(t.Context(), "CSR001", "csr", "tok-csr-1"))

	notifyCSRs(t.Context(), slog.Default(), notifier, nil, 5)
	require.Empty(t, publisher.messages)
}

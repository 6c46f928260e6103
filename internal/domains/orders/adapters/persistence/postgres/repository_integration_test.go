//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/shopsphere/commerce-api/internal/domains/orders/domain"
	"github.com/shopsphere/commerce-api/internal/domains/orders/ports"
	"github.com/shopsphere/commerce-api/internal/platform/migrations"
)

func setupOrdersPostgresContainer(t *testing.T) (*gorm.DB, func()) {
	ctx := context.Background()

	pgContainer, err := tcpostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcpostgres.WithDatabase("commerce_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	err = migrations.Run(db)
	require.NoError(t, err)

	cleanup := func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
		pgContainer.Terminate(ctx)
	}

	return db, cleanup
}

func TestOrderRepository_InsertAndFind(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupOrdersPostgresContainer(t)
	defer cleanup()

	repo := NewOrderRepository(db)
	ctx := context.Background()

	order, err := domain.NewOrder("O00042", "CUS001")
	require.NoError(t, err)
	order.TotalPrice = 99.50

	saved, err := repo.Insert(ctx, order)
	require.NoError(t, err)
	require.NotZero(t, saved.ID)
	require.Equal(t, domain.StatusPurchased, saved.Status)

	found, err := repo.FindByCode(ctx, "O00042")
	require.NoError(t, err)
	require.Equal(t, "CUS001", found.CustomerID)
	require.InDelta(t, 99.50, found.TotalPrice, 1e-9)

	exists, err := repo.ExistsByCode(ctx, "O00042")
	require.NoError(t, err)
	require.True(t, exists)

	_, err = repo.FindByCode(ctx, "O99999")
	require.ErrorIs(t, err, ports.ErrOrderNotFound)
}

func TestOrderRepository_StatusAndTotalUpdates(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupOrdersPostgresContainer(t)
	defer cleanup()

	repo := NewOrderRepository(db)
	ctx := context.Background()

	order, err := domain.NewOrder("O00100", "CUS002")
	require.NoError(t, err)
	saved, err := repo.Insert(ctx, order)
	require.NoError(t, err)

	saved.Status = domain.StatusDispatched
	saved.Note = "left the warehouse"
	require.NoError(t, repo.UpdateStatus(ctx, saved))

	require.NoError(t, repo.UpdateTotalPrice(ctx, saved.Code, 42.00))

	found, err := repo.FindByCode(ctx, saved.Code)
	require.NoError(t, err)
	require.Equal(t, domain.StatusDispatched, found.Status)
	require.Equal(t, "left the warehouse", found.Note)
	require.InDelta(t, 42.00, found.TotalPrice, 1e-9)
}

func TestOrderItemRepository_Lifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupOrdersPostgresContainer(t)
	defer cleanup()

	orders := NewOrderRepository(db)
	items := NewOrderItemRepository(db)
	ctx := context.Background()

	order, err := domain.NewOrder("O00200", "CUS003")
	require.NoError(t, err)
	_, err = orders.Insert(ctx, order)
	require.NoError(t, err)

	item, err := domain.NewOrderItem("O00200", "P100", "Keyboard", "VEN001", 2, 45.00)
	require.NoError(t, err)
	saved, err := items.Insert(ctx, item)
	require.NoError(t, err)
	require.NotEmpty(t, saved.ID)
	require.Equal(t, domain.ItemStatusPurchased, saved.Status)

	byPair, err := items.FindByOrderAndProduct(ctx, "O00200", "P100")
	require.NoError(t, err)
	require.Equal(t, saved.ID, byPair.ID)

	byVendor, err := items.FindAllByVendor(ctx, "VEN001")
	require.NoError(t, err)
	require.Len(t, byVendor, 1)

	saved.Quantity = 5
	saved.Price = 40.00
	require.NoError(t, items.Update(ctx, saved))
	require.NoError(t, items.UpdateStatus(ctx, saved.ID, domain.ItemStatusDelivered))

	found, err := items.FindByID(ctx, saved.ID)
	require.NoError(t, err)
	require.Equal(t, 5, found.Quantity)
	require.Equal(t, domain.ItemStatusDelivered, found.Status)

	inUse, err := items.ExistsByProduct(ctx, "P100")
	require.NoError(t, err)
	require.True(t, inUse)

	require.NoError(t, items.Delete(ctx, saved.ID))
	_, err = items.FindByID(ctx, saved.ID)
	require.ErrorIs(t, err, ports.ErrItemNotFound)
}

func TestIdempotencyStore_SaveAndConflict(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupOrdersPostgresContainer(t)
	defer cleanup()

	store := NewIdempotencyStore(db)
	ctx := context.Background()

	record := ports.IdempotencyRecord{Key: "key-1", RequestHash: "abc", OrderCode: "O00300"}
	saved, err := store.Save(ctx, record)
	require.NoError(t, err)
	require.Equal(t, "O00300", saved.OrderCode)

	replayed, err := store.Save(ctx, record)
	require.NoError(t, err)
	require.Equal(t, saved.OrderCode, replayed.OrderCode)

	_, err = store.Save(ctx, ports.IdempotencyRecord{Key: "key-1", RequestHash: "other", OrderCode: "O00301"})
	require.ErrorIs(t, err, ports.ErrIdempotencyConflict)

	missing, err := store.Get(ctx, "key-404")
	require.NoError(t, err)
	require.Nil(t, missing)
}

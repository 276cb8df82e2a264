package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/ecommerce_api/internal/models"
)

func newTestCache(t *testing.T) *ProductCache {
	t.Helper()

	url := os.Getenv("REDIS_URL")
	if url == "" {
		t.Skip("REDIS_URL not set")
	}
	client, err := Connect(context.Background(), url)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	c := NewProductCache(client, time.Minute)
	require.NoError(t, c.Invalidate(context.Background()))
	return c
}

func TestProductCache_RoundTrip(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	_, ok, err := c.GetProducts(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	products := []models.Product{{
		ID:            uuid.New(),
		Name:          "Xiaomi Mi Band 7",
		Price:         decimal.RequireFromString("49.99"),
		StockQuantity: 300,
	}}
	require.NoError(t, c.SetProducts(ctx, products))

	got, ok, err := c.GetProducts(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, got, 1)
	assert.Equal(t, products[0].ID, got[0].ID)
	assert.True(t, products[0].Price.Equal(got[0].Price))

	require.NoError(t, c.Invalidate(ctx))
	_, ok, err = c.GetProducts(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestConnect_BadURL(t *testing.T) {
	_, err := Connect(context.Background(), "not a url")
	require.Error(t, err)
}

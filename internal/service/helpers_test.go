package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Skotchmaster/ecommerce_api/internal/db/dbtest"
	"github.com/Skotchmaster/ecommerce_api/internal/hash"
	"github.com/Skotchmaster/ecommerce_api/internal/logging"
	"github.com/Skotchmaster/ecommerce_api/internal/models"
	"github.com/Skotchmaster/ecommerce_api/internal/repo"
	"github.com/Skotchmaster/ecommerce_api/internal/tokens"
	"github.com/Skotchmaster/ecommerce_api/internal/transport"
)

type publishedEvent struct {
	Topic string
	Key   string
	Event any
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
	err    error
}

func (p *recordingPublisher) PublishEvent(_ context.Context, topic, key string, event any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, publishedEvent{Topic: topic, Key: key, Event: event})
	return nil
}

func (p *recordingPublisher) Events() []publishedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]publishedEvent(nil), p.events...)
}

type memoryCache struct {
	products    []models.Product
	ok          bool
	invalidated int
}

func (c *memoryCache) GetProducts(context.Context) ([]models.Product, bool, error) {
	return c.products, c.ok, nil
}

func (c *memoryCache) SetProducts(_ context.Context, products []models.Product) error {
	c.products, c.ok = products, true
	return nil
}

func (c *memoryCache) Invalidate(context.Context) error {
	c.products, c.ok = nil, false
	c.invalidated++
	return nil
}

type testEnv struct {
	Repo    *repo.GormRepo
	Events  *recordingPublisher
	Cache   *memoryCache
	Auth    *AuthService
	Cart    *CartService
	Order   *OrderService
	Catalog *CatalogService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	r := repo.New(dbtest.Open(t))
	events := &recordingPublisher{}
	cache := &memoryCache{}
	log := logging.Discard()
	signer := tokens.NewSigner([]byte("test-jwt-secret"), "ecommerce-api", "ecommerce-api", 15*time.Minute)

	return &testEnv{
		Repo:    r,
		Events:  events,
		Cache:   cache,
		Auth:    NewAuthService(r, hash.Bcrypt{Cost: bcrypt.MinCost}, signer, 7*24*time.Hour, events, log),
		Cart:    NewCartService(r, log),
		Order:   NewOrderService(r, cache, events, log),
		Catalog: NewCatalogService(r, cache, nil, log),
	}
}

func (env *testEnv) product(t *testing.T, name, price string, stock int) models.Product {
	t.Helper()
	p := []models.Product{{
		Name:          name,
		Description:   name,
		Price:         decimal.RequireFromString(price),
		StockQuantity: stock,
	}}
	require.NoError(t, env.Repo.CreateProducts(context.Background(), p))
	return p[0]
}

func (env *testEnv) stock(t *testing.T, id uuid.UUID) int {
	t.Helper()
	p, err := env.Repo.FindProduct(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p.StockQuantity
}

func (env *testEnv) user(t *testing.T, email string) *models.User {
	t.Helper()
	ctx := context.Background()
	res := env.Auth.Register(ctx, transport.RegisterRequest{Email: email, Password: "password", FirstName: "A", LastName: "B"})
	require.True(t, res.OK(), res.Message)
	u, err := env.Repo.FindUserByEmail(ctx, email)
	require.NoError(t, err)
	require.NotNil(t, u)
	return u
}

func (env *testEnv) cart(t *testing.T, userID uuid.UUID) uuid.UUID {
	t.Helper()
	res := env.Cart.CreateCart(context.Background(), userID)
	require.True(t, res.OK(), res.Message)
	return res.Data.CartID
}

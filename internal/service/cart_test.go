package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/ecommerce_api/internal/logging"
	"github.com/Skotchmaster/ecommerce_api/internal/models"
	"github.com/Skotchmaster/ecommerce_api/internal/repo"
	"github.com/Skotchmaster/ecommerce_api/internal/result"
)

func TestCartService_CreateCart_Idempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u := env.user(t, "a@x.com")

	first := env.Cart.CreateCart(ctx, u.ID)
	require.Equal(t, result.StatusCreated, first.Status)

	second := env.Cart.CreateCart(ctx, u.ID)
	require.Equal(t, result.StatusOK, second.Status)
	assert.Equal(t, first.Data.CartID, second.Data.CartID)

	var count int64
	require.NoError(t, env.Repo.DB.Model(&models.Cart{}).Where("user_id = ?", u.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestCartService_AddProduct_Increments(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u := env.user(t, "a@x.com")
	cartID := env.cart(t, u.ID)
	p := env.product(t, "Widget", "10.00", 5)

	for range 3 {
		res := env.Cart.AddProduct(ctx, u.ID, cartID, p.ID)
		require.Equal(t, result.StatusOK, res.Status, res.Message)
	}

	view := env.Cart.GetCartView(ctx, cartID, u.ID)
	require.True(t, view.OK())
	require.Len(t, view.Data.Items, 1)
	assert.Equal(t, 3, view.Data.Items[0].Quantity)
	assert.Equal(t, "Widget", view.Data.Items[0].ProductName)
	assert.True(t, decimal.RequireFromString("30.00").Equal(view.Data.TotalAmount), view.Data.TotalAmount.String())
}

func TestCartService_AddProduct_StockBound(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u := env.user(t, "a@x.com")
	cartID := env.cart(t, u.ID)
	p := env.product(t, "Scarce", "1.00", 2)

	require.True(t, env.Cart.AddProduct(ctx, u.ID, cartID, p.ID).OK())
	require.True(t, env.Cart.AddProduct(ctx, u.ID, cartID, p.ID).OK())

	res := env.Cart.AddProduct(ctx, u.ID, cartID, p.ID)
	assert.Equal(t, result.StatusBadRequest, res.Status)
	assert.Equal(t, "Cannot add more than available stock.", res.Message)

	view := env.Cart.GetCartView(ctx, cartID, u.ID)
	require.Len(t, view.Data.Items, 1)
	assert.Equal(t, 2, view.Data.Items[0].Quantity)
	assert.Equal(t, 2, env.stock(t, p.ID))
}

func TestCartService_AddProduct_OutOfStock(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u := env.user(t, "a@x.com")
	cartID := env.cart(t, u.ID)
	p := env.product(t, "Gone", "1.00", 0)

	res := env.Cart.AddProduct(ctx, u.ID, cartID, p.ID)
	assert.Equal(t, result.StatusBadRequest, res.Status)

	view := env.Cart.GetCartView(ctx, cartID, u.ID)
	assert.Empty(t, view.Data.Items)
}

func TestCartService_AddProduct_NotFound(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.user(t, "owner@x.com")
	other := env.user(t, "other@x.com")
	cartID := env.cart(t, owner.ID)
	p := env.product(t, "Widget", "1.00", 5)

	tests := []struct {
		name    string
		userID  uuid.UUID
		cartID  uuid.UUID
		product uuid.UUID
		message string
	}{
		{name: "unknown cart", userID: owner.ID, cartID: uuid.New(), product: p.ID, message: "Cart not found or access denied."},
		{name: "foreign cart", userID: other.ID, cartID: cartID, product: p.ID, message: "Cart not found or access denied."},
		{name: "unknown product", userID: owner.ID, cartID: cartID, product: uuid.New(), message: "Product not found."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := env.Cart.AddProduct(ctx, tt.userID, tt.cartID, tt.product)
			assert.Equal(t, result.StatusNotFound, res.Status)
			assert.Equal(t, tt.message, res.Message)
		})
	}
}

func TestCartService_RemoveProduct(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u := env.user(t, "a@x.com")
	cartID := env.cart(t, u.ID)
	p := env.product(t, "Widget", "2.50", 5)

	require.True(t, env.Cart.AddProduct(ctx, u.ID, cartID, p.ID).OK())
	require.True(t, env.Cart.AddProduct(ctx, u.ID, cartID, p.ID).OK())

	require.Equal(t, result.StatusOK, env.Cart.RemoveProduct(ctx, u.ID, cartID, p.ID).Status)
	view := env.Cart.GetCartView(ctx, cartID, u.ID)
	require.Len(t, view.Data.Items, 1)
	assert.Equal(t, 1, view.Data.Items[0].Quantity)

	require.Equal(t, result.StatusOK, env.Cart.RemoveProduct(ctx, u.ID, cartID, p.ID).Status)
	view = env.Cart.GetCartView(ctx, cartID, u.ID)
	assert.Empty(t, view.Data.Items)
	assert.True(t, view.Data.TotalAmount.IsZero())

	res := env.Cart.RemoveProduct(ctx, u.ID, cartID, p.ID)
	assert.Equal(t, result.StatusNotFound, res.Status)
	assert.Equal(t, "Product not found in cart.", res.Message)

	res = env.Cart.RemoveProduct(ctx, u.ID, uuid.New(), p.ID)
	assert.Equal(t, result.StatusNotFound, res.Status)
	assert.Equal(t, "Cart not found.", res.Message)
}

func TestCartService_PriceSnapshot(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u := env.user(t, "a@x.com")
	cartID := env.cart(t, u.ID)
	p := env.product(t, "Widget", "10.00", 5)

	require.True(t, env.Cart.AddProduct(ctx, u.ID, cartID, p.ID).OK())
	require.NoError(t, env.Repo.DB.Model(&models.Product{}).Where("id = ?", p.ID).
		Update("price", decimal.RequireFromString("99.00")).Error)
	require.True(t, env.Cart.AddProduct(ctx, u.ID, cartID, p.ID).OK())

	view := env.Cart.GetCartView(ctx, cartID, u.ID)
	require.Len(t, view.Data.Items, 1)
	assert.True(t, decimal.RequireFromString("10.00").Equal(view.Data.Items[0].Price))
	assert.True(t, decimal.RequireFromString("20.00").Equal(view.Data.TotalAmount))
}

// staleCartRepo hands out carts whose version has already moved on, as if a
// concurrent request committed between the read and the write.
type staleCartRepo struct {
	*repo.GormRepo
}

func (r staleCartRepo) FindUserCart(ctx context.Context, cartID, userID uuid.UUID) (*models.Cart, error) {
	cart, err := r.GormRepo.FindUserCart(ctx, cartID, userID)
	if err != nil || cart == nil {
		return cart, err
	}
	if err := r.GormRepo.TouchCart(ctx, cart.ID, cart.Version); err != nil {
		return nil, err
	}
	return cart, nil
}

func TestCartService_ConcurrentModification(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u := env.user(t, "a@x.com")
	cartID := env.cart(t, u.ID)
	p := env.product(t, "Widget", "1.00", 5)

	svc := NewCartService(staleCartRepo{env.Repo}, logging.Discard())
	res := svc.AddProduct(ctx, u.ID, cartID, p.ID)
	assert.Equal(t, result.StatusConflict, res.Status)
	assert.Equal(t, msgCartBusy, res.Message)

	view := env.Cart.GetCartView(ctx, cartID, u.ID)
	assert.Empty(t, view.Data.Items)
}

func TestCartService_GetCartView_Ownership(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.user(t, "owner@x.com")
	other := env.user(t, "other@x.com")
	cartID := env.cart(t, owner.ID)

	assert.Equal(t, result.StatusOK, env.Cart.GetCartView(ctx, cartID, owner.ID).Status)
	assert.Equal(t, result.StatusNotFound, env.Cart.GetCartView(ctx, cartID, other.ID).Status)
}

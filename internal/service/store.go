package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/Skotchmaster/ecommerce_api/internal/models"
)

type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type UserStore interface {
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	FindUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	CreateUser(ctx context.Context, u *models.User) error
}

type ProductStore interface {
	FindProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
	ListProducts(ctx context.Context) ([]models.Product, error)
	FindProductsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error)
	SearchProducts(ctx context.Context, q string, offset, limit int) ([]models.Product, int64, error)
	CountProducts(ctx context.Context) (int64, error)
	CreateProducts(ctx context.Context, products []models.Product) error
	DecrementStock(ctx context.Context, productID uuid.UUID, qty int) (bool, error)
}

type CartStore interface {
	CreateCart(ctx context.Context, userID uuid.UUID) (*models.Cart, bool, error)
	FindCartByUser(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
	FindUserCart(ctx context.Context, cartID, userID uuid.UUID) (*models.Cart, error)
	TouchCart(ctx context.Context, cartID uuid.UUID, version int) error
	CreateCartItem(ctx context.Context, item *models.CartItem) error
	SetCartItemQuantity(ctx context.Context, itemID uuid.UUID, qty int) error
	DeleteCartItem(ctx context.Context, itemID uuid.UUID) error
	ClearCart(ctx context.Context, cartID uuid.UUID) error
}

type OrderStore interface {
	CreateOrder(ctx context.Context, order *models.Order) error
	ListOrders(ctx context.Context, userID uuid.UUID) ([]models.Order, error)
}

type RefreshTokenStore interface {
	SaveTokenPair(ctx context.Context, rt *models.RefreshToken, refreshToken, accessToken string) error
	FindRefreshToken(ctx context.Context, refreshToken string) (*models.RefreshToken, error)
	DeleteUserTokens(ctx context.Context, userID uuid.UUID) (int64, error)
	AccessTokenPaired(ctx context.Context, userID uuid.UUID, accessToken string) (bool, error)
}

// Store is everything the services need from persistence. *repo.GormRepo
// implements it.
type Store interface {
	UnitOfWork
	UserStore
	ProductStore
	CartStore
	OrderStore
	RefreshTokenStore
}

// EventPublisher sends domain events after a successful commit.
type EventPublisher interface {
	PublishEvent(ctx context.Context, topic, key string, event any) error
}

// ProductCache holds the serialized product list.
type ProductCache interface {
	GetProducts(ctx context.Context) ([]models.Product, bool, error)
	SetProducts(ctx context.Context, products []models.Product) error
	Invalidate(ctx context.Context) error
}

// ProductIndex is a full-text index over products.
type ProductIndex interface {
	IndexProducts(ctx context.Context, products []models.Product) error
	SearchIDs(ctx context.Context, q string, from, size int) ([]uuid.UUID, int64, error)
}

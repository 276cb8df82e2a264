package repo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/ecommerce_api/internal/models"
)

func withItems(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("cart_items.created_at ASC")
		}).
		Preload("Items.Product")
}

// CreateCart returns the user's cart, creating an empty one when none
// exists. created reports whether this call inserted it.
func (r *GormRepo) CreateCart(ctx context.Context, userID uuid.UUID) (*models.Cart, bool, error) {
	var cart models.Cart
	res := r.conn(ctx).
		Where(&models.Cart{UserID: userID}).
		Attrs(models.Cart{Version: 1}).
		FirstOrCreate(&cart)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			existing, err := r.FindCartByUser(ctx, userID)
			if err != nil {
				return nil, false, err
			}
			if existing != nil {
				return existing, false, nil
			}
		}
		return nil, false, res.Error
	}
	return &cart, res.RowsAffected == 1, nil
}

func (r *GormRepo) FindCartByUser(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	var cart models.Cart
	if err := withItems(r.conn(ctx)).Where("user_id = ?", userID).First(&cart).Error; err != nil {
		return nil, notFoundAsNil(err)
	}
	return &cart, nil
}

// FindUserCart loads the cart with its items and their products, only when
// it belongs to userID.
func (r *GormRepo) FindUserCart(ctx context.Context, cartID, userID uuid.UUID) (*models.Cart, error) {
	var cart models.Cart
	if err := withItems(r.conn(ctx)).Where("id = ? AND user_id = ?", cartID, userID).First(&cart).Error; err != nil {
		return nil, notFoundAsNil(err)
	}
	return &cart, nil
}

// TouchCart stamps the cart and bumps its version. It fails with
// ErrStaleCart when the stored version no longer equals version.
func (r *GormRepo) TouchCart(ctx context.Context, cartID uuid.UUID, version int) error {
	res := r.conn(ctx).Model(&models.Cart{}).
		Where("id = ? AND version = ?", cartID, version).
		Updates(map[string]any{
			"version":    gorm.Expr("version + 1"),
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStaleCart
	}
	return nil
}

func (r *GormRepo) CreateCartItem(ctx context.Context, item *models.CartItem) error {
	return r.conn(ctx).Omit("Product").Create(item).Error
}

func (r *GormRepo) SetCartItemQuantity(ctx context.Context, itemID uuid.UUID, qty int) error {
	return r.conn(ctx).Model(&models.CartItem{}).
		Where("id = ?", itemID).
		Updates(map[string]any{
			"quantity":   qty,
			"updated_at": time.Now().UTC(),
		}).Error
}

func (r *GormRepo) DeleteCartItem(ctx context.Context, itemID uuid.UUID) error {
	return r.conn(ctx).Where("id = ?", itemID).Delete(&models.CartItem{}).Error
}

func (r *GormRepo) ClearCart(ctx context.Context, cartID uuid.UUID) error {
	return r.conn(ctx).Where("cart_id = ?", cartID).Delete(&models.CartItem{}).Error
}

package repo

import (
	"context"

	"github.com/google/uuid"

	"github.com/Skotchmaster/ecommerce_api/internal/models"
)

// CreateOrder inserts the order together with its items.
func (r *GormRepo) CreateOrder(ctx context.Context, order *models.Order) error {
	return r.conn(ctx).Create(order).Error
}

func (r *GormRepo) ListOrders(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	var orders []models.Order
	err := r.conn(ctx).
		Preload("Items.Product").
		Where("user_id = ?", userID).
		Order("order_date DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

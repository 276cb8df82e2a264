package repo

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/ecommerce_api/internal/models"
)

func (r *GormRepo) FindProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var p models.Product
	if err := r.conn(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, notFoundAsNil(err)
	}
	return &p, nil
}

func (r *GormRepo) ListProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := r.conn(ctx).Order("name ASC").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// FindProductsByIDs returns the products with the given ids in the order of
// ids. Unknown ids are skipped.
func (r *GormRepo) FindProductsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var found []models.Product
	if err := r.conn(ctx).Where("id IN ?", ids).Find(&found).Error; err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]models.Product, len(found))
	for _, p := range found {
		byID[p.ID] = p
	}
	out := make([]models.Product, 0, len(found))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

// SearchProducts matches q against name and description, case-insensitive.
func (r *GormRepo) SearchProducts(ctx context.Context, q string, offset, limit int) ([]models.Product, int64, error) {
	pattern := "%" + strings.ToLower(q) + "%"
	query := r.conn(ctx).Model(&models.Product{}).
		Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var products []models.Product
	if err := query.Order("name ASC").Offset(offset).Limit(limit).Find(&products).Error; err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func (r *GormRepo) CountProducts(ctx context.Context) (int64, error) {
	var count int64
	if err := r.conn(ctx).Model(&models.Product{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormRepo) CreateProducts(ctx context.Context, products []models.Product) error {
	if len(products) == 0 {
		return nil
	}
	return r.conn(ctx).Create(&products).Error
}

// DecrementStock subtracts qty from the product's stock when at least qty is
// available. It reports false when the guard did not match.
func (r *GormRepo) DecrementStock(ctx context.Context, productID uuid.UUID, qty int) (bool, error) {
	res := r.conn(ctx).Model(&models.Product{}).
		Where("id = ? AND stock_quantity >= ?", productID, qty).
		Update("stock_quantity", gorm.Expr("stock_quantity - ?", qty))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

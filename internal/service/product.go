package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/Skotchmaster/ecommerce_api/internal/models"
	"github.com/Skotchmaster/ecommerce_api/internal/result"
	"github.com/Skotchmaster/ecommerce_api/internal/transport"
	"github.com/Skotchmaster/ecommerce_api/internal/util"
)

type CatalogService struct {
	base
	store ProductStore
	cache ProductCache
	index ProductIndex
}

// NewCatalogService builds the product catalogue. cache and index may be nil;
// without an index, search runs as a SQL LIKE query.
func NewCatalogService(store ProductStore, cache ProductCache, index ProductIndex, log *slog.Logger) *CatalogService {
	return &CatalogService{base: base{log: log}, store: store, cache: cache, index: index}
}

func productResponse(p models.Product) transport.ProductResponse {
	return transport.ProductResponse{
		ProductID:     p.ID,
		ProductName:   p.Name,
		Description:   p.Description,
		Price:         p.Price,
		StockQuantity: p.StockQuantity,
	}
}

func productResponses(products []models.Product) []transport.ProductResponse {
	out := make([]transport.ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, productResponse(p))
	}
	return out
}

func (s *CatalogService) ListProducts(ctx context.Context) result.Result[[]transport.ProductResponse] {
	l := s.logger(ctx, "catalog.list")

	if s.cache != nil {
		products, ok, err := s.cache.GetProducts(ctx)
		if err != nil {
			l.Warn("product_cache_read_failed", "error", err)
		}
		if ok {
			return result.OK(productResponses(products), "")
		}
	}

	products, err := s.store.ListProducts(ctx)
	if err != nil {
		return fail[[]transport.ProductResponse](l, "list_products_error", fmt.Errorf("list products: %w", err))
	}

	if s.cache != nil {
		if err := s.cache.SetProducts(ctx, products); err != nil {
			l.Warn("product_cache_write_failed", "error", err)
		}
	}
	return result.OK(productResponses(products), "")
}

func (s *CatalogService) GetProduct(ctx context.Context, id uuid.UUID) result.Result[transport.ProductResponse] {
	l := s.logger(ctx, "catalog.get").With("product_id", id)

	p, err := s.store.FindProduct(ctx, id)
	if err != nil {
		return fail[transport.ProductResponse](l, "get_product_error", fmt.Errorf("find product: %w", err))
	}
	if p == nil {
		l.Warn("get_product_error", "status", 404, "reason", "product not found")
		return result.Fail[transport.ProductResponse](result.StatusNotFound, "Product not found.")
	}
	return result.OK(productResponse(*p), "")
}

// SearchProducts runs a full-text query through the index when one is
// configured and falls back to SQL when it is absent or failing. Matches are
// always reloaded from the database so stock figures are current.
func (s *CatalogService) SearchProducts(ctx context.Context, q string, page, size int) result.Result[transport.ProductPage] {
	l := s.logger(ctx, "catalog.search")

	q = strings.TrimSpace(q)
	if q == "" {
		l.Warn("search_error", "status", 400, "reason", "empty query")
		return result.Fail[transport.ProductPage](result.StatusBadRequest, "Search query is required.")
	}
	if page < 1 {
		page = 1
	}
	from, limit := util.Calculate(page, size)

	var (
		products []models.Product
		total    int64
		err      error
	)
	if s.index != nil {
		var ids []uuid.UUID
		ids, total, err = s.index.SearchIDs(ctx, q, from, limit)
		if err == nil {
			products, err = s.store.FindProductsByIDs(ctx, ids)
			if err != nil {
				return fail[transport.ProductPage](l, "search_error", fmt.Errorf("load products: %w", err))
			}
		} else {
			l.Warn("search_index_failed", "error", err)
		}
	}
	if s.index == nil || err != nil {
		products, total, err = s.store.SearchProducts(ctx, q, from, limit)
		if err != nil {
			return fail[transport.ProductPage](l, "search_error", fmt.Errorf("search products: %w", err))
		}
	}

	return result.OK(transport.ProductPage{
		Items: productResponses(products),
		Total: total,
		Page:  page,
		Size:  limit,
	}, "")
}

// Reindex pushes every product into the search index.
func (s *CatalogService) Reindex(ctx context.Context) error {
	if s.index == nil {
		return nil
	}
	products, err := s.store.ListProducts(ctx)
	if err != nil {
		return fmt.Errorf("list products: %w", err)
	}
	if err := s.index.IndexProducts(ctx, products); err != nil {
		return fmt.Errorf("index products: %w", err)
	}
	s.logger(ctx, "catalog.reindex").Info("products_indexed", "count", len(products))
	return nil
}

// InvalidateCache drops the cached product list.
func (s *CatalogService) InvalidateCache(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Invalidate(ctx)
}

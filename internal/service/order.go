package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/ecommerce_api/internal/models"
	"github.com/Skotchmaster/ecommerce_api/internal/result"
	"github.com/Skotchmaster/ecommerce_api/internal/transport"
)

type OrderRepository interface {
	UnitOfWork
	CartStore
	ProductStore
	OrderStore
}

type OrderService struct {
	base
	store OrderRepository
	cache ProductCache
	now   func() time.Time
}

// NewOrderService builds the checkout engine. cache and events may be nil.
func NewOrderService(store OrderRepository, cache ProductCache, events EventPublisher, log *slog.Logger) *OrderService {
	return &OrderService{
		base:  base{log: log, events: events},
		store: store,
		cache: cache,
		now:   time.Now,
	}
}

// Checkout turns the user's cart into an order. Stock is decremented for
// every line, the order is stored and the cart is emptied in one
// transaction; any failure leaves all of it untouched.
func (s *OrderService) Checkout(ctx context.Context, userID uuid.UUID) result.Result[transport.CheckoutResponse] {
	l := s.logger(ctx, "order.checkout").With("user_id", userID)

	var order models.Order
	err := s.store.WithinTx(ctx, func(ctx context.Context) error {
		cart, err := s.store.FindCartByUser(ctx, userID)
		if err != nil {
			return fmt.Errorf("find cart: %w", err)
		}
		if cart == nil || len(cart.Items) == 0 {
			return result.Violate(result.StatusNotFound, "Cart not found or empty.")
		}
		if err := touch(ctx, s.store, cart); err != nil {
			return err
		}

		for _, item := range cart.Items {
			if item.Product == nil {
				return result.Violate(result.StatusBadRequest, fmt.Sprintf("Product %s not found.", item.ProductID))
			}
			if item.Product.StockQuantity < item.Quantity {
				return result.Violate(result.StatusBadRequest, fmt.Sprintf("Not enough stock for product %s.", item.Product.Name))
			}
		}

		order = models.Order{
			ID:          uuid.New(),
			UserID:      userID,
			OrderDate:   s.now().UTC(),
			TotalAmount: decimal.Zero,
			Items:       make([]models.OrderItem, 0, len(cart.Items)),
		}

		for _, item := range cart.Items {
			ok, err := s.store.DecrementStock(ctx, item.ProductID, item.Quantity)
			if err != nil {
				return fmt.Errorf("decrement stock: %w", err)
			}
			if !ok {
				return result.Violate(result.StatusBadRequest, fmt.Sprintf("Not enough stock for product %s.", item.Product.Name))
			}

			order.Items = append(order.Items, models.OrderItem{
				ID:        uuid.New(),
				OrderID:   order.ID,
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				Price:     item.Price,
			})
			order.TotalAmount = order.TotalAmount.Add(lineTotal(item.Price, item.Quantity))
		}

		if err := s.store.CreateOrder(ctx, &order); err != nil {
			return fmt.Errorf("create order: %w", err)
		}
		if err := s.store.ClearCart(ctx, cart.ID); err != nil {
			return fmt.Errorf("clear cart: %w", err)
		}
		return nil
	})
	if err != nil {
		return fail[transport.CheckoutResponse](l, "checkout_error", err)
	}

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx); err != nil {
			l.Warn("product_cache_invalidate_failed", "error", err)
		}
	}
	s.publish(ctx, l, TopicOrderEvents, order.ID.String(), orderCreatedEvent(&order))

	l.Info("checkout_successful", "order_id", order.ID, "total", order.TotalAmount.StringFixed(2))
	return result.Created(transport.CheckoutResponse{OrderID: order.ID}, "Order created.")
}

// ListOrders returns the user's orders, most recent first.
func (s *OrderService) ListOrders(ctx context.Context, userID uuid.UUID) result.Result[[]transport.OrderView] {
	l := s.logger(ctx, "order.list").With("user_id", userID)

	orders, err := s.store.ListOrders(ctx, userID)
	if err != nil {
		return fail[[]transport.OrderView](l, "list_orders_error", fmt.Errorf("list orders: %w", err))
	}

	views := make([]transport.OrderView, 0, len(orders))
	for _, o := range orders {
		view := transport.OrderView{
			OrderID:     o.ID,
			OrderDate:   o.OrderDate,
			TotalAmount: o.TotalAmount,
			Items:       make([]transport.OrderItemView, 0, len(o.Items)),
		}
		for _, item := range o.Items {
			name := ""
			if item.Product != nil {
				name = item.Product.Name
			}
			view.Items = append(view.Items, transport.OrderItemView{
				ProductID:   item.ProductID,
				ProductName: name,
				Quantity:    item.Quantity,
				Price:       item.Price,
			})
		}
		views = append(views, view)
	}

	return result.OK(views, "")
}

func orderCreatedEvent(o *models.Order) transport.OrderCreatedEvent {
	items := make([]transport.OrderCreatedItem, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, transport.OrderCreatedItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
		})
	}
	return transport.OrderCreatedEvent{
		Type:        "order_created",
		OrderID:     o.ID,
		UserID:      o.UserID,
		TotalAmount: o.TotalAmount,
		Items:       items,
		OccurredAt:  o.OrderDate,
	}
}

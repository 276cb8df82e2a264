package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/ecommerce_api/internal/models"
	"github.com/Skotchmaster/ecommerce_api/internal/repo"
	"github.com/Skotchmaster/ecommerce_api/internal/result"
	"github.com/Skotchmaster/ecommerce_api/internal/transport"
)

const msgCartBusy = "Cart was modified by another request, please retry."

type CartRepository interface {
	UnitOfWork
	CartStore
	ProductStore
}

type CartService struct {
	base
	store CartRepository
}

func NewCartService(store CartRepository, log *slog.Logger) *CartService {
	return &CartService{base: base{log: log}, store: store}
}

// touch stamps the cart and claims its current version for this unit of work.
func touch(ctx context.Context, store CartStore, cart *models.Cart) error {
	if err := store.TouchCart(ctx, cart.ID, cart.Version); err != nil {
		if errors.Is(err, repo.ErrStaleCart) {
			return result.Violate(result.StatusConflict, msgCartBusy)
		}
		return fmt.Errorf("touch cart: %w", err)
	}
	cart.Version++
	return nil
}

func findItem(cart *models.Cart, productID uuid.UUID) *models.CartItem {
	for i := range cart.Items {
		if cart.Items[i].ProductID == productID {
			return &cart.Items[i]
		}
	}
	return nil
}

// CreateCart returns the user's cart id, creating the cart on first use.
func (s *CartService) CreateCart(ctx context.Context, userID uuid.UUID) result.Result[transport.CartResponse] {
	l := s.logger(ctx, "cart.create").With("user_id", userID)

	cart, created, err := s.store.CreateCart(ctx, userID)
	if err != nil {
		return fail[transport.CartResponse](l, "create_cart_error", fmt.Errorf("create cart: %w", err))
	}

	resp := transport.CartResponse{CartID: cart.ID}
	if !created {
		l.Info("cart_exists", "cart_id", cart.ID)
		return result.OK(resp, "Cart already exists.")
	}
	l.Info("cart_created", "cart_id", cart.ID)
	return result.Created(resp, "Cart created.")
}

// AddProduct puts one more unit of the product into the cart, never beyond
// the product's stock. The unit price is captured when the line is created.
func (s *CartService) AddProduct(ctx context.Context, userID, cartID, productID uuid.UUID) result.Result[struct{}] {
	l := s.logger(ctx, "cart.add_product").With("user_id", userID, "cart_id", cartID, "product_id", productID)

	err := s.store.WithinTx(ctx, func(ctx context.Context) error {
		cart, err := s.store.FindUserCart(ctx, cartID, userID)
		if err != nil {
			return fmt.Errorf("find cart: %w", err)
		}
		if cart == nil {
			return result.Violate(result.StatusNotFound, "Cart not found or access denied.")
		}
		if err := touch(ctx, s.store, cart); err != nil {
			return err
		}

		product, err := s.store.FindProduct(ctx, productID)
		if err != nil {
			return fmt.Errorf("find product: %w", err)
		}
		if product == nil {
			return result.Violate(result.StatusNotFound, "Product not found.")
		}

		existing := findItem(cart, productID)
		newQuantity := 1
		if existing != nil {
			newQuantity = existing.Quantity + 1
		}
		if newQuantity > product.StockQuantity {
			return result.Violate(result.StatusBadRequest, "Cannot add more than available stock.")
		}

		if existing != nil {
			return s.store.SetCartItemQuantity(ctx, existing.ID, newQuantity)
		}
		return s.store.CreateCartItem(ctx, &models.CartItem{
			CartID:    cart.ID,
			ProductID: product.ID,
			Quantity:  newQuantity,
			Price:     product.Price,
		})
	})
	if err != nil {
		return fail[struct{}](l, "add_to_cart_error", err)
	}

	l.Info("product_added_to_cart")
	return result.OK(struct{}{}, "Product added to cart.")
}

// RemoveProduct takes one unit of the product out of the cart and drops the
// line when it was the last one.
func (s *CartService) RemoveProduct(ctx context.Context, userID, cartID, productID uuid.UUID) result.Result[struct{}] {
	l := s.logger(ctx, "cart.remove_product").With("user_id", userID, "cart_id", cartID, "product_id", productID)

	err := s.store.WithinTx(ctx, func(ctx context.Context) error {
		cart, err := s.store.FindUserCart(ctx, cartID, userID)
		if err != nil {
			return fmt.Errorf("find cart: %w", err)
		}
		if cart == nil {
			return result.Violate(result.StatusNotFound, "Cart not found.")
		}

		item := findItem(cart, productID)
		if item == nil {
			return result.Violate(result.StatusNotFound, "Product not found in cart.")
		}
		if err := touch(ctx, s.store, cart); err != nil {
			return err
		}

		if item.Quantity > 1 {
			return s.store.SetCartItemQuantity(ctx, item.ID, item.Quantity-1)
		}
		return s.store.DeleteCartItem(ctx, item.ID)
	})
	if err != nil {
		return fail[struct{}](l, "remove_from_cart_error", err)
	}

	l.Info("product_removed_from_cart")
	return result.OK(struct{}{}, "Product removed from cart.")
}

func (s *CartService) GetCartView(ctx context.Context, cartID, userID uuid.UUID) result.Result[transport.CartView] {
	l := s.logger(ctx, "cart.get").With("user_id", userID, "cart_id", cartID)

	cart, err := s.store.FindUserCart(ctx, cartID, userID)
	if err != nil {
		return fail[transport.CartView](l, "get_cart_error", fmt.Errorf("find cart: %w", err))
	}
	if cart == nil {
		l.Warn("get_cart_error", "status", 404, "reason", "cart not found")
		return result.Fail[transport.CartView](result.StatusNotFound, "Cart not found.")
	}

	return result.OK(cartView(cart), "")
}

func cartView(cart *models.Cart) transport.CartView {
	view := transport.CartView{
		CartID:      cart.ID,
		Items:       make([]transport.CartItemView, 0, len(cart.Items)),
		TotalAmount: decimal.Zero,
	}
	for _, item := range cart.Items {
		name := ""
		if item.Product != nil {
			name = item.Product.Name
		}
		view.Items = append(view.Items, transport.CartItemView{
			ProductID:   item.ProductID,
			ProductName: name,
			Quantity:    item.Quantity,
			Price:       item.Price,
		})
		view.TotalAmount = view.TotalAmount.Add(lineTotal(item.Price, item.Quantity))
	}
	return view
}

func lineTotal(price decimal.Decimal, quantity int) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(int64(quantity)))
}

package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"       json:"id"`
	Email        string    `gorm:"uniqueIndex;not null"       json:"email"`
	PasswordHash string    `gorm:"not null"                   json:"-"`
	FirstName    string    `gorm:"not null"                   json:"first_name"`
	LastName     string    `gorm:"not null"                   json:"last_name"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Product struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"      json:"id"`
	Name          string          `gorm:"index;not null"            json:"name"`
	Description   string          `gorm:"not null"                  json:"description"`
	Price         decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	StockQuantity int             `gorm:"not null;check:stock_quantity >= 0" json:"stock_quantity"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

type Cart struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey"        json:"id"`
	UserID    uuid.UUID  `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	Version   int        `gorm:"not null"                    json:"-"`
	Items     []CartItem `gorm:"foreignKey:CartID"           json:"items"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

type CartItem struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"                           json:"id"`
	CartID    uuid.UUID       `gorm:"type:uuid;uniqueIndex:idx_cart_product;not null" json:"cart_id"`
	ProductID uuid.UUID       `gorm:"type:uuid;uniqueIndex:idx_cart_product;not null" json:"product_id"`
	Product   *Product        `gorm:"foreignKey:ProductID"                           json:"product,omitempty"`
	Quantity  int             `gorm:"not null;check:quantity > 0"                    json:"quantity"`
	Price     decimal.Decimal `gorm:"type:numeric(12,2);not null"                    json:"price"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

type Order struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"        json:"id"`
	UserID      uuid.UUID       `gorm:"type:uuid;index;not null"    json:"user_id"`
	OrderDate   time.Time       `gorm:"index;not null"              json:"order_date"`
	TotalAmount decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total_amount"`
	Items       []OrderItem     `gorm:"foreignKey:OrderID"          json:"items"`
}

type OrderItem struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"        json:"id"`
	OrderID   uuid.UUID       `gorm:"type:uuid;index;not null"    json:"order_id"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null"          json:"product_id"`
	Product   *Product        `gorm:"foreignKey:ProductID"        json:"product,omitempty"`
	Quantity  int             `gorm:"not null;check:quantity > 0" json:"quantity"`
	Price     decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
}

// RefreshToken pairs an opaque refresh token with the access token issued
// alongside it. Both are stored as SHA-256 hex digests.
type RefreshToken struct {
	ID              uint      `gorm:"primaryKey;autoIncrement"     json:"id"`
	UserID          uuid.UUID `gorm:"type:uuid;index;not null"     json:"user_id"`
	TokenHash       string    `gorm:"uniqueIndex;not null"         json:"-"`
	AccessTokenHash string    `gorm:"index;not null"               json:"-"`
	ExpiresAt       time.Time `gorm:"not null"                     json:"expires_at"`
	CreatedAt       time.Time `json:"created_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

func (c *Cart) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

func (c *CartItem) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

func (o *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

func (CartItem) TableName() string {
	return "cart_items"
}

func (OrderItem) TableName() string {
	return "order_items"
}

func All() []any {
	return []any{&User{}, &Product{}, &Cart{}, &CartItem{}, &Order{}, &OrderItem{}, &RefreshToken{}}
}

package transport

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type UserRegisteredEvent struct {
	Type       string    `json:"type"`
	UserID     uuid.UUID `json:"userID"`
	Email      string    `json:"email"`
	OccurredAt time.Time `json:"occurredAt"`
}

type OrderCreatedItem struct {
	ProductID uuid.UUID       `json:"productID"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

type OrderCreatedEvent struct {
	Type        string             `json:"type"`
	OrderID     uuid.UUID          `json:"orderID"`
	UserID      uuid.UUID          `json:"userID"`
	TotalAmount decimal.Decimal    `json:"totalAmount"`
	Items       []OrderCreatedItem `json:"items"`
	OccurredAt  time.Time          `json:"occurredAt"`
}

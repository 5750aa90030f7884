package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OwnerType string

const (
	OwnerUser  OwnerType = "user"
	OwnerGuest OwnerType = "guest"
)

// Owner partitions carts and orders: a signed-in user or a browser guest id.
type Owner struct {
	ID   string    `json:"id"`
	Type OwnerType `json:"type"`
}

func UserOwner(id uuid.UUID) Owner {
	return Owner{ID: id.String(), Type: OwnerUser}
}

func GuestOwner(guestID string) Owner {
	return Owner{ID: guestID, Type: OwnerGuest}
}

func (o Owner) IsZero() bool {
	return o.ID == ""
}

func (o Owner) UserID() (uuid.UUID, bool) {
	if o.Type != OwnerUser {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(o.ID)
	return id, err == nil
}

type CartProduct struct {
	ID              uuid.UUID       `json:"id"`
	Name            string          `json:"name"`
	Images          []string        `json:"images"`
	Unit            string          `json:"unit"`
	Price           decimal.Decimal `json:"price"`
	Discount        decimal.Decimal `json:"discount"`
	DiscountedPrice decimal.Decimal `json:"discounted_price"`
	Stock           int             `json:"stock"`
}

type CartItem struct {
	ID        uuid.UUID    `json:"id"`
	ProductID uuid.UUID    `json:"product_id"`
	Product   *CartProduct `json:"product,omitempty"`
	Quantity  int          `json:"quantity"`
	OwnerID   string       `json:"owner_id"`
	OwnerType OwnerType    `json:"owner_type"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

type Cart struct {
	Owner   Owner      `json:"owner"`
	Items   []CartItem `json:"items"`
	Summary Totals     `json:"summary"`
}

// NewCart totals the items that still reference a product.
func NewCart(owner Owner, items []CartItem) *Cart {
	cart := &Cart{Owner: owner, Items: items}
	if cart.Items == nil {
		cart.Items = []CartItem{}
	}
	for _, item := range cart.Items {
		if item.Product == nil {
			continue
		}
		cart.Summary.Add(item.Product.Price, item.Product.Discount, item.Quantity)
	}
	return cart
}

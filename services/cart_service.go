package services

import (
	"context"

	"storefront/models"

	"github.com/google/uuid"
)

type CartStore interface {
	FindByOwner(ctx context.Context, owner models.Owner) ([]models.CartItem, error)
	Add(ctx context.Context, owner models.Owner, productID uuid.UUID, quantity int) (*models.CartItem, error)
	UpdateQuantity(ctx context.Context, owner models.Owner, itemID uuid.UUID, quantity int) (*models.CartItem, error)
	Remove(ctx context.Context, owner models.Owner, itemID uuid.UUID) error
	Clear(ctx context.Context, owner models.Owner) (int64, error)
	Merge(ctx context.Context, guestID string, userID uuid.UUID) error
}

type CartService struct {
	carts    CartStore
	products ProductStore
}

func NewCartService(carts CartStore, products ProductStore) *CartService {
	return &CartService{carts: carts, products: products}
}

func checkQuantity(quantity int) error {
	if quantity < 1 {
		return models.NewValidationError("quantity", "must be at least 1")
	}
	if quantity > models.MaxCartQuantity {
		return models.NewValidationError("quantity", "must be at most %d", models.MaxCartQuantity)
	}
	return nil
}

func (s *CartService) Get(ctx context.Context, owner models.Owner) (*models.Cart, error) {
	if owner.IsZero() {
		return nil, models.ErrOwnerRequired
	}
	items, err := s.carts.FindByOwner(ctx, owner)
	if err != nil {
		return nil, err
	}
	return models.NewCart(owner, items), nil
}

// Add puts quantity units of a product in the cart; quantity 0 means one.
func (s *CartService) Add(ctx context.Context, owner models.Owner, productID uuid.UUID, quantity int) (*models.Cart, error) {
	if owner.IsZero() {
		return nil, models.ErrOwnerRequired
	}
	if quantity == 0 {
		quantity = 1
	}
	if err := checkQuantity(quantity); err != nil {
		return nil, err
	}

	p, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !p.Publish {
		return nil, models.NewValidationError("product_id", "product is not available")
	}

	if _, err := s.carts.Add(ctx, owner, productID, quantity); err != nil {
		return nil, err
	}
	return s.Get(ctx, owner)
}

func (s *CartService) UpdateQuantity(ctx context.Context, owner models.Owner, itemID uuid.UUID, quantity int) (*models.Cart, error) {
	if owner.IsZero() {
		return nil, models.ErrOwnerRequired
	}
	if err := checkQuantity(quantity); err != nil {
		return nil, err
	}
	if _, err := s.carts.UpdateQuantity(ctx, owner, itemID, quantity); err != nil {
		return nil, err
	}
	return s.Get(ctx, owner)
}

func (s *CartService) Remove(ctx context.Context, owner models.Owner, itemID uuid.UUID) (*models.Cart, error) {
	if owner.IsZero() {
		return nil, models.ErrOwnerRequired
	}
	if err := s.carts.Remove(ctx, owner, itemID); err != nil {
		return nil, err
	}
	return s.Get(ctx, owner)
}

func (s *CartService) Reset(ctx context.Context, owner models.Owner) error {
	if owner.IsZero() {
		return models.ErrOwnerRequired
	}
	_, err := s.carts.Clear(ctx, owner)
	return err
}

func (s *CartService) Merge(ctx context.Context, guestID string, userID uuid.UUID) error {
	if guestID == "" {
		return nil
	}
	return s.carts.Merge(ctx, guestID, userID)
}

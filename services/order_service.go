package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"storefront/libs"
	"storefront/models"
	"storefront/utils"

	"github.com/google/uuid"
)

type OrderStore interface {
	Create(ctx context.Context, o *models.Order) error
	Checkout(ctx context.Context, owner models.Owner, build func([]models.CartItem) (*models.Order, error)) (*models.Order, error)
	FindAll(ctx context.Context, filter models.OrderFilter) ([]models.Order, int, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	FindByOrderID(ctx context.Context, orderID string) (*models.Order, error)
	Update(ctx context.Context, o *models.Order) error
	Delete(ctx context.Context, id uuid.UUID) error
	Stats(ctx context.Context, stats *models.DashboardStats) error
	Revenue(ctx context.Context, period string, from, to *time.Time) ([]models.RevenuePoint, error)
}

// StatsSources supplies the non-order dashboard counters.
type StatsSources struct {
	Users interface {
		Count(ctx context.Context) (int, error)
	}
	Products interface {
		Counts(ctx context.Context) (total, published int, err error)
	}
	Categories interface {
		Count(ctx context.Context) (int, error)
	}
}

type OrderService struct {
	orders OrderStore
	stats  StatsSources
	mailer Mailer
	feed   OrderBroadcaster
}

func NewOrderService(orders OrderStore, stats StatsSources, mailer Mailer, feed OrderBroadcaster) *OrderService {
	return &OrderService{
		orders: orders,
		stats:  stats,
		mailer: mailer,
		feed:   feed,
	}
}

// assignReferences fills missing order, payment and invoice references.
func assignReferences(o *models.Order, orderID, paymentID, invoice string) error {
	refs := []struct {
		dst    *string
		given  string
		prefix string
		field  string
	}{
		{&o.OrderID, orderID, "ORD", "order_id"},
		{&o.PaymentID, paymentID, "PAY", "payment_id"},
		{&o.InvoiceReceipt, invoice, "INV", "invoice_receipt"},
	}
	for _, ref := range refs {
		if v := strings.TrimSpace(ref.given); v != "" {
			if err := models.CheckLength(ref.field, v, models.MaxReferenceLength); err != nil {
				return err
			}
			*ref.dst = v
			continue
		}
		generated, err := utils.NewReference(ref.prefix)
		if err != nil {
			return err
		}
		*ref.dst = generated
	}
	return nil
}

func cleanBilling(b models.Billing) models.Billing {
	return models.Billing{
		FullName:   strings.TrimSpace(b.FullName),
		Email:      normalizeEmail(b.Email),
		Phone:      strings.TrimSpace(b.Phone),
		Address:    strings.TrimSpace(b.Address),
		City:       strings.TrimSpace(b.City),
		Country:    strings.TrimSpace(b.Country),
		PostalCode: strings.TrimSpace(b.PostalCode),
	}
}

// Checkout turns the owner's cart into a Pending order and empties the cart.
func (s *OrderService) Checkout(ctx context.Context, owner models.Owner, req models.CheckoutRequest) (*models.Order, error) {
	if owner.IsZero() {
		return nil, models.ErrOwnerRequired
	}
	billing := cleanBilling(req.Billing)
	if err := billing.Validate(); err != nil {
		return nil, err
	}

	order, err := s.orders.Checkout(ctx, owner, func(items []models.CartItem) (*models.Order, error) {
		o := &models.Order{
			Billing:       billing,
			PaymentStatus: models.PaymentPending,
			Items:         make([]models.OrderItem, 0, len(items)),
		}
		o.SetOwner(owner)
		for _, item := range items {
			if item.Product == nil {
				continue
			}
			o.Items = append(o.Items, models.OrderItemFromCart(item))
		}
		if len(o.Items) == 0 {
			return nil, models.ErrEmptyCart
		}
		o.Recalculate()
		if err := assignReferences(o, req.OrderID, req.PaymentID, req.InvoiceReceipt); err != nil {
			return nil, err
		}
		return o, nil
	})
	if err != nil {
		return nil, err
	}

	s.notifyCreated(order)
	return order, nil
}

// Create stores an order document posted directly by the client. Totals
// are recomputed from the items.
func (s *OrderService) Create(ctx context.Context, owner models.Owner, req models.CreateOrderRequest) (*models.Order, error) {
	if owner.IsZero() {
		return nil, models.ErrOwnerRequired
	}
	if len(req.Items) == 0 {
		return nil, models.NewValidationError("items", "at least one item is required")
	}

	for i, item := range req.Items {
		if strings.TrimSpace(item.Name) == "" {
			return nil, models.NewValidationError(fmt.Sprintf("items[%d].name", i), "is required")
		}
		if item.Quantity < 1 || item.Quantity > models.MaxCartQuantity {
			return nil, models.NewValidationError(fmt.Sprintf("items[%d].quantity", i), "must be between 1 and %d", models.MaxCartQuantity)
		}
		if item.Price.IsNegative() {
			return nil, models.NewValidationError(fmt.Sprintf("items[%d].price", i), "must not be negative")
		}
		if item.Discount.IsNegative() || item.Discount.GreaterThan(hundred) {
			return nil, models.NewValidationError(fmt.Sprintf("items[%d].discount", i), "must be between 0 and 100")
		}
		if req.Items[i].Images == nil {
			req.Items[i].Images = []string{}
		}
	}

	status := req.PaymentStatus
	if status == "" {
		status = models.PaymentPending
	}
	if !models.ValidPaymentStatus(status) {
		return nil, models.NewValidationError("payment_status", "unsupported status %q", status)
	}

	order := &models.Order{
		Items:         req.Items,
		Billing:       cleanBilling(req.Billing),
		PaymentStatus: status,
	}
	if err := order.Billing.Validate(); err != nil {
		return nil, err
	}
	order.SetOwner(owner)
	order.Recalculate()
	if err := assignReferences(order, req.OrderID, req.PaymentID, req.InvoiceReceipt); err != nil {
		return nil, err
	}

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, err
	}

	s.notifyCreated(order)
	return order, nil
}

func (s *OrderService) notifyCreated(order *models.Order) {
	if order.Billing.Email != "" {
		if err := s.mailer.SendOrderConfirmation(order.Billing.Email, order); err != nil {
			log.Printf("Failed to send order confirmation %s: %v", order.OrderID, err)
		}
	}
	s.feed.Broadcast(libs.EventOrderCreated, order)
}

func normalizeOrderFilter(filter models.OrderFilter) (models.OrderFilter, error) {
	filter.Page, filter.Limit = models.NormalizePaging(filter.Page, filter.Limit)
	filter.Search = strings.TrimSpace(filter.Search)
	if filter.PaymentStatus == "All" {
		filter.PaymentStatus = ""
	}
	if filter.PaymentStatus != "" && !models.ValidPaymentStatus(filter.PaymentStatus) {
		return filter, models.NewValidationError("payment_status", "unsupported status %q", filter.PaymentStatus)
	}
	if filter.From != nil && filter.To != nil && filter.From.After(*filter.To) {
		return filter, models.NewValidationError("from", "must not be after to")
	}
	return filter, nil
}

// ListMine returns the orders placed by owner, newest first.
func (s *OrderService) ListMine(ctx context.Context, owner models.Owner, filter models.OrderFilter) (*models.Page[models.Order], error) {
	if owner.IsZero() {
		return nil, models.ErrOwnerRequired
	}
	filter.UserID = nil
	filter.GuestID = ""
	if id, ok := owner.UserID(); ok {
		filter.UserID = &id
	} else {
		filter.GuestID = owner.ID
	}
	return s.List(ctx, filter)
}

func (s *OrderService) List(ctx context.Context, filter models.OrderFilter) (*models.Page[models.Order], error) {
	filter, err := normalizeOrderFilter(filter)
	if err != nil {
		return nil, err
	}
	orders, total, err := s.orders.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &models.Page[models.Order]{Items: orders, TotalItems: total, Page: filter.Page, Limit: filter.Limit}, nil
}

// Get accepts either the row id or the public order reference.
func (s *OrderService) Get(ctx context.Context, ref string) (*models.Order, error) {
	if id, err := uuid.Parse(ref); err == nil {
		return s.orders.FindByID(ctx, id)
	}
	return s.orders.FindByOrderID(ctx, strings.TrimSpace(ref))
}

// GetMine reports another owner's order as not found.
func (s *OrderService) GetMine(ctx context.Context, owner models.Owner, ref string) (*models.Order, error) {
	if owner.IsZero() {
		return nil, models.ErrOwnerRequired
	}
	order, err := s.Get(ctx, ref)
	if err != nil {
		return nil, err
	}
	if !order.OwnedBy(owner) {
		return nil, fmt.Errorf("order %s: %w", ref, models.ErrNotFound)
	}
	return order, nil
}

func (s *OrderService) Update(ctx context.Context, ref string, req models.UpdateOrderRequest) (*models.Order, error) {
	order, err := s.Get(ctx, ref)
	if err != nil {
		return nil, err
	}

	if req.PaymentStatus != nil {
		if !models.ValidPaymentStatus(*req.PaymentStatus) {
			return nil, models.NewValidationError("payment_status", "unsupported status %q", *req.PaymentStatus)
		}
		order.PaymentStatus = *req.PaymentStatus
	}
	if req.InvoiceReceipt != nil {
		invoice := strings.TrimSpace(*req.InvoiceReceipt)
		if err := models.CheckLength("invoice_receipt", invoice, models.MaxReferenceLength); err != nil {
			return nil, err
		}
		order.InvoiceReceipt = invoice
	}
	if req.Billing != nil {
		billing := cleanBilling(*req.Billing)
		if err := billing.Validate(); err != nil {
			return nil, err
		}
		order.Billing = billing
	}

	if err := s.orders.Update(ctx, order); err != nil {
		return nil, err
	}
	s.feed.Broadcast(libs.EventOrderUpdated, order)
	return order, nil
}

func (s *OrderService) Delete(ctx context.Context, ref string) error {
	order, err := s.Get(ctx, ref)
	if err != nil {
		return err
	}
	if err := s.orders.Delete(ctx, order.ID); err != nil {
		return err
	}
	s.feed.Broadcast(libs.EventOrderDeleted, order)
	return nil
}

func (s *OrderService) Dashboard(ctx context.Context) (*models.DashboardStats, error) {
	stats := &models.DashboardStats{}

	var err error
	if stats.TotalUsers, err = s.stats.Users.Count(ctx); err != nil {
		return nil, err
	}
	if stats.TotalProducts, stats.PublishedCount, err = s.stats.Products.Counts(ctx); err != nil {
		return nil, err
	}
	if stats.TotalCategories, err = s.stats.Categories.Count(ctx); err != nil {
		return nil, err
	}
	if err := s.orders.Stats(ctx, stats); err != nil {
		return nil, err
	}
	return stats, nil
}

func (s *OrderService) Revenue(ctx context.Context, period string, from, to *time.Time) ([]models.RevenuePoint, error) {
	if period == "" {
		period = models.PeriodDay
	}
	if !models.ValidPeriod(period) {
		return nil, models.NewValidationError("period", "must be day, month or year")
	}
	if from != nil && to != nil && from.After(*to) {
		return nil, models.NewValidationError("from", "must not be after to")
	}
	return s.orders.Revenue(ctx, period, from, to)
}


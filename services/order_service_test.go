package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"storefront/libs"
	"storefront/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type orderFixture struct {
	svc    *OrderService
	carts  *CartService
	orders *fakeOrderStore
	mailer *fakeMailer
	feed   *fakeBroadcaster
}

func newOrderFixture(products ...models.Product) *orderFixture {
	cartStore := &fakeCartStore{products: newFakeProductStore(products...)}
	f := &orderFixture{
		carts:  NewCartService(cartStore, cartStore.products),
		orders: &fakeOrderStore{carts: cartStore},
		mailer: &fakeMailer{},
		feed:   &fakeBroadcaster{},
	}
	f.svc = NewOrderService(f.orders, StatsSources{
		Users:      fakeCounter{n: 4},
		Products:   fakeProductCounter{total: 7, published: 5},
		Categories: fakeCounter{n: 2},
	}, f.mailer, f.feed)
	return f
}

func TestCheckout(t *testing.T) {
	ctx := context.Background()
	tea := newProduct("Green Tea", "10", "20", true)
	cup := newProduct("Cup", "5", "0", true)
	f := newOrderFixture(tea, cup)
	owner := models.GuestOwner("guest-1")

	_, err := f.carts.Add(ctx, owner, tea.ID, 2)
	require.NoError(t, err)
	_, err = f.carts.Add(ctx, owner, cup.ID, 1)
	require.NoError(t, err)

	order, err := f.svc.Checkout(ctx, owner, models.CheckoutRequest{
		Billing: models.Billing{FullName: " Ana ", Email: "Ana@Example.com"},
	})
	require.NoError(t, err)

	assert.Equal(t, models.PaymentPending, order.PaymentStatus)
	assert.Equal(t, "guest-1", order.GuestID)
	assert.Nil(t, order.UserID)
	assert.Len(t, order.Items, 2)
	assert.True(t, decimal.RequireFromString("25").Equal(order.SubTotalAmt), order.SubTotalAmt.String())
	assert.True(t, decimal.RequireFromString("21").Equal(order.TotalAmt), order.TotalAmt.String())
	assert.Regexp(t, `^ORD-[0-9A-F]{16}$`, order.OrderID)
	assert.Regexp(t, `^PAY-[0-9A-F]{16}$`, order.PaymentID)
	assert.Regexp(t, `^INV-[0-9A-F]{16}$`, order.InvoiceReceipt)
	assert.Equal(t, "Ana", order.Billing.FullName)

	cart, err := f.carts.Get(ctx, owner)
	require.NoError(t, err)
	assert.Empty(t, cart.Items, "checkout empties the cart")

	mail, ok := f.mailer.last("order")
	require.True(t, ok)
	assert.Equal(t, "ana@example.com", mail.to)
	assert.Equal(t, order.OrderID, mail.code)
	require.Len(t, f.feed.events, 1)
	assert.Equal(t, libs.EventOrderCreated, f.feed.events[0].eventType)

	_, err = f.svc.Checkout(ctx, owner, models.CheckoutRequest{})
	assert.ErrorIs(t, err, models.ErrEmptyCart)

	_, err = f.svc.Checkout(ctx, models.Owner{}, models.CheckoutRequest{})
	assert.ErrorIs(t, err, models.ErrOwnerRequired)
}

func TestCheckoutKeepsClientReferences(t *testing.T) {
	ctx := context.Background()
	tea := newProduct("Tea", "3", "0", true)
	f := newOrderFixture(tea)
	owner := models.UserOwner(uuid.New())

	_, err := f.carts.Add(ctx, owner, tea.ID, 1)
	require.NoError(t, err)

	order, err := f.svc.Checkout(ctx, owner, models.CheckoutRequest{OrderID: "A-1", PaymentID: "P-1"})
	require.NoError(t, err)
	assert.Equal(t, "A-1", order.OrderID)
	assert.Equal(t, "P-1", order.PaymentID)
	assert.NotEmpty(t, order.InvoiceReceipt)
	require.NotNil(t, order.UserID)
}

func TestCheckoutMailFailureDoesNotFailOrder(t *testing.T) {
	ctx := context.Background()
	tea := newProduct("Tea", "3", "0", true)
	f := newOrderFixture(tea)
	f.mailer.err = assert.AnError
	owner := models.GuestOwner("g")

	_, err := f.carts.Add(ctx, owner, tea.ID, 1)
	require.NoError(t, err)

	_, err = f.svc.Checkout(ctx, owner, models.CheckoutRequest{Billing: models.Billing{Email: "a@b.c"}})
	assert.NoError(t, err)
}

func TestCreateOrder(t *testing.T) {
	ctx := context.Background()
	f := newOrderFixture()
	owner := models.GuestOwner("g")

	var validationErr *models.ValidationError

	_, err := f.svc.Create(ctx, owner, models.CreateOrderRequest{})
	assert.ErrorAs(t, err, &validationErr)

	_, err = f.svc.Create(ctx, owner, models.CreateOrderRequest{Items: []models.OrderItem{{Name: "x", Quantity: 0}}})
	assert.ErrorAs(t, err, &validationErr)

	_, err = f.svc.Create(ctx, owner, models.CreateOrderRequest{
		Items:         []models.OrderItem{{Name: "x", Quantity: 1}},
		PaymentStatus: "Shipped",
	})
	assert.ErrorAs(t, err, &validationErr)

	order, err := f.svc.Create(ctx, owner, models.CreateOrderRequest{
		OrderID: "ORD-CLIENT",
		Items: []models.OrderItem{{
			ProductID: uuid.New(),
			Name:      "Mug",
			Price:     decimal.RequireFromString("8"),
			Discount:  decimal.RequireFromString("25"),
			Quantity:  2,
		}},
	})
	require.NoError(t, err)
	assert.Equal(t, "ORD-CLIENT", order.OrderID)
	assert.Equal(t, models.PaymentPending, order.PaymentStatus)
	assert.True(t, decimal.RequireFromString("12").Equal(order.TotalAmt))
	assert.NotNil(t, order.Items[0].Images)

	_, err = f.svc.Create(ctx, owner, models.CreateOrderRequest{
		OrderID: "ORD-CLIENT",
		Items:   []models.OrderItem{{Name: "Mug", Quantity: 1}},
	})
	assert.ErrorIs(t, err, models.ErrDuplicate)
}

func TestOrderLookupAndOwnership(t *testing.T) {
	ctx := context.Background()
	f := newOrderFixture()
	alice := models.UserOwner(uuid.New())
	bob := models.UserOwner(uuid.New())

	order, err := f.svc.Create(ctx, alice, models.CreateOrderRequest{Items: []models.OrderItem{{Name: "Mug", Quantity: 1}}})
	require.NoError(t, err)

	byID, err := f.svc.Get(ctx, order.ID.String())
	require.NoError(t, err)
	byRef, err := f.svc.Get(ctx, order.OrderID)
	require.NoError(t, err)
	assert.Equal(t, byID.ID, byRef.ID)

	_, err = f.svc.GetMine(ctx, alice, order.OrderID)
	assert.NoError(t, err)
	_, err = f.svc.GetMine(ctx, bob, order.OrderID)
	assert.ErrorIs(t, err, models.ErrNotFound)

	page, err := f.svc.ListMine(ctx, bob, models.OrderFilter{})
	require.NoError(t, err)
	assert.Empty(t, page.Items)

	bobID, _ := bob.UserID()
	page, err = f.svc.ListMine(ctx, alice, models.OrderFilter{UserID: &bobID, Page: 0, Limit: 500})
	require.NoError(t, err)
	assert.Len(t, page.Items, 1, "the owner overrides any filter passed in")
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, models.MaxPageLimit, page.Limit)
}

func TestOrderListValidation(t *testing.T) {
	ctx := context.Background()
	f := newOrderFixture()
	var validationErr *models.ValidationError

	_, err := f.svc.List(ctx, models.OrderFilter{PaymentStatus: "Lost"})
	assert.ErrorAs(t, err, &validationErr)

	_, err = f.svc.List(ctx, models.OrderFilter{PaymentStatus: "All"})
	require.NoError(t, err)
	assert.Empty(t, f.orders.filter.PaymentStatus)

	from := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	to := from.Add(-time.Hour)
	_, err = f.svc.List(ctx, models.OrderFilter{From: &from, To: &to})
	assert.ErrorAs(t, err, &validationErr)
}

func TestUpdateAndDeleteOrder(t *testing.T) {
	ctx := context.Background()
	f := newOrderFixture()
	owner := models.GuestOwner("g")

	order, err := f.svc.Create(ctx, owner, models.CreateOrderRequest{Items: []models.OrderItem{{Name: "Mug", Quantity: 1}}})
	require.NoError(t, err)

	bad := "Shipped"
	_, err = f.svc.Update(ctx, order.OrderID, models.UpdateOrderRequest{PaymentStatus: &bad})
	var validationErr *models.ValidationError
	assert.ErrorAs(t, err, &validationErr)

	completed := models.PaymentCompleted
	invoice := " INV-42 "
	updated, err := f.svc.Update(ctx, order.ID.String(), models.UpdateOrderRequest{PaymentStatus: &completed, InvoiceReceipt: &invoice})
	require.NoError(t, err)
	assert.Equal(t, models.PaymentCompleted, updated.PaymentStatus)
	assert.Equal(t, "INV-42", updated.InvoiceReceipt)

	require.NoError(t, f.svc.Delete(ctx, order.OrderID))
	_, err = f.svc.Get(ctx, order.OrderID)
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.ErrorIs(t, f.svc.Delete(ctx, order.OrderID), models.ErrNotFound)

	var types []string
	for _, e := range f.feed.events {
		types = append(types, e.eventType)
	}
	assert.Equal(t, []string{libs.EventOrderCreated, libs.EventOrderUpdated, libs.EventOrderDeleted}, types)
}

func TestDashboardAndRevenue(t *testing.T) {
	ctx := context.Background()
	f := newOrderFixture()
	owner := models.GuestOwner("g")

	_, err := f.svc.Create(ctx, owner, models.CreateOrderRequest{
		PaymentStatus: models.PaymentCompleted,
		Items:         []models.OrderItem{{Name: "Mug", Quantity: 2, Price: decimal.RequireFromString("4")}},
	})
	require.NoError(t, err)
	_, err = f.svc.Create(ctx, owner, models.CreateOrderRequest{Items: []models.OrderItem{{Name: "Cup", Quantity: 1}}})
	require.NoError(t, err)

	stats, err := f.svc.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, stats.TotalUsers)
	assert.Equal(t, 7, stats.TotalProducts)
	assert.Equal(t, 5, stats.PublishedCount)
	assert.Equal(t, 2, stats.TotalCategories)
	assert.Equal(t, 2, stats.TotalOrders)
	assert.Equal(t, 1, stats.PendingOrders)
	assert.True(t, decimal.RequireFromString("8").Equal(stats.TotalRevenue))

	_, err = f.svc.Revenue(ctx, "", nil, nil)
	assert.NoError(t, err)
	_, err = f.svc.Revenue(ctx, "week", nil, nil)
	var validationErr *models.ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func TestCheckoutRejectsOversizedBilling(t *testing.T) {
	ctx := context.Background()
	tea := newProduct("Tea", "3", "0", true)
	f := newOrderFixture(tea)
	owner := models.GuestOwner("guest-2")
	_, err := f.carts.Add(ctx, owner, tea.ID, 1)
	require.NoError(t, err)

	var validationErr *models.ValidationError
	_, err = f.svc.Checkout(ctx, owner, models.CheckoutRequest{
		Billing: models.Billing{FullName: "Ana", Phone: strings.Repeat("9", models.MaxPhoneLength+1)},
	})
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "billing.phone", validationErr.Field)

	_, err = f.svc.Checkout(ctx, owner, models.CheckoutRequest{OrderID: strings.Repeat("A", models.MaxReferenceLength+1)})
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "order_id", validationErr.Field)

	cart, err := f.carts.Get(ctx, owner)
	require.NoError(t, err)
	assert.Len(t, cart.Items, 1, "a rejected checkout keeps the cart")
}

//go:build integration

package repositories

import (
	"context"
	"errors"
	"log"
	"os"
	"testing"
	"time"

	"storefront/config"
	"storefront/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

var testPool *pgxpool.Pool

func TestMain(m *testing.M) {
	os.Exit(runWithDatabase(m))
}

func runWithDatabase(m *testing.M) int {
	ctx := context.Background()

	ctr, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("storefront"),
		postgres.WithUsername("storefront"),
		postgres.WithPassword("storefront"),
		postgres.BasicWaitStrategies(),
	)
	if err != nil {
		log.Printf("start postgres: %v", err)
		return 1
	}
	defer func() {
		if err := testcontainers.TerminateContainer(ctr); err != nil {
			log.Printf("terminate postgres: %v", err)
		}
	}()

	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		log.Printf("connection string: %v", err)
		return 1
	}
	if err := config.RunMigrations(dsn, true, 0); err != nil {
		log.Printf("migrate: %v", err)
		return 1
	}

	testPool, err = pgxpool.New(ctx, dsn)
	if err != nil {
		log.Printf("connect: %v", err)
		return 1
	}
	defer testPool.Close()

	return m.Run()
}

func resetDB(t *testing.T) {
	t.Helper()
	_, err := testPool.Exec(context.Background(),
		`TRUNCATE cart_items, orders, products, subcategories, categories, users`)
	require.NoError(t, err)
}

func createProduct(t *testing.T, name string, price, discount int64, categoryIDs ...uuid.UUID) *models.Product {
	t.Helper()
	p := &models.Product{
		Name:        name,
		Price:       decimal.NewFromInt(price),
		Discount:    decimal.NewFromInt(discount),
		CategoryIDs: categoryIDs,
		Stock:       10,
		Publish:     true,
	}
	require.NoError(t, NewProductRepository(testPool).Create(context.Background(), p))
	return p
}

func TestCartAddAndMerge(t *testing.T) {
	resetDB(t)
	ctx := context.Background()
	repo := NewCartRepository(testPool)

	tea := createProduct(t, "Tea", 4, 0)
	milk := createProduct(t, "Milk", 2, 0)
	guest := models.GuestOwner("guest-1")
	userID := uuid.New()
	user := models.UserOwner(userID)

	_, err := repo.Add(ctx, guest, tea.ID, 1)
	require.NoError(t, err)
	item, err := repo.Add(ctx, guest, tea.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, item.Quantity, "second add increments the existing line")

	_, err = repo.Add(ctx, guest, milk.ID, 1)
	require.NoError(t, err)
	_, err = repo.Add(ctx, user, tea.ID, 1)
	require.NoError(t, err)

	require.NoError(t, repo.Merge(ctx, guest.ID, userID))

	guestItems, err := repo.FindByOwner(ctx, guest)
	require.NoError(t, err)
	assert.Empty(t, guestItems)

	userItems, err := repo.FindByOwner(ctx, user)
	require.NoError(t, err)
	require.Len(t, userItems, 2)

	quantities := map[uuid.UUID]int{}
	for _, it := range userItems {
		quantities[it.ProductID] = it.Quantity
		require.NotNil(t, it.Product)
	}
	assert.Equal(t, 4, quantities[tea.ID])
	assert.Equal(t, 1, quantities[milk.ID])
}

func TestCartOwnerTypesDoNotCollide(t *testing.T) {
	resetDB(t)
	ctx := context.Background()
	repo := NewCartRepository(testPool)

	tea := createProduct(t, "Tea", 4, 0)
	userID := uuid.New()

	_, err := repo.Add(ctx, models.UserOwner(userID), tea.ID, 1)
	require.NoError(t, err)
	item, err := repo.Add(ctx, models.GuestOwner(userID.String()), tea.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, item.Quantity)
}

func TestCartOwnership(t *testing.T) {
	resetDB(t)
	ctx := context.Background()
	repo := NewCartRepository(testPool)

	tea := createProduct(t, "Tea", 4, 0)
	alice := models.GuestOwner("alice")
	item, err := repo.Add(ctx, alice, tea.ID, 1)
	require.NoError(t, err)

	_, err = repo.UpdateQuantity(ctx, models.GuestOwner("mallory"), item.ID, 9)
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.ErrorIs(t, repo.Remove(ctx, models.GuestOwner("mallory"), item.ID), models.ErrNotFound)

	n, err := repo.Clear(ctx, alice)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func buildOrder(owner models.Owner, ref string) func([]models.CartItem) (*models.Order, error) {
	return func(items []models.CartItem) (*models.Order, error) {
		o := &models.Order{OrderID: "ORD-" + ref, PaymentID: "PAY-" + ref, PaymentStatus: models.PaymentPending}
		o.SetOwner(owner)
		for _, item := range items {
			o.Items = append(o.Items, models.OrderItemFromCart(item))
		}
		o.Recalculate()
		return o, nil
	}
}

func TestCheckout(t *testing.T) {
	resetDB(t)
	ctx := context.Background()
	carts := NewCartRepository(testPool)
	orders := NewOrderRepository(testPool)

	tea := createProduct(t, "Tea", 10, 20)
	guest := models.GuestOwner("guest-checkout")
	_, err := carts.Add(ctx, guest, tea.ID, 3)
	require.NoError(t, err)

	order, err := orders.Checkout(ctx, guest, buildOrder(guest, "A"))
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, order.ID)
	assert.True(t, decimal.NewFromInt(24).Equal(order.TotalAmt))

	left, err := carts.FindByOwner(ctx, guest)
	require.NoError(t, err)
	assert.Empty(t, left)

	stored, err := orders.FindByOrderID(ctx, "ORD-A")
	require.NoError(t, err)
	assert.Equal(t, order.ID, stored.ID)
	assert.Equal(t, "guest-checkout", stored.GuestID)
	require.Len(t, stored.Items, 1)
	assert.Equal(t, 3, stored.Items[0].Quantity)

	_, err = orders.Checkout(ctx, guest, buildOrder(guest, "B"))
	assert.ErrorIs(t, err, models.ErrEmptyCart)
}

func TestCheckoutRollsBack(t *testing.T) {
	resetDB(t)
	ctx := context.Background()
	carts := NewCartRepository(testPool)
	orders := NewOrderRepository(testPool)

	tea := createProduct(t, "Tea", 10, 0)
	guest := models.GuestOwner("guest-rollback")
	_, err := carts.Add(ctx, guest, tea.ID, 1)
	require.NoError(t, err)

	_, err = orders.Checkout(ctx, guest, buildOrder(guest, "DUP"))
	require.NoError(t, err)
	_, err = carts.Add(ctx, guest, tea.ID, 1)
	require.NoError(t, err)

	_, err = orders.Checkout(ctx, guest, buildOrder(guest, "DUP"))
	assert.ErrorIs(t, err, models.ErrDuplicate)

	left, err := carts.FindByOwner(ctx, guest)
	require.NoError(t, err)
	assert.Len(t, left, 1, "failed checkout keeps the cart")

	boom := errors.New("boom")
	_, err = orders.Checkout(ctx, guest, func([]models.CartItem) (*models.Order, error) { return nil, boom })
	assert.ErrorIs(t, err, boom)
}

func TestCategoryDeleteCleansReferences(t *testing.T) {
	resetDB(t)
	ctx := context.Background()
	categories := NewCategoryRepository(testPool)
	subcategories := NewSubCategoryRepository(testPool)

	drinks := &models.Category{Name: "Drinks"}
	food := &models.Category{Name: "Food"}
	require.NoError(t, categories.Create(ctx, drinks))
	require.NoError(t, categories.Create(ctx, food))

	sub := &models.SubCategory{Name: "Hot", CategoryIDs: []uuid.UUID{drinks.ID, food.ID}}
	require.NoError(t, subcategories.Create(ctx, sub))
	tea := createProduct(t, "Tea", 4, 0, drinks.ID, food.ID)

	require.NoError(t, categories.Delete(ctx, drinks.ID))

	storedSub, err := subcategories.FindByID(ctx, sub.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{food.ID}, storedSub.CategoryIDs)

	storedTea, err := NewProductRepository(testPool).FindByID(ctx, tea.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{food.ID}, storedTea.CategoryIDs)

	assert.ErrorIs(t, categories.Delete(ctx, drinks.ID), models.ErrNotFound)
}

func TestProductFiltersUseDiscountedPrice(t *testing.T) {
	resetDB(t)
	ctx := context.Background()
	repo := NewProductRepository(testPool)

	createProduct(t, "Cheap", 5, 0)
	createProduct(t, "Marked down", 100, 90)
	createProduct(t, "Pricey", 50, 0)
	hidden := &models.Product{Name: "Hidden", Price: decimal.NewFromInt(1)}
	require.NoError(t, repo.Create(ctx, hidden))

	maxPrice := decimal.NewFromInt(20)
	products, total, err := repo.FindAll(ctx, models.ProductFilter{
		MaxPrice:      &maxPrice,
		PublishedOnly: true,
		Sort:          models.SortPriceAsc,
		Page:          1,
		Limit:         10,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, products, 2)
	assert.Equal(t, "Cheap", products[0].Name)
	assert.Equal(t, "Marked down", products[1].Name)

	sale, _, err := repo.FindAll(ctx, models.ProductFilter{OnSale: true, Page: 1, Limit: 10})
	require.NoError(t, err)
	require.Len(t, sale, 1)
	assert.Equal(t, "Marked down", sale[0].Name)

	all, total, err := repo.FindAll(ctx, models.ProductFilter{Search: "ric", Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "Pricey", all[0].Name)

	total, published, err := repo.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, total)
	assert.Equal(t, 3, published)
}

func TestUserRepository(t *testing.T) {
	resetDB(t)
	ctx := context.Background()
	repo := NewUserRepository(testPool)

	user := &models.User{
		Name:     "Ann",
		Email:    "Ann@Example.com",
		Password: "hash",
		Role:     models.RoleUser,
		Status:   models.StatusActive,
	}
	require.NoError(t, repo.Create(ctx, user))

	dup := *user
	dup.Email = "ann@example.com"
	assert.ErrorIs(t, repo.Create(ctx, &dup), models.ErrDuplicate)

	found, err := repo.FindByEmail(ctx, "ANN@example.COM")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)
	assert.False(t, found.VerifyEmail)

	require.NoError(t, repo.MarkEmailVerified(ctx, user.ID))
	now := time.Now()
	require.NoError(t, repo.SetRefreshToken(ctx, user.ID, "refresh", &now))

	found, err = repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, found.VerifyEmail)
	assert.Equal(t, "refresh", found.RefreshToken)
	require.NotNil(t, found.LastLoginDate)

	require.NoError(t, repo.SetRefreshToken(ctx, user.ID, "", nil))
	found, err = repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, found.RefreshToken)
	assert.NotNil(t, found.LastLoginDate, "logout keeps the last login time")

	assert.ErrorIs(t, repo.SetRefreshToken(ctx, uuid.New(), "x", nil), models.ErrNotFound)
}

func TestOrderRevenue(t *testing.T) {
	resetDB(t)
	ctx := context.Background()
	repo := NewOrderRepository(testPool)

	for i, status := range []string{models.PaymentCompleted, models.PaymentCompleted, models.PaymentPending} {
		o := &models.Order{
			OrderID:       "ORD-" + string(rune('A'+i)),
			PaymentID:     "PAY-" + string(rune('A'+i)),
			GuestID:       "g",
			PaymentStatus: status,
			Items: []models.OrderItem{{
				ProductID: uuid.New(),
				Name:      "Tea",
				Price:     decimal.NewFromInt(10),
				Discount:  decimal.Zero,
				Quantity:  1,
			}},
		}
		o.Recalculate()
		require.NoError(t, repo.Create(ctx, o))
	}

	points, err := repo.Revenue(ctx, "day", nil, nil)
	require.NoError(t, err)
	require.Len(t, points, 1)
	assert.Equal(t, 2, points[0].Orders)
	assert.True(t, decimal.NewFromInt(20).Equal(points[0].Revenue))

	var stats models.DashboardStats
	require.NoError(t, repo.Stats(ctx, &stats))
	assert.Equal(t, 3, stats.TotalOrders)
	assert.Equal(t, 1, stats.PendingOrders)

	orders, total, err := repo.FindAll(ctx, models.OrderFilter{PaymentStatus: models.PaymentPending, Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "ORD-C", orders[0].OrderID)
}

package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"storefront/models"

	"github.com/google/uuid"
)

type fakeUserStore struct {
	mu    sync.Mutex
	users map[uuid.UUID]models.User
}

func newFakeUserStore(users ...models.User) *fakeUserStore {
	s := &fakeUserStore{users: make(map[uuid.UUID]models.User)}
	for _, u := range users {
		s.users[u.ID] = u
	}
	return s
}

func (s *fakeUserStore) Create(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == user.Email {
			return models.ErrDuplicate
		}
	}
	user.ID = uuid.New()
	user.CreatedAt = time.Now()
	s.users[user.ID] = *user
	return nil
}

func (s *fakeUserStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, models.ErrNotFound
}

func (s *fakeUserStore) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &u, nil
}

func (s *fakeUserStore) FindAll(_ context.Context, _ models.UserFilter) ([]models.User, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u)
	}
	return out, len(out), nil
}

func (s *fakeUserStore) Update(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.ID]; !ok {
		return models.ErrNotFound
	}
	s.users[user.ID] = *user
	return nil
}

func (s *fakeUserStore) modify(id uuid.UUID, fn func(u *models.User)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return models.ErrNotFound
	}
	fn(&u)
	s.users[id] = u
	return nil
}

func (s *fakeUserStore) UpdatePassword(_ context.Context, id uuid.UUID, hashedPassword string) error {
	return s.modify(id, func(u *models.User) { u.Password = hashedPassword })
}

func (s *fakeUserStore) MarkEmailVerified(_ context.Context, id uuid.UUID) error {
	return s.modify(id, func(u *models.User) { u.VerifyEmail = true })
}

func (s *fakeUserStore) SetRefreshToken(_ context.Context, id uuid.UUID, token string, loginAt *time.Time) error {
	return s.modify(id, func(u *models.User) {
		u.RefreshToken = token
		if loginAt != nil {
			u.LastLoginDate = loginAt
		}
	})
}

func (s *fakeUserStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return models.ErrNotFound
	}
	delete(s.users, id)
	return nil
}

func (s *fakeUserStore) Customers(_ context.Context, _ models.UserFilter) ([]models.Customer, int, error) {
	return nil, 0, nil
}

type fakeProductStore struct {
	mu       sync.Mutex
	products map[uuid.UUID]models.Product
	findAll  int
}

func newFakeProductStore(products ...models.Product) *fakeProductStore {
	s := &fakeProductStore{products: make(map[uuid.UUID]models.Product)}
	for _, p := range products {
		s.products[p.ID] = p
	}
	return s
}

func (s *fakeProductStore) FindAll(_ context.Context, filter models.ProductFilter) ([]models.Product, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.findAll++
	out := []models.Product{}
	for _, p := range s.products {
		if filter.PublishedOnly && !p.Publish {
			continue
		}
		out = append(out, p)
	}
	return out, len(out), nil
}

func (s *fakeProductStore) FindByID(_ context.Context, id uuid.UUID) (*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return nil, fmt.Errorf("product %s: %w", id, models.ErrNotFound)
	}
	return &p, nil
}

func (s *fakeProductStore) Export(_ context.Context) ([]models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Product, 0, len(s.products))
	for _, p := range s.products {
		out = append(out, p)
	}
	return out, nil
}

func (s *fakeProductStore) Create(_ context.Context, p *models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = uuid.New()
	p.Derive()
	s.products[p.ID] = *p
	return nil
}

func (s *fakeProductStore) Update(_ context.Context, p *models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[p.ID]; !ok {
		return models.ErrNotFound
	}
	p.Derive()
	s.products[p.ID] = *p
	return nil
}

func (s *fakeProductStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[id]; !ok {
		return models.ErrNotFound
	}
	delete(s.products, id)
	return nil
}

// fakeIDStore answers CountExisting for categories and subcategories.
type fakeIDStore struct {
	ids map[uuid.UUID]bool
}

func (s *fakeIDStore) CountExisting(_ context.Context, ids []uuid.UUID) (int, error) {
	n := 0
	for _, id := range ids {
		if s.ids[id] {
			n++
		}
	}
	return n, nil
}

func (s *fakeIDStore) add() uuid.UUID {
	if s.ids == nil {
		s.ids = make(map[uuid.UUID]bool)
	}
	id := uuid.New()
	s.ids[id] = true
	return id
}

func (s *fakeIDStore) remove(id uuid.UUID) error {
	if !s.ids[id] {
		return models.ErrNotFound
	}
	delete(s.ids, id)
	return nil
}

type fakeCategoryStore struct {
	fakeIDStore
	items map[uuid.UUID]models.Category
}

func (s *fakeCategoryStore) FindAll(context.Context) ([]models.Category, error) {
	out := make([]models.Category, 0, len(s.items))
	for _, c := range s.items {
		out = append(out, c)
	}
	return out, nil
}

func (s *fakeCategoryStore) FindByID(_ context.Context, id uuid.UUID) (*models.Category, error) {
	c, ok := s.items[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &c, nil
}

func (s *fakeCategoryStore) Create(_ context.Context, c *models.Category) error {
	if s.items == nil {
		s.items = make(map[uuid.UUID]models.Category)
	}
	c.ID = s.add()
	s.items[c.ID] = *c
	return nil
}

func (s *fakeCategoryStore) Update(_ context.Context, c *models.Category) error {
	if _, ok := s.items[c.ID]; !ok {
		return models.ErrNotFound
	}
	s.items[c.ID] = *c
	return nil
}

func (s *fakeCategoryStore) Delete(_ context.Context, id uuid.UUID) error {
	delete(s.items, id)
	return s.remove(id)
}

type fakeSubCategoryStore struct {
	fakeIDStore
	items map[uuid.UUID]models.SubCategory
}

func (s *fakeSubCategoryStore) FindAll(_ context.Context, categoryID *uuid.UUID) ([]models.SubCategory, error) {
	var out []models.SubCategory
	for _, sub := range s.items {
		if categoryID == nil {
			out = append(out, sub)
			continue
		}
		for _, id := range sub.CategoryIDs {
			if id == *categoryID {
				out = append(out, sub)
				break
			}
		}
	}
	return out, nil
}

func (s *fakeSubCategoryStore) FindByID(_ context.Context, id uuid.UUID) (*models.SubCategory, error) {
	sub, ok := s.items[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &sub, nil
}

func (s *fakeSubCategoryStore) Create(_ context.Context, sub *models.SubCategory) error {
	if s.items == nil {
		s.items = make(map[uuid.UUID]models.SubCategory)
	}
	sub.ID = s.add()
	s.items[sub.ID] = *sub
	return nil
}

func (s *fakeSubCategoryStore) Update(_ context.Context, sub *models.SubCategory) error {
	if _, ok := s.items[sub.ID]; !ok {
		return models.ErrNotFound
	}
	s.items[sub.ID] = *sub
	return nil
}

func (s *fakeSubCategoryStore) Delete(_ context.Context, id uuid.UUID) error {
	delete(s.items, id)
	return s.remove(id)
}

// fakeCartStore mirrors the upsert semantics of the SQL store.
type fakeCartStore struct {
	mu       sync.Mutex
	items    []models.CartItem
	products *fakeProductStore
}

func (s *fakeCartStore) hydrate(item models.CartItem) models.CartItem {
	if p, err := s.products.FindByID(context.Background(), item.ProductID); err == nil {
		item.Product = &models.CartProduct{
			ID:              p.ID,
			Name:            p.Name,
			Images:          p.Images,
			Unit:            p.Unit,
			Price:           p.Price,
			Discount:        p.Discount,
			DiscountedPrice: models.DiscountedPrice(p.Price, p.Discount),
			Stock:           p.Stock,
		}
	}
	return item
}

func (s *fakeCartStore) FindByOwner(_ context.Context, owner models.Owner) ([]models.CartItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.CartItem
	for _, item := range s.items {
		if item.OwnerID == owner.ID && item.OwnerType == owner.Type {
			out = append(out, s.hydrate(item))
		}
	}
	return out, nil
}

func (s *fakeCartStore) Add(_ context.Context, owner models.Owner, productID uuid.UUID, quantity int) (*models.CartItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		item := &s.items[i]
		if item.OwnerID == owner.ID && item.OwnerType == owner.Type && item.ProductID == productID {
			item.Quantity += quantity
			out := *item
			return &out, nil
		}
	}
	item := models.CartItem{ID: uuid.New(), ProductID: productID, Quantity: quantity, OwnerID: owner.ID, OwnerType: owner.Type}
	s.items = append(s.items, item)
	return &item, nil
}

func (s *fakeCartStore) UpdateQuantity(_ context.Context, owner models.Owner, itemID uuid.UUID, quantity int) (*models.CartItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		item := &s.items[i]
		if item.ID == itemID && item.OwnerID == owner.ID && item.OwnerType == owner.Type {
			item.Quantity = quantity
			out := *item
			return &out, nil
		}
	}
	return nil, models.ErrNotFound
}

func (s *fakeCartStore) Remove(_ context.Context, owner models.Owner, itemID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, item := range s.items {
		if item.ID == itemID && item.OwnerID == owner.ID && item.OwnerType == owner.Type {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return nil
		}
	}
	return models.ErrNotFound
}

func (s *fakeCartStore) Clear(_ context.Context, owner models.Owner) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.items[:0]
	var n int64
	for _, item := range s.items {
		if item.OwnerID == owner.ID && item.OwnerType == owner.Type {
			n++
			continue
		}
		kept = append(kept, item)
	}
	s.items = kept
	return n, nil
}

func (s *fakeCartStore) Merge(ctx context.Context, guestID string, userID uuid.UUID) error {
	guest := models.GuestOwner(guestID)
	items, _ := s.FindByOwner(ctx, guest)
	for _, item := range items {
		if _, err := s.Add(ctx, models.UserOwner(userID), item.ProductID, item.Quantity); err != nil {
			return err
		}
	}
	_, err := s.Clear(ctx, guest)
	return err
}

type fakeOrderStore struct {
	mu     sync.Mutex
	orders []models.Order
	carts  *fakeCartStore
	filter models.OrderFilter
}

func (s *fakeOrderStore) Create(_ context.Context, o *models.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.orders {
		if existing.OrderID == o.OrderID || existing.PaymentID == o.PaymentID {
			return models.ErrDuplicate
		}
	}
	o.ID = uuid.New()
	o.CreatedAt = time.Now()
	o.UpdatedAt = o.CreatedAt
	s.orders = append(s.orders, *o)
	return nil
}

func (s *fakeOrderStore) Checkout(ctx context.Context, owner models.Owner, build func([]models.CartItem) (*models.Order, error)) (*models.Order, error) {
	items, err := s.carts.FindByOwner(ctx, owner)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, models.ErrEmptyCart
	}
	order, err := build(items)
	if err != nil {
		return nil, err
	}
	if err := s.Create(ctx, order); err != nil {
		return nil, err
	}
	if _, err := s.carts.Clear(ctx, owner); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *fakeOrderStore) FindAll(_ context.Context, filter models.OrderFilter) ([]models.Order, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filter = filter
	var out []models.Order
	for _, o := range s.orders {
		if filter.UserID != nil && (o.UserID == nil || *o.UserID != *filter.UserID) {
			continue
		}
		if filter.GuestID != "" && o.GuestID != filter.GuestID {
			continue
		}
		if filter.PaymentStatus != "" && o.PaymentStatus != filter.PaymentStatus {
			continue
		}
		out = append(out, o)
	}
	return out, len(out), nil
}

func (s *fakeOrderStore) find(match func(models.Order) bool) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range s.orders {
		if match(o) {
			return &o, nil
		}
	}
	return nil, models.ErrNotFound
}

func (s *fakeOrderStore) FindByID(_ context.Context, id uuid.UUID) (*models.Order, error) {
	return s.find(func(o models.Order) bool { return o.ID == id })
}

func (s *fakeOrderStore) FindByOrderID(_ context.Context, orderID string) (*models.Order, error) {
	return s.find(func(o models.Order) bool { return o.OrderID == orderID })
}

func (s *fakeOrderStore) Update(_ context.Context, o *models.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.orders {
		if s.orders[i].ID == o.ID {
			s.orders[i] = *o
			return nil
		}
	}
	return models.ErrNotFound
}

func (s *fakeOrderStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.orders {
		if s.orders[i].ID == id {
			s.orders = append(s.orders[:i], s.orders[i+1:]...)
			return nil
		}
	}
	return models.ErrNotFound
}

func (s *fakeOrderStore) Stats(_ context.Context, stats *models.DashboardStats) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stats.TotalOrders = len(s.orders)
	for _, o := range s.orders {
		switch o.PaymentStatus {
		case models.PaymentPending:
			stats.PendingOrders++
		case models.PaymentCompleted:
			stats.TotalRevenue = stats.TotalRevenue.Add(o.TotalAmt)
		}
	}
	return nil
}

func (s *fakeOrderStore) Revenue(context.Context, string, *time.Time, *time.Time) ([]models.RevenuePoint, error) {
	return []models.RevenuePoint{}, nil
}

type fakeCounter struct{ n int }

func (c fakeCounter) Count(context.Context) (int, error) { return c.n, nil }

type fakeProductCounter struct{ total, published int }

func (c fakeProductCounter) Counts(context.Context) (int, int, error) {
	return c.total, c.published, nil
}

type sentMail struct {
	kind string
	to   string
	code string
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (m *fakeMailer) record(kind, to, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{kind: kind, to: to, code: code})
	return m.err
}

func (m *fakeMailer) SendVerificationEmail(to, _, code string) error {
	return m.record("verify", to, code)
}

func (m *fakeMailer) SendPasswordResetOTP(to, _, otp string) error {
	return m.record("otp", to, otp)
}

func (m *fakeMailer) SendOrderConfirmation(to string, order *models.Order) error {
	return m.record("order", to, order.OrderID)
}

func (m *fakeMailer) last(kind string) (sentMail, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.sent) - 1; i >= 0; i-- {
		if m.sent[i].kind == kind {
			return m.sent[i], true
		}
	}
	return sentMail{}, false
}

type broadcastEvent struct {
	eventType string
	orderID   string
}

type fakeBroadcaster struct {
	events []broadcastEvent
}

func (b *fakeBroadcaster) Broadcast(eventType string, order *models.Order) {
	b.events = append(b.events, broadcastEvent{eventType: eventType, orderID: order.OrderID})
}

var errUploadFailed = errors.New("upload failed")

type fakeUploader struct {
	mu       sync.Mutex
	uploaded []string
	deleted  []string
	failOn   string
}

func (u *fakeUploader) Upload(_ context.Context, file io.Reader, filename, folder string) (*models.UploadedImage, error) {
	if _, err := io.ReadAll(file); err != nil {
		return nil, err
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	if filename == u.failOn {
		return nil, errUploadFailed
	}
	publicID := folder + "/" + filename
	u.uploaded = append(u.uploaded, publicID)
	return &models.UploadedImage{URL: "https://img.example.com/" + publicID, PublicID: publicID}, nil
}

func (u *fakeUploader) Delete(_ context.Context, publicID string) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.deleted = append(u.deleted, publicID)
	return nil
}

package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	PaymentPending   = "Pending"
	PaymentCompleted = "Completed"
	PaymentFailed    = "Failed"
	PaymentRefunded  = "Refunded"
)

func ValidPaymentStatus(status string) bool {
	switch status {
	case PaymentPending, PaymentCompleted, PaymentFailed, PaymentRefunded:
		return true
	}
	return false
}

type OrderItem struct {
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	Images    []string        `json:"images"`
	Unit      string          `json:"unit"`
	Price     decimal.Decimal `json:"price"`
	Discount  decimal.Decimal `json:"discount"`
	Quantity  int             `json:"quantity"`
	LineTotal decimal.Decimal `json:"line_total"`
}

type Billing struct {
	FullName   string `json:"full_name" binding:"max=100"`
	Email      string `json:"email" binding:"omitempty,email,max=255"`
	Phone      string `json:"phone" binding:"max=20"`
	Address    string `json:"address"`
	City       string `json:"city" binding:"max=100"`
	Country    string `json:"country" binding:"max=100"`
	PostalCode string `json:"postal_code" binding:"max=20"`
}

func (b Billing) Validate() error {
	for _, f := range []struct {
		name, value string
		max         int
	}{
		{"billing.full_name", b.FullName, MaxNameLength},
		{"billing.email", b.Email, MaxEmailLength},
		{"billing.phone", b.Phone, MaxPhoneLength},
		{"billing.city", b.City, MaxPlaceLength},
		{"billing.country", b.Country, MaxPlaceLength},
		{"billing.postal_code", b.PostalCode, MaxPostalCodeLength},
	} {
		if err := CheckLength(f.name, f.value, f.max); err != nil {
			return err
		}
	}
	return nil
}

type Order struct {
	ID             uuid.UUID       `json:"id"`
	OrderID        string          `json:"order_id"`
	PaymentID      string          `json:"payment_id"`
	InvoiceReceipt string          `json:"invoice_receipt"`
	UserID         *uuid.UUID      `json:"user_id,omitempty"`
	GuestID        string          `json:"guest_id,omitempty"`
	Items          []OrderItem     `json:"items"`
	Billing        Billing         `json:"billing"`
	PaymentStatus  string          `json:"payment_status"`
	SubTotalAmt    decimal.Decimal `json:"sub_total_amt"`
	TotalAmt       decimal.Decimal `json:"total_amt"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// SetOwner stores the owner in the user or guest column.
func (o *Order) SetOwner(owner Owner) {
	if id, ok := owner.UserID(); ok {
		o.UserID = &id
		o.GuestID = ""
		return
	}
	o.UserID = nil
	o.GuestID = owner.ID
}

func (o *Order) OwnedBy(owner Owner) bool {
	if id, ok := owner.UserID(); ok {
		return o.UserID != nil && *o.UserID == id
	}
	return owner.ID != "" && o.GuestID == owner.ID
}

// Recalculate sets line totals and order amounts from Items.
func (o *Order) Recalculate() {
	var totals Totals
	for i := range o.Items {
		item := &o.Items[i]
		item.LineTotal = DiscountedPrice(item.Price, item.Discount).Mul(decimal.NewFromInt(int64(item.Quantity))).Round(2)
		totals.Add(item.Price, item.Discount, item.Quantity)
	}
	o.SubTotalAmt = totals.SubTotal
	o.TotalAmt = totals.Total
}

// OrderItemFromCart snapshots a cart line.
func OrderItemFromCart(item CartItem) OrderItem {
	p := item.Product
	images := p.Images
	if images == nil {
		images = []string{}
	}
	return OrderItem{
		ProductID: item.ProductID,
		Name:      p.Name,
		Images:    images,
		Unit:      p.Unit,
		Price:     p.Price,
		Discount:  p.Discount,
		Quantity:  item.Quantity,
	}
}

type OrderFilter struct {
	UserID        *uuid.UUID
	GuestID       string
	PaymentStatus string
	Search        string
	From          *time.Time
	To            *time.Time
	Page          int
	Limit         int
}

type DashboardStats struct {
	TotalUsers      int             `json:"total_users"`
	TotalProducts   int             `json:"total_products"`
	TotalOrders     int             `json:"total_orders"`
	PendingOrders   int             `json:"pending_orders"`
	TotalRevenue    decimal.Decimal `json:"total_revenue"`
	PublishedCount  int             `json:"published_products"`
	TotalCategories int             `json:"total_categories"`
}

type RevenuePoint struct {
	Period  time.Time       `json:"period"`
	Orders  int             `json:"orders"`
	Revenue decimal.Decimal `json:"revenue"`
}

const (
	PeriodDay   = "day"
	PeriodMonth = "month"
	PeriodYear  = "year"
)

func ValidPeriod(p string) bool {
	return p == PeriodDay || p == PeriodMonth || p == PeriodYear
}

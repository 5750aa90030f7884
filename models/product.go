package models

import (
	"strings"
	"time"

	"storefront/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Product struct {
	ID              uuid.UUID         `json:"id"`
	Name            string            `json:"name"`
	Slug            string            `json:"slug"`
	Images          []string          `json:"images"`
	CategoryIDs     []uuid.UUID       `json:"category_ids"`
	SubCategoryIDs  []uuid.UUID       `json:"subcategory_ids"`
	Unit            string            `json:"unit"`
	Stock           int               `json:"stock"`
	Price           decimal.Decimal   `json:"price"`
	Discount        decimal.Decimal   `json:"discount"`
	DiscountedPrice decimal.Decimal   `json:"discounted_price"`
	Description     string            `json:"description"`
	MoreDetails     map[string]string `json:"more_details"`
	Publish         bool              `json:"publish"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

// Derive fills the read-only fields computed from stored columns.
func (p *Product) Derive() {
	p.Slug = ProductSlug(p.Name, p.ID)
	p.DiscountedPrice = DiscountedPrice(p.Price, p.Discount)
	if p.Images == nil {
		p.Images = []string{}
	}
	if p.CategoryIDs == nil {
		p.CategoryIDs = []uuid.UUID{}
	}
	if p.SubCategoryIDs == nil {
		p.SubCategoryIDs = []uuid.UUID{}
	}
	if p.MoreDetails == nil {
		p.MoreDetails = map[string]string{}
	}
}

func (p *Product) OnSale() bool {
	return p.Discount.GreaterThan(decimal.Zero)
}

// ProductSlug builds "<slugified-name>-<id>".
func ProductSlug(name string, id uuid.UUID) string {
	return utils.Slugify(name) + "-" + id.String()
}

// ProductIDFromSlug extracts the id that ProductSlug appends.
func ProductIDFromSlug(slug string) (uuid.UUID, bool) {
	const idLen = 36
	if len(slug) < idLen {
		return uuid.Nil, false
	}
	tail := slug[len(slug)-idLen:]
	if head := slug[:len(slug)-idLen]; head != "" && !strings.HasSuffix(head, "-") {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(tail)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

const (
	SortNewest    = "newest"
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
	SortNameAsc   = "name_asc"
	SortNameDesc  = "name_desc"
)

type ProductFilter struct {
	Search        string
	CategoryID    *uuid.UUID
	SubCategoryID *uuid.UUID
	MinPrice      *decimal.Decimal
	MaxPrice      *decimal.Decimal
	OnSale        bool
	PublishedOnly bool
	Sort          string
	Page          int
	Limit         int
}

package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"storefront/libs"
	"storefront/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const productCachePrefix = "products:"

type ProductStore interface {
	FindAll(ctx context.Context, filter models.ProductFilter) ([]models.Product, int, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	Export(ctx context.Context) ([]models.Product, error)
	Create(ctx context.Context, p *models.Product) error
	Update(ctx context.Context, p *models.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type ProductService struct {
	products      ProductStore
	categories    CategoryStore
	subcategories SubCategoryStore
	cache         libs.Store
	cacheTTL      time.Duration
}

func NewProductService(products ProductStore, categories CategoryStore, subcategories SubCategoryStore, cache libs.Store, cacheTTL time.Duration) *ProductService {
	return &ProductService{
		products:      products,
		categories:    categories,
		subcategories: subcategories,
		cache:         cache,
		cacheTTL:      cacheTTL,
	}
}

var hundred = decimal.NewFromInt(100)

func normalizeProductFilter(filter models.ProductFilter) (models.ProductFilter, error) {
	filter.Page, filter.Limit = models.NormalizePaging(filter.Page, filter.Limit)
	filter.Search = strings.TrimSpace(filter.Search)

	switch filter.Sort {
	case "":
		filter.Sort = models.SortNewest
	case models.SortNewest, models.SortPriceAsc, models.SortPriceDesc, models.SortNameAsc, models.SortNameDesc:
	default:
		return filter, models.NewValidationError("sort", "unsupported sort %q", filter.Sort)
	}

	if filter.MinPrice != nil && filter.MaxPrice != nil && filter.MinPrice.GreaterThan(*filter.MaxPrice) {
		return filter, models.NewValidationError("min_price", "must not exceed max_price")
	}
	return filter, nil
}

func listingCacheKey(filter models.ProductFilter) string {
	optional := func(v fmt.Stringer, ok bool) string {
		if !ok {
			return ""
		}
		return v.String()
	}
	return productCachePrefix + strings.Join([]string{
		fmt.Sprintf("p=%d", filter.Page),
		fmt.Sprintf("l=%d", filter.Limit),
		"q=" + strings.ToLower(filter.Search),
		"c=" + optional(filter.CategoryID, filter.CategoryID != nil),
		"s=" + optional(filter.SubCategoryID, filter.SubCategoryID != nil),
		"min=" + optional(filter.MinPrice, filter.MinPrice != nil),
		"max=" + optional(filter.MaxPrice, filter.MaxPrice != nil),
		fmt.Sprintf("sale=%t", filter.OnSale),
		fmt.Sprintf("pub=%t", filter.PublishedOnly),
		"sort=" + filter.Sort,
	}, "|")
}

// List returns one page of products. Public listings are served from the
// cache when possible.
func (s *ProductService) List(ctx context.Context, filter models.ProductFilter) (*models.Page[models.Product], error) {
	filter, err := normalizeProductFilter(filter)
	if err != nil {
		return nil, err
	}

	key := listingCacheKey(filter)
	if filter.PublishedOnly {
		if cached, err := s.cache.Get(ctx, key); err == nil {
			var page models.Page[models.Product]
			if err := json.Unmarshal([]byte(cached), &page); err == nil {
				return &page, nil
			}
		} else if !errors.Is(err, libs.ErrCacheMiss) {
			log.Printf("Product cache read failed: %v", err)
		}
	}

	products, total, err := s.products.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	page := &models.Page[models.Product]{Items: products, TotalItems: total, Page: filter.Page, Limit: filter.Limit}

	if filter.PublishedOnly {
		if data, err := json.Marshal(page); err == nil {
			if err := s.cache.Set(ctx, key, string(data), s.cacheTTL); err != nil {
				log.Printf("Product cache write failed: %v", err)
			}
		}
	}
	return page, nil
}

// GetByID hides unpublished products unless includeUnpublished is set.
func (s *ProductService) GetByID(ctx context.Context, id uuid.UUID, includeUnpublished bool) (*models.Product, error) {
	p, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.Publish && !includeUnpublished {
		return nil, fmt.Errorf("product %s: %w", id, models.ErrNotFound)
	}
	return p, nil
}

func (s *ProductService) GetBySlug(ctx context.Context, slug string) (*models.Product, error) {
	id, ok := models.ProductIDFromSlug(slug)
	if !ok {
		return nil, fmt.Errorf("product slug %q: %w", slug, models.ErrNotFound)
	}
	return s.GetByID(ctx, id, false)
}

func (s *ProductService) validate(ctx context.Context, p *models.Product) error {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return models.NewValidationError("name", "is required")
	}
	if err := models.CheckLength("name", name, models.MaxProductNameLength); err != nil {
		return err
	}
	p.Name = name
	if err := models.CheckLength("unit", p.Unit, models.MaxUnitLength); err != nil {
		return err
	}

	if p.Price.IsNegative() {
		return models.NewValidationError("price", "must not be negative")
	}
	if p.Discount.IsNegative() || p.Discount.GreaterThan(hundred) {
		return models.NewValidationError("discount", "must be between 0 and 100")
	}
	if p.Stock < 0 {
		return models.NewValidationError("stock", "must not be negative")
	}

	p.CategoryIDs = uniqueIDs(p.CategoryIDs)
	p.SubCategoryIDs = uniqueIDs(p.SubCategoryIDs)
	if err := ensureAllExist(ctx, s.categories.CountExisting, "category_ids", p.CategoryIDs); err != nil {
		return err
	}
	return ensureAllExist(ctx, s.subcategories.CountExisting, "subcategory_ids", p.SubCategoryIDs)
}

func cleanImages(images []string) []string {
	out := make([]string, 0, len(images))
	for _, img := range images {
		if img = strings.TrimSpace(img); img != "" {
			out = append(out, img)
		}
	}
	return out
}

func (s *ProductService) Create(ctx context.Context, req models.CreateProductRequest) (*models.Product, error) {
	p := &models.Product{
		Name:           req.Name,
		Images:         cleanImages(req.Images),
		CategoryIDs:    req.CategoryIDs,
		SubCategoryIDs: req.SubCategoryIDs,
		Unit:           strings.TrimSpace(req.Unit),
		Stock:          req.Stock,
		Price:          req.Price,
		Discount:       req.Discount,
		Description:    req.Description,
		MoreDetails:    req.MoreDetails,
		Publish:        req.Publish,
	}
	if err := s.validate(ctx, p); err != nil {
		return nil, err
	}

	if err := s.products.Create(ctx, p); err != nil {
		return nil, err
	}
	s.InvalidateListings(ctx)
	return p, nil
}

func (s *ProductService) Update(ctx context.Context, id uuid.UUID, req models.UpdateProductRequest) (*models.Product, error) {
	p, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Images != nil {
		p.Images = cleanImages(req.Images)
	}
	if req.CategoryIDs != nil {
		p.CategoryIDs = req.CategoryIDs
	}
	if req.SubCategoryIDs != nil {
		p.SubCategoryIDs = req.SubCategoryIDs
	}
	if req.Unit != nil {
		p.Unit = strings.TrimSpace(*req.Unit)
	}
	if req.Stock != nil {
		p.Stock = *req.Stock
	}
	if req.Price != nil {
		p.Price = *req.Price
	}
	if req.Discount != nil {
		p.Discount = *req.Discount
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.MoreDetails != nil {
		p.MoreDetails = *req.MoreDetails
	}
	if req.Publish != nil {
		p.Publish = *req.Publish
	}

	if err := s.validate(ctx, p); err != nil {
		return nil, err
	}
	if err := s.products.Update(ctx, p); err != nil {
		return nil, err
	}
	s.InvalidateListings(ctx)
	return p, nil
}

func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.products.Delete(ctx, id); err != nil {
		return err
	}
	s.InvalidateListings(ctx)
	return nil
}

// Export writes every product as an xlsx workbook.
func (s *ProductService) Export(ctx context.Context, w io.Writer) error {
	products, err := s.products.Export(ctx)
	if err != nil {
		return err
	}
	return libs.WriteProductsXLSX(w, products)
}

func (s *ProductService) InvalidateListings(ctx context.Context) {
	if err := s.cache.DeletePrefix(ctx, productCachePrefix); err != nil {
		log.Printf("Product cache invalidation failed: %v", err)
	}
}

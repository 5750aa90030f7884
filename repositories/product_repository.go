package repositories

import (
	"context"

	"storefront/models"

	"github.com/google/uuid"
)

type ProductRepository struct {
	db DBTX
}

func NewProductRepository(db DBTX) *ProductRepository {
	return &ProductRepository{db: db}
}

const productColumns = `id, name, images, category_ids, subcategory_ids, unit, stock, price, discount,
	description, more_details, publish, created_at, updated_at`

// effectivePrice is the discounted unit price used by price filters and sorting.
const effectivePrice = `ROUND(price * (100 - discount) / 100, 2)`

var productOrderBy = map[string]string{
	models.SortNewest:    "created_at DESC, id",
	models.SortPriceAsc:  effectivePrice + " ASC, id",
	models.SortPriceDesc: effectivePrice + " DESC, id",
	models.SortNameAsc:   "LOWER(name) ASC, id",
	models.SortNameDesc:  "LOWER(name) DESC, id",
}

func scanProduct(row interface{ Scan(...any) error }) (*models.Product, error) {
	var p models.Product
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Images,
		&p.CategoryIDs,
		&p.SubCategoryIDs,
		&p.Unit,
		&p.Stock,
		&p.Price,
		&p.Discount,
		&p.Description,
		&p.MoreDetails,
		&p.Publish,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.Derive()
	return &p, nil
}

func productWhere(filter models.ProductFilter) *whereBuilder {
	where := &whereBuilder{}
	if filter.PublishedOnly {
		where.add("publish = TRUE")
	}
	if filter.OnSale {
		where.add("discount > 0")
	}
	if filter.Search != "" {
		where.add("name ILIKE ?", likePattern(filter.Search))
	}
	if filter.CategoryID != nil {
		where.add("? = ANY(category_ids)", *filter.CategoryID)
	}
	if filter.SubCategoryID != nil {
		where.add("? = ANY(subcategory_ids)", *filter.SubCategoryID)
	}
	if filter.MinPrice != nil {
		where.add(effectivePrice+" >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		where.add(effectivePrice+" <= ?", *filter.MaxPrice)
	}
	return where
}

func (r *ProductRepository) FindAll(ctx context.Context, filter models.ProductFilter) ([]models.Product, int, error) {
	where := productWhere(filter)

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM products`+where.sql(), where.args...).Scan(&total); err != nil {
		return nil, 0, translateError("count products", err)
	}

	orderBy, ok := productOrderBy[filter.Sort]
	if !ok {
		orderBy = productOrderBy[models.SortNewest]
	}

	query := `SELECT ` + productColumns + ` FROM products` + where.sql() +
		` ORDER BY ` + orderBy +
		` LIMIT ` + where.next(filter.Limit) +
		` OFFSET ` + where.next(models.Offset(filter.Page, filter.Limit))

	products, err := r.query(ctx, query, where.args...)
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// Export returns every product, newest first.
func (r *ProductRepository) Export(ctx context.Context) ([]models.Product, error) {
	return r.query(ctx, `SELECT `+productColumns+` FROM products ORDER BY created_at DESC`)
}

func (r *ProductRepository) query(ctx context.Context, query string, args ...any) ([]models.Product, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, translateError("list products", err)
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, translateError("scan product", err)
		}
		products = append(products, *p)
	}
	return products, translateError("list products", rows.Err())
}

func (r *ProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	p, err := scanProduct(r.db.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if err != nil {
		return nil, translateError("find product", err)
	}
	return p, nil
}

func (r *ProductRepository) Create(ctx context.Context, p *models.Product) error {
	query := `
		INSERT INTO products (name, images, category_ids, subcategory_ids, unit, stock, price, discount,
		                      description, more_details, publish)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at
	`
	p.Derive()
	err := r.db.QueryRow(ctx, query,
		p.Name,
		p.Images,
		p.CategoryIDs,
		p.SubCategoryIDs,
		p.Unit,
		p.Stock,
		p.Price,
		p.Discount,
		p.Description,
		p.MoreDetails,
		p.Publish,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return translateError("create product", err)
	}
	p.Derive()
	return nil
}

func (r *ProductRepository) Update(ctx context.Context, p *models.Product) error {
	query := `
		UPDATE products
		SET name = $1, images = $2, category_ids = $3, subcategory_ids = $4, unit = $5, stock = $6,
		    price = $7, discount = $8, description = $9, more_details = $10, publish = $11, updated_at = NOW()
		WHERE id = $12
		RETURNING created_at, updated_at
	`
	p.Derive()
	err := r.db.QueryRow(ctx, query,
		p.Name,
		p.Images,
		p.CategoryIDs,
		p.SubCategoryIDs,
		p.Unit,
		p.Stock,
		p.Price,
		p.Discount,
		p.Description,
		p.MoreDetails,
		p.Publish,
		p.ID,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	return translateError("update product", err)
}

func (r *ProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return translateError("delete product", err)
	}
	if tag.RowsAffected() == 0 {
		return translateError("delete product", models.ErrNotFound)
	}
	return nil
}

// Counts returns the total and published product counts.
func (r *ProductRepository) Counts(ctx context.Context) (total, published int, err error) {
	err = r.db.QueryRow(ctx,
		`SELECT COUNT(*), COUNT(*) FILTER (WHERE publish) FROM products`).Scan(&total, &published)
	return total, published, translateError("count products", err)
}

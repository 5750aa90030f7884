package repositories

import (
	"context"

	"storefront/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type CategoryRepository struct {
	db TxBeginner
}

func NewCategoryRepository(db TxBeginner) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) FindAll(ctx context.Context) ([]models.Category, error) {
	query := `SELECT id, name, image, created_at, updated_at FROM categories ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, translateError("list categories", err)
	}
	defer rows.Close()

	categories := []models.Category{}
	for rows.Next() {
		var cat models.Category
		if err := rows.Scan(&cat.ID, &cat.Name, &cat.Image, &cat.CreatedAt, &cat.UpdatedAt); err != nil {
			return nil, translateError("scan category", err)
		}
		categories = append(categories, cat)
	}
	return categories, translateError("list categories", rows.Err())
}

func (r *CategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	query := `SELECT id, name, image, created_at, updated_at FROM categories WHERE id = $1`

	var cat models.Category
	err := r.db.QueryRow(ctx, query, id).Scan(&cat.ID, &cat.Name, &cat.Image, &cat.CreatedAt, &cat.UpdatedAt)
	if err != nil {
		return nil, translateError("find category", err)
	}
	return &cat, nil
}

// CountExisting returns how many of ids name a stored category.
func (r *CategoryRepository) CountExisting(ctx context.Context, ids []uuid.UUID) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM categories WHERE id = ANY($1)`, ids).Scan(&n)
	return n, translateError("count categories", err)
}

func (r *CategoryRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM categories`).Scan(&n)
	return n, translateError("count categories", err)
}

func (r *CategoryRepository) Create(ctx context.Context, cat *models.Category) error {
	query := `
		INSERT INTO categories (name, image)
		VALUES ($1, $2)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query, cat.Name, cat.Image).Scan(&cat.ID, &cat.CreatedAt, &cat.UpdatedAt)
	return translateError("create category", err)
}

func (r *CategoryRepository) Update(ctx context.Context, cat *models.Category) error {
	query := `
		UPDATE categories SET name = $1, image = $2, updated_at = NOW()
		WHERE id = $3
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query, cat.Name, cat.Image, cat.ID).Scan(&cat.CreatedAt, &cat.UpdatedAt)
	return translateError("update category", err)
}

// Delete removes the category and drops its id from every subcategory and
// product that references it.
func (r *CategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	err := withTx(ctx, r.db, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return models.ErrNotFound
		}

		if _, err := tx.Exec(ctx,
			`UPDATE subcategories SET category_ids = array_remove(category_ids, $1), updated_at = NOW()
			 WHERE $1 = ANY(category_ids)`, id); err != nil {
			return err
		}
		_, err = tx.Exec(ctx,
			`UPDATE products SET category_ids = array_remove(category_ids, $1), updated_at = NOW()
			 WHERE $1 = ANY(category_ids)`, id)
		return err
	})
	return translateError("delete category", err)
}

package repositories

import (
	"context"

	"storefront/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type SubCategoryRepository struct {
	db TxBeginner
}

func NewSubCategoryRepository(db TxBeginner) *SubCategoryRepository {
	return &SubCategoryRepository{db: db}
}

const subCategorySelect = `
	SELECT s.id, s.name, s.image, s.category_ids, s.created_at, s.updated_at,
	       COALESCE((
	           SELECT json_agg(json_build_object('id', c.id, 'name', c.name) ORDER BY c.name)
	           FROM categories c WHERE c.id = ANY(s.category_ids)
	       ), '[]'::json)
	FROM subcategories s`

func scanSubCategory(row interface{ Scan(...any) error }) (*models.SubCategory, error) {
	var sub models.SubCategory
	err := row.Scan(&sub.ID, &sub.Name, &sub.Image, &sub.CategoryIDs, &sub.CreatedAt, &sub.UpdatedAt, &sub.Categories)
	if err != nil {
		return nil, err
	}
	if sub.CategoryIDs == nil {
		sub.CategoryIDs = []uuid.UUID{}
	}
	return &sub, nil
}

// FindAll lists subcategories, optionally only those under categoryID.
func (r *SubCategoryRepository) FindAll(ctx context.Context, categoryID *uuid.UUID) ([]models.SubCategory, error) {
	where := &whereBuilder{}
	if categoryID != nil {
		where.add("? = ANY(s.category_ids)", *categoryID)
	}

	rows, err := r.db.Query(ctx, subCategorySelect+where.sql()+` ORDER BY s.created_at DESC`, where.args...)
	if err != nil {
		return nil, translateError("list subcategories", err)
	}
	defer rows.Close()

	subs := []models.SubCategory{}
	for rows.Next() {
		sub, err := scanSubCategory(rows)
		if err != nil {
			return nil, translateError("scan subcategory", err)
		}
		subs = append(subs, *sub)
	}
	return subs, translateError("list subcategories", rows.Err())
}

func (r *SubCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.SubCategory, error) {
	sub, err := scanSubCategory(r.db.QueryRow(ctx, subCategorySelect+` WHERE s.id = $1`, id))
	if err != nil {
		return nil, translateError("find subcategory", err)
	}
	return sub, nil
}

func (r *SubCategoryRepository) CountExisting(ctx context.Context, ids []uuid.UUID) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM subcategories WHERE id = ANY($1)`, ids).Scan(&n)
	return n, translateError("count subcategories", err)
}

func (r *SubCategoryRepository) Create(ctx context.Context, sub *models.SubCategory) error {
	query := `
		INSERT INTO subcategories (name, image, category_ids)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query, sub.Name, sub.Image, sub.CategoryIDs).Scan(&sub.ID, &sub.CreatedAt, &sub.UpdatedAt)
	return translateError("create subcategory", err)
}

func (r *SubCategoryRepository) Update(ctx context.Context, sub *models.SubCategory) error {
	query := `
		UPDATE subcategories SET name = $1, image = $2, category_ids = $3, updated_at = NOW()
		WHERE id = $4
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query, sub.Name, sub.Image, sub.CategoryIDs, sub.ID).Scan(&sub.CreatedAt, &sub.UpdatedAt)
	return translateError("update subcategory", err)
}

// Delete removes the subcategory and drops its id from products.
func (r *SubCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	err := withTx(ctx, r.db, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `DELETE FROM subcategories WHERE id = $1`, id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return models.ErrNotFound
		}
		_, err = tx.Exec(ctx,
			`UPDATE products SET subcategory_ids = array_remove(subcategory_ids, $1), updated_at = NOW()
			 WHERE $1 = ANY(subcategory_ids)`, id)
		return err
	})
	return translateError("delete subcategory", err)
}

package repositories

import (
	"context"

	"storefront/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type CartRepository struct {
	db TxBeginner
}

func NewCartRepository(db TxBeginner) *CartRepository {
	return &CartRepository{db: db}
}

const cartItemSelect = `
	SELECT c.id, c.product_id, c.quantity, c.owner_id, c.owner_type, c.created_at, c.updated_at,
	       p.id, p.name, p.images, p.unit, p.price, p.discount, p.stock
	FROM cart_items c
	JOIN products p ON p.id = c.product_id`

const cartItemReturning = `RETURNING id, product_id, quantity, owner_id, owner_type, created_at, updated_at`

func scanCartItem(row interface{ Scan(...any) error }) (*models.CartItem, error) {
	var item models.CartItem
	var p models.CartProduct
	err := row.Scan(
		&item.ID,
		&item.ProductID,
		&item.Quantity,
		&item.OwnerID,
		&item.OwnerType,
		&item.CreatedAt,
		&item.UpdatedAt,
		&p.ID,
		&p.Name,
		&p.Images,
		&p.Unit,
		&p.Price,
		&p.Discount,
		&p.Stock,
	)
	if err != nil {
		return nil, err
	}
	if p.Images == nil {
		p.Images = []string{}
	}
	p.DiscountedPrice = models.DiscountedPrice(p.Price, p.Discount)
	item.Product = &p
	return &item, nil
}

func scanCartRow(row interface{ Scan(...any) error }) (*models.CartItem, error) {
	var item models.CartItem
	err := row.Scan(&item.ID, &item.ProductID, &item.Quantity, &item.OwnerID, &item.OwnerType, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func findCartItems(ctx context.Context, db DBTX, owner models.Owner, forUpdate bool) ([]models.CartItem, error) {
	query := cartItemSelect + ` WHERE c.owner_id = $1 AND c.owner_type = $2 ORDER BY c.created_at`
	if forUpdate {
		query += ` FOR UPDATE OF c`
	}

	rows, err := db.Query(ctx, query, owner.ID, string(owner.Type))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []models.CartItem{}
	for rows.Next() {
		item, err := scanCartItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

func (r *CartRepository) FindByOwner(ctx context.Context, owner models.Owner) ([]models.CartItem, error) {
	items, err := findCartItems(ctx, r.db, owner, false)
	return items, translateError("list cart items", err)
}

// Add inserts the line or increments its quantity in one statement.
func (r *CartRepository) Add(ctx context.Context, owner models.Owner, productID uuid.UUID, quantity int) (*models.CartItem, error) {
	query := `
		INSERT INTO cart_items (product_id, quantity, owner_id, owner_type)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT ON CONSTRAINT uq_cart_items_owner_product
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity, updated_at = NOW()
		` + cartItemReturning

	item, err := scanCartRow(r.db.QueryRow(ctx, query, productID, quantity, owner.ID, string(owner.Type)))
	if err != nil {
		return nil, translateError("add cart item", err)
	}
	return item, nil
}

func (r *CartRepository) UpdateQuantity(ctx context.Context, owner models.Owner, itemID uuid.UUID, quantity int) (*models.CartItem, error) {
	query := `
		UPDATE cart_items SET quantity = $1, updated_at = NOW()
		WHERE id = $2 AND owner_id = $3 AND owner_type = $4
		` + cartItemReturning

	item, err := scanCartRow(r.db.QueryRow(ctx, query, quantity, itemID, owner.ID, string(owner.Type)))
	if err != nil {
		return nil, translateError("update cart item", err)
	}
	return item, nil
}

func (r *CartRepository) Remove(ctx context.Context, owner models.Owner, itemID uuid.UUID) error {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM cart_items WHERE id = $1 AND owner_id = $2 AND owner_type = $3`,
		itemID, owner.ID, string(owner.Type))
	if err != nil {
		return translateError("remove cart item", err)
	}
	if tag.RowsAffected() == 0 {
		return translateError("remove cart item", models.ErrNotFound)
	}
	return nil
}

// Clear empties the owner's cart and reports how many lines were removed.
func (r *CartRepository) Clear(ctx context.Context, owner models.Owner) (int64, error) {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM cart_items WHERE owner_id = $1 AND owner_type = $2`, owner.ID, string(owner.Type))
	if err != nil {
		return 0, translateError("clear cart", err)
	}
	return tag.RowsAffected(), nil
}

// Merge moves a guest cart into a user cart, summing quantities of
// products present in both.
func (r *CartRepository) Merge(ctx context.Context, guestID string, userID uuid.UUID) error {
	guest := models.GuestOwner(guestID)
	user := models.UserOwner(userID)

	err := withTx(ctx, r.db, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO cart_items (product_id, quantity, owner_id, owner_type)
			SELECT product_id, quantity, $1, $2
			FROM cart_items
			WHERE owner_id = $3 AND owner_type = $4
			ON CONFLICT ON CONSTRAINT uq_cart_items_owner_product
			DO UPDATE SET quantity = LEAST(cart_items.quantity + EXCLUDED.quantity, $5), updated_at = NOW()`,
			user.ID, string(user.Type), guest.ID, string(guest.Type), models.MaxCartQuantity)
		if err != nil {
			return err
		}

		_, err = tx.Exec(ctx,
			`DELETE FROM cart_items WHERE owner_id = $1 AND owner_type = $2`, guest.ID, string(guest.Type))
		return err
	})
	return translateError("merge cart", err)
}

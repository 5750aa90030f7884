package repositories

import (
	"context"
	"time"

	"storefront/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type OrderRepository struct {
	db TxBeginner
}

func NewOrderRepository(db TxBeginner) *OrderRepository {
	return &OrderRepository{db: db}
}

const orderColumns = `id, order_id, payment_id, invoice_receipt, user_id, guest_id, items,
	full_name, email, phone, address, city, country, postal_code,
	payment_status, sub_total_amt, total_amt, created_at, updated_at`

func scanOrder(row interface{ Scan(...any) error }) (*models.Order, error) {
	var o models.Order
	err := row.Scan(
		&o.ID,
		&o.OrderID,
		&o.PaymentID,
		&o.InvoiceReceipt,
		&o.UserID,
		&o.GuestID,
		&o.Items,
		&o.Billing.FullName,
		&o.Billing.Email,
		&o.Billing.Phone,
		&o.Billing.Address,
		&o.Billing.City,
		&o.Billing.Country,
		&o.Billing.PostalCode,
		&o.PaymentStatus,
		&o.SubTotalAmt,
		&o.TotalAmt,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if o.Items == nil {
		o.Items = []models.OrderItem{}
	}
	return &o, nil
}

func insertOrder(ctx context.Context, db DBTX, o *models.Order) error {
	query := `
		INSERT INTO orders (order_id, payment_id, invoice_receipt, user_id, guest_id, items,
		                    full_name, email, phone, address, city, country, postal_code,
		                    payment_status, sub_total_amt, total_amt)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING id, created_at, updated_at
	`
	return db.QueryRow(ctx, query,
		o.OrderID,
		o.PaymentID,
		o.InvoiceReceipt,
		o.UserID,
		o.GuestID,
		o.Items,
		o.Billing.FullName,
		o.Billing.Email,
		o.Billing.Phone,
		o.Billing.Address,
		o.Billing.City,
		o.Billing.Country,
		o.Billing.PostalCode,
		o.PaymentStatus,
		o.SubTotalAmt,
		o.TotalAmt,
	).Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
}

func (r *OrderRepository) Create(ctx context.Context, o *models.Order) error {
	return translateError("create order", insertOrder(ctx, r.db, o))
}

// Checkout locks the owner's cart lines, hands them to build, stores the
// resulting order and removes those lines, all in one transaction.
func (r *OrderRepository) Checkout(ctx context.Context, owner models.Owner, build func([]models.CartItem) (*models.Order, error)) (*models.Order, error) {
	var order *models.Order
	err := withTx(ctx, r.db, func(tx pgx.Tx) error {
		items, err := findCartItems(ctx, tx, owner, true)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return models.ErrEmptyCart
		}

		order, err = build(items)
		if err != nil {
			return err
		}
		if err := insertOrder(ctx, tx, order); err != nil {
			return err
		}

		ids := make([]uuid.UUID, 0, len(items))
		for _, item := range items {
			ids = append(ids, item.ID)
		}
		_, err = tx.Exec(ctx, `DELETE FROM cart_items WHERE id = ANY($1)`, ids)
		return err
	})
	if err != nil {
		return nil, translateError("checkout", err)
	}
	return order, nil
}

func orderWhere(filter models.OrderFilter) *whereBuilder {
	where := &whereBuilder{}
	if filter.UserID != nil {
		where.add("user_id = ?", *filter.UserID)
	}
	if filter.GuestID != "" {
		where.add("guest_id = ?", filter.GuestID)
	}
	if filter.PaymentStatus != "" {
		where.add("payment_status = ?", filter.PaymentStatus)
	}
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		where.add("(order_id ILIKE ? OR email ILIKE ? OR full_name ILIKE ?)", pattern, pattern, pattern)
	}
	if filter.From != nil {
		where.add("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		where.add("created_at < ?", *filter.To)
	}
	return where
}

func (r *OrderRepository) FindAll(ctx context.Context, filter models.OrderFilter) ([]models.Order, int, error) {
	where := orderWhere(filter)

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM orders`+where.sql(), where.args...).Scan(&total); err != nil {
		return nil, 0, translateError("count orders", err)
	}

	query := `SELECT ` + orderColumns + ` FROM orders` + where.sql() +
		` ORDER BY created_at DESC, id LIMIT ` + where.next(filter.Limit) +
		` OFFSET ` + where.next(models.Offset(filter.Page, filter.Limit))

	rows, err := r.db.Query(ctx, query, where.args...)
	if err != nil {
		return nil, 0, translateError("list orders", err)
	}
	defer rows.Close()

	orders := []models.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, 0, translateError("scan order", err)
		}
		orders = append(orders, *o)
	}
	return orders, total, translateError("list orders", rows.Err())
}

func (r *OrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	o, err := scanOrder(r.db.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
	if err != nil {
		return nil, translateError("find order", err)
	}
	return o, nil
}

// FindByOrderID looks an order up by its public order reference.
func (r *OrderRepository) FindByOrderID(ctx context.Context, orderID string) (*models.Order, error) {
	o, err := scanOrder(r.db.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE order_id = $1`, orderID))
	if err != nil {
		return nil, translateError("find order", err)
	}
	return o, nil
}

func (r *OrderRepository) Update(ctx context.Context, o *models.Order) error {
	query := `
		UPDATE orders
		SET payment_status = $1, invoice_receipt = $2,
		    full_name = $3, email = $4, phone = $5, address = $6, city = $7, country = $8, postal_code = $9,
		    updated_at = NOW()
		WHERE id = $10
		RETURNING updated_at
	`
	err := r.db.QueryRow(ctx, query,
		o.PaymentStatus,
		o.InvoiceReceipt,
		o.Billing.FullName,
		o.Billing.Email,
		o.Billing.Phone,
		o.Billing.Address,
		o.Billing.City,
		o.Billing.Country,
		o.Billing.PostalCode,
		o.ID,
	).Scan(&o.UpdatedAt)
	return translateError("update order", err)
}

func (r *OrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return translateError("delete order", err)
	}
	if tag.RowsAffected() == 0 {
		return translateError("delete order", models.ErrNotFound)
	}
	return nil
}

// Stats fills the order part of the dashboard.
func (r *OrderRepository) Stats(ctx context.Context, stats *models.DashboardStats) error {
	query := `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE payment_status = 'Pending'),
		       COALESCE(SUM(total_amt) FILTER (WHERE payment_status = 'Completed'), 0)
		FROM orders
	`
	err := r.db.QueryRow(ctx, query).Scan(&stats.TotalOrders, &stats.PendingOrders, &stats.TotalRevenue)
	return translateError("order stats", err)
}

// Revenue groups completed orders by day, month or year.
func (r *OrderRepository) Revenue(ctx context.Context, period string, from, to *time.Time) ([]models.RevenuePoint, error) {
	where := &whereBuilder{}
	truncate := where.next(period)
	where.add("payment_status = ?", models.PaymentCompleted)
	if from != nil {
		where.add("created_at >= ?", *from)
	}
	if to != nil {
		where.add("created_at < ?", *to)
	}

	query := `
		SELECT date_trunc(` + truncate + `::text, created_at) AS bucket, COUNT(*), COALESCE(SUM(total_amt), 0)
		FROM orders` + where.sql() + `
		GROUP BY bucket
		ORDER BY bucket`

	rows, err := r.db.Query(ctx, query, where.args...)
	if err != nil {
		return nil, translateError("revenue report", err)
	}
	defer rows.Close()

	points := []models.RevenuePoint{}
	for rows.Next() {
		var p models.RevenuePoint
		if err := rows.Scan(&p.Period, &p.Orders, &p.Revenue); err != nil {
			return nil, translateError("scan revenue", err)
		}
		points = append(points, p)
	}
	return points, translateError("revenue report", rows.Err())
}

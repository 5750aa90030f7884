package repositories

import (
	"context"
	"time"

	"storefront/models"

	"github.com/google/uuid"
)

type UserRepository struct {
	db DBTX
}

func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, name, email, password, avatar, mobile, role, status, verify_email,
	last_login_date, refresh_token, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.Password,
		&user.Avatar,
		&user.Mobile,
		&user.Role,
		&user.Status,
		&user.VerifyEmail,
		&user.LastLoginDate,
		&user.RefreshToken,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (name, email, password, avatar, mobile, role, status, verify_email)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query,
		user.Name,
		user.Email,
		user.Password,
		user.Avatar,
		user.Mobile,
		user.Role,
		user.Status,
		user.VerifyEmail,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)

	return translateError("create user", err)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE LOWER(email) = LOWER($1)`
	user, err := scanUser(r.db.QueryRow(ctx, query, email))
	if err != nil {
		return nil, translateError("find user by email", err)
	}
	return user, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	user, err := scanUser(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, translateError("find user by id", err)
	}
	return user, nil
}

func (r *UserRepository) FindAll(ctx context.Context, filter models.UserFilter) ([]models.User, int, error) {
	where := &whereBuilder{}
	if filter.Search != "" {
		where.add("(name ILIKE ? OR email ILIKE ?)", likePattern(filter.Search), likePattern(filter.Search))
	}
	if filter.Role != "" {
		where.add("role = ?", filter.Role)
	}
	if filter.Status != "" {
		where.add("status = ?", filter.Status)
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM users`+where.sql(), where.args...).Scan(&total); err != nil {
		return nil, 0, translateError("count users", err)
	}

	query := `SELECT ` + userColumns + ` FROM users` + where.sql() +
		` ORDER BY created_at DESC LIMIT ` + where.next(filter.Limit) +
		` OFFSET ` + where.next(models.Offset(filter.Page, filter.Limit))

	rows, err := r.db.Query(ctx, query, where.args...)
	if err != nil {
		return nil, 0, translateError("list users", err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, 0, translateError("scan user", err)
		}
		users = append(users, *user)
	}
	return users, total, translateError("list users", rows.Err())
}

func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	query := `
		UPDATE users
		SET name = $1, email = $2, avatar = $3, mobile = $4, role = $5, status = $6,
		    verify_email = $7, updated_at = NOW()
		WHERE id = $8
		RETURNING updated_at
	`
	err := r.db.QueryRow(ctx, query,
		user.Name,
		user.Email,
		user.Avatar,
		user.Mobile,
		user.Role,
		user.Status,
		user.VerifyEmail,
		user.ID,
	).Scan(&user.UpdatedAt)

	return translateError("update user", err)
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id uuid.UUID, hashedPassword string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE users SET password = $1, updated_at = NOW() WHERE id = $2`, hashedPassword, id)
	if err != nil {
		return translateError("update password", err)
	}
	if tag.RowsAffected() == 0 {
		return translateError("update password", models.ErrNotFound)
	}
	return nil
}

func (r *UserRepository) MarkEmailVerified(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE users SET verify_email = TRUE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return translateError("verify email", err)
	}
	if tag.RowsAffected() == 0 {
		return translateError("verify email", models.ErrNotFound)
	}
	return nil
}

// SetRefreshToken stores the token and, when loginAt is set, the login time.
func (r *UserRepository) SetRefreshToken(ctx context.Context, id uuid.UUID, token string, loginAt *time.Time) error {
	query := `
		UPDATE users
		SET refresh_token = $1, last_login_date = COALESCE($2, last_login_date), updated_at = NOW()
		WHERE id = $3
	`
	tag, err := r.db.Exec(ctx, query, token, loginAt, id)
	if err != nil {
		return translateError("set refresh token", err)
	}
	if tag.RowsAffected() == 0 {
		return translateError("set refresh token", models.ErrNotFound)
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return translateError("delete user", err)
	}
	if tag.RowsAffected() == 0 {
		return translateError("delete user", models.ErrNotFound)
	}
	return nil
}

func (r *UserRepository) Count(ctx context.Context) (int, error) {
	var total int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&total)
	return total, translateError("count users", err)
}

// Customers lists USER accounts with their order count and completed spend.
func (r *UserRepository) Customers(ctx context.Context, filter models.UserFilter) ([]models.Customer, int, error) {
	where := &whereBuilder{}
	where.add("u.role = ?", models.RoleUser)
	if filter.Search != "" {
		where.add("(u.name ILIKE ? OR u.email ILIKE ?)", likePattern(filter.Search), likePattern(filter.Search))
	}
	if filter.Status != "" {
		where.add("u.status = ?", filter.Status)
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM users u`+where.sql(), where.args...).Scan(&total); err != nil {
		return nil, 0, translateError("count customers", err)
	}

	query := `
		SELECT u.id, u.name, u.email, u.mobile, u.status, u.created_at,
		       COUNT(o.id) AS order_count,
		       COALESCE(SUM(o.total_amt) FILTER (WHERE o.payment_status = 'Completed'), 0) AS total_spent
		FROM users u
		LEFT JOIN orders o ON o.user_id = u.id` + where.sql() + `
		GROUP BY u.id
		ORDER BY u.created_at DESC
		LIMIT ` + where.next(filter.Limit) + ` OFFSET ` + where.next(models.Offset(filter.Page, filter.Limit))

	rows, err := r.db.Query(ctx, query, where.args...)
	if err != nil {
		return nil, 0, translateError("list customers", err)
	}
	defer rows.Close()

	customers := []models.Customer{}
	for rows.Next() {
		var c models.Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Mobile, &c.Status, &c.CreatedAt, &c.OrderCount, &c.TotalSpent); err != nil {
			return nil, 0, translateError("scan customer", err)
		}
		customers = append(customers, c)
	}
	return customers, total, translateError("list customers", rows.Err())
}

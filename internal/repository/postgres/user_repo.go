package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vikramvicky-1/ttdashboard-sub000/internal/domain"
)

const userColumns = `id::text, name, email, password_hash, role, profile_picture, is_active, created_at, updated_at`

// UserRepository implements domain.UserRepository using PostgreSQL
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func scanUser(row rowScanner) (*domain.User, error) {
	var (
		u    domain.User
		role string
	)
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &role, &u.ProfilePicture, &u.IsActive, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, mapError(err)
	}
	parsed, err := domain.ParseRole(role)
	if err != nil {
		return nil, err
	}
	u.Role = parsed
	return &u, nil
}

// Create inserts a new user
func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (name, email, password_hash, role, profile_picture, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+userColumns,
		user.Name, domain.NormalizeEmail(user.Email), user.PasswordHash, user.Role.String(), user.ProfilePicture, user.IsActive,
	)
	return scanUser(row)
}

// GetByID retrieves a user regardless of its active flag
func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	uid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	return scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, uid))
}

// GetActiveByID retrieves an active user by ID
func (r *UserRepository) GetActiveByID(ctx context.Context, id string) (*domain.User, error) {
	uid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	return scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1 AND is_active`, uid))
}

// GetActiveByEmail retrieves an active user by normalized email
func (r *UserRepository) GetActiveByEmail(ctx context.Context, email string) (*domain.User, error) {
	return scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1 AND is_active`,
		domain.NormalizeEmail(email),
	))
}

// ListActive returns active users ordered by name
func (r *UserRepository) ListActive(ctx context.Context) ([]*domain.User, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+userColumns+` FROM users WHERE is_active ORDER BY name, created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]*domain.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// Update stores the editable fields of a user
func (r *UserRepository) Update(ctx context.Context, user *domain.User) (*domain.User, error) {
	uid, err := parseID(user.ID)
	if err != nil {
		return nil, err
	}
	row := r.pool.QueryRow(ctx, `
		UPDATE users
		SET name = $2, email = $3, password_hash = $4, role = $5, profile_picture = $6, is_active = $7, updated_at = NOW()
		WHERE id = $1
		RETURNING `+userColumns,
		uid, user.Name, domain.NormalizeEmail(user.Email), user.PasswordHash, user.Role.String(), user.ProfilePicture, user.IsActive,
	)
	return scanUser(row)
}

// SetActive flips the active flag of a user
func (r *UserRepository) SetActive(ctx context.Context, id string, active bool) error {
	uid, err := parseID(id)
	if err != nil {
		return err
	}
	return execAffecting(ctx, r.pool, `UPDATE users SET is_active = $2, updated_at = NOW() WHERE id = $1`, uid, active)
}

// Delete permanently removes a user
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	uid, err := parseID(id)
	if err != nil {
		return err
	}
	return execAffecting(ctx, r.pool, `DELETE FROM users WHERE id = $1`, uid)
}

// Count returns the number of stored users
func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

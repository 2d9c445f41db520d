package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nimbus-labs/accounts/internal/platform/httpx"
)

// uniqueViolation is the SQLSTATE raised by the unique index on email.
const uniqueViolation = "23505"

const userColumns = "id, email, hashed_password, full_name, is_active, created_at, updated_at"

// Repository defines persistence operations for user accounts.
type Repository interface {
	Get(ctx context.Context, id int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context, skip, limit int) ([]User, error)
	Create(ctx context.Context, user User) (*User, error)
	Update(ctx context.Context, id int64, changes map[string]any) (*User, error)
	Delete(ctx context.Context, id int64) (*User, error)
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// Get fetches a user by id.
func (r *PGRepository) Get(ctx context.Context, id int64) (*User, error) {
	row := r.pool.QueryRow(ctx, "SELECT "+userColumns+" FROM users WHERE id = $1", id)
	return scanUser(row)
}

// GetByEmail fetches a user by email.
func (r *PGRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	row := r.pool.QueryRow(ctx, "SELECT "+userColumns+" FROM users WHERE email = $1", email)
	return scanUser(row)
}

// List returns users in primary-key order, which is the insertion order.
func (r *PGRepository) List(ctx context.Context, skip, limit int) ([]User, error) {
	rows, err := r.pool.Query(ctx,
		"SELECT "+userColumns+" FROM users ORDER BY id LIMIT $1 OFFSET $2", limit, skip)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *user)
	}
	return result, rows.Err()
}

// Create inserts a new user; id and created_at are assigned by the database.
func (r *PGRepository) Create(ctx context.Context, user User) (*User, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (email, hashed_password, full_name, is_active)
		VALUES ($1, $2, $3, $4)
		RETURNING `+userColumns,
		user.Email, user.HashedPassword, textOrNull(user.FullName), user.IsActive)
	created, err := scanUser(row)
	if err != nil {
		return nil, mapConstraintError(err)
	}
	return created, nil
}

// Update applies the sparse change-set and stamps updated_at.
func (r *PGRepository) Update(ctx context.Context, id int64, changes map[string]any) (*User, error) {
	query := "UPDATE users SET updated_at = NOW()"
	var args []any
	argPos := 1

	if v, ok := changes["email"]; ok {
		query += fmt.Sprintf(", email = $%d", argPos)
		args = append(args, v)
		argPos++
	}
	if v, ok := changes["hashed_password"]; ok {
		query += fmt.Sprintf(", hashed_password = $%d", argPos)
		args = append(args, v)
		argPos++
	}
	if v, ok := changes["full_name"]; ok {
		query += fmt.Sprintf(", full_name = $%d", argPos)
		args = append(args, v)
		argPos++
	}
	if v, ok := changes["is_active"]; ok {
		query += fmt.Sprintf(", is_active = $%d", argPos)
		args = append(args, v)
		argPos++
	}

	query += fmt.Sprintf(" WHERE id = $%d RETURNING %s", argPos, userColumns)
	args = append(args, id)

	updated, err := scanUser(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, mapConstraintError(err)
	}
	return updated, nil
}

// Delete removes the row and returns the pre-delete snapshot.
func (r *PGRepository) Delete(ctx context.Context, id int64) (*User, error) {
	row := r.pool.QueryRow(ctx,
		"DELETE FROM users WHERE id = $1 RETURNING "+userColumns, id)
	return scanUser(row)
}

func scanUser(row pgx.Row) (*User, error) {
	var user User
	var fullName pgtype.Text
	var updatedAt pgtype.Timestamptz
	err := row.Scan(&user.ID, &user.Email, &user.HashedPassword, &fullName,
		&user.IsActive, &user.CreatedAt, &updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: user not found", httpx.ErrNotFound)
		}
		return nil, err
	}
	if fullName.Valid {
		user.FullName = &fullName.String
	}
	if updatedAt.Valid {
		t := updatedAt.Time
		user.UpdatedAt = &t
	}
	return &user, nil
}

func mapConstraintError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%w: email already registered", httpx.ErrDuplicate)
	}
	return err
}

func textOrNull(s *string) pgtype.Text {
	if s == nil {
		return pgtype.Text{}
	}
	return pgtype.Text{String: *s, Valid: true}
}

var _ Repository = (*PGRepository)(nil)

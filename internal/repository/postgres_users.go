package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"parkwatch/internal/domain"
)

// PostgresUsersRepository implements UsersRepository on the users table.
type PostgresUsersRepository struct {
	db *sql.DB
}

func NewPostgresUsersRepository(db *sql.DB) *PostgresUsersRepository {
	return &PostgresUsersRepository{db: db}
}

var _ UsersRepository = (*PostgresUsersRepository)(nil)

const userColumns = `
	user_id::text,
	name,
	phone,
	password_hash,
	role,
	user_type,
	unit_number,
	host_information,
	created_at
`

func scanUser(row interface{ Scan(...any) error }) (*domain.User, error) {
	var user domain.User
	err := row.Scan(
		&user.UserID,
		&user.Name,
		&user.Phone,
		&user.PasswordHash,
		&user.Role,
		&user.UserType,
		&user.UnitNumber,
		&user.HostInformation,
		&user.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *PostgresUsersRepository) CreateUser(ctx context.Context, user *domain.User) (string, error) {
	if user == nil || user.Name == "" || user.Phone == "" {
		return "", fmt.Errorf("name and phone are required")
	}

	query := `
		INSERT INTO users (name, phone, password_hash, role, user_type, unit_number, host_information)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING user_id::text
	`
	var userID string
	err := r.db.QueryRowContext(ctx, query,
		user.Name,
		user.Phone,
		user.PasswordHash,
		user.Role,
		user.UserType,
		user.UnitNumber,
		user.HostInformation,
	).Scan(&userID)
	if err != nil {
		return "", fmt.Errorf("failed to insert user: %w", err)
	}
	return userID, nil
}

func (r *PostgresUsersRepository) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	if userID == "" {
		return nil, domain.ErrNotFound
	}
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE user_id = $1`, userID)
	user, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (r *PostgresUsersRepository) GetUserByPhone(ctx context.Context, phone string) (*domain.User, error) {
	if phone == "" {
		return nil, domain.ErrNotFound
	}
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE phone = $1`, phone)
	user, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by phone: %w", err)
	}
	return user, nil
}

func (r *PostgresUsersRepository) UpdateProfile(ctx context.Context, userID string, name, phone *string, passwordHash []byte) error {
	if userID == "" {
		return fmt.Errorf("user_id is required")
	}

	updates := []string{}
	args := []any{userID}
	argIdx := 2

	if name != nil {
		updates = append(updates, fmt.Sprintf("name = $%d", argIdx))
		args = append(args, *name)
		argIdx++
	}
	if phone != nil {
		updates = append(updates, fmt.Sprintf("phone = $%d", argIdx))
		args = append(args, *phone)
		argIdx++
	}
	if len(passwordHash) > 0 {
		updates = append(updates, fmt.Sprintf("password_hash = $%d", argIdx))
		args = append(args, passwordHash)
		argIdx++
	}
	if len(updates) == 0 {
		return nil
	}

	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET `+strings.Join(updates, ", ")+` WHERE user_id = $1`, args...)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

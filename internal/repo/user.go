package repo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Ramish-fuh/Inventory-sub000/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// ==========================
// UserRepo
// ==========================
type UserRepo struct {
	DB *sql.DB
}

// ==========================
// Constructor
// ==========================
func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{DB: db}
}

// ==========================
// Create User (password optional, stored as bcrypt hash)
// ==========================
func (r *UserRepo) Create(ctx context.Context, username, email, password, role string) (*models.User, error) {
	var hash interface{}
	if password != "" {
		h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		hash = string(h)
	}

	user := &models.User{}
	err := r.DB.QueryRowContext(ctx, `
		INSERT INTO users (username, email, password_hash, role)
		VALUES ($1, $2, $3, $4)
		RETURNING id, username, email, role
	`, username, email, hash, role).
		Scan(&user.ID, &user.Username, &user.Email, &user.Role)
	if err != nil {
		return nil, err
	}

	return user, nil
}

// ==========================
// Get By ID
// ==========================
func (r *UserRepo) GetByID(ctx context.Context, id int) (*models.User, error) {
	user := &models.User{}
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, username, email, COALESCE(password_hash, ''), role
		FROM users
		WHERE id = $1
	`, id).
		Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.Role)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return user, nil
}

// ==========================
// Get By Username
// ==========================
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	user := &models.User{}
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, username, email, COALESCE(password_hash, ''), role
		FROM users
		WHERE username = $1
	`, username).
		Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.Role)
	if err != nil {
		return nil, err
	}

	return user, nil
}

// ==========================
// Find By Role (notifier audience resolution)
// ==========================
func (r *UserRepo) FindByRole(ctx context.Context, role string) ([]models.User, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, username, email, role
		FROM users
		WHERE role = $1
		ORDER BY id
	`, role)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.Role); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// ==========================
// Update User
// ==========================
func (r *UserRepo) Update(ctx context.Context, id int, username, email, role string) (*models.User, error) {
	user := &models.User{}
	err := r.DB.QueryRowContext(ctx, `
		UPDATE users
		SET username = $1, email = $2, role = $3
		WHERE id = $4
		RETURNING id, username, email, role
	`, username, email, role, id).
		Scan(&user.ID, &user.Username, &user.Email, &user.Role)
	if err != nil {
		return nil, err
	}

	return user, nil
}

// ==========================
// Delete User
// ==========================
func (r *UserRepo) Delete(ctx context.Context, id int) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return errors.New("user not found")
	}

	return nil
}

// ==========================
// List Users
// ==========================
func (r *UserRepo) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, username, email, role FROM users ORDER BY id LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.Role); err != nil {
			return nil, err
		}
		users = append(users, u)
	}

	return users, rows.Err()
}

// ==========================
// Count
// ==========================
func (r *UserRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n)
	return n, err
}

package repositories

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"ghostsapi/internal/models"
)

// ErrDuplicateEmail is returned by Create when the unique email constraint
// fires. The constraint, not the pre-check, is what makes concurrent
// registrations with the same email safe.
var ErrDuplicateEmail = errors.New("email already registered")

type UserRepository interface {
	Create(user *models.User) error
	GetByID(id int) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	List(limit, offset int) ([]*models.User, error)
	Update(user *models.User) error
	UpdatePassword(userID int, passwordHash string) error
	SetVerified(userID int) error
	Delete(id int) error

	// WithTx rebinds the repository onto an open transaction.
	WithTx(tx *sql.Tx) UserRepository
}

type userRepository struct {
	db DBTX
}

func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) WithTx(tx *sql.Tx) UserRepository {
	return &userRepository{db: tx}
}

func (r *userRepository) Create(user *models.User) error {
	const q = `
		INSERT INTO users (email, password_hash, firstname, lastname, phone, role, is_verified)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`
	err := r.db.QueryRow(q,
		user.Email,
		user.PasswordHash,
		user.Firstname,
		user.Lastname,
		user.Phone,
		user.Role,
		user.IsVerified,
	).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" { // unique_violation
			return ErrDuplicateEmail
		}
		return fmt.Errorf("user create: %w", err)
	}
	return nil
}

const userColumns = `
	id, email, password_hash, firstname, lastname, phone, role, is_verified, created_at, updated_at
`

func scanUser(row *sql.Row) (*models.User, error) {
	u := &models.User{}
	var updatedAt sql.NullTime
	err := row.Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.Firstname, &u.Lastname,
		&u.Phone, &u.Role, &u.IsVerified, &u.CreatedAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("user scan: %w", err)
	}
	if updatedAt.Valid {
		t := updatedAt.Time
		u.UpdatedAt = &t
	}
	return u, nil
}

func (r *userRepository) GetByID(id int) (*models.User, error) {
	const q = `SELECT` + userColumns + `FROM users WHERE id = $1`
	return scanUser(r.db.QueryRow(q, id))
}

func (r *userRepository) GetByEmail(email string) (*models.User, error) {
	const q = `SELECT` + userColumns + `FROM users WHERE email = $1`
	return scanUser(r.db.QueryRow(q, email))
}

func (r *userRepository) List(limit, offset int) ([]*models.User, error) {
	const q = `SELECT` + userColumns + `FROM users ORDER BY id LIMIT $1 OFFSET $2`
	rows, err := r.db.Query(q, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("user list: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		u := &models.User{}
		var updatedAt sql.NullTime
		if err := rows.Scan(
			&u.ID, &u.Email, &u.PasswordHash, &u.Firstname, &u.Lastname,
			&u.Phone, &u.Role, &u.IsVerified, &u.CreatedAt, &updatedAt,
		); err != nil {
			return nil, fmt.Errorf("user list scan: %w", err)
		}
		if updatedAt.Valid {
			t := updatedAt.Time
			u.UpdatedAt = &t
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *userRepository) Update(user *models.User) error {
	const q = `
		UPDATE users
		SET firstname = $1, lastname = $2, phone = $3, role = $4, updated_at = NOW()
		WHERE id = $5
	`
	if _, err := r.db.Exec(q, user.Firstname, user.Lastname, user.Phone, user.Role, user.ID); err != nil {
		return fmt.Errorf("user update: %w", err)
	}
	return nil
}

func (r *userRepository) UpdatePassword(userID int, passwordHash string) error {
	const q = `UPDATE users SET password_hash = $1, updated_at = NOW() WHERE id = $2`
	if _, err := r.db.Exec(q, passwordHash, userID); err != nil {
		return fmt.Errorf("user update password: %w", err)
	}
	return nil
}

func (r *userRepository) SetVerified(userID int) error {
	const q = `UPDATE users SET is_verified = TRUE, updated_at = NOW() WHERE id = $1`
	if _, err := r.db.Exec(q, userID); err != nil {
		return fmt.Errorf("user set verified: %w", err)
	}
	return nil
}

func (r *userRepository) Delete(id int) error {
	if _, err := r.db.Exec(`DELETE FROM users WHERE id = $1`, id); err != nil {
		return fmt.Errorf("user delete: %w", err)
	}
	return nil
}

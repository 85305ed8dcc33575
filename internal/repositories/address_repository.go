package repositories

import (
	"database/sql"
	"errors"
	"fmt"

	"ghostsapi/internal/models"
)

type AddressRepository interface {
	Create(a *models.Address) error
	GetByID(id int) (*models.Address, error)
	ListByUserID(userID int) ([]*models.Address, error)
	Update(a *models.Address) error
	Delete(id int) error
}

type addressRepository struct {
	db DBTX
}

func NewAddressRepository(db *sql.DB) AddressRepository {
	return &addressRepository{db: db}
}

func (r *addressRepository) Create(a *models.Address) error {
	const q = `
		INSERT INTO addresses (user_id, street, city, state, zip_code, country)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	err := r.db.QueryRow(q, a.UserID, a.Street, a.City, a.State, a.ZipCode, a.Country).Scan(&a.ID)
	if err != nil {
		return fmt.Errorf("address create: %w", err)
	}
	return nil
}

func (r *addressRepository) GetByID(id int) (*models.Address, error) {
	const q = `
		SELECT id, user_id, street, city, COALESCE(state,''), COALESCE(zip_code,''), COALESCE(country,'')
		FROM addresses
		WHERE id = $1
	`
	a := &models.Address{}
	err := r.db.QueryRow(q, id).Scan(&a.ID, &a.UserID, &a.Street, &a.City, &a.State, &a.ZipCode, &a.Country)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("address get: %w", err)
	}
	return a, nil
}

func (r *addressRepository) ListByUserID(userID int) ([]*models.Address, error) {
	const q = `
		SELECT id, user_id, street, city, COALESCE(state,''), COALESCE(zip_code,''), COALESCE(country,'')
		FROM addresses
		WHERE user_id = $1
		ORDER BY id
	`
	rows, err := r.db.Query(q, userID)
	if err != nil {
		return nil, fmt.Errorf("address list: %w", err)
	}
	defer rows.Close()

	var out []*models.Address
	for rows.Next() {
		a := &models.Address{}
		if err := rows.Scan(&a.ID, &a.UserID, &a.Street, &a.City, &a.State, &a.ZipCode, &a.Country); err != nil {
			return nil, fmt.Errorf("address list scan: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *addressRepository) Update(a *models.Address) error {
	const q = `
		UPDATE addresses
		SET street = $1, city = $2, state = $3, zip_code = $4, country = $5
		WHERE id = $6
	`
	if _, err := r.db.Exec(q, a.Street, a.City, a.State, a.ZipCode, a.Country, a.ID); err != nil {
		return fmt.Errorf("address update: %w", err)
	}
	return nil
}

func (r *addressRepository) Delete(id int) error {
	if _, err := r.db.Exec(`DELETE FROM addresses WHERE id = $1`, id); err != nil {
		return fmt.Errorf("address delete: %w", err)
	}
	return nil
}

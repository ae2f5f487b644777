package pg

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/mdrrmo/bantay-api/internal/domain"
	internal_errors "github.com/mdrrmo/bantay-api/internal/errors"
)

const userColumns = `id, name, email, phone, password_hash,
	email_verified, phone_verified,
	full_address, barangay, city, zone, latitude, longitude,
	created_at, updated_at`

// SaveUser inserts a new unverified user. Duplicate email or phone surfaces
// as a Conflict error carrying a field-specific message, derived from the
// violated unique index rather than a racy pre-check.
func (s *Storage) SaveUser(user domain.User) (domain.UserId, error) {
	var id domain.UserId
	err := s.withTx(func(tx *sql.Tx) error {
		return tx.QueryRow(
			"INSERT INTO users(name, email, phone, password_hash) VALUES($1, $2, $3, $4) RETURNING id",
			user.Name, user.Email, user.Phone, user.PassHash,
		).Scan(&id)
	})
	if err != nil {
		if conflict := conflictFor(err); conflict != nil {
			return 0, conflict
		}
		return 0, fmt.Errorf("failed to insert user: %w", err)
	}
	return id, nil
}

func conflictFor(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) || pqErr.Code.Name() != "unique_violation" {
		return nil
	}
	switch pqErr.Constraint {
	case "users_email_key":
		return internal_errors.Conflict("Email already exists.")
	case "users_phone_key":
		return internal_errors.Conflict("Phone number already exists.")
	default:
		return internal_errors.Conflict("Account already exists.")
	}
}

func (s *Storage) UserByEmail(email string) (domain.User, error) {
	return s.scanUser(s.db.QueryRow(
		"SELECT "+userColumns+" FROM users WHERE LOWER(email) = LOWER($1)", email))
}

func (s *Storage) UserByID(id domain.UserId) (domain.User, error) {
	return s.scanUser(s.db.QueryRow(
		"SELECT "+userColumns+" FROM users WHERE id = $1", id))
}

func (s *Storage) scanUser(row *sql.Row) (domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.Id, &u.Name, &u.Email, &u.Phone, &u.PassHash,
		&u.EmailVerified, &u.PhoneVerified,
		&u.Address.FullAddress, &u.Address.Barangay, &u.Address.City,
		&u.Address.Zone, &u.Address.Latitude, &u.Address.Longitude,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, internal_errors.NotFound("User not found.")
		}
		return domain.User{}, fmt.Errorf("failed to query user: %w", err)
	}
	return u, nil
}

func (s *Storage) EmailExists(email string) (bool, error) {
	var exists bool
	err := s.db.QueryRow(
		"SELECT EXISTS(SELECT 1 FROM users WHERE LOWER(email) = LOWER($1))", email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check email existence: %w", err)
	}
	return exists, nil
}

func (s *Storage) PhoneExists(phone string) (bool, error) {
	var exists bool
	err := s.db.QueryRow(
		"SELECT EXISTS(SELECT 1 FROM users WHERE phone = $1)", phone).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check phone existence: %w", err)
	}
	return exists, nil
}

// UpdateAddress replaces the address/zone fields of an existing user.
func (s *Storage) UpdateAddress(id domain.UserId, addr domain.Address) error {
	return s.withTx(func(tx *sql.Tx) error {
		result, err := tx.Exec(`
			UPDATE users
			SET full_address = $1, barangay = $2, city = $3, zone = $4,
			    latitude = $5, longitude = $6, updated_at = NOW()
			WHERE id = $7`,
			addr.FullAddress, addr.Barangay, addr.City, addr.Zone,
			addr.Latitude, addr.Longitude, id,
		)
		if err != nil {
			return fmt.Errorf("failed to update address: %w", err)
		}
		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to check affected rows for address update: %w", err)
		}
		if rowsAffected == 0 {
			return internal_errors.NotFound("User not found.")
		}
		return nil
	})
}

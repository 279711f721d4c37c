package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/avelarq/userbase-be/internal/models"
)

// ErrNotFound is returned when no record exists for the requested id.
var ErrNotFound = errors.New("user not found")

// ErrDuplicateEmail is returned when a write would violate the unique email
// constraint.
var ErrDuplicateEmail = errors.New("email already exists")

// UserRepositoryProvider defines the storage boundary for user records.
type UserRepositoryProvider interface {
	FindByID(id int64) (models.User, error)
	FindAll() ([]models.User, error)
	Insert(user *models.User) error
	Update(user models.User) error
	Delete(id int64) error
}

// UserRepository provides CRUD access to the users table.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// scanUser scans a user from a row or rows object.
func scanUser(scanner interface{ Scan(...interface{}) error }) (models.User, error) {
	var user models.User
	var image sql.NullString
	var createdAt string

	err := scanner.Scan(&user.ID, &user.FirstName, &user.LastName, &user.Email, &user.PasswordHash, &image, &createdAt)
	if err != nil {
		return user, err
	}

	if image.Valid {
		user.Image = &image.String
	}
	user.CreatedAt, err = parseCreatedAt(createdAt)
	if err != nil {
		return user, err
	}
	return user, nil
}

// parseCreatedAt accepts the format this repository writes (RFC3339) as well
// as SQLite's own datetime text, which the schema's CURRENT_TIMESTAMP
// default produces for rows inserted outside the repository.
func parseCreatedAt(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02 15:04:05", value); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("unrecognized created_at value %q", value)
}

// FindByID retrieves a single user by their ID.
func (r *UserRepository) FindByID(id int64) (models.User, error) {
	row := r.db.QueryRow("SELECT id, first_name, last_name, email, password_hash, image, created_at FROM users WHERE id = ?", id)
	user, err := scanUser(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.User{}, ErrNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

// FindAll retrieves every user, in insertion order.
func (r *UserRepository) FindAll() ([]models.User, error) {
	rows, err := r.db.Query("SELECT id, first_name, last_name, email, password_hash, image, created_at FROM users ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// Insert adds a new user and assigns its storage-generated ID.
func (r *UserRepository) Insert(user *models.User) error {
	user.CreatedAt = time.Now().UTC().Truncate(time.Second)

	stmt, err := r.db.Prepare("INSERT INTO users(first_name, last_name, email, password_hash, image, created_at) VALUES(?, ?, ?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	res, err := stmt.Exec(user.FirstName, user.LastName, user.Email, user.PasswordHash, nullableImage(user.Image), user.CreatedAt.Format(time.RFC3339))
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		return err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	user.ID = id
	return nil
}

// Update overwrites the mutable fields of an existing user.
func (r *UserRepository) Update(user models.User) error {
	res, err := r.db.Exec(
		"UPDATE users SET first_name = ?, last_name = ?, email = ?, password_hash = ?, image = ? WHERE id = ?",
		user.FirstName, user.LastName, user.Email, user.PasswordHash, nullableImage(user.Image), user.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a user from the database.
func (r *UserRepository) Delete(id int64) error {
	res, err := r.db.Exec("DELETE FROM users WHERE id = ?", id)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func nullableImage(image *string) sql.NullString {
	if image == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *image, Valid: true}
}

// isUniqueViolation matches SQLite's unique constraint error. The driver's
// error text is the stable part of its surface here.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"

	"github.com/tyrecheck/tyrecheck-go/internal/model"
)

// mysqlDuplicateEntry is the server error number for a unique key violation.
const mysqlDuplicateEntry = 1062

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrDuplicateUser = errors.New("username already exists")
)

// UserRepository handles user persistence operations.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user and sets the generated ID on the user struct.
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	query := `INSERT INTO users (name, password) VALUES (?, ?)`

	result, err := r.db.ExecContext(ctx, query, user.Name, user.PasswordHash)
	if err != nil {
		if isDuplicateEntryError(err) {
			return ErrDuplicateUser
		}
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}

	user.ID = id
	return nil
}

// GetByName retrieves a user by their unique name.
func (r *UserRepository) GetByName(ctx context.Context, name string) (*model.User, error) {
	query := `SELECT id, name, password FROM users WHERE name = ? LIMIT 1`

	user := &model.User{}
	var hash sql.NullString
	err := r.db.QueryRowContext(ctx, query, name).Scan(&user.ID, &user.Name, &hash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	user.PasswordHash = hash.String

	return user, nil
}

// isDuplicateEntryError checks if a MySQL error is a duplicate entry error (code 1062).
func isDuplicateEntryError(err error) bool {
	var myErr *mysql.MySQLError
	return errors.As(err, &myErr) && myErr.Number == mysqlDuplicateEntry
}

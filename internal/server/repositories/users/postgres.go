package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dmitrijs2005/datingapp/internal/common"
	"github.com/dmitrijs2005/datingapp/internal/dbx"
	"github.com/dmitrijs2005/datingapp/internal/server/models"
)

const uniqueViolation = "23505"

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const userColumns = `id, username, password_hash, password_salt, known_as, date_of_birth,
		gender, introduction, looking_for, interests, city, country, created_at, last_active_at`

func scanUser(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	var dob sql.NullTime
	err := row.Scan(&user.ID, &user.UserName, &user.PasswordHash, &user.PasswordSalt,
		&user.KnownAs, &dob, &user.Gender, &user.Introduction, &user.LookingFor,
		&user.Interests, &user.City, &user.Country, &user.CreatedAt, &user.LastActiveAt)
	if err != nil {
		return nil, err
	}
	if dob.Valid {
		user.DateOfBirth = dob.Time
	}
	return user, nil
}

// Create inserts the user. A unique-index violation on the username is
// reported as common.ErrDuplicateUsername; this is the backstop for the
// non-atomic exists-then-insert done by the registration flow.
func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {

	query :=
		`INSERT INTO users (username, password_hash, password_salt, known_as, date_of_birth, gender, city, country)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id, created_at, last_active_at
		 `

	var dob sql.NullTime
	if !user.DateOfBirth.IsZero() {
		dob = sql.NullTime{Time: user.DateOfBirth, Valid: true}
	}

	err := r.db.QueryRowContext(ctx, query,
		user.UserName, user.PasswordHash, user.PasswordSalt, user.KnownAs,
		dob, user.Gender, user.City, user.Country).
		Scan(&user.ID, &user.CreatedAt, &user.LastActiveAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, common.ErrDuplicateUsername
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

// GetByUsername matches the username case-insensitively.
func (r *PostgresRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users
		 WHERE LOWER(username) = LOWER($1)
		 `

	user, err := scanUser(r.db.QueryRowContext(ctx, query, username))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users
		 WHERE id = $1
		 `

	user, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

// Exists reports whether a user with this username exists, case-insensitively.
func (r *PostgresRepository) Exists(ctx context.Context, username string) (bool, error) {
	query :=
		`SELECT EXISTS (SELECT 1 FROM users WHERE LOWER(username) = LOWER($1))
		 `

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, username).Scan(&exists); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}

	return exists, nil
}

// UpdateProfile persists the editable profile fields. Credentials and
// username are immutable here.
func (r *PostgresRepository) UpdateProfile(ctx context.Context, user *models.User) error {
	query :=
		`UPDATE users
		 SET known_as = $1, introduction = $2, looking_for = $3, interests = $4, city = $5, country = $6
		 WHERE id = $7
		 `

	res, err := r.db.ExecContext(ctx, query,
		user.KnownAs, user.Introduction, user.LookingFor, user.Interests,
		user.City, user.Country, user.ID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return common.ErrorNotFound
	}

	return nil
}

func (r *PostgresRepository) TouchLastActive(ctx context.Context, id string) error {
	query :=
		`UPDATE users SET last_active_at = now()
		 WHERE id = $1
		 `

	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

// List returns a page of members ordered by most recent activity.
func (r *PostgresRepository) List(ctx context.Context, offset, limit int) ([]*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users
		 ORDER BY last_active_at DESC
		 OFFSET $1 LIMIT $2
		 `

	rows, err := r.db.QueryContext(ctx, query, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.User
	for rows.Next() {
		user := &models.User{}
		var dob sql.NullTime
		err := rows.Scan(&user.ID, &user.UserName, &user.PasswordHash, &user.PasswordSalt,
			&user.KnownAs, &dob, &user.Gender, &user.Introduction, &user.LookingFor,
			&user.Interests, &user.City, &user.Country, &user.CreatedAt, &user.LastActiveAt)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		if dob.Valid {
			user.DateOfBirth = dob.Time
		}
		result = append(result, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM users`).Scan(&count); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return count, nil
}

package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type userRepositoryImpl struct {
	db *database.DB
}

func NewUserRepository(db *database.DB) user.UserRepository {
	return &userRepositoryImpl{db: db}
}

const userSelect = `
	SELECT id, email, password_hash, google_id, role, employee_id, company_id
	FROM users`

func scanUser(row pgx.Row) (user.User, error) {
	var (
		u       user.User
		rawRole string
	)
	if err := row.Scan(
		&u.ID,
		&u.Email,
		&u.PasswordHash,
		&u.GoogleID,
		&rawRole,
		&u.EmployeeID,
		&u.CompanyID,
	); err != nil {
		return user.User{}, err
	}

	// Unknown roles are kept verbatim and rejected when a token is issued.
	if role, err := user.ParseRole(rawRole); err == nil {
		u.Role = role
	} else {
		u.Role = user.Role(rawRole)
	}
	return u, nil
}

// GetByEmail implements user.UserRepository.
func (r *userRepositoryImpl) GetByEmail(ctx context.Context, email string) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	u, err := scanUser(q.QueryRow(ctx, userSelect+`
		WHERE LOWER(email) = LOWER($1) AND deleted_at IS NULL
	`, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrUserNotFound
		}
		return user.User{}, fmt.Errorf("failed to get user by email: %w", err)
	}
	return u, nil
}

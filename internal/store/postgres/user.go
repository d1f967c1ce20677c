package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/gosuda/bilemo/internal/domain"
)

type UserRepo struct {
	db dbtx
}

func NewUserRepo(db dbtx) *UserRepo {
	return &UserRepo{db: db}
}

const userColumns = `u.id, u.client_id, u.name, u.email, u.password_hash, u.created_at,
		c.id, c.name, c.email`

// Create inserts u and sets its ID. A client_id that does not reference an
// existing client yields domain.ErrNotFound.
func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO users (client_id, name, email, password_hash, created_at)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		u.ClientID, u.Name, u.Email, nilIfEmpty(u.PasswordHash), u.CreatedAt,
	).Scan(&u.ID)
	if err != nil {
		return fmt.Errorf("userRepo.Create: %w", mapWriteErr(err))
	}

	return nil
}

func (r *UserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx,
		`SELECT `+userColumns+`
		 FROM users u JOIN clients c ON c.id = u.client_id
		 WHERE u.id = $1`,
		id,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("userRepo.GetByID: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("userRepo.GetByID: %w", err)
	}

	return u, nil
}

// ListPage returns one page of users ordered by id, restricted to scope.
func (r *UserRepo) ListPage(ctx context.Context, scope domain.Scope, page domain.Page) ([]*domain.User, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if scope.Unrestricted {
		rows, err = r.db.Query(ctx,
			`SELECT `+userColumns+`
			 FROM users u JOIN clients c ON c.id = u.client_id
			 ORDER BY u.id
			 LIMIT $1 OFFSET $2`,
			page.Limit, page.Offset(),
		)
	} else {
		rows, err = r.db.Query(ctx,
			`SELECT `+userColumns+`
			 FROM users u JOIN clients c ON c.id = u.client_id
			 WHERE u.client_id = $3
			 ORDER BY u.id
			 LIMIT $1 OFFSET $2`,
			page.Limit, page.Offset(), scope.ClientID,
		)
	}
	if err != nil {
		return nil, fmt.Errorf("userRepo.ListPage: %w", err)
	}
	defer rows.Close()

	users := make([]*domain.User, 0, page.Limit)
	for rows.Next() {
		u, scanErr := scanUser(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("userRepo.ListPage: scan: %w", scanErr)
		}
		users = append(users, u)
	}
	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("userRepo.ListPage: rows: %w", err)
	}

	return users, nil
}

func (r *UserRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("userRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("userRepo.Delete: %w", domain.ErrNotFound)
	}

	return nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var (
		u            domain.User
		c            domain.ClientSummary
		passwordHash *string
	)

	err := row.Scan(&u.ID, &u.ClientID, &u.Name, &u.Email, &passwordHash, &u.CreatedAt,
		&c.ID, &c.Name, &c.Email)
	if err != nil {
		return nil, err
	}

	u.PasswordHash = derefStr(passwordHash)
	u.Client = &c

	return &u, nil
}

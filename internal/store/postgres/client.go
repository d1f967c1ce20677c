package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/gosuda/bilemo/internal/domain"
)

type ClientRepo struct {
	db dbtx
}

func NewClientRepo(db dbtx) *ClientRepo {
	return &ClientRepo{db: db}
}

func (r *ClientRepo) Create(ctx context.Context, c *domain.Client) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO clients (name, email, password_hash, roles, created_at)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		c.Name, c.Email, c.PasswordHash, c.Roles, c.CreatedAt,
	).Scan(&c.ID)
	if err != nil {
		return fmt.Errorf("clientRepo.Create: %w", mapWriteErr(err))
	}

	return nil
}

func (r *ClientRepo) GetByID(ctx context.Context, id int64) (*domain.Client, error) {
	var c domain.Client

	err := r.db.QueryRow(ctx,
		`SELECT id, name, email, password_hash, roles, created_at
		 FROM clients WHERE id = $1`,
		id,
	).Scan(&c.ID, &c.Name, &c.Email, &c.PasswordHash, &c.Roles, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("clientRepo.GetByID: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("clientRepo.GetByID: %w", err)
	}

	users, err := r.usersOf(ctx, []int64{c.ID})
	if err != nil {
		return nil, fmt.Errorf("clientRepo.GetByID: %w", err)
	}
	c.Users = nonNil(users[c.ID])

	return &c, nil
}

func (r *ClientRepo) GetByEmail(ctx context.Context, email string) (*domain.Client, error) {
	var c domain.Client

	err := r.db.QueryRow(ctx,
		`SELECT id, name, email, password_hash, roles, created_at
		 FROM clients WHERE email = $1`,
		email,
	).Scan(&c.ID, &c.Name, &c.Email, &c.PasswordHash, &c.Roles, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("clientRepo.GetByEmail: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("clientRepo.GetByEmail: %w", err)
	}

	return &c, nil
}

// ListPage returns one page of clients ordered by id, each with its users.
func (r *ClientRepo) ListPage(ctx context.Context, page domain.Page) ([]*domain.Client, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, name, email, password_hash, roles, created_at
		 FROM clients ORDER BY id
		 LIMIT $1 OFFSET $2`,
		page.Limit, page.Offset(),
	)
	if err != nil {
		return nil, fmt.Errorf("clientRepo.ListPage: %w", err)
	}
	defer rows.Close()

	clients := make([]*domain.Client, 0, page.Limit)
	ids := make([]int64, 0, page.Limit)
	for rows.Next() {
		var c domain.Client

		err = rows.Scan(&c.ID, &c.Name, &c.Email, &c.PasswordHash, &c.Roles, &c.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("clientRepo.ListPage: scan: %w", err)
		}
		clients = append(clients, &c)
		ids = append(ids, c.ID)
	}
	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("clientRepo.ListPage: rows: %w", err)
	}

	if len(ids) == 0 {
		return clients, nil
	}

	users, err := r.usersOf(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("clientRepo.ListPage: %w", err)
	}
	for _, c := range clients {
		c.Users = nonNil(users[c.ID])
	}

	return clients, nil
}

// usersOf loads the users of the given clients in one query, grouped by
// client id.
func (r *ClientRepo) usersOf(ctx context.Context, clientIDs []int64) (map[int64][]*domain.UserSummary, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, client_id, name, email
		 FROM users WHERE client_id = ANY($1) ORDER BY id`,
		clientIDs,
	)
	if err != nil {
		return nil, fmt.Errorf("users: %w", err)
	}
	defer rows.Close()

	byClient := make(map[int64][]*domain.UserSummary, len(clientIDs))
	for rows.Next() {
		var u domain.UserSummary

		err = rows.Scan(&u.ID, &u.ClientID, &u.Name, &u.Email)
		if err != nil {
			return nil, fmt.Errorf("users: scan: %w", err)
		}
		byClient[u.ClientID] = append(byClient[u.ClientID], &u)
	}
	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("users: rows: %w", err)
	}

	return byClient, nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

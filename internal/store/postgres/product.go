package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/gosuda/bilemo/internal/domain"
)

type ProductRepo struct {
	db dbtx
}

func NewProductRepo(db dbtx) *ProductRepo {
	return &ProductRepo{db: db}
}

func (r *ProductRepo) Create(ctx context.Context, p *domain.Product) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO products (name, description, price, created_at)
		 VALUES ($1, $2, $3::numeric, $4)
		 RETURNING id`,
		p.Name, p.Description, p.Price, p.CreatedAt,
	).Scan(&p.ID)
	if err != nil {
		return fmt.Errorf("productRepo.Create: %w", mapWriteErr(err))
	}

	return nil
}

func (r *ProductRepo) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	var p domain.Product

	err := r.db.QueryRow(ctx,
		`SELECT id, name, description, price::text, created_at
		 FROM products WHERE id = $1`,
		id,
	).Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("productRepo.GetByID: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("productRepo.GetByID: %w", err)
	}

	return &p, nil
}

func (r *ProductRepo) ListPage(ctx context.Context, page domain.Page) ([]*domain.Product, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, name, description, price::text, created_at
		 FROM products ORDER BY id
		 LIMIT $1 OFFSET $2`,
		page.Limit, page.Offset(),
	)
	if err != nil {
		return nil, fmt.Errorf("productRepo.ListPage: %w", err)
	}
	defer rows.Close()

	products := make([]*domain.Product, 0, page.Limit)
	for rows.Next() {
		var p domain.Product

		err = rows.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("productRepo.ListPage: scan: %w", err)
		}
		products = append(products, &p)
	}
	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("productRepo.ListPage: rows: %w", err)
	}

	return products, nil
}

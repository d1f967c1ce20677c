package domain

import (
	"context"
	"time"
)

type Product struct {
	ID          int64
	Name        string
	Description string
	Price       string // NUMERIC(10,2) rendered as text, e.g. "15.99"
	CreatedAt   time.Time
}

type ProductRepository interface {
	Create(ctx context.Context, p *Product) error
	GetByID(ctx context.Context, id int64) (*Product, error)
	ListPage(ctx context.Context, page Page) ([]*Product, error)
}

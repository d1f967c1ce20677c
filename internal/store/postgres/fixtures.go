package postgres

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/gosuda/bilemo/internal/domain"
)

// Fixture sizes loaded by `bilemo seed`.
const (
	FixtureClients  = 10
	FixtureUsers    = 20
	FixtureProducts = 20
	FixturePrice    = "15.99"
)

// FixtureUser is a seeded user waiting for its client to be inserted.
type FixtureUser struct {
	User        *domain.User
	ClientIndex int // index into FixtureSet.Clients
}

// FixtureSet is the demo data set. Clients log in with
// exemple{i}@gmail.com / exemple{i}.
type FixtureSet struct {
	Clients  []*domain.Client
	Users    []FixtureUser
	Products []*domain.Product
}

// BuildFixtures creates the demo data set without touching the database.
// hash turns a clear-text password into the stored hash; rng picks each
// user's client.
func BuildFixtures(rng *rand.Rand, hash func(string) (string, error), now time.Time) (*FixtureSet, error) {
	set := &FixtureSet{
		Clients:  make([]*domain.Client, 0, FixtureClients),
		Users:    make([]FixtureUser, 0, FixtureUsers),
		Products: make([]*domain.Product, 0, FixtureProducts),
	}

	for i := 1; i <= FixtureClients; i++ {
		n := strconv.Itoa(i)
		pw, err := hash("exemple" + n)
		if err != nil {
			return nil, fmt.Errorf("postgres.BuildFixtures: %w", err)
		}
		set.Clients = append(set.Clients, &domain.Client{
			Name:         "Client " + n,
			Email:        "exemple" + n + "@gmail.com",
			PasswordHash: pw,
			Roles:        []string{domain.RoleClient},
			CreatedAt:    now,
		})
	}

	for i := 1; i <= FixtureUsers; i++ {
		n := strconv.Itoa(i)
		set.Users = append(set.Users, FixtureUser{
			User: &domain.User{
				Name:      "User " + n,
				Email:     "exemple" + n + "@gmail.com",
				CreatedAt: now,
			},
			ClientIndex: rng.IntN(FixtureClients),
		})
	}

	for i := 1; i <= FixtureProducts; i++ {
		n := strconv.Itoa(i)
		set.Products = append(set.Products, &domain.Product{
			Name:        "Mobile de série " + n,
			Description: "Super mobile de série " + n,
			Price:       FixturePrice,
			CreatedAt:   now,
		})
	}

	return set, nil
}

// Seed inserts set in a single transaction.
func (s *Store) Seed(ctx context.Context, set *FixtureSet) error {
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		clients := NewClientRepo(tx)
		users := NewUserRepo(tx)
		products := NewProductRepo(tx)

		for _, c := range set.Clients {
			if err := clients.Create(ctx, c); err != nil {
				return err
			}
		}
		for _, fu := range set.Users {
			fu.User.ClientID = set.Clients[fu.ClientIndex].ID
			if err := users.Create(ctx, fu.User); err != nil {
				return err
			}
		}
		for _, p := range set.Products {
			if err := products.Create(ctx, p); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("postgres.Seed: %w", err)
	}

	return nil
}

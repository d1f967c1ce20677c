package v1

import (
	"time"

	"github.com/gosuda/bilemo/internal/domain"
)

type ClientRef struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type UserRef struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type UserView struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	CreatedAt time.Time  `json:"createdAt"`
	Client    *ClientRef `json:"client"`
	Links     UserLinks  `json:"_links"`
}

type ClientView struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	Users     []UserRef `json:"users"`
	Links     SelfLink  `json:"_links"`
}

type ProductView struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       string    `json:"price"`
	CreatedAt   time.Time `json:"createdAt"`
	Links       SelfLink  `json:"_links"`
}

func newUserView(u *domain.User) UserView {
	v := UserView{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
		Links:     userLinks(u.ID),
	}
	if u.Client != nil {
		v.Client = &ClientRef{ID: u.Client.ID, Name: u.Client.Name, Email: u.Client.Email}
	}
	return v
}

func newClientView(c *domain.Client) ClientView {
	users := make([]UserRef, 0, len(c.Users))
	for _, u := range c.Users {
		users = append(users, UserRef{ID: u.ID, Name: u.Name, Email: u.Email})
	}
	return ClientView{
		ID:        c.ID,
		Name:      c.Name,
		Email:     c.Email,
		CreatedAt: c.CreatedAt,
		Users:     users,
		Links:     clientLinks(c.ID),
	}
}

func newProductView(p *domain.Product) ProductView {
	return ProductView{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		CreatedAt:   p.CreatedAt,
		Links:       productLinks(p.ID),
	}
}

// mapViews converts a page of entities, keeping an empty page as [] rather than null.
func mapViews[E any, V any](items []E, view func(E) V) []V {
	out := make([]V, 0, len(items))
	for _, it := range items {
		out = append(out, view(it))
	}
	return out
}

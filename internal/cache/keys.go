package cache

import (
	"strconv"

	"github.com/gosuda/bilemo/internal/domain"
)

// Tags, one per resource family.
const (
	TagClients  = "clientsCache"
	TagUsers    = "usersCache"
	TagProducts = "productsCache"
)

func ClientsPageKey(p domain.Page) string {
	return "clients-" + pageSuffix(p)
}

func ProductsPageKey(p domain.Page) string {
	return "products-" + pageSuffix(p)
}

// UsersPageKey includes the scope so tenants never share an entry.
func UsersPageKey(scope domain.Scope, p domain.Page) string {
	s := "all"
	if !scope.Unrestricted {
		s = strconv.FormatInt(scope.ClientID, 10)
	}
	return "users-" + s + "-" + pageSuffix(p)
}

func ClientDetailKey(id int64) string {
	return "clients-detail-" + strconv.FormatInt(id, 10)
}

func ProductDetailKey(id int64) string {
	return "products-detail-" + strconv.FormatInt(id, 10)
}

func pageSuffix(p domain.Page) string {
	return strconv.Itoa(p.Number) + "-" + strconv.Itoa(p.Limit)
}

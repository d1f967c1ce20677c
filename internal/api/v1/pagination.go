package v1

import "github.com/gosuda/bilemo/internal/domain"

// PageParams are kept as strings so bad values fall back to defaults
// instead of failing the request.
type PageParams struct {
	Page  string `query:"page" doc:"1-based page number, defaults to 1"`
	Limit string `query:"limit" doc:"Page size, defaults to 3"`
}

func (p PageParams) resolve(maxLimit int) domain.Page {
	return domain.NewPage(p.Page, p.Limit, maxLimit)
}

package domain

import (
	"math"
	"strconv"
)

// Pagination defaults applied when the caller omits page or limit.
const (
	DefaultPage  = 1
	DefaultLimit = 3
)

// Page is a validated (page, limit) pair. Number is 1-based.
type Page struct {
	Number int
	Limit  int
}

// NewPage parses raw query values. Missing, non-numeric and non-positive
// values fall back to the defaults. A positive maxLimit caps Limit.
func NewPage(rawPage, rawLimit string, maxLimit int) Page {
	p := Page{
		Number: parsePositive(rawPage, DefaultPage),
		Limit:  parsePositive(rawLimit, DefaultLimit),
	}
	if maxLimit > 0 && p.Limit > maxLimit {
		p.Limit = maxLimit
	}
	return p
}

// Offset is the number of rows skipped before this page.
func (p Page) Offset() int {
	return (p.Number - 1) * p.Limit
}

func parsePositive(raw string, fallback int) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return fallback
	}
	// Keeps Offset well inside int64 for any accepted limit.
	if n > math.MaxInt32 {
		return math.MaxInt32
	}
	return n
}

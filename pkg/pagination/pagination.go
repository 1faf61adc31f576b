package pagination

import (
	"net/url"
	"strconv"
)

const (
	// DefaultPerPage is the standard page size when one is not provided.
	DefaultPerPage = 20
	// MaxPerPage caps how many items any catalog query can request. It
	// matches the commerce backend's own per_page ceiling.
	MaxPerPage = 100
)

// Params holds page pagination inputs from controllers or services.
type Params struct {
	Page    int
	PerPage int
}

// Normalize enforces the configured default and maximum page sizes and
// clamps the page number to at least one.
func (p Params) Normalize() Params {
	if p.Page <= 0 {
		p.Page = 1
	}
	if p.PerPage <= 0 {
		p.PerPage = DefaultPerPage
	}
	if p.PerPage > MaxPerPage {
		p.PerPage = MaxPerPage
	}
	return p
}

// FromQuery reads page and per_page from request query values. Values
// that fail to parse fall back to the defaults rather than erroring;
// a garbled page number is not worth failing a catalog read over.
func FromQuery(values url.Values) Params {
	var p Params
	if raw := values.Get("page"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			p.Page = n
		}
	}
	if raw := values.Get("per_page"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			p.PerPage = n
		}
	}
	return p.Normalize()
}

// QueryValues renders the params as commerce backend query parameters.
func (p Params) QueryValues() url.Values {
	p = p.Normalize()
	return url.Values{
		"page":     []string{strconv.Itoa(p.Page)},
		"per_page": []string{strconv.Itoa(p.PerPage)},
	}
}

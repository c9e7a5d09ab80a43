package pagination

import (
	"net/http"
	"strconv"
)

const (
	// DefaultPage is used when no page parameter is supplied.
	DefaultPage = 1

	// DefaultPageSize is used when no pageSize parameter is supplied.
	DefaultPageSize = 12
)

// Params holds normalized pagination parameters.
type Params struct {
	Page     int
	PageSize int
}

// Default returns pagination params with default values.
func Default() Params {
	return Params{Page: DefaultPage, PageSize: DefaultPageSize}
}

// Normalize replaces non-positive values with defaults. Values above the
// defaults pass through unchanged; callers echo them back as-is.
func (p Params) Normalize() Params {
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if p.PageSize < 1 {
		p.PageSize = DefaultPageSize
	}
	return p
}

// Offset returns the zero-based index of the first item on the page.
func (p Params) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// FromRequest parses page and pageSize query parameters from an HTTP request.
// Missing or malformed values fall back to defaults.
func FromRequest(r *http.Request) Params {
	p := Default()

	if raw := r.URL.Query().Get("page"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			p.Page = v
		}
	}
	if raw := r.URL.Query().Get("pageSize"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			p.PageSize = v
		}
	}

	return p.Normalize()
}

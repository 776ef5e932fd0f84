package pagination

import "math"

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Params página (1-based) y tamaño de página ya normalizados.
type Params struct {
	Page  int
	Limit int
}

// Meta metadatos de paginación devueltos junto a las listas.
type Meta struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
}

// New normaliza page y limit: page >= 1, 1 <= limit <= MaxLimit (por defecto DefaultLimit).
func New(page, limit int) Params {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return Params{Page: page, Limit: limit}
}

// Offset devuelve el OFFSET SQL.
func (p Params) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}

// Meta calcula totalPages = ceil(total / limit).
func (p Params) Meta(total int64) Meta {
	totalPages := 0
	if p.Limit > 0 {
		totalPages = int(math.Ceil(float64(total) / float64(p.Limit)))
	}
	return Meta{Total: total, Page: p.Page, Limit: p.Limit, TotalPages: totalPages}
}

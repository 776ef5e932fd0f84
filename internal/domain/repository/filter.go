package repository

import "time"

// ListFilter criterios comunes de listado. Los repositorios ignoran los campos que no aplican.
// SortBy usa nombres de la API (name, code, createdAt, ...); cada repositorio mantiene su lista blanca.
type ListFilter struct {
	Search     string
	Type       string
	CustomerID string
	From       *time.Time
	To         *time.Time
	SortBy     string
	SortDesc   bool
	Limit      int
	Offset     int
}

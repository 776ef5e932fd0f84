package dto

import "github.com/jhoicas/bizledger-api/pkg/pagination"

// DateLayout formato de fechas de negocio en la API (YYYY-MM-DD).
const DateLayout = "2006-01-02"

// ListQuery parámetros comunes de listado (query string).
type ListQuery struct {
	Page       int    `query:"page" validate:"omitempty,min=1"`
	Limit      int    `query:"limit" validate:"omitempty,min=1,max=100"`
	Search     string `query:"search" validate:"omitempty,max=100"`
	Type       string `query:"type" validate:"omitempty,max=30"`
	SortBy     string `query:"sortBy" validate:"omitempty,max=30"`
	SortOrder  string `query:"sortOrder" validate:"omitempty,oneof=asc desc ASC DESC"`
	From       string `query:"from" validate:"omitempty,datetime=2006-01-02"`
	To         string `query:"to" validate:"omitempty,datetime=2006-01-02"`
	CustomerID string `query:"customerId" validate:"omitempty,uuid"`
}

// PageResult resultado paginado devuelto por los casos de uso.
type PageResult[T any] struct {
	Items []T
	Meta  pagination.Meta
}

// Response envoltorio estándar de respuestas exitosas.
type Response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

// ListResponse envoltorio de listados: la paginación va al nivel superior.
type ListResponse struct {
	Success    bool  `json:"success"`
	Data       any   `json:"data"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Success bool              `json:"success"`
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
	Detail  string            `json:"detail,omitempty"`
}

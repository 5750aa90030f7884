package models

import "math"

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

type PaginationMeta struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalItems int `json:"total_items"`
	TotalPages int `json:"total_pages"`
}

type PaginationLinks struct {
	Self string `json:"self"`
	Next string `json:"next,omitempty"`
	Prev string `json:"prev,omitempty"`
}

type PaginationResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    interface{}     `json:"data"`
	Meta    PaginationMeta  `json:"meta"`
	Links   PaginationLinks `json:"links"`
}

// Page is a slice of results plus the total row count before paging.
type Page[T any] struct {
	Items      []T
	TotalItems int
	Page       int
	Limit      int
}

func (p Page[T]) Meta() PaginationMeta {
	totalPages := 0
	if p.TotalItems > 0 && p.Limit > 0 {
		totalPages = (p.TotalItems + p.Limit - 1) / p.Limit
	}
	return PaginationMeta{
		Page:       p.Page,
		Limit:      p.Limit,
		TotalItems: p.TotalItems,
		TotalPages: totalPages,
	}
}

const (
	DefaultPageLimit = 10
	MaxPageLimit     = 100
)

// MaxPage keeps (page-1)*MaxPageLimit inside a Postgres INTEGER offset.
const MaxPage = math.MaxInt32 / MaxPageLimit

// NormalizePaging clamps page to 1..MaxPage and limit to 1..MaxPageLimit.
func NormalizePaging(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if page > MaxPage {
		page = MaxPage
	}
	if limit < 1 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	return page, limit
}

func Offset(page, limit int) int {
	return (page - 1) * limit
}

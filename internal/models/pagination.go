package models

// Pagination describes offset-based page metadata returned with lists.
type Pagination struct {
	Page       int `json:"current_page"`
	PageSize   int `json:"per_page"`
	TotalCount int `json:"total"`
}

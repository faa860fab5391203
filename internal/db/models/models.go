package models

const (
	// DefaultLimit is the max number of rows that are retrieved from the DB per listing API call
	DefaultLimit = 10
)

// ListOptions represents pagination options for list operations
type ListOptions struct {
	Limit  int `json:"limit"`  // Number of items to return
	Offset int `json:"offset"` // Number of items to skip
}

// Pagination carries page metadata for list endpoints
type Pagination struct {
	HasNext bool  `json:"has_next"`
	HasPrev bool  `json:"has_prev"`
	Page    int   `json:"page"`
	Pages   int   `json:"pages"`
	Total   int64 `json:"total"`
}

// NewPagination computes page metadata for a total row count
func NewPagination(total int64, page, limit int) Pagination {
	pages := int((total + int64(limit) - 1) / int64(limit))
	return Pagination{
		HasNext: page < pages,
		HasPrev: page > 1,
		Page:    page,
		Pages:   pages,
		Total:   total,
	}
}

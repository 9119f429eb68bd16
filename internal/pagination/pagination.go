package pagination

// Result is the pagination metadata returned alongside every list response.
type Result struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// Skip converts 1-based page/limit into a row offset.
func Skip(page, limit int) int {
	return (page - 1) * limit
}

func New(page, limit, total int) Result {
	pages := 0
	if limit > 0 {
		pages = (total + limit - 1) / limit
	}
	return Result{Page: page, Limit: limit, Total: total, TotalPages: pages}
}

// Clamp applies the defaults and bounds used by all list endpoints.
func Clamp(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit
}

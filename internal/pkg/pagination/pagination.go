package pagination

// PageRef points at an adjacent page window.
type PageRef struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// Pagination holds the next/prev descriptors for a paged listing. A nil
// Next or Prev means the window has no page in that direction and the field
// is omitted from the envelope.
type Pagination struct {
	Next *PageRef `json:"next,omitempty"`
	Prev *PageRef `json:"prev,omitempty"`
}

// Build computes the pagination descriptors for a one-indexed page window.
// Pure function: identical inputs always yield identical output. A page
// past the end of the result set simply produces no Next descriptor; it is
// never an error.
func Build(page, limit int, total int64) *Pagination {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 1
	}

	startIndex := int64(page-1) * int64(limit)
	endIndex := int64(page) * int64(limit)

	p := &Pagination{}
	if endIndex < total {
		p.Next = &PageRef{Page: page + 1, Limit: limit}
	}
	if startIndex > 0 {
		p.Prev = &PageRef{Page: page - 1, Limit: limit}
	}
	return p
}

// Offset returns the number of documents to skip for the window.
func Offset(page, limit int) int64 {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 1
	}
	return int64(page-1) * int64(limit)
}

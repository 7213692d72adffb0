package domain

import "math"

// Page defaults used when a list request leaves them unset.
const (
	DefaultPageNumber = 0
	DefaultPageSize   = 3
)

// PageQuery is a resolved page request handed to the repository.
// Sorting is always ascending by SortField.
type PageQuery struct {
	SortField  string
	PageNumber int
	PageSize   int
}

// Offset returns the number of rows to skip for this page. A page whose
// offset does not fit in an int saturates at math.MaxInt, which lies past
// the end of any store.
func (q PageQuery) Offset() int {
	if q.PageNumber <= 0 || q.PageSize <= 0 {
		return 0
	}
	if q.PageNumber > math.MaxInt/q.PageSize {
		return math.MaxInt
	}
	return q.PageNumber * q.PageSize
}

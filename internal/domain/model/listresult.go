package model

// ListResult is the canonical paging contract every screen consumes,
// independent of the envelope the backend used.
//
// Items is never nil and keeps backend order. Total, when non-nil, is the
// size of the full collection rather than len(Items).
type ListResult[T any] struct {
	Items []T
	Total *int
	Shape ListShape
}

// EmptyList returns a ListResult with no items and an absent total.
func EmptyList[T any]() ListResult[T] {
	return ListResult[T]{Items: []T{}, Shape: ShapeUnknown}
}

// TotalOr returns Total, or def when Total is absent.
func (l ListResult[T]) TotalOr(def int) int {
	if l.Total == nil {
		return def
	}
	return *l.Total
}

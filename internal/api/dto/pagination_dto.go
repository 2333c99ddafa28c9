package dto

// PageMeta accompanies every paginated list.
type PageMeta struct {
	Cursor  string `json:"cursor,omitempty"`
	HasMore bool   `json:"hasMore"`
}

// PageResponse is the envelope of a paginated list.
type PageResponse[T any] struct {
	Data []T      `json:"data"`
	Meta PageMeta `json:"meta"`
}

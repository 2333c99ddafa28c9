package domain

import "time"

// Article is the content item served by the API.
type Article struct {
	ID         string
	Title      string
	Content    string
	AuthorID   string
	AuthorName string
	CreatedAt  time.Time
	UpdatedAt  time.Time
	DeletedAt  *time.Time
}

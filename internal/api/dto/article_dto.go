package dto

import (
	"time"

	"github.com/spec-kit/content-service/internal/domain"
)

// CreateArticleRequest payload for new articles.
type CreateArticleRequest struct {
	Title   string `json:"title" validate:"required,notblank,min=3,max=200"`
	Content string `json:"content" validate:"required,min=10"`
}

// UpdateArticleRequest carries optional article changes.
type UpdateArticleRequest struct {
	Title   *string `json:"title" validate:"omitempty,notblank,min=3,max=200"`
	Content *string `json:"content" validate:"omitempty,min=10"`
}

// AuthorResponse identifies the author of an article.
type AuthorResponse struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// ArticleResponse is the public view of an article.
type ArticleResponse struct {
	ID        string         `json:"id"`
	Title     string         `json:"title"`
	Content   string         `json:"content"`
	Author    AuthorResponse `json:"author"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// NewArticleResponse shapes a.
func NewArticleResponse(a *domain.Article) ArticleResponse {
	return ArticleResponse{
		ID:        a.ID,
		Title:     a.Title,
		Content:   a.Content,
		Author:    AuthorResponse{ID: a.AuthorID, Name: a.AuthorName},
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

// NewArticleList shapes a slice of articles.
func NewArticleList(articles []domain.Article) []ArticleResponse {
	out := make([]ArticleResponse, 0, len(articles))
	for i := range articles {
		out = append(out, NewArticleResponse(&articles[i]))
	}
	return out
}

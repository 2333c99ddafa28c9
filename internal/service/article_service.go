package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/content-service/internal/domain"
	"github.com/spec-kit/content-service/internal/events"
	"github.com/spec-kit/content-service/internal/pagination"
	"github.com/spec-kit/content-service/internal/repository"
)

// ArticleService implements article CRUD and listing.
type ArticleService struct {
	articles   repository.ArticleRepository
	pages      *pagination.Engine[domain.Article]
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewArticleService builds the service.
func NewArticleService(articles repository.ArticleRepository, dispatcher events.Dispatcher, logger *zap.Logger) *ArticleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ArticleService{
		articles:   articles,
		pages:      pagination.NewEngine[domain.Article](articles, func(a domain.Article) string { return a.ID }),
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// List returns the page after cursor.
func (s *ArticleService) List(ctx context.Context, cursor string) (pagination.Page[domain.Article], error) {
	return s.pages.Page(ctx, cursor)
}

// Get returns a single article.
func (s *ArticleService) Get(ctx context.Context, id string) (*domain.Article, error) {
	return s.articles.GetByID(ctx, id)
}

// Create stores an article authored by authorID.
func (s *ArticleService) Create(ctx context.Context, authorID, title, content string) (*domain.Article, error) {
	article := &domain.Article{
		Title:    strings.TrimSpace(title),
		Content:  content,
		AuthorID: authorID,
	}
	if err := s.articles.Create(ctx, article); err != nil {
		return nil, err
	}
	publish(ctx, s.dispatcher, s.logger, events.New(events.EventArticleCreated, article.ID, authorID, events.ArticlePayload{
		Title:    article.Title,
		AuthorID: authorID,
	}))
	return article, nil
}

// Update changes title and/or content.
func (s *ArticleService) Update(ctx context.Context, actorID, id string, title, content *string) (*domain.Article, error) {
	article, err := s.articles.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if title != nil {
		article.Title = strings.TrimSpace(*title)
	}
	if content != nil {
		article.Content = *content
	}
	if err := s.articles.Update(ctx, article); err != nil {
		return nil, err
	}
	publish(ctx, s.dispatcher, s.logger, events.New(events.EventArticleUpdated, article.ID, actorID, events.ArticlePayload{
		Title:    article.Title,
		AuthorID: article.AuthorID,
	}))
	return article, nil
}

// Delete soft-deletes an article.
func (s *ArticleService) Delete(ctx context.Context, actorID, id string) error {
	if err := s.articles.SoftDelete(ctx, id); err != nil {
		return err
	}
	publish(ctx, s.dispatcher, s.logger, events.New(events.EventArticleDeleted, id, actorID, nil))
	return nil
}

package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/content-service/internal/domain"
	"github.com/spec-kit/content-service/internal/pagination"
	"github.com/spec-kit/content-service/internal/repository"
)

// ArticleRepository stores articles in a map.
type ArticleRepository struct {
	mu       sync.RWMutex
	articles map[string]domain.Article
	users    *UserRepository
	now      func() time.Time
}

var _ repository.ArticleRepository = (*ArticleRepository)(nil)

// NewArticleRepository builds an empty repository. users resolves author
// names and may be nil.
func NewArticleRepository(users *UserRepository) *ArticleRepository {
	return &ArticleRepository{
		articles: make(map[string]domain.Article),
		users:    users,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the timestamp source for created rows.
func (r *ArticleRepository) WithClock(now func() time.Time) *ArticleRepository {
	r.now = now
	return r
}

func (r *ArticleRepository) authorName(id string) string {
	if r.users == nil {
		return ""
	}
	r.users.mu.RLock()
	defer r.users.mu.RUnlock()
	return r.users.users[id].Name
}

func (r *ArticleRepository) withAuthor(a domain.Article) domain.Article {
	a.AuthorName = r.authorName(a.AuthorID)
	return a
}

func (r *ArticleRepository) Create(_ context.Context, article *domain.Article) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	article.ID = uuid.NewString()
	article.CreatedAt, article.UpdatedAt = now, now
	r.articles[article.ID] = *article
	article.AuthorName = r.authorName(article.AuthorID)
	return nil
}

func (r *ArticleRepository) Update(_ context.Context, article *domain.Article) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.articles[article.ID]
	if !ok || current.DeletedAt != nil {
		return domain.ErrNotFound
	}
	current.Title = article.Title
	current.Content = article.Content
	current.UpdatedAt = r.now()
	article.UpdatedAt = current.UpdatedAt
	r.articles[article.ID] = current
	return nil
}

func (r *ArticleRepository) SoftDelete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.articles[id]
	if !ok || current.DeletedAt != nil {
		return domain.ErrNotFound
	}
	now := r.now()
	current.DeletedAt = &now
	r.articles[id] = current
	return nil
}

func (r *ArticleRepository) GetByID(_ context.Context, id string) (*domain.Article, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.articles[id]
	if !ok || a.DeletedAt != nil {
		return nil, domain.ErrNotFound
	}
	a = r.withAuthor(a)
	return &a, nil
}

func (r *ArticleRepository) Boundary(_ context.Context, cursor string) (*pagination.Key, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.articles[cursor]
	if !ok || a.DeletedAt != nil {
		return nil, nil
	}
	return &pagination.Key{CreatedAt: a.CreatedAt, ID: a.ID}, nil
}

func (r *ArticleRepository) After(_ context.Context, after *pagination.Key, limit int) ([]domain.Article, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Article, 0, limit)
	for _, a := range r.articles {
		if a.DeletedAt != nil {
			continue
		}
		if after != nil && !articleKey(a).Follows(*after) {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return articleKey(out[i]).Precedes(articleKey(out[j])) })
	if len(out) > limit {
		out = out[:limit]
	}
	for i := range out {
		out[i] = r.withAuthor(out[i])
	}
	return out, nil
}

func articleKey(a domain.Article) pagination.Key {
	return pagination.Key{CreatedAt: a.CreatedAt, ID: a.ID}
}

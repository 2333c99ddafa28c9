package repository

import (
	"context"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/content-service/internal/domain"
	"github.com/spec-kit/content-service/internal/pagination"
)

// ArticleRepository encapsulates article persistence.
type ArticleRepository interface {
	pagination.Source[domain.Article]
	Create(ctx context.Context, article *domain.Article) error
	Update(ctx context.Context, article *domain.Article) error
	SoftDelete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Article, error)
}

type articleRepository struct {
	pool *pgxpool.Pool
}

// NewArticleRepository instantiates repository.
func NewArticleRepository(pool *pgxpool.Pool) ArticleRepository {
	return &articleRepository{pool: pool}
}

func selectArticles() sq.SelectBuilder {
	return psql.Select(
		"a.id", "a.title", "a.content", "a.author_id", "COALESCE(u.name, '')",
		"a.created_at", "a.updated_at", "a.deleted_at",
	).
		From("articles a").
		LeftJoin("users u ON u.id = a.author_id").
		Where(sq.Eq{"a.deleted_at": nil})
}

func articlePageQuery(after *pagination.Key, limit int) sq.SelectBuilder {
	return keyset(selectArticles(), "a.created_at", "a.id", after, limit)
}

func scanArticle(row pgx.Row) (*domain.Article, error) {
	var a domain.Article
	if err := row.Scan(
		&a.ID,
		&a.Title,
		&a.Content,
		&a.AuthorID,
		&a.AuthorName,
		&a.CreatedAt,
		&a.UpdatedAt,
		&a.DeletedAt,
	); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *articleRepository) Create(ctx context.Context, article *domain.Article) error {
	const query = `
        INSERT INTO articles (title, content, author_id)
        VALUES ($1, $2, $3)
        RETURNING id, created_at, updated_at`
	err := r.pool.QueryRow(ctx, query,
		article.Title,
		article.Content,
		article.AuthorID,
	).Scan(&article.ID, &article.CreatedAt, &article.UpdatedAt)
	return translateError("create article", err)
}

func (r *articleRepository) Update(ctx context.Context, article *domain.Article) error {
	if !validID(article.ID) {
		return domain.ErrNotFound
	}
	const query = `
        UPDATE articles SET title=$1, content=$2, updated_at=NOW()
        WHERE id=$3 AND deleted_at IS NULL
        RETURNING updated_at`
	err := r.pool.QueryRow(ctx, query, article.Title, article.Content, article.ID).Scan(&article.UpdatedAt)
	return translateError("update article", err)
}

func (r *articleRepository) SoftDelete(ctx context.Context, id string) error {
	if !validID(id) {
		return domain.ErrNotFound
	}
	const query = `UPDATE articles SET deleted_at=NOW() WHERE id=$1 AND deleted_at IS NULL`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return translateError("delete article", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *articleRepository) GetByID(ctx context.Context, id string) (*domain.Article, error) {
	if !validID(id) {
		return nil, domain.ErrNotFound
	}
	sqlStr, args, err := selectArticles().Where(sq.Eq{"a.id": id}).ToSql()
	if err != nil {
		return nil, err
	}
	article, err := scanArticle(r.pool.QueryRow(ctx, sqlStr, args...))
	if err != nil {
		return nil, translateError("get article", err)
	}
	return article, nil
}

func (r *articleRepository) Boundary(ctx context.Context, cursor string) (*pagination.Key, error) {
	if !validID(cursor) {
		return nil, nil
	}
	const query = `SELECT created_at, id FROM articles WHERE id=$1 AND deleted_at IS NULL`
	var key pagination.Key
	if err := r.pool.QueryRow(ctx, query, cursor).Scan(&key.CreatedAt, &key.ID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, translateError("resolve article cursor", err)
	}
	return &key, nil
}

func (r *articleRepository) After(ctx context.Context, after *pagination.Key, limit int) ([]domain.Article, error) {
	sqlStr, args, err := articlePageQuery(after, limit).ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.pool.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, translateError("list articles", err)
	}
	defer rows.Close()

	articles := make([]domain.Article, 0, limit)
	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return nil, translateError("scan article", err)
		}
		articles = append(articles, *article)
	}
	if err := rows.Err(); err != nil {
		return nil, translateError("list articles", err)
	}
	return articles, nil
}

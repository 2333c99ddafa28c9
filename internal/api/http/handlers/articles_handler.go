package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/content-service/internal/api/dto"
	"github.com/spec-kit/content-service/internal/service"
)

// ArticlesHandler exposes article endpoints.
type ArticlesHandler struct {
	articles *service.ArticleService
}

// NewArticlesHandler constructs handler.
func NewArticlesHandler(articles *service.ArticleService) *ArticlesHandler {
	return &ArticlesHandler{articles: articles}
}

// List handles GET /api/articles?cursor=.
func (h *ArticlesHandler) List(c *fiber.Ctx) error {
	page, err := h.articles.List(c.UserContext(), c.Query("cursor"))
	if err != nil {
		return mapServiceError(err, "article")
	}
	return c.JSON(dto.PageResponse[dto.ArticleResponse]{
		Data: dto.NewArticleList(page.Items),
		Meta: dto.PageMeta{Cursor: page.NextCursor, HasMore: page.HasMore},
	})
}

// Get handles GET /api/articles/:id.
func (h *ArticlesHandler) Get(c *fiber.Ctx) error {
	article, err := h.articles.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return mapServiceError(err, "article")
	}
	return c.JSON(fiber.Map{"data": dto.NewArticleResponse(article)})
}

// Create handles POST /api/articles. The caller becomes the author.
func (h *ArticlesHandler) Create(c *fiber.Ctx) error {
	principal, err := currentPrincipal(c)
	if err != nil {
		return err
	}
	var req dto.CreateArticleRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	article, err := h.articles.Create(c.UserContext(), principal.User.ID, req.Title, req.Content)
	if err != nil {
		return mapServiceError(err, "article")
	}
	article.AuthorName = principal.User.Name
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewArticleResponse(article)})
}

// Update handles PATCH /api/articles/:id.
func (h *ArticlesHandler) Update(c *fiber.Ctx) error {
	principal, err := currentPrincipal(c)
	if err != nil {
		return err
	}
	var req dto.UpdateArticleRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	article, err := h.articles.Update(c.UserContext(), principal.User.ID, c.Params("id"), req.Title, req.Content)
	if err != nil {
		return mapServiceError(err, "article")
	}
	return c.JSON(fiber.Map{"data": dto.NewArticleResponse(article)})
}

// Delete handles DELETE /api/articles/:id.
func (h *ArticlesHandler) Delete(c *fiber.Ctx) error {
	principal, err := currentPrincipal(c)
	if err != nil {
		return err
	}
	if err := h.articles.Delete(c.UserContext(), principal.User.ID, c.Params("id")); err != nil {
		return mapServiceError(err, "article")
	}
	return c.SendStatus(http.StatusNoContent)
}

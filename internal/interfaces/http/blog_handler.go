package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/uranusgroup/uranus-web/internal/application/dto"
	"github.com/uranusgroup/uranus-web/internal/application/usecase"
	"github.com/uranusgroup/uranus-web/pkg/logger"
)

// BlogHandler artículos publicados.
type BlogHandler struct {
	base
	uc *usecase.BlogUseCase
}

// NewBlogHandler construye el handler.
func NewBlogHandler(uc *usecase.BlogUseCase, log *logger.Logger) *BlogHandler {
	return &BlogHandler{base: newBase(log), uc: uc}
}

// List godoc
// @Summary      Articles publiés
// @Tags         blog
// @Produce      json
// @Param        category  query  string  false  "slug de catégorie"
// @Param        search    query  string  false  "recherche libre"
// @Param        limit     query  int     false  "taille de page"
// @Param        offset    query  int     false  "décalage"
// @Success      200  {object}  dto.ArticleListResponse
// @Router       /api/articles [get]
func (h *BlogHandler) List(c *fiber.Ctx) error {
	var q dto.ArticleListQuery
	if err := c.QueryParser(&q); err != nil {
		return badBody(c)
	}
	out, err := h.uc.ListPublished(c.UserContext(), q)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}

// Get godoc
// @Summary      Article publié (incrémente le compteur de vues)
// @Tags         blog
// @Produce      json
// @Param        slug  path  string  true  "slug"
// @Success      200  {object}  dto.ArticleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/articles/{slug} [get]
func (h *BlogHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.GetPublished(c.UserContext(), c.Params("slug"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}

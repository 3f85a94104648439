package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/uranusgroup/uranus-web/internal/application/dto"
	"github.com/uranusgroup/uranus-web/internal/application/usecase"
	"github.com/uranusgroup/uranus-web/pkg/logger"
)

// CatalogHandler catálogo público de servicios.
type CatalogHandler struct {
	base
	uc *usecase.CatalogUseCase
}

// NewCatalogHandler construye el handler.
func NewCatalogHandler(uc *usecase.CatalogUseCase, log *logger.Logger) *CatalogHandler {
	return &CatalogHandler{base: newBase(log), uc: uc}
}

type serviceListQuery struct {
	Category string `query:"category"`
	Search   string `query:"search"`
	dto.PageRequest
}

// ListServices godoc
// @Summary      Services actifs
// @Tags         catalog
// @Produce      json
// @Param        category  query  string  false  "slug de catégorie"
// @Param        search    query  string  false  "recherche libre"
// @Param        limit     query  int     false  "taille de page"
// @Param        offset    query  int     false  "décalage"
// @Success      200  {object}  dto.ServiceListResponse
// @Router       /api/services [get]
func (h *CatalogHandler) ListServices(c *fiber.Ctx) error {
	var q serviceListQuery
	if err := c.QueryParser(&q); err != nil {
		return badBody(c)
	}
	out, err := h.uc.ListActive(c.UserContext(), q.Category, q.Search, q.PageRequest)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}

// GetService godoc
// @Summary      Détail d'un service actif
// @Tags         catalog
// @Produce      json
// @Param        id   path  string  true  "ID du service"
// @Success      200  {object}  dto.ServiceDetailResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/services/{id} [get]
func (h *CatalogHandler) GetService(c *fiber.Ctx) error {
	out, err := h.uc.GetActiveByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}

// ListCategories godoc
// @Summary      Catégories actives
// @Tags         catalog
// @Produce      json
// @Success      200  {array}  dto.CategoryResponse
// @Router       /api/categories [get]
func (h *CatalogHandler) ListCategories(c *fiber.Ctx) error {
	out, err := h.uc.ListCategories(c.UserContext())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}

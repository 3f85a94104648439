package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/uranusgroup/uranus-web/internal/application/dto"
)

// Home portada.
func (h *WebHandler) Home(c *fiber.Ctx) error {
	home, err := h.d.Site.Home(c.UserContext())
	if err != nil {
		return h.fail(c, err)
	}
	return h.page(c, "public/home", fiber.Map{"Title": h.d.Info.Title, "Home": home})
}

// About página "À propos".
func (h *WebHandler) About(c *fiber.Ctx) error {
	about, err := h.d.Site.About(c.UserContext())
	if err != nil {
		return h.fail(c, err)
	}
	return h.page(c, "public/about", fiber.Map{"Title": "À propos", "About": about})
}

type servicesPageQuery struct {
	Category string `query:"category"`
	Search   string `query:"search"`
	Offset   int    `query:"offset"`
}

// Services catálogo con filtro de categoría y búsqueda.
func (h *WebHandler) Services(c *fiber.Ctx) error {
	var q servicesPageQuery
	_ = c.QueryParser(&q)
	list, err := h.d.Catalog.ListActive(c.UserContext(), q.Category, q.Search, dto.PageRequest{Limit: 12, Offset: q.Offset})
	if err != nil {
		return h.fail(c, err)
	}
	cats, err := h.d.Catalog.ListCategories(c.UserContext())
	if err != nil {
		return h.fail(c, err)
	}
	return h.page(c, "public/services", fiber.Map{
		"Title": "Nos services", "Services": list.Items, "Page": list.Page,
		"Categories": cats, "Query": q,
	})
}

// ServiceDetail ficha de un servicio activo con servicios relacionados.
func (h *WebHandler) ServiceDetail(c *fiber.Ctx) error {
	detail, err := h.d.Catalog.GetActiveBySlug(c.UserContext(), c.Params("slug"))
	if err != nil {
		return h.fail(c, err)
	}
	return h.page(c, "public/service_detail", fiber.Map{"Title": detail.Service.Name, "Detail": detail})
}

// Blog listado de artículos publicados.
func (h *WebHandler) Blog(c *fiber.Ctx) error {
	var q dto.ArticleListQuery
	_ = c.QueryParser(&q)
	q.Limit = 9
	list, err := h.d.Blog.ListPublished(c.UserContext(), q)
	if err != nil {
		return h.fail(c, err)
	}
	cats, err := h.d.Blog.Categories(c.UserContext())
	if err != nil {
		return h.fail(c, err)
	}
	return h.page(c, "public/blog", fiber.Map{
		"Title": "Blog", "Articles": list.Items, "Page": list.Page, "Categories": cats, "Query": q,
	})
}

// Article artículo publicado; cada visita suma una vista.
func (h *WebHandler) Article(c *fiber.Ctx) error {
	a, err := h.d.Blog.GetPublished(c.UserContext(), c.Params("slug"))
	if err != nil {
		return h.fail(c, err)
	}
	return h.page(c, "public/article", fiber.Map{"Title": a.Title, "Article": a})
}

// ContactForm formulario de contacto; ?sent=1 muestra la confirmación.
func (h *WebHandler) ContactForm(c *fiber.Ctx) error {
	return h.page(c, "public/contact", fiber.Map{
		"Title": "Contact", "Sent": c.Query("sent") == "1", "Form": dto.ContactRequest{},
	})
}

// ContactSubmit guarda el mensaje y redirige a /contact?sent=1.
func (h *WebHandler) ContactSubmit(c *fiber.Ctx) error {
	var in dto.ContactRequest
	if err := c.BodyParser(&in); err != nil {
		return h.fail(c, err)
	}
	if _, err := h.d.Contact.Submit(c.UserContext(), in); err != nil {
		msg, ok := formError(err)
		if !ok {
			return h.fail(c, err)
		}
		return h.render(c, fiber.StatusBadRequest, "public/contact", layoutMain, fiber.Map{
			"Title": "Contact", "Error": msg, "Form": in,
		})
	}
	return c.Redirect("/contact?sent=1", fiber.StatusSeeOther)
}

// Sitemap sitemap.xml de páginas, servicios y artículos.
func (h *WebHandler) Sitemap(c *fiber.Ctx) error {
	body, err := h.d.Site.Sitemap(c.UserContext())
	if err != nil {
		return h.fail(c, err)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationXMLCharsetUTF8)
	return c.Send(body)
}

package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/uranusgroup/uranus-web/internal/application/backoffice"
	"github.com/uranusgroup/uranus-web/internal/application/dto"
	"github.com/uranusgroup/uranus-web/internal/domain"
	"github.com/uranusgroup/uranus-web/internal/domain/repository"
)

const (
	adminPageSize    = 25
	requestsResource = "service-requests"
)

// AdminHandler back-office genérico sobre el registro de recursos.
type AdminHandler struct {
	web       *WebHandler
	registry  *backoffice.Registry
	dashboard *backoffice.DashboardUseCase
	pdf       *backoffice.PDFUseCase
}

// NewAdminHandler construye el back-office; comparte sesión y layout con el sitio.
func NewAdminHandler(web *WebHandler, registry *backoffice.Registry, dashboard *backoffice.DashboardUseCase, pdf *backoffice.PDFUseCase) *AdminHandler {
	return &AdminHandler{web: web, registry: registry, dashboard: dashboard, pdf: pdf}
}

func (h *AdminHandler) render(c *fiber.Ctx, status int, name string, data fiber.Map) error {
	data["Resources"] = h.registry.All()
	return h.web.render(c, status, name, layoutAdmin, data)
}

func (h *AdminHandler) resource(c *fiber.Ctx) (*backoffice.Resource, error) {
	res, ok := h.registry.Get(c.Params("resource"))
	if !ok {
		return nil, domain.ErrNotFound
	}
	return res, nil
}

// Dashboard KPIs y últimas solicitudes.
func (h *AdminHandler) Dashboard(c *fiber.Ctx) error {
	sum, err := h.dashboard.GetSummary(c.UserContext(), CurrentUser(c))
	if err != nil {
		return h.web.fail(c, err)
	}
	return h.render(c, fiber.StatusOK, "admin/dashboard", fiber.Map{
		"Title": h.web.d.Info.IndexTitle, "Summary": sum,
	})
}

type adminListQuery struct {
	Filter string `query:"filter"`
	Search string `query:"q"`
	Offset int    `query:"offset"`
}

// List listado paginado con filtro y búsqueda.
func (h *AdminHandler) List(c *fiber.Ctx) error {
	res, err := h.resource(c)
	if err != nil {
		return h.web.fail(c, err)
	}
	var q adminListQuery
	_ = c.QueryParser(&q)
	if q.Offset < 0 {
		q.Offset = 0
	}
	out, err := res.List(c.UserContext(), CurrentUser(c), backoffice.ListQuery{
		Filter: q.Filter, Search: q.Search, Page: repository.Page{Limit: adminPageSize, Offset: q.Offset},
	})
	if err != nil {
		return h.web.fail(c, err)
	}
	return h.render(c, fiber.StatusOK, "admin/list", fiber.Map{
		"Title": res.LabelPlural, "Resource": res, "Rows": out.Rows,
		"Page":  dto.PageResponse{Limit: adminPageSize, Offset: q.Offset, Total: out.Total},
		"Query": q, "Saved": c.Query("saved") == "1", "Deleted": c.Query("deleted") == "1",
	})
}

func (h *AdminHandler) form(c *fiber.Ctx, status int, res *backoffice.Resource, id string, values map[string]string, formErr string) error {
	fields, err := res.ResolvedFields(c.UserContext(), CurrentUser(c))
	if err != nil {
		return h.web.fail(c, err)
	}
	title := "Ajouter " + res.Label
	if id != "" {
		title = "Modifier " + res.Label
	}
	return h.render(c, status, "admin/form", fiber.Map{
		"Title": title, "Resource": res, "Fields": fields, "Values": values, "ID": id, "Error": formErr,
	})
}

// postedValues valores enviados, para volver a pintar el formulario tras un error.
func postedValues(c *fiber.Ctx) map[string]string {
	out := map[string]string{}
	c.Request().PostArgs().VisitAll(func(k, v []byte) {
		out[string(k)] = string(v)
	})
	return out
}

// New formulario de alta.
func (h *AdminHandler) New(c *fiber.Ctx) error {
	res, err := h.resource(c)
	if err != nil {
		return h.web.fail(c, err)
	}
	if !res.CanCreate {
		return h.web.fail(c, domain.ErrNotFound)
	}
	return h.form(c, fiber.StatusOK, res, "", map[string]string{}, "")
}

// Create guarda un registro nuevo.
func (h *AdminHandler) Create(c *fiber.Ctx) error {
	res, err := h.resource(c)
	if err != nil {
		return h.web.fail(c, err)
	}
	if !res.CanCreate {
		return h.web.fail(c, domain.ErrNotFound)
	}
	return h.save(c, res, "")
}

// Edit formulario de edición; las solicitudes de servicio tienen su propia ficha.
func (h *AdminHandler) Edit(c *fiber.Ctx) error {
	res, err := h.resource(c)
	if err != nil {
		return h.web.fail(c, err)
	}
	if !res.CanEdit || res.Get == nil {
		return h.web.fail(c, domain.ErrNotFound)
	}
	id := c.Params("id")
	values, err := res.Get(c.UserContext(), CurrentUser(c), id)
	if err != nil {
		return h.web.fail(c, err)
	}
	if res.Name == requestsResource {
		return h.requestDetail(c, fiber.StatusOK, res, id, values, "")
	}
	return h.form(c, fiber.StatusOK, res, id, values, "")
}

// Update guarda los cambios.
func (h *AdminHandler) Update(c *fiber.Ctx) error {
	res, err := h.resource(c)
	if err != nil {
		return h.web.fail(c, err)
	}
	if !res.CanEdit {
		return h.web.fail(c, domain.ErrNotFound)
	}
	return h.save(c, res, c.Params("id"))
}

func (h *AdminHandler) save(c *fiber.Ctx, res *backoffice.Resource, id string) error {
	savedID, err := res.Save(c.UserContext(), CurrentUser(c), id, c.BodyParser)
	if err != nil {
		msg, ok := formError(err)
		if !ok {
			return h.web.fail(c, err)
		}
		if res.Name == requestsResource {
			return h.requestDetail(c, fiber.StatusBadRequest, res, id, postedValues(c), msg)
		}
		return h.form(c, fiber.StatusBadRequest, res, id, postedValues(c), msg)
	}
	if res.Name == requestsResource {
		return c.Redirect("/admin/"+res.Name+"/"+savedID+"?saved=1", fiber.StatusSeeOther)
	}
	return c.Redirect("/admin/"+res.Name+"?saved=1", fiber.StatusSeeOther)
}

// Delete borrado definitivo.
func (h *AdminHandler) Delete(c *fiber.Ctx) error {
	res, err := h.resource(c)
	if err != nil {
		return h.web.fail(c, err)
	}
	if res.Delete == nil {
		return h.web.fail(c, domain.ErrNotFound)
	}
	if err := res.Delete(c.UserContext(), CurrentUser(c), c.Params("id")); err != nil {
		return h.web.fail(c, err)
	}
	return c.Redirect("/admin/"+res.Name+"?deleted=1", fiber.StatusSeeOther)
}

func (h *AdminHandler) requestDetail(c *fiber.Ctx, status int, res *backoffice.Resource, id string, values map[string]string, formErr string) error {
	detail, err := h.web.d.Requests.Get(c.UserContext(), CurrentUser(c), id)
	if err != nil {
		return h.web.fail(c, err)
	}
	fields, err := res.ResolvedFields(c.UserContext(), CurrentUser(c))
	if err != nil {
		return h.web.fail(c, err)
	}
	return h.render(c, status, "admin/request_detail", fiber.Map{
		"Title": detail.Request.Title, "Resource": res, "Fields": fields, "Values": values,
		"ID": id, "Detail": detail, "Error": formErr, "Saved": c.Query("saved") == "1",
	})
}

// UploadDeliverable sube un entregable desde la ficha de la solicitud.
func (h *AdminHandler) UploadDeliverable(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := uploadDeliverable(c, h.web.d.Deliverables, id); err != nil {
		msg, ok := formError(err)
		if !ok {
			return h.web.fail(c, err)
		}
		res, _ := h.registry.Get(requestsResource)
		values, verr := res.Get(c.UserContext(), CurrentUser(c), id)
		if verr != nil {
			return h.web.fail(c, verr)
		}
		return h.requestDetail(c, fiber.StatusBadRequest, res, id, values, msg)
	}
	return c.Redirect("/admin/"+requestsResource+"/"+id+"?saved=1", fiber.StatusSeeOther)
}

// RequestPDF exporta la solicitud como demande_<id>.pdf.
func (h *AdminHandler) RequestPDF(c *fiber.Ctx) error {
	body, name, err := h.pdf.DownloadRequestPDF(c.UserContext(), CurrentUser(c), c.Params("id"))
	if err != nil {
		return h.web.fail(c, err)
	}
	return sendPDF(c, body, name)
}

// DownloadDeliverable descarga desde el back-office.
func (h *AdminHandler) DownloadDeliverable(c *fiber.Ctx) error {
	return streamDeliverable(c, h.web.d.Deliverables, h.web.fail)
}

package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/uranusgroup/uranus-web/internal/application/dto"
)

// RequestForm formulario de solicitud para un servicio activo.
func (h *WebHandler) RequestForm(c *fiber.Ctx) error {
	svc, err := h.d.Catalog.GetActiveByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return h.page(c, "client/request_form", fiber.Map{
		"Title": "Demande de service", "Service": svc.Service,
		"Form": dto.CreateServiceRequest{ServiceID: svc.Service.ID, Priority: "medium"},
	})
}

// CreateRequest crea la solicitud y lleva a su detalle.
func (h *WebHandler) CreateRequest(c *fiber.Ctx) error {
	var in dto.CreateServiceRequest
	if err := c.BodyParser(&in); err != nil {
		return h.fail(c, err)
	}
	in.ServiceID = c.Params("id")
	out, err := h.d.Requests.Create(c.UserContext(), CurrentUser(c), in)
	if err != nil {
		msg, ok := formError(err)
		if !ok {
			return h.fail(c, err)
		}
		svc, serr := h.d.Catalog.GetActiveByID(c.UserContext(), in.ServiceID)
		if serr != nil {
			return h.fail(c, serr)
		}
		return h.render(c, fiber.StatusBadRequest, "client/request_form", layoutMain, fiber.Map{
			"Title": "Demande de service", "Service": svc.Service, "Form": in, "Error": msg,
		})
	}
	return c.Redirect("/requests/"+out.ID, fiber.StatusSeeOther)
}

// Requests solicitudes visibles: las propias para un cliente, las de su ámbito para el staff.
func (h *WebHandler) Requests(c *fiber.Ctx) error {
	var q dto.RequestListQuery
	_ = c.QueryParser(&q)
	out, err := h.d.Requests.ListScoped(c.UserContext(), CurrentUser(c), q)
	if err != nil {
		return h.fail(c, err)
	}
	return h.page(c, "client/requests", fiber.Map{
		"Title": "Mes demandes", "Requests": out.Items, "Page": out.Page, "Query": q,
	})
}

// RequestDetail solicitud con sus entregables.
func (h *WebHandler) RequestDetail(c *fiber.Ctx) error {
	return h.requestDetail(c, fiber.StatusOK, "")
}

func (h *WebHandler) requestDetail(c *fiber.Ctx, status int, formErr string) error {
	out, err := h.d.Requests.Get(c.UserContext(), CurrentUser(c), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return h.render(c, status, "client/request_detail", layoutMain, fiber.Map{
		"Title": out.Request.Title, "Detail": out, "Error": formErr,
	})
}

// TransitionRequest cambio de estado o asignación hecho por el staff desde el sitio.
func (h *WebHandler) TransitionRequest(c *fiber.Ctx) error {
	var in dto.TransitionRequest
	if err := c.BodyParser(&in); err != nil {
		return h.fail(c, err)
	}
	id := c.Params("id")
	if _, err := h.d.Requests.Transition(c.UserContext(), CurrentUser(c), id, in); err != nil {
		msg, ok := formError(err)
		if !ok {
			return h.fail(c, err)
		}
		return h.requestDetail(c, fiber.StatusBadRequest, msg)
	}
	return c.Redirect("/requests/"+id, fiber.StatusSeeOther)
}

// UploadDeliverable sube un entregable a la solicitud.
func (h *WebHandler) UploadDeliverable(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := uploadDeliverable(c, h.d.Deliverables, id); err != nil {
		msg, ok := formError(err)
		if !ok {
			return h.fail(c, err)
		}
		return h.requestDetail(c, fiber.StatusBadRequest, msg)
	}
	return c.Redirect("/requests/"+id, fiber.StatusSeeOther)
}

// DownloadDeliverable descarga para el dueño de la solicitud o el staff.
func (h *WebHandler) DownloadDeliverable(c *fiber.Ctx) error {
	return streamDeliverable(c, h.d.Deliverables, h.fail)
}

// Tickets listado de tickets con el formulario de apertura.
func (h *WebHandler) Tickets(c *fiber.Ctx) error {
	return h.tickets(c, fiber.StatusOK, dto.OpenTicketRequest{Priority: "medium"}, "")
}

func (h *WebHandler) tickets(c *fiber.Ctx, status int, form dto.OpenTicketRequest, formErr string) error {
	var q dto.TicketListQuery
	_ = c.QueryParser(&q)
	out, err := h.d.Tickets.ListScoped(c.UserContext(), CurrentUser(c), q)
	if err != nil {
		return h.fail(c, err)
	}
	return h.render(c, status, "client/tickets", layoutMain, fiber.Map{
		"Title": "Support", "Tickets": out.Items, "Page": out.Page, "Query": q,
		"Form": form, "Error": formErr,
	})
}

// OpenTicket abre un ticket y lleva a su hilo.
func (h *WebHandler) OpenTicket(c *fiber.Ctx) error {
	var in dto.OpenTicketRequest
	if err := c.BodyParser(&in); err != nil {
		return h.fail(c, err)
	}
	out, err := h.d.Tickets.Open(c.UserContext(), CurrentUser(c), in)
	if err != nil {
		msg, ok := formError(err)
		if !ok {
			return h.fail(c, err)
		}
		return h.tickets(c, fiber.StatusBadRequest, in, msg)
	}
	return c.Redirect("/tickets/"+out.ID, fiber.StatusSeeOther)
}

// TicketDetail ticket con su hilo de mensajes.
func (h *WebHandler) TicketDetail(c *fiber.Ctx) error {
	return h.ticketDetail(c, fiber.StatusOK, "")
}

func (h *WebHandler) ticketDetail(c *fiber.Ctx, status int, formErr string) error {
	out, err := h.d.Tickets.Get(c.UserContext(), CurrentUser(c), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return h.render(c, status, "client/ticket_detail", layoutMain, fiber.Map{
		"Title": out.Ticket.Subject, "Detail": out, "Error": formErr,
	})
}

// PostTicketMessage añade un mensaje al hilo.
func (h *WebHandler) PostTicketMessage(c *fiber.Ctx) error {
	var in dto.PostMessageRequest
	if err := c.BodyParser(&in); err != nil {
		return h.fail(c, err)
	}
	id := c.Params("id")
	if _, err := h.d.Tickets.PostMessage(c.UserContext(), CurrentUser(c), id, in); err != nil {
		msg, ok := formError(err)
		if !ok {
			return h.fail(c, err)
		}
		return h.ticketDetail(c, fiber.StatusBadRequest, msg)
	}
	return c.Redirect("/tickets/"+id, fiber.StatusSeeOther)
}

// TransitionTicket cambio de estado de un ticket por el staff.
func (h *WebHandler) TransitionTicket(c *fiber.Ctx) error {
	var in dto.TicketTransitionRequest
	if err := c.BodyParser(&in); err != nil {
		return h.fail(c, err)
	}
	id := c.Params("id")
	if _, err := h.d.Tickets.Transition(c.UserContext(), CurrentUser(c), id, in); err != nil {
		msg, ok := formError(err)
		if !ok {
			return h.fail(c, err)
		}
		return h.ticketDetail(c, fiber.StatusBadRequest, msg)
	}
	return c.Redirect("/tickets/"+id, fiber.StatusSeeOther)
}

// Notifications bandeja del usuario.
func (h *WebHandler) Notifications(c *fiber.Ctx) error {
	var page dto.PageRequest
	_ = c.QueryParser(&page)
	u := CurrentUser(c)
	out, err := h.d.Notifications.List(c.UserContext(), u.ID, c.Query("unread") == "1", page)
	if err != nil {
		return h.fail(c, err)
	}
	return h.page(c, "client/notifications", fiber.Map{
		"Title": "Notifications", "Notifications": out.Items, "Page": out.Page,
		"UnreadOnly": c.Query("unread") == "1",
	})
}

// MarkNotificationRead marca una notificación propia como leída.
func (h *WebHandler) MarkNotificationRead(c *fiber.Ctx) error {
	if err := h.d.Notifications.MarkRead(c.UserContext(), CurrentUser(c).ID, c.Params("id")); err != nil {
		return h.fail(c, err)
	}
	return c.Redirect("/notifications", fiber.StatusSeeOther)
}

// MarkAllNotificationsRead marca todas como leídas.
func (h *WebHandler) MarkAllNotificationsRead(c *fiber.Ctx) error {
	if err := h.d.Notifications.MarkAllRead(c.UserContext(), CurrentUser(c).ID); err != nil {
		return h.fail(c, err)
	}
	return c.Redirect("/notifications", fiber.StatusSeeOther)
}

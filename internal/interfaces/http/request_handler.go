package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/uranusgroup/uranus-web/internal/application/backoffice"
	"github.com/uranusgroup/uranus-web/internal/application/dto"
	"github.com/uranusgroup/uranus-web/internal/application/workflow"
	"github.com/uranusgroup/uranus-web/internal/domain"
	"github.com/uranusgroup/uranus-web/pkg/logger"
)

// RequestHandler solicitudes de servicio, sus entregables y la exportación PDF.
type RequestHandler struct {
	base
	requests     *workflow.RequestUseCase
	deliverables *workflow.DeliverableUseCase
	pdf          *backoffice.PDFUseCase
}

// NewRequestHandler construye el handler.
func NewRequestHandler(requests *workflow.RequestUseCase, deliverables *workflow.DeliverableUseCase, pdf *backoffice.PDFUseCase, log *logger.Logger) *RequestHandler {
	return &RequestHandler{base: newBase(log), requests: requests, deliverables: deliverables, pdf: pdf}
}

// List godoc
// @Summary      Demandes : les siennes pour un client, toutes (filtrables) pour le staff
// @Tags         requests
// @Produce      json
// @Security     BearerAuth
// @Param        status       query  string  false  "pending | in_progress | completed | cancelled"
// @Param        search       query  string  false  "titre ou description"
// @Param        service_id   query  string  false  "service"
// @Param        assigned_to  query  string  false  "responsable"
// @Param        limit        query  int     false  "taille de page"
// @Param        offset       query  int     false  "décalage"
// @Success      200  {object}  dto.ServiceRequestListResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/requests [get]
func (h *RequestHandler) List(c *fiber.Ctx) error {
	var q dto.RequestListQuery
	if err := c.QueryParser(&q); err != nil {
		return badBody(c)
	}
	out, err := h.requests.ListScoped(c.UserContext(), CurrentUser(c), q)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Créer une demande de service
// @Tags         requests
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.CreateServiceRequest  true  "service_id, title, description, priority, deadline"
// @Success      201  {object}  dto.ServiceRequestResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/requests [post]
func (h *RequestHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateServiceRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.requests.Create(c.UserContext(), CurrentUser(c), in)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Get godoc
// @Summary      Détail d'une demande avec ses livrables
// @Tags         requests
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "ID de la demande"
// @Success      200  {object}  dto.RequestDetailResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/requests/{id} [get]
func (h *RequestHandler) Get(c *fiber.Ctx) error {
	out, err := h.requests.Get(c.UserContext(), CurrentUser(c), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}

// Transition godoc
// @Summary      Changer statut, responsable, priorité ou échéance (staff)
// @Tags         requests
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string                  true  "ID de la demande"
// @Param        body  body  dto.TransitionRequest  true  "champs vides = inchangés"
// @Success      200  {object}  dto.ServiceRequestResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/requests/{id}/status [patch]
func (h *RequestHandler) Transition(c *fiber.Ctx) error {
	var in dto.TransitionRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.requests.Transition(c.UserContext(), CurrentUser(c), c.Params("id"), in)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}

// UploadDeliverable godoc
// @Summary      Déposer un livrable (staff)
// @Tags         requests
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        id           path      string  true   "ID de la demande"
// @Param        file         formData  file    true   "fichier"
// @Param        name         formData  string  false  "nom affiché"
// @Param        description  formData  string  false  "description"
// @Success      201  {object}  dto.DeliverableResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/requests/{id}/deliverables [post]
func (h *RequestHandler) UploadDeliverable(c *fiber.Ctx) error {
	out, err := uploadDeliverable(c, h.deliverables, c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// PDF godoc
// @Summary      Export PDF d'une demande (staff)
// @Tags         requests
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        id   path  string  true  "ID de la demande"
// @Success      200  {file}    binary
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/requests/{id}/pdf [get]
func (h *RequestHandler) PDF(c *fiber.Ctx) error {
	body, filename, err := h.pdf.DownloadRequestPDF(c.UserContext(), CurrentUser(c), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return sendPDF(c, body, filename)
}

// uploadDeliverable lee el multipart "file" y lo entrega al caso de uso. Compartido con el back-office.
func uploadDeliverable(c *fiber.Ctx, uc *workflow.DeliverableUseCase, requestID string) (*dto.DeliverableResponse, error) {
	fh, err := c.FormFile("file")
	if err != nil {
		return nil, domain.ErrInvalidInput
	}
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	in := dto.UploadDeliverableInput{
		Name:        c.FormValue("name"),
		Description: c.FormValue("description"),
		FileName:    fh.Filename,
		ContentType: fh.Header.Get(fiber.HeaderContentType),
		Size:        fh.Size,
	}
	return uc.Upload(c.UserContext(), CurrentUser(c), requestID, in, f)
}

func sendPDF(c *fiber.Ctx, body []byte, filename string) error {
	c.Attachment(filename)
	c.Set(fiber.HeaderContentType, "application/pdf")
	return c.Send(body)
}

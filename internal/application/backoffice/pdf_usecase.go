package backoffice

import (
	"context"
	"fmt"

	"github.com/uranusgroup/uranus-web/internal/domain"
	"github.com/uranusgroup/uranus-web/internal/domain/entity"
	"github.com/uranusgroup/uranus-web/internal/domain/policy"
	"github.com/uranusgroup/uranus-web/internal/domain/repository"
)

// RequestPDFGenerator puerto de salida que dibuja la ficha de una solicitud.
type RequestPDFGenerator interface {
	GenerateRequestPDF(ctx context.Context, req *entity.ServiceRequest) ([]byte, error)
}

// PDFUseCase exporta una solicitud de servicio a PDF (staff).
type PDFUseCase struct {
	requests  repository.ServiceRequestRepository
	generator RequestPDFGenerator
}

// NewPDFUseCase construye el caso de uso.
func NewPDFUseCase(requests repository.ServiceRequestRepository, generator RequestPDFGenerator) *PDFUseCase {
	return &PDFUseCase{requests: requests, generator: generator}
}

// DownloadRequestPDF devuelve los bytes del PDF y el nombre demande_<id>.pdf.
//
// Retorna:
//   - domain.ErrNotFound   si la solicitud no existe.
//   - domain.ErrForbidden  si el actor no es staff.
func (uc *PDFUseCase) DownloadRequestPDF(ctx context.Context, actor *entity.User, id string) (pdfBytes []byte, filename string, err error) {
	if err := policy.Staff(actor); err != nil {
		return nil, "", err
	}
	req, err := uc.requests.GetByID(ctx, id)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener solicitud: %w", err)
	}
	if req == nil {
		return nil, "", domain.ErrNotFound
	}
	pdfBytes, err = uc.generator.GenerateRequestPDF(ctx, req)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generación fallida: %w", err)
	}
	return pdfBytes, fmt.Sprintf("demande_%s.pdf", req.ID), nil
}

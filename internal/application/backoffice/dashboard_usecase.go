// Package backoffice contiene los casos de uso propios del panel de administración:
// el tablero de KPIs y la exportación PDF de solicitudes.
package backoffice

import (
	"context"
	"fmt"

	"github.com/uranusgroup/uranus-web/internal/application/dto"
	"github.com/uranusgroup/uranus-web/internal/application/workflow"
	"github.com/uranusgroup/uranus-web/internal/domain/entity"
	"github.com/uranusgroup/uranus-web/internal/domain/policy"
	"github.com/uranusgroup/uranus-web/internal/domain/repository"
)

// RecentRequestsLimit solicitudes recientes mostradas en el tablero.
const RecentRequestsLimit = 10

// DashboardUseCase genera el resumen del back-office.
//
// Fuente de datos: DashboardRepository (consultas read-only) y el listado de solicitudes.
type DashboardUseCase struct {
	repo     repository.DashboardRepository
	requests repository.ServiceRequestRepository
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(repo repository.DashboardRepository, requests repository.ServiceRequestRepository) *DashboardUseCase {
	return &DashboardUseCase{repo: repo, requests: requests}
}

// GetSummary lanza en paralelo las consultas independientes y las une antes de responder.
func (uc *DashboardUseCase) GetSummary(ctx context.Context, actor *entity.User) (*dto.DashboardSummaryDTO, error) {
	if err := policy.Admin(actor); err != nil {
		return nil, err
	}

	type countResult struct {
		name string
		n    int
		err  error
	}
	type groupResult struct {
		rows []entity.CountByKey
		err  error
	}
	type recentResult struct {
		items []*entity.ServiceRequest
		err   error
	}

	counts := []struct {
		name string
		fn   func() (int, error)
	}{
		{"users", func() (int, error) { return uc.repo.CountRows(ctx, "users") }},
		{"services", func() (int, error) { return uc.repo.CountRows(ctx, "services") }},
		{"service_requests", func() (int, error) { return uc.repo.CountRows(ctx, "service_requests") }},
		{"articles", func() (int, error) { return uc.repo.CountRows(ctx, "articles") }},
		{"contact_new", func() (int, error) { return uc.repo.CountContactMessages(ctx, entity.ContactNew) }},
		{"tickets_open", func() (int, error) {
			return uc.repo.CountTickets(ctx, entity.TicketOpen, entity.TicketInProgress)
		}},
	}

	countCh := make(chan countResult, len(counts))
	byStatusCh := make(chan groupResult, 1)
	byRoleCh := make(chan groupResult, 1)
	recentCh := make(chan recentResult, 1)

	for _, c := range counts {
		c := c
		go func() {
			n, err := c.fn()
			countCh <- countResult{c.name, n, err}
		}()
	}
	go func() {
		rows, err := uc.repo.RequestsByStatus(ctx)
		byStatusCh <- groupResult{rows, err}
	}()
	go func() {
		rows, err := uc.repo.UsersByRole(ctx)
		byRoleCh <- groupResult{rows, err}
	}()
	go func() {
		items, _, err := uc.requests.List(ctx, repository.RequestFilter{Page: repository.Page{Limit: RecentRequestsLimit}})
		recentCh <- recentResult{items, err}
	}()

	out := &dto.DashboardSummaryDTO{}
	var firstErr error
	for range counts {
		r := <-countCh
		if r.err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("dashboard: %s: %w", r.name, r.err)
			}
			continue
		}
		switch r.name {
		case "users":
			out.TotalUsers = r.n
		case "services":
			out.TotalServices = r.n
		case "service_requests":
			out.TotalRequests = r.n
		case "articles":
			out.TotalArticles = r.n
		case "contact_new":
			out.UnreadMessages = r.n
		case "tickets_open":
			out.OpenTickets = r.n
		}
	}
	byStatus := <-byStatusCh
	byRole := <-byRoleCh
	recent := <-recentCh

	if firstErr != nil {
		return nil, firstErr
	}
	if byStatus.err != nil {
		return nil, fmt.Errorf("dashboard: solicitudes por estado: %w", byStatus.err)
	}
	if byRole.err != nil {
		return nil, fmt.Errorf("dashboard: usuarios por rol: %w", byRole.err)
	}
	if recent.err != nil {
		return nil, fmt.Errorf("dashboard: solicitudes recientes: %w", recent.err)
	}

	out.RequestsByStatus = byStatus.rows
	out.UsersByRole = byRole.rows
	out.RecentRequests = make([]dto.ServiceRequestResponse, 0, len(recent.items))
	for _, r := range recent.items {
		out.RecentRequests = append(out.RecentRequests, workflow.ToRequestResponse(r))
	}
	return out, nil
}

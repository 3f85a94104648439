package dto

import "github.com/uranusgroup/uranus-web/internal/domain/entity"

// DashboardSummaryDTO KPIs del tablero del back-office.
type DashboardSummaryDTO struct {
	TotalUsers     int `json:"total_users"`
	TotalServices  int `json:"total_services"`
	TotalRequests  int `json:"total_requests"`
	TotalArticles  int `json:"total_articles"`
	UnreadMessages int `json:"unread_messages"` // contactos en estado new
	OpenTickets    int `json:"open_tickets"`    // open + in_progress

	RequestsByStatus []entity.CountByKey      `json:"requests_by_status"`
	UsersByRole      []entity.CountByKey      `json:"users_by_role"`
	RecentRequests   []ServiceRequestResponse `json:"recent_requests"`
}

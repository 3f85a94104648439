package dto

import "time"

// NotificationResponse salida de una notificación.
type NotificationResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Type      string    `json:"type"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

// NotificationListResponse listado paginado con el contador de no leídas.
type NotificationListResponse struct {
	Items  []NotificationResponse `json:"items"`
	Unread int                    `json:"unread"`
	Page   PageResponse           `json:"page"`
}

// NotifyRequest aviso manual del back-office a un usuario.
type NotifyRequest struct {
	UserID  string `json:"user_id" form:"user_id" validate:"required"`
	Title   string `json:"title" form:"title" validate:"required,max=200"`
	Message string `json:"message" form:"message" validate:"required"`
	Type    string `json:"type" form:"type" validate:"required,oneof=info success warning error"`
}

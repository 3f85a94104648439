package entity

import "time"

// Estados de un ContactMessage.
const (
	ContactNew      = "new"
	ContactRead     = "read"
	ContactReplied  = "replied"
	ContactArchived = "archived"
)

// ContactStatuses en orden de tratamiento.
var ContactStatuses = []string{ContactNew, ContactRead, ContactReplied, ContactArchived}

// ContactMessage mensaje enviado desde el formulario público.
type ContactMessage struct {
	ID        string
	Name      string
	Email     string
	Phone     string
	Company   string
	Subject   string
	Message   string
	Status    string
	RepliedAt *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SetStatus cambia el estado y fija RepliedAt la primera vez que se marca como respondido.
func (m *ContactMessage) SetStatus(status string, now time.Time) {
	m.Status = status
	if status == ContactReplied && m.RepliedAt == nil {
		t := now
		m.RepliedAt = &t
	}
}

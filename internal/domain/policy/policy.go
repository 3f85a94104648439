// Package policy reúne las reglas de autorización como predicados explícitos por operación.
// Un actor nil representa a un visitante anónimo.
package policy

import (
	"github.com/uranusgroup/uranus-web/internal/domain"
	"github.com/uranusgroup/uranus-web/internal/domain/entity"
)

// Authenticated rechaza al visitante anónimo.
func Authenticated(actor *entity.User) error {
	if actor == nil || !actor.IsActive {
		return domain.ErrUnauthorized
	}
	return nil
}

// Staff exige admin o manager.
func Staff(actor *entity.User) error {
	if err := Authenticated(actor); err != nil {
		return err
	}
	if !actor.IsStaff() {
		return domain.ErrForbidden
	}
	return nil
}

// Admin exige el rol admin.
func Admin(actor *entity.User) error {
	if err := Authenticated(actor); err != nil {
		return err
	}
	if actor.Role != entity.RoleAdmin {
		return domain.ErrForbidden
	}
	return nil
}

// ViewRequest: el cliente propietario o cualquier miembro del staff.
func ViewRequest(actor *entity.User, r *entity.ServiceRequest) error {
	if err := Authenticated(actor); err != nil {
		return err
	}
	if actor.IsStaff() || r.IsOwnedBy(actor.ID) {
		return nil
	}
	return domain.ErrForbidden
}

// TransitionRequest: solo staff. El propietario puede leer pero nunca cambiar estado ni asignación.
func TransitionRequest(actor *entity.User, _ *entity.ServiceRequest) error {
	return Staff(actor)
}

// UploadDeliverable: solo staff.
func UploadDeliverable(actor *entity.User, _ *entity.ServiceRequest) error {
	return Staff(actor)
}

// ViewTicket: propietario, responsable asignado o cualquier admin.
func ViewTicket(actor *entity.User, t *entity.SupportTicket) error {
	if err := Authenticated(actor); err != nil {
		return err
	}
	if actor.Role == entity.RoleAdmin || t.UserID == actor.ID || t.IsAssignedTo(actor.ID) {
		return nil
	}
	return domain.ErrForbidden
}

// PostTicketMessage: quien puede ver el ticket puede escribir en él, salvo en tickets cerrados.
func PostTicketMessage(actor *entity.User, t *entity.SupportTicket) error {
	if err := ViewTicket(actor, t); err != nil {
		return err
	}
	if t.Status == entity.TicketClosed {
		return domain.ErrConflict
	}
	return nil
}

// TransitionTicket: staff con acceso al ticket. Un manager solo opera sobre los tickets asignados a él.
func TransitionTicket(actor *entity.User, t *entity.SupportTicket) error {
	if err := Staff(actor); err != nil {
		return err
	}
	return ViewTicket(actor, t)
}

// ListAllDeliverables: los admin ven todos; el resto solo los de sus solicitudes.
func ListAllDeliverables(actor *entity.User) bool {
	return actor != nil && actor.Role == entity.RoleAdmin
}

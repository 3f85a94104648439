package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/uranusgroup/uranus-web/internal/domain"
	"github.com/uranusgroup/uranus-web/internal/domain/entity"
)

func user(id string, role entity.Role) *entity.User {
	return &entity.User{ID: id, Username: id, Role: role, IsActive: true}
}

func TestViewRequest(t *testing.T) {
	owner := user("owner", entity.RoleClient)
	other := user("other", entity.RoleClient)
	r := &entity.ServiceRequest{ID: "r1", ClientID: owner.ID}

	assert.NoError(t, ViewRequest(owner, r))
	assert.ErrorIs(t, ViewRequest(other, r), domain.ErrForbidden)
	assert.ErrorIs(t, ViewRequest(nil, r), domain.ErrUnauthorized)
	for _, role := range entity.StaffRoles {
		assert.NoError(t, ViewRequest(user("s", role), r), "rol %s", role)
	}
}

func TestTransitionRequest_PropietarioNoPuede(t *testing.T) {
	owner := user("owner", entity.RoleClient)
	r := &entity.ServiceRequest{ID: "r1", ClientID: owner.ID}

	assert.ErrorIs(t, TransitionRequest(owner, r), domain.ErrForbidden)
	assert.ErrorIs(t, TransitionRequest(nil, r), domain.ErrUnauthorized)
	assert.NoError(t, TransitionRequest(user("m", entity.RoleManagerQHSE), r))
}

func TestAuthenticated_UsuarioInactivo(t *testing.T) {
	u := user("u", entity.RoleAdmin)
	u.IsActive = false
	assert.ErrorIs(t, Authenticated(u), domain.ErrUnauthorized)
}

func TestViewTicket(t *testing.T) {
	owner := user("owner", entity.RoleClient)
	assignee := user("mgr", entity.RoleManagerInfo)
	otherMgr := user("mgr2", entity.RoleManagerQHSE)
	tk := &entity.SupportTicket{ID: "t1", UserID: owner.ID, AssignedTo: &assignee.ID, Status: entity.TicketInProgress}

	assert.NoError(t, ViewTicket(owner, tk))
	assert.NoError(t, ViewTicket(assignee, tk))
	assert.NoError(t, ViewTicket(user("adm", entity.RoleAdmin), tk))
	assert.ErrorIs(t, ViewTicket(otherMgr, tk), domain.ErrForbidden)
	assert.ErrorIs(t, ViewTicket(user("c2", entity.RoleClient), tk), domain.ErrForbidden)
}

func TestPostTicketMessage_TicketCerrado(t *testing.T) {
	owner := user("owner", entity.RoleClient)
	tk := &entity.SupportTicket{ID: "t1", UserID: owner.ID, Status: entity.TicketClosed}
	assert.ErrorIs(t, PostTicketMessage(owner, tk), domain.ErrConflict)
}

func TestTransitionTicket_SoloAdminOResponsable(t *testing.T) {
	owner := user("owner", entity.RoleClient)
	assignee := user("mgr", entity.RoleManagerInfo)
	otherMgr := user("mgr2", entity.RoleManagerQHSE)
	tk := &entity.SupportTicket{ID: "t1", UserID: owner.ID, AssignedTo: &assignee.ID, Status: entity.TicketInProgress}
	unassigned := &entity.SupportTicket{ID: "t2", UserID: owner.ID, Status: entity.TicketOpen}

	assert.NoError(t, TransitionTicket(user("adm", entity.RoleAdmin), tk))
	assert.NoError(t, TransitionTicket(user("adm", entity.RoleAdmin), unassigned))
	assert.NoError(t, TransitionTicket(assignee, tk))
	assert.ErrorIs(t, TransitionTicket(otherMgr, tk), domain.ErrForbidden)
	assert.ErrorIs(t, TransitionTicket(assignee, unassigned), domain.ErrForbidden)
	assert.ErrorIs(t, TransitionTicket(owner, tk), domain.ErrForbidden)
	assert.ErrorIs(t, TransitionTicket(nil, tk), domain.ErrUnauthorized)
}

func TestPostTicketMessage_ManagerNoAsignado(t *testing.T) {
	owner := user("owner", entity.RoleClient)
	tk := &entity.SupportTicket{ID: "t1", UserID: owner.ID, Status: entity.TicketOpen}

	assert.ErrorIs(t, PostTicketMessage(user("mgr", entity.RoleManagerQHSE), tk), domain.ErrForbidden)
	assert.NoError(t, PostTicketMessage(user("adm", entity.RoleAdmin), tk))
}

func TestAdmin(t *testing.T) {
	assert.NoError(t, Admin(user("a", entity.RoleAdmin)))
	assert.ErrorIs(t, Admin(user("m", entity.RoleManagerQHSE)), domain.ErrForbidden)
	assert.True(t, ListAllDeliverables(user("a", entity.RoleAdmin)))
	assert.False(t, ListAllDeliverables(user("m", entity.RoleManagerInfo)))
}

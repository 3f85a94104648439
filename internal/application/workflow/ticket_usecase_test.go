package workflow_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uranusgroup/uranus-web/internal/application/apptest"
	"github.com/uranusgroup/uranus-web/internal/application/dto"
	"github.com/uranusgroup/uranus-web/internal/application/workflow"
	"github.com/uranusgroup/uranus-web/internal/domain"
	"github.com/uranusgroup/uranus-web/internal/domain/entity"
)

type ticketFixture struct {
	store  *apptest.Store
	clock  *apptest.Clock
	uc     *workflow.TicketUseCase
	admin  *entity.User
	admin2 *entity.User
	qhse   *entity.User
	client *entity.User
	other  *entity.User
}

func newTicketFixture(t *testing.T) *ticketFixture {
	t.Helper()
	s := apptest.NewStore()
	f := &ticketFixture{
		store:  s,
		clock:  apptest.NewClock(time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)),
		admin:  s.AddUser("u-admin", "admin", entity.RoleAdmin),
		admin2: s.AddUser("u-admin2", "support", entity.RoleAdmin),
		qhse:   s.AddUser("u-qhse", "qhse", entity.RoleManagerQHSE),
		client: s.AddUser("u-client", "acme", entity.RoleClient),
		other:  s.AddUser("u-other", "globex", entity.RoleClient),
	}
	f.uc = workflow.NewTicketUseCase(s, s.Tickets(), &apptest.RecordingPublisher{}, nil).WithClock(f.clock.Now)
	return f
}

func (f *ticketFixture) open(t *testing.T) *dto.TicketResponse {
	t.Helper()
	out, err := f.uc.Open(context.Background(), f.client, dto.OpenTicketRequest{
		Subject:     "Accès refusé",
		Description: "Je ne peux pas télécharger mon livrable",
	})
	require.NoError(t, err)
	return out
}

func TestOpenTicket_AvisaAdmins(t *testing.T) {
	f := newTicketFixture(t)
	tk := f.open(t)

	assert.Equal(t, string(entity.TicketOpen), tk.Status)
	assert.Equal(t, string(entity.PriorityMedium), tk.Priority)
	for _, a := range []*entity.User{f.admin, f.admin2} {
		notes := f.store.NotificationsFor(a.ID)
		require.Len(t, notes, 1)
		assert.Equal(t, "Nouveau ticket de support", notes[0].Title)
		assert.Equal(t, "acme a créé un ticket: Accès refusé", notes[0].Message)
	}
	assert.Empty(t, f.store.NotificationsFor(f.qhse.ID), "solo los admin reciben el aviso")
}

func TestPostMessage_PrimeraRespuestaDelStaffTomaElTicket(t *testing.T) {
	f := newTicketFixture(t)
	ctx := context.Background()
	tk := f.open(t)

	_, err := f.uc.PostMessage(ctx, f.admin, tk.ID, dto.PostMessageRequest{Message: "Nous regardons"})
	require.NoError(t, err)

	got, err := f.uc.Get(ctx, f.admin, tk.ID)
	require.NoError(t, err)
	assert.Equal(t, string(entity.TicketInProgress), got.Ticket.Status)
	require.NotNil(t, got.Ticket.AssignedTo)
	assert.Equal(t, f.admin.ID, *got.Ticket.AssignedTo)

	f.clock.Advance(time.Minute)
	_, err = f.uc.PostMessage(ctx, f.admin2, tk.ID, dto.PostMessageRequest{Message: "Je prends le relais"})
	require.NoError(t, err)

	got, err = f.uc.Get(ctx, f.admin, tk.ID)
	require.NoError(t, err)
	assert.Equal(t, string(entity.TicketInProgress), got.Ticket.Status)
	assert.Equal(t, f.admin.ID, *got.Ticket.AssignedTo, "un segundo mensaje del staff no reasigna")
	require.Len(t, got.Messages, 2)
	assert.True(t, got.Messages[0].IsStaff)
	assert.Equal(t, "Nous regardons", got.Messages[0].Message)

	notes := f.store.NotificationsFor(f.client.ID)
	require.Len(t, notes, 2)
	assert.Equal(t, "Réponse à votre ticket", notes[0].Title)
}

func TestPostMessage_RespuestaDelClienteConservaEstado(t *testing.T) {
	f := newTicketFixture(t)
	ctx := context.Background()
	tk := f.open(t)

	_, err := f.uc.PostMessage(ctx, f.client, tk.ID, dto.PostMessageRequest{Message: "Une précision"})
	require.NoError(t, err)

	got, err := f.uc.Get(ctx, f.client, tk.ID)
	require.NoError(t, err)
	assert.Equal(t, string(entity.TicketOpen), got.Ticket.Status)
	assert.Nil(t, got.Ticket.AssignedTo)
	assert.False(t, got.Messages[0].IsStaff)
}

func TestPostMessage_Acceso(t *testing.T) {
	f := newTicketFixture(t)
	ctx := context.Background()
	tk := f.open(t)

	_, err := f.uc.PostMessage(ctx, f.other, tk.ID, dto.PostMessageRequest{Message: "?"})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = f.uc.PostMessage(ctx, f.qhse, tk.ID, dto.PostMessageRequest{Message: "?"})
	assert.ErrorIs(t, err, domain.ErrForbidden, "un manager no asignado no ve el ticket")

	_, err = f.uc.PostMessage(ctx, f.client, tk.ID, dto.PostMessageRequest{Message: "   "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.uc.Transition(ctx, f.admin, tk.ID, dto.TicketTransitionRequest{Status: "closed"})
	require.NoError(t, err)
	_, err = f.uc.PostMessage(ctx, f.client, tk.ID, dto.PostMessageRequest{Message: "Encore là ?"})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestTransitionTicket_ResolvedAtUnaSolaVez(t *testing.T) {
	f := newTicketFixture(t)
	ctx := context.Background()
	tk := f.open(t)

	_, err := f.uc.Transition(ctx, f.client, tk.ID, dto.TicketTransitionRequest{Status: "resolved"})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	res, err := f.uc.Transition(ctx, f.admin, tk.ID, dto.TicketTransitionRequest{Status: "resolved"})
	require.NoError(t, err)
	require.NotNil(t, res.ResolvedAt)
	first := *res.ResolvedAt

	f.clock.Advance(time.Hour)
	_, err = f.uc.Transition(ctx, f.admin, tk.ID, dto.TicketTransitionRequest{Status: "in_progress"})
	require.NoError(t, err)
	res, err = f.uc.Transition(ctx, f.admin, tk.ID, dto.TicketTransitionRequest{Status: "resolved"})
	require.NoError(t, err)
	assert.True(t, first.Equal(*res.ResolvedAt))
}

func TestTransitionTicket_AsignarManagerDaAcceso(t *testing.T) {
	f := newTicketFixture(t)
	ctx := context.Background()
	tk := f.open(t)

	_, err := f.uc.Transition(ctx, f.admin, tk.ID, dto.TicketTransitionRequest{AssignedTo: f.qhse.ID})
	require.NoError(t, err)

	_, err = f.uc.Get(ctx, f.qhse, tk.ID)
	assert.NoError(t, err)

	list, err := f.uc.ListAll(ctx, f.qhse, dto.TicketListQuery{})
	require.NoError(t, err)
	assert.Len(t, list.Items, 1)

	_, err = f.uc.Transition(ctx, f.admin, tk.ID, dto.TicketTransitionRequest{AssignedTo: f.other.ID})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestTransitionTicket_ManagerNoAsignadoRechazado(t *testing.T) {
	f := newTicketFixture(t)
	ctx := context.Background()
	tk := f.open(t)

	_, err := f.uc.Get(ctx, f.qhse, tk.ID)
	require.ErrorIs(t, err, domain.ErrForbidden)

	out, err := f.uc.Transition(ctx, f.qhse, tk.ID, dto.TicketTransitionRequest{AssignedTo: f.qhse.ID})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.Nil(t, out, "sin acceso no se devuelve el ticket")

	_, err = f.uc.Transition(ctx, f.qhse, tk.ID, dto.TicketTransitionRequest{Status: "resolved"})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = f.uc.PostMessage(ctx, f.qhse, tk.ID, dto.PostMessageRequest{Message: "Je prends"})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	got, err := f.uc.Get(ctx, f.admin, tk.ID)
	require.NoError(t, err)
	assert.Equal(t, string(entity.TicketOpen), got.Ticket.Status)
	assert.Nil(t, got.Ticket.AssignedTo)
	assert.Empty(t, got.Messages)

	_, err = f.uc.Get(ctx, f.qhse, tk.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden, "el manager sigue sin acceso")
}

func TestTransitionTicket_ManagerAsignadoPuedeResolver(t *testing.T) {
	f := newTicketFixture(t)
	ctx := context.Background()
	tk := f.open(t)

	_, err := f.uc.Transition(ctx, f.admin, tk.ID, dto.TicketTransitionRequest{AssignedTo: f.qhse.ID})
	require.NoError(t, err)

	res, err := f.uc.Transition(ctx, f.qhse, tk.ID, dto.TicketTransitionRequest{Status: "resolved"})
	require.NoError(t, err)
	assert.Equal(t, string(entity.TicketResolved), res.Status)
	assert.NotNil(t, res.ResolvedAt)
}

func TestListTickets_Filtros(t *testing.T) {
	f := newTicketFixture(t)
	ctx := context.Background()
	f.open(t)
	_, err := f.uc.Open(ctx, f.other, dto.OpenTicketRequest{Subject: "Facture", Description: "Erreur de montant"})
	require.NoError(t, err)

	mine, err := f.uc.ListMine(ctx, f.client, dto.TicketListQuery{})
	require.NoError(t, err)
	assert.Equal(t, 1, mine.Page.Total)

	all, err := f.uc.ListScoped(ctx, f.admin, dto.TicketListQuery{Search: "facture"})
	require.NoError(t, err)
	assert.Equal(t, 1, all.Page.Total)

	_, err = f.uc.ListAll(ctx, f.client, dto.TicketListQuery{})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = f.uc.ListAll(ctx, f.admin, dto.TicketListQuery{Status: "pending"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

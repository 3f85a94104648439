package workflow_test

import (
	"context"
	"strings"
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

type requestFixture struct {
	store   *apptest.Store
	events  *apptest.RecordingPublisher
	clock   *apptest.Clock
	uc      *workflow.RequestUseCase
	admin   *entity.User
	qhse    *entity.User
	info    *entity.User
	client  *entity.User
	other   *entity.User
	service *entity.Service
}

func newRequestFixture(t *testing.T) *requestFixture {
	t.Helper()
	s := apptest.NewStore()
	f := &requestFixture{
		store:  s,
		events: &apptest.RecordingPublisher{},
		clock:  apptest.NewClock(time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)),
		admin:  s.AddUser("u-admin", "admin", entity.RoleAdmin),
		qhse:   s.AddUser("u-qhse", "qhse", entity.RoleManagerQHSE),
		info:   s.AddUser("u-info", "info", entity.RoleManagerInfo),
		client: s.AddUser("u-client", "acme", entity.RoleClient),
		other:  s.AddUser("u-other", "globex", entity.RoleClient),
	}
	s.AddCategory("c-qhse", "QHSE", entity.CategorySlugQHSE)
	f.service = s.AddService("s-audit", "c-qhse", "Audit ISO 9001", entity.ServiceStatusActive)
	s.AddService("s-old", "c-qhse", "Ancien service", entity.ServiceStatusInactive)
	f.uc = workflow.NewRequestUseCase(s, s.Services(), s.Requests(), s.Deliverables(), apptest.NewMemoryStorage(), f.events, nil).
		WithClock(f.clock.Now)
	return f
}

func (f *requestFixture) create(t *testing.T) *dto.ServiceRequestResponse {
	t.Helper()
	out, err := f.uc.Create(context.Background(), f.client, dto.CreateServiceRequest{
		ServiceID:   f.service.ID,
		Title:       "Audit annuel",
		Description: "Audit de notre système qualité",
	})
	require.NoError(t, err)
	return out
}

func TestCreateRequest_ValoresPorDefectoYAvisoAlStaff(t *testing.T) {
	f := newRequestFixture(t)

	out := f.create(t)

	assert.Equal(t, string(entity.RequestPending), out.Status)
	assert.Equal(t, string(entity.PriorityMedium), out.Priority, "sin prioridad debe quedar en medium")
	assert.Nil(t, out.CompletedAt)
	assert.Equal(t, "Audit ISO 9001", out.ServiceName)

	for _, staff := range []*entity.User{f.admin, f.qhse, f.info} {
		notes := f.store.NotificationsFor(staff.ID)
		require.Len(t, notes, 1, "cada miembro del staff recibe un aviso")
		assert.Equal(t, "Nouvelle demande de service", notes[0].Title)
		assert.Equal(t, `acme a créé une demande pour "Audit ISO 9001"`, notes[0].Message)
		assert.Equal(t, entity.NotificationInfo, notes[0].Type)
	}
	assert.Empty(t, f.store.NotificationsFor(f.client.ID))
	assert.Equal(t, []string{workflow.EventRequestCreated}, f.events.Names())
}

func TestCreateRequest_FalloDeNotificacionNoRevierte(t *testing.T) {
	f := newRequestFixture(t)
	f.store.FailNotificationsFor[f.qhse.ID] = true

	f.create(t)

	assert.Equal(t, 1, f.store.RequestCount())
	assert.Empty(t, f.store.NotificationsFor(f.qhse.ID))
	assert.Len(t, f.store.NotificationsFor(f.info.ID), 1)
	assert.Len(t, f.store.NotificationsFor(f.admin.ID), 1)
}

func TestCreateRequest_ServicioInvalido(t *testing.T) {
	f := newRequestFixture(t)
	ctx := context.Background()

	_, err := f.uc.Create(ctx, f.client, dto.CreateServiceRequest{ServiceID: "s-old", Title: "x", Description: "y"})
	assert.ErrorIs(t, err, domain.ErrInactiveService)

	_, err = f.uc.Create(ctx, f.client, dto.CreateServiceRequest{ServiceID: "nope", Title: "x", Description: "y"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.Zero(t, f.store.RequestCount(), "no se persiste nada")
	assert.Empty(t, f.store.NotificationsFor(f.admin.ID))
}

func TestCreateRequest_Validacion(t *testing.T) {
	f := newRequestFixture(t)
	ctx := context.Background()

	_, err := f.uc.Create(ctx, f.client, dto.CreateServiceRequest{ServiceID: f.service.ID, Title: "  ", Description: "y"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.uc.Create(ctx, f.client, dto.CreateServiceRequest{ServiceID: f.service.ID, Title: "x", Description: "y", Priority: "critical"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.uc.Create(ctx, nil, dto.CreateServiceRequest{ServiceID: f.service.ID, Title: "x", Description: "y"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestCreateRequest_FechaLimite(t *testing.T) {
	f := newRequestFixture(t)
	out, err := f.uc.Create(context.Background(), f.client, dto.CreateServiceRequest{
		ServiceID: f.service.ID, Title: "x", Description: "y", Priority: "urgent", Deadline: "2024-04-15T17:30",
	})
	require.NoError(t, err)
	require.NotNil(t, out.Deadline)
	assert.Equal(t, 15, out.Deadline.Day())
	assert.Equal(t, "urgent", out.Priority)
}

func TestTransition_CompletedAtUnaSolaVez(t *testing.T) {
	f := newRequestFixture(t)
	ctx := context.Background()
	req := f.create(t)

	done, err := f.uc.Transition(ctx, f.admin, req.ID, dto.TransitionRequest{Status: "completed"})
	require.NoError(t, err)
	require.NotNil(t, done.CompletedAt)
	first := *done.CompletedAt

	f.clock.Advance(time.Hour)
	again, err := f.uc.Transition(ctx, f.admin, req.ID, dto.TransitionRequest{Status: "completed"})
	require.NoError(t, err)
	assert.True(t, first.Equal(*again.CompletedAt), "repetir completed conserva la fecha")

	f.clock.Advance(time.Hour)
	back, err := f.uc.Transition(ctx, f.qhse, req.ID, dto.TransitionRequest{Status: "in_progress"})
	require.NoError(t, err)
	require.NotNil(t, back.CompletedAt, "salir de completed no borra completed_at")
	assert.True(t, first.Equal(*back.CompletedAt))

	notes := f.store.NotificationsFor(f.client.ID)
	require.Len(t, notes, 2, "solo los cambios reales de estado avisan al cliente")
	assert.Equal(t, entity.NotificationSuccess, notes[0].Type)
	assert.Equal(t, entity.NotificationInfo, notes[1].Type)
}

func TestTransition_SinCompletarQuedaNil(t *testing.T) {
	f := newRequestFixture(t)
	req := f.create(t)
	out, err := f.uc.Transition(context.Background(), f.info, req.ID, dto.TransitionRequest{Status: "cancelled"})
	require.NoError(t, err)
	assert.Nil(t, out.CompletedAt)
}

func TestTransition_Asignacion(t *testing.T) {
	f := newRequestFixture(t)
	ctx := context.Background()
	req := f.create(t)

	out, err := f.uc.Transition(ctx, f.admin, req.ID, dto.TransitionRequest{AssignedTo: f.qhse.ID})
	require.NoError(t, err)
	require.NotNil(t, out.AssignedTo)
	assert.Equal(t, f.qhse.ID, *out.AssignedTo)
	assert.Equal(t, "qhse", out.AssigneeUsername)
	assert.Equal(t, string(entity.RequestPending), out.Status, "asignar no toca el estado")

	notes := f.store.NotificationsFor(f.qhse.ID)
	require.Len(t, notes, 2)
	assert.Equal(t, "Demande assignée", notes[1].Title)

	_, err = f.uc.Transition(ctx, f.admin, req.ID, dto.TransitionRequest{AssignedTo: f.client.ID})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "un cliente no puede ser responsable")

	out, err = f.uc.Transition(ctx, f.admin, req.ID, dto.TransitionRequest{Unassign: true})
	require.NoError(t, err)
	assert.Nil(t, out.AssignedTo)
}

func TestTransition_FechaLimiteSeFijaYSeBorra(t *testing.T) {
	f := newRequestFixture(t)
	ctx := context.Background()
	req := f.create(t)

	out, err := f.uc.Transition(ctx, f.admin, req.ID, dto.TransitionRequest{Deadline: "2024-05-10T12:00"})
	require.NoError(t, err)
	require.NotNil(t, out.Deadline)
	assert.Equal(t, 10, out.Deadline.Day())

	out, err = f.uc.Transition(ctx, f.admin, req.ID, dto.TransitionRequest{Status: "in_progress"})
	require.NoError(t, err)
	assert.NotNil(t, out.Deadline, "un deadline vacío no cambia nada")

	_, err = f.uc.Transition(ctx, f.admin, req.ID, dto.TransitionRequest{Deadline: "2024-06-01T12:00", ClearDeadline: true})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	out, err = f.uc.Transition(ctx, f.admin, req.ID, dto.TransitionRequest{ClearDeadline: true})
	require.NoError(t, err)
	assert.Nil(t, out.Deadline)
	assert.Equal(t, string(entity.RequestInProgress), out.Status)
}

func TestTransition_Prohibida(t *testing.T) {
	f := newRequestFixture(t)
	ctx := context.Background()
	req := f.create(t)

	_, err := f.uc.Transition(ctx, f.client, req.ID, dto.TransitionRequest{Status: "completed"})
	assert.ErrorIs(t, err, domain.ErrForbidden, "el propietario solo puede leer")

	_, err = f.uc.Transition(ctx, f.other, req.ID, dto.TransitionRequest{Status: "completed"})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = f.uc.Transition(ctx, nil, req.ID, dto.TransitionRequest{Status: "completed"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = f.uc.Transition(ctx, f.admin, req.ID, dto.TransitionRequest{Status: "done"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.uc.Transition(ctx, f.admin, "missing", dto.TransitionRequest{Status: "completed"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGetRequest_ReglaDeLectura(t *testing.T) {
	f := newRequestFixture(t)
	ctx := context.Background()
	req := f.create(t)

	got, err := f.uc.Get(ctx, f.client, req.ID)
	require.NoError(t, err)
	assert.Equal(t, req.ID, got.Request.ID)
	assert.Empty(t, got.Deliverables)

	_, err = f.uc.Get(ctx, f.info, req.ID)
	assert.NoError(t, err)

	_, err = f.uc.Get(ctx, f.other, req.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = f.uc.Get(ctx, nil, req.ID)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestListRequests_Filtros(t *testing.T) {
	f := newRequestFixture(t)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		f.create(t)
		f.clock.Advance(time.Minute)
	}
	_, err := f.uc.Create(ctx, f.other, dto.CreateServiceRequest{ServiceID: f.service.ID, Title: "Réseau", Description: "Câblage"})
	require.NoError(t, err)

	mine, err := f.uc.ListForClient(ctx, f.client, 0)
	require.NoError(t, err)
	require.Len(t, mine, 3)
	assert.True(t, !mine[0].CreatedAt.Before(mine[2].CreatedAt), "más recientes primero")

	_, err = f.uc.ListAll(ctx, f.client, dto.RequestListQuery{})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	all, err := f.uc.ListAll(ctx, f.admin, dto.RequestListQuery{Search: "câblage"})
	require.NoError(t, err)
	assert.Equal(t, 1, all.Page.Total)

	page, err := f.uc.ListAll(ctx, f.qhse, dto.RequestListQuery{PageRequest: dto.PageRequest{Limit: 2}})
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, 4, page.Page.Total)

	scoped, err := f.uc.ListScoped(ctx, f.other, dto.RequestListQuery{})
	require.NoError(t, err)
	require.Len(t, scoped.Items, 1)
	assert.True(t, strings.HasPrefix(scoped.Items[0].Title, "Réseau"))
}

func TestDeleteRequest_SoloAdmin(t *testing.T) {
	f := newRequestFixture(t)
	ctx := context.Background()
	req := f.create(t)

	assert.ErrorIs(t, f.uc.Delete(ctx, f.qhse, req.ID), domain.ErrForbidden)
	require.NoError(t, f.uc.Delete(ctx, f.admin, req.ID))
	assert.Zero(t, f.store.RequestCount())
	assert.ErrorIs(t, f.uc.Delete(ctx, f.admin, req.ID), domain.ErrNotFound)
}

func TestParseDeadline_Formatos(t *testing.T) {
	got, err := workflow.ParseDeadline("")
	require.NoError(t, err)
	assert.Nil(t, got)

	for _, in := range []string{"2024-05-01T12:00:00Z", "2024-05-01T12:00", "2024-05-01"} {
		got, err := workflow.ParseDeadline(in)
		require.NoError(t, err, in)
		assert.Equal(t, time.May, got.Month())
	}

	_, err = workflow.ParseDeadline("01/05/2024")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

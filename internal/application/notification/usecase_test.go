package notification_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uranusgroup/uranus-web/internal/application/apptest"
	"github.com/uranusgroup/uranus-web/internal/application/dto"
	"github.com/uranusgroup/uranus-web/internal/application/notification"
	"github.com/uranusgroup/uranus-web/internal/domain"
	"github.com/uranusgroup/uranus-web/internal/domain/entity"
)

func TestMarkAllRead_Idempotente(t *testing.T) {
	s := apptest.NewStore()
	u := s.AddUser("u1", "acme", entity.RoleClient)
	uc := notification.NewUseCase(s.Notifications(), s.Users(), nil)
	ctx := context.Background()

	fan := notification.Fanout{Users: s.Users(), Notes: s.Notifications()}
	assert.Equal(t, 3, fan.ToUsers(ctx, []string{u.ID, u.ID, ""}, "a", "b", entity.NotificationInfo)+
		fan.ToUsers(ctx, []string{u.ID}, "c", "d", entity.NotificationWarning)+
		fan.ToUsers(ctx, []string{u.ID}, "e", "f", entity.NotificationError))

	n, err := uc.UnreadCount(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	require.NoError(t, uc.MarkAllRead(ctx, u.ID))
	list, err := uc.List(ctx, u.ID, false, dto.PageRequest{})
	require.NoError(t, err)
	assert.Zero(t, list.Unread)
	assert.Len(t, list.Items, 3)
	for _, it := range list.Items {
		assert.True(t, it.Read)
	}

	require.NoError(t, uc.MarkAllRead(ctx, u.ID))
	again, err := uc.List(ctx, u.ID, false, dto.PageRequest{})
	require.NoError(t, err)
	assert.Equal(t, list, again, "repetir mark_all_read equivale a hacerlo una vez")

	unread, err := uc.List(ctx, u.ID, true, dto.PageRequest{})
	require.NoError(t, err)
	assert.Empty(t, unread.Items)
}

func TestMarkRead_SoloPropias(t *testing.T) {
	s := apptest.NewStore()
	a := s.AddUser("u1", "acme", entity.RoleClient)
	b := s.AddUser("u2", "globex", entity.RoleClient)
	uc := notification.NewUseCase(s.Notifications(), s.Users(), nil)
	ctx := context.Background()

	notification.Fanout{Users: s.Users(), Notes: s.Notifications()}.
		ToUsers(ctx, []string{a.ID}, "t", "m", entity.NotificationInfo)
	id := s.NotificationsFor(a.ID)[0].ID

	assert.ErrorIs(t, uc.MarkRead(ctx, b.ID, id), domain.ErrNotFound)
	require.NoError(t, uc.MarkRead(ctx, a.ID, id))
	require.NoError(t, uc.MarkRead(ctx, a.ID, id))

	n, err := uc.UnreadCount(ctx, a.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestFanout_LoteYFalloParcial(t *testing.T) {
	s := apptest.NewStore()
	total := notification.BatchSize + 20
	for i := 0; i < total; i++ {
		s.AddUser(fmt.Sprintf("m%04d", i), fmt.Sprintf("mgr%d", i), entity.RoleManagerInfo)
	}
	s.AddUser("c1", "client", entity.RoleClient)
	s.FailNotificationsFor["m0003"] = true

	f := notification.Fanout{Users: s.Users(), Notes: s.Notifications()}
	created := f.ToRoles(context.Background(), entity.StaffRoles, "t", "m", entity.NotificationInfo)

	assert.Equal(t, total-1, created)
	assert.Empty(t, s.NotificationsFor("m0003"))
	assert.Len(t, s.NotificationsFor("m0004"), 1)
	assert.Empty(t, s.NotificationsFor("c1"))
}

func TestListAllYDelete_SoloAdmin(t *testing.T) {
	s := apptest.NewStore()
	admin := s.AddUser("a1", "root", entity.RoleAdmin)
	client := s.AddUser("c1", "acme", entity.RoleClient)
	uc := notification.NewUseCase(s.Notifications(), s.Users(), nil)
	ctx := context.Background()
	notification.Fanout{Users: s.Users(), Notes: s.Notifications()}.
		ToUsers(ctx, []string{admin.ID, client.ID}, "t", "m", entity.NotificationInfo)

	_, _, err := uc.ListAll(ctx, client, dto.PageRequest{})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	items, total, err := uc.ListAll(ctx, admin, dto.PageRequest{})
	require.NoError(t, err)
	assert.Equal(t, 2, total)

	assert.ErrorIs(t, uc.Delete(ctx, nil, items[0].ID), domain.ErrUnauthorized)
	require.NoError(t, uc.Delete(ctx, admin, items[0].ID))
	_, total, err = uc.ListAll(ctx, admin, dto.PageRequest{})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
}

func TestNotify_AvisoManualDelAdmin(t *testing.T) {
	s := apptest.NewStore()
	admin := s.AddUser("a1", "root", entity.RoleAdmin)
	mgr := s.AddUser("m1", "qhse", entity.RoleManagerQHSE)
	client := s.AddUser("c1", "acme", entity.RoleClient)
	uc := notification.NewUseCase(s.Notifications(), s.Users(), nil)
	ctx := context.Background()

	id, err := uc.Notify(ctx, admin, dto.NotifyRequest{
		UserID: client.ID, Title: "  Maintenance  ", Message: "Coupure samedi", Type: "warning",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	notes := s.NotificationsFor(client.ID)
	require.Len(t, notes, 1)
	assert.Equal(t, id, notes[0].ID)
	assert.Equal(t, "Maintenance", notes[0].Title)
	assert.Equal(t, entity.NotificationWarning, notes[0].Type)
	assert.False(t, notes[0].Read)

	_, err = uc.Notify(ctx, mgr, dto.NotifyRequest{UserID: client.ID, Title: "t", Message: "m", Type: "info"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestNotify_TipoDesconocidoRechazado(t *testing.T) {
	s := apptest.NewStore()
	admin := s.AddUser("a1", "root", entity.RoleAdmin)
	client := s.AddUser("c1", "acme", entity.RoleClient)
	uc := notification.NewUseCase(s.Notifications(), s.Users(), nil)
	ctx := context.Background()

	_, err := uc.Notify(ctx, admin, dto.NotifyRequest{UserID: client.ID, Title: "t", Message: "m", Type: "bogus"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Notify(ctx, admin, dto.NotifyRequest{UserID: "inexistente", Title: "t", Message: "m", Type: "info"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Notify(ctx, admin, dto.NotifyRequest{UserID: client.ID, Title: "   ", Message: "m", Type: "info"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	assert.Empty(t, s.NotificationsFor(client.ID))
}

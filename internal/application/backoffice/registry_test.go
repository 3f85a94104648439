package backoffice_test

import (
	"context"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uranusgroup/uranus-web/internal/application/apptest"
	"github.com/uranusgroup/uranus-web/internal/application/backoffice"
	"github.com/uranusgroup/uranus-web/internal/application/dto"
	"github.com/uranusgroup/uranus-web/internal/domain"
	"github.com/uranusgroup/uranus-web/internal/domain/entity"
	"github.com/uranusgroup/uranus-web/internal/domain/repository"
)

// bindTo simula c.BodyParser copiando un DTO ya relleno.
func bindTo[T any](v T) func(any) error {
	return func(dst any) error {
		*(dst.(*T)) = v
		return nil
	}
}

func TestRegistry_RecursosRegistrados(t *testing.T) {
	app := apptest.NewApp()

	var names []string
	for _, r := range app.Registry.All() {
		names = append(names, r.Name)
		assert.NotNil(t, r.List, r.Name)
		assert.NotNil(t, r.Delete, r.Name)
		assert.NotEmpty(t, r.Columns, r.Name)
		if r.CanEdit {
			assert.NotNil(t, r.Get, r.Name)
			assert.NotNil(t, r.Save, r.Name)
		}
	}
	assert.Equal(t, []string{
		"users", "service-categories", "services", "service-requests", "deliverables", "tickets",
		"notifications", "blog-categories", "articles", "slider", "team", "testimonials",
		"certifications", "contact-messages",
	}, names)

	req, ok := app.Registry.Get("service-requests")
	require.True(t, ok)
	assert.False(t, req.CanCreate, "las solicitudes solo las crean los clientes")

	_, ok = app.Registry.Get("inexistente")
	assert.False(t, ok)
}

func TestRegistry_RegistroDuplicadoPanics(t *testing.T) {
	reg := backoffice.NewEmptyRegistry()
	reg.Register(&backoffice.Resource{Name: "x"})
	assert.Panics(t, func() { reg.Register(&backoffice.Resource{Name: "x"}) })
}

func TestRegistry_SoloAdmin(t *testing.T) {
	app := apptest.NewApp()
	qhse := app.Store.AddUser("u-qhse", "qhse", entity.RoleManagerQHSE)
	ctx := context.Background()

	for _, name := range []string{"users", "articles", "blog-categories", "team", "certifications", "contact-messages"} {
		res, _ := app.Registry.Get(name)
		_, err := res.List(ctx, qhse, backoffice.ListQuery{})
		assert.ErrorIs(t, err, domain.ErrForbidden, name)
		_, err = res.List(ctx, nil, backoffice.ListQuery{})
		assert.ErrorIs(t, err, domain.ErrUnauthorized, name)
	}
}

func TestRegistry_ServiciosCRUD(t *testing.T) {
	app := apptest.NewApp()
	admin := app.Store.AddUser("u-admin", "admin", entity.RoleAdmin)
	app.Store.AddCategory("c-it", "Informatique", "informatique")
	ctx := context.Background()
	res, _ := app.Registry.Get("services")

	id, err := res.Save(ctx, admin, "", bindTo(dto.ServiceRequestBody{
		CategoryID:        "c-it",
		Name:              "Audit réseau",
		ShortDescription:  "Audit",
		FullDescription:   "Audit complet",
		PriceStartingFrom: "1500",
		Status:            entity.ServiceStatusActive,
	}))
	require.NoError(t, err)
	require.NotEmpty(t, id)

	list, err := res.List(ctx, admin, backoffice.ListQuery{Filter: entity.ServiceStatusActive, Search: "réseau", Page: repository.Page{Limit: 20}})
	require.NoError(t, err)
	require.Equal(t, 1, list.Total)
	assert.Equal(t, id, list.Rows[0].ID)
	assert.Equal(t, []string{"Audit réseau", "Informatique", "1500.00", "", "active", "Non", "0"}, list.Rows[0].Cells)

	values, err := res.Get(ctx, admin, id)
	require.NoError(t, err)
	assert.Equal(t, "audit-reseau", values["slug"])
	assert.Equal(t, "1500", values["price_starting_from"])

	fields, err := res.ResolvedFields(ctx, admin)
	require.NoError(t, err)
	require.Equal(t, "category_id", fields[0].Name)
	assert.Equal(t, []backoffice.Option{{Value: "", Label: "---------"}, {Value: "c-it", Label: "Informatique"}}, fields[0].Options)

	require.NoError(t, res.Delete(ctx, admin, id))
	_, err = res.Get(ctx, admin, id)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRegistry_SolicitudPasaPorElFlujo(t *testing.T) {
	app := apptest.NewApp()
	admin := app.Store.AddUser("u-admin", "admin", entity.RoleAdmin)
	qhse := app.Store.AddUser("u-qhse", "qhse", entity.RoleManagerQHSE)
	client := app.Store.AddUser("u-client", "acme", entity.RoleClient)
	app.Store.AddCategory("c-qhse", "QHSE", "qhse")
	app.Store.AddService("s-audit", "c-qhse", "Audit QHSE", entity.ServiceStatusActive)
	ctx := context.Background()

	created, err := app.Requests.Create(ctx, client, dto.CreateServiceRequest{ServiceID: "s-audit", Title: "Audit", Description: "Site A"})
	require.NoError(t, err)

	res, _ := app.Registry.Get("service-requests")
	_, err = res.Save(ctx, admin, created.ID, bindTo(dto.TransitionRequest{Status: "completed", AssignedTo: qhse.ID}))
	require.NoError(t, err)

	values, err := res.Get(ctx, admin, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "completed", values["status"])
	assert.Equal(t, qhse.ID, values["assigned_to"])

	// select vacío = sin responsable
	_, err = res.Save(ctx, admin, created.ID, bindTo(dto.TransitionRequest{}))
	require.NoError(t, err)
	values, err = res.Get(ctx, admin, created.ID)
	require.NoError(t, err)
	assert.Empty(t, values["assigned_to"])
	assert.Equal(t, "completed", values["status"])

	fields, err := res.ResolvedFields(ctx, admin)
	require.NoError(t, err)
	var staff []string
	for _, o := range fields[1].Options {
		staff = append(staff, o.Value)
	}
	assert.ElementsMatch(t, []string{"", admin.ID, qhse.ID}, staff)
}

func TestRegistry_ContactoCambiaEstado(t *testing.T) {
	app := apptest.NewApp()
	admin := app.Store.AddUser("u-admin", "admin", entity.RoleAdmin)
	ctx := context.Background()

	sent, err := app.Contact.Submit(ctx, dto.ContactRequest{Name: "Jane", Email: "jane@x.com", Subject: "Devis", Message: "Bonjour"})
	require.NoError(t, err)

	res, _ := app.Registry.Get("contact-messages")
	list, err := res.List(ctx, admin, backoffice.ListQuery{Filter: entity.ContactNew})
	require.NoError(t, err)
	assert.Equal(t, 1, list.Total)

	values, err := res.Get(ctx, admin, sent.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.ContactRead, values["status"], "abrir un mensaje nuevo lo marca como leído")

	_, err = res.Save(ctx, admin, sent.ID, func(dst any) error {
		reflect.ValueOf(dst).Elem().FieldByName("Status").SetString(entity.ContactReplied)
		return nil
	})
	require.NoError(t, err)
	values, err = res.Get(ctx, admin, sent.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.ContactReplied, values["status"])
}

func TestRegistry_AvisoManualAUnUsuario(t *testing.T) {
	app := apptest.NewApp()
	admin := app.Store.AddUser("u-admin", "admin", entity.RoleAdmin)
	client := app.Store.AddUser("u-client", "acme", entity.RoleClient)
	ctx := context.Background()

	res, ok := app.Registry.Get("notifications")
	require.True(t, ok)
	assert.True(t, res.CanCreate)

	fields, err := res.ResolvedFields(ctx, admin)
	require.NoError(t, err)
	require.Equal(t, "user_id", fields[0].Name)
	assert.Len(t, fields[0].Options, 3, "opción vacía más los dos usuarios")

	id, err := res.Save(ctx, admin, "", bindTo(dto.NotifyRequest{
		UserID: client.ID, Title: "Rappel", Message: "Votre rapport est prêt", Type: "success",
	}))
	require.NoError(t, err)
	notes := app.Store.NotificationsFor(client.ID)
	require.Len(t, notes, 1)
	assert.Equal(t, id, notes[0].ID)

	_, err = res.Save(ctx, admin, "", bindTo(dto.NotifyRequest{
		UserID: client.ID, Title: "Rappel", Message: "x", Type: "urgent",
	}))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Len(t, app.Store.NotificationsFor(client.ID), 1)
}

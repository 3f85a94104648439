package http_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uranusgroup/uranus-web/internal/application/dto"
)

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	resp := s.api(http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, bodyString(t, resp), `"ok"`)
}

func TestAPI_RegistroLoginYMe(t *testing.T) {
	s := newTestServer(t)

	resp := s.api(http.MethodPost, "/api/auth/register", nil, map[string]string{
		"username": "newco", "email": "contact@newco.test",
		"password": "motdepasse1", "password_confirm": "motdepasse1",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	user := decode[dto.UserResponse](t, resp)
	assert.Equal(t, "client", user.Role, "el registro público siempre crea clientes")

	resp = s.api(http.MethodPost, "/api/auth/login", nil, map[string]string{"login": "contact@newco.test", "password": "motdepasse1"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	login := decode[dto.LoginResponse](t, resp)
	require.NotEmpty(t, login.Token)

	req, _ := http.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+login.Token)
	resp = s.send(req)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	me := decode[dto.UserResponse](t, resp)
	assert.Equal(t, "newco", me.Username)
}

func TestAPI_RegistroPasswordsDistintas(t *testing.T) {
	s := newTestServer(t)
	resp := s.api(http.MethodPost, "/api/auth/register", nil, map[string]string{
		"username": "newco", "email": "contact@newco.test",
		"password": "motdepasse1", "password_confirm": "autrechose",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, bodyString(t, resp), "PASSWORD_MISMATCH")
}

func TestAPI_LoginIncorrecto(t *testing.T) {
	s := newTestServer(t)
	resp := s.api(http.MethodPost, "/api/auth/login", nil, map[string]string{"login": "acme", "password": "mauvais"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAPI_Me_SinToken(t *testing.T) {
	s := newTestServer(t)
	resp := s.api(http.MethodGet, "/api/auth/me", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, bodyString(t, resp), "MISSING_TOKEN")
}

func TestAPI_CatalogoPublico(t *testing.T) {
	s := newTestServer(t)

	resp := s.api(http.MethodGet, "/api/services", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decode[dto.ServiceListResponse](t, resp)
	require.Len(t, list.Items, 1)
	assert.Equal(t, serviceID, list.Items[0].ID)

	resp = s.api(http.MethodGet, "/api/services/"+serviceID, nil, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = s.api(http.MethodGet, "/api/services/no-es-un-uuid", nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func createRequest(t *testing.T, s *testServer) dto.ServiceRequestResponse {
	t.Helper()
	resp := s.api(http.MethodPost, "/api/requests", s.client, map[string]string{
		"service_id": serviceID, "title": "Audit annuel", "description": "Audit complet du SMQ",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return decode[dto.ServiceRequestResponse](t, resp)
}

func TestAPI_CrearSolicitudNotificaAlStaff(t *testing.T) {
	s := newTestServer(t)
	req := createRequest(t, s)

	assert.Equal(t, "pending", req.Status)
	assert.Equal(t, "medium", req.Priority)
	assert.NotEmpty(t, s.deps.Store.NotificationsFor(qhseID))
	assert.NotEmpty(t, s.deps.Store.NotificationsFor(adminID))
	assert.Empty(t, s.deps.Store.NotificationsFor(clientID))
}

func TestAPI_SolicitudAjenaProhibida(t *testing.T) {
	s := newTestServer(t)
	req := createRequest(t, s)

	resp := s.api(http.MethodGet, "/api/requests/"+req.ID, s.other, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = s.api(http.MethodGet, "/api/requests/"+req.ID, s.client, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAPI_TransicionSoloStaffYCompletedAtUnaVez(t *testing.T) {
	s := newTestServer(t)
	req := createRequest(t, s)

	resp := s.api(http.MethodPatch, "/api/requests/"+req.ID+"/status", s.client, map[string]string{"status": "completed"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode, "el propietario no cambia el estado")

	resp = s.api(http.MethodPatch, "/api/requests/"+req.ID+"/status", s.qhse, map[string]string{"status": "completed"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	first := decode[dto.ServiceRequestResponse](t, resp)
	require.NotNil(t, first.CompletedAt)

	resp = s.api(http.MethodPatch, "/api/requests/"+req.ID+"/status", s.qhse, map[string]string{"status": "in_progress"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp = s.api(http.MethodPatch, "/api/requests/"+req.ID+"/status", s.qhse, map[string]string{"status": "completed"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	second := decode[dto.ServiceRequestResponse](t, resp)
	require.NotNil(t, second.CompletedAt)
	assert.True(t, first.CompletedAt.Equal(*second.CompletedAt))
}

func TestAPI_EntregableSubidaYDescarga(t *testing.T) {
	s := newTestServer(t)
	req := createRequest(t, s)

	resp := s.upload("/api/requests/"+req.ID+"/deliverables", s.qhse, map[string]string{"name": "Rapport d'audit"}, "rapport.txt", []byte("contenu du rapport"))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	d := decode[dto.DeliverableResponse](t, resp)
	assert.Equal(t, "rapport.txt", d.FileName)
	assert.Equal(t, 1, s.deps.Storage.Len())

	resp = s.api(http.MethodGet, "/api/deliverables/"+d.ID+"/download", s.client, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "rapport.txt")
	assert.Equal(t, "contenu du rapport", bodyString(t, resp))

	resp = s.api(http.MethodGet, "/api/deliverables/"+d.ID+"/download", s.other, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestAPI_SubidaSinArchivo(t *testing.T) {
	s := newTestServer(t)
	req := createRequest(t, s)

	resp := s.api(http.MethodPost, "/api/requests/"+req.ID+"/deliverables", s.qhse, map[string]string{"name": "vide"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAPI_PDFDeSolicitud(t *testing.T) {
	s := newTestServer(t)
	req := createRequest(t, s)

	resp := s.api(http.MethodGet, "/api/requests/"+req.ID+"/pdf", s.qhse, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "demande_"+req.ID+".pdf")

	resp = s.api(http.MethodGet, "/api/requests/"+req.ID+"/pdf", s.client, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestAPI_TicketPrimerMensajeDelStaffLoAsigna(t *testing.T) {
	s := newTestServer(t)

	resp := s.api(http.MethodPost, "/api/tickets", s.client, map[string]string{"subject": "Accès VPN", "description": "Impossible de se connecter"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	ticket := decode[dto.TicketResponse](t, resp)
	assert.Equal(t, "open", ticket.Status)

	resp = s.api(http.MethodPost, "/api/tickets/"+ticket.ID+"/messages", s.admin, map[string]string{"message": "Nous regardons."})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = s.api(http.MethodGet, "/api/tickets/"+ticket.ID, s.client, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	detail := decode[dto.TicketDetailResponse](t, resp)
	assert.Equal(t, "in_progress", detail.Ticket.Status)
	require.NotNil(t, detail.Ticket.AssignedTo)
	assert.Equal(t, adminID, *detail.Ticket.AssignedTo)
	require.Len(t, detail.Messages, 1)
	assert.True(t, detail.Messages[0].IsStaff)
}

func TestAPI_ContactoPersisteYEnviaDosCorreos(t *testing.T) {
	s := newTestServer(t)
	resp := s.api(http.MethodPost, "/api/contact", nil, map[string]string{
		"name": "Jean", "email": "jean@client.test", "subject": "Devis", "message": "Bonjour",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, 1, s.deps.Store.ContactCount())
	assert.Len(t, s.deps.Mailer.Attempts, 2)
}

func TestAPI_ContactoConCorreoCaidoSigueSiendoValido(t *testing.T) {
	s := newTestServer(t)
	s.deps.Mailer.Fail = true
	resp := s.api(http.MethodPost, "/api/contact", nil, map[string]string{
		"name": "Jean", "email": "jean@client.test", "subject": "Devis", "message": "Bonjour",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, 1, s.deps.Store.ContactCount())
}

func TestAPI_NotificacionesMarcarTodas(t *testing.T) {
	s := newTestServer(t)
	createRequest(t, s)
	createRequest(t, s)

	resp := s.api(http.MethodGet, "/api/notifications?unread=true", s.qhse, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decode[dto.NotificationListResponse](t, resp)
	assert.Equal(t, 2, list.Unread)

	resp = s.api(http.MethodPost, "/api/notifications/"+list.Items[0].ID+"/read", s.qhse, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = s.api(http.MethodPost, "/api/notifications/read-all", s.qhse, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = s.api(http.MethodGet, "/api/notifications", s.qhse, nil)
	list = decode[dto.NotificationListResponse](t, resp)
	assert.Equal(t, 0, list.Unread)
	assert.Len(t, list.Items, 2)
}

func TestAPI_RutaDesconocidaDevuelveJSON(t *testing.T) {
	s := newTestServer(t)
	resp := s.api(http.MethodGet, "/api/nada", nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "application/json")
}

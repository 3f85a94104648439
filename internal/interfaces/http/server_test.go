package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/uranusgroup/uranus-web/internal/application/apptest"
	"github.com/uranusgroup/uranus-web/internal/domain/entity"
	apphttp "github.com/uranusgroup/uranus-web/internal/interfaces/http"
)

// UUIDs fijos: las rutas con :id exigen formato GUID.
const (
	adminID   = "11111111-1111-1111-1111-111111111111"
	qhseID    = "22222222-2222-2222-2222-222222222222"
	clientID  = "33333333-3333-3333-3333-333333333333"
	otherID   = "44444444-4444-4444-4444-444444444444"
	catID     = "55555555-5555-5555-5555-555555555555"
	serviceID = "66666666-6666-6666-6666-666666666666"
)

type testServer struct {
	t      *testing.T
	deps   *apptest.App
	app    *fiber.App
	admin  *entity.User
	qhse   *entity.User
	client *entity.User
	other  *entity.User
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	deps := apptest.NewApp()
	s := &testServer{
		t:      t,
		deps:   deps,
		admin:  deps.Store.AddUser(adminID, "admin", entity.RoleAdmin),
		qhse:   deps.Store.AddUser(qhseID, "qhse", entity.RoleManagerQHSE),
		client: deps.Store.AddUser(clientID, "acme", entity.RoleClient),
		other:  deps.Store.AddUser(otherID, "globex", entity.RoleClient),
	}
	deps.Store.AddCategory(catID, "QHSE", entity.CategorySlugQHSE)
	deps.Store.AddService(serviceID, catID, "Audit ISO 9001", entity.ServiceStatusActive)

	s.app = fiber.New(fiber.Config{Views: apphttp.NewViews()})
	apphttp.Router(s.app, apphttp.RouterDeps{
		AuthUC:        deps.Auth,
		Catalog:       deps.Catalog,
		Blog:          deps.Blog,
		Site:          deps.Site,
		Requests:      deps.Requests,
		Deliverables:  deps.Deliverables,
		Tickets:       deps.Tickets,
		Notifications: deps.Notifications,
		Contact:       deps.Contact,
		Dashboard:     deps.Dashboard,
		PDF:           deps.PDF,
		Registry:      deps.Registry,
		Info:          apphttp.SiteInfo{Title: "Uranus Group", Header: "Administration Uranus Group", IndexTitle: "Tableau de bord"},
		JWTSecret:     apptest.TestJWTSecret,
	})
	return s
}

func (s *testServer) send(req *http.Request) *http.Response {
	s.t.Helper()
	resp, err := s.app.Test(req, -1)
	require.NoError(s.t, err)
	s.t.Cleanup(func() { resp.Body.Close() })
	return resp
}

// api petición JSON con Bearer opcional.
func (s *testServer) api(method, path string, as *entity.User, body interface{}) *http.Response {
	s.t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if as != nil {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+s.deps.Token(as))
	}
	return s.send(req)
}

// page GET de una página con la cookie de sesión de as.
func (s *testServer) page(path string, as *entity.User) *http.Response {
	s.t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	s.withSession(req, as)
	return s.send(req)
}

// post formulario urlencoded con la cookie de sesión de as.
func (s *testServer) post(path string, as *entity.User, form url.Values) *http.Response {
	s.t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationForm)
	s.withSession(req, as)
	return s.send(req)
}

// upload formulario multipart con un archivo en el campo "file".
func (s *testServer) upload(path string, as *entity.User, fields map[string]string, fileName string, content []byte) *http.Response {
	s.t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(s.t, w.WriteField(k, v))
	}
	fw, err := w.CreateFormFile("file", fileName)
	require.NoError(s.t, err)
	_, err = fw.Write(content)
	require.NoError(s.t, err)
	require.NoError(s.t, w.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set(fiber.HeaderContentType, w.FormDataContentType())
	s.withSession(req, as)
	return s.send(req)
}

func (s *testServer) withSession(req *http.Request, as *entity.User) {
	if as != nil {
		req.AddCookie(&http.Cookie{Name: apphttp.SessionCookie, Value: s.deps.Token(as)})
	}
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func bodyString(t *testing.T, resp *http.Response) string {
	t.Helper()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(raw)
}

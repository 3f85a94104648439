//go:build integration

package postgres

import (
	"context"
	"fmt"
	"log"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/uranusgroup/uranus-web/internal/application/workflow"
	"github.com/uranusgroup/uranus-web/internal/domain"
	"github.com/uranusgroup/uranus-web/internal/domain/entity"
	"github.com/uranusgroup/uranus-web/internal/domain/repository"
	"github.com/uranusgroup/uranus-web/pkg/config"
)

var testPool *pgxpool.Pool

// TestMain levanta PostgreSQL (o usa TEST_DATABASE_URL), aplica las migraciones embebidas y abre el pool.
func TestMain(m *testing.M) {
	ctx := context.Background()
	dsn := os.Getenv("TEST_DATABASE_URL")
	var container testcontainers.Container
	if dsn == "" {
		req := testcontainers.ContainerRequest{
			Image: "postgres:16-alpine",
			Env: map[string]string{
				"POSTGRES_PASSWORD": "test",
				"POSTGRES_USER":     "test",
				"POSTGRES_DB":       "uranus",
			},
			ExposedPorts: []string{"5432/tcp"},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).WithStartupTimeout(60 * time.Second),
		}
		var err error
		container, err = testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
			ContainerRequest: req,
			Started:          true,
		})
		if err != nil {
			log.Fatal(err)
		}
		host, err := container.Host(ctx)
		if err != nil {
			log.Fatal(err)
		}
		port, err := container.MappedPort(ctx, "5432")
		if err != nil {
			log.Fatal(err)
		}
		dsn = fmt.Sprintf("postgres://test:test@%s:%s/uranus?sslmode=disable", host, port.Port())
	}

	mg, err := NewMigrator(dsn, nil)
	if err != nil {
		log.Fatal(err)
	}
	if err := mg.Up(); err != nil {
		log.Fatal(err)
	}
	_ = mg.Close()

	testPool, err = NewPool(ctx, config.DBConfig{DatabaseURL: dsn})
	if err != nil {
		log.Fatal(err)
	}

	code := m.Run()
	testPool.Close()
	if container != nil {
		_ = container.Terminate(ctx)
	}
	os.Exit(code)
}

func truncateAll(t *testing.T) {
	t.Helper()
	_, err := testPool.Exec(context.Background(), `TRUNCATE users, service_categories, services, service_requests,
		deliverables, support_tickets, ticket_messages, notifications, blog_categories, articles, slider_items,
		team_members, testimonials, certifications, contact_messages CASCADE`)
	require.NoError(t, err)
}

func newUser(t *testing.T, username string, role entity.Role) *entity.User {
	t.Helper()
	now := time.Now().UTC().Truncate(time.Microsecond)
	u := &entity.User{
		ID: uuid.New().String(), Username: username, Email: username + "@example.com",
		PasswordHash: "hash", Role: role, IsActive: true, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, NewUserRepository(testPool).Create(context.Background(), u))
	return u
}

func newService(t *testing.T, slug string) *entity.Service {
	t.Helper()
	ctx := context.Background()
	now := time.Now().UTC()
	cat := &entity.ServiceCategory{ID: uuid.New().String(), Name: "QHSE " + slug, Slug: "qhse-" + slug,
		Color: entity.DefaultCategoryColor, IsActive: true, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, NewServiceCategoryRepository(testPool).Create(ctx, cat))
	s := &entity.Service{
		ID: uuid.New().String(), CategoryID: cat.ID, Name: "Audit " + slug, Slug: slug,
		PriceStartingFrom: decimal.NewNullDecimal(decimal.RequireFromString("1500.50")),
		Status:            entity.ServiceStatusActive, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, NewServiceRepository(testPool).Create(ctx, s))
	return s
}

func TestUserRepo_UnicoSinDistinguirMayusculas(t *testing.T) {
	truncateAll(t)
	ctx := context.Background()
	repo := NewUserRepository(testPool)
	u := newUser(t, "Jane", entity.RoleClient)

	got, err := repo.GetByUsername(ctx, "jane")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, u.ID, got.ID)

	dup := *u
	dup.ID = uuid.New().String()
	dup.Email = "other@example.com"
	dup.Username = "JANE"
	assert.ErrorIs(t, repo.Create(ctx, &dup), domain.ErrUsernameTaken)

	dup.Username = "other"
	dup.Email = "JANE@example.com"
	assert.ErrorIs(t, repo.Create(ctx, &dup), domain.ErrEmailAlreadyExists)

	missing, err := repo.GetByID(ctx, uuid.New().String())
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestUserRepo_ActivosPorRol(t *testing.T) {
	truncateAll(t)
	ctx := context.Background()
	newUser(t, "admin", entity.RoleAdmin)
	newUser(t, "qhse", entity.RoleManagerQHSE)
	newUser(t, "client", entity.RoleClient)
	inactive := newUser(t, "old", entity.RoleManagerInfo)
	inactive.IsActive = false
	require.NoError(t, NewUserRepository(testPool).Update(ctx, inactive))

	staff, err := NewUserRepository(testPool).ListActiveByRoles(ctx, entity.StaffRoles, repository.Page{Limit: 10})
	require.NoError(t, err)
	assert.Len(t, staff, 2)
}

func TestServiceRepo_ListadoYReferencias(t *testing.T) {
	truncateAll(t)
	ctx := context.Background()
	s := newService(t, "iso-9001")
	client := newUser(t, "client", entity.RoleClient)
	repo := NewServiceRepository(testPool)

	list, total, err := repo.List(ctx, repository.ServiceFilter{Search: "audit", Status: entity.ServiceStatusActive})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, list, 1)
	require.NotNil(t, list[0].Category)
	assert.Equal(t, "qhse-iso-9001", list[0].Category.Slug)
	assert.True(t, list[0].PriceStartingFrom.Decimal.Equal(decimal.RequireFromString("1500.5")))

	now := time.Now().UTC()
	req := &entity.ServiceRequest{ID: uuid.New().String(), ServiceID: s.ID, ClientID: client.ID, Title: "Audit",
		Description: "desc", Status: entity.RequestPending, Priority: entity.PriorityMedium, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, NewServiceRequestRepository(testPool).Create(ctx, req))

	ref, err := repo.IsReferenced(ctx, s.ID)
	require.NoError(t, err)
	assert.True(t, ref)
	assert.ErrorIs(t, repo.Delete(ctx, s.ID), domain.ErrConflict)

	got, err := NewServiceRequestRepository(testPool).GetByID(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, "Audit iso-9001", got.ServiceName)
	assert.Equal(t, "client", got.ClientUsername)
	assert.Nil(t, got.AssignedTo)
	assert.Empty(t, got.AssigneeUsername)
}

func TestNotificationRepo_LoteConservaFilasValidas(t *testing.T) {
	truncateAll(t)
	ctx := context.Background()
	a := newUser(t, "a", entity.RoleAdmin)
	b := newUser(t, "b", entity.RoleManagerQHSE)
	now := time.Now().UTC()
	mk := func(userID string) *entity.Notification {
		return &entity.Notification{ID: uuid.New().String(), UserID: userID, Title: "t", Message: "m",
			Type: entity.NotificationInfo, CreatedAt: now}
	}

	err := NewTxRunner(testPool).RunWorkflow(ctx, func(repos workflow.Repos) error {
		n, err := repos.Notifications.CreateMany(ctx, []*entity.Notification{mk(a.ID), mk(uuid.New().String()), mk(b.ID)})
		assert.Equal(t, 2, n)
		assert.Error(t, err)
		return nil
	})
	require.NoError(t, err)

	repo := NewNotificationRepository(testPool)
	unread, err := repo.CountUnread(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, unread)

	changed, err := repo.MarkAllRead(ctx, a.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, changed)
	changed, err = repo.MarkAllRead(ctx, a.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, changed)
}

func TestTicketRepo_Mensajes(t *testing.T) {
	truncateAll(t)
	ctx := context.Background()
	client := newUser(t, "client", entity.RoleClient)
	staff := newUser(t, "staff", entity.RoleManagerInfo)
	repo := NewTicketRepository(testPool)
	now := time.Now().UTC()

	tk := &entity.SupportTicket{ID: uuid.New().String(), UserID: client.ID, Subject: "Accès", Description: "d",
		Status: entity.TicketOpen, Priority: entity.PriorityHigh, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, repo.Create(ctx, tk))
	tk.AssignedTo = &staff.ID
	tk.SetStatus(entity.TicketInProgress, now)
	require.NoError(t, repo.Update(ctx, tk))

	for i, author := range []*entity.User{client, staff} {
		require.NoError(t, repo.CreateMessage(ctx, &entity.TicketMessage{ID: uuid.New().String(), TicketID: tk.ID,
			UserID: author.ID, Message: "msg", CreatedAt: now.Add(time.Duration(i) * time.Second)}))
	}
	msgs, err := repo.ListMessages(ctx, tk.ID)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, entity.RoleClient, msgs[0].UserRole)
	assert.Equal(t, "staff", msgs[1].Username)

	list, total, err := repo.List(ctx, repository.TicketFilter{AssignedTo: staff.ID})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "staff", list[0].AssigneeUsername)
}

func TestContenidoYDashboard(t *testing.T) {
	truncateAll(t)
	ctx := context.Background()
	now := time.Now().UTC()
	certs := NewCertificationRepository(testPool)
	c := &entity.Certification{ID: uuid.New().String(), Name: "ISO 9001", Code: "ISO-9001", CreatedAt: now, UpdatedAt: now}
	require.NoError(t, certs.Create(ctx, c))
	dup := *c
	dup.ID = uuid.New().String()
	assert.ErrorIs(t, certs.Create(ctx, &dup), domain.ErrDuplicate)

	newUser(t, "admin", entity.RoleAdmin)
	newUser(t, "client", entity.RoleClient)
	dash := NewDashboardRepository(testPool)
	n, err := dash.CountRows(ctx, "users")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	_, err = dash.CountRows(ctx, "pg_user")
	assert.Error(t, err)

	roles, err := dash.UsersByRole(ctx)
	require.NoError(t, err)
	assert.Equal(t, []entity.CountByKey{{Key: "admin", Count: 1}, {Key: "client", Count: 1}}, roles)
}

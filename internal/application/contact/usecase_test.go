package contact_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uranusgroup/uranus-web/internal/application/apptest"
	"github.com/uranusgroup/uranus-web/internal/application/contact"
	"github.com/uranusgroup/uranus-web/internal/application/dto"
	"github.com/uranusgroup/uranus-web/internal/domain"
	"github.com/uranusgroup/uranus-web/internal/domain/entity"
)

func validContact() dto.ContactRequest {
	return dto.ContactRequest{
		Name:    "Awa Diallo",
		Email:   "awa@acme.com",
		Subject: "Audit ISO",
		Message: "Bonjour, nous souhaitons un devis.",
	}
}

func TestSubmit_PersisteEIntentaDosCorreos(t *testing.T) {
	s := apptest.NewStore()
	mailer := &apptest.RecordingMailer{}
	events := &apptest.RecordingPublisher{}
	uc := contact.NewUseCase(s.Contacts(), mailer, events, "contact@uranus.test", nil)

	out, err := uc.Submit(context.Background(), validContact())
	require.NoError(t, err)
	assert.Equal(t, entity.ContactNew, out.Status)
	assert.Equal(t, 1, s.ContactCount())

	require.Len(t, mailer.Attempts, 2)
	assert.Equal(t, []string{"contact@uranus.test"}, mailer.Attempts[0].To)
	assert.Equal(t, "[Uranus Group] Nouveau message: Audit ISO", mailer.Attempts[0].Subject)
	assert.Contains(t, mailer.Attempts[0].Body, "Email: awa@acme.com")
	assert.Equal(t, []string{"awa@acme.com"}, mailer.Attempts[1].To)
	assert.Equal(t, "[Uranus Group] Confirmation de réception de votre message", mailer.Attempts[1].Subject)
	assert.Contains(t, mailer.Attempts[1].Body, "Bonjour Awa Diallo")
	assert.Equal(t, []string{contact.EventContactReceived}, events.Names())
}

func TestSubmit_FalloDeCorreoNoPropaga(t *testing.T) {
	s := apptest.NewStore()
	mailer := &apptest.RecordingMailer{Fail: true}
	uc := contact.NewUseCase(s.Contacts(), mailer, nil, "contact@uranus.test", nil)

	_, err := uc.Submit(context.Background(), validContact())
	require.NoError(t, err)
	assert.Equal(t, 1, s.ContactCount())
	assert.Len(t, mailer.Attempts, 2, "el segundo correo se intenta aunque falle el primero")
}

func TestSubmit_Validacion(t *testing.T) {
	s := apptest.NewStore()
	mailer := &apptest.RecordingMailer{}
	uc := contact.NewUseCase(s.Contacts(), mailer, nil, "contact@uranus.test", nil)

	in := validContact()
	in.Email = "not-an-email"
	_, err := uc.Submit(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	in = validContact()
	in.Message = "   "
	_, err = uc.Submit(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	assert.Zero(t, s.ContactCount())
	assert.Empty(t, mailer.Attempts)
}

func TestAdminStatus_RepliedAtUnaSolaVez(t *testing.T) {
	s := apptest.NewStore()
	clock := apptest.NewClock(time.Date(2024, 1, 2, 8, 0, 0, 0, time.UTC))
	uc := contact.NewUseCase(s.Contacts(), nil, nil, "", nil).WithClock(clock.Now)
	admin := s.AddUser("u-admin", "admin", entity.RoleAdmin)
	client := s.AddUser("u-client", "acme", entity.RoleClient)
	ctx := context.Background()

	out, err := uc.Submit(ctx, validContact())
	require.NoError(t, err)

	_, err = uc.Get(ctx, client, out.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	m, err := uc.Get(ctx, admin, out.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.ContactRead, m.Status, "abrir un mensaje nuevo lo marca como leído")

	m, err = uc.SetStatus(ctx, admin, out.ID, entity.ContactReplied)
	require.NoError(t, err)
	require.NotNil(t, m.RepliedAt)
	first := *m.RepliedAt

	clock.Advance(time.Hour)
	_, err = uc.SetStatus(ctx, admin, out.ID, entity.ContactArchived)
	require.NoError(t, err)
	m, err = uc.SetStatus(ctx, admin, out.ID, entity.ContactReplied)
	require.NoError(t, err)
	assert.True(t, first.Equal(*m.RepliedAt))

	_, err = uc.SetStatus(ctx, admin, out.ID, "spam")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	items, total, err := uc.List(ctx, admin, dto.ContactListQuery{Status: entity.ContactReplied})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Len(t, items, 1)

	require.NoError(t, uc.Delete(ctx, admin, out.ID))
	assert.Zero(t, s.ContactCount())
}

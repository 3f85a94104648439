package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceRequest_SetStatus_CompletedAtUnaSolaVez(t *testing.T) {
	r := &ServiceRequest{Status: RequestPending}
	t1 := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	assert.True(t, r.SetStatus(RequestCompleted, t1))
	require.NotNil(t, r.CompletedAt)
	assert.Equal(t, t1, *r.CompletedAt)

	// Repetir la transición no mueve el timestamp.
	assert.False(t, r.SetStatus(RequestCompleted, t1.Add(time.Hour)))
	assert.Equal(t, t1, *r.CompletedAt)

	// Salir de completed no lo borra.
	r.SetStatus(RequestInProgress, t1.Add(2*time.Hour))
	require.NotNil(t, r.CompletedAt)
	assert.Equal(t, t1, *r.CompletedAt)
}

func TestServiceRequest_OtrosEstadosNoTocanCompletedAt(t *testing.T) {
	r := &ServiceRequest{Status: RequestPending}
	for _, s := range []RequestStatus{RequestInProgress, RequestCancelled, RequestPending} {
		r.SetStatus(s, time.Now())
		assert.Nil(t, r.CompletedAt, "estado %s", s)
	}
}

func TestSupportTicket_SetStatus_ResolvedAtUnaSolaVez(t *testing.T) {
	tk := &SupportTicket{Status: TicketInProgress}
	t1 := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	tk.SetStatus(TicketResolved, t1)
	tk.SetStatus(TicketClosed, t1.Add(time.Hour))
	tk.SetStatus(TicketResolved, t1.Add(2*time.Hour))

	require.NotNil(t, tk.ResolvedAt)
	assert.Equal(t, t1, *tk.ResolvedAt)
}

func TestArticle_PublishedAtEnPrimeraPublicacion(t *testing.T) {
	a := &Article{Status: ArticleDraft}
	a.SetStatus(ArticleDraft, time.Now())
	assert.Nil(t, a.PublishedAt)

	t1 := time.Date(2026, 1, 5, 8, 0, 0, 0, time.UTC)
	a.SetStatus(ArticlePublished, t1)
	a.SetStatus(ArticleArchived, t1.Add(time.Hour))
	a.SetStatus(ArticlePublished, t1.Add(2*time.Hour))
	require.NotNil(t, a.PublishedAt)
	assert.Equal(t, t1, *a.PublishedAt)
}

func TestRole(t *testing.T) {
	assert.True(t, RoleManagerQHSE.Valid())
	assert.False(t, Role("superuser").Valid())
	assert.True(t, RoleManagerInfo.IsStaff())
	assert.False(t, RoleClient.IsStaff())

	var nilUser *User
	assert.False(t, nilUser.IsStaff())
}

func TestUser_DisplayName(t *testing.T) {
	assert.Equal(t, "jdoe", (&User{Username: "jdoe"}).DisplayName())
	assert.Equal(t, "Jane Doe", (&User{Username: "jdoe", FirstName: "Jane", LastName: "Doe"}).DisplayName())
}

func TestContactMessage_RepliedAt(t *testing.T) {
	m := &ContactMessage{Status: ContactNew}
	t1 := time.Now()
	m.SetStatus(ContactReplied, t1)
	m.SetStatus(ContactArchived, t1.Add(time.Minute))
	require.NotNil(t, m.RepliedAt)
	assert.Equal(t, t1, *m.RepliedAt)
}

package mail

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"

	"github.com/uranusgroup/uranus-web/pkg/config"
)

type fakeDialer struct {
	sent []*gomail.Message
	err  error
}

func (f *fakeDialer) DialAndSend(m ...*gomail.Message) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, m...)
	return nil
}

func TestSend_Deshabilitado(t *testing.T) {
	m := NewSMTPMailer(config.MailConfig{From: "contact@uranusgroup.com"}, nil)
	assert.False(t, m.Enabled())
	err := m.Send(context.Background(), []string{"jane@x.com"}, "Sujet", "corps")
	assert.ErrorIs(t, err, ErrDisabled)
}

func TestSend_ArmaMensaje(t *testing.T) {
	fd := &fakeDialer{}
	m := NewSMTPMailer(config.MailConfig{From: "contact@uranusgroup.com"}, nil)
	m.dialer = fd

	require.NoError(t, m.Send(context.Background(), []string{"jane@x.com"}, "Confirmation", "Merci"))
	require.Len(t, fd.sent, 1)
	assert.Equal(t, []string{"contact@uranusgroup.com"}, fd.sent[0].GetHeader("From"))
	assert.Equal(t, []string{"jane@x.com"}, fd.sent[0].GetHeader("To"))
	assert.Equal(t, []string{"Confirmation"}, fd.sent[0].GetHeader("Subject"))
}

func TestSend_Errores(t *testing.T) {
	fd := &fakeDialer{err: errors.New("smtp down")}
	m := NewSMTPMailer(config.MailConfig{From: "contact@uranusgroup.com"}, nil)
	m.dialer = fd

	assert.EqualError(t, m.Send(context.Background(), []string{"a@x.com"}, "s", "b"), "smtp down")
	assert.Error(t, m.Send(context.Background(), nil, "s", "b"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	fd.err = nil
	assert.ErrorIs(t, m.Send(ctx, []string{"a@x.com"}, "s", "b"), context.Canceled)
	assert.Empty(t, fd.sent)
}

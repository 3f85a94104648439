package pdf

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uranusgroup/uranus-web/internal/domain/entity"
)

func sampleRequest() *entity.ServiceRequest {
	deadline := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)
	return &entity.ServiceRequest{
		ID:             "5f0c7a4e-1111-2222-3333-444455556666",
		Title:          "Audit ISO 45001",
		Description:    "Audit complet du site de production.\n\nInclure le plan d'action.",
		Status:         entity.RequestInProgress,
		Priority:       entity.PriorityHigh,
		Deadline:       &deadline,
		CreatedAt:      time.Date(2024, 5, 2, 9, 30, 0, 0, time.UTC),
		ServiceName:    "Audit QHSE",
		ClientUsername: "acme",
	}
}

func TestFields(t *testing.T) {
	fields := Fields(sampleRequest())
	got := map[string]string{}
	for _, f := range fields {
		got[f.Label] = f.Value
	}
	assert.Equal(t, "Audit ISO 45001", got["Titre"])
	assert.Equal(t, "En cours", got["Statut"])
	assert.Equal(t, "Haute", got["Priorité"])
	assert.Equal(t, "02/05/2024 09:30", got["Date de création"])
	assert.Equal(t, "30/06/2024 00:00", got["Date limite"])
	assert.Equal(t, "", got["Date de complétion"])
	assert.Equal(t, "Non assigné", got["Assigné à"])
}

func TestGenerateRequestPDF(t *testing.T) {
	g := NewMarotoPDFGenerator("")
	out, err := g.GenerateRequestPDF(context.Background(), sampleRequest())
	require.NoError(t, err)
	require.NotEmpty(t, out)
	assert.Equal(t, "%PDF", string(out[:4]))
}

func TestShortID(t *testing.T) {
	assert.Equal(t, "5F0C7A4E", shortID("5f0c7a4e-1111"))
	assert.Equal(t, "AB", shortID("ab"))
}

package workflow_test

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uranusgroup/uranus-web/internal/application/apptest"
	"github.com/uranusgroup/uranus-web/internal/application/dto"
	"github.com/uranusgroup/uranus-web/internal/application/workflow"
	"github.com/uranusgroup/uranus-web/internal/domain"
	"github.com/uranusgroup/uranus-web/internal/domain/entity"
)

func TestDeliverables_SubidaListadoDescarga(t *testing.T) {
	f := newRequestFixture(t)
	ctx := context.Background()
	req := f.create(t)
	storage := apptest.NewMemoryStorage()
	uc := workflow.NewDeliverableUseCase(f.store.Requests(), f.store.Deliverables(), f.store.Users(), f.store.Notifications(), storage, f.events, nil)

	body := "contenu du rapport"
	in := dto.UploadDeliverableInput{FileName: "../rapport final.pdf", ContentType: "application/pdf", Size: int64(len(body))}

	_, err := uc.Upload(ctx, f.client, req.ID, in, strings.NewReader(body))
	assert.ErrorIs(t, err, domain.ErrForbidden, "el cliente no sube entregables")

	out, err := uc.Upload(ctx, f.qhse, req.ID, in, strings.NewReader(body))
	require.NoError(t, err)
	assert.Equal(t, "rapport_final.pdf", out.FileName)
	assert.Equal(t, "rapport_final.pdf", out.Name, "el nombre por defecto es el del archivo")
	assert.Equal(t, 1, storage.Len())
	for key := range storage.Objects {
		assert.True(t, strings.HasPrefix(key, "deliverables/"+req.ID+"/"))
		assert.True(t, strings.HasSuffix(key, "-rapport_final.pdf"))
	}

	notes := f.store.NotificationsFor(f.client.ID)
	require.Len(t, notes, 1)
	assert.Equal(t, entity.NotificationSuccess, notes[0].Type)

	mine, err := uc.List(ctx, f.client, dto.PageRequest{})
	require.NoError(t, err)
	assert.Equal(t, 1, mine.Page.Total)

	theirs, err := uc.List(ctx, f.other, dto.PageRequest{})
	require.NoError(t, err)
	assert.Zero(t, theirs.Page.Total)

	all, err := uc.List(ctx, f.admin, dto.PageRequest{})
	require.NoError(t, err)
	assert.Equal(t, 1, all.Page.Total)

	d, rc, err := uc.Download(ctx, f.client, out.ID)
	require.NoError(t, err)
	defer rc.Close()
	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, body, string(got))
	assert.Equal(t, "application/pdf", d.ContentType)

	_, _, err = uc.Download(ctx, f.other, out.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	detail, err := f.uc.Get(ctx, f.client, req.ID)
	require.NoError(t, err)
	assert.Len(t, detail.Deliverables, 1)

	require.NoError(t, uc.Delete(ctx, f.admin, out.ID))
	assert.Zero(t, storage.Len())
}

func TestDeliverables_FalloDeAlmacenamientoNoPersiste(t *testing.T) {
	f := newRequestFixture(t)
	ctx := context.Background()
	req := f.create(t)
	storage := apptest.NewMemoryStorage()
	storage.FailPut = true
	uc := workflow.NewDeliverableUseCase(f.store.Requests(), f.store.Deliverables(), f.store.Users(), f.store.Notifications(), storage, nil, nil)

	_, err := uc.Upload(ctx, f.admin, req.ID, dto.UploadDeliverableInput{FileName: "a.txt", Size: 1}, strings.NewReader("a"))
	require.Error(t, err)

	list, err := uc.ListForRequest(ctx, f.admin, req.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestDeliverables_Validacion(t *testing.T) {
	f := newRequestFixture(t)
	ctx := context.Background()
	req := f.create(t)
	uc := workflow.NewDeliverableUseCase(f.store.Requests(), f.store.Deliverables(), f.store.Users(), f.store.Notifications(), apptest.NewMemoryStorage(), nil, nil)

	_, err := uc.Upload(ctx, f.admin, req.ID, dto.UploadDeliverableInput{FileName: "a.txt", Size: 0}, strings.NewReader(""))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Upload(ctx, f.admin, req.ID, dto.UploadDeliverableInput{FileName: "big.bin", Size: workflow.MaxDeliverableSize + 1}, strings.NewReader(""))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Upload(ctx, f.admin, "missing", dto.UploadDeliverableInput{FileName: "a.txt", Size: 1}, strings.NewReader("a"))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

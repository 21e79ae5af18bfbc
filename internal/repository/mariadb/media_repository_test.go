package mariadb

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/fhuszti/medias-lifecycle-go/internal/model"
	mediaService "github.com/fhuszti/medias-lifecycle-go/internal/usecase/media"
	"github.com/fhuszti/medias-lifecycle-go/internal/uuid"
)

var columns = []string{"id", "bucket", "object_key", "original_filename", "status", "content_type", "size_bytes", "width", "height", "created_at", "created_by", "version"}

func newRepo(t *testing.T) (*MediaRepository, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("unexpected error when opening stub database: %s", err)
	}
	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("there were unfulfilled expectations: %s", err)
		}
		_ = sqlDB.Close()
	})
	return NewMediaRepository(sqlDB), mock
}

func idBytes(id uuid.UUID) []byte {
	b, _ := id.Value()
	return b.([]byte)
}

func TestMediaRepository_Create_Success(t *testing.T) {
	repo, mock := newRepo(t)

	id := uuid.MustParse("aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee")
	width := 2048
	by := "user-42"
	created := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	m := &model.Media{
		ID:               id,
		Bucket:           "medias",
		ObjectKey:        "uploads/aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee/cover.jpg",
		OriginalFilename: "cover.jpg",
		Status:           model.MediaStatusPending,
		Width:            &width,
		CreatedAt:        created,
		CreatedBy:        &by,
	}

	mock.ExpectExec(`INSERT INTO medias`).
		WithArgs(
			idBytes(id), "medias", m.ObjectKey, "cover.jpg", "pending",
			nil, nil, // content type, size
			int64(2048), nil, // width, height
			created, "user-42",
			int64(1),
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Create(context.Background(), m); err != nil {
		t.Fatalf("Create() returned unexpected error: %v", err)
	}
	if m.Version != 1 {
		t.Errorf("version = %d; want 1", m.Version)
	}
}

func TestMediaRepository_Create_ExecError(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectExec(`INSERT INTO medias`).WillReturnError(errors.New("duplicate"))

	err := repo.Create(context.Background(), &model.Media{ID: uuid.NewUUID(), Status: model.MediaStatusPending})
	if err == nil || err.Error() != "duplicate" {
		t.Fatalf("expected duplicate error, got %v", err)
	}
}

func TestMediaRepository_Update_Success(t *testing.T) {
	repo, mock := newRepo(t)

	m := &model.Media{ID: uuid.NewUUID(), Status: model.MediaStatusPending, Version: 3}
	m.Commit(2048, "image/jpeg")

	mock.ExpectExec(`UPDATE medias\s+SET`).
		WithArgs("committed", "image/jpeg", int64(2048), nil, nil, idBytes(m.ID), int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Update(context.Background(), m); err != nil {
		t.Fatalf("Update() returned unexpected error: %v", err)
	}
	if m.Version != 4 {
		t.Errorf("version = %d; want 4", m.Version)
	}
}

func TestMediaRepository_Update_StaleVersion(t *testing.T) {
	repo, mock := newRepo(t)

	m := &model.Media{ID: uuid.NewUUID(), Status: model.MediaStatusCommitted, Version: 3}
	mock.ExpectExec(`UPDATE medias`).WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), m)
	if !errors.Is(err, mediaService.ErrConcurrencyConflict) {
		t.Fatalf("expected ErrConcurrencyConflict, got %v", err)
	}
	if m.Version != 3 {
		t.Errorf("version must not move on conflict, got %d", m.Version)
	}
}

func TestMediaRepository_GetByID_Success(t *testing.T) {
	repo, mock := newRepo(t)

	id := uuid.MustParse("aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee")
	created := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows(columns).
		AddRow(idBytes(id), "medias", "uploads/x/cover.jpg", "cover.jpg", "committed", "image/jpeg", int64(2048), int64(800), nil, created, nil, int64(2))
	mock.ExpectQuery(`SELECT .+ FROM medias\s+WHERE id = \?`).WithArgs(idBytes(id)).WillReturnRows(rows)

	m, err := repo.GetByID(context.Background(), id)
	if err != nil {
		t.Fatalf("GetByID() returned unexpected error: %v", err)
	}
	if m.ID != id || m.Status != model.MediaStatusCommitted || m.Version != 2 {
		t.Errorf("media = %+v", m)
	}
	if m.ContentType == nil || *m.ContentType != "image/jpeg" || m.SizeBytes == nil || *m.SizeBytes != 2048 {
		t.Errorf("metadata = %v/%v", m.ContentType, m.SizeBytes)
	}
	if m.Width == nil || *m.Width != 800 || m.Height != nil || m.CreatedBy != nil {
		t.Errorf("nullable columns not mapped: w=%v h=%v by=%v", m.Width, m.Height, m.CreatedBy)
	}
	if !m.CreatedAt.Equal(created) {
		t.Errorf("created at = %v", m.CreatedAt)
	}
}

func TestMediaRepository_GetByID_NotFound(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery(`SELECT .+ FROM medias`).WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), uuid.NewUUID())
	if !errors.Is(err, mediaService.ErrMediaNotFound) {
		t.Fatalf("expected ErrMediaNotFound, got %v", err)
	}
}

func TestMediaRepository_Delete(t *testing.T) {
	repo, mock := newRepo(t)
	id := uuid.NewUUID()

	mock.ExpectExec(`DELETE FROM medias WHERE id = \? AND version = \?`).
		WithArgs(idBytes(id), int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	if err := repo.Delete(context.Background(), id, 2); err != nil {
		t.Fatalf("Delete() returned unexpected error: %v", err)
	}

	mock.ExpectExec(`DELETE FROM medias WHERE id = \? AND version = \?`).
		WithArgs(idBytes(id), int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	if err := repo.Delete(context.Background(), id, 2); !errors.Is(err, mediaService.ErrConcurrencyConflict) {
		t.Fatalf("expected ErrConcurrencyConflict, got %v", err)
	}
}

func TestMediaRepository_ListPendingCreatedBefore(t *testing.T) {
	repo, mock := newRepo(t)

	before := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	a, b := uuid.NewUUID(), uuid.NewUUID()
	rows := sqlmock.NewRows(columns).
		AddRow(idBytes(a), "medias", "uploads/a/x.png", "x.png", "pending", nil, nil, nil, nil, before.Add(-2*time.Hour), nil, int64(1)).
		AddRow(idBytes(b), "medias", "uploads/b/y.png", "y.png", "pending", nil, nil, nil, nil, before.Add(-time.Hour), nil, int64(1))
	mock.ExpectQuery(`WHERE status = \? AND created_at < \?`).
		WithArgs("pending", before).
		WillReturnRows(rows)

	out, err := repo.ListPendingCreatedBefore(context.Background(), before)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 2 || out[0].ID != a || out[1].ID != b {
		t.Fatalf("out = %+v", out)
	}
	if out[0].ContentType != nil || out[0].SizeBytes != nil {
		t.Error("pending medias carry no metadata")
	}
}

func TestMediaRepository_ListPendingCreatedBefore_QueryError(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery(`FROM medias`).WillReturnError(errors.New("db fail"))

	if _, err := repo.ListPendingCreatedBefore(context.Background(), time.Now()); err == nil {
		t.Fatal("expected error")
	}
}

func TestMediaRepository_DeletePending(t *testing.T) {
	repo, mock := newRepo(t)

	a, b := uuid.NewUUID(), uuid.NewUUID()
	mock.ExpectExec(`DELETE FROM medias WHERE status = \? AND id IN \(\?, \?\)`).
		WithArgs("pending", idBytes(a), idBytes(b)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	n, err := repo.DeletePending(context.Background(), []uuid.UUID{a, b})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 1 {
		t.Errorf("deleted = %d; want 1", n)
	}
}

func TestMediaRepository_DeletePending_Batches(t *testing.T) {
	repo, mock := newRepo(t)

	ids := make([]uuid.UUID, deletePendingBatch+1)
	for i := range ids {
		ids[i] = uuid.NewUUID()
	}
	mock.ExpectExec(`DELETE FROM medias WHERE status = \? AND id IN`).WillReturnResult(sqlmock.NewResult(0, deletePendingBatch))
	mock.ExpectExec(`DELETE FROM medias WHERE status = \? AND id IN \(\?\)`).
		WithArgs("pending", idBytes(ids[deletePendingBatch])).
		WillReturnResult(sqlmock.NewResult(0, 1))

	n, err := repo.DeletePending(context.Background(), ids)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != deletePendingBatch+1 {
		t.Errorf("deleted = %d; want %d", n, deletePendingBatch+1)
	}
}

func TestMediaRepository_DeletePending_Empty(t *testing.T) {
	repo, _ := newRepo(t)

	n, err := repo.DeletePending(context.Background(), nil)
	if err != nil || n != 0 {
		t.Fatalf("got (%d, %v)", n, err)
	}
}

func TestMediaRepository_StillPending(t *testing.T) {
	repo, mock := newRepo(t)

	a, b := uuid.NewUUID(), uuid.NewUUID()
	mock.ExpectQuery(`SELECT id FROM medias WHERE status = \? AND id IN \(\?, \?\)`).
		WithArgs("pending", idBytes(a), idBytes(b)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(idBytes(b)))

	out, err := repo.StillPending(context.Background(), []uuid.UUID{a, b})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 1 || out[0] != b {
		t.Errorf("still pending = %v; want [%s]", out, b)
	}
}

func TestMediaRepository_StillPending_QueryError(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery(`SELECT id FROM medias`).WillReturnError(errors.New("db fail"))

	if _, err := repo.StillPending(context.Background(), []uuid.UUID{uuid.NewUUID()}); err == nil {
		t.Fatal("expected error")
	}
}

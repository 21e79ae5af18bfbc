package mock

import (
	"context"
	"time"

	"github.com/fhuszti/medias-lifecycle-go/internal/model"
	"github.com/fhuszti/medias-lifecycle-go/internal/uuid"
)

// MockMediaRepo implements repository operations for tests.
type MockMediaRepo struct {
	MediaRecord *model.Media

	GetErr           error
	CreateErr        error
	UpdateErr        error
	DeleteErr        error
	ListErr          error
	DeletePendingErr error

	ListOut          []*model.Media
	DeletePendingOut int64
	// StillPendingOut, when set, replaces the IDs StillPending reports as pending.
	StillPendingOut []uuid.UUID
	StillPendingErr error

	GetCalls         int
	Created          *model.Media
	Updated          *model.Media
	UpdateCalls      int
	DeleteCalled     bool
	DeletedID        uuid.UUID
	DeletedVersion   int64
	ListCalled       bool
	ListBefore       time.Time
	DeletePendingIDs []uuid.UUID
	StillPendingIDs  []uuid.UUID
}

func (m *MockMediaRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Media, error) {
	m.GetCalls++
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	if m.MediaRecord == nil {
		return nil, nil
	}
	// hand out a copy, like a real read would
	cp := *m.MediaRecord
	return &cp, nil
}

func (m *MockMediaRepo) Update(ctx context.Context, media *model.Media) error {
	m.UpdateCalls++
	m.Updated = media
	return m.UpdateErr
}

func (m *MockMediaRepo) Create(ctx context.Context, media *model.Media) error {
	m.Created = media
	return m.CreateErr
}

func (m *MockMediaRepo) Delete(ctx context.Context, id uuid.UUID, version int64) error {
	m.DeleteCalled = true
	m.DeletedID = id
	m.DeletedVersion = version
	return m.DeleteErr
}

func (m *MockMediaRepo) ListPendingCreatedBefore(ctx context.Context, before time.Time) ([]*model.Media, error) {
	m.ListCalled = true
	m.ListBefore = before
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	return m.ListOut, nil
}

func (m *MockMediaRepo) DeletePending(ctx context.Context, ids []uuid.UUID) (int64, error) {
	m.DeletePendingIDs = append(m.DeletePendingIDs, ids...)
	if m.DeletePendingErr != nil {
		return 0, m.DeletePendingErr
	}
	if m.DeletePendingOut != 0 {
		return m.DeletePendingOut, nil
	}
	return int64(len(ids)), nil
}

func (m *MockMediaRepo) StillPending(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
	m.StillPendingIDs = append(m.StillPendingIDs, ids...)
	if m.StillPendingErr != nil {
		return nil, m.StillPendingErr
	}
	if m.StillPendingOut != nil {
		return m.StillPendingOut, nil
	}
	return ids, nil
}

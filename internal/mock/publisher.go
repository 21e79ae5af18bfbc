package mock

import (
	"context"

	"github.com/fhuszti/medias-lifecycle-go/internal/uuid"
)

// MockPublisher implements intent publishing for tests.
type MockPublisher struct {
	FixateIDs []uuid.UUID
	FixateErr error

	DeleteIDs []uuid.UUID
	DeleteErr error
}

func (m *MockPublisher) PublishFixate(ctx context.Context, id uuid.UUID) error {
	if m.FixateErr != nil {
		return m.FixateErr
	}
	m.FixateIDs = append(m.FixateIDs, id)
	return nil
}

func (m *MockPublisher) PublishDelete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	m.DeleteIDs = append(m.DeleteIDs, id)
	return nil
}

package mock

import (
	"context"

	"github.com/fhuszti/medias-lifecycle-go/internal/port"
	"github.com/fhuszti/medias-lifecycle-go/internal/uuid"
)

// MockUploadLinkGenerator implements port.UploadLinkGenerator for tests.
type MockUploadLinkGenerator struct {
	In     port.GenerateUploadLinkInput
	Out    port.GenerateUploadLinkOutput
	Err    error
	Called bool
}

func (m *MockUploadLinkGenerator) GenerateUploadLink(ctx context.Context, in port.GenerateUploadLinkInput) (port.GenerateUploadLinkOutput, error) {
	m.Called = true
	m.In = in
	return m.Out, m.Err
}

// MockURLResolver implements port.URLResolver for tests.
type MockURLResolver struct {
	URLOut   string
	FoundOut bool
	URLsOut  map[string]string
	Err      error

	ID     uuid.UUID
	Key    string
	Keys   []string
	Called bool
}

func (m *MockURLResolver) ResolveURL(ctx context.Context, id uuid.UUID) (string, bool, error) {
	m.Called = true
	m.ID = id
	return m.URLOut, m.FoundOut, m.Err
}

func (m *MockURLResolver) ResolveKeyURL(ctx context.Context, key string) (string, error) {
	m.Called = true
	m.Key = key
	return m.URLOut, m.Err
}

func (m *MockURLResolver) ResolveKeyURLs(ctx context.Context, keys []string) (map[string]string, error) {
	m.Called = true
	m.Keys = keys
	return m.URLsOut, m.Err
}

// MockDeletionRequester implements port.DeletionRequester for tests.
type MockDeletionRequester struct {
	ID     uuid.UUID
	Err    error
	Called bool
}

func (m *MockDeletionRequester) RequestDeletion(ctx context.Context, id uuid.UUID) error {
	m.Called = true
	m.ID = id
	return m.Err
}

// MockFixationRequester implements port.FixationRequester for tests.
type MockFixationRequester struct {
	ID     uuid.UUID
	Err    error
	Called bool
}

func (m *MockFixationRequester) RequestFixation(ctx context.Context, id uuid.UUID) error {
	m.Called = true
	m.ID = id
	return m.Err
}

// MockMediaFixer implements port.MediaFixer for tests.
type MockMediaFixer struct {
	ID     uuid.UUID
	Err    error
	Called bool
}

func (m *MockMediaFixer) FixateMedia(ctx context.Context, id uuid.UUID) error {
	m.Called = true
	m.ID = id
	return m.Err
}

// MockMediaDeleter implements port.MediaDeleter for tests.
type MockMediaDeleter struct {
	ID     uuid.UUID
	Err    error
	Called bool
}

func (m *MockMediaDeleter) DeleteMedia(ctx context.Context, id uuid.UUID) error {
	m.Called = true
	m.ID = id
	return m.Err
}

// MockOrphanReclaimer implements port.OrphanReclaimer for tests.
type MockOrphanReclaimer struct {
	Out   port.ReclaimReport
	Err   error
	Calls int
}

func (m *MockOrphanReclaimer) ReclaimOrphans(ctx context.Context) (port.ReclaimReport, error) {
	m.Calls++
	return m.Out, m.Err
}

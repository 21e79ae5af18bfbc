package media

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fhuszti/medias-lifecycle-go/internal/model"
	"github.com/fhuszti/medias-lifecycle-go/internal/port"
	"github.com/fhuszti/medias-lifecycle-go/internal/uuid"
)

// memoryRepo is a version-checked in-memory MediaRepository.
type memoryRepo struct {
	mu     sync.Mutex
	medias map[uuid.UUID]model.Media
	// updateConflicts makes the next n Update calls fail with ErrConcurrencyConflict.
	updateConflicts int
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{medias: map[uuid.UUID]model.Media{}}
}

func (r *memoryRepo) Create(ctx context.Context, m *model.Media) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.medias[m.ID]; ok {
		return fmt.Errorf("duplicate media %s", m.ID)
	}
	m.Version = 1
	r.medias[m.ID] = *m
	return nil
}

func (r *memoryRepo) Update(ctx context.Context, m *model.Media) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.updateConflicts > 0 {
		r.updateConflicts--
		return ErrConcurrencyConflict
	}
	cur, ok := r.medias[m.ID]
	if !ok || cur.Version != m.Version {
		return ErrConcurrencyConflict
	}
	m.Version++
	r.medias[m.ID] = *m
	return nil
}

func (r *memoryRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Media, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.medias[id]
	if !ok {
		return nil, ErrMediaNotFound
	}
	return &m, nil
}

func (r *memoryRepo) Delete(ctx context.Context, id uuid.UUID, version int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.medias[id]
	if !ok || cur.Version != version {
		return ErrConcurrencyConflict
	}
	delete(r.medias, id)
	return nil
}

func (r *memoryRepo) ListPendingCreatedBefore(ctx context.Context, before time.Time) ([]*model.Media, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Media
	for _, m := range r.medias {
		if m.Status == model.MediaStatusPending && m.CreatedAt.Before(before) {
			cp := m
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memoryRepo) DeletePending(ctx context.Context, ids []uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, id := range ids {
		if m, ok := r.medias[id]; ok && m.Status == model.MediaStatusPending {
			delete(r.medias, id)
			n++
		}
	}
	return n, nil
}

func (r *memoryRepo) StillPending(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []uuid.UUID
	for _, id := range ids {
		if m, ok := r.medias[id]; ok && m.Status == model.MediaStatusPending {
			out = append(out, id)
		}
	}
	return out, nil
}

func (r *memoryRepo) get(id uuid.UUID) (model.Media, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.medias[id]
	return m, ok
}

func (r *memoryRepo) put(m model.Media) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m.Version == 0 {
		m.Version = 1
	}
	r.medias[m.ID] = m
}

// memoryStorage is an in-memory object store keyed by bucket and key.
type memoryStorage struct {
	mu      sync.Mutex
	objects map[string]port.FileInfo
	// failKeys makes RemoveFiles report these keys as failed.
	failKeys map[string]bool
}

func newMemoryStorage() *memoryStorage {
	return &memoryStorage{objects: map[string]port.FileInfo{}, failKeys: map[string]bool{}}
}

func objectPath(bucket, key string) string { return bucket + "/" + key }

func (s *memoryStorage) upload(bucket, key string, info port.FileInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[objectPath(bucket, key)] = info
}

func (s *memoryStorage) has(bucket, key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.objects[objectPath(bucket, key)]
	return ok
}

func (s *memoryStorage) InitBucket(ctx context.Context, bucket string) error { return nil }

func (s *memoryStorage) GeneratePresignedDownloadURL(ctx context.Context, bucket, key string, expiry time.Duration) (string, error) {
	return "https://storage.test/" + objectPath(bucket, key) + "?op=get", nil
}

func (s *memoryStorage) GeneratePresignedUploadURL(ctx context.Context, bucket, key, contentType string, expiry time.Duration) (string, error) {
	return "https://storage.test/" + objectPath(bucket, key) + "?op=put", nil
}

func (s *memoryStorage) StatFile(ctx context.Context, bucket, key string) (port.FileInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	info, ok := s.objects[objectPath(bucket, key)]
	if !ok {
		return port.FileInfo{}, ErrObjectNotFound
	}
	return info, nil
}

func (s *memoryStorage) RemoveFile(ctx context.Context, bucket, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, objectPath(bucket, key))
	return nil
}

func (s *memoryStorage) RemoveFiles(ctx context.Context, bucket string, keys []string) (port.BulkRemoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	res := port.BulkRemoveResult{Errors: map[string]error{}}
	for _, key := range keys {
		if s.failKeys[key] {
			res.Errors[key] = ErrTransient
			continue
		}
		delete(s.objects, objectPath(bucket, key))
		res.Deleted = append(res.Deleted, key)
	}
	return res, nil
}

func newTestFixer(repo port.MediaRepository, strg port.Storage) *mediaFixerSrv {
	svc := NewMediaFixer(repo, strg).(*mediaFixerSrv)
	svc.policy.Delay = time.Millisecond
	return svc
}

func newTestDeleter(repo port.MediaRepository, cache port.Cache, strg port.Storage) *mediaDeleterSrv {
	svc := NewMediaDeleter(repo, cache, strg).(*mediaDeleterSrv)
	svc.policy.Delay = time.Millisecond
	return svc
}

func ptr[T any](v T) *T { return &v }

package model

import (
	"time"

	"github.com/fhuszti/medias-lifecycle-go/internal/uuid"
)

type MediaStatus string

const (
	MediaStatusPending   MediaStatus = "pending"
	MediaStatusCommitted MediaStatus = "committed"
)

// Media is the persisted promise of an upload. ContentType and SizeBytes stay
// nil until the stored object has been confirmed, and are only ever filled from
// the object store's own metadata.
type Media struct {
	ID               uuid.UUID   `json:"id"`
	Bucket           string      `json:"bucket"`
	ObjectKey        string      `json:"object_key"`
	OriginalFilename string      `json:"original_filename"`
	Status           MediaStatus `json:"status"`
	ContentType      *string     `json:"content_type,omitempty"`
	SizeBytes        *int64      `json:"size_bytes,omitempty"`
	Width            *int        `json:"width,omitempty"`
	Height           *int        `json:"height,omitempty"`
	CreatedAt        time.Time   `json:"created_at"`
	CreatedBy        *string     `json:"created_by,omitempty"`
	Version          int64       `json:"version"`
}

// Commit records the verified object metadata and moves the media to
// MediaStatusCommitted. A committed media never goes back to pending.
func (m *Media) Commit(sizeBytes int64, contentType string) {
	m.SizeBytes = &sizeBytes
	m.ContentType = &contentType
	m.Status = MediaStatusCommitted
}

func (m *Media) IsPending() bool {
	return m.Status == MediaStatusPending
}

// ObjectKeyFor builds the storage key of an upload: uploads/{id}/{filename}.
func ObjectKeyFor(id uuid.UUID, originalFilename string) string {
	return "uploads/" + id.String() + "/" + originalFilename
}

package task

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

const (
	TypeFixateMedia    = "media:fixate"
	TypeDeleteMedia    = "media:delete"
	TypeReclaimOrphans = "media:reclaim_orphans"
)

// MediaPayload is the payload of fixate and delete intents.
type MediaPayload struct {
	MediaID string `json:"media_id"`
}

// NewFixateMediaTask creates an Asynq task asking to fixate a media by ID.
func NewFixateMediaTask(mediaID string) (*asynq.Task, error) {
	return newMediaTask(TypeFixateMedia, mediaID)
}

// NewDeleteMediaTask creates an Asynq task asking to delete a media by ID.
func NewDeleteMediaTask(mediaID string) (*asynq.Task, error) {
	return newMediaTask(TypeDeleteMedia, mediaID)
}

// NewReclaimOrphansTask creates the periodic orphan sweep task. It has no payload.
func NewReclaimOrphansTask() *asynq.Task {
	return asynq.NewTask(TypeReclaimOrphans, nil)
}

func newMediaTask(typename, mediaID string) (*asynq.Task, error) {
	data, err := json.Marshal(MediaPayload{MediaID: mediaID})
	if err != nil {
		return nil, fmt.Errorf("could not marshal %s payload: %w", typename, err)
	}
	return asynq.NewTask(typename, data), nil
}

// ParseMediaPayload parses the task payload to MediaPayload.
func ParseMediaPayload(t *asynq.Task) (MediaPayload, error) {
	var p MediaPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return MediaPayload{}, fmt.Errorf("could not unmarshal payload: %w", err)
	}
	return p, nil
}

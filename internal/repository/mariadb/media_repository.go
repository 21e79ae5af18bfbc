package mariadb

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/fhuszti/medias-lifecycle-go/internal/logger"
	"github.com/fhuszti/medias-lifecycle-go/internal/model"
	"github.com/fhuszti/medias-lifecycle-go/internal/port"
	mediaService "github.com/fhuszti/medias-lifecycle-go/internal/usecase/media"
	"github.com/fhuszti/medias-lifecycle-go/internal/uuid"
)

// deletePendingBatch bounds the size of the IN clause of DeletePending.
const deletePendingBatch = 500

const mediaColumns = `id, bucket, object_key, original_filename, status, content_type, size_bytes, width, height, created_at, created_by, version`

type MediaRepository struct {
	db *sql.DB
}

// compile-time check: *MediaRepository must satisfy port.MediaRepository
var _ port.MediaRepository = (*MediaRepository)(nil)

func NewMediaRepository(db *sql.DB) *MediaRepository {
	return &MediaRepository{db: db}
}

func (r *MediaRepository) Create(ctx context.Context, media *model.Media) error {
	logger.Debugf(ctx, "creating database record for media #%s, at status %q...", media.ID, media.Status)

	const query = `
      INSERT INTO medias
        (` + mediaColumns + `)
      VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
    `
	_, err := r.db.ExecContext(ctx, query,
		media.ID, media.Bucket, media.ObjectKey,
		media.OriginalFilename, media.Status,
		media.ContentType, media.SizeBytes,
		media.Width, media.Height,
		media.CreatedAt, media.CreatedBy,
		1,
	)
	if err != nil {
		return err
	}

	media.Version = 1
	return nil
}

// Update persists the mutable fields of a media, provided nobody else changed
// it since it was read. On success media.Version is bumped.
func (r *MediaRepository) Update(ctx context.Context, media *model.Media) error {
	logger.Debugf(ctx, "updating database record for media #%s, with status %q...", media.ID, media.Status)

	const query = `
      UPDATE medias
      SET
        status       = ?,
        content_type = ?,
        size_bytes   = ?,
        width        = ?,
        height       = ?,
        version      = version + 1
      WHERE id = ? AND version = ?
    `
	res, err := r.db.ExecContext(ctx, query,
		media.Status,
		media.ContentType,
		media.SizeBytes,
		media.Width,
		media.Height,
		media.ID, media.Version, // WHERE clause
	)
	if err != nil {
		return err
	}
	if err := expectOneRow(res); err != nil {
		return err
	}

	media.Version++
	return nil
}

func (r *MediaRepository) GetByID(ctx context.Context, ID uuid.UUID) (*model.Media, error) {
	logger.Debugf(ctx, "fetching media #%s from the database...", ID)

	const query = `
      SELECT ` + mediaColumns + `
      FROM medias
      WHERE id = ?
    `
	media, err := scanMedia(r.db.QueryRowContext(ctx, query, ID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, mediaService.ErrMediaNotFound
	}
	if err != nil {
		return nil, err
	}
	return media, nil
}

func (r *MediaRepository) Delete(ctx context.Context, ID uuid.UUID, version int64) error {
	logger.Debugf(ctx, "deleting database record for media #%s...", ID)

	res, err := r.db.ExecContext(ctx, `DELETE FROM medias WHERE id = ? AND version = ?`, ID, version)
	if err != nil {
		return err
	}
	return expectOneRow(res)
}

func (r *MediaRepository) ListPendingCreatedBefore(ctx context.Context, before time.Time) ([]*model.Media, error) {
	logger.Debugf(ctx, "listing pending medias created before %s...", before.Format(time.RFC3339))

	const query = `
      SELECT ` + mediaColumns + `
      FROM medias
      WHERE status = ? AND created_at < ?
      ORDER BY created_at
    `
	rows, err := r.db.QueryContext(ctx, query, model.MediaStatusPending, before)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var medias []*model.Media
	for rows.Next() {
		m, err := scanMedia(rows)
		if err != nil {
			return nil, err
		}
		medias = append(medias, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return medias, nil
}

// DeletePending removes the given medias that are still pending and returns
// how many rows went away. Committed medias in IDs are left alone.
func (r *MediaRepository) DeletePending(ctx context.Context, IDs []uuid.UUID) (int64, error) {
	logger.Debugf(ctx, "deleting %d pending medias...", len(IDs))

	var total int64
	for start := 0; start < len(IDs); start += deletePendingBatch {
		batch := IDs[start:min(start+deletePendingBatch, len(IDs))]

		query := `DELETE FROM medias WHERE status = ? AND id IN (?` + strings.Repeat(", ?", len(batch)-1) + `)`
		args := make([]any, 0, len(batch)+1)
		args = append(args, model.MediaStatusPending)
		for _, id := range batch {
			args = append(args, id)
		}

		res, err := r.db.ExecContext(ctx, query, args...)
		if err != nil {
			return total, err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}

// StillPending returns the subset of IDs whose media is still pending.
func (r *MediaRepository) StillPending(ctx context.Context, IDs []uuid.UUID) ([]uuid.UUID, error) {
	logger.Debugf(ctx, "checking which of %d medias are still pending...", len(IDs))

	var pending []uuid.UUID
	for start := 0; start < len(IDs); start += deletePendingBatch {
		batch := IDs[start:min(start+deletePendingBatch, len(IDs))]

		query := `SELECT id FROM medias WHERE status = ? AND id IN (?` + strings.Repeat(", ?", len(batch)-1) + `)`
		args := make([]any, 0, len(batch)+1)
		args = append(args, model.MediaStatusPending)
		for _, id := range batch {
			args = append(args, id)
		}

		if err := func() error {
			rows, err := r.db.QueryContext(ctx, query, args...)
			if err != nil {
				return err
			}
			defer func() { _ = rows.Close() }()
			for rows.Next() {
				var id uuid.UUID
				if err := rows.Scan(&id); err != nil {
					return err
				}
				pending = append(pending, id)
			}
			return rows.Err()
		}(); err != nil {
			return nil, err
		}
	}
	return pending, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMedia(row rowScanner) (*model.Media, error) {
	var media model.Media
	if err := row.Scan(
		&media.ID, &media.Bucket, &media.ObjectKey,
		&media.OriginalFilename, &media.Status,
		&media.ContentType, &media.SizeBytes,
		&media.Width, &media.Height,
		&media.CreatedAt, &media.CreatedBy,
		&media.Version,
	); err != nil {
		return nil, err
	}
	return &media, nil
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return mediaService.ErrConcurrencyConflict
	}
	return nil
}

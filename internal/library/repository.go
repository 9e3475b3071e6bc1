package library

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/Rezmii/media-library/internal/models"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const recordColumns = `id, title, type, cover_url, status, rating, note, is_backlog, metadata, tags, created_at, updated_at`

func scanRecord(row interface{ Scan(...interface{}) error }) (*Record, error) {
	rec := &Record{}
	var tags pq.StringArray
	var metadata []byte
	err := row.Scan(&rec.ID, &rec.Title, &rec.Type, &rec.CoverURL, &rec.Status,
		&rec.Rating, &rec.Note, &rec.IsBacklog, &metadata, &tags,
		&rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return nil, err
	}
	rec.Metadata = metadata
	rec.Tags = []string(tags)
	return rec, nil
}

// GetAll returns the full persisted set, optionally narrowed to one media
// type. Backlog entries sort after fresh ones; that is the only effect the
// backlog flag has.
func (r *Repository) GetAll(typeFilter models.MediaType) ([]*Record, error) {
	query := `SELECT ` + recordColumns + ` FROM media_items`
	var args []interface{}
	if typeFilter != "" && typeFilter != models.MediaTypeAll {
		query += ` WHERE type = $1`
		args = append(args, string(typeFilter))
	}
	query += ` ORDER BY is_backlog, updated_at DESC`

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (r *Repository) Get(id uuid.UUID) (*Record, error) {
	query := `SELECT ` + recordColumns + ` FROM media_items WHERE id = $1`
	rec, err := scanRecord(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("media item not found")
	}
	return rec, err
}

func (r *Repository) Create(rec *Record) error {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	if rec.Status == "" {
		rec.Status = models.StatusBacklog
	}
	if rec.Metadata == nil {
		rec.Metadata = []byte("{}")
	}
	query := `INSERT INTO media_items (id, title, type, cover_url, status, rating, note, is_backlog, metadata, tags)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING created_at, updated_at`
	return r.db.QueryRow(query, rec.ID, rec.Title, string(rec.Type), rec.CoverURL,
		string(rec.Status), rec.Rating, rec.Note, rec.IsBacklog,
		[]byte(rec.Metadata), pq.Array(rec.Tags)).Scan(&rec.CreatedAt, &rec.UpdatedAt)
}

func (r *Repository) UpdateStatus(id uuid.UUID, status models.Status) error {
	result, err := r.db.Exec(`UPDATE media_items SET status = $1, updated_at = now() WHERE id = $2`,
		string(status), id)
	if err != nil {
		return err
	}
	return requireRow(result)
}

func (r *Repository) UpdateDetails(id uuid.UUID, rating *int, note *string) error {
	result, err := r.db.Exec(`UPDATE media_items
		SET rating = COALESCE($1, rating), note = COALESCE($2, note), updated_at = now()
		WHERE id = $3`, rating, note, id)
	if err != nil {
		return err
	}
	return requireRow(result)
}

// AddTag appends a tag unless the record already carries it.
func (r *Repository) AddTag(id uuid.UUID, tag string) error {
	_, err := r.db.Exec(`UPDATE media_items
		SET tags = array_append(tags, $2), updated_at = now()
		WHERE id = $1 AND NOT (tags @> ARRAY[$2])`, id, tag)
	return err
}

func (r *Repository) RemoveTag(id uuid.UUID, tag string) error {
	_, err := r.db.Exec(`UPDATE media_items
		SET tags = array_remove(tags, $2), updated_at = now()
		WHERE id = $1`, id, tag)
	return err
}

func (r *Repository) Delete(id uuid.UUID) error {
	result, err := r.db.Exec(`DELETE FROM media_items WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireRow(result)
}

// Index reloads the entire persisted set and maps externalId to record id.
// Always fresh, always a full scan; callers rely on the freshness, so no
// caching happens here.
func (r *Repository) Index() (Index, error) {
	records, err := r.GetAll(models.MediaTypeAll)
	if err != nil {
		return nil, err
	}
	return BuildIndex(records), nil
}

func requireRow(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("media item not found")
	}
	return nil
}

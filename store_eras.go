package erasite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/eringen/erasite/apperror"
	"github.com/eringen/erasite/model"
)

// eraSelect reads eras together with their tag names, comma-joined.
const eraSelect = `
SELECT e.id, e.title, e.previous_title, e.description, e.start_year, e.end_year,
       e.image_url, e.created_at,
       (SELECT group_concat(t.name, ',')
          FROM era_tags et JOIN tags t ON t.id = et.tag_id
         WHERE et.era_id = e.id) AS tag_list
  FROM eras e`

type eraRow struct {
	model.Era
	TagList sql.NullString `db:"tag_list"`
}

func (r eraRow) era() model.Era {
	e := r.Era
	e.Tags = ParseTags(r.TagList.String)
	return e
}

// ListEras returns every era, newest first.
func (s *Store) ListEras(ctx context.Context) ([]model.Era, error) {
	var rows []eraRow
	if err := s.db.SelectContext(ctx, &rows, eraSelect+` ORDER BY e.created_at DESC, e.id DESC`); err != nil {
		return nil, fmt.Errorf("list eras: %w", err)
	}
	eras := make([]model.Era, 0, len(rows))
	for _, r := range rows {
		eras = append(eras, r.era())
	}
	return eras, nil
}

// GetEra returns one era with its tags.
func (s *Store) GetEra(ctx context.Context, id int64) (model.Era, error) {
	var row eraRow
	err := s.db.GetContext(ctx, &row, eraSelect+` WHERE e.id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Era{}, apperror.NotFound("era", id)
	}
	if err != nil {
		return model.Era{}, fmt.Errorf("get era %d: %w", id, err)
	}
	return row.era(), nil
}

// CreateEra inserts an era and links its tags in one transaction.
func (s *Store) CreateEra(ctx context.Context, in model.EraInput) (int64, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO eras (title, description, start_year, end_year, image_url) VALUES (?, ?, ?, ?, ?)`,
		in.Title, in.Description, in.StartYear, in.EndYear, in.ImageURL)
	if err != nil {
		return 0, fmt.Errorf("insert era: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	if err := linkTags(ctx, tx, id, in.Tags); err != nil {
		return 0, err
	}
	return id, tx.Commit()
}

// UpdateEra rewrites an era and replaces its tag links. The old title moves
// to previous_title only when the title actually changes. An empty
// in.ImageURL keeps the current image.
func (s *Store) UpdateEra(ctx context.Context, id int64, in model.EraInput) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
UPDATE eras
   SET previous_title = CASE WHEN title <> ? THEN title ELSE previous_title END,
       title = ?,
       description = ?,
       start_year = ?,
       end_year = ?,
       image_url = COALESCE(NULLIF(?, ''), image_url)
 WHERE id = ?`,
		in.Title, in.Title, in.Description, in.StartYear, in.EndYear, in.ImageURL, id)
	if err != nil {
		return fmt.Errorf("update era %d: %w", id, err)
	}
	if err := requireRow(res, "era", id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM era_tags WHERE era_id = ?`, id); err != nil {
		return fmt.Errorf("unlink tags: %w", err)
	}
	if err := linkTags(ctx, tx, id, in.Tags); err != nil {
		return err
	}
	return tx.Commit()
}

// DeleteEra removes an era; its tag links and comments go with it.
func (s *Store) DeleteEra(ctx context.Context, id int64) error {
	return s.deleteByID(ctx, "eras", "era", id)
}

// ListTags returns every tag ever created, including orphans.
func (s *Store) ListTags(ctx context.Context) ([]model.Tag, error) {
	tags := []model.Tag{}
	if err := s.db.SelectContext(ctx, &tags, `SELECT id, name FROM tags ORDER BY name`); err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	return tags, nil
}

// linkTags creates missing tags and links them to the era. A concurrent
// writer inserting the same name makes our insert a no-op; the follow-up
// SELECT then finds its row.
func linkTags(ctx context.Context, tx *sqlx.Tx, eraID int64, names []string) error {
	for _, name := range names {
		if _, err := tx.ExecContext(ctx, `INSERT INTO tags (name) VALUES (?) ON CONFLICT(name) DO NOTHING`, name); err != nil {
			return fmt.Errorf("upsert tag %q: %w", name, err)
		}
		var tagID int64
		if err := tx.GetContext(ctx, &tagID, `SELECT id FROM tags WHERE name = ?`, name); err != nil {
			return fmt.Errorf("lookup tag %q: %w", name, err)
		}
		if _, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO era_tags (era_id, tag_id) VALUES (?, ?)`, eraID, tagID); err != nil {
			return fmt.Errorf("link tag %q: %w", name, err)
		}
	}
	return nil
}

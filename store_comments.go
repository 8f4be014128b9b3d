package erasite

import (
	"context"
	"fmt"

	"github.com/eringen/erasite/model"
)

// ListComments returns the comments of an era, newest first.
func (s *Store) ListComments(ctx context.Context, eraID int64) ([]model.Comment, error) {
	comments := []model.Comment{}
	err := s.db.SelectContext(ctx, &comments, `
SELECT id, era_id, nickname, email, content, created_at
  FROM comments
 WHERE era_id = ?
 ORDER BY created_at DESC, id DESC`, eraID)
	if err != nil {
		return nil, fmt.Errorf("list comments of era %d: %w", eraID, err)
	}
	return comments, nil
}

// CreateComment stores a comment. A missing era yields apperror.ErrNotFound
// rather than a foreign key failure.
func (s *Store) CreateComment(ctx context.Context, c model.Comment) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
INSERT INTO comments (era_id, nickname, email, content)
SELECT ?, ?, ?, ? WHERE EXISTS (SELECT 1 FROM eras WHERE id = ?)`,
		c.EraID, c.Nickname, c.Email, c.Content, c.EraID)
	if err != nil {
		return 0, fmt.Errorf("insert comment: %w", err)
	}
	if err := requireRow(res, "era", c.EraID); err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (s *Store) DeleteComment(ctx context.Context, id int64) error {
	return s.deleteByID(ctx, "comments", "comment", id)
}

func (s *Store) CountComments(ctx context.Context) (int, error) {
	var n int
	if err := s.db.GetContext(ctx, &n, `SELECT count(*) FROM comments`); err != nil {
		return 0, fmt.Errorf("count comments: %w", err)
	}
	return n, nil
}

func (s *Store) CreateFeedback(ctx context.Context, f model.Feedback) (int64, error) {
	res, err := s.db.NamedExecContext(ctx,
		`INSERT INTO feedback (name, email, message) VALUES (:name, :email, :message)`, f)
	if err != nil {
		return 0, fmt.Errorf("insert feedback: %w", err)
	}
	return res.LastInsertId()
}

// ListFeedback returns all feedback messages, newest first.
func (s *Store) ListFeedback(ctx context.Context) ([]model.Feedback, error) {
	items := []model.Feedback{}
	err := s.db.SelectContext(ctx, &items,
		`SELECT id, name, email, message, created_at FROM feedback ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list feedback: %w", err)
	}
	return items, nil
}

func (s *Store) DeleteFeedback(ctx context.Context, id int64) error {
	return s.deleteByID(ctx, "feedback", "feedback", id)
}

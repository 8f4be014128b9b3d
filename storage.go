package erasite

import (
	"context"

	"github.com/eringen/erasite/model"
)

// Storage is everything the handlers need from the database. *Store is the
// SQLite implementation; the App receives one through New or WithStorage.
type Storage interface {
	ListEras(ctx context.Context) ([]model.Era, error)
	GetEra(ctx context.Context, id int64) (model.Era, error)
	CreateEra(ctx context.Context, in model.EraInput) (int64, error)
	UpdateEra(ctx context.Context, id int64, in model.EraInput) error
	DeleteEra(ctx context.Context, id int64) error
	ListTags(ctx context.Context) ([]model.Tag, error)

	ListComments(ctx context.Context, eraID int64) ([]model.Comment, error)
	CreateComment(ctx context.Context, c model.Comment) (int64, error)
	DeleteComment(ctx context.Context, id int64) error
	CountComments(ctx context.Context) (int, error)

	CreateFeedback(ctx context.Context, f model.Feedback) (int64, error)
	ListFeedback(ctx context.Context) ([]model.Feedback, error)
	DeleteFeedback(ctx context.Context, id int64) error

	GetUserByUsername(ctx context.Context, username string) (model.User, error)
	CreateUser(ctx context.Context, username, passwordHash string, isAdmin bool) (int64, error)

	Close() error
}

var _ Storage = (*Store)(nil)

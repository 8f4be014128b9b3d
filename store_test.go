package erasite

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eringen/erasite/apperror"
	"github.com/eringen/erasite/model"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "test.db"), 4)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func createTestEra(t *testing.T, s *Store, title string, tags ...string) int64 {
	t.Helper()
	id, err := s.CreateEra(context.Background(), model.EraInput{
		Title:       title,
		Description: "описание " + title,
		StartYear:   1980,
		EndYear:     1990,
		ImageURL:    defaultEraImage,
		Tags:        tags,
	})
	if err != nil {
		t.Fatalf("CreateEra failed: %v", err)
	}
	return id
}

func TestNewStore(t *testing.T) {
	s := setupTestStore(t)
	if s.db == nil {
		t.Fatal("db should not be nil")
	}
	var fk int
	require.NoError(t, s.db.Get(&fk, `PRAGMA foreign_keys`))
	assert.Equal(t, 1, fk)
}

func TestNewStoreIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "again.db")
	s, err := NewStore(path, 1)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = NewStore(path, 1)
	require.NoError(t, err)
	require.NoError(t, s.Close())
}

func TestCreateAndGetEra(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	id, err := s.CreateEra(ctx, model.EraInput{
		Title:       "Golden Age",
		Description: "d",
		StartYear:   1978,
		EndYear:     1983,
		ImageURL:    defaultEraImage,
		Tags:        SplitTags(" Аркады, 3D"),
	})
	require.NoError(t, err)

	era, err := s.GetEra(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Golden Age", era.Title)
	assert.Nil(t, era.PreviousTitle)
	assert.Equal(t, 1978, era.StartYear)
	assert.Equal(t, 1983, era.EndYear)
	assert.Equal(t, defaultEraImage, era.ImageURL)
	assert.ElementsMatch(t, []string{"Аркады", "3D"}, era.Tags)
	assert.False(t, era.CreatedAt.IsZero())
}

func TestGetEraNotFound(t *testing.T) {
	s := setupTestStore(t)
	_, err := s.GetEra(context.Background(), 999)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestListErasNewestFirst(t *testing.T) {
	s := setupTestStore(t)
	first := createTestEra(t, s, "First", "a")
	second := createTestEra(t, s, "Second")

	eras, err := s.ListEras(context.Background())
	require.NoError(t, err)
	require.Len(t, eras, 2)
	assert.Equal(t, second, eras[0].ID)
	assert.Equal(t, first, eras[1].ID)
	assert.Equal(t, []string{}, eras[0].Tags)
	assert.Equal(t, []string{"a"}, eras[1].Tags)
}

func TestListErasEmpty(t *testing.T) {
	s := setupTestStore(t)
	eras, err := s.ListEras(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, eras)
	assert.Empty(t, eras)
}

func TestUpdateEraTracksPreviousTitle(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	id := createTestEra(t, s, "Old", "x")

	in := model.EraInput{Title: "New", Description: "d", StartYear: 1, EndYear: 2, Tags: []string{"y"}}
	require.NoError(t, s.UpdateEra(ctx, id, in))

	era, err := s.GetEra(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "New", era.Title)
	require.NotNil(t, era.PreviousTitle)
	assert.Equal(t, "Old", *era.PreviousTitle)
	assert.Equal(t, defaultEraImage, era.ImageURL, "empty image keeps the current one")
	assert.Equal(t, []string{"y"}, era.Tags)

	// same title again: previous_title stays
	in.Description = "changed"
	require.NoError(t, s.UpdateEra(ctx, id, in))
	era, err = s.GetEra(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, era.PreviousTitle)
	assert.Equal(t, "Old", *era.PreviousTitle)
	assert.Equal(t, "changed", era.Description)
}

func TestUpdateEraReplacesImage(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	id := createTestEra(t, s, "Era")

	in := model.EraInput{Title: "Era", Description: "d", StartYear: 1, EndYear: 2, ImageURL: "/images/new.png"}
	require.NoError(t, s.UpdateEra(ctx, id, in))
	era, err := s.GetEra(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "/images/new.png", era.ImageURL)
	assert.Nil(t, era.PreviousTitle)
}

func TestUpdateEraNotFound(t *testing.T) {
	s := setupTestStore(t)
	err := s.UpdateEra(context.Background(), 42, model.EraInput{Title: "t", Description: "d", StartYear: 1, EndYear: 2, Tags: []string{"ghost"}})
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	// the rolled back transaction must not leave the tag behind
	tags, err := s.ListTags(context.Background())
	require.NoError(t, err)
	assert.Empty(t, tags)
}

func TestDeleteEraCascades(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	id := createTestEra(t, s, "Doomed", "orphan")
	_, err := s.CreateComment(ctx, model.Comment{EraID: id, Nickname: "n", Email: "n@example.com", Content: "c"})
	require.NoError(t, err)

	require.NoError(t, s.DeleteEra(ctx, id))

	var links, comments int
	require.NoError(t, s.db.Get(&links, `SELECT count(*) FROM era_tags`))
	require.NoError(t, s.db.Get(&comments, `SELECT count(*) FROM comments`))
	assert.Zero(t, links)
	assert.Zero(t, comments)

	tags, err := s.ListTags(ctx)
	require.NoError(t, err)
	require.Len(t, tags, 1, "tags outlive their eras")
	assert.Equal(t, "orphan", tags[0].Name)

	assert.ErrorIs(t, s.DeleteEra(ctx, id), apperror.ErrNotFound)
}

func TestTagsAreSharedAndExactCase(t *testing.T) {
	s := setupTestStore(t)
	createTestEra(t, s, "A", "3D", "Онлайн")
	createTestEra(t, s, "B", "3D", "3d")

	tags, err := s.ListTags(context.Background())
	require.NoError(t, err)
	names := make([]string, 0, len(tags))
	for _, tag := range tags {
		names = append(names, tag.Name)
	}
	assert.ElementsMatch(t, []string{"3D", "3d", "Онлайн"}, names)
}

func TestConcurrentEraCreatesShareNewTag(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	const writers = 8
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.CreateEra(ctx, model.EraInput{
				Title: "Race", Description: "d", StartYear: 1, EndYear: 2,
				ImageURL: defaultEraImage, Tags: []string{"Новый"},
			})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	var n int
	require.NoError(t, s.db.Get(&n, `SELECT count(*) FROM tags WHERE name = ?`, "Новый"))
	assert.Equal(t, 1, n)
	require.NoError(t, s.db.Get(&n, `SELECT count(*) FROM era_tags`))
	assert.Equal(t, writers, n)
}

func TestComments(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	eraID := createTestEra(t, s, "Era")

	first, err := s.CreateComment(ctx, model.Comment{EraID: eraID, Nickname: "a", Email: "a@example.com", Content: "one"})
	require.NoError(t, err)
	second, err := s.CreateComment(ctx, model.Comment{EraID: eraID, Nickname: "b", Email: "b@example.com", Content: "two"})
	require.NoError(t, err)

	comments, err := s.ListComments(ctx, eraID)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, second, comments[0].ID)
	assert.Equal(t, first, comments[1].ID)

	n, err := s.CountComments(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	require.NoError(t, s.DeleteComment(ctx, first))
	assert.ErrorIs(t, s.DeleteComment(ctx, first), apperror.ErrNotFound)
}

func TestCreateCommentUnknownEra(t *testing.T) {
	s := setupTestStore(t)
	_, err := s.CreateComment(context.Background(), model.Comment{EraID: 77, Nickname: "n", Email: "e@example.com", Content: "c"})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestFeedback(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	id, err := s.CreateFeedback(ctx, model.Feedback{Name: "Ира", Email: "ira@example.com", Message: "Спасибо"})
	require.NoError(t, err)

	list, err := s.ListFeedback(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Ира", list[0].Name)

	require.NoError(t, s.DeleteFeedback(ctx, id))
	assert.ErrorIs(t, s.DeleteFeedback(ctx, id), apperror.ErrNotFound)
}

func TestUsers(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	id, err := s.CreateUser(ctx, "root", "hash", true)
	require.NoError(t, err)

	u, err := s.GetUserByUsername(ctx, "root")
	require.NoError(t, err)
	assert.Equal(t, id, u.ID)
	assert.Equal(t, "hash", u.PasswordHash)
	assert.True(t, u.IsAdmin)

	_, err = s.CreateUser(ctx, "root", "other", false)
	assert.ErrorIs(t, err, apperror.ErrConflict)

	_, err = s.GetUserByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestResetSchema(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	createTestEra(t, s, "Era", "t")

	require.NoError(t, s.ResetSchema(ctx))
	eras, err := s.ListEras(ctx)
	require.NoError(t, err)
	assert.Empty(t, eras)
}

func TestSplitTags(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{" , ,", nil},
		{" Аркады, 3D", []string{"Аркады", "3D"}},
		{"a,b,a, b ", []string{"a", "b"}},
		{"3D,3d", []string{"3D", "3d"}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SplitTags(tt.in), "SplitTags(%q)", tt.in)
	}
}

func TestParseTags(t *testing.T) {
	assert.Equal(t, []string{}, ParseTags(""))
	assert.Equal(t, []string{"a", "b"}, ParseTags("a,b"))
}

package storage

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"forumhub/internal/app"
	"forumhub/internal/db"
	"forumhub/internal/models"
)

// These tests run against a real PostgreSQL when FORUM_TEST_DATABASE_URL is
// set. Every test creates its own uniquely named rows, so the database can be
// shared between runs.
func openIntegration(t *testing.T) (*DatabaseStorage, *sqlx.DB) {
	t.Helper()
	url := os.Getenv("FORUM_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("FORUM_TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	d, err := db.Open(ctx, app.DatabaseConfig{URL: url, MaxOpenConns: 20, MaxIdleConns: 5, ConnMaxLifetime: time.Minute})
	require.NoError(t, err)
	t.Cleanup(func() { d.Close() })
	require.NoError(t, db.Migrate(ctx, d, filepath.Join("..", "..", "schema.sql")))
	return New(d), d
}

func seedUser(t *testing.T, s *DatabaseStorage) *models.User {
	t.Helper()
	email := uuid.NewString() + "@example.com"
	u, err := s.UpsertUser(context.Background(), models.UpsertUser{ID: uuid.NewString(), Email: &email})
	require.NoError(t, err)
	return u
}

func seedForum(t *testing.T, s *DatabaseStorage, order int) *models.Forum {
	t.Helper()
	f, err := s.CreateForum(context.Background(), models.NewForum{
		Name: "Forum", Icon: "chat", Color: "#000000", Slug: "f-" + uuid.NewString(), Order: order,
	})
	require.NoError(t, err)
	return f
}

func seedPost(t *testing.T, s *DatabaseStorage, author *models.User, forum *models.Forum, title, content string) *models.Post {
	t.Helper()
	p, err := s.CreatePost(context.Background(), models.NewPost{
		Title: title, Content: content, AuthorID: author.ID, ForumID: forum.ID,
	})
	require.NoError(t, err)
	return p
}

func TestIntegrationPostCounters(t *testing.T) {
	s, _ := openIntegration(t)
	ctx := context.Background()
	u := seedUser(t, s)
	f := seedForum(t, s, 0)
	assert.Equal(t, 0, f.PostCount)

	p := seedPost(t, s, u, f, "hello", "world")
	got, err := s.GetForum(ctx, f.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.PostCount)

	r, err := s.CreateReply(ctx, models.NewReply{Content: "hi", AuthorID: u.ID, PostID: p.ID})
	require.NoError(t, err)
	detail, err := s.GetPost(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, detail.ReplyCount)

	require.NoError(t, s.DeleteReply(ctx, r.ID))
	detail, err = s.GetPost(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, detail.ReplyCount)

	require.NoError(t, s.DeletePost(ctx, p.ID))
	got, err = s.GetForum(ctx, f.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.PostCount)

	posts, err := s.GetPosts(ctx, f.ID, 50, 0)
	require.NoError(t, err)
	assert.Empty(t, posts)

	// deleting again changes nothing
	require.NoError(t, s.DeletePost(ctx, p.ID))
	got, err = s.GetForum(ctx, f.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.PostCount)
}

func TestIntegrationForumOrdering(t *testing.T) {
	s, _ := openIntegration(t)
	ctx := context.Background()

	created := map[string]int{}
	for _, order := range []int{5, 1, 3} {
		f := seedForum(t, s, order)
		created[f.ID] = order
	}

	forums, err := s.GetForums(ctx)
	require.NoError(t, err)

	var orders []int
	for _, f := range forums {
		if o, ok := created[f.ID]; ok {
			orders = append(orders, o)
		}
	}
	assert.Equal(t, []int{1, 3, 5}, orders)
}

func TestIntegrationPinnedFirst(t *testing.T) {
	s, d := openIntegration(t)
	ctx := context.Background()
	u := seedUser(t, s)
	f := seedForum(t, s, 0)

	old := seedPost(t, s, u, f, "old pinned", "x")
	pinned := true
	require.NoError(t, s.UpdatePost(ctx, old.ID, models.PostPatch{Pinned: &pinned}))
	_, err := d.ExecContext(ctx, `UPDATE posts SET created_at = now() - interval '1 day' WHERE id = $1`, old.ID)
	require.NoError(t, err)

	older := seedPost(t, s, u, f, "older", "x")
	_, err = d.ExecContext(ctx, `UPDATE posts SET created_at = now() - interval '1 hour' WHERE id = $1`, older.ID)
	require.NoError(t, err)
	recent := seedPost(t, s, u, f, "recent", "x")

	posts, err := s.GetPosts(ctx, f.ID, 50, 0)
	require.NoError(t, err)
	require.Len(t, posts, 3)
	assert.Equal(t, []string{old.ID, recent.ID, older.ID}, []string{posts[0].ID, posts[1].ID, posts[2].ID})
}

func TestIntegrationSearch(t *testing.T) {
	s, _ := openIntegration(t)
	ctx := context.Background()
	u := seedUser(t, s)
	f := seedForum(t, s, 0)

	tag := uuid.NewString()[:8]
	both := seedPost(t, s, u, f, "Alpha"+tag+" release", "notes about Beta"+tag)
	seedPost(t, s, u, f, "alpha"+tag+" only", "nothing else here")

	posts, err := s.SearchPosts(ctx, "alpha"+tag+" beta"+tag, 0, 50)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, both.ID, posts[0].ID)

	posts, err = s.SearchPosts(ctx, "ALPHA"+tag, 0, 50)
	require.NoError(t, err)
	assert.Len(t, posts, 2)

	// LIKE wildcards are matched literally
	posts, err = s.SearchPosts(ctx, "%"+tag, 0, 50)
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestIntegrationConcurrentViews(t *testing.T) {
	s, _ := openIntegration(t)
	ctx := context.Background()
	u := seedUser(t, s)
	f := seedForum(t, s, 0)
	p := seedPost(t, s, u, f, "busy", "x")

	const n = 50
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- s.IncrementPostViews(ctx, p.ID)
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	got, err := s.GetPost(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ViewCount+n, got.ViewCount)
}

func TestIntegrationUpsertUser(t *testing.T) {
	s, d := openIntegration(t)
	ctx := context.Background()

	id := uuid.NewString()
	first, second := id+"-1@example.com", id+"-2@example.com"
	_, err := s.UpsertUser(ctx, models.UpsertUser{ID: id, Email: &first})
	require.NoError(t, err)
	u, err := s.UpsertUser(ctx, models.UpsertUser{ID: id, Email: &second})
	require.NoError(t, err)
	assert.Equal(t, second, *u.Email)
	assert.Equal(t, models.RoleMember, u.Role)

	var n int
	require.NoError(t, d.GetContext(ctx, &n, `SELECT COUNT(*) FROM users WHERE id = $1`, id))
	assert.Equal(t, 1, n)
}

func TestIntegrationDanglingForumHidesPosts(t *testing.T) {
	s, _ := openIntegration(t)
	ctx := context.Background()
	u := seedUser(t, s)
	f := seedForum(t, s, 0)
	p := seedPost(t, s, u, f, "orphan", "x")

	require.NoError(t, s.DeleteForum(ctx, f.ID))

	got, err := s.GetPost(ctx, p.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

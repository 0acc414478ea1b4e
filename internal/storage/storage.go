// Package storage is the only component that talks to the relational store.
// Reads come back already joined and shaped for serialization; a missing row
// is reported as a nil result, never as an error.
package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"forumhub/internal/models"
)

const (
	DefaultLimit = 50
)

// ErrInvalidParent is returned by CreateReply when the parent reply does not
// exist or belongs to another post.
var ErrInvalidParent = errors.New("parent reply not found in this post")

type Storage interface {
	Ping(ctx context.Context) error

	GetUser(ctx context.Context, id string) (*models.User, error)
	UpsertUser(ctx context.Context, u models.UpsertUser) (*models.User, error)
	UpdateUserRole(ctx context.Context, userID string, role models.Role) error
	BanUser(ctx context.Context, userID string) error
	UnbanUser(ctx context.Context, userID string) error
	GetAllUsers(ctx context.Context) ([]models.User, error)

	CreateForum(ctx context.Context, f models.NewForum) (*models.Forum, error)
	GetForums(ctx context.Context) ([]models.ForumWithStats, error)
	GetForum(ctx context.Context, id string) (*models.Forum, error)
	GetForumBySlug(ctx context.Context, slug string) (*models.Forum, error)
	UpdateForum(ctx context.Context, id string, patch models.ForumPatch) error
	DeleteForum(ctx context.Context, id string) error
	IncrementForumViews(ctx context.Context, forumID string) error

	CreatePost(ctx context.Context, p models.NewPost) (*models.Post, error)
	CreatePostWithAttachments(ctx context.Context, p models.NewPost, atts []models.NewAttachment) (*models.Post, error)
	GetPosts(ctx context.Context, forumID string, limit, offset int) ([]models.PostWithDetails, error)
	GetPost(ctx context.Context, id string) (*models.PostWithDetails, error)
	UpdatePost(ctx context.Context, id string, patch models.PostPatch) error
	DeletePost(ctx context.Context, id string) error
	IncrementPostViews(ctx context.Context, postID string) error

	CreateReply(ctx context.Context, r models.NewReply) (*models.Reply, error)
	GetReplies(ctx context.Context, postID string, offset, limit int) ([]models.Reply, error)
	GetReply(ctx context.Context, id string) (*models.Reply, error)
	UpdateReply(ctx context.Context, id string, patch models.ReplyPatch) error
	DeleteReply(ctx context.Context, id string) error

	CreateAttachment(ctx context.Context, a models.NewAttachment) (*models.Attachment, error)
	GetAttachments(ctx context.Context, postID string) ([]models.Attachment, error)
	GetAttachment(ctx context.Context, id string) (*models.Attachment, error)
	DeleteAttachment(ctx context.Context, id string) error

	SearchPosts(ctx context.Context, query string, offset, limit int) ([]models.PostWithDetails, error)
}

// DatabaseStorage implements Storage on PostgreSQL. It keeps no state of its
// own besides the pool, so one value is shared by all requests.
type DatabaseStorage struct {
	db *sqlx.DB
}

var _ Storage = (*DatabaseStorage)(nil)

func New(db *sqlx.DB) *DatabaseStorage {
	return &DatabaseStorage{db: db}
}

func (s *DatabaseStorage) Ping(ctx context.Context) error {
	return errors.Wrap(s.db.PingContext(ctx), "ping")
}

// inTx runs fn in a transaction. The derived-counter statements always run
// through here together with the row change they account for.
func (s *DatabaseStorage) inTx(ctx context.Context, op string, fn func(tx *sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, op+": begin")
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	return errors.Wrap(tx.Commit(), op+": commit")
}

func page(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// assignments collects "col = $n" pairs for partial updates.
type assignments struct {
	sets []string
	args []any
}

func (a *assignments) set(col string, v any) {
	a.args = append(a.args, v)
	a.sets = append(a.sets, fmt.Sprintf("%s = $%d", col, len(a.args)))
}

// update builds UPDATE table SET ..., updated_at = now() WHERE id = $n.
// updated_at is touched even when nothing else changed.
func (a *assignments) update(table, id string) (string, []any) {
	sets := append(a.sets, "updated_at = now()")
	args := append(a.args, id)
	return fmt.Sprintf("UPDATE %s SET %s WHERE id = $%d", table, strings.Join(sets, ", "), len(args)), args
}

package storage

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"forumhub/internal/models"
)

var selectReplies = "SELECT " + selectList("r", "", replyColumns) + " FROM replies r"

// CreateReply inserts the reply and bumps the post's reply_count in the same
// transaction. A parent reply, when given, must belong to the same post.
func (s *DatabaseStorage) CreateReply(ctx context.Context, in models.NewReply) (*models.Reply, error) {
	parent := in.ParentReplyID
	if parent != nil && *parent == "" {
		parent = nil
	}

	q := `INSERT INTO replies AS r (content, author_id, post_id, parent_reply_id)
VALUES ($1, $2, $3, $4)
RETURNING ` + selectList("r", "", replyColumns)

	var r models.Reply
	err := s.inTx(ctx, "create reply", func(tx *sqlx.Tx) error {
		if parent != nil {
			var parentPost string
			err := tx.GetContext(ctx, &parentPost, `SELECT post_id FROM replies WHERE id = $1`, *parent)
			if err == sql.ErrNoRows || (err == nil && parentPost != in.PostID) {
				return ErrInvalidParent
			}
			if err != nil {
				return errors.Wrap(err, "check parent reply")
			}
		}
		if err := tx.GetContext(ctx, &r, q, in.Content, in.AuthorID, in.PostID, parent); err != nil {
			return errors.Wrap(err, "create reply")
		}
		return adjustPostReplies(ctx, tx, in.PostID, +1)
	})
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// GetReplies returns one page of a post's replies, oldest first. The list is
// flat; ParentReplyID carries the thread structure.
func (s *DatabaseStorage) GetReplies(ctx context.Context, postID string, offset, limit int) ([]models.Reply, error) {
	limit, offset = page(limit, offset)

	replies := []models.Reply{}
	err := s.db.SelectContext(ctx, &replies,
		selectReplies+" WHERE r.post_id = $1 ORDER BY r.created_at ASC LIMIT $2 OFFSET $3",
		postID, limit, offset)
	if err != nil {
		return nil, errors.Wrap(err, "get replies")
	}
	return replies, nil
}

func (s *DatabaseStorage) GetReply(ctx context.Context, id string) (*models.Reply, error) {
	var r models.Reply
	err := s.db.GetContext(ctx, &r, selectReplies+" WHERE r.id = $1", id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "get reply")
	}
	return &r, nil
}

func (s *DatabaseStorage) UpdateReply(ctx context.Context, id string, patch models.ReplyPatch) error {
	var a assignments
	if patch.Content != nil {
		a.set("content", *patch.Content)
	}

	q, args := a.update("replies", id)
	_, err := s.db.ExecContext(ctx, q, args...)
	return errors.Wrap(err, "update reply")
}

// DeleteReply removes a single reply and decrements its post. Child replies
// keep pointing at the removed parent.
func (s *DatabaseStorage) DeleteReply(ctx context.Context, id string) error {
	return s.inTx(ctx, "delete reply", func(tx *sqlx.Tx) error {
		var postID string
		err := tx.GetContext(ctx, &postID, `DELETE FROM replies WHERE id = $1 RETURNING post_id`, id)
		if err == sql.ErrNoRows {
			return nil
		}
		if err != nil {
			return errors.Wrap(err, "delete reply")
		}
		return adjustPostReplies(ctx, tx, postID, -1)
	})
}

func adjustPostReplies(ctx context.Context, tx *sqlx.Tx, postID string, delta int) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE posts SET reply_count = COALESCE(reply_count, 0) + $1, updated_at = now() WHERE id = $2`,
		delta, postID)
	return errors.Wrap(err, "adjust post reply count")
}

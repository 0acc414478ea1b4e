package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"forumhub/internal/models"
)

const postDetailsOrder = " ORDER BY COALESCE(p.pinned, false) DESC, p.created_at DESC"

// CreatePost inserts the post and bumps its forum's post_count in the same
// transaction.
func (s *DatabaseStorage) CreatePost(ctx context.Context, in models.NewPost) (*models.Post, error) {
	return s.CreatePostWithAttachments(ctx, in, nil)
}

// CreatePostWithAttachments is CreatePost plus the attachment rows, all in
// one transaction: either the post exists with every attachment or nothing
// was written.
func (s *DatabaseStorage) CreatePostWithAttachments(ctx context.Context, in models.NewPost, atts []models.NewAttachment) (*models.Post, error) {
	q := `INSERT INTO posts AS p (title, content, author_id, forum_id, pinned, locked)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING ` + selectList("p", "", postColumns)

	var p models.Post
	err := s.inTx(ctx, "create post", func(tx *sqlx.Tx) error {
		if err := tx.GetContext(ctx, &p, q,
			in.Title, in.Content, in.AuthorID, in.ForumID, in.Pinned, in.Locked); err != nil {
			return errors.Wrap(err, "create post")
		}
		for _, a := range atts {
			a.PostID = p.ID
			if _, err := insertAttachment(ctx, tx, a); err != nil {
				return err
			}
		}
		return adjustForumPosts(ctx, tx, in.ForumID, +1)
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetPosts lists posts, optionally of one forum, pinned ones first and newest
// first within each group. Attachments are loaded post by post.
func (s *DatabaseStorage) GetPosts(ctx context.Context, forumID string, limit, offset int) ([]models.PostWithDetails, error) {
	limit, offset = page(limit, offset)

	var args []any
	q := postDetailsFrom
	if forumID != "" {
		args = append(args, forumID)
		q += " WHERE p.forum_id = $1"
	}
	q += postDetailsOrder + fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	posts := []models.PostWithDetails{}
	if err := s.db.SelectContext(ctx, &posts, q, args...); err != nil {
		return nil, errors.Wrap(err, "get posts")
	}
	if err := s.loadAttachments(ctx, posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// GetPost returns nil when the post does not exist or when its author or
// forum row is missing.
func (s *DatabaseStorage) GetPost(ctx context.Context, id string) (*models.PostWithDetails, error) {
	var p models.PostWithDetails
	err := s.db.GetContext(ctx, &p, postDetailsFrom+" WHERE p.id = $1", id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "get post")
	}

	atts, err := s.GetAttachments(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Attachments = atts
	return &p, nil
}

func (s *DatabaseStorage) UpdatePost(ctx context.Context, id string, patch models.PostPatch) error {
	var a assignments
	if patch.Title != nil {
		a.set("title", *patch.Title)
	}
	if patch.Content != nil {
		a.set("content", *patch.Content)
	}
	if patch.Pinned != nil {
		a.set("pinned", *patch.Pinned)
	}
	if patch.Locked != nil {
		a.set("locked", *patch.Locked)
	}

	q, args := a.update("posts", id)
	_, err := s.db.ExecContext(ctx, q, args...)
	return errors.Wrap(err, "update post")
}

// DeletePost removes the post and decrements the forum that owned it. Deleting
// a post that does not exist is a no-op. Replies and attachments are left in
// place.
func (s *DatabaseStorage) DeletePost(ctx context.Context, id string) error {
	return s.inTx(ctx, "delete post", func(tx *sqlx.Tx) error {
		var forumID string
		err := tx.GetContext(ctx, &forumID, `DELETE FROM posts WHERE id = $1 RETURNING forum_id`, id)
		if err == sql.ErrNoRows {
			return nil
		}
		if err != nil {
			return errors.Wrap(err, "delete post")
		}
		return adjustForumPosts(ctx, tx, forumID, -1)
	})
}

func (s *DatabaseStorage) IncrementPostViews(ctx context.Context, postID string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE posts SET view_count = COALESCE(view_count, 0) + 1, updated_at = now() WHERE id = $1`, postID)
	return errors.Wrap(err, "increment post views")
}

func adjustForumPosts(ctx context.Context, tx *sqlx.Tx, forumID string, delta int) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE forums SET post_count = COALESCE(post_count, 0) + $1, updated_at = now() WHERE id = $2`,
		delta, forumID)
	return errors.Wrap(err, "adjust forum post count")
}

// loadAttachments fills in the attachments of every post, one query per post.
func (s *DatabaseStorage) loadAttachments(ctx context.Context, posts []models.PostWithDetails) error {
	for i := range posts {
		atts, err := s.GetAttachments(ctx, posts[i].ID)
		if err != nil {
			return err
		}
		posts[i].Attachments = atts
	}
	return nil
}

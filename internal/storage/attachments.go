package storage

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"forumhub/internal/models"
)

func (s *DatabaseStorage) CreateAttachment(ctx context.Context, in models.NewAttachment) (*models.Attachment, error) {
	return insertAttachment(ctx, s.db, in)
}

// insertAttachment runs on the pool or inside a transaction.
func insertAttachment(ctx context.Context, q sqlx.QueryerContext, in models.NewAttachment) (*models.Attachment, error) {
	var a models.Attachment
	err := sqlx.GetContext(ctx, q, &a, `INSERT INTO attachments AS a (post_id, file_name, file_url, file_type, file_size)
VALUES ($1, $2, $3, $4, $5)
RETURNING `+selectList("a", "", attachmentColumns),
		in.PostID, in.FileName, in.FileURL, in.FileType, in.FileSize)
	if err != nil {
		return nil, errors.Wrap(err, "create attachment")
	}
	return &a, nil
}

func (s *DatabaseStorage) GetAttachments(ctx context.Context, postID string) ([]models.Attachment, error) {
	atts := []models.Attachment{}
	err := s.db.SelectContext(ctx, &atts,
		"SELECT "+selectList("a", "", attachmentColumns)+" FROM attachments a WHERE a.post_id = $1 ORDER BY a.created_at ASC",
		postID)
	if err != nil {
		return nil, errors.Wrap(err, "get attachments")
	}
	return atts, nil
}

func (s *DatabaseStorage) GetAttachment(ctx context.Context, id string) (*models.Attachment, error) {
	var a models.Attachment
	err := s.db.GetContext(ctx, &a,
		"SELECT "+selectList("a", "", attachmentColumns)+" FROM attachments a WHERE a.id = $1", id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "get attachment")
	}
	return &a, nil
}

func (s *DatabaseStorage) DeleteAttachment(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM attachments WHERE id = $1`, id)
	return errors.Wrap(err, "delete attachment")
}

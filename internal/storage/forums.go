package storage

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	"forumhub/internal/models"
)

var selectForums = "SELECT " + selectList("f", "", forumColumns) + " FROM forums f"

// CreateForum inserts a forum; its counters always start at zero.
func (s *DatabaseStorage) CreateForum(ctx context.Context, in models.NewForum) (*models.Forum, error) {
	requires := in.RequiresRole
	if requires == "" {
		requires = models.RoleMember
	}

	q := `INSERT INTO forums AS f (name, description, icon, color, slug, "order", requires_role)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING ` + selectList("f", "", forumColumns)

	var f models.Forum
	err := s.db.GetContext(ctx, &f, q,
		in.Name, in.Description, in.Icon, in.Color, in.Slug, in.Order, string(requires))
	if err != nil {
		return nil, errors.Wrap(err, "create forum")
	}
	return &f, nil
}

// GetForums lists every forum by display order, oldest first within the same
// order.
func (s *DatabaseStorage) GetForums(ctx context.Context) ([]models.ForumWithStats, error) {
	forums := []models.ForumWithStats{}
	err := s.db.SelectContext(ctx, &forums,
		selectForums+` ORDER BY COALESCE(f."order", 0) ASC, f.created_at ASC`)
	if err != nil {
		return nil, errors.Wrap(err, "get forums")
	}
	return forums, nil
}

func (s *DatabaseStorage) GetForum(ctx context.Context, id string) (*models.Forum, error) {
	return s.getForumWhere(ctx, "f.id = $1", id)
}

func (s *DatabaseStorage) GetForumBySlug(ctx context.Context, slug string) (*models.Forum, error) {
	return s.getForumWhere(ctx, "f.slug = $1", slug)
}

func (s *DatabaseStorage) getForumWhere(ctx context.Context, cond string, arg any) (*models.Forum, error) {
	var f models.Forum
	err := s.db.GetContext(ctx, &f, selectForums+" WHERE "+cond, arg)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "get forum")
	}
	return &f, nil
}

func (s *DatabaseStorage) UpdateForum(ctx context.Context, id string, patch models.ForumPatch) error {
	var a assignments
	if patch.Name != nil {
		a.set("name", *patch.Name)
	}
	if patch.Description != nil {
		a.set("description", *patch.Description)
	}
	if patch.Icon != nil {
		a.set("icon", *patch.Icon)
	}
	if patch.Color != nil {
		a.set("color", *patch.Color)
	}
	if patch.Slug != nil {
		a.set("slug", *patch.Slug)
	}
	if patch.Order != nil {
		a.set(`"order"`, *patch.Order)
	}
	if patch.RequiresRole != nil {
		a.set("requires_role", string(*patch.RequiresRole))
	}

	q, args := a.update("forums", id)
	_, err := s.db.ExecContext(ctx, q, args...)
	return errors.Wrap(err, "update forum")
}

// DeleteForum removes the forum row only. Its posts are left in place and
// disappear from joined reads.
func (s *DatabaseStorage) DeleteForum(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM forums WHERE id = $1`, id)
	return errors.Wrap(err, "delete forum")
}

// IncrementForumViews bumps the counter inside the UPDATE itself so
// concurrent views never overwrite each other.
func (s *DatabaseStorage) IncrementForumViews(ctx context.Context, forumID string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE forums SET view_count = COALESCE(view_count, 0) + 1, updated_at = now() WHERE id = $1`, forumID)
	return errors.Wrap(err, "increment forum views")
}

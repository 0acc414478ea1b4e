package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"forumhub/internal/models"
)

// SearchPosts returns posts where every whitespace-separated term of query
// occurs, case-insensitively, in the title or in the content. Different
// terms may match different fields. Results are newest first. A query with no
// terms returns an empty result without touching the store.
func (s *DatabaseStorage) SearchPosts(ctx context.Context, query string, offset, limit int) ([]models.PostWithDetails, error) {
	terms := searchTerms(query)
	if len(terms) == 0 {
		return []models.PostWithDetails{}, nil
	}
	limit, offset = page(limit, offset)

	where, args := searchCondition(terms)
	q := postDetailsFrom + " WHERE " + where +
		fmt.Sprintf(" ORDER BY p.created_at DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	posts := []models.PostWithDetails{}
	if err := s.db.SelectContext(ctx, &posts, q, args...); err != nil {
		return nil, errors.Wrap(err, "search posts")
	}
	if err := s.loadAttachments(ctx, posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func searchTerms(query string) []string {
	return strings.Fields(strings.ToLower(query))
}

// searchCondition ANDs one (title OR content) LIKE pair per term. Each term
// is bound once and referenced twice.
func searchCondition(terms []string) (string, []any) {
	conds := make([]string, len(terms))
	args := make([]any, len(terms))
	for i, t := range terms {
		args[i] = "%" + escapeLike(t) + "%"
		conds[i] = fmt.Sprintf("(LOWER(p.title) LIKE $%[1]d OR LOWER(p.content) LIKE $%[1]d)", i+1)
	}
	return strings.Join(conds, " AND "), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes a term match literally under LIKE's default '\' escape.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

package storage

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"forumhub/internal/models"
)

var selectUsers = "SELECT " + selectList("u", "", userColumns) + " FROM users u"

func (s *DatabaseStorage) GetUser(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	err := s.db.GetContext(ctx, &u, selectUsers+" WHERE u.id = $1", id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "get user")
	}
	return &u, nil
}

// UpsertUser inserts the account or, when the id already exists, overwrites
// every supplied field. Nil fields and an empty role keep the stored value.
func (s *DatabaseStorage) UpsertUser(ctx context.Context, in models.UpsertUser) (*models.User, error) {
	id := in.ID
	if id == "" {
		id = uuid.NewString()
	}
	var role *string
	if in.Role != "" {
		r := string(in.Role)
		role = &r
	}

	q := `INSERT INTO users AS u (id, email, first_name, last_name, profile_image_url, role)
VALUES ($1, $2, $3, $4, $5, COALESCE($6::varchar, 'member'))
ON CONFLICT (id) DO UPDATE SET
  email = COALESCE(EXCLUDED.email, u.email),
  first_name = COALESCE(EXCLUDED.first_name, u.first_name),
  last_name = COALESCE(EXCLUDED.last_name, u.last_name),
  profile_image_url = COALESCE(EXCLUDED.profile_image_url, u.profile_image_url),
  role = COALESCE($6::varchar, u.role),
  updated_at = now()
RETURNING ` + selectList("u", "", userColumns)

	var u models.User
	if err := s.db.GetContext(ctx, &u, q, id, in.Email, in.FirstName, in.LastName, in.ProfileImageURL, role); err != nil {
		return nil, errors.Wrap(err, "upsert user")
	}
	return &u, nil
}

// UpdateUserRole stores role as given. Membership in the role enum is the
// caller's responsibility.
func (s *DatabaseStorage) UpdateUserRole(ctx context.Context, userID string, role models.Role) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE users SET role = $1, updated_at = now() WHERE id = $2`, string(role), userID)
	return errors.Wrap(err, "update user role")
}

func (s *DatabaseStorage) BanUser(ctx context.Context, userID string) error {
	return s.setBanned(ctx, userID, true)
}

func (s *DatabaseStorage) UnbanUser(ctx context.Context, userID string) error {
	return s.setBanned(ctx, userID, false)
}

// setBanned only flips the flag; content already posted stays visible.
func (s *DatabaseStorage) setBanned(ctx context.Context, userID string, banned bool) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE users SET banned = $1, updated_at = now() WHERE id = $2`, banned, userID)
	return errors.Wrap(err, "set banned")
}

func (s *DatabaseStorage) GetAllUsers(ctx context.Context) ([]models.User, error) {
	users := []models.User{}
	if err := s.db.SelectContext(ctx, &users, selectUsers+" ORDER BY u.created_at DESC"); err != nil {
		return nil, errors.Wrap(err, "get all users")
	}
	return users, nil
}

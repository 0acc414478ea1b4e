package auth

import (
	"context"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/crypto/blake2b"

	"forumhub/internal/models"
)

// UserUpserter is the part of storage.Storage the session store needs.
type UserUpserter interface {
	UpsertUser(ctx context.Context, u models.UpsertUser) (*models.User, error)
}

type sessionData struct {
	UserID string `json:"userId"`
}

// SessionStore keeps sessions in the sessions table. The cookie carries a
// random id; only its BLAKE2b digest is stored.
type SessionStore struct {
	db       *sqlx.DB
	users    UserUpserter
	lifetime time.Duration
}

func NewSessionStore(db *sqlx.DB, users UserUpserter, lifetime time.Duration) *SessionStore {
	return &SessionStore{db: db, users: users, lifetime: lifetime}
}

func hashSID(sid string) string {
	sum := blake2b.Sum256([]byte(sid))
	return hex.EncodeToString(sum[:])
}

// Login records the provider profile and opens a session for it. Expired
// sessions of any user are pruned in the same transaction.
func (s *SessionStore) Login(ctx context.Context, claims Claims) (models.Session, *models.User, error) {
	user, err := s.users.UpsertUser(ctx, claims.Upsert())
	if err != nil {
		return models.Session{}, nil, errors.Wrap(err, "login: upsert user")
	}

	sess, err := json.Marshal(sessionData{UserID: user.ID})
	if err != nil {
		return models.Session{}, nil, errors.Wrap(err, "login: encode session")
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return models.Session{}, nil, errors.Wrap(err, "login: begin")
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM sessions WHERE expire < (now() AT TIME ZONE 'UTC')`); err != nil {
		return models.Session{}, nil, errors.Wrap(err, "login: prune sessions")
	}

	sid := uuid.NewString()
	// expire is a TIMESTAMP without zone and always holds UTC.
	exp := time.Now().UTC().Add(s.lifetime)
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO sessions (sid, sess, expire) VALUES ($1, $2, $3)`,
		hashSID(sid), sess, exp,
	); err != nil {
		return models.Session{}, nil, errors.Wrap(err, "login: insert session")
	}
	if err := tx.Commit(); err != nil {
		return models.Session{}, nil, errors.Wrap(err, "login: commit")
	}

	zap.L().Info("login", zap.String("user_id", user.ID))
	return models.Session{SID: sid, UserID: user.ID, Expire: exp}, user, nil
}

func (s *SessionStore) Logout(ctx context.Context, sid string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE sid = $1`, hashSID(sid))
	return errors.Wrap(err, "logout")
}

// UserFromSession resolves a cookie value to the user id and expiry of its
// session. Unknown ids give ErrNoSession; expiry is left to the caller.
func (s *SessionStore) UserFromSession(ctx context.Context, sid string) (string, time.Time, error) {
	var row struct {
		UserID string    `db:"user_id"`
		Expire time.Time `db:"expire"`
	}
	err := s.db.GetContext(ctx, &row,
		`SELECT sess->>'userId' AS user_id, expire FROM sessions WHERE sid = $1`, hashSID(sid))
	if errors.Is(err, sql.ErrNoRows) {
		return "", time.Time{}, ErrNoSession
	}
	if err != nil {
		return "", time.Time{}, errors.Wrap(err, "user from session")
	}
	return row.UserID, row.Expire, nil
}

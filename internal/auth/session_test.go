package auth

import (
	"context"
	"database/sql/driver"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"forumhub/internal/models"
	"forumhub/internal/storage/mocks"
)

func newMockSessions(t *testing.T) (*SessionStore, *mocks.Storage, sqlmock.Sqlmock) {
	t.Helper()
	raw, sm, err := sqlmock.New()
	require.NoError(t, err)
	users := &mocks.Storage{}
	t.Cleanup(func() {
		assert.NoError(t, sm.ExpectationsWereMet())
		users.AssertExpectations(t)
		raw.Close()
	})
	return NewSessionStore(sqlx.NewDb(raw, "pgx"), users, time.Hour), users, sm
}

func TestHashSID(t *testing.T) {
	h := hashSID("abc")
	assert.Len(t, h, 64)
	assert.Equal(t, h, hashSID("abc"))
	assert.NotEqual(t, h, hashSID("abd"))
}

func TestLogin(t *testing.T) {
	s, users, sm := newMockSessions(t)
	claims := validClaims()

	users.On("UpsertUser", mock.Anything, claims.Upsert()).
		Return(&models.User{ID: "sub-1", Role: models.RoleMember}, nil).Once()

	sm.ExpectBegin()
	sm.ExpectExec(regexp.QuoteMeta(`DELETE FROM sessions WHERE expire < (now() AT TIME ZONE 'UTC')`)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	sm.ExpectExec(regexp.QuoteMeta(`INSERT INTO sessions (sid, sess, expire) VALUES ($1, $2, $3)`)).
		WithArgs(sqlmock.AnyArg(), []byte(`{"userId":"sub-1"}`), utcTime{}).
		WillReturnResult(sqlmock.NewResult(0, 1))
	sm.ExpectCommit()

	before := time.Now()
	sess, user, err := s.Login(context.Background(), claims)
	require.NoError(t, err)
	assert.Equal(t, "sub-1", user.ID)
	assert.Equal(t, "sub-1", sess.UserID)
	assert.NotEmpty(t, sess.SID)
	assert.WithinDuration(t, before.Add(time.Hour), sess.Expire, 5*time.Second)
	assert.Equal(t, time.UTC, sess.Expire.Location())
}

// utcTime matches a time.Time argument expressed in UTC.
type utcTime struct{}

func (utcTime) Match(v driver.Value) bool {
	ts, ok := v.(time.Time)
	return ok && ts.Location() == time.UTC
}

func TestLoginUpsertFailureOpensNoSession(t *testing.T) {
	s, users, _ := newMockSessions(t)
	users.On("UpsertUser", mock.Anything, mock.Anything).Return(nil, errors.New("boom")).Once()

	_, _, err := s.Login(context.Background(), validClaims())
	assert.Error(t, err)
}

func TestUserFromSession(t *testing.T) {
	s, _, sm := newMockSessions(t)
	exp := time.Now().Add(time.Hour).UTC()

	sm.ExpectQuery(regexp.QuoteMeta(`SELECT sess->>'userId' AS user_id, expire FROM sessions WHERE sid = $1`)).
		WithArgs(hashSID("cookie")).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "expire"}).AddRow("u1", exp))

	uid, gotExp, err := s.UserFromSession(context.Background(), "cookie")
	require.NoError(t, err)
	assert.Equal(t, "u1", uid)
	assert.True(t, exp.Equal(gotExp))
}

func TestUserFromSessionUnknown(t *testing.T) {
	s, _, sm := newMockSessions(t)
	sm.ExpectQuery(`FROM sessions`).
		WithArgs(hashSID("nope")).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "expire"}))

	_, _, err := s.UserFromSession(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestLogoutDeletesHashedID(t *testing.T) {
	s, _, sm := newMockSessions(t)
	sm.ExpectExec(regexp.QuoteMeta(`DELETE FROM sessions WHERE sid = $1`)).
		WithArgs(hashSID("cookie")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, s.Logout(context.Background(), "cookie"))
}

// Package mocks holds a testify mock of storage.Storage for handler tests.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"forumhub/internal/models"
	"forumhub/internal/storage"
)

type Storage struct {
	mock.Mock
}

var _ storage.Storage = (*Storage)(nil)

func (m *Storage) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *Storage) GetUser(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

func (m *Storage) UpsertUser(ctx context.Context, in models.UpsertUser) (*models.User, error) {
	args := m.Called(ctx, in)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

func (m *Storage) UpdateUserRole(ctx context.Context, userID string, role models.Role) error {
	return m.Called(ctx, userID, role).Error(0)
}

func (m *Storage) BanUser(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *Storage) UnbanUser(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *Storage) GetAllUsers(ctx context.Context) ([]models.User, error) {
	args := m.Called(ctx)
	users, _ := args.Get(0).([]models.User)
	return users, args.Error(1)
}

func (m *Storage) CreateForum(ctx context.Context, f models.NewForum) (*models.Forum, error) {
	args := m.Called(ctx, f)
	out, _ := args.Get(0).(*models.Forum)
	return out, args.Error(1)
}

func (m *Storage) GetForums(ctx context.Context) ([]models.ForumWithStats, error) {
	args := m.Called(ctx)
	out, _ := args.Get(0).([]models.ForumWithStats)
	return out, args.Error(1)
}

func (m *Storage) GetForum(ctx context.Context, id string) (*models.Forum, error) {
	args := m.Called(ctx, id)
	out, _ := args.Get(0).(*models.Forum)
	return out, args.Error(1)
}

func (m *Storage) GetForumBySlug(ctx context.Context, slug string) (*models.Forum, error) {
	args := m.Called(ctx, slug)
	out, _ := args.Get(0).(*models.Forum)
	return out, args.Error(1)
}

func (m *Storage) UpdateForum(ctx context.Context, id string, patch models.ForumPatch) error {
	return m.Called(ctx, id, patch).Error(0)
}

func (m *Storage) DeleteForum(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *Storage) IncrementForumViews(ctx context.Context, forumID string) error {
	return m.Called(ctx, forumID).Error(0)
}

func (m *Storage) CreatePost(ctx context.Context, p models.NewPost) (*models.Post, error) {
	args := m.Called(ctx, p)
	out, _ := args.Get(0).(*models.Post)
	return out, args.Error(1)
}

func (m *Storage) CreatePostWithAttachments(ctx context.Context, p models.NewPost, atts []models.NewAttachment) (*models.Post, error) {
	args := m.Called(ctx, p, atts)
	out, _ := args.Get(0).(*models.Post)
	return out, args.Error(1)
}

func (m *Storage) GetPosts(ctx context.Context, forumID string, limit, offset int) ([]models.PostWithDetails, error) {
	args := m.Called(ctx, forumID, limit, offset)
	out, _ := args.Get(0).([]models.PostWithDetails)
	return out, args.Error(1)
}

func (m *Storage) GetPost(ctx context.Context, id string) (*models.PostWithDetails, error) {
	args := m.Called(ctx, id)
	out, _ := args.Get(0).(*models.PostWithDetails)
	return out, args.Error(1)
}

func (m *Storage) UpdatePost(ctx context.Context, id string, patch models.PostPatch) error {
	return m.Called(ctx, id, patch).Error(0)
}

func (m *Storage) DeletePost(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *Storage) IncrementPostViews(ctx context.Context, postID string) error {
	return m.Called(ctx, postID).Error(0)
}

func (m *Storage) CreateReply(ctx context.Context, r models.NewReply) (*models.Reply, error) {
	args := m.Called(ctx, r)
	out, _ := args.Get(0).(*models.Reply)
	return out, args.Error(1)
}

func (m *Storage) GetReplies(ctx context.Context, postID string, offset, limit int) ([]models.Reply, error) {
	args := m.Called(ctx, postID, offset, limit)
	out, _ := args.Get(0).([]models.Reply)
	return out, args.Error(1)
}

func (m *Storage) GetReply(ctx context.Context, id string) (*models.Reply, error) {
	args := m.Called(ctx, id)
	out, _ := args.Get(0).(*models.Reply)
	return out, args.Error(1)
}

func (m *Storage) UpdateReply(ctx context.Context, id string, patch models.ReplyPatch) error {
	return m.Called(ctx, id, patch).Error(0)
}

func (m *Storage) DeleteReply(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *Storage) CreateAttachment(ctx context.Context, a models.NewAttachment) (*models.Attachment, error) {
	args := m.Called(ctx, a)
	out, _ := args.Get(0).(*models.Attachment)
	return out, args.Error(1)
}

func (m *Storage) GetAttachments(ctx context.Context, postID string) ([]models.Attachment, error) {
	args := m.Called(ctx, postID)
	out, _ := args.Get(0).([]models.Attachment)
	return out, args.Error(1)
}

func (m *Storage) GetAttachment(ctx context.Context, id string) (*models.Attachment, error) {
	args := m.Called(ctx, id)
	out, _ := args.Get(0).(*models.Attachment)
	return out, args.Error(1)
}

func (m *Storage) DeleteAttachment(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *Storage) SearchPosts(ctx context.Context, query string, offset, limit int) ([]models.PostWithDetails, error) {
	args := m.Called(ctx, query, offset, limit)
	out, _ := args.Get(0).([]models.PostWithDetails)
	return out, args.Error(1)
}

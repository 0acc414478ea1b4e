package models

import "time"

type User struct {
	ID              string    `db:"id" json:"id"`
	Email           *string   `db:"email" json:"email"`
	FirstName       *string   `db:"first_name" json:"firstName"`
	LastName        *string   `db:"last_name" json:"lastName"`
	ProfileImageURL *string   `db:"profile_image_url" json:"profileImageUrl"`
	Role            Role      `db:"role" json:"role"`
	Banned          bool      `db:"banned" json:"banned"`
	CreatedAt       time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt       time.Time `db:"updated_at" json:"updatedAt"`
}

// UpsertUser is the account data supplied by the identity provider. An empty
// ID gets a generated one; an empty Role keeps the column default on insert.
type UpsertUser struct {
	ID              string
	Email           *string
	FirstName       *string
	LastName        *string
	ProfileImageURL *string
	Role            Role
}

type Session struct {
	SID    string    `db:"sid"`
	UserID string    `db:"-"`
	Expire time.Time `db:"expire"`
}

type Forum struct {
	ID           string    `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Description  *string   `db:"description" json:"description"`
	Icon         string    `db:"icon" json:"icon"`
	Color        string    `db:"color" json:"color"`
	Slug         string    `db:"slug" json:"slug"`
	PostCount    int       `db:"post_count" json:"postCount"`
	ViewCount    int       `db:"view_count" json:"viewCount"`
	Order        int       `db:"order" json:"order"`
	RequiresRole Role      `db:"requires_role" json:"requiresRole"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}

// ForumWithStats is a forum as listed on the index, counters already
// defaulted to zero.
type ForumWithStats struct {
	Forum
}

// NewForum carries no counters: a created forum always starts at zero.
type NewForum struct {
	Name         string  `json:"name" binding:"required,max=120"`
	Description  *string `json:"description"`
	Icon         string  `json:"icon" binding:"required"`
	Color        string  `json:"color" binding:"required"`
	Slug         string  `json:"slug" binding:"required,max=80"`
	Order        int     `json:"order"`
	RequiresRole Role    `json:"requiresRole" binding:"omitempty,forumrole"`
}

type ForumPatch struct {
	Name         *string `json:"name" binding:"omitempty,max=120"`
	Description  *string `json:"description"`
	Icon         *string `json:"icon"`
	Color        *string `json:"color"`
	Slug         *string `json:"slug" binding:"omitempty,max=80"`
	Order        *int    `json:"order"`
	RequiresRole *Role   `json:"requiresRole" binding:"omitempty,forumrole"`
}

type Post struct {
	ID         string    `db:"id" json:"id"`
	Title      string    `db:"title" json:"title"`
	Content    string    `db:"content" json:"content"`
	AuthorID   string    `db:"author_id" json:"authorId"`
	ForumID    string    `db:"forum_id" json:"forumId"`
	ViewCount  int       `db:"view_count" json:"viewCount"`
	ReplyCount int       `db:"reply_count" json:"replyCount"`
	Pinned     bool      `db:"pinned" json:"pinned"`
	Locked     bool      `db:"locked" json:"locked"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt  time.Time `db:"updated_at" json:"updatedAt"`
}

// PostWithDetails is a post joined with its author, forum and attachments,
// shaped for direct serialization.
type PostWithDetails struct {
	Post
	Author      User         `db:"author" json:"author"`
	Forum       Forum        `db:"forum" json:"forum"`
	Attachments []Attachment `db:"-" json:"attachments"`
}

type NewPost struct {
	Title    string `json:"title" binding:"required,max=300"`
	Content  string `json:"content" binding:"required"`
	AuthorID string `json:"-"`
	ForumID  string `json:"forumId" binding:"required"`
	Pinned   bool   `json:"pinned"`
	Locked   bool   `json:"locked"`
}

type PostPatch struct {
	Title   *string `json:"title" binding:"omitempty,max=300"`
	Content *string `json:"content"`
	Pinned  *bool   `json:"pinned"`
	Locked  *bool   `json:"locked"`
}

type Reply struct {
	ID            string    `db:"id" json:"id"`
	Content       string    `db:"content" json:"content"`
	AuthorID      string    `db:"author_id" json:"authorId"`
	PostID        string    `db:"post_id" json:"postId"`
	ParentReplyID *string   `db:"parent_reply_id" json:"parentReplyId"`
	CreatedAt     time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time `db:"updated_at" json:"updatedAt"`
}

type NewReply struct {
	Content       string  `json:"content" binding:"required"`
	AuthorID      string  `json:"-"`
	PostID        string  `json:"-"`
	ParentReplyID *string `json:"parentReplyId"`
}

// ReplyPatch only exposes the content; the parent of a reply is fixed at
// creation time.
type ReplyPatch struct {
	Content *string `json:"content" binding:"omitempty,min=1"`
}

type Attachment struct {
	ID        string    `db:"id" json:"id"`
	PostID    string    `db:"post_id" json:"postId"`
	FileName  string    `db:"file_name" json:"fileName"`
	FileURL   string    `db:"file_url" json:"fileUrl"`
	FileType  string    `db:"file_type" json:"fileType"`
	FileSize  int64     `db:"file_size" json:"fileSize"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

type NewAttachment struct {
	PostID   string `json:"-"`
	FileName string `json:"fileName" binding:"required"`
	FileURL  string `json:"fileUrl" binding:"required"`
	FileType string `json:"fileType" binding:"required"`
	FileSize int64  `json:"fileSize" binding:"gte=0"`
}

package httpx

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"forumhub/internal/auth"
	"forumhub/internal/models"
	"forumhub/internal/storage"
	"forumhub/internal/util"
)

const (
	searchLimit    = 20
	maxAttachments = 5
)

func (s *Server) handlePosts(c *gin.Context) {
	me, err := s.viewer(c)
	if err != nil {
		s.fail(c, err, "Failed to fetch posts")
		return
	}
	limit, offset := util.Page(c, storage.DefaultLimit)
	posts, err := s.Store.GetPosts(c.Request.Context(), c.Query("forumId"), limit, offset)
	if err != nil {
		s.fail(c, err, "Failed to fetch posts")
		return
	}
	util.Render(c, http.StatusOK, visiblePosts(me, posts))
}

func (s *Server) handleSearch(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		util.Render(c, http.StatusOK, []models.PostWithDetails{})
		return
	}
	me, err := s.viewer(c)
	if err != nil {
		s.fail(c, err, "Failed to search posts")
		return
	}
	limit, offset := util.Page(c, searchLimit)
	posts, err := s.Store.SearchPosts(c.Request.Context(), q, offset, limit)
	if err != nil {
		s.fail(c, err, "Failed to search posts")
		return
	}
	util.Render(c, http.StatusOK, visiblePosts(me, posts))
}

// visiblePosts drops posts whose forum requires a higher role than me has.
func visiblePosts(me *models.User, posts []models.PostWithDetails) []models.PostWithDetails {
	out := posts[:0]
	for _, p := range posts {
		if auth.CanView(me, &p.Forum) {
			out = append(out, p)
		}
	}
	return out
}

// viewablePost loads the post named in the path for the current viewer. On
// failure it has already written the response.
func (s *Server) viewablePost(c *gin.Context, failMsg string) *models.PostWithDetails {
	me, err := s.viewer(c)
	if err != nil {
		s.fail(c, err, failMsg)
		return nil
	}
	p, err := s.Store.GetPost(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err, failMsg)
		return nil
	}
	if p == nil {
		util.Message(c, http.StatusNotFound, "Post not found")
		return nil
	}
	if !auth.CanView(me, &p.Forum) {
		util.Message(c, http.StatusForbidden, "Access denied")
		return nil
	}
	return p
}

// handlePost counts the view once the caller is known to be allowed to see
// the post, and returns the post with that view included.
func (s *Server) handlePost(c *gin.Context) {
	p := s.viewablePost(c, "Failed to fetch post")
	if p == nil {
		return
	}
	if err := s.Store.IncrementPostViews(c.Request.Context(), p.ID); err != nil {
		s.fail(c, err, "Failed to fetch post")
		return
	}
	p.ViewCount++
	util.Render(c, http.StatusOK, p)
}

type createPostRequest struct {
	models.NewPost
	Attachments []models.NewAttachment `json:"attachments" binding:"max=5,dive"`
}

func (s *Server) handlePostCreate(c *gin.Context) {
	me := s.currentUser(c)
	if me == nil {
		return
	}
	if me.Banned {
		util.Message(c, http.StatusForbidden, "Access denied")
		return
	}
	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	ctx := c.Request.Context()
	forum, err := s.Store.GetForum(ctx, req.ForumID)
	if err != nil {
		s.fail(c, err, "Failed to create post")
		return
	}
	if forum == nil {
		util.Message(c, http.StatusNotFound, "Forum not found")
		return
	}
	if !auth.CanPost(me, forum) {
		util.Message(c, http.StatusForbidden, "Access denied")
		return
	}

	in := req.NewPost
	in.AuthorID = me.ID
	if !auth.CanModerate(me) {
		in.Pinned, in.Locked = false, false
	}
	post, err := s.Store.CreatePostWithAttachments(ctx, in, req.Attachments)
	if err != nil {
		s.fail(c, err, "Failed to create post")
		return
	}

	details, err := s.Store.GetPost(ctx, post.ID)
	if err != nil {
		s.fail(c, err, "Failed to create post")
		return
	}
	zap.L().Info("post created", zap.String("post_id", post.ID), zap.String("forum_id", post.ForumID), zap.String("author_id", me.ID))
	util.Render(c, http.StatusCreated, details)
}

// editablePost loads the post named in the path and checks that me may
// change it. On failure it has already written the response.
func (s *Server) editablePost(c *gin.Context, me *models.User) *models.PostWithDetails {
	p, err := s.Store.GetPost(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err, "Failed to fetch post")
		return nil
	}
	if p == nil {
		util.Message(c, http.StatusNotFound, "Post not found")
		return nil
	}
	if !auth.CanEdit(me, p.AuthorID) {
		util.Message(c, http.StatusForbidden, "Access denied")
		return nil
	}
	return p
}

func (s *Server) handlePostUpdate(c *gin.Context) {
	me := s.currentUser(c)
	if me == nil {
		return
	}
	var patch models.PostPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, err)
		return
	}
	p := s.editablePost(c, me)
	if p == nil {
		return
	}
	if (patch.Pinned != nil || patch.Locked != nil) && !auth.CanModerate(me) {
		util.Message(c, http.StatusForbidden, "Access denied")
		return
	}

	ctx := c.Request.Context()
	if err := s.Store.UpdatePost(ctx, p.ID, patch); err != nil {
		s.fail(c, err, "Failed to update post")
		return
	}
	updated, err := s.Store.GetPost(ctx, p.ID)
	if err != nil {
		s.fail(c, err, "Failed to update post")
		return
	}
	util.Render(c, http.StatusOK, updated)
}

func (s *Server) handlePostDelete(c *gin.Context) {
	me := s.currentUser(c)
	if me == nil {
		return
	}
	p := s.editablePost(c, me)
	if p == nil {
		return
	}
	if err := s.Store.DeletePost(c.Request.Context(), p.ID); err != nil {
		s.fail(c, err, "Failed to delete post")
		return
	}
	zap.L().Info("post deleted", zap.String("by", me.ID), zap.String("post_id", p.ID))
	util.Message(c, http.StatusOK, "Post deleted successfully")
}

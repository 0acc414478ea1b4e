package httpx

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"forumhub/internal/auth"
	"forumhub/internal/models"
	"forumhub/internal/storage"
	"forumhub/internal/util"
)

func (s *Server) handleReplies(c *gin.Context) {
	p := s.viewablePost(c, "Failed to fetch replies")
	if p == nil {
		return
	}
	limit, offset := util.Page(c, storage.DefaultLimit)
	replies, err := s.Store.GetReplies(c.Request.Context(), p.ID, offset, limit)
	if err != nil {
		s.fail(c, err, "Failed to fetch replies")
		return
	}
	util.Render(c, http.StatusOK, replies)
}

func (s *Server) handleReplyCreate(c *gin.Context) {
	me := s.currentUser(c)
	if me == nil {
		return
	}
	if me.Banned {
		util.Message(c, http.StatusForbidden, "Access denied")
		return
	}
	var in models.NewReply
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}

	ctx := c.Request.Context()
	p, err := s.Store.GetPost(ctx, c.Param("id"))
	if err != nil {
		s.fail(c, err, "Failed to create reply")
		return
	}
	if p == nil {
		util.Message(c, http.StatusNotFound, "Post not found")
		return
	}
	if !auth.CanPost(me, &p.Forum) {
		util.Message(c, http.StatusForbidden, "Access denied")
		return
	}
	if p.Locked && !auth.CanModerate(me) {
		util.Message(c, http.StatusForbidden, "Post is locked")
		return
	}

	in.PostID, in.AuthorID = p.ID, me.ID
	r, err := s.Store.CreateReply(ctx, in)
	if errors.Is(err, storage.ErrInvalidParent) {
		util.Message(c, http.StatusBadRequest, "Invalid parent reply")
		return
	}
	if err != nil {
		s.fail(c, err, "Failed to create reply")
		return
	}
	util.Render(c, http.StatusCreated, r)
}

func (s *Server) editableReply(c *gin.Context, me *models.User) *models.Reply {
	r, err := s.Store.GetReply(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err, "Failed to fetch reply")
		return nil
	}
	if r == nil {
		util.Message(c, http.StatusNotFound, "Reply not found")
		return nil
	}
	if !auth.CanEdit(me, r.AuthorID) {
		util.Message(c, http.StatusForbidden, "Access denied")
		return nil
	}
	return r
}

func (s *Server) handleReplyUpdate(c *gin.Context) {
	me := s.currentUser(c)
	if me == nil {
		return
	}
	var patch models.ReplyPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, err)
		return
	}
	r := s.editableReply(c, me)
	if r == nil {
		return
	}

	ctx := c.Request.Context()
	if err := s.Store.UpdateReply(ctx, r.ID, patch); err != nil {
		s.fail(c, err, "Failed to update reply")
		return
	}
	updated, err := s.Store.GetReply(ctx, r.ID)
	if err != nil {
		s.fail(c, err, "Failed to update reply")
		return
	}
	util.Render(c, http.StatusOK, updated)
}

func (s *Server) handleReplyDelete(c *gin.Context) {
	me := s.currentUser(c)
	if me == nil {
		return
	}
	r := s.editableReply(c, me)
	if r == nil {
		return
	}
	if err := s.Store.DeleteReply(c.Request.Context(), r.ID); err != nil {
		s.fail(c, err, "Failed to delete reply")
		return
	}
	util.Message(c, http.StatusOK, "Reply deleted successfully")
}

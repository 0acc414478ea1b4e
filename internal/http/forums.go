package httpx

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"forumhub/internal/auth"
	"forumhub/internal/models"
	"forumhub/internal/util"
)

// handleForums lists the forums the caller is allowed to see.
func (s *Server) handleForums(c *gin.Context) {
	me, err := s.viewer(c)
	if err != nil {
		s.fail(c, err, "Failed to fetch forums")
		return
	}
	forums, err := s.Store.GetForums(c.Request.Context())
	if err != nil {
		s.fail(c, err, "Failed to fetch forums")
		return
	}
	visible := forums[:0]
	for _, f := range forums {
		if auth.CanView(me, &f.Forum) {
			visible = append(visible, f)
		}
	}
	util.Render(c, http.StatusOK, visible)
}

// handleForum resolves a forum by slug and counts the visit against its id.
func (s *Server) handleForum(c *gin.Context) {
	ctx := c.Request.Context()
	me, err := s.viewer(c)
	if err != nil {
		s.fail(c, err, "Failed to fetch forum")
		return
	}
	f, err := s.Store.GetForumBySlug(ctx, c.Param("slug"))
	if err != nil {
		s.fail(c, err, "Failed to fetch forum")
		return
	}
	if f == nil {
		util.Message(c, http.StatusNotFound, "Forum not found")
		return
	}
	if !auth.CanView(me, f) {
		util.Message(c, http.StatusForbidden, "Access denied")
		return
	}
	if err := s.Store.IncrementForumViews(ctx, f.ID); err != nil {
		s.fail(c, err, "Failed to fetch forum")
		return
	}
	f.ViewCount++
	util.Render(c, http.StatusOK, f)
}

func (s *Server) handleForumCreate(c *gin.Context) {
	me := s.currentUser(c)
	if me == nil {
		return
	}
	if !auth.CanModerate(me) {
		util.Message(c, http.StatusForbidden, "Access denied")
		return
	}
	var in models.NewForum
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	f, err := s.Store.CreateForum(c.Request.Context(), in)
	if err != nil {
		s.fail(c, err, "Failed to create forum")
		return
	}
	zap.L().Info("forum created", zap.String("by", me.ID), zap.String("forum_id", f.ID), zap.String("slug", f.Slug))
	util.Render(c, http.StatusCreated, f)
}

func (s *Server) handleForumUpdate(c *gin.Context) {
	me := s.currentUser(c)
	if me == nil {
		return
	}
	if !auth.CanAdminister(me) {
		util.Message(c, http.StatusForbidden, "Access denied")
		return
	}
	var patch models.ForumPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, err)
		return
	}

	ctx, id := c.Request.Context(), c.Param("id")
	f, err := s.Store.GetForum(ctx, id)
	if err != nil {
		s.fail(c, err, "Failed to update forum")
		return
	}
	if f == nil {
		util.Message(c, http.StatusNotFound, "Forum not found")
		return
	}
	if err := s.Store.UpdateForum(ctx, id, patch); err != nil {
		s.fail(c, err, "Failed to update forum")
		return
	}
	if f, err = s.Store.GetForum(ctx, id); err != nil {
		s.fail(c, err, "Failed to update forum")
		return
	}
	util.Render(c, http.StatusOK, f)
}

// handleForumDelete removes the forum row only. Its posts stay behind and
// drop out of every listing because reads inner-join the forum.
func (s *Server) handleForumDelete(c *gin.Context) {
	me := s.currentUser(c)
	if me == nil {
		return
	}
	if !auth.CanAdminister(me) {
		util.Message(c, http.StatusForbidden, "Access denied")
		return
	}
	if err := s.Store.DeleteForum(c.Request.Context(), c.Param("id")); err != nil {
		s.fail(c, err, "Failed to delete forum")
		return
	}
	zap.L().Info("forum deleted", zap.String("by", me.ID), zap.String("forum_id", c.Param("id")))
	util.Message(c, http.StatusOK, "Forum deleted successfully")
}

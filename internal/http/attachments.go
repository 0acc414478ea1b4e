package httpx

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"forumhub/internal/auth"
	"forumhub/internal/models"
	"forumhub/internal/util"
)

func (s *Server) handleAttachments(c *gin.Context) {
	p := s.viewablePost(c, "Failed to fetch attachments")
	if p == nil {
		return
	}
	atts, err := s.Store.GetAttachments(c.Request.Context(), p.ID)
	if err != nil {
		s.fail(c, err, "Failed to fetch attachments")
		return
	}
	util.Render(c, http.StatusOK, atts)
}

// handleAttachmentCreate records metadata for a file that has already been
// stored elsewhere. A post carries at most maxAttachments files.
func (s *Server) handleAttachmentCreate(c *gin.Context) {
	me := s.currentUser(c)
	if me == nil {
		return
	}
	var in models.NewAttachment
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	p := s.editablePost(c, me)
	if p == nil {
		return
	}
	if len(p.Attachments) >= maxAttachments {
		util.Message(c, http.StatusBadRequest, "Too many attachments")
		return
	}

	in.PostID = p.ID
	a, err := s.Store.CreateAttachment(c.Request.Context(), in)
	if err != nil {
		s.fail(c, err, "Failed to create attachment")
		return
	}
	util.Render(c, http.StatusCreated, a)
}

// handleAttachmentDelete is allowed to whoever may edit the owning post.
// Attachments of a post that is gone are left to moderators.
func (s *Server) handleAttachmentDelete(c *gin.Context) {
	me := s.currentUser(c)
	if me == nil {
		return
	}
	ctx := c.Request.Context()
	a, err := s.Store.GetAttachment(ctx, c.Param("id"))
	if err != nil {
		s.fail(c, err, "Failed to delete attachment")
		return
	}
	if a == nil {
		util.Message(c, http.StatusNotFound, "Attachment not found")
		return
	}
	p, err := s.Store.GetPost(ctx, a.PostID)
	if err != nil {
		s.fail(c, err, "Failed to delete attachment")
		return
	}
	authorID := ""
	if p != nil {
		authorID = p.AuthorID
	}
	if !auth.CanEdit(me, authorID) {
		util.Message(c, http.StatusForbidden, "Access denied")
		return
	}
	if err := s.Store.DeleteAttachment(ctx, a.ID); err != nil {
		s.fail(c, err, "Failed to delete attachment")
		return
	}
	util.Message(c, http.StatusOK, "Attachment deleted successfully")
}

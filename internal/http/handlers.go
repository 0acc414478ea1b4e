package httpx

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"forumhub/internal/app"
	"forumhub/internal/auth"
	"forumhub/internal/models"
	"forumhub/internal/storage"
	"forumhub/internal/util"
)

// Sessions is implemented by *auth.SessionStore.
type Sessions interface {
	Login(ctx context.Context, claims auth.Claims) (models.Session, *models.User, error)
	Logout(ctx context.Context, sid string) error
	UserFromSession(ctx context.Context, sid string) (string, time.Time, error)
}

// TokenVerifier is implemented by *auth.Verifier.
type TokenVerifier interface {
	VerifyIdentityToken(raw string) (auth.Claims, error)
}

type Server struct {
	Store    storage.Storage
	Sessions Sessions
	Tokens   TokenVerifier
	Cfg      app.Config
	Engine   *gin.Engine

	metrics *metrics
}

func NewServer(store storage.Storage, sessions Sessions, tokens TokenVerifier, cfg app.Config) *Server {
	setupValidator()

	s := &Server{
		Store:    store,
		Sessions: sessions,
		Tokens:   tokens,
		Cfg:      cfg,
		Engine:   gin.New(),
		metrics:  newMetrics(),
	}

	s.Engine.Use(
		WithRecovery(),
		WithAccessLog(),
		s.metrics.middleware(),
		WithTimeout(cfg.Server.RequestTimeout),
		WithRateLimit(cfg.RateLimit.Rate, cfg.RateLimit.Capacity),
	)
	s.Engine.GET("/metrics", gin.WrapH(s.metrics.handler()))

	api := s.Engine.Group("/api", s.withSession())
	api.GET("/health", s.handleHealth)

	api.POST("/login", s.handleLogin)
	api.GET("/logout", s.handleLogout)

	authed := api.Group("", s.requireAuth())
	authed.GET("/auth/user", s.handleAuthUser)

	authed.GET("/users", s.handleUsers)
	authed.PATCH("/users/:id/role", s.handleUserRole)
	authed.PATCH("/users/:id/ban", s.handleBan(true))
	authed.PATCH("/users/:id/unban", s.handleBan(false))

	api.GET("/forums", s.handleForums)
	api.GET("/forums/:slug", s.handleForum)
	authed.POST("/forums", s.handleForumCreate)
	authed.PUT("/forums/:id", s.handleForumUpdate)
	authed.DELETE("/forums/:id", s.handleForumDelete)

	api.GET("/posts", s.handlePosts)
	api.GET("/search", s.handleSearch)
	api.GET("/posts/:id", s.handlePost)
	authed.POST("/posts", s.handlePostCreate)
	authed.PUT("/posts/:id", s.handlePostUpdate)
	authed.DELETE("/posts/:id", s.handlePostDelete)

	api.GET("/posts/:id/replies", s.handleReplies)
	authed.POST("/posts/:id/replies", s.handleReplyCreate)
	authed.PUT("/replies/:id", s.handleReplyUpdate)
	authed.DELETE("/replies/:id", s.handleReplyDelete)

	api.GET("/posts/:id/attachments", s.handleAttachments)
	authed.POST("/posts/:id/attachments", s.handleAttachmentCreate)
	authed.DELETE("/attachments/:id", s.handleAttachmentDelete)

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { s.Engine.ServeHTTP(w, r) }

// fail logs err and answers 500 with msg, or 504 when the request deadline
// ran out first.
func (s *Server) fail(c *gin.Context, err error, msg string) {
	if errors.Is(err, context.DeadlineExceeded) {
		zap.L().Warn("request timeout", zap.String("path", c.FullPath()), zap.Error(err))
		util.Message(c, http.StatusGatewayTimeout, "request timeout")
		return
	}
	zap.L().Error(msg, zap.String("path", c.FullPath()), zap.Error(err))
	util.Message(c, http.StatusInternalServerError, msg)
}

// currentUser loads the signed-in account. It writes 403 and returns nil
// when the session points at a user that no longer exists.
func (s *Server) currentUser(c *gin.Context) *models.User {
	uid, ok := auth.UserIDFrom(c.Request.Context())
	if !ok {
		util.Message(c, http.StatusUnauthorized, "Unauthorized")
		return nil
	}
	u, err := s.Store.GetUser(c.Request.Context(), uid)
	if err != nil {
		s.fail(c, err, "Failed to fetch user")
		return nil
	}
	if u == nil {
		util.Message(c, http.StatusForbidden, "Access denied")
		return nil
	}
	return u
}

// viewer is currentUser for routes open to anonymous visitors.
func (s *Server) viewer(c *gin.Context) (*models.User, error) {
	uid, ok := auth.UserIDFrom(c.Request.Context())
	if !ok {
		return nil, nil
	}
	return s.Store.GetUser(c.Request.Context(), uid)
}

func (s *Server) handleHealth(c *gin.Context) {
	if err := s.Store.Ping(c.Request.Context()); err != nil {
		zap.L().Warn("health check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type loginRequest struct {
	Token string `json:"token" binding:"required"`
}

func (s *Server) handleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	claims, err := s.Tokens.VerifyIdentityToken(req.Token)
	if err != nil {
		zap.L().Info("login rejected", zap.Error(err))
		util.Message(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	sess, user, err := s.Sessions.Login(c.Request.Context(), claims)
	if err != nil {
		s.fail(c, err, "Failed to log in")
		return
	}

	http.SetCookie(c.Writer, &http.Cookie{
		Name:     s.Cfg.Session.CookieName,
		Value:    sess.SID,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.Cfg.Session.Secure,
		SameSite: http.SameSiteLaxMode,
		Expires:  sess.Expire,
	})
	util.Render(c, http.StatusOK, user)
}

func (s *Server) handleLogout(c *gin.Context) {
	if sid, err := c.Cookie(s.Cfg.Session.CookieName); err == nil && sid != "" {
		if err := s.Sessions.Logout(c.Request.Context(), sid); err != nil {
			s.fail(c, err, "Failed to log out")
			return
		}
	}
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     s.Cfg.Session.CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   s.Cfg.Session.Secure,
		MaxAge:   -1,
	})
	util.Message(c, http.StatusOK, "Logged out")
}

func (s *Server) handleAuthUser(c *gin.Context) {
	uid, _ := auth.UserIDFrom(c.Request.Context())
	u, err := s.Store.GetUser(c.Request.Context(), uid)
	if err != nil {
		s.fail(c, err, "Failed to fetch user")
		return
	}
	if u == nil {
		util.Message(c, http.StatusNotFound, "User not found")
		return
	}
	util.Render(c, http.StatusOK, u)
}

func (s *Server) handleUsers(c *gin.Context) {
	me := s.currentUser(c)
	if me == nil {
		return
	}
	if !auth.CanAdminister(me) {
		util.Message(c, http.StatusForbidden, "Access denied")
		return
	}
	users, err := s.Store.GetAllUsers(c.Request.Context())
	if err != nil {
		s.fail(c, err, "Failed to fetch users")
		return
	}
	util.Render(c, http.StatusOK, users)
}

type roleRequest struct {
	Role models.Role `json:"role" binding:"required,forumrole"`
}

func (s *Server) handleUserRole(c *gin.Context) {
	me := s.currentUser(c)
	if me == nil {
		return
	}
	if !auth.CanAdminister(me) {
		util.Message(c, http.StatusForbidden, "Access denied")
		return
	}
	var req roleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Message(c, http.StatusBadRequest, "Invalid role")
		return
	}
	if err := s.Store.UpdateUserRole(c.Request.Context(), c.Param("id"), req.Role); err != nil {
		s.fail(c, err, "Failed to update user role")
		return
	}
	zap.L().Info("role changed",
		zap.String("by", me.ID), zap.String("user_id", c.Param("id")), zap.Stringer("role", req.Role))
	util.Message(c, http.StatusOK, "Role updated successfully")
}

func (s *Server) handleBan(banned bool) gin.HandlerFunc {
	op, done, failed := s.Store.UnbanUser, "User unbanned successfully", "Failed to unban user"
	if banned {
		op, done, failed = s.Store.BanUser, "User banned successfully", "Failed to ban user"
	}
	return func(c *gin.Context) {
		me := s.currentUser(c)
		if me == nil {
			return
		}
		if !auth.CanModerate(me) {
			util.Message(c, http.StatusForbidden, "Access denied")
			return
		}
		if err := op(c.Request.Context(), c.Param("id")); err != nil {
			s.fail(c, err, failed)
			return
		}
		zap.L().Info("ban state changed",
			zap.String("by", me.ID), zap.String("user_id", c.Param("id")), zap.Bool("banned", banned))
		util.Message(c, http.StatusOK, done)
	}
}

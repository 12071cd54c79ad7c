package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/laavis/dev-link/internal/application"
	repo "github.com/laavis/dev-link/internal/domain/repository"
	"github.com/laavis/dev-link/internal/interface/middleware"
	"github.com/laavis/dev-link/pkg/response"
	"github.com/laavis/dev-link/pkg/validation"
)

// PostHandler owns the /posts routes.
type PostHandler struct {
	Svc    *application.PostService
	Logger *logrus.Logger
}

func NewPostHandler(svc *application.PostService, logger *logrus.Logger) *PostHandler {
	return &PostHandler{Svc: svc, Logger: logger}
}

type postRequest struct {
	Text string `json:"text" binding:"required,min=1"`
}

// List GET /api/posts
func (h *PostHandler) List(c *gin.Context) {
	posts, err := h.Svc.List(c.Request.Context())
	if err != nil {
		h.Logger.WithError(err).Error("list posts failed")
		response.Error[any](c, http.StatusInternalServerError, "internal server error", nil)
		return
	}
	response.Success(c, http.StatusOK, posts, "posts", nil)
}

// Get GET /api/posts/:id
func (h *PostHandler) Get(c *gin.Context) {
	p, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.postErr(c, err)
		return
	}
	response.Success(c, http.StatusOK, p, "post", nil)
}

// Create POST /api/posts
func (h *PostHandler) Create(c *gin.Context) {
	var req postRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	p, err := h.Svc.Create(c.Request.Context(),
		c.GetString(middleware.CtxUserIDKey),
		req.Text,
		c.GetString(middleware.CtxUserNameKey),
		c.GetString(middleware.CtxUserAvatarKey),
	)
	if err != nil {
		h.Logger.WithError(err).Error("create post failed")
		response.Error[any](c, http.StatusInternalServerError, "internal server error", nil)
		return
	}
	response.Success(c, http.StatusCreated, p, "post created", nil)
}

// Delete DELETE /api/posts/:id (owner only)
func (h *PostHandler) Delete(c *gin.Context) {
	err := h.Svc.Delete(c.Request.Context(), c.Param("id"), c.GetString(middleware.CtxUserIDKey))
	if err != nil {
		h.postErr(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"deleted": true}, "post deleted", nil)
}

// Like POST /api/posts/like/:id
func (h *PostHandler) Like(c *gin.Context) {
	p, err := h.Svc.Like(c.Request.Context(), c.Param("id"), c.GetString(middleware.CtxUserIDKey))
	if err != nil {
		if errors.Is(err, repo.ErrAlreadyLiked) {
			response.Error[any](c, http.StatusBadRequest, "like failed", map[string]string{"alreadyLiked": "User already liked this post"})
			return
		}
		h.postErr(c, err)
		return
	}
	response.Success(c, http.StatusOK, p, "post liked", nil)
}

// Unlike POST /api/posts/unlike/:id
func (h *PostHandler) Unlike(c *gin.Context) {
	p, err := h.Svc.Unlike(c.Request.Context(), c.Param("id"), c.GetString(middleware.CtxUserIDKey))
	if err != nil {
		if errors.Is(err, repo.ErrNotLiked) {
			response.Error[any](c, http.StatusBadRequest, "unlike failed", map[string]string{"notLiked": "You have not yet liked this post"})
			return
		}
		h.postErr(c, err)
		return
	}
	response.Success(c, http.StatusOK, p, "post unliked", nil)
}

// AddComment POST /api/posts/comment/:id
func (h *PostHandler) AddComment(c *gin.Context) {
	var req postRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	p, err := h.Svc.AddComment(c.Request.Context(),
		c.Param("id"),
		c.GetString(middleware.CtxUserIDKey),
		req.Text,
		c.GetString(middleware.CtxUserNameKey),
		c.GetString(middleware.CtxUserAvatarKey),
	)
	if err != nil {
		h.postErr(c, err)
		return
	}
	response.Success(c, http.StatusOK, p, "comment added", nil)
}

// RemoveComment DELETE /api/posts/comment/:id/:commentId
func (h *PostHandler) RemoveComment(c *gin.Context) {
	p, err := h.Svc.RemoveComment(c.Request.Context(), c.Param("id"), c.Param("commentId"))
	if err != nil {
		if errors.Is(err, repo.ErrCommentNotFound) {
			response.Error[any](c, http.StatusNotFound, "remove comment failed", map[string]string{"commentDoesntExists": "Comment does not exist"})
			return
		}
		h.postErr(c, err)
		return
	}
	response.Success(c, http.StatusOK, p, "comment removed", nil)
}

// Search GET /api/posts/search?q=...&size=...
func (h *PostHandler) Search(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", map[string]string{"q": "is required"})
		return
	}
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))
	hits, err := h.Svc.Search(c.Request.Context(), q, size)
	if err != nil {
		h.Logger.WithError(err).Error("post search failed")
		response.Error[any](c, http.StatusInternalServerError, "internal server error", nil)
		return
	}
	response.Success(c, http.StatusOK, hits, "search results", map[string]any{"count": len(hits)})
}

func (h *PostHandler) postErr(c *gin.Context, err error) {
	if errors.Is(err, repo.ErrNotFound) {
		response.Error[any](c, http.StatusNotFound, "not found", map[string]string{"post": "Post not found"})
		return
	}
	h.Logger.WithError(err).Error("post operation failed")
	response.Error[any](c, http.StatusInternalServerError, "internal server error", nil)
}

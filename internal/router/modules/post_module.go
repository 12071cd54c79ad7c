package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/laavis/dev-link/internal/interface/http"
	"github.com/laavis/dev-link/internal/interface/middleware"
	"github.com/laavis/dev-link/pkg/helpers"
)

// PostModule wires the post routes.
// Public: GET /api/posts, /api/posts/search, /api/posts/:id
// Protected: create/delete posts, like/unlike, comment add/remove
type PostModule struct {
	Handler *handlers.PostHandler
	JWT     *helpers.JWTManager
}

func NewPostModule(h *handlers.PostHandler, jwt *helpers.JWTManager) *PostModule {
	return &PostModule{Handler: h, JWT: jwt}
}

func (m *PostModule) Register(rg *gin.RouterGroup) {
	rg.GET("/posts", m.Handler.List)
	rg.GET("/posts/search", m.Handler.Search)
	rg.GET("/posts/:id", m.Handler.Get)

	auth := rg.Group("/")
	auth.Use(middleware.Auth(m.JWT))
	{
		auth.POST("/posts", m.Handler.Create)
		auth.DELETE("/posts/:id", m.Handler.Delete)
		auth.POST("/posts/like/:id", m.Handler.Like)
		auth.POST("/posts/unlike/:id", m.Handler.Unlike)
		auth.POST("/posts/comment/:id", m.Handler.AddComment)
		auth.DELETE("/posts/comment/:id/:commentId", m.Handler.RemoveComment)
	}
}

package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/laavis/dev-link/internal/interface/http"
	"github.com/laavis/dev-link/internal/interface/middleware"
	"github.com/laavis/dev-link/pkg/helpers"
)

// UserModule wires the account routes.
// Public: POST /api/users/register, POST /api/users/login
// Protected: GET /api/users/current, POST /api/users/avatar
type UserModule struct {
	Handler *handlers.AuthHandler
	JWT     *helpers.JWTManager
}

func NewUserModule(h *handlers.AuthHandler, jwt *helpers.JWTManager) *UserModule {
	return &UserModule{Handler: h, JWT: jwt}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	rg.POST("/users/register", m.Handler.Register)
	rg.POST("/users/login", m.Handler.Login)

	auth := rg.Group("/")
	auth.Use(middleware.Auth(m.JWT))
	{
		auth.GET("/users/current", m.Handler.Current)
		auth.POST("/users/avatar", m.Handler.UploadAvatar)
	}
}

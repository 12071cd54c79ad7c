package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/laavis/dev-link/internal/interface/http"
	"github.com/laavis/dev-link/internal/interface/middleware"
	"github.com/laavis/dev-link/pkg/helpers"
)

// ProfileModule wires the profile routes.
// Public: GET /api/profile/all, /api/profile/handle/:handle, /api/profile/user/:user_id
// Protected: GET/POST/DELETE /api/profile, experience/education add and remove
type ProfileModule struct {
	Handler *handlers.ProfileHandler
	JWT     *helpers.JWTManager
}

func NewProfileModule(h *handlers.ProfileHandler, jwt *helpers.JWTManager) *ProfileModule {
	return &ProfileModule{Handler: h, JWT: jwt}
}

func (m *ProfileModule) Register(rg *gin.RouterGroup) {
	rg.GET("/profile/all", m.Handler.All)
	rg.GET("/profile/handle/:handle", m.Handler.ByHandle)
	rg.GET("/profile/user/:user_id", m.Handler.ByUserID)

	auth := rg.Group("/")
	auth.Use(middleware.Auth(m.JWT))
	{
		auth.GET("/profile", m.Handler.Current)
		auth.POST("/profile", m.Handler.Upsert)
		auth.DELETE("/profile", m.Handler.DeleteAccount)
		auth.POST("/profile/experience", m.Handler.AddExperience)
		auth.DELETE("/profile/experience/:id", m.Handler.RemoveExperience)
		auth.POST("/profile/education", m.Handler.AddEducation)
		auth.DELETE("/profile/education/:id", m.Handler.RemoveEducation)
	}
}

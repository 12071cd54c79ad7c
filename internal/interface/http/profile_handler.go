package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/laavis/dev-link/internal/application"
	"github.com/laavis/dev-link/internal/domain/entity"
	repo "github.com/laavis/dev-link/internal/domain/repository"
	"github.com/laavis/dev-link/internal/interface/middleware"
	"github.com/laavis/dev-link/pkg/response"
	"github.com/laavis/dev-link/pkg/validation"
)

// ProfileHandler owns the /profile routes. Account deletion cascades through
// AuthSvc so the profile and its user are removed together.
type ProfileHandler struct {
	Svc     *application.ProfileService
	AuthSvc *application.AuthService
	Logger  *logrus.Logger
}

func NewProfileHandler(svc *application.ProfileService, authSvc *application.AuthService, logger *logrus.Logger) *ProfileHandler {
	return &ProfileHandler{Svc: svc, AuthSvc: authSvc, Logger: logger}
}

type profileRequest struct {
	Handle         string `json:"handle" binding:"required,handle"`
	Status         string `json:"status" binding:"required"`
	Skills         string `json:"skills" binding:"required"`
	Company        string `json:"company"`
	Website        string `json:"website" binding:"omitempty,url"`
	Location       string `json:"location"`
	Bio            string `json:"bio"`
	GitHubUsername string `json:"github_username"`
	YouTube        string `json:"youtube" binding:"omitempty,url"`
	Twitter        string `json:"twitter" binding:"omitempty,url"`
	Facebook       string `json:"facebook" binding:"omitempty,url"`
	LinkedIn       string `json:"linkedin" binding:"omitempty,url"`
	Instagram      string `json:"instagram" binding:"omitempty,url"`
}

type experienceRequest struct {
	Title       string     `json:"title" binding:"required"`
	Company     string     `json:"company" binding:"required"`
	Location    string     `json:"location"`
	From        time.Time  `json:"from" binding:"required"`
	To          *time.Time `json:"to"`
	Current     bool       `json:"current"`
	Description string     `json:"description"`
}

type educationRequest struct {
	School       string     `json:"school" binding:"required"`
	Degree       string     `json:"degree" binding:"required"`
	FieldOfStudy string     `json:"field_of_study" binding:"required"`
	From         time.Time  `json:"from" binding:"required"`
	To           *time.Time `json:"to"`
	Current      bool       `json:"current"`
	Description  string     `json:"description"`
}

// Current GET /api/profile
func (h *ProfileHandler) Current(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	p, err := h.Svc.Current(c.Request.Context(), uid)
	if err != nil {
		h.notFoundOrInternal(c, err, map[string]string{"noProfile": "There is no profile for this user"})
		return
	}
	response.Success(c, http.StatusOK, p, "profile", nil)
}

// ByHandle GET /api/profile/handle/:handle
func (h *ProfileHandler) ByHandle(c *gin.Context) {
	p, err := h.Svc.ByHandle(c.Request.Context(), c.Param("handle"))
	if err != nil {
		h.notFoundOrInternal(c, err, map[string]string{"noProfile": "There is no profile for this handle"})
		return
	}
	response.Success(c, http.StatusOK, p, "profile", nil)
}

// ByUserID GET /api/profile/user/:user_id
func (h *ProfileHandler) ByUserID(c *gin.Context) {
	p, err := h.Svc.ByUserID(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		h.notFoundOrInternal(c, err, map[string]string{"noProfile": "There is no profile for this user"})
		return
	}
	response.Success(c, http.StatusOK, p, "profile", nil)
}

// All GET /api/profile/all
func (h *ProfileHandler) All(c *gin.Context) {
	profiles, err := h.Svc.All(c.Request.Context())
	if err != nil {
		h.Logger.WithError(err).Error("list profiles failed")
		response.Error[any](c, http.StatusInternalServerError, "internal server error", nil)
		return
	}
	response.Success(c, http.StatusOK, profiles, "profiles", nil)
}

// Upsert POST /api/profile (create-or-update)
func (h *ProfileHandler) Upsert(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	fields := repo.ProfileFields{
		Handle:         req.Handle,
		Company:        req.Company,
		Website:        req.Website,
		Location:       req.Location,
		Status:         req.Status,
		Bio:            req.Bio,
		GitHubUsername: req.GitHubUsername,
		Skills:         splitSkills(req.Skills),
		Social: entity.Social{
			YouTube:   req.YouTube,
			Twitter:   req.Twitter,
			Facebook:  req.Facebook,
			LinkedIn:  req.LinkedIn,
			Instagram: req.Instagram,
		},
	}
	p, err := h.Svc.Upsert(c.Request.Context(), uid, fields)
	if err != nil {
		if errors.Is(err, repo.ErrHandleTaken) {
			response.Error[any](c, http.StatusBadRequest, "profile update failed", map[string]string{"handle": "That handle already exists"})
			return
		}
		h.Logger.WithError(err).WithField("user_id", uid).Error("profile upsert failed")
		response.Error[any](c, http.StatusInternalServerError, "internal server error", nil)
		return
	}
	response.Success(c, http.StatusOK, p, "profile saved", nil)
}

// AddExperience POST /api/profile/experience
func (h *ProfileHandler) AddExperience(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	var req experienceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	p, err := h.Svc.AddExperience(c.Request.Context(), uid, entity.Experience{
		Title:       req.Title,
		Company:     req.Company,
		Location:    req.Location,
		From:        req.From,
		To:          req.To,
		Current:     req.Current,
		Description: req.Description,
	})
	if err != nil {
		h.notFoundOrInternal(c, err, map[string]string{"noProfile": "There is no profile for this user"})
		return
	}
	response.Success(c, http.StatusOK, p, "experience added", nil)
}

// RemoveExperience DELETE /api/profile/experience/:id
func (h *ProfileHandler) RemoveExperience(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	p, err := h.Svc.RemoveExperience(c.Request.Context(), uid, c.Param("id"))
	if err != nil {
		h.entryErr(c, err, "experience")
		return
	}
	response.Success(c, http.StatusOK, p, "experience removed", nil)
}

// AddEducation POST /api/profile/education
func (h *ProfileHandler) AddEducation(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	var req educationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	p, err := h.Svc.AddEducation(c.Request.Context(), uid, entity.Education{
		School:       req.School,
		Degree:       req.Degree,
		FieldOfStudy: req.FieldOfStudy,
		From:         req.From,
		To:           req.To,
		Current:      req.Current,
		Description:  req.Description,
	})
	if err != nil {
		h.notFoundOrInternal(c, err, map[string]string{"noProfile": "There is no profile for this user"})
		return
	}
	response.Success(c, http.StatusOK, p, "education added", nil)
}

// RemoveEducation DELETE /api/profile/education/:id
func (h *ProfileHandler) RemoveEducation(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	p, err := h.Svc.RemoveEducation(c.Request.Context(), uid, c.Param("id"))
	if err != nil {
		h.entryErr(c, err, "education")
		return
	}
	response.Success(c, http.StatusOK, p, "education removed", nil)
}

// DeleteAccount DELETE /api/profile removes the profile and its user.
func (h *ProfileHandler) DeleteAccount(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	if err := h.AuthSvc.DeleteAccount(c.Request.Context(), uid); err != nil {
		if errors.Is(err, application.ErrUserNotFound) {
			response.Error[any](c, http.StatusNotFound, "delete failed", map[string]string{"user": "User not found"})
			return
		}
		h.Logger.WithError(err).WithField("user_id", uid).Error("account delete failed")
		response.Error[any](c, http.StatusInternalServerError, "internal server error", nil)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"deleted": true}, "account deleted", nil)
}

func (h *ProfileHandler) notFoundOrInternal(c *gin.Context, err error, details map[string]string) {
	if errors.Is(err, repo.ErrNotFound) {
		response.Error[any](c, http.StatusNotFound, "not found", details)
		return
	}
	h.Logger.WithError(err).Error("profile operation failed")
	response.Error[any](c, http.StatusInternalServerError, "internal server error", nil)
}

func (h *ProfileHandler) entryErr(c *gin.Context, err error, field string) {
	switch {
	case errors.Is(err, repo.ErrNotFound):
		response.Error[any](c, http.StatusNotFound, "not found", map[string]string{"noProfile": "There is no profile for this user"})
	case errors.Is(err, repo.ErrEntryNotFound):
		response.Error[any](c, http.StatusNotFound, "not found", map[string]string{field: "Entry does not exist"})
	default:
		h.Logger.WithError(err).Error("profile operation failed")
		response.Error[any](c, http.StatusInternalServerError, "internal server error", nil)
	}
}

func splitSkills(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

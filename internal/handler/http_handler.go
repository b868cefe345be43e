package handler

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/vsp-live/profile-service/internal/domain"
	"github.com/vsp-live/profile-service/internal/service"
	"github.com/vsp-live/profile-service/pkg/log"
	"github.com/vsp-live/profile-service/pkg/response"
)

// Handler handles HTTP requests for the profile service.
type Handler struct {
	avatarService  service.AvatarService
	profileService service.ProfileService
}

// NewHandler creates a new HTTP handler.
func NewHandler(avatarService service.AvatarService, profileService service.ProfileService) *Handler {
	return &Handler{
		avatarService:  avatarService,
		profileService: profileService,
	}
}

// RegisterRoutes registers all routes. Admin routes are distinguished by
// path prefix only; access control lives at the gateway.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	admin := r.Group("/admin")
	{
		admin.POST("/avatars", h.CreateAvatar)
		admin.DELETE("/avatars/:avatarId", h.DeleteAvatar)
	}

	r.GET("/avatar", h.GetAvatars)

	profile := r.Group("/profile")
	{
		profile.POST("/:userId", h.CreateProfile)
		profile.GET("/:userId", h.GetAllProfiles)
		profile.GET("/:userId/:profileId", h.GetProfile)
		profile.PUT("/:userId/:profileId", h.UpdateProfile)
		profile.DELETE("/:userId/:profileId", h.DeleteProfile)
		profile.DELETE("/:userId", h.DeleteAllProfiles)
	}
}

// createAvatarForm is the multipart form for avatar creation.
type createAvatarForm struct {
	Name string                `form:"name" binding:"required,max=100"`
	File *multipart.FileHeader `form:"file" binding:"required"`
}

// CreateAvatar handles avatar upload by an administrator.
func (h *Handler) CreateAvatar(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)

	var form createAvatarForm
	if err := c.ShouldBind(&form); err != nil {
		l.Warn().Err(err).Msg("invalid create avatar request")
		response.ValidationError(c, err)
		return
	}

	file, err := form.File.Open()
	if err != nil {
		l.Error().Err(err).Msg("failed to open uploaded file")
		response.InternalError(c, "failed to read uploaded file")
		return
	}
	defer file.Close()

	avatar, err := h.avatarService.CreateAvatar(
		ctx, form.Name, form.File.Filename, file, form.File.Size, form.File.Header.Get("Content-Type"),
	)
	if err != nil {
		if errors.Is(err, service.ErrAvatarNameExists) || errors.Is(err, service.ErrIncorrectFile) {
			response.BadRequest(c, err.Error())
			return
		}
		l.Error().Err(err).Msg("create avatar failed")
		response.InternalError(c, "failed to create avatar")
		return
	}

	c.JSON(http.StatusCreated, avatar)
}

// DeleteAvatar handles avatar deletion by an administrator.
func (h *Handler) DeleteAvatar(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)

	avatarID, ok := pathUUID(c, "avatarId")
	if !ok {
		return
	}

	if err := h.avatarService.DeleteAvatar(ctx, avatarID); err != nil {
		if errors.Is(err, service.ErrAvatarNotFound) {
			response.NotFound(c, err.Error())
			return
		}
		l.Error().Err(err).Str(log.FieldAvatarID, avatarID).Msg("delete avatar failed")
		response.InternalError(c, "failed to delete avatar")
		return
	}

	c.Status(http.StatusNoContent)
}

// GetAvatars lists all avatars.
func (h *Handler) GetAvatars(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)

	avatars, err := h.avatarService.GetAvatars(ctx)
	if err != nil {
		l.Error().Err(err).Msg("get avatars failed")
		response.InternalError(c, "failed to get avatars")
		return
	}

	c.JSON(http.StatusOK, avatars)
}

// CreateProfile creates a profile for the given user.
func (h *Handler) CreateProfile(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)

	userID, ok := pathUUID(c, "userId")
	if !ok {
		return
	}

	var req domain.CreateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		l.Warn().Err(err).Msg("invalid create profile request")
		response.ValidationError(c, err)
		return
	}

	profile, err := h.profileService.CreateProfile(ctx, userID, &req)
	if err != nil {
		if errors.Is(err, service.ErrProfileNameExists) {
			response.BadRequest(c, err.Error())
			return
		}
		if errors.Is(err, service.ErrAvatarNotFound) {
			response.NotFound(c, err.Error())
			return
		}
		l.Error().Err(err).Str(log.FieldUserID, userID).Msg("create profile failed")
		response.InternalError(c, "failed to create profile")
		return
	}

	c.JSON(http.StatusCreated, profile)
}

// GetAllProfiles lists all profiles for the given user.
func (h *Handler) GetAllProfiles(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)

	userID, ok := pathUUID(c, "userId")
	if !ok {
		return
	}

	profiles, err := h.profileService.GetAllProfiles(ctx, userID)
	if err != nil {
		l.Error().Err(err).Str(log.FieldUserID, userID).Msg("get profiles failed")
		response.InternalError(c, "failed to get profiles")
		return
	}

	c.JSON(http.StatusOK, profiles)
}

// GetProfile retrieves one profile, scoped to its owning user.
func (h *Handler) GetProfile(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)

	userID, ok := pathUUID(c, "userId")
	if !ok {
		return
	}
	profileID, ok := pathUUID(c, "profileId")
	if !ok {
		return
	}

	profile, err := h.profileService.GetProfile(ctx, userID, profileID)
	if err != nil {
		if errors.Is(err, service.ErrProfileNotFound) {
			response.NotFound(c, err.Error())
			return
		}
		l.Error().Err(err).Str(log.FieldProfileID, profileID).Msg("get profile failed")
		response.InternalError(c, "failed to get profile")
		return
	}

	c.JSON(http.StatusOK, profile)
}

// UpdateProfile overwrites a profile's name, avatar and kid flag.
func (h *Handler) UpdateProfile(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)

	userID, ok := pathUUID(c, "userId")
	if !ok {
		return
	}
	profileID, ok := pathUUID(c, "profileId")
	if !ok {
		return
	}

	var req domain.CreateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		l.Warn().Err(err).Msg("invalid update profile request")
		response.ValidationError(c, err)
		return
	}

	profile, err := h.profileService.UpdateProfile(ctx, userID, profileID, &req)
	if err != nil {
		if errors.Is(err, service.ErrProfileNameExists) {
			response.BadRequest(c, err.Error())
			return
		}
		if errors.Is(err, service.ErrProfileNotFound) || errors.Is(err, service.ErrAvatarNotFound) {
			response.NotFound(c, err.Error())
			return
		}
		l.Error().Err(err).Str(log.FieldProfileID, profileID).Msg("update profile failed")
		response.InternalError(c, "failed to update profile")
		return
	}

	c.JSON(http.StatusOK, profile)
}

// DeleteProfile removes one profile owned by the given user.
func (h *Handler) DeleteProfile(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)

	userID, ok := pathUUID(c, "userId")
	if !ok {
		return
	}
	profileID, ok := pathUUID(c, "profileId")
	if !ok {
		return
	}

	if err := h.profileService.DeleteProfile(ctx, userID, profileID); err != nil {
		if errors.Is(err, service.ErrProfileNotFound) {
			response.NotFound(c, err.Error())
			return
		}
		l.Error().Err(err).Str(log.FieldProfileID, profileID).Msg("delete profile failed")
		response.InternalError(c, "failed to delete profile")
		return
	}

	c.Status(http.StatusNoContent)
}

// DeleteAllProfiles removes every profile owned by the given user.
func (h *Handler) DeleteAllProfiles(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)

	userID, ok := pathUUID(c, "userId")
	if !ok {
		return
	}

	if err := h.profileService.DeleteAllProfiles(ctx, userID); err != nil {
		l.Error().Err(err).Str(log.FieldUserID, userID).Msg("delete all profiles failed")
		response.InternalError(c, "failed to delete profiles")
		return
	}

	c.Status(http.StatusNoContent)
}

// pathUUID parses a UUID path parameter, rendering a 400 on failure.
func pathUUID(c *gin.Context, name string) (string, bool) {
	raw := c.Param(name)
	if _, err := uuid.Parse(raw); err != nil {
		response.BadRequest(c, "invalid "+name)
		return "", false
	}
	return raw, true
}

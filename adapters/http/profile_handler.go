package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	profileUC "github.com/allandacasin/devconnector-api/internal/application/usecase/profile"
	"github.com/allandacasin/devconnector-api/pkg/apperror"
)

type ProfileHandler struct {
	profileUseCase *profileUC.ProfileUseCase
}

func NewProfileHandler(uc *profileUC.ProfileUseCase) *ProfileHandler {
	return &ProfileHandler{profileUseCase: uc}
}

// respondProfileErr keeps the original wire contract: a missing profile
// is a 400 with a {msg} body, not a 404.
func respondProfileErr(c *gin.Context, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) && errors.Is(err, apperror.ErrNotFound) {
		c.JSON(http.StatusBadRequest, gin.H{"msg": appErr.Message})
		return
	}
	c.Error(err)
}

// Me handles GET /api/profile/me.
func (h *ProfileHandler) Me(c *gin.Context) {
	userID, ok := GetUserIDFromGinContext(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "No token, authorization denied"})
		return
	}

	p, err := h.profileUseCase.ExecuteGetProfile(c.Request.Context(), userID)
	if err != nil {
		respondProfileErr(c, err)
		return
	}

	c.JSON(http.StatusOK, p)
}

// Upsert handles POST /api/profile.
func (h *ProfileHandler) Upsert(c *gin.Context) {
	userID, ok := GetUserIDFromGinContext(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "No token, authorization denied"})
		return
	}

	var req UpsertProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewValidation(apperror.FieldError{Msg: "Invalid request body", Param: "body"}))
		return
	}

	p, err := h.profileUseCase.ExecuteUpsertProfile(c.Request.Context(), profileUC.UpsertProfileInput{
		UserID:         userID,
		Company:        req.Company,
		Website:        req.Website,
		Location:       req.Location,
		Bio:            req.Bio,
		Status:         req.Status,
		GithubUsername: req.GithubUsername,
		Skills:         req.Skills,
		Youtube:        req.Youtube,
		Twitter:        req.Twitter,
		Facebook:       req.Facebook,
		Linkedin:       req.Linkedin,
		Instagram:      req.Instagram,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, p)
}

// List handles GET /api/profile.
func (h *ProfileHandler) List(c *gin.Context) {
	profiles, err := h.profileUseCase.ExecuteListProfiles(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, profiles)
}

// ByUser handles GET /api/profile/user/:userId.
func (h *ProfileHandler) ByUser(c *gin.Context) {
	p, err := h.profileUseCase.ExecuteGetProfileByUser(c.Request.Context(), c.Param("userId"))
	if err != nil {
		respondProfileErr(c, err)
		return
	}

	c.JSON(http.StatusOK, p)
}

// DeleteAccount handles DELETE /api/profile: posts, then profile, then
// the account itself.
func (h *ProfileHandler) DeleteAccount(c *gin.Context) {
	userID, ok := GetUserIDFromGinContext(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "No token, authorization denied"})
		return
	}

	if err := h.profileUseCase.ExecuteDeleteAccount(c.Request.Context(), userID); err != nil {
		c.Error(err)
		return
	}

	c.String(http.StatusOK, "Profile Deleted")
}

// AddExperience handles PUT /api/profile/experience.
func (h *ProfileHandler) AddExperience(c *gin.Context) {
	userID, ok := GetUserIDFromGinContext(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "No token, authorization denied"})
		return
	}

	var req AddExperienceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewValidation(apperror.FieldError{Msg: "Invalid request body", Param: "body"}))
		return
	}

	p, err := h.profileUseCase.ExecuteAddExperience(c.Request.Context(), profileUC.AddExperienceInput{
		UserID:      userID,
		Title:       req.Title,
		Company:     req.Company,
		Location:    req.Location,
		From:        req.From,
		To:          req.To,
		Current:     req.Current,
		Description: req.Description,
	})
	if err != nil {
		respondProfileErr(c, err)
		return
	}

	c.JSON(http.StatusOK, p)
}

// RemoveExperience handles DELETE /api/profile/experience/:id.
func (h *ProfileHandler) RemoveExperience(c *gin.Context) {
	userID, ok := GetUserIDFromGinContext(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "No token, authorization denied"})
		return
	}

	p, err := h.profileUseCase.ExecuteRemoveExperience(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondProfileErr(c, err)
		return
	}

	c.JSON(http.StatusOK, p)
}

// AddEducation handles PUT /api/profile/education.
func (h *ProfileHandler) AddEducation(c *gin.Context) {
	userID, ok := GetUserIDFromGinContext(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "No token, authorization denied"})
		return
	}

	var req AddEducationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewValidation(apperror.FieldError{Msg: "Invalid request body", Param: "body"}))
		return
	}

	p, err := h.profileUseCase.ExecuteAddEducation(c.Request.Context(), profileUC.AddEducationInput{
		UserID:       userID,
		School:       req.School,
		Degree:       req.Degree,
		FieldOfStudy: req.FieldOfStudy,
		From:         req.From,
		To:           req.To,
		Current:      req.Current,
		Description:  req.Description,
	})
	if err != nil {
		respondProfileErr(c, err)
		return
	}

	c.JSON(http.StatusOK, p)
}

// RemoveEducation handles DELETE /api/profile/education/:id.
func (h *ProfileHandler) RemoveEducation(c *gin.Context) {
	userID, ok := GetUserIDFromGinContext(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "No token, authorization denied"})
		return
	}

	p, err := h.profileUseCase.ExecuteRemoveEducation(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondProfileErr(c, err)
		return
	}

	c.JSON(http.StatusOK, p)
}

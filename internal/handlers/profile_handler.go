package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/devconnector/internal/models"
	"github.com/joshua-takyi/devconnector/internal/services"
)

type profileRequest struct {
	models.ProfileFields
	Image string `json:"image"`
}

func GetMyProfile(ps *services.ProfileService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		ctx, cancel := requestContext(c)
		defer cancel()

		profile, err := ps.GetOwnProfile(ctx, userID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(profile, ""))
	}
}

// UpsertProfile creates or updates the caller's profile. An optional base64
// or URL image becomes the caller's avatar.
func UpsertProfile(ps *services.ProfileService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		var req profileRequest
		if !bindJSON(c, &req) {
			return
		}
		ctx, cancel := requestContext(c)
		defer cancel()

		profile, err := ps.UpsertProfile(ctx, userID, req.ProfileFields, req.Image)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(profile, "Profile saved"))
	}
}

func ListProfiles(ps *services.ProfileService) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()

		profiles, err := ps.ListProfiles(ctx)
		if err != nil {
			respondError(c, err)
			return
		}
		if profiles == nil {
			profiles = []*models.ProfileView{}
		}
		c.JSON(http.StatusOK, models.SuccessResponse(profiles, ""))
	}
}

func GetProfileByUser(ps *services.ProfileService) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()

		profile, err := ps.GetProfileByUser(ctx, c.Param("user_id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(profile, ""))
	}
}

// DeleteAccount removes the caller's posts, profile and user.
func DeleteAccount(as *services.AccountService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), services.DefaultAccountTimeout)
		defer cancel()

		result, err := as.DeleteAccount(ctx, userID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(result, "User deleted"))
	}
}

func AddExperience(ps *services.ProfileService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		var in models.ExperienceInput
		if !bindJSON(c, &in) {
			return
		}
		ctx, cancel := requestContext(c)
		defer cancel()

		profile, err := ps.AddExperience(ctx, userID, in)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(profile, "Experience added"))
	}
}

func UpdateExperience(ps *services.ProfileService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		var in models.ExperienceInput
		if !bindJSON(c, &in) {
			return
		}
		ctx, cancel := requestContext(c)
		defer cancel()

		profile, err := ps.UpdateExperience(ctx, userID, c.Param("exp_id"), in)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(profile, "Experience updated"))
	}
}

func RemoveExperience(ps *services.ProfileService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		ctx, cancel := requestContext(c)
		defer cancel()

		profile, err := ps.RemoveExperience(ctx, userID, c.Param("exp_id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(profile, "Experience removed"))
	}
}

func AddEducation(ps *services.ProfileService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		var in models.EducationInput
		if !bindJSON(c, &in) {
			return
		}
		ctx, cancel := requestContext(c)
		defer cancel()

		profile, err := ps.AddEducation(ctx, userID, in)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(profile, "Education added"))
	}
}

func UpdateEducation(ps *services.ProfileService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		var in models.EducationInput
		if !bindJSON(c, &in) {
			return
		}
		ctx, cancel := requestContext(c)
		defer cancel()

		profile, err := ps.UpdateEducation(ctx, userID, c.Param("edu_id"), in)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(profile, "Education updated"))
	}
}

func RemoveEducation(ps *services.ProfileService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		ctx, cancel := requestContext(c)
		defer cancel()

		profile, err := ps.RemoveEducation(ctx, userID, c.Param("edu_id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(profile, "Education removed"))
	}
}

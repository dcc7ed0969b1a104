package handlers

import (
	"database/sql"
	"net/http"
	"strings"

	"github.com/FIFI1803/threadflow-studio/pkg/db"
	"github.com/FIFI1803/threadflow-studio/pkg/db/queries"
	"github.com/FIFI1803/threadflow-studio/pkg/middleware"
	"github.com/FIFI1803/threadflow-studio/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

type UpdateProfileRequest struct {
	DisplayName string `json:"display_name" binding:"required,max=100"`
}

// ProfileResponse is the profile shape sent to the client.
type ProfileResponse struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	DisplayName string    `json:"display_name"`
	AvatarURL   string    `json:"avatar_url"`
	Credits     int       `json:"credits"`
	Tier        string    `json:"tier"`
}

func newProfileResponse(profile *db.Profile) ProfileResponse {
	resp := ProfileResponse{
		ID:      profile.ID,
		UserID:  profile.UserID,
		Credits: profile.Credits,
		Tier:    profile.Tier,
	}
	if profile.DisplayName.Valid {
		resp.DisplayName = profile.DisplayName.String
	}
	if profile.AvatarURL.Valid {
		resp.AvatarURL = profile.AvatarURL.String
	}
	return resp
}

// GetProfile returns the authenticated user's profile and credit balance.
func (h *Handlers) GetProfile(c *gin.Context) {
	claims, exists := middleware.GetUserClaimsFromContext(c)
	if !exists {
		log.Error("GetProfile: User claims not found in context.")
		utils.ResponseWithError(c, http.StatusInternalServerError, "Authentication error: User claims not found", nil)
		return
	}

	profile, err := queries.FindProfileByUserID(claims.UserID)
	if err != nil {
		log.Errorf("GetProfile: Failed to fetch profile for user %s: %v", claims.UserID.String(), err)
		utils.ResponseWithError(c, http.StatusInternalServerError, "Failed to retrieve profile", nil)
		return
	}
	if profile == nil {
		log.Warnf("GetProfile: Profile for user %s not found.", claims.UserID.String())
		utils.ResponseWithError(c, http.StatusNotFound, "Profile not found", nil)
		return
	}

	utils.ResponseWithSuccess(c, http.StatusOK, "Profile retrieved successfully", newProfileResponse(profile))
}

// UpdateProfile changes the authenticated user's display name.
func (h *Handlers) UpdateProfile(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Debugf("UpdateProfile: Invalid request body: %v", err)
		utils.ResponseWithError(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	claims, exists := middleware.GetUserClaimsFromContext(c)
	if !exists {
		log.Error("UpdateProfile: User claims not found in context.")
		utils.ResponseWithError(c, http.StatusInternalServerError, "Authentication error: User claims not found", nil)
		return
	}

	err := queries.UpdateProfileDisplayName(claims.UserID, strings.TrimSpace(req.DisplayName))
	if err != nil {
		if err == sql.ErrNoRows {
			utils.ResponseWithError(c, http.StatusNotFound, "Profile not found", nil)
			return
		}
		log.Errorf("UpdateProfile: Failed to update display name for user %s: %v", claims.UserID.String(), err)
		utils.ResponseWithError(c, http.StatusInternalServerError, "Failed to update profile", nil)
		return
	}

	log.Infof("Profile updated for user %s.", claims.UserID.String())
	utils.ResponseWithSuccess(c, http.StatusOK, "Profile updated successfully", nil)
}

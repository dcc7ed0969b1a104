package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"time"

	"github.com/FIFI1803/threadflow-studio/pkg/db"
	"github.com/FIFI1803/threadflow-studio/pkg/db/queries"
	"github.com/FIFI1803/threadflow-studio/pkg/middleware"
	"github.com/FIFI1803/threadflow-studio/pkg/script"
	"github.com/FIFI1803/threadflow-studio/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// ProjectResponse is the project shape sent to the client.
type ProjectResponse struct {
	ID            uuid.UUID      `json:"id"`
	UserID        uuid.UUID      `json:"user_id"`
	Title         string         `json:"title"`
	ThreadContent string         `json:"thread_content"`
	VideoVibe     string         `json:"video_vibe"`
	Status        string         `json:"status"`
	ScriptData    *script.Script `json:"script_data,omitempty"`
	CreatedAt     string         `json:"created_at"`
}

func newProjectResponse(project *db.Project) ProjectResponse {
	resp := ProjectResponse{
		ID:            project.ID,
		UserID:        project.UserID,
		Title:         project.Title,
		ThreadContent: project.ThreadContent,
		VideoVibe:     project.VideoVibe,
		Status:        project.Status,
		CreatedAt:     project.CreatedAt.Format(time.RFC3339),
	}
	if len(project.ScriptData) > 0 {
		var s script.Script
		if err := json.Unmarshal(project.ScriptData, &s); err != nil {
			log.Warnf("Project %s has unreadable script data: %v", project.ID.String(), err)
		} else {
			resp.ScriptData = &s
		}
	}
	return resp
}

// GetUserProjects lists the authenticated user's projects, newest first.
func (h *Handlers) GetUserProjects(c *gin.Context) {
	claims, exists := middleware.GetUserClaimsFromContext(c)
	if !exists {
		log.Error("GetUserProjects: User claims not found in context.")
		utils.ResponseWithError(c, http.StatusInternalServerError, "Authentication error: User claims not found", nil)
		return
	}

	projects, err := queries.FindProjectsByUserID(claims.UserID)
	if err != nil {
		log.Errorf("GetUserProjects: Failed to fetch projects for user %s: %v", claims.UserID.String(), err)
		utils.ResponseWithError(c, http.StatusInternalServerError, "Failed to retrieve projects", nil)
		return
	}

	projectResponses := make([]ProjectResponse, len(projects))
	for i, p := range projects {
		projectResponses[i] = newProjectResponse(&p)
	}

	log.Infof("Found %d projects for user %s.", len(projects), claims.UserID.String())
	utils.ResponseWithSuccess(c, http.StatusOK, "Projects retrieved successfully", projectResponses)
}

// GetProjectByID fetches a single project, ensuring ownership.
func (h *Handlers) GetProjectByID(c *gin.Context) {
	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		log.Warnf("GetProjectByID: Invalid project ID format '%s': %v", c.Param("id"), err)
		utils.ResponseWithError(c, http.StatusBadRequest, "Invalid project ID format", nil)
		return
	}

	claims, exists := middleware.GetUserClaimsFromContext(c)
	if !exists {
		log.Error("GetProjectByID: User claims not found in context.")
		utils.ResponseWithError(c, http.StatusInternalServerError, "Authentication error: User claims not found", nil)
		return
	}

	project, err := queries.FindProjectByID(projectID)
	if err != nil {
		log.Errorf("GetProjectByID: Failed to fetch project %s: %v", projectID.String(), err)
		utils.ResponseWithError(c, http.StatusInternalServerError, "Failed to retrieve project", nil)
		return
	}
	if project == nil {
		utils.ResponseWithError(c, http.StatusNotFound, "Project not found", nil)
		return
	}

	if project.UserID != claims.UserID {
		log.Warnf("GetProjectByID: User %s attempted to access project %s owned by %s.",
			claims.UserID.String(), projectID.String(), project.UserID.String())
		utils.ResponseWithError(c, http.StatusForbidden, "You do not have permission to access this project", nil)
		return
	}

	utils.ResponseWithSuccess(c, http.StatusOK, "Project retrieved successfully", newProjectResponse(project))
}

// DeleteProject removes a project owned by the authenticated user.
func (h *Handlers) DeleteProject(c *gin.Context) {
	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		log.Warnf("DeleteProject: Invalid project ID format '%s': %v", c.Param("id"), err)
		utils.ResponseWithError(c, http.StatusBadRequest, "Invalid project ID format", nil)
		return
	}

	claims, exists := middleware.GetUserClaimsFromContext(c)
	if !exists {
		log.Error("DeleteProject: User claims not found in context.")
		utils.ResponseWithError(c, http.StatusInternalServerError, "Authentication error: User claims not found", nil)
		return
	}

	// The user_id in the delete's WHERE clause enforces ownership.
	if err := queries.DeleteProject(projectID, claims.UserID); err != nil {
		if err == sql.ErrNoRows {
			utils.ResponseWithError(c, http.StatusNotFound, "Project not found or you do not have permission to delete it", nil)
			return
		}
		log.Errorf("DeleteProject: Failed to delete project %s for user %s: %v", projectID.String(), claims.UserID.String(), err)
		utils.ResponseWithError(c, http.StatusInternalServerError, "Failed to delete project", nil)
		return
	}

	log.Infof("Project %s deleted for user %s.", projectID.String(), claims.UserID.String())
	c.Status(http.StatusNoContent)
}

package handlers

import (
	"errors"
	"net/http"

	"github.com/FIFI1803/threadflow-studio/pkg/llm"
	"github.com/FIFI1803/threadflow-studio/pkg/middleware"
	"github.com/FIFI1803/threadflow-studio/pkg/script"
	"github.com/FIFI1803/threadflow-studio/pkg/utils"
	"github.com/FIFI1803/threadflow-studio/pkg/workflow"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

type GenerateScriptRequest struct {
	ThreadContent string `json:"thread_content"`
	VideoVibe     string `json:"video_vibe"`
}

// GenerateScriptResponse keeps the top-level "scenes" shape of the gateway
// contract, extended with the created project and remaining credits.
type GenerateScriptResponse struct {
	Scenes           []script.Scene `json:"scenes"`
	ProjectID        uuid.UUID      `json:"project_id"`
	CreditsRemaining int            `json:"credits_remaining"`
}

// GenerateScript runs the full generation workflow for the authenticated
// user: quota check, completion call, project persistence, credit debit.
// Failures respond with a bare {"error": ...} body per the gateway contract.
func (h *Handlers) GenerateScript(c *gin.Context) {
	var req GenerateScriptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Debugf("GenerateScript: Invalid request body: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	claims, exists := middleware.GetUserClaimsFromContext(c)
	if !exists {
		log.Error("GenerateScript: User claims not found in context.")
		utils.ResponseWithError(c, http.StatusInternalServerError, "Authentication error: User claims not found", nil)
		return
	}

	session := workflow.Session{UserID: claims.UserID}
	result, err := h.Workflow.Run(c.Request.Context(), session, req.ThreadContent, req.VideoVibe)
	if err != nil {
		// Run may return a nil result alongside the error.
		state := workflow.StateFailed
		if result != nil {
			state = result.State
		}
		log.Errorf("GenerateScript: Attempt failed for user %s in state %s: %v",
			claims.UserID.String(), state, err)
		c.JSON(generateErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, GenerateScriptResponse{
		Scenes:           result.Script.Scenes,
		ProjectID:        result.ProjectID,
		CreditsRemaining: result.CreditsRemaining,
	})
}

// generateErrorStatus maps the workflow error taxonomy to HTTP statuses.
// Upstream, parse and persistence failures all surface as 500 per the
// gateway contract; quota and concurrency rejections get their own codes.
func generateErrorStatus(err error) int {
	switch {
	case errors.Is(err, llm.ErrThreadContentRequired):
		return http.StatusBadRequest
	case errors.Is(err, workflow.ErrQuotaExceeded):
		return http.StatusPaymentRequired
	case errors.Is(err, workflow.ErrGenerationInFlight):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

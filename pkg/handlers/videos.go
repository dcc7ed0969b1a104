package handlers

import (
	"net/http"

	"github.com/FIFI1803/threadflow-studio/pkg/utils"
	"github.com/gin-gonic/gin"
)

// Video is an entry in the video library.
type Video struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Thumbnail string `json:"thumbnail"`
	Duration  string `json:"duration"`
	Views     string `json:"views"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
}

// The video library has no backing store in this snapshot; the handler
// serves fixed data so the client page can render.
var mockVideos = []Video{
	{
		ID:        "1",
		Title:     "Tech Conference Bombshell",
		Thumbnail: "https://images.unsplash.com/photo-1540575467063-178a50c2df87?w=400&h=300&fit=crop",
		Duration:  "0:45",
		Views:     "12.5K",
		Status:    "published",
		CreatedAt: "2024-02-15",
	},
	{
		ID:        "2",
		Title:     "Breaking News Story",
		Thumbnail: "https://images.unsplash.com/photo-1611162617474-5b21e879e113?w=400&h=300&fit=crop",
		Duration:  "0:38",
		Views:     "8.2K",
		Status:    "draft",
		CreatedAt: "2024-02-14",
	},
	{
		ID:        "3",
		Title:     "Product Launch Reveal",
		Thumbnail: "https://images.unsplash.com/photo-1487017159836-4e23ece2e4cf?w=400&h=300&fit=crop",
		Duration:  "0:52",
		Views:     "15.8K",
		Status:    "published",
		CreatedAt: "2024-02-13",
	},
}

// GetVideos returns the mocked video library.
func (h *Handlers) GetVideos(c *gin.Context) {
	utils.ResponseWithSuccess(c, http.StatusOK, "Videos retrieved successfully", mockVideos)
}

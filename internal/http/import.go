package http

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/kindle-digest/internal/importers"
	"github.com/mrlokans/kindle-digest/internal/kindle"
)

const (
	maxClippingsFileSize = 10 * 1024 * 1024 // 10 MB
)

type ImportController struct {
	pipeline *importers.Pipeline
}

func NewImportController(pipeline *importers.Pipeline) *ImportController {
	return &ImportController{pipeline: pipeline}
}

type ImportResponse struct {
	Success bool         `json:"success"`
	Error   string       `json:"error,omitempty"`
	Added   int          `json:"added"`
	Total   int          `json:"total"`
	Skipped SkippedStats `json:"skipped"`
}

type SkippedStats struct {
	Empty     int `json:"empty"`
	Bookmarks int `json:"bookmarks"`
	Notes     int `json:"notes"`
}

// Import accepts a multipart "clippings_file" upload, parses it and merges
// the highlights into the store.
func (c *ImportController) Import(ctx *gin.Context) {
	file, header, err := ctx.Request.FormFile("clippings_file")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, &ImportResponse{
			Success: false,
			Error:   "Clippings file not provided",
		})
		return
	}
	defer file.Close()

	if header.Size > maxClippingsFileSize {
		ctx.JSON(http.StatusBadRequest, &ImportResponse{
			Success: false,
			Error:   fmt.Sprintf("File too large (max %d MB)", maxClippingsFileSize/(1024*1024)),
		})
		return
	}

	raw, err := io.ReadAll(io.LimitReader(file, maxClippingsFileSize+1))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, &ImportResponse{
			Success: false,
			Error:   fmt.Sprintf("Failed to read clippings: %v", err),
		})
		return
	}

	content, err := kindle.Decode(raw)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, &ImportResponse{
			Success: false,
			Error:   fmt.Sprintf("Failed to decode clippings: %v", err),
		})
		return
	}

	result, err := c.pipeline.Import(content)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, &ImportResponse{
			Success: false,
			Error:   fmt.Sprintf("Failed to import: %v", err),
		})
		return
	}

	ctx.JSON(http.StatusOK, &ImportResponse{
		Success: true,
		Added:   result.Added,
		Total:   result.Total,
		Skipped: SkippedStats{
			Empty:     result.Skipped.Empty,
			Bookmarks: result.Skipped.Bookmarks,
			Notes:     result.Skipped.Notes,
		},
	})
}

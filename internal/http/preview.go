package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/kindle-digest/internal/service"
)

type PreviewController struct {
	svc *service.Service
}

func NewPreviewController(svc *service.Service) *PreviewController {
	return &PreviewController{svc: svc}
}

type PreviewResponse struct {
	Success  bool   `json:"success"`
	Error    string `json:"error,omitempty"`
	Subject  string `json:"subject,omitempty"`
	Selected int    `json:"selected"`
	HTML     string `json:"html,omitempty"`
}

// Preview samples and renders a digest without sending it. The default
// response is the HTML document itself; ?format=json wraps it in JSON.
func (c *PreviewController) Preview(ctx *gin.Context) {
	count := 0
	if raw := ctx.Query("count"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			ctx.JSON(http.StatusBadRequest, &PreviewResponse{
				Success: false,
				Error:   "count must be a non-negative integer",
			})
			return
		}
		count = parsed
	}

	doc, selected, err := c.svc.Preview(count)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, &PreviewResponse{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	if ctx.Query("format") == "json" {
		ctx.JSON(http.StatusOK, &PreviewResponse{
			Success:  true,
			Subject:  doc.Subject,
			Selected: selected,
			HTML:     doc.HTML,
		})
		return
	}

	ctx.Data(http.StatusOK, "text/html; charset=utf-8", []byte(doc.HTML))
}

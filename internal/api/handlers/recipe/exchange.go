package recipe

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/panpapadopoulos/cooking/internal/api/response"
	"github.com/panpapadopoulos/cooking/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Export downloads every recipe as a bundle.
func (h *Handler) Export(c *gin.Context) {
	bundle, err := h.recipeService.Export(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	filename := fmt.Sprintf("recipes-%s.json", bundle.ExportedAt.Format(time.DateOnly))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.JSON(http.StatusOK, bundle)
}

// Import loads a bundle. ?merge=true keeps existing recipes and gives the
// imported ones fresh ids; otherwise the collection is replaced.
func (h *Handler) Import(c *gin.Context) {
	merge, ok := queryBool(c, "merge")
	if !ok {
		response.BadRequest(c, "merge must be true or false", nil)
		return
	}

	data, err := io.ReadAll(c.Request.Body)
	if err != nil {
		response.Error(c, err)
		return
	}

	imported, err := h.recipeService.Import(c.Request.Context(), data, merge)
	if err != nil {
		response.Error(c, err)
		return
	}

	common.LogInfo("recipes imported",
		zap.Int("count", len(imported)),
		zap.Bool("merge", merge),
	)
	c.JSON(http.StatusOK, gin.H{"imported": len(imported), "merge": merge, "recipes": imported})
}

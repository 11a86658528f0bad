package recipe

import (
	"net/http"

	"github.com/panpapadopoulos/cooking/internal/api/response"
	"github.com/panpapadopoulos/cooking/internal/pkg/common"

	"github.com/gin-gonic/gin"
)

// Sync reconciles the local store with the remote one.
func (h *Handler) Sync(c *gin.Context) {
	if h.syncer == nil {
		response.Error(c, common.ErrServiceUnavailable.WithMessage("remote store is not configured"))
		return
	}

	report, err := h.syncer.Sync(c.Request.Context())
	if err != nil {
		response.Error(c, common.ErrServiceUnavailable.WithMessage("sync failed").WithCause(err))
		return
	}
	c.JSON(http.StatusOK, report)
}

// Package response writes API error bodies for gin handlers.
package response

import (
	"context"
	"errors"
	"net/http"

	"github.com/panpapadopoulos/cooking/internal/core/ai"
	"github.com/panpapadopoulos/cooking/internal/core/recipe"
	"github.com/panpapadopoulos/cooking/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// DebugKey is the gin context key that enables error details.
const DebugKey = "debug"

// Classify maps a domain error to its API error.
func Classify(err error) *common.CustomError {
	var custom *common.CustomError
	var maxBytes *http.MaxBytesError
	switch {
	case errors.As(err, &custom):
		return custom
	case errors.As(err, &maxBytes):
		return common.ErrTooLarge.WithCause(err)
	case errors.Is(err, recipe.ErrNotFound):
		return common.ErrNotFound.WithMessage("recipe not found").WithCause(err)
	case errors.Is(err, recipe.ErrInvalidImport):
		return common.ErrInvalidImport.WithCause(err)
	case recipe.IsValidationError(err):
		return common.ErrValidation.WithCause(err)
	case errors.Is(err, ai.ErrNoCredential):
		return common.ErrServiceUnavailable.WithMessage("AI service is not configured").WithCause(err)
	case errors.Is(err, ai.ErrRateLimited):
		return common.ErrTooManyRequests.WithCause(err)
	case errors.Is(err, ai.ErrUpstream), errors.Is(err, ai.ErrMalformedResponse):
		return common.ErrAIServiceError.WithCause(err)
	case errors.Is(err, context.DeadlineExceeded):
		return common.ErrGatewayTimeout.WithCause(err)
	default:
		return common.ErrInternalError.WithCause(err)
	}
}

// Error aborts the request with the API error for err. Validation errors
// always carry their field map; other causes are shown only in debug mode.
func Error(c *gin.Context, err error) {
	apiErr := Classify(err)
	body := common.ErrorResponse{Code: apiErr.Code, Message: apiErr.Message}

	var verr *recipe.ValidationError
	switch {
	case errors.As(err, &verr):
		body.Details = verr.Fields
	case c.GetBool(DebugKey) && apiErr.Err != nil:
		body.Details = apiErr.Err.Error()
	}

	if apiErr.Status >= http.StatusInternalServerError {
		common.LogError("request failed",
			zap.String("code", apiErr.Code),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(apiErr.Status, body)
}

// BadRequest aborts with INVALID_REQUEST and the given message.
func BadRequest(c *gin.Context, message string, err error) {
	Error(c, common.ErrInvalidRequest.WithMessage(message).WithCause(err))
}

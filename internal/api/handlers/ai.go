// Package handlers holds the stateless parse, translate and unit endpoints.
package handlers

import (
	"net/http"
	"strings"

	"github.com/panpapadopoulos/cooking/internal/api/response"
	"github.com/panpapadopoulos/cooking/internal/core/ai"
	"github.com/panpapadopoulos/cooking/internal/core/language"
	"github.com/panpapadopoulos/cooking/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AIHandler serves parsing and translation.
type AIHandler struct {
	aiService *ai.Service
}

// NewAIHandler wraps the AI service.
func NewAIHandler(aiService *ai.Service) *AIHandler {
	return &AIHandler{aiService: aiService}
}

// ParseRequest is the body of POST /recipes/parse.
type ParseRequest struct {
	Text     string `json:"text" binding:"required"`
	Language string `json:"language"`
}

// TranslateRequest is the body of POST /translate.
type TranslateRequest struct {
	Text string `json:"text" binding:"required"`
	From string `json:"from" binding:"required"`
	To   string `json:"to" binding:"required"`
}

// Parse structures recipe text. It never fails on poor text: model
// problems show up as warnings next to a heuristic result.
func (h *AIHandler) Parse(c *gin.Context) {
	var req ParseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "text is required", err)
		return
	}
	hint, ok := language.ParseHint(req.Language)
	if !ok {
		response.BadRequest(c, "language must be auto, el or en", nil)
		return
	}

	res, err := h.aiService.SmartParse(c.Request.Context(), req.Text, hint)
	if err != nil {
		response.Error(c, err)
		return
	}

	common.LogDebug("recipe parsed",
		zap.String("parser", res.Parser),
		zap.Bool("cached", res.Cached),
		zap.Int("ingredients", len(res.Recipe.Ingredients)),
		zap.Int("instructions", len(res.Recipe.Instructions)),
	)
	c.JSON(http.StatusOK, res)
}

// Translate renders text in another language through the model.
func (h *AIHandler) Translate(c *gin.Context) {
	var req TranslateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "text, from and to are required", err)
		return
	}
	from, okFrom := language.ParseCode(req.From)
	to, okTo := language.ParseCode(req.To)
	if !okFrom || !okTo {
		response.BadRequest(c, "from and to must be el or en", nil)
		return
	}

	out, err := h.aiService.Translate(c.Request.Context(), strings.TrimSpace(req.Text), from, to)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"text": out, "from": from, "to": to})
}

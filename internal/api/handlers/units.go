package handlers

import (
	"net/http"
	"strings"

	"github.com/panpapadopoulos/cooking/internal/api/response"
	"github.com/panpapadopoulos/cooking/internal/core/units"
	"github.com/panpapadopoulos/cooking/internal/pkg/metrics"

	"github.com/gin-gonic/gin"
)

// UnitsHandler serves conversion and scaling.
type UnitsHandler struct {
	registry      *units.Registry
	defaultSystem units.System
}

// NewUnitsHandler uses defaultSystem when a request names none.
func NewUnitsHandler(reg *units.Registry, defaultSystem units.System) *UnitsHandler {
	return &UnitsHandler{registry: reg, defaultSystem: defaultSystem}
}

// ConvertRequest is the body of POST /units/convert. System may be a
// system name or "all".
type ConvertRequest struct {
	Quantity *float64 `json:"quantity"`
	Unit     string   `json:"unit"`
	System   string   `json:"system"`
}

// ScaleRequest is the body of POST /units/scale.
type ScaleRequest struct {
	Quantity        float64 `json:"quantity"`
	BaseServings    int     `json:"base_servings" binding:"required,gt=0"`
	DesiredServings int     `json:"desired_servings" binding:"required,gt=0"`
}

// ScaleResponse carries the exact and the display value.
type ScaleResponse struct {
	Value    float64      `json:"value"`
	Quantity units.Amount `json:"quantity"`
	Display  string       `json:"display"`
}

// Convert renders one quantity in a system, or in all of them.
func (h *UnitsHandler) Convert(c *gin.Context) {
	var req ConvertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid conversion request", err)
		return
	}

	name := strings.ToLower(strings.TrimSpace(req.System))
	if name == "all" {
		c.JSON(http.StatusOK, h.registry.AllConversions(req.Quantity, req.Unit))
		return
	}

	system := h.defaultSystem
	if name != "" {
		s, ok := units.ParseSystem(name)
		if !ok {
			response.BadRequest(c, "system must be metric, us, cooking or all", nil)
			return
		}
		system = s
	}

	conv := h.registry.ConvertIngredient(req.Quantity, req.Unit, system)
	metrics.ObserveConversion(string(system), conv.Converted)
	c.JSON(http.StatusOK, conv)
}

// Scale multiplies a quantity by the servings ratio.
func (h *UnitsHandler) Scale(c *gin.Context) {
	var req ScaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "base_servings and desired_servings must be positive", err)
		return
	}

	amount := units.ScaleQuantity(req.Quantity, req.BaseServings, req.DesiredServings)
	c.JSON(http.StatusOK, ScaleResponse{
		Value:    units.ScaleValue(req.Quantity, req.BaseServings, req.DesiredServings),
		Quantity: amount,
		Display:  amount.String(),
	})
}

// Units lists the unit table.
func (h *UnitsHandler) Units(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"units": h.registry.Definitions(), "systems": units.Systems})
}

// Package recipe serves the saved recipe collection.
package recipe

import (
	"net/http"

	"github.com/panpapadopoulos/cooking/internal/api/response"
	recipeService "github.com/panpapadopoulos/cooking/internal/core/recipe"
	"github.com/panpapadopoulos/cooking/internal/core/units"
	"github.com/panpapadopoulos/cooking/internal/pkg/common"
	"github.com/panpapadopoulos/cooking/internal/pkg/metrics"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler serves CRUD, view, exchange and sync endpoints.
type Handler struct {
	recipeService *recipeService.Service
	syncer        *recipeService.Syncer
	defaultSystem units.System
}

// NewHandler builds the handler. syncer is nil when no remote is set up.
func NewHandler(svc *recipeService.Service, syncer *recipeService.Syncer, defaultSystem units.System) *Handler {
	return &Handler{
		recipeService: svc,
		syncer:        syncer,
		defaultSystem: defaultSystem,
	}
}

// List returns every recipe, newest first.
func (h *Handler) List(c *gin.Context) {
	recipes, err := h.recipeService.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipes": recipes, "count": len(recipes)})
}

// Get returns one recipe.
func (h *Handler) Get(c *gin.Context) {
	r, err := h.recipeService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

// Create saves a new recipe. Any id in the body is ignored.
func (h *Handler) Create(c *gin.Context) {
	var r recipeService.Recipe
	if err := c.ShouldBindJSON(&r); err != nil {
		response.BadRequest(c, "invalid recipe document", err)
		return
	}
	r.ID = ""

	saved, err := h.recipeService.Save(c.Request.Context(), &r)
	if err != nil {
		response.Error(c, err)
		return
	}
	common.LogInfo("recipe created", zap.String("id", saved.ID))
	c.JSON(http.StatusCreated, saved)
}

// Update replaces the recipe at :id, keeping its createdAt.
func (h *Handler) Update(c *gin.Context) {
	id := c.Param("id")
	if _, err := h.recipeService.Get(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	var r recipeService.Recipe
	if err := c.ShouldBindJSON(&r); err != nil {
		response.BadRequest(c, "invalid recipe document", err)
		return
	}
	r.ID = id

	saved, err := h.recipeService.Save(c.Request.Context(), &r)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, saved)
}

// Delete removes the recipe at :id.
func (h *Handler) Delete(c *gin.Context) {
	if err := h.recipeService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Clear removes every recipe.
func (h *Handler) Clear(c *gin.Context) {
	if err := h.recipeService.Clear(c.Request.Context()); err != nil {
		response.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// View renders a recipe for ?servings= and ?system=.
func (h *Handler) View(c *gin.Context) {
	servings, ok := queryServings(c)
	if !ok {
		response.BadRequest(c, "servings must be a positive integer", nil)
		return
	}
	system, ok := querySystem(c, h.defaultSystem)
	if !ok {
		response.BadRequest(c, "system must be metric, us or cooking", nil)
		return
	}

	r, err := h.recipeService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	view := h.recipeService.View(r, servings, system)
	for _, ing := range view.Ingredients {
		if ing.Quantity != nil && ing.Unit != nil {
			metrics.ObserveConversion(string(system), ing.Converted)
		}
	}
	c.JSON(http.StatusOK, view)
}

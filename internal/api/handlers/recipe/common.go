package recipe

import (
	"strconv"
	"strings"

	"github.com/panpapadopoulos/cooking/internal/core/units"

	"github.com/gin-gonic/gin"
)

// querySystem reads ?system=, falling back to def.
func querySystem(c *gin.Context, def units.System) (units.System, bool) {
	raw := strings.TrimSpace(c.Query("system"))
	if raw == "" {
		return def, true
	}
	return units.ParseSystem(raw)
}

// queryServings reads ?servings=; zero means the recipe's own count.
func queryServings(c *gin.Context) (int, bool) {
	raw := strings.TrimSpace(c.Query("servings"))
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// queryBool reads a boolean flag such as ?merge=true.
func queryBool(c *gin.Context, key string) (bool, bool) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return false, true
	}
	v, err := strconv.ParseBool(raw)
	return v, err == nil
}

package handlers

import (
	"strconv"

	"github.com/falmutairi/projecthub/backend/internal/middleware"
	"github.com/falmutairi/projecthub/backend/internal/services"
	"github.com/gin-gonic/gin"
)

// parseIDParam parses a numeric path parameter, returning ok=false when it is
// not a valid id.
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// currentActor builds the authorization actor from the authenticated request.
func currentActor(c *gin.Context) services.Actor {
	return services.Actor{
		ID:   middleware.GetUserID(c),
		Role: middleware.GetRole(c),
	}
}

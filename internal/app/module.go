package app

import "github.com/gin-gonic/gin"

// Module is a self-registering slice of the REST API. Each module mounts its
// routes under the /rest group.
type Module interface {
	RegisterRoutes(rest *gin.RouterGroup)
}

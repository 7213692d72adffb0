package player

import "github.com/gin-gonic/gin"

// PlayerModule implements the app.Module interface for the player domain.
type PlayerModule struct {
	handler *PlayerHandler
}

// NewModule creates a new PlayerModule with the given handler.
// Panics if h is nil.
func NewModule(h *PlayerHandler) *PlayerModule {
	if h == nil {
		panic("player.NewModule: handler must not be nil")
	}
	return &PlayerModule{handler: h}
}

// RegisterRoutes registers the player routes under rest.
func (m *PlayerModule) RegisterRoutes(rest *gin.RouterGroup) {
	players := rest.Group("/players")
	players.GET("", m.handler.List)
	players.GET("/count", m.handler.Count)
	players.GET("/:id", m.handler.Get)
	players.POST("", m.handler.Create)
	players.POST("/:id", m.handler.Update)
	players.DELETE("/:id", m.handler.Delete)
}

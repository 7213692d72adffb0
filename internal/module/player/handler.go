package player

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/playerbase/internal/domain"
	"github.com/simp-lee/playerbase/internal/pkg"
)

// PlayerHandler handles REST API requests for the player resource.
type PlayerHandler struct {
	svc domain.PlayerService
}

// NewPlayerHandler creates a new PlayerHandler with the given service.
func NewPlayerHandler(svc domain.PlayerService) *PlayerHandler {
	return &PlayerHandler{svc: svc}
}

// List handles GET /rest/players.
func (h *PlayerHandler) List(c *gin.Context) {
	filter := pkg.ParsePageFilter(c)

	players, err := h.svc.ListPlayers(c.Request.Context(), filter)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	if players == nil {
		players = []domain.Player{}
	}

	pkg.JSON(c, players)
}

// Count handles GET /rest/players/count.
func (h *PlayerHandler) Count(c *gin.Context) {
	filter := pkg.ParseFilter(c)

	count, err := h.svc.CountPlayers(c.Request.Context(), filter)
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.JSON(c, count)
}

// Get handles GET /rest/players/:id.
func (h *PlayerHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	player, err := h.svc.GetPlayer(c.Request.Context(), id)
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.JSON(c, player)
}

// Create handles POST /rest/players.
func (h *PlayerHandler) Create(c *gin.Context) {
	var req CreatePlayerRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}

	player, err := h.svc.CreatePlayer(c.Request.Context(), req.ToInput())
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.JSON(c, player)
}

// Update handles POST /rest/players/:id.
func (h *PlayerHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req UpdatePlayerRequest
	if err := json.NewDecoder(c.Request.Body).Decode(&req); err != nil {
		pkg.Error(c, domain.NewAppError(domain.CodeValidation, "malformed body", err))
		return
	}

	player, err := h.svc.UpdatePlayer(c.Request.Context(), id, req.ToInput())
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.JSON(c, player)
}

// Delete handles DELETE /rest/players/:id.
func (h *PlayerHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.svc.DeletePlayer(c.Request.Context(), id); err != nil {
		pkg.Error(c, err)
		return
	}

	c.Status(http.StatusOK)
}

// parseID reads the :id path parameter. A non-integer or non-positive id
// aborts the request with 400.
func parseID(c *gin.Context) (int64, bool) {
	idStr := c.Param("id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		pkg.Error(c, domain.NewValidationError("invalid id: "+idStr))
		return 0, false
	}
	return id, true
}

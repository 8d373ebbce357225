package controller

import (
	"log/slog"
	"net/http"

	"ctchen222/tictak/internal/api/models"
	"ctchen222/tictak/internal/api/response"
	"ctchen222/tictak/internal/api/service"

	"github.com/gin-gonic/gin"
)

// GuestController handles guest session HTTP requests.
type GuestController struct {
	guestService service.GuestService
}

// NewGuestController creates a new GuestController.
func NewGuestController(guestService service.GuestService) *GuestController {
	return &GuestController{
		guestService: guestService,
	}
}

// GuestLogin handles guest login, returning a token and the generated player ID.
func (gc *GuestController) GuestLogin(c *gin.Context) {
	token, playerID, err := gc.guestService.GuestLogin(c.Request.Context())
	if err != nil {
		slog.ErrorContext(c.Request.Context(), "guest login failed", "error", err)
		response.ErrorResponse(c, http.StatusInternalServerError, "could not create guest session")
		return
	}

	response.SuccessResponse(c, models.GuestLoginResponse{Token: token, PlayerID: playerID})
}

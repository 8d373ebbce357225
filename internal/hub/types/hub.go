package types

import (
	"context"

	"ctchen222/tictak/internal/player"
)

// RegistrationRequest asks the hub to open a game session for a connected player.
type RegistrationRequest struct {
	Player *player.Player
	Ctx    context.Context
}

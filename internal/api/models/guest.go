package models

// GuestLoginResponse is returned by the guest login endpoint.
type GuestLoginResponse struct {
	Token    string `json:"token"`
	PlayerID string `json:"player_id"`
}

package models

// Profile is the subset of a player's identity this system reads.
// The identity provider owns the full record.
type Profile struct {
	// PlayerID is the identity the profile belongs to
	PlayerID string `json:"player_id"`

	// DisplayName is the human-readable name shown in results
	DisplayName string `json:"display_name"`
}

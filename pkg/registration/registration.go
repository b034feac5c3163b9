// Package registration admits and removes watch entries. Admission runs a
// validation pipeline against the game service before anything is stored.
package registration

// RegisterRequest carries the caller-supplied fields for a new watch entry.
type RegisterRequest struct {
	ProfileID   string `json:"profile_id"`
	Destination string `json:"destination"`
	Channel     string `json:"channel"`
}

// RegisterResponse is returned after a successful registration.
type RegisterResponse struct {
	ProfileID  string `json:"profile_id"`
	AccountID  string `json:"account_id"`
	SaveDataID string `json:"savedata_id"`
	Channel    string `json:"channel"`
}

package gts

import (
	"fmt"
	"strings"
)

// Markers for the JavaScript-literal assignments embedded in the profile
// page. The quoted literal following each marker carries the identifier.
const (
	accountIDMarker  = "USERS_ACCOUNT_ID"
	saveDataIDMarker = "USERS_SAVEDATA_ID"
)

// ProfilePage is a fetched profile page together with redirect information.
type ProfilePage struct {
	ProfileID string
	FinalURL  string
	RootURL   string
	Body      []byte
}

// RedirectedToRoot reports whether the request for the profile ended up on
// the service homepage, which is how the provider signals an invalid or
// private profile.
func (p *ProfilePage) RedirectedToRoot() bool {
	return p.FinalURL == p.RootURL
}

// Scrape extracts the account and savedata identifiers from the page body.
// These are required to query the trade list and are stored with the watch
// entry at registration. Missing markers yield ErrMarkerNotFound.
func (p *ProfilePage) Scrape() (accountID, saveDataID string, err error) {
	for _, line := range strings.Split(string(p.Body), "\n") {
		switch {
		case strings.Contains(line, accountIDMarker):
			accountID = quotedLiteral(line)
		case strings.Contains(line, saveDataIDMarker):
			saveDataID = quotedLiteral(line)
		}
	}

	if accountID == "" {
		return "", "", fmt.Errorf("%w: %s", ErrMarkerNotFound, accountIDMarker)
	}
	if saveDataID == "" {
		return "", "", fmt.Errorf("%w: %s", ErrMarkerNotFound, saveDataIDMarker)
	}
	return accountID, saveDataID, nil
}

// quotedLiteral returns the first single-quoted literal on the line, or
// empty when the line has none.
func quotedLiteral(line string) string {
	parts := strings.Split(line, "'")
	if len(parts) < 2 {
		return ""
	}
	return parts[1]
}

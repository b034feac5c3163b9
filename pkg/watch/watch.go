package watch

import "time"

// Channel identifies the notification transport chosen for a watch entry.
type Channel string

const (
	ChannelPush  Channel = "push"
	ChannelEmail Channel = "email"
)

// Valid reports whether c is a known channel kind.
func (c Channel) Valid() bool {
	return c == ChannelPush || c == ChannelEmail
}

// Entry represents the domain model for a registered trade watch.
// It ties a GTS profile identity to a notification destination.
type Entry struct {
	ProfileID   string
	AccountID   string
	SaveDataID  string
	Destination string
	Channel     Channel

	// Watermark holds the completion identifier of the last trade already
	// reported to the user. Empty means no trade has been reported yet.
	Watermark string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// New creates an Entry from the given parameters with an unset watermark.
func New(profileID, accountID, saveDataID, destination string, channel Channel) *Entry {
	return &Entry{
		ProfileID:   profileID,
		AccountID:   accountID,
		SaveDataID:  saveDataID,
		Destination: destination,
		Channel:     channel,
	}
}

// NeverNotified reports whether the entry has not produced a notification yet.
func (e *Entry) NeverNotified() bool {
	return e.Watermark == ""
}

package model

import "time"

// DemoUserID is the sentinel identity used when no authenticated session
// exists. Local-only operations still work against it.
const DemoUserID = "demo-user"

// Preferences holds display-only settings. They never affect stored
// amounts or aggregation.
type Preferences struct {
	Theme      string `json:"theme"`
	Currency   string `json:"currency"`
	DateFormat string `json:"dateFormat"`
}

// DefaultPreferences returns the preferences assigned to a new profile.
func DefaultPreferences() Preferences {
	return Preferences{
		Theme:      "light",
		Currency:   "INR",
		DateFormat: "DD/MM/YYYY",
	}
}

// User is the locally persisted account profile. One record per signed-in
// identity; never synchronized across devices.
type User struct {
	CreatedAt     time.Time   `json:"createdAt"`
	UpdatedAt     time.Time   `json:"updatedAt"`
	ID            string      `json:"id"`
	Name          string      `json:"name"`
	Email         string      `json:"email"`
	ProfilePicURL string      `json:"profilePicUrl,omitempty"`
	Preferences   Preferences `json:"preferences"`
}
